package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zaiko-app/zaikogo/internal/config"
	"github.com/zaiko-app/zaikogo/internal/database"
	"github.com/zaiko-app/zaikogo/internal/models"
)

type demoProduct struct {
	Code         string
	Name         string
	Manufacturer string
	Category     string
	Dealer       string
	Price        int64
	Stock        int
	MinQty       int
}

func main() {
	fmt.Println("🌱 Zaiko Demo Data Seeder")
	fmt.Println("=" + string(make([]rune, 60)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("✅ Connected to database")
	fmt.Println()

	fmt.Println("🔨 Running database migrations...")
	err = db.AutoMigrate(
		&models.Product{},
		&models.OrderHistory{},
		&models.ImportLog{},
	)
	if err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	fmt.Println("✅ Migrations complete")
	fmt.Println()

	var productCount int64
	db.DB.Model(&models.Product{}).Count(&productCount)
	if productCount > 0 {
		fmt.Printf("⚠️  Database already has %d products. Clear it first? (y/N): ", productCount)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("❌ Aborted. Database not modified.")
			return
		}

		fmt.Println("🗑️  Clearing existing data...")
		db.DB.Exec("DELETE FROM order_histories")
		db.DB.Exec("DELETE FROM import_logs")
		db.DB.Exec("DELETE FROM products")
		fmt.Println("✅ Data cleared")
	}

	fmt.Println()
	fmt.Println("📦 Creating demo data...")
	fmt.Println()

	fmt.Println("📦 Creating products...")
	demo := []demoProduct{
		{"シヤン_00001", "モイストシャンプー 500ml", "シヤンテック", "ヘアケア", "トヨタ", 1800, 24, 10},
		{"シヤン_00002", "モイストトリートメント 500g", "シヤンテック", "ヘアケア", "トヨタ", 2200, 18, 10},
		{"ルベル_00001", "イオ クレンジング 600ml", "ルベル", "ヘアケア", "ホンダ", 2600, 6, 10},
		{"ルベル_00002", "イオ エッセンス スリーク", "ルベル", "スタイリング", "ホンダ", 1400, 30, 5},
		{"ミルボ_00001", "ディーセス エルジューダ", "ミルボン", "アウトバス", "日産", 2860, 3, 8},
		{"ミルボ_00002", "ジェミールフラン ジュレ", "ミルボン", "スタイリング", "日産", 1980, 15, 5},
		{"ナプラ_00001", "N. ポリッシュオイル 150ml", "ナプラ", "アウトバス", "GAMO", 3740, 2, 6},
		{"ナプラ_00002", "N. シアシャンプー モイスチャー", "ナプラ", "ヘアケア", "GAMO", 2640, 12, 6},
		{"アリミ_00001", "ピース フリーズキープワックス", "アリミノ", "スタイリング", "マツダ", 1650, 40, 10},
		{"アリミ_00002", "スパイス シャワー フリーズ", "アリミノ", "スタイリング", "マツダ", 1320, 8, 10},
	}

	for _, d := range demo {
		category := d.Category
		dealer := d.Dealer
		p := models.Product{
			ProductCode:  d.Code,
			ProductName:  d.Name,
			Manufacturer: d.Manufacturer,
			Category:     &category,
			Dealer:       &dealer,
			UnitPrice:    decimal.NewFromInt(d.Price),
			CurrentStock: d.Stock,
			MinQuantity:  d.MinQty,
		}
		if err := db.DB.Create(&p).Error; err != nil {
			log.Printf("⚠️  Failed to create product %s: %v", d.Name, err)
		} else {
			fmt.Printf("   ✓ Created product: [%s] %s\n", d.Code, d.Name)
		}
	}
	fmt.Printf("✅ Created %d products\n\n", len(demo))

	fmt.Println("📋 Creating order history...")
	var products []models.Product
	if err := db.DB.Order("id").Find(&products).Error; err != nil {
		log.Fatalf("❌ Failed to list products: %v", err)
	}

	// Deterministic so repeated seeds train the same model.
	rng := rand.New(rand.NewSource(1))
	orderCount := 0
	now := time.Now().UTC()
	for _, p := range products {
		// 4 to 9 historical orders per product over the last half year.
		n := 4 + rng.Intn(6)
		for i := 0; i < n; i++ {
			o := models.OrderHistory{
				ProductID: p.ID,
				Quantity:  1 + rng.Intn(p.MinQuantity*2),
				OrderDate: now.AddDate(0, 0, -rng.Intn(180)),
			}
			if p.Dealer != nil {
				o.Dealer = *p.Dealer
			}
			if err := db.DB.Create(&o).Error; err != nil {
				log.Printf("⚠️  Failed to create order for %s: %v", p.ProductCode, err)
				continue
			}
			orderCount++
		}
	}
	fmt.Printf("✅ Created %d order history records\n\n", orderCount)

	fmt.Println()
	fmt.Println("=" + string(make([]rune, 60)))
	fmt.Println("🎉 Demo data created successfully!")
	fmt.Println()
	fmt.Println("📊 Summary:")
	fmt.Printf("   • %d products across 5 dealers\n", len(demo))
	fmt.Printf("   • %d order history records\n", orderCount)
	fmt.Println()
	fmt.Println("🚀 Start the server:")
	fmt.Println("   go run ./cmd/api/main.go")
	fmt.Println("   Then: curl -X POST http://localhost:3210/api/ml/train")
	fmt.Println("         curl http://localhost:3210/api/ml/recommendations")
	fmt.Println("=" + string(make([]rune, 60)))
}
