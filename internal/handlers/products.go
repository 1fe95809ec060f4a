package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/zaiko-app/zaikogo/internal/models"
	"github.com/zaiko-app/zaikogo/internal/store"
	"github.com/zaiko-app/zaikogo/internal/utils"
)

// DuplicateProductError reports a manual creation colliding with either the
// product-code uniqueness constraint or an existing
// (name, manufacturer, dealer) identity.
type DuplicateProductError struct {
	Message string
}

func (e *DuplicateProductError) Error() string { return e.Message }

func (r *Router) listProducts(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	products, err := r.store.ListProducts(store.ProductFilter{
		Search:    q.Get("search"),
		Dealer:    q.Get("dealer"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, products)
}

type createProductRequest struct {
	ProductCode  string           `json:"product_code"`
	ProductName  string           `json:"product_name"`
	Manufacturer string           `json:"manufacturer"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	CurrentStock int              `json:"current_stock"`
	MinQuantity  int              `json:"min_quantity"`
	Category     string           `json:"category"`
	Dealer       string           `json:"dealer"`
}

func (r *Router) createProduct(w http.ResponseWriter, req *http.Request) {
	var body createProductRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "リクエストの形式が正しくありません")
		return
	}
	if body.ProductName == "" || body.Manufacturer == "" || body.UnitPrice == nil {
		respondError(w, http.StatusBadRequest, "商品名・メーカー・単価は必須です")
		return
	}

	product, err := r.buildProduct(&body)
	if err != nil {
		if dup, ok := err.(*DuplicateProductError); ok {
			respondError(w, http.StatusBadRequest, dup.Message)
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := r.store.CreateProduct(product); err != nil {
		respondError(w, http.StatusBadRequest, "商品の登録に失敗しました")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"message":    "商品を登録しました",
		"product_id": product.ID,
	})
}

// buildProduct validates uniqueness and assembles the model. The
// (name, manufacturer, dealer) identity is checked here because the schema
// deliberately does not enforce it.
func (r *Router) buildProduct(body *createProductRequest) (*models.Product, error) {
	code := body.ProductCode
	if code == "" {
		generated, err := utils.GenerateProductCode(body.Manufacturer, r.store.CodeExists)
		if err != nil {
			return nil, err
		}
		code = generated
	} else {
		taken, err := r.store.CodeExists(code)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, &DuplicateProductError{Message: "この商品コードは既に使用されています"}
		}
	}

	var dealer *string
	if body.Dealer != "" {
		dealer = &body.Dealer
	}
	existing, err := r.store.FindByIdentity(body.ProductName, body.Manufacturer, dealer)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		label := "未設定"
		if existing.Dealer != nil {
			label = *existing.Dealer
		}
		return nil, &DuplicateProductError{
			Message: fmt.Sprintf("同じ商品が既に登録されています（取引会社: %s）", label),
		}
	}

	product := &models.Product{
		ProductCode:  code,
		ProductName:  body.ProductName,
		Manufacturer: body.Manufacturer,
		UnitPrice:    *body.UnitPrice,
		CurrentStock: body.CurrentStock,
		MinQuantity:  body.MinQuantity,
		Dealer:       dealer,
	}
	if body.Category != "" {
		product.Category = &body.Category
	}
	return product, nil
}

type updateProductRequest struct {
	CurrentStock *int             `json:"current_stock"`
	MinQuantity  *int             `json:"min_quantity"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	Category     *string          `json:"category"`
	Dealer       *string          `json:"dealer"`
}

func (r *Router) updateProduct(w http.ResponseWriter, req *http.Request) {
	product, ok := r.productFromPath(w, req)
	if !ok {
		return
	}

	var body updateProductRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "リクエストの形式が正しくありません")
		return
	}

	if body.CurrentStock != nil {
		product.CurrentStock = *body.CurrentStock
	}
	if body.MinQuantity != nil {
		product.MinQuantity = *body.MinQuantity
	}
	if body.UnitPrice != nil {
		product.UnitPrice = *body.UnitPrice
	}
	if body.Category != nil {
		product.Category = body.Category
	}
	if body.Dealer != nil {
		product.Dealer = body.Dealer
	}

	if err := r.store.SaveProduct(product); err != nil {
		respondError(w, http.StatusBadRequest, "商品情報の更新に失敗しました")
		return
	}
	respondMessage(w, "商品情報を更新しました")
}

func (r *Router) deleteProduct(w http.ResponseWriter, req *http.Request) {
	product, ok := r.productFromPath(w, req)
	if !ok {
		return
	}

	// History rows go with the product; no dangling references survive.
	if err := r.store.DeleteProduct(product.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "商品の削除に失敗しました")
		return
	}
	respondMessage(w, "商品を削除しました")
}

type adjustStockRequest struct {
	Adjustment int    `json:"adjustment"`
	Dealer     string `json:"dealer"`
}

func (r *Router) adjustStock(w http.ResponseWriter, req *http.Request) {
	product, ok := r.productFromPath(w, req)
	if !ok {
		return
	}

	var body adjustStockRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "リクエストの形式が正しくありません")
		return
	}

	product.CurrentStock += body.Adjustment
	if err := r.store.SaveProduct(product); err != nil {
		respondError(w, http.StatusBadRequest, "在庫の調整に失敗しました")
		return
	}

	// Positive adjustments count as restocks and enter the order history.
	if body.Adjustment > 0 {
		dealer := body.Dealer
		if dealer == "" {
			dealer = "手動調整"
		}
		if err := r.store.AppendOrder(&models.OrderHistory{
			ProductID: product.ID,
			Quantity:  body.Adjustment,
			Dealer:    dealer,
		}); err != nil {
			respondError(w, http.StatusInternalServerError, "注文履歴の記録に失敗しました")
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   fmt.Sprintf("在庫を%+d調整しました", body.Adjustment),
		"new_stock": product.CurrentStock,
	})
}

func (r *Router) productFromPath(w http.ResponseWriter, req *http.Request) (*models.Product, bool) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "商品IDが正しくありません")
		return nil, false
	}
	product, err := r.store.FindByID(uint(id))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "商品の取得に失敗しました")
		return nil, false
	}
	if product == nil {
		respondError(w, http.StatusNotFound, "商品が見つかりません")
		return nil, false
	}
	return product, true
}

func (r *Router) listDealers(w http.ResponseWriter, req *http.Request) {
	r.listDistinct(w, "dealer", "dealers")
}

func (r *Router) listCategories(w http.ResponseWriter, req *http.Request) {
	r.listDistinct(w, "category", "categories")
}

func (r *Router) listManufacturers(w http.ResponseWriter, req *http.Request) {
	r.listDistinct(w, "manufacturer", "manufacturers")
}

func (r *Router) listDistinct(w http.ResponseWriter, field, key string) {
	values, err := r.store.DistinctValues(field)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if values == nil {
		values = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		key:       values,
	})
}

type alert struct {
	Type         string  `json:"type"`
	ProductName  string  `json:"product_name"`
	Manufacturer string  `json:"manufacturer"`
	CurrentStock int     `json:"current_stock"`
	MinQuantity  int     `json:"min_quantity"`
	Shortage     int     `json:"shortage"`
	Dealer       *string `json:"dealer"`
}

func (r *Router) getAlerts(w http.ResponseWriter, req *http.Request) {
	products, err := r.store.ListAll(req.URL.Query().Get("dealer"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	alerts := []alert{}
	for _, p := range products {
		if p.CurrentStock < p.MinQuantity {
			alerts = append(alerts, alert{
				Type:         "low_stock",
				ProductName:  p.ProductName,
				Manufacturer: p.Manufacturer,
				CurrentStock: p.CurrentStock,
				MinQuantity:  p.MinQuantity,
				Shortage:     p.MinQuantity - p.CurrentStock,
				Dealer:       p.Dealer,
			})
		}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"alerts":  alerts,
	})
}
