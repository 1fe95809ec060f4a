package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/zaiko-app/zaikogo/internal/models"
)

// ErrUnknownField is returned by bulk operations when the field name is not
// one of category, dealer, manufacturer.
var ErrUnknownField = errors.New("unknown product field")

// Store is the narrow persistence contract consumed by the import and
// forecast services. It wraps a gorm connection; service code never touches
// gorm directly.
type Store struct {
	db *gorm.DB
}

// New creates a Store on top of an open gorm connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Transaction runs fn against a transactional Store. Any error rolls the
// whole transaction back.
func (s *Store) Transaction(fn func(tx *Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// ProductFilter narrows ListProducts. Placeholder rows are excluded unless
// IncludePlaceholders is set.
type ProductFilter struct {
	Search              string
	Dealer              string
	SortBy              string
	SortOrder           string
	IncludePlaceholders bool
}

var sortableColumns = map[string]bool{
	"product_name":  true,
	"product_code":  true,
	"manufacturer":  true,
	"category":      true,
	"dealer":        true,
	"unit_price":    true,
	"current_stock": true,
	"min_quantity":  true,
	"updated_at":    true,
}

// ListProducts returns catalog entries matching the filter.
func (s *Store) ListProducts(f ProductFilter) ([]models.Product, error) {
	q := s.db.Model(&models.Product{})
	if !f.IncludePlaceholders {
		q = q.Where("is_placeholder = ?", false)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("product_name LIKE ? OR manufacturer LIKE ? OR category LIKE ?", like, like, like)
	}
	if f.Dealer != "" {
		q = q.Where("dealer = ?", f.Dealer)
	}

	sortBy := f.SortBy
	if !sortableColumns[sortBy] {
		sortBy = "product_name"
	}
	order := sortBy
	if f.SortOrder == "desc" {
		order += " DESC"
	}
	q = q.Order(order)

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// ListAll returns every product ordered by id, placeholders excluded.
// Used by the import pre-load and the recommendation ranker, which both need
// a stable iteration order.
func (s *Store) ListAll(dealer string) ([]models.Product, error) {
	q := s.db.Where("is_placeholder = ?", false).Order("id")
	if dealer != "" {
		q = q.Where("dealer = ?", dealer)
	}
	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// FindByID returns the product with the given id, or nil when absent.
func (s *Store) FindByID(id uint) (*models.Product, error) {
	var p models.Product
	err := s.db.First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByCode returns the product with the given code, or nil when absent.
func (s *Store) FindByCode(code string) (*models.Product, error) {
	var p models.Product
	err := s.db.Where("product_code = ?", code).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CodeExists reports whether a product code is already taken.
func (s *Store) CodeExists(code string) (bool, error) {
	var n int64
	if err := s.db.Model(&models.Product{}).Where("product_code = ?", code).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// FindByIdentity returns the product matching the exact
// (name, manufacturer, dealer) tuple, or nil when absent. A nil dealer
// matches rows with no dealer assigned.
func (s *Store) FindByIdentity(name, manufacturer string, dealer *string) (*models.Product, error) {
	q := s.db.Where("product_name = ? AND manufacturer = ?", name, manufacturer)
	if dealer == nil {
		q = q.Where("dealer IS NULL")
	} else {
		q = q.Where("dealer = ?", *dealer)
	}
	var p models.Product
	err := q.First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct inserts a new product.
func (s *Store) CreateProduct(p *models.Product) error {
	return s.db.Create(p).Error
}

// SaveProduct persists all fields of an existing product.
func (s *Store) SaveProduct(p *models.Product) error {
	return s.db.Save(p).Error
}

// DeleteProduct removes a product together with its order history, so no
// dangling history rows survive.
func (s *Store) DeleteProduct(id uint) error {
	return s.Transaction(func(tx *Store) error {
		if err := tx.db.Where("product_id = ?", id).Delete(&models.OrderHistory{}).Error; err != nil {
			return err
		}
		return tx.db.Delete(&models.Product{}, id).Error
	})
}

// DeleteProducts removes the given products and their history in one
// transaction, returning the number of products deleted.
func (s *Store) DeleteProducts(ids []uint) (int64, error) {
	var deleted int64
	err := s.Transaction(func(tx *Store) error {
		if err := tx.db.Where("product_id IN ?", ids).Delete(&models.OrderHistory{}).Error; err != nil {
			return err
		}
		res := tx.db.Where("id IN ?", ids).Delete(&models.Product{})
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, err
}

// AppendOrder inserts an immutable order-history row. A zero OrderDate is
// set to the current time.
func (s *Store) AppendOrder(o *models.OrderHistory) error {
	if o.OrderDate.IsZero() {
		o.OrderDate = time.Now().UTC()
	}
	return s.db.Create(o).Error
}

// ListOrderHistory returns all history rows for one product.
func (s *Store) ListOrderHistory(productID uint) ([]models.OrderHistory, error) {
	var orders []models.OrderHistory
	if err := s.db.Where("product_id = ?", productID).Order("order_date").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list order history: %w", err)
	}
	return orders, nil
}

// ListOrderHistoryByDealer returns history rows joined to products, optionally
// restricted to one dealer. An empty dealer returns every row.
func (s *Store) ListOrderHistoryByDealer(dealer string) ([]models.OrderHistory, error) {
	q := s.db.Model(&models.OrderHistory{})
	if dealer != "" {
		q = q.Joins("JOIN products ON products.id = order_histories.product_id").
			Where("products.dealer = ?", dealer)
	}
	var orders []models.OrderHistory
	if err := q.Order("order_histories.order_date").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list order history: %w", err)
	}
	return orders, nil
}

// DistinctValues returns the sorted distinct non-null values of a product
// column (category, dealer or manufacturer). Placeholder rows are included:
// they exist precisely to register such values.
func (s *Store) DistinctValues(field string) ([]string, error) {
	if field != "category" && field != "dealer" && field != "manufacturer" {
		return nil, ErrUnknownField
	}
	var values []string
	err := s.db.Model(&models.Product{}).
		Distinct(field).
		Where(field+" IS NOT NULL AND "+field+" <> ''").
		Order(field).
		Pluck(field, &values).Error
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", field, err)
	}
	return values, nil
}

// AssignFieldWhereNull sets value on every product whose field is currently
// unset, returning the number of rows touched.
func (s *Store) AssignFieldWhereNull(field, value string) (int64, error) {
	if field != "category" && field != "dealer" && field != "manufacturer" {
		return 0, ErrUnknownField
	}
	res := s.db.Model(&models.Product{}).Where(field + " IS NULL").Update(field, value)
	return res.RowsAffected, res.Error
}

// ClearFieldValue unsets the given value of a field across all products,
// returning the number of rows touched.
func (s *Store) ClearFieldValue(field, value string) (int64, error) {
	if field != "category" && field != "dealer" && field != "manufacturer" {
		return 0, ErrUnknownField
	}
	res := s.db.Model(&models.Product{}).Where(field+" = ?", value).Update(field, nil)
	return res.RowsAffected, res.Error
}

// RenameFieldValue replaces one value of a field with another across all
// products.
func (s *Store) RenameFieldValue(field, current, next string) (int64, error) {
	if field != "category" && field != "dealer" && field != "manufacturer" {
		return 0, ErrUnknownField
	}
	res := s.db.Model(&models.Product{}).Where(field+" = ?", current).Update(field, next)
	return res.RowsAffected, res.Error
}

// SetFieldForIDs sets a field value on an explicit product id list.
func (s *Store) SetFieldForIDs(field string, ids []uint, value string) (int64, error) {
	if field != "category" && field != "dealer" && field != "manufacturer" {
		return 0, ErrUnknownField
	}
	res := s.db.Model(&models.Product{}).Where("id IN ?", ids).Update(field, value)
	return res.RowsAffected, res.Error
}

// FindPlaceholder returns the placeholder row registering the given
// category or dealer value, or nil when none exists.
func (s *Store) FindPlaceholder(field, value string) (*models.Product, error) {
	if field != "category" && field != "dealer" {
		return nil, ErrUnknownField
	}
	var p models.Product
	err := s.db.Where("is_placeholder = ?", true).Where(field+" = ?", value).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ExistingProductNames returns which of the given names are already present
// in the catalog.
func (s *Store) ExistingProductNames(names []string) ([]string, error) {
	var found []string
	err := s.db.Model(&models.Product{}).
		Where("product_name IN ?", names).
		Pluck("product_name", &found).Error
	if err != nil {
		return nil, fmt.Errorf("existing product names: %w", err)
	}
	return found, nil
}

// CreateImportLog records a CSV import attempt.
func (s *Store) CreateImportLog(l *models.ImportLog) error {
	return s.db.Create(l).Error
}
