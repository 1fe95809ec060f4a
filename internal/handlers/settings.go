package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/zaiko-app/zaikogo/internal/models"
	"github.com/zaiko-app/zaikogo/internal/utils"
)

type bulkSettingsRequest struct {
	Action string   `json:"action"` // "add" or "remove"
	Field  string   `json:"field"`  // "category", "dealer", "manufacturer"
	Values []string `json:"values"`
}

// bulkUpdateSettings registers or removes category/dealer/manufacturer
// values across the catalog. Adding a category or dealer that matches no
// product creates a placeholder row so the value still appears in pickers.
func (r *Router) bulkUpdateSettings(w http.ResponseWriter, req *http.Request) {
	var body bulkSettingsRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "リクエストの形式が正しくありません")
		return
	}
	if body.Action == "" || body.Field == "" || len(body.Values) == 0 {
		respondError(w, http.StatusBadRequest, "必要なパラメータが不足しています")
		return
	}

	switch body.Action {
	case "add":
		r.bulkAddValues(w, body.Field, body.Values)
	case "remove":
		var removed int64
		for _, value := range body.Values {
			n, err := r.store.ClearFieldValue(body.Field, value)
			if err != nil {
				respondError(w, http.StatusBadRequest, err.Error())
				return
			}
			removed += n
		}
		respondMessage(w, fmt.Sprintf("%d件の%sを削除しました（影響商品数: %d件）", len(body.Values), body.Field, removed))
	default:
		respondError(w, http.StatusBadRequest, "無効なアクションです")
	}
}

func (r *Router) bulkAddValues(w http.ResponseWriter, field string, values []string) {
	var updated int64
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		n, err := r.store.AssignFieldWhereNull(field, value)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		updated += n
	}

	// Categories and dealers are registered even when no product carries
	// them yet, via placeholder rows.
	if updated == 0 && (field == "category" || field == "dealer") {
		for _, value := range values {
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			created, err := r.ensurePlaceholder(field, value)
			if err != nil {
				respondError(w, http.StatusInternalServerError, err.Error())
				return
			}
			if created {
				updated++
			}
		}
		label := "カテゴリ"
		if field == "dealer" {
			label = "取引会社"
		}
		respondMessage(w, fmt.Sprintf("%d件の%sを登録しました（更新件数: %d件）", len(values), label, updated))
		return
	}

	if updated == 0 {
		respondMessage(w, fmt.Sprintf("%d件の%sを登録しました（対象商品なし）", len(values), field))
		return
	}
	respondMessage(w, fmt.Sprintf("%d件の%sを追加しました（更新件数: %d件）", len(values), field, updated))
}

// ensurePlaceholder creates the bookkeeping product that registers a
// category or dealer value with no real product behind it.
func (r *Router) ensurePlaceholder(field, value string) (bool, error) {
	existing, err := r.store.FindPlaceholder(field, value)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	var codePrefix, name string
	placeholder := &models.Product{
		Manufacturer:  "システム",
		UnitPrice:     decimal.Zero,
		IsPlaceholder: true,
	}
	sys := "システム管理"
	switch field {
	case "category":
		codePrefix = "CATEGORY"
		name = "カテゴリ管理用_" + value
		v := value
		placeholder.Category = &v
		placeholder.Dealer = &sys
	case "dealer":
		codePrefix = "DEALER"
		name = "取引会社管理用_" + value
		v := value
		placeholder.Dealer = &v
		placeholder.Category = &sys
	}
	placeholder.ProductName = name

	code, err := utils.GenerateCode(codePrefix, r.store.CodeExists)
	if err != nil {
		return false, err
	}
	placeholder.ProductCode = code

	if err := r.store.CreateProduct(placeholder); err != nil {
		return false, err
	}
	return true, nil
}

type bulkRenameRequest struct {
	Field        string `json:"field"`
	CurrentValue string `json:"current_value"`
	NewValue     string `json:"new_value"`
}

func (r *Router) bulkRenameField(w http.ResponseWriter, req *http.Request) {
	var body bulkRenameRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "リクエストの形式が正しくありません")
		return
	}
	if body.Field == "" || body.CurrentValue == "" || body.NewValue == "" {
		respondError(w, http.StatusBadRequest, "必要なパラメータが不足しています")
		return
	}

	n, err := r.store.RenameFieldValue(body.Field, body.CurrentValue, body.NewValue)
	if err != nil {
		respondError(w, http.StatusBadRequest, "無効なフィールドです")
		return
	}
	respondMessage(w, fmt.Sprintf("%d件の商品の%sを更新しました", n, body.Field))
}

type bulkIDsRequest struct {
	Category   string `json:"category"`
	Dealer     string `json:"dealer"`
	ProductIDs []uint `json:"product_ids"`
}

func (r *Router) bulkSetCategory(w http.ResponseWriter, req *http.Request) {
	var body bulkIDsRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "リクエストの形式が正しくありません")
		return
	}
	if body.Category == "" {
		respondError(w, http.StatusBadRequest, "カテゴリ名が指定されていません")
		return
	}
	if len(body.ProductIDs) == 0 {
		respondError(w, http.StatusBadRequest, "商品が選択されていません")
		return
	}
	n, err := r.store.SetFieldForIDs("category", body.ProductIDs, body.Category)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondMessage(w, fmt.Sprintf("%d件の商品のカテゴリを設定しました", n))
}

func (r *Router) bulkSetDealer(w http.ResponseWriter, req *http.Request) {
	var body bulkIDsRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "リクエストの形式が正しくありません")
		return
	}
	if body.Dealer == "" {
		respondError(w, http.StatusBadRequest, "取引会社名が指定されていません")
		return
	}
	if len(body.ProductIDs) == 0 {
		respondError(w, http.StatusBadRequest, "商品が選択されていません")
		return
	}
	n, err := r.store.SetFieldForIDs("dealer", body.ProductIDs, body.Dealer)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondMessage(w, fmt.Sprintf("%d件の商品の取引会社を設定しました", n))
}

func (r *Router) bulkDeleteProducts(w http.ResponseWriter, req *http.Request) {
	var body bulkIDsRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "リクエストの形式が正しくありません")
		return
	}
	if len(body.ProductIDs) == 0 {
		respondError(w, http.StatusBadRequest, "削除する商品が選択されていません")
		return
	}
	n, err := r.store.DeleteProducts(body.ProductIDs)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "商品の削除に失敗しました")
		return
	}
	respondMessage(w, fmt.Sprintf("%d件の商品を削除しました", n))
}

func (r *Router) listDuplicates(w http.ResponseWriter, req *http.Request) {
	groups, err := r.store.ListDuplicateGroups()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"duplicates":       groups,
		"total_duplicates": len(groups),
	})
}

func (r *Router) cleanDuplicates(w http.ResponseWriter, req *http.Request) {
	n, err := r.store.CleanDuplicateGroups()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "重複商品の削除に失敗しました")
		return
	}
	respondMessage(w, fmt.Sprintf("%d件の重複商品を削除しました", n))
}
