package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zaiko-app/zaikogo/internal/services/forecast"
)

type trainRequest struct {
	Dealer string `json:"dealer"`
}

func (r *Router) trainModel(w http.ResponseWriter, req *http.Request) {
	var body trainRequest
	if req.ContentLength > 0 {
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			respondError(w, http.StatusBadRequest, "リクエストの形式が正しくありません")
			return
		}
	}

	msg, err := r.forecast.Train(body.Dealer)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, forecast.ErrInsufficientData) {
			status = http.StatusBadRequest
		}
		respondError(w, status, err.Error())
		return
	}
	respondMessage(w, msg)
}

type recommendationView struct {
	ProductID         uint    `json:"product_id"`
	ProductName       string  `json:"product_name"`
	Manufacturer      string  `json:"manufacturer"`
	Reason            string  `json:"reason"`
	Priority          string  `json:"priority"`
	SuggestedQuantity int     `json:"suggested_quantity"`
	CurrentStock      int     `json:"current_stock"`
	MinQuantity       int     `json:"min_quantity"`
	Dealer            *string `json:"dealer"`
}

func (r *Router) getRecommendations(w http.ResponseWriter, req *http.Request) {
	recs, err := r.forecast.Recommendations(req.URL.Query().Get("dealer"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	views := make([]recommendationView, 0, len(recs))
	for _, rec := range recs {
		views = append(views, recommendationView{
			ProductID:         rec.Product.ID,
			ProductName:       rec.Product.ProductName,
			Manufacturer:      rec.Product.Manufacturer,
			Reason:            rec.Reason,
			Priority:          rec.Priority,
			SuggestedQuantity: rec.SuggestedQuantity,
			CurrentStock:      rec.Product.CurrentStock,
			MinQuantity:       rec.Product.MinQuantity,
			Dealer:            rec.Product.Dealer,
		})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"recommendations": views,
	})
}
