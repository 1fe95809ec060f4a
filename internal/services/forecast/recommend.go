package forecast

import (
	"github.com/zaiko-app/zaikogo/internal/models"
)

// Recommendation priorities and reasons.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"

	reasonLowStock = "在庫不足"
	reasonForecast = "需要予測による推奨"

	// Buffer added on top of the shortfall for low-stock reorders.
	restockBuffer = 10
)

// Recommendation is one ranked reorder suggestion.
type Recommendation struct {
	Product           models.Product `json:"product"`
	Reason            string         `json:"reason"`
	Priority          string         `json:"priority"`
	SuggestedQuantity int            `json:"suggested_quantity"`
}

// Recommendations ranks reorder suggestions for every product in scope.
// Stock shortfalls alone are a sufficient signal and skip the model; for
// adequately stocked products a demand prediction is attempted, and products
// whose prediction fails are silently omitted. High-priority entries always
// precede medium ones, preserving product order within each tier.
func (s *Service) Recommendations(dealer string) ([]Recommendation, error) {
	products, err := s.store.ListAll(dealer)
	if err != nil {
		return nil, err
	}

	var high, medium []Recommendation
	for _, p := range products {
		if p.CurrentStock < p.MinQuantity {
			high = append(high, Recommendation{
				Product:           p,
				Reason:            reasonLowStock,
				Priority:          PriorityHigh,
				SuggestedQuantity: p.MinQuantity - p.CurrentStock + restockBuffer,
			})
			continue
		}

		pred, err := s.Predict(p.ID, dealer)
		if err != nil {
			// No trained model or too little history: not an error, the
			// product simply yields no recommendation.
			continue
		}
		if pred.PredictedDemand > p.CurrentStock {
			medium = append(medium, Recommendation{
				Product:           p,
				Reason:            reasonForecast,
				Priority:          PriorityMedium,
				SuggestedQuantity: pred.PredictedDemand - p.CurrentStock,
			})
		}
	}

	return append(high, medium...), nil
}
