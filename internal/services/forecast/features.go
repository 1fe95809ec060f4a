package forecast

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/zaiko-app/zaikogo/internal/models"
)

// minTrainingRecords is the smallest order-history sample the trainer
// accepts; smaller scopes produce degenerate fits.
const minTrainingRecords = 10

const featureCount = 4

// productFeatures are the per-product aggregates the demand model consumes:
// mean and standard deviation of order quantity, record count, and days
// elapsed since the product's most recent order.
type productFeatures struct {
	ProductID     uint
	MeanQty       float64
	StdQty        float64
	OrderCount    int
	DaysSinceLast float64
}

func (f productFeatures) vector() []float64 {
	return []float64{f.MeanQty, f.StdQty, float64(f.OrderCount), f.DaysSinceLast}
}

// buildFeatures aggregates order history by product. Recency is measured
// against the most recent order date in the whole dataset, not wall-clock
// now: the training basis is the data's own horizon.
func buildFeatures(orders []models.OrderHistory) ([]productFeatures, error) {
	if len(orders) < minTrainingRecords {
		return nil, ErrInsufficientData
	}

	grouped := map[uint][]models.OrderHistory{}
	var order []uint
	var latest time.Time
	for _, o := range orders {
		if _, seen := grouped[o.ProductID]; !seen {
			order = append(order, o.ProductID)
		}
		grouped[o.ProductID] = append(grouped[o.ProductID], o)
		if o.OrderDate.After(latest) {
			latest = o.OrderDate
		}
	}

	features := make([]productFeatures, 0, len(order))
	for _, id := range order {
		rows := grouped[id]
		qty := make([]float64, len(rows))
		var lastOrder time.Time
		for i, r := range rows {
			qty[i] = float64(r.Quantity)
			if r.OrderDate.After(lastOrder) {
				lastOrder = r.OrderDate
			}
		}

		// Sample standard deviation, zeroed for single-row products.
		std := stat.StdDev(qty, nil)
		if math.IsNaN(std) {
			std = 0
		}

		features = append(features, productFeatures{
			ProductID:     id,
			MeanQty:       stat.Mean(qty, nil),
			StdQty:        std,
			OrderCount:    len(rows),
			DaysSinceLast: math.Floor(latest.Sub(lastOrder).Hours() / 24),
		})
	}
	return features, nil
}

// predictionFeatures builds the same four aggregates for a single product at
// prediction time. Recency here uses wall-clock now, intentionally different
// from the training-time basis.
func predictionFeatures(orders []models.OrderHistory, now time.Time) []float64 {
	qty := make([]float64, len(orders))
	var lastOrder time.Time
	for i, o := range orders {
		qty[i] = float64(o.Quantity)
		if o.OrderDate.After(lastOrder) {
			lastOrder = o.OrderDate
		}
	}

	// Population standard deviation at prediction time, mirroring the
	// training/prediction asymmetry of the original model.
	mean := stat.Mean(qty, nil)
	var ss float64
	for _, q := range qty {
		d := q - mean
		ss += d * d
	}
	popStd := math.Sqrt(ss / float64(len(qty)))

	return []float64{
		mean,
		popStd,
		float64(len(orders)),
		math.Floor(now.Sub(lastOrder).Hours() / 24),
	}
}
