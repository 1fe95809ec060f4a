package forecast

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Scaler standardizes feature vectors to zero mean and unit variance.
// Exported fields keep it gob-encodable alongside the forest.
type Scaler struct {
	Mean []float64
	Std  []float64
}

// Fit computes per-feature mean and population standard deviation from the
// training rows only. Zero-variance features scale by 1 so they pass through
// unchanged.
func (s *Scaler) Fit(rows [][]float64) {
	if len(rows) == 0 {
		return
	}
	n := len(rows[0])
	s.Mean = make([]float64, n)
	s.Std = make([]float64, n)

	col := make([]float64, len(rows))
	for j := 0; j < n; j++ {
		for i, row := range rows {
			col[i] = row[j]
		}
		mean := stat.Mean(col, nil)
		var ss float64
		for _, v := range col {
			d := v - mean
			ss += d * d
		}
		std := math.Sqrt(ss / float64(len(col)))
		if std == 0 {
			std = 1
		}
		s.Mean[j] = mean
		s.Std[j] = std
	}
}

// Transform standardizes one feature vector into a new slice.
func (s *Scaler) Transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return out
}

// TransformAll standardizes a batch.
func (s *Scaler) TransformAll(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = s.Transform(row)
	}
	return out
}
