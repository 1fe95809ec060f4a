package forecast

import (
	"math/rand"
	"sort"
)

const (
	forestSize   = 100
	minLeafSize  = 2
	maxTreeDepth = 25
)

// TreeNode is one node of a regression tree. Leaves carry the mean target of
// their training subset; internal nodes split a feature at a threshold.
// Exported fields keep the trees gob-encodable.
type TreeNode struct {
	Leaf      bool
	Value     float64
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
}

// Forest is a bagged ensemble of regression trees. Predictions are the mean
// of the per-tree predictions.
type Forest struct {
	Trees []*TreeNode
}

// trainForest fits forestSize trees, each on a bootstrap sample of the
// training rows. The caller seeds rng, which makes training fully
// deterministic.
func trainForest(rows [][]float64, targets []float64, rng *rand.Rand) *Forest {
	f := &Forest{Trees: make([]*TreeNode, 0, forestSize)}
	n := len(rows)
	for t := 0; t < forestSize; t++ {
		sampleRows := make([][]float64, n)
		sampleTargets := make([]float64, n)
		for i := 0; i < n; i++ {
			j := rng.Intn(n)
			sampleRows[i] = rows[j]
			sampleTargets[i] = targets[j]
		}
		f.Trees = append(f.Trees, buildTree(sampleRows, sampleTargets, 0))
	}
	return f
}

// Predict returns the ensemble mean for one feature vector.
func (f *Forest) Predict(row []float64) float64 {
	var sum float64
	for _, t := range f.Trees {
		sum += t.predict(row)
	}
	return sum / float64(len(f.Trees))
}

func (n *TreeNode) predict(row []float64) float64 {
	for !n.Leaf {
		if row[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Value
}

func buildTree(rows [][]float64, targets []float64, depth int) *TreeNode {
	if len(rows) < 2*minLeafSize || depth >= maxTreeDepth || constant(targets) {
		return &TreeNode{Leaf: true, Value: mean(targets)}
	}

	feature, threshold, ok := bestSplit(rows, targets)
	if !ok {
		return &TreeNode{Leaf: true, Value: mean(targets)}
	}

	var leftRows, rightRows [][]float64
	var leftT, rightT []float64
	for i, row := range rows {
		if row[feature] <= threshold {
			leftRows = append(leftRows, row)
			leftT = append(leftT, targets[i])
		} else {
			rightRows = append(rightRows, row)
			rightT = append(rightT, targets[i])
		}
	}
	if len(leftRows) == 0 || len(rightRows) == 0 {
		return &TreeNode{Leaf: true, Value: mean(targets)}
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      buildTree(leftRows, leftT, depth+1),
		Right:     buildTree(rightRows, rightT, depth+1),
	}
}

// bestSplit scans every feature and every midpoint between adjacent distinct
// values, picking the split with the lowest weighted sum of squared errors.
func bestSplit(rows [][]float64, targets []float64) (int, float64, bool) {
	bestSSE := sse(targets)
	bestFeature, bestThreshold := -1, 0.0

	nFeatures := len(rows[0])
	idx := make([]int, len(rows))

	for f := 0; f < nFeatures; f++ {
		for i := range idx {
			idx[i] = i
		}
		sort.Slice(idx, func(a, b int) bool { return rows[idx[a]][f] < rows[idx[b]][f] })

		for i := minLeafSize; i <= len(idx)-minLeafSize; i++ {
			lo, hi := rows[idx[i-1]][f], rows[idx[i]][f]
			if lo == hi {
				continue
			}
			threshold := (lo + hi) / 2

			var leftT, rightT []float64
			for j, row := range rows {
				if row[f] <= threshold {
					leftT = append(leftT, targets[j])
				} else {
					rightT = append(rightT, targets[j])
				}
			}
			if total := sse(leftT) + sse(rightT); total < bestSSE {
				bestSSE = total
				bestFeature = f
				bestThreshold = threshold
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func sse(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	var total float64
	for _, x := range xs {
		d := x - m
		total += d * d
	}
	return total
}

func constant(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}
