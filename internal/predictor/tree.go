package predictor

import (
	"math/rand"
	"sort"
)

// treeNode is one node of a CART regression tree. Leaves carry the mean
// label of their training subset; internal nodes split on a single feature.
type treeNode struct {
	Feature   int       `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Value     float64   `json:"value"`
	Left      *treeNode `json:"left,omitempty"`
	Right     *treeNode `json:"right,omitempty"`
}

func (n *treeNode) isLeaf() bool {
	return n.Left == nil && n.Right == nil
}

func (n *treeNode) predict(x []float64) float64 {
	node := n
	for !node.isLeaf() {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

// treeParams controls CART construction
type treeParams struct {
	maxDepth    int
	minLeaf     int
	maxFeatures int // features sampled per split; 0 means all
}

// buildTree grows a variance-reduction CART on the rows named by idx.
// Split gains are accumulated into importances per feature.
func buildTree(X [][]float64, y []float64, idx []int, depth int, params treeParams, rng *rand.Rand, importances []float64) *treeNode {
	node := &treeNode{Value: meanAt(y, idx)}
	if depth >= params.maxDepth || len(idx) < 2*params.minLeaf {
		return node
	}

	feature, threshold, gain, ok := bestSplit(X, y, idx, params, rng)
	if !ok {
		return node
	}

	left := make([]int, 0, len(idx))
	right := make([]int, 0, len(idx))
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < params.minLeaf || len(right) < params.minLeaf {
		return node
	}

	importances[feature] += gain
	node.Feature = feature
	node.Threshold = threshold
	node.Left = buildTree(X, y, left, depth+1, params, rng, importances)
	node.Right = buildTree(X, y, right, depth+1, params, rng, importances)
	return node
}

// bestSplit scans candidate features for the threshold with the largest
// weighted variance reduction
func bestSplit(X [][]float64, y []float64, idx []int, params treeParams, rng *rand.Rand) (int, float64, float64, bool) {
	p := len(X[0])
	candidates := featureCandidates(p, params.maxFeatures, rng)

	parentSSE := sseAt(y, idx)
	bestGain := 0.0
	bestFeature := -1
	bestThreshold := 0.0

	for _, j := range candidates {
		values := make([]float64, 0, len(idx))
		for _, i := range idx {
			values = append(values, X[i][j])
		}
		sort.Float64s(values)

		for k := 0; k+1 < len(values); k++ {
			if values[k] == values[k+1] {
				continue
			}
			threshold := (values[k] + values[k+1]) / 2

			var leftSum, rightSum float64
			var leftN, rightN int
			for _, i := range idx {
				if X[i][j] <= threshold {
					leftSum += y[i]
					leftN++
				} else {
					rightSum += y[i]
					rightN++
				}
			}
			if leftN < params.minLeaf || rightN < params.minLeaf {
				continue
			}

			var leftSSE, rightSSE float64
			leftMean := leftSum / float64(leftN)
			rightMean := rightSum / float64(rightN)
			for _, i := range idx {
				if X[i][j] <= threshold {
					d := y[i] - leftMean
					leftSSE += d * d
				} else {
					d := y[i] - rightMean
					rightSSE += d * d
				}
			}

			gain := parentSSE - leftSSE - rightSSE
			if gain > bestGain {
				bestGain = gain
				bestFeature = j
				bestThreshold = threshold
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, 0, false
	}
	return bestFeature, bestThreshold, bestGain, true
}

func featureCandidates(p, maxFeatures int, rng *rand.Rand) []int {
	if maxFeatures <= 0 || maxFeatures >= p {
		all := make([]int, p)
		for j := range all {
			all[j] = j
		}
		return all
	}
	perm := rng.Perm(p)
	return perm[:maxFeatures]
}

func meanAt(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

func sseAt(y []float64, idx []int) float64 {
	m := meanAt(y, idx)
	sse := 0.0
	for _, i := range idx {
		d := y[i] - m
		sse += d * d
	}
	return sse
}
