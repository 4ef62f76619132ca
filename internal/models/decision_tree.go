package models

import (
	"math"
	"math/rand"
	"sort"
)

type DTNode struct {
	Feature   int
	Threshold float64
	Left      *DTNode
	Right     *DTNode
	IsLeaf    bool
	Value     float64
}

// DecisionTree fits real-valued targets; leaf values are subset target
// means, so with 0/1 labels they are positive-class fractions and with
// boosting residuals they are mean residuals.
type DecisionTree struct {
	MaxDepth        int
	MinSamplesSplit int
	MaxFeatures     int
	MaxThresholds   int
	Root            *DTNode
	rng             *rand.Rand
}

func NewDecisionTree(rng *rand.Rand) *DecisionTree {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &DecisionTree{MaxDepth: 5, MinSamplesSplit: 10, MaxFeatures: 20, MaxThresholds: 10, rng: rng}
}

func (dt *DecisionTree) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		dt.Root = nil
		return nil
	}
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	dt.Root = dt.build(X, y, idx, 0)
	return nil
}

func (dt *DecisionTree) PredictOne(x []float64) float64 {
	n := dt.Root
	if n == nil {
		return 0.5
	}
	for !n.IsLeaf {
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Value
}

func (dt *DecisionTree) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i := range X {
		out[i] = dt.PredictOne(X[i])
	}
	return out
}

func (dt *DecisionTree) build(X [][]float64, y []float64, idx []int, depth int) *DTNode {
	leaf := func() *DTNode {
		return &DTNode{IsLeaf: true, Value: targetMean(y, idx)}
	}
	if depth >= dt.MaxDepth || len(idx) < dt.MinSamplesSplit {
		return leaf()
	}
	if allTargetsEqual(y, idx, 0) || allTargetsEqual(y, idx, 1) {
		return leaf()
	}

	parent := giniImpurity(y, idx)
	bestGain := math.Inf(-1)
	bestFeature := -1
	var bestThr float64
	var bestL, bestR []int

	for _, f := range dt.sampleFeatures(len(X[0])) {
		for _, thr := range dt.candidateThresholds(X, idx, f) {
			l, r := partition(X, idx, f, thr)
			if len(l) == 0 || len(r) == 0 {
				continue
			}
			wl := float64(len(l)) / float64(len(idx))
			gain := parent - wl*giniImpurity(y, l) - (1-wl)*giniImpurity(y, r)
			if gain > bestGain {
				bestGain, bestFeature, bestThr = gain, f, thr
				bestL, bestR = l, r
			}
		}
	}
	if bestFeature == -1 {
		return leaf()
	}
	return &DTNode{
		Feature:   bestFeature,
		Threshold: bestThr,
		Left:      dt.build(X, y, bestL, depth+1),
		Right:     dt.build(X, y, bestR, depth+1),
	}
}

// sampleFeatures picks up to MaxFeatures indices uniformly without
// replacement, in randomized order.
func (dt *DecisionTree) sampleFeatures(nFeats int) []int {
	perm := dt.rng.Perm(nFeats)
	if dt.MaxFeatures > 0 && nFeats > dt.MaxFeatures {
		perm = perm[:dt.MaxFeatures]
	}
	return perm
}

// candidateThresholds yields midpoints between adjacent distinct sorted
// values within the subset, considering at most MaxThresholds distinct
// values.
func (dt *DecisionTree) candidateThresholds(X [][]float64, idx []int, f int) []float64 {
	vals := make([]float64, len(idx))
	for j, i := range idx {
		vals[j] = X[i][f]
	}
	sort.Float64s(vals)
	distinct := make([]float64, 0, dt.MaxThresholds)
	for _, v := range vals {
		if len(distinct) > 0 && v == distinct[len(distinct)-1] {
			continue
		}
		distinct = append(distinct, v)
		if len(distinct) >= dt.MaxThresholds {
			break
		}
	}
	out := make([]float64, 0, len(distinct))
	for i := 1; i < len(distinct); i++ {
		out = append(out, (distinct[i-1]+distinct[i])/2)
	}
	return out
}

func partition(X [][]float64, idx []int, f int, thr float64) ([]int, []int) {
	l := make([]int, 0, len(idx))
	r := make([]int, 0, len(idx))
	for _, i := range idx {
		if X[i][f] <= thr {
			l = append(l, i)
		} else {
			r = append(r, i)
		}
	}
	return l, r
}

func targetMean(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

func allTargetsEqual(y []float64, idx []int, v float64) bool {
	for _, i := range idx {
		if y[i] != v {
			return false
		}
	}
	return true
}

func giniImpurity(y []float64, idx []int) float64 {
	p := targetMean(y, idx)
	return 1 - p*p - (1-p)*(1-p)
}
