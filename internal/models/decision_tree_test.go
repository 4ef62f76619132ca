package models

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRNG(seed int64) *rand.Rand { return rand.New(rand.NewSource(seed)) }

// separableData uses a small discrete value domain so the true decision
// boundary sits among the capped threshold candidates.
func separableData(rng *rand.Rand, n int) ([][]float64, []float64) {
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := range X {
		v := float64(rng.Intn(10))
		X[i] = []float64{v, float64(rng.Intn(10))}
		if v >= 5 {
			y[i] = 1
		}
	}
	return X, y
}

func treeDepth(n *DTNode) int {
	if n == nil || n.IsLeaf {
		return 0
	}
	l, r := treeDepth(n.Left), treeDepth(n.Right)
	if l > r {
		return l + 1
	}
	return r + 1
}

func TestGiniImpurity(t *testing.T) {
	pure := []float64{1, 1, 1, 1}
	assert.InDelta(t, 0.0, giniImpurity(pure, []int{0, 1, 2, 3}), 1e-12)
	balanced := []float64{0, 1, 0, 1}
	assert.InDelta(t, 0.5, giniImpurity(balanced, []int{0, 1, 2, 3}), 1e-12)
}

func TestTreeRespectsMaxDepth(t *testing.T) {
	rng := testRNG(1)
	X, y := separableData(rng, 300)
	for _, d := range []int{1, 2, 4} {
		dt := NewDecisionTree(testRNG(2))
		dt.MaxDepth = d
		require.NoError(t, dt.Fit(X, y))
		assert.LessOrEqual(t, treeDepth(dt.Root), d)
	}
}

func TestTreePredictionsInUnitInterval(t *testing.T) {
	rng := testRNG(3)
	X, y := separableData(rng, 200)
	dt := NewDecisionTree(testRNG(4))
	require.NoError(t, dt.Fit(X, y))
	for _, p := range dt.PredictProba(X) {
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}

func TestTreeSmallSubsetBecomesLeaf(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}, {5}, {6}, {7}, {8}}
	y := []float64{0, 0, 0, 0, 0, 1, 1, 1}
	dt := NewDecisionTree(testRNG(5))
	require.NoError(t, dt.Fit(X, y))
	require.NotNil(t, dt.Root)
	assert.True(t, dt.Root.IsLeaf)
	assert.InDelta(t, 3.0/8.0, dt.Root.Value, 1e-12)
}

func TestTreePureTargetBecomesLeaf(t *testing.T) {
	X := make([][]float64, 20)
	y := make([]float64, 20)
	for i := range X {
		X[i] = []float64{float64(i)}
		y[i] = 1
	}
	dt := NewDecisionTree(testRNG(6))
	require.NoError(t, dt.Fit(X, y))
	assert.True(t, dt.Root.IsLeaf)
	assert.Equal(t, 1.0, dt.Root.Value)
}

func TestTreeLearnsSeparableSplit(t *testing.T) {
	rng := testRNG(7)
	X, y := separableData(rng, 400)
	dt := NewDecisionTree(testRNG(8))
	require.NoError(t, dt.Fit(X, y))
	correct := 0
	for i := range X {
		p := dt.PredictOne(X[i])
		if (p > 0.5) == (y[i] == 1) {
			correct++
		}
	}
	assert.Greater(t, float64(correct)/float64(len(X)), 0.9)
}

func TestTreeEmptyFit(t *testing.T) {
	dt := NewDecisionTree(testRNG(9))
	require.NoError(t, dt.Fit(nil, nil))
	assert.Nil(t, dt.Root)
	assert.Equal(t, 0.5, dt.PredictOne([]float64{1}))
}
