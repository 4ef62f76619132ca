package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yieldguard/internal/data"
	"yieldguard/internal/stats"
)

func TestDetectTarget(t *testing.T) {
	tests := []struct {
		name         string
		columns      []string
		wantTarget   string
		wantFeatures []string
	}{
		{
			"pass/fail column wins",
			[]string{"A", "Pass/Fail", "Time_Stamp", "B"},
			"Pass/Fail",
			[]string{"A", "B"},
		},
		{
			"case insensitive",
			[]string{"A", "FAILED", "B"},
			"FAILED",
			[]string{"A", "B"},
		},
		{
			"fallback to last column",
			[]string{"A", "B", "Label"},
			"Label",
			[]string{"A", "B"},
		},
		{
			"time columns excluded",
			[]string{"Timestamp", "A", "ProcessTime", "Fail"},
			"Fail",
			[]string{"A"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, features := detectTarget(tt.columns)
			assert.Equal(t, tt.wantTarget, target)
			assert.Equal(t, tt.wantFeatures, features)
		})
	}
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, 1, normalizeLabel("-1"))
	assert.Equal(t, 0, normalizeLabel("1"))
	assert.Equal(t, 0, normalizeLabel("0"))
	assert.Equal(t, 2, normalizeLabel("2"))
	assert.Equal(t, 0, normalizeLabel("garbage"))
	assert.Equal(t, 1, normalizeLabel(" -1 "))
}

func TestBuildMatrixMarksMissing(t *testing.T) {
	ds := &data.Dataset{
		Columns: []string{"A", "B"},
		Rows: []data.Row{
			{"A": "1.5", "B": "x"},
			{"A": "", "B": "2"},
		},
	}
	X := buildMatrix(ds, []string{"A", "B"})
	assert.Equal(t, 1.5, X[0][0])
	assert.True(t, math.IsNaN(X[0][1]))
	assert.True(t, math.IsNaN(X[1][0]))
	assert.Equal(t, 2.0, X[1][1])
}

func TestDropMostlyMissing(t *testing.T) {
	nan := math.NaN()
	X := [][]float64{
		{1, nan},
		{2, nan},
		{3, nan},
		{4, 1},
	}
	out, names := dropMostlyMissing(X, []string{"keep", "drop"}, 0.5)
	assert.Equal(t, []string{"keep"}, names)
	assert.Equal(t, 1, len(out[0]))
}

func TestDropConstant(t *testing.T) {
	nan := math.NaN()
	X := [][]float64{
		{1, 5, nan},
		{2, 5, 7},
		{3, 5, 7},
	}
	out, names := dropConstant(X, []string{"varies", "const", "constWithMissing"})
	assert.Equal(t, []string{"varies"}, names)
	assert.Equal(t, 1, len(out[0]))
}

func TestImputeMedians(t *testing.T) {
	nan := math.NaN()
	X := [][]float64{
		{1, nan},
		{nan, nan},
		{3, nan},
		{5, nan},
	}
	filled := imputeMedians(X)
	assert.Equal(t, 5, filled)
	assert.Equal(t, 3.0, X[1][0]) // median of {1,3,5}
	for i := range X {
		assert.Equal(t, 0.0, X[i][1]) // all-missing column imputes 0
	}
}

func TestStandardize(t *testing.T) {
	X := [][]float64{
		{1, 7},
		{2, 7},
		{3, 7},
		{4, 7},
	}
	standardize(X)

	col0 := column(X, 0)
	assert.InDelta(t, 0, stats.Mean(col0), 1e-9)
	assert.InDelta(t, 1, stats.StdDev(col0), 1e-9)

	// zero-variance column is centered and divided by the substituted 1
	for i := range X {
		assert.Equal(t, 0.0, X[i][1])
	}
}

func TestPruneCorrelated(t *testing.T) {
	n := 30
	X := make([][]float64, n)
	for i := range X {
		a := float64(i)
		c := float64(i%7) - float64(i%3)
		X[i] = []float64{a, 2 * a, c}
	}
	out, names, pruned := pruneCorrelated(X, []string{"a", "twiceA", "c"}, 80, 0.9)
	assert.Equal(t, 1, pruned)
	assert.Equal(t, []string{"a", "c"}, names)

	// surviving sampled columns are pairwise below the limit
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			r := stats.Pearson(column(out, i), column(out, j))
			assert.LessOrEqual(t, math.Abs(r), 0.9)
		}
	}
}

func TestScoreAndSelectTop(t *testing.T) {
	n := 40
	X := make([][]float64, n)
	y := make([]int, n)
	for i := range X {
		noise := float64(i%5) - 2
		shifted := noise
		if i >= n/2 {
			y[i] = 1
			shifted += 10
		}
		X[i] = []float64{noise, shifted}
	}
	scores := scoreFeatures(X, y)
	require.Len(t, scores, 2)
	assert.Greater(t, scores[1], scores[0])

	out, names, kept := selectTop(X, []string{"noise", "signal"}, scores, 1)
	assert.Equal(t, []string{"signal"}, names)
	assert.Equal(t, []float64{scores[1]}, kept)
	assert.Equal(t, 1, len(out[0]))
}

func TestScoreFeaturesSingleClass(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}}
	scores := scoreFeatures(X, []int{0, 0, 0})
	assert.Equal(t, []float64{0}, scores)
}
