package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imbalancedData(nMajority, nMinority int) ([][]float64, []int) {
	X := make([][]float64, 0, nMajority+nMinority)
	y := make([]int, 0, nMajority+nMinority)
	for i := 0; i < nMajority; i++ {
		X = append(X, []float64{float64(i), 0})
		y = append(y, 0)
	}
	for i := 0; i < nMinority; i++ {
		X = append(X, []float64{float64(100 + i), 1})
		y = append(y, 1)
	}
	return X, y
}

func TestBalanceEqualizesClassCounts(t *testing.T) {
	X, y := imbalancedData(30, 10)
	outX, outY := Balance(X, y, testRNG(21))

	require.Len(t, outY, 60) // 2 * majority count
	assert.Len(t, outX, 60)

	var pos, neg int
	for _, label := range outY {
		if label == 1 {
			pos++
		} else {
			neg++
		}
	}
	assert.Equal(t, 30, pos)
	assert.Equal(t, 30, neg)
}

func TestBalancePreservesOriginals(t *testing.T) {
	X, y := imbalancedData(20, 5)
	outX, outY := Balance(X, y, testRNG(22))
	for i := range X {
		assert.Equal(t, X[i], outX[i])
		assert.Equal(t, y[i], outY[i])
	}
}

func TestBalanceSyntheticRowsInterpolate(t *testing.T) {
	// minority rows span [100,104] in the first feature and are all 1 in
	// the second; interpolations must stay inside that envelope
	X, y := imbalancedData(25, 5)
	outX, outY := Balance(X, y, testRNG(23))
	for i := len(X); i < len(outX); i++ {
		assert.Equal(t, 1, outY[i])
		assert.GreaterOrEqual(t, outX[i][0], 100.0)
		assert.LessOrEqual(t, outX[i][0], 104.0)
		assert.Equal(t, 1.0, outX[i][1])
	}
}

func TestBalanceNoOpWhenMajorityNotLarger(t *testing.T) {
	X, y := imbalancedData(10, 10)
	outX, outY := Balance(X, y, testRNG(24))
	assert.Len(t, outX, 20)
	assert.Equal(t, y, outY)

	// minority-heavy input is also untouched
	X2, y2 := imbalancedData(5, 10)
	outX2, outY2 := Balance(X2, y2, testRNG(25))
	assert.Len(t, outX2, 15)
	assert.Equal(t, y2, outY2)
}

func TestBalanceEmptyMinority(t *testing.T) {
	X, y := imbalancedData(10, 0)
	outX, outY := Balance(X, y, testRNG(26))
	assert.Len(t, outX, 10)
	assert.Equal(t, y, outY)
}
