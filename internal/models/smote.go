package models

import "math/rand"

// Balance oversamples the minority class (label 1) with synthetic rows
// interpolated between two randomly chosen minority samples, until both
// classes have equal counts. Original rows are never altered or removed;
// input unchanged when the majority is not larger than the minority.
func Balance(X [][]float64, y []int, rng *rand.Rand) ([][]float64, []int) {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	var minority, majority []int
	for i, label := range y {
		if label == 1 {
			minority = append(minority, i)
		} else {
			majority = append(majority, i)
		}
	}
	if len(majority) <= len(minority) || len(minority) == 0 {
		return X, y
	}
	need := len(majority) - len(minority)
	outX := make([][]float64, len(X), len(X)+need)
	outY := make([]int, len(y), len(y)+need)
	copy(outX, X)
	copy(outY, y)
	for k := 0; k < need; k++ {
		base := X[minority[rng.Intn(len(minority))]]
		neighbor := X[minority[rng.Intn(len(minority))]]
		gap := rng.Float64()
		row := make([]float64, len(base))
		for j := range base {
			row[j] = base[j] + gap*(neighbor[j]-base[j])
		}
		outX = append(outX, row)
		outY = append(outY, 1)
	}
	return outX, outY
}
