package metrics

import "sort"

type Confusion struct {
	TP int `json:"tp"`
	FP int `json:"fp"`
	FN int `json:"fn"`
	TN int `json:"tn"`
}

func ConfusionCounts(yTrue, yPred []int) Confusion {
	var c Confusion
	for i := range yTrue {
		switch {
		case yPred[i] == 1 && yTrue[i] == 1:
			c.TP++
		case yPred[i] == 1 && yTrue[i] == 0:
			c.FP++
		case yPred[i] == 0 && yTrue[i] == 1:
			c.FN++
		default:
			c.TN++
		}
	}
	return c
}

func (c Confusion) Total() int { return c.TP + c.FP + c.FN + c.TN }

func (c Confusion) Accuracy() float64 {
	if c.Total() == 0 {
		return 0
	}
	return float64(c.TP+c.TN) / float64(c.Total())
}

func (c Confusion) Precision() float64 {
	if c.TP+c.FP == 0 {
		return 0
	}
	return float64(c.TP) / float64(c.TP+c.FP)
}

func (c Confusion) Recall() float64 {
	if c.TP+c.FN == 0 {
		return 0
	}
	return float64(c.TP) / float64(c.TP+c.FN)
}

func (c Confusion) F1() float64 {
	p, r := c.Precision(), c.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// ROCAUC is the rank-sum (Mann-Whitney) estimator: walking rows by
// descending score, each negative contributes the number of positives
// ranked above it. Returns 0.5 when either class is absent.
func ROCAUC(yTrue []int, scores []float64) float64 {
	type pair struct {
		s float64
		y int
	}
	pairs := make([]pair, len(yTrue))
	var pos, neg int
	for i := range yTrue {
		pairs[i] = pair{scores[i], yTrue[i]}
		if yTrue[i] == 1 {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 0.5
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].s > pairs[j].s })
	tp := 0
	sum := 0.0
	for _, p := range pairs {
		if p.y == 1 {
			tp++
		} else {
			sum += float64(tp)
		}
	}
	return sum / (float64(pos) * float64(neg))
}
