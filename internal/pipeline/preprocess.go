package pipeline

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"yieldguard/internal/data"
	"yieldguard/internal/stats"
)

// detectTarget picks the first column whose name contains "pass" or
// "fail" (case-insensitive), falling back to the last column. Candidate
// features are the remaining columns minus anything time-like.
func detectTarget(columns []string) (string, []string) {
	target := ""
	for _, name := range columns {
		lower := strings.ToLower(name)
		if strings.Contains(lower, "pass") || strings.Contains(lower, "fail") {
			target = name
			break
		}
	}
	if target == "" && len(columns) > 0 {
		target = columns[len(columns)-1]
	}
	features := make([]string, 0, len(columns))
	for _, name := range columns {
		if name == target || strings.Contains(strings.ToLower(name), "time") {
			continue
		}
		features = append(features, name)
	}
	return target, features
}

// normalizeLabel maps the raw target value onto {0,1}: -1 means fail
// (1), 1 means pass (0), other numeric values pass through unchanged.
func normalizeLabel(raw string) int {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	switch v {
	case -1:
		return 1
	case 1:
		return 0
	default:
		return int(v)
	}
}

// buildMatrix coerces the feature columns to floats; unparsable values
// become NaN to mark them missing.
func buildMatrix(ds *data.Dataset, features []string) [][]float64 {
	X := make([][]float64, len(ds.Rows))
	for i, row := range ds.Rows {
		vec := make([]float64, len(features))
		for j, name := range features {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[name]), 64)
			if err != nil {
				vec[j] = math.NaN()
			} else {
				vec[j] = v
			}
		}
		X[i] = vec
	}
	return X
}

func column(X [][]float64, j int) []float64 {
	col := make([]float64, len(X))
	for i := range X {
		col[i] = X[i][j]
	}
	return col
}

// keepColumns produces a narrower matrix holding only the given column
// indices, in order.
func keepColumns(X [][]float64, names []string, keep []int) ([][]float64, []string) {
	outNames := make([]string, len(keep))
	for k, j := range keep {
		outNames[k] = names[j]
	}
	out := make([][]float64, len(X))
	for i := range X {
		vec := make([]float64, len(keep))
		for k, j := range keep {
			vec[k] = X[i][j]
		}
		out[i] = vec
	}
	return out, outNames
}

// dropMostlyMissing removes columns whose missing fraction exceeds maxFrac.
func dropMostlyMissing(X [][]float64, names []string, maxFrac float64) ([][]float64, []string) {
	if len(X) == 0 {
		return X, names
	}
	var keep []int
	for j := range names {
		missing := 0
		for i := range X {
			if math.IsNaN(X[i][j]) {
				missing++
			}
		}
		if float64(missing)/float64(len(X)) <= maxFrac {
			keep = append(keep, j)
		}
	}
	return keepColumns(X, names, keep)
}

// dropConstant removes columns with fewer than two distinct non-missing
// values.
func dropConstant(X [][]float64, names []string) ([][]float64, []string) {
	if len(X) == 0 {
		return X, names
	}
	var keep []int
	for j := range names {
		distinct := map[float64]struct{}{}
		for i := range X {
			if !math.IsNaN(X[i][j]) {
				distinct[X[i][j]] = struct{}{}
				if len(distinct) >= 2 {
					break
				}
			}
		}
		if len(distinct) >= 2 {
			keep = append(keep, j)
		}
	}
	return keepColumns(X, names, keep)
}

// imputeMedians fills missing values with the column median (0 when the
// whole column is missing). Returns the number of imputed cells.
func imputeMedians(X [][]float64) int {
	if len(X) == 0 {
		return 0
	}
	filled := 0
	for j := range X[0] {
		col := stats.Filtered(column(X, j))
		med := 0.0
		if len(col) > 0 {
			med = stats.Median(col)
		}
		for i := range X {
			if math.IsNaN(X[i][j]) {
				X[i][j] = med
				filled++
			}
		}
	}
	return filled
}

// standardize z-scores each column with population statistics; a zero
// standard deviation is substituted with 1.
func standardize(X [][]float64) {
	if len(X) == 0 {
		return
	}
	for j := range X[0] {
		col := column(X, j)
		mean := stats.Mean(col)
		sd := stats.StdDev(col)
		if sd == 0 {
			sd = 1
		}
		for i := range X {
			X[i][j] = (X[i][j] - mean) / sd
		}
	}
}

// pruneCorrelated samples at most maxCols evenly spaced columns and, in
// index order, drops the later of any sampled pair with |Pearson r|
// above limit. Columns already dropped no longer act as sources.
func pruneCorrelated(X [][]float64, names []string, maxCols int, limit float64) ([][]float64, []string, int) {
	nCols := len(names)
	if nCols == 0 || len(X) == 0 {
		return X, names, 0
	}
	sampled := make([]int, 0, maxCols)
	if nCols <= maxCols {
		for j := 0; j < nCols; j++ {
			sampled = append(sampled, j)
		}
	} else {
		for k := 0; k < maxCols; k++ {
			sampled = append(sampled, k*nCols/maxCols)
		}
	}
	dropped := map[int]struct{}{}
	for a := 0; a < len(sampled); a++ {
		if _, gone := dropped[sampled[a]]; gone {
			continue
		}
		colA := column(X, sampled[a])
		for b := a + 1; b < len(sampled); b++ {
			if _, gone := dropped[sampled[b]]; gone {
				continue
			}
			r := stats.Pearson(colA, column(X, sampled[b]))
			if math.Abs(r) > limit {
				dropped[sampled[b]] = struct{}{}
			}
		}
	}
	if len(dropped) == 0 {
		return X, names, 0
	}
	var keep []int
	for j := 0; j < nCols; j++ {
		if _, gone := dropped[j]; !gone {
			keep = append(keep, j)
		}
	}
	X, names = keepColumns(X, names, keep)
	return X, names, len(dropped)
}

// scoreFeatures computes the class-separation score per column:
// |mean(fail) - mean(pass)| over the averaged spread.
func scoreFeatures(X [][]float64, y []int) []float64 {
	if len(X) == 0 {
		return nil
	}
	scores := make([]float64, len(X[0]))
	for j := range scores {
		var fail, pass []float64
		for i := range X {
			if y[i] == 1 {
				fail = append(fail, X[i][j])
			} else {
				pass = append(pass, X[i][j])
			}
		}
		if len(fail) == 0 || len(pass) == 0 {
			continue
		}
		spread := (stats.StdDev(fail)+stats.StdDev(pass))/2 + 1e-9
		scores[j] = math.Abs(stats.Mean(fail)-stats.Mean(pass)) / spread
	}
	return scores
}

// selectTop keeps the best topK columns by score, descending, stable on
// ties; the surviving matrix carries them in score order.
func selectTop(X [][]float64, names []string, scores []float64, topK int) ([][]float64, []string, []float64) {
	order := make([]int, len(scores))
	for j := range order {
		order[j] = j
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })
	if len(order) > topK {
		order = order[:topK]
	}
	X, names = keepColumns(X, names, order)
	kept := make([]float64, len(order))
	for k, j := range order {
		kept[k] = scores[j]
	}
	return X, names, kept
}
