package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"yieldguard/internal/data"
	"yieldguard/internal/pipeline"
)

// Sweeps the ensemble size and records held-out metrics per point, so
// the effect of additional boosting rounds is visible as a curve.
func main() {
	dataPath := flag.String("data", "data/sensors.csv", "Input CSV path")
	maxTrees := flag.Int("max_trees", 60, "Largest ensemble size")
	points := flag.Int("points", 6, "Number of curve points")
	seed := flag.Int64("seed", 1, "Random seed shared by all points")
	outCsv := flag.String("out_csv", "data/boosting_curve.csv", "Curve CSV output")
	outImg := flag.String("out_img", "data/boosting_curve.png", "Curve PNG output")
	flag.Parse()

	f, err := os.Open(*dataPath)
	if err != nil {
		fmt.Println("open dataset:", err)
		return
	}
	ds, err := data.ReadCSV(f)
	f.Close()
	if err != nil {
		fmt.Println("read dataset:", err)
		return
	}

	sizes := curveSizes(*maxTrees, *points)
	f1s := make([]float64, len(sizes))
	aucs := make([]float64, len(sizes))
	accs := make([]float64, len(sizes))
	for k, s := range sizes {
		rep, err := pipeline.Run(ds, pipeline.Options{Trees: s, Seed: *seed})
		if err != nil {
			fmt.Println("pipeline run:", err)
			return
		}
		f1s[k] = rep.Metrics.F1
		aucs[k] = rep.Metrics.ROCAUC
		accs[k] = rep.Metrics.Accuracy
		fmt.Printf("trees=%d | acc=%.3f | f1=%.3f | auc=%.3f\n", s, accs[k], f1s[k], aucs[k])
	}

	if err := writeCurveCSV(*outCsv, sizes, accs, f1s, aucs); err != nil {
		fmt.Println("write curve csv:", err)
	} else {
		fmt.Println("curve saved to:", *outCsv)
	}
	if err := plotCurve(*outImg, sizes, accs, f1s, aucs); err != nil {
		fmt.Println("write curve png:", err)
	} else {
		fmt.Println("chart saved to:", *outImg)
	}
}

func curveSizes(maxTrees, points int) []int {
	if points < 2 {
		points = 2
	}
	if maxTrees < points {
		maxTrees = points
	}
	sizes := make([]int, 0, points)
	last := 0
	for i := 1; i <= points; i++ {
		s := i * maxTrees / points
		if s <= last {
			s = last + 1
		}
		sizes = append(sizes, s)
		last = s
	}
	return sizes
}

func writeCurveCSV(path string, sizes []int, accs, f1s, aucs []float64) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write([]string{"trees", "accuracy", "f1", "roc_auc"}); err != nil {
		return err
	}
	for i := range sizes {
		rec := []string{
			strconv.Itoa(sizes[i]),
			fmt.Sprintf("%.6f", accs[i]),
			fmt.Sprintf("%.6f", f1s[i]),
			fmt.Sprintf("%.6f", aucs[i]),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func plotCurve(path string, sizes []int, accs, f1s, aucs []float64) error {
	p := plot.New()
	p.Title.Text = "Boosting Rounds vs Held-out Metrics"
	p.X.Label.Text = "Trees"
	p.Y.Label.Text = "Metric"
	p.Y.Min = 0
	p.Y.Max = 1

	toXY := func(ys []float64) plotter.XYs {
		pts := make(plotter.XYs, len(sizes))
		for i := range sizes {
			pts[i].X = float64(sizes[i])
			pts[i].Y = ys[i]
		}
		return pts
	}
	if err := plotutil.AddLinePoints(p, "Accuracy", toXY(accs), "F1", toXY(f1s), "ROC-AUC", toXY(aucs)); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
