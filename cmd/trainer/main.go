package main

import (
	"encoding/json"
	"flag"
	"math/rand"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"yieldguard/internal/config"
	"yieldguard/internal/data"
	"yieldguard/internal/pipeline"
	"yieldguard/internal/report"
	"yieldguard/pkg/utils"
)

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	regen := flag.Bool("regen", false, "Regenerate the synthetic sensor dataset")
	n := flag.Int("n", 2000, "Number of synthetic rows")
	dataPath := flag.String("data", "data/sensors.csv", "Input CSV path")
	cfgPath := flag.String("config", "", "Optional YAML config path")
	reportOut := flag.String("report", "data/report.json", "Report JSON output path")
	chartOut := flag.String("chart", "data/feature_importance.png", "Feature importance chart PNG")
	seed := flag.Int64("seed", 0, "Random seed (0 = time-based)")
	trees := flag.Int("trees", 0, "Override number of boosting trees")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		cfg, err = config.Load(*cfgPath)
		if err != nil {
			logger.Fatal("load config", zap.Error(err))
		}
	}
	if *trees > 0 {
		cfg.Model.Trees = *trees
	}
	if *seed != 0 {
		cfg.Model.Seed = *seed
	}

	if *regen {
		logger.Info("generating synthetic sensor dataset", zap.Int("n", *n), zap.String("out", *dataPath))
		if err := data.GenerateSensorCSV(*n, 0.07, *dataPath, seededRNG(cfg.Model.Seed)); err != nil {
			logger.Fatal("generate dataset", zap.Error(err))
		}
	}

	f, err := os.Open(*dataPath)
	if err != nil {
		logger.Fatal("open dataset", zap.Error(err))
	}
	ds, err := data.ReadCSV(f)
	f.Close()
	if err != nil {
		logger.Fatal("read dataset", zap.Error(err))
	}

	rep, err := pipeline.Run(ds, pipeline.Options{
		Trees:        cfg.Model.Trees,
		LearningRate: cfg.Model.LearningRate,
		Threshold:    cfg.Model.Threshold,
		MaxDepth:     cfg.Model.MaxDepth,
		Seed:         cfg.Model.Seed,
		Finance:      cfg.Finance.Assumptions(),
		Logger:       logger,
	})
	if err != nil {
		logger.Fatal("pipeline run", zap.Error(err))
	}

	logger.Info("held-out metrics",
		zap.String("target", rep.TargetColumn),
		zap.Float64("accuracy", rep.Metrics.Accuracy),
		zap.Float64("precision", rep.Metrics.Precision),
		zap.Float64("recall", rep.Metrics.Recall),
		zap.Float64("f1", rep.Metrics.F1),
		zap.Float64("roc_auc", rep.Metrics.ROCAUC),
		zap.Float64("fail_rate", rep.DataStats.FailRate),
	)

	if err := writeReport(*reportOut, rep); err != nil {
		logger.Fatal("write report", zap.Error(err))
	}
	logger.Info("report written", zap.String("path", *reportOut))

	if err := plotImportance(*chartOut, rep.FeatureImportance); err != nil {
		logger.Warn("importance chart failed", zap.Error(err))
	} else {
		logger.Info("importance chart written", zap.String("path", *chartOut))
	}
}

func seededRNG(seed int64) *rand.Rand {
	if seed == 0 {
		return nil
	}
	return rand.New(rand.NewSource(seed))
}

func writeReport(path string, rep *report.Report) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func plotImportance(path string, imp []report.FeatureImportance) error {
	if len(imp) == 0 {
		return nil
	}
	p := plot.New()
	p.Title.Text = "Top Feature Importance"
	p.Y.Label.Text = "Class separation score"

	vals := make(plotter.Values, len(imp))
	names := make([]string, len(imp))
	for i, fi := range imp {
		vals[i] = fi.Importance
		names[i] = fi.Name
	}
	bars, err := plotter.NewBarChart(vals, vg.Points(20))
	if err != nil {
		return err
	}
	p.Add(bars)
	p.NominalX(names...)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
