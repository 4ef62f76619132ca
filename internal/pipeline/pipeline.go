package pipeline

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"yieldguard/internal/data"
	"yieldguard/internal/metrics"
	"yieldguard/internal/models"
	"yieldguard/internal/report"
)

// ErrEmptyDataset is returned when a run is started with zero rows.
var ErrEmptyDataset = errors.New("dataset contains no rows")

const (
	maxMissingFrac  = 0.5
	corrSampleCols  = 80
	corrLimit       = 0.9
	topFeatures     = 50
	trainFraction   = 0.8
	reportedTopFeat = 10
)

type Options struct {
	Trees        int
	LearningRate float64
	Threshold    float64
	MaxDepth     int

	// Seed 0 means a fresh time-based seed; tests pass a fixed one.
	Seed int64

	Finance  report.Assumptions
	Logger   *zap.Logger
	Progress func(string)
}

func (o *Options) fillDefaults() {
	if o.Trees <= 0 {
		o.Trees = 60
	}
	if o.LearningRate <= 0 {
		o.LearningRate = 0.1
	}
	if o.Threshold <= 0 {
		o.Threshold = 0.4
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = 4
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	if o.Finance == (report.Assumptions{}) {
		o.Finance = report.Assumptions{CostPerFailure: 500, MonthlyVolume: 10000, ImplementationCost: 50000}
	}
}

// Run executes the full data-to-model pipeline on ds and returns the
// terminal Report. Stages run strictly in sequence; each emits one
// progress line.
func Run(ds *data.Dataset, opts Options) (*report.Report, error) {
	if ds.Len() == 0 {
		return nil, ErrEmptyDataset
	}
	opts.fillDefaults()
	rng := rand.New(rand.NewSource(opts.Seed))

	var logs []string
	emit := func(format string, args ...any) {
		line := fmt.Sprintf(format, args...)
		logs = append(logs, line)
		if opts.Logger != nil {
			opts.Logger.Info(line)
		}
		if opts.Progress != nil {
			opts.Progress(line)
		}
	}

	target, features := detectTarget(ds.Columns)
	emit("target column %q detected, %d candidate feature columns", target, len(features))

	y := make([]int, len(ds.Rows))
	failCount := 0
	for i, row := range ds.Rows {
		y[i] = normalizeLabel(row[target])
		if y[i] == 1 {
			failCount++
		}
	}
	passCount := len(y) - failCount
	emit("labels normalized: %d fail, %d pass", failCount, passCount)

	X := buildMatrix(ds, features)
	names := features

	before := len(names)
	X, names = dropMostlyMissing(X, names, maxMissingFrac)
	emit("dropped %d mostly-missing columns, %d remain", before-len(names), len(names))

	before = len(names)
	X, names = dropConstant(X, names)
	emit("dropped %d constant columns, %d remain", before-len(names), len(names))

	filled := imputeMedians(X)
	emit("imputed %d missing values with column medians", filled)

	standardize(X)
	emit("standardized %d columns to zero mean and unit variance", len(names))

	var pruned int
	X, names, pruned = pruneCorrelated(X, names, corrSampleCols, corrLimit)
	emit("correlation pruning removed %d columns, %d remain", pruned, len(names))

	scores := scoreFeatures(X, y)
	X, names, scores = selectTop(X, names, scores, topFeatures)
	emit("selected top %d features by class separation score", len(names))

	perm := rng.Perm(len(X))
	trainN := int(trainFraction * float64(len(X)))
	trainX := make([][]float64, 0, trainN)
	trainY := make([]int, 0, trainN)
	testX := make([][]float64, 0, len(X)-trainN)
	testY := make([]int, 0, len(X)-trainN)
	for i, j := range perm {
		if i < trainN {
			trainX = append(trainX, X[j])
			trainY = append(trainY, y[j])
		} else {
			testX = append(testX, X[j])
			testY = append(testY, y[j])
		}
	}
	emit("split %d rows into %d train / %d test", len(X), len(trainX), len(testX))

	balancedX, balancedY := models.Balance(trainX, trainY, rng)
	emit("balanced training set from %d to %d rows", len(trainX), len(balancedX))

	gb := models.NewGradientBoosting(rng)
	gb.NEstimators = opts.Trees
	gb.LearningRate = opts.LearningRate
	gb.MaxDepth = opts.MaxDepth
	gb.Threshold = opts.Threshold
	var clf models.Classifier = gb
	if err := clf.Fit(balancedX, balancedY); err != nil {
		return nil, errors.Wrap(err, "train gradient boosting")
	}
	emit("trained %s with %d trees (lr=%.2f, depth=%d, threshold=%.2f)", clf.Name(), opts.Trees, opts.LearningRate, opts.MaxDepth, opts.Threshold)

	probs := clf.PredictProba(testX)
	preds := clf.Predict(testX)
	conf := metrics.ConfusionCounts(testY, preds)
	m := report.Metrics{
		Accuracy:  conf.Accuracy(),
		Precision: conf.Precision(),
		Recall:    conf.Recall(),
		F1:        conf.F1(),
		ROCAUC:    metrics.ROCAUC(testY, probs),
	}
	emit("evaluated %d held-out rows: accuracy=%.3f f1=%.3f auc=%.3f", len(testY), m.Accuracy, m.F1, m.ROCAUC)

	importance := make([]report.FeatureImportance, 0, reportedTopFeat)
	for k := 0; k < len(names) && k < reportedTopFeat; k++ {
		importance = append(importance, report.FeatureImportance{Name: names[k], Importance: scores[k]})
	}

	failRate := float64(failCount) / float64(len(y))
	rep := &report.Report{
		TargetColumn:      target,
		Metrics:           m,
		Confusion:         conf,
		FeatureImportance: importance,
		Financials:        report.Project(failRate, opts.Finance),
		DataStats: report.DataStats{
			Rows:      len(ds.Rows),
			Cols:      len(ds.Columns),
			FailCount: failCount,
			PassCount: passCount,
			FailRate:  failRate,
		},
		Logs: logs,
	}
	return rep, nil
}
