package report

import (
	"fmt"

	"yieldguard/internal/metrics"
)

type Metrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	ROCAUC    float64 `json:"rocAuc"`
}

type FeatureImportance struct {
	Name       string  `json:"name"`
	Importance float64 `json:"importance"`
}

type FinancialRow struct {
	Rate    string  `json:"rate"`
	Monthly float64 `json:"monthly"`
	Annual  float64 `json:"annual"`
	ROI     float64 `json:"roi"`
	Payback float64 `json:"payback"`
}

type DataStats struct {
	Rows      int     `json:"rows"`
	Cols      int     `json:"cols"`
	FailCount int     `json:"failCount"`
	PassCount int     `json:"passCount"`
	FailRate  float64 `json:"failRate"`
}

// Report is the terminal artifact of a pipeline run.
type Report struct {
	TargetColumn      string              `json:"targetColumn"`
	Metrics           Metrics             `json:"metrics"`
	Confusion         metrics.Confusion   `json:"confusion"`
	FeatureImportance []FeatureImportance `json:"featureImportance"`
	Financials        []FinancialRow      `json:"financials"`
	DataStats         DataStats           `json:"dataStats"`
	Logs              []string            `json:"logs"`
}

// Assumptions are the fixed cost inputs of the financial projection.
type Assumptions struct {
	CostPerFailure     float64 `json:"costPerFailure"`
	MonthlyVolume      float64 `json:"monthlyVolume"`
	ImplementationCost float64 `json:"implementationCost"`
}

var improvementRates = []float64{0.10, 0.20, 0.30}

// Project translates a predicted defect-rate reduction into savings for
// each candidate improvement rate.
func Project(failRate float64, a Assumptions) []FinancialRow {
	monthlyFailures := a.MonthlyVolume * failRate
	out := make([]FinancialRow, 0, len(improvementRates))
	for _, rate := range improvementRates {
		monthly := monthlyFailures * rate * a.CostPerFailure
		annual := monthly * 12
		row := FinancialRow{
			Rate:    fmt.Sprintf("%d%%", int(rate*100+0.5)),
			Monthly: monthly,
			Annual:  annual,
		}
		if a.ImplementationCost > 0 {
			row.ROI = (annual - a.ImplementationCost) / a.ImplementationCost * 100
		}
		if monthly > 0 {
			row.Payback = a.ImplementationCost / monthly
		}
		out = append(out, row)
	}
	return out
}
