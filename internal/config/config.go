package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-yaml"

	"yieldguard/internal/report"
)

type Model struct {
	Trees        int     `yaml:"trees"`
	LearningRate float64 `yaml:"learning_rate"`
	Threshold    float64 `yaml:"threshold"`
	MaxDepth     int     `yaml:"max_depth"`
	Seed         int64   `yaml:"seed"`
}

type Finance struct {
	CostPerFailure     float64 `yaml:"cost_per_failure"`
	MonthlyVolume      float64 `yaml:"monthly_volume"`
	ImplementationCost float64 `yaml:"implementation_cost"`
}

type Config struct {
	Model   Model   `yaml:"model"`
	Finance Finance `yaml:"finance"`
}

func Default() Config {
	return Config{
		Model:   Model{Trees: 60, LearningRate: 0.1, Threshold: 0.4, MaxDepth: 4},
		Finance: Finance{CostPerFailure: 500, MonthlyVolume: 10000, ImplementationCost: 50000},
	}
}

// Load reads a YAML file over the defaults; absent keys keep them.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

func (f Finance) Assumptions() report.Assumptions {
	return report.Assumptions{
		CostPerFailure:     f.CostPerFailure,
		MonthlyVolume:      f.MonthlyVolume,
		ImplementationCost: f.ImplementationCost,
	}
}
