// Package config loads the YAML description of a comparison run.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Policy kinds understood by the CLI
const (
	KindRandom    = "random"
	KindConstant  = "constant"
	KindQLearning = "qlearning"
	KindSoftMax   = "softmax"
)

// PolicyConfig describes one experiment of the comparison
type PolicyConfig struct {
	Name string `yaml:"name" validate:"required"`
	Kind string `yaml:"kind" validate:"required,oneof=random constant qlearning softmax"`

	Alpha       float64 `yaml:"alpha" validate:"gte=0,lte=1"`
	Gamma       float64 `yaml:"gamma" validate:"gte=0,lte=1"`
	Epsilon     float64 `yaml:"epsilon" validate:"gte=0,lte=1"`
	Temperature float64 `yaml:"temperature" validate:"gte=0"`

	// state abstraction of the tabular policies
	Abstraction string `yaml:"abstraction" validate:"omitempty,oneof=window sign"`
	Window      int    `yaml:"window" validate:"gte=0,lte=16"`

	// action played by the constant policy
	Action int `yaml:"action" validate:"gte=0,lte=1"`
}

// Config of a comparison: which environment, how long, and which policies to compare
type Config struct {
	Env          string `yaml:"env" validate:"required,oneof=GreaterThanZero-v0 NotXOR-v0 TwoInARow-v0"`
	MaxSteps     int    `yaml:"max_steps" validate:"gt=0"`
	HistoryLimit int    `yaml:"history_limit" validate:"gte=0"`

	Episodes int    `yaml:"episodes" validate:"gt=0"`
	Horizon  int    `yaml:"horizon" validate:"gte=0"`
	Runs     int    `yaml:"runs" validate:"gt=0"`
	Seed     uint64 `yaml:"seed"`

	RecordPath   string `yaml:"record_path" validate:"required"`
	RecordTraces bool   `yaml:"record_traces"`
	RecordPolicy bool   `yaml:"record_policy"`
	Plot         bool   `yaml:"plot"`

	Policies []PolicyConfig `yaml:"policies" validate:"required,min=1,dive"`
}

// Default returns a configuration comparing a random and a Q-learning policy on TwoInARow-v0
func Default() *Config {
	return &Config{
		Env:        "TwoInARow-v0",
		MaxSteps:   100,
		Episodes:   1000,
		Runs:       1,
		Seed:       1,
		RecordPath: "results",
		Policies: []PolicyConfig{
			{Name: "Random", Kind: KindRandom},
			{
				Name:        "QLearning",
				Kind:        KindQLearning,
				Alpha:       0.1,
				Gamma:       0,
				Epsilon:     0.1,
				Abstraction: "window",
				Window:      2,
			},
		},
	}
}

// Load reads the file at path on top of the defaults and validates the result
func Load(path string) (*Config, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	// policies in the file replace the default list
	cfg.Policies = nil
	if err := yaml.Unmarshal(bs, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if len(cfg.Policies) == 0 {
		cfg.Policies = Default().Policies
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct constraints and the names of the policies
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) && len(vErrs) > 0 {
			return fmt.Errorf("invalid config: %s failed on %q", vErrs[0].Namespace(), vErrs[0].Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	seen := make(map[string]bool)
	for _, p := range c.Policies {
		if seen[p.Name] {
			return fmt.Errorf("invalid config: duplicate policy name %q", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}
