package benchmarks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/zeu5/gym-dummy/config"
	"github.com/zeu5/gym-dummy/dummy"
	"github.com/zeu5/gym-dummy/metrics"
	"github.com/zeu5/gym-dummy/policies"
	"github.com/zeu5/gym-dummy/types"
)

// episodes averaged by the log comparator
const logTail = 100

func abstractorFor(p config.PolicyConfig) types.StateAbstractor {
	if p.Abstraction == "sign" {
		return policies.SignAbstractor()
	}
	window := p.Window
	if window <= 0 {
		window = 1
	}
	return policies.WindowAbstractor(window)
}

func buildPolicy(p config.PolicyConfig, seed uint64) (types.Policy, error) {
	switch p.Kind {
	case config.KindRandom:
		return types.NewRandomPolicyWithSeed(seed), nil
	case config.KindConstant:
		return types.NewConstantPolicy(types.Action(p.Action)), nil
	case config.KindQLearning:
		return policies.NewQLearningPolicy(p.Alpha, p.Gamma, p.Epsilon, abstractorFor(p), seed), nil
	case config.KindSoftMax:
		return policies.NewSoftMaxPolicy(p.Alpha, p.Gamma, p.Temperature, abstractorFor(p), seed), nil
	}
	return nil, fmt.Errorf("unknown policy kind %q", p.Kind)
}

func chain(comparators ...types.Comparator) types.Comparator {
	return func(run, episodes int, names []string, ds []types.DataSet) {
		for _, c := range comparators {
			c(run, episodes, names, ds)
		}
	}
}

// RunComparison runs every policy of cfg against its own instance of the configured
// environment and returns the experiments once all runs are done
func RunComparison(ctx context.Context, cfg *config.Config, metricsPath string, logger *slog.Logger) ([]*types.Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	reg := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(reg)
	if err != nil {
		return nil, err
	}

	c, err := types.NewComparison(&types.ComparisonConfig{
		Runs:          cfg.Runs,
		Episodes:      cfg.Episodes,
		Horizon:       cfg.Horizon,
		RecordPath:    cfg.RecordPath,
		RecordTraces:  cfg.RecordTraces,
		RecordPolicy:  cfg.RecordPolicy,
		Logger:        logger,
		Metrics:       recorder,
		ProgressEvery: cfg.Episodes / 10,
	})
	if err != nil {
		return nil, err
	}

	rewardComparators := []types.Comparator{types.LogComparator("reward", logTail, logger)}
	accuracyComparators := []types.Comparator{types.LogComparator("accuracy", logTail, logger)}
	if cfg.Plot {
		rewardComparators = append(rewardComparators, types.PlotComparator(cfg.RecordPath, cfg.Env, "Reward", logger))
		accuracyComparators = append(accuracyComparators, types.PlotComparator(cfg.RecordPath, cfg.Env, "Accuracy", logger))
	}
	c.AddAnalysis("Reward", types.RewardAnalyzer(), chain(rewardComparators...))
	c.AddAnalysis("Accuracy", types.AccuracyAnalyzer(), chain(accuracyComparators...))

	for i, p := range cfg.Policies {
		env, err := Make(cfg.Env,
			dummy.WithMaxSteps(cfg.MaxSteps),
			dummy.WithSeed(cfg.Seed+uint64(i)),
			dummy.WithHistoryLimit(cfg.HistoryLimit),
			dummy.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		policy, err := buildPolicy(p, cfg.Seed+uint64(i))
		if err != nil {
			return nil, err
		}
		c.AddExperiment(types.NewExperiment(p.Name, policy, env))
	}

	logger.Info("running comparison", "id", c.ID.String(), "env", cfg.Env, "experiments", len(cfg.Policies))
	if err := c.Run(ctx); err != nil {
		return nil, err
	}

	if metricsPath != "" {
		if err := metrics.WriteText(reg, metricsPath); err != nil {
			return nil, fmt.Errorf("write metrics: %w", err)
		}
	}
	return c.Experiments, nil
}

// applyFlags overrides cfg with the root flags the user set explicitly
func applyFlags(cfg *config.Config, changed func(string) bool) {
	if changed("episodes") {
		cfg.Episodes = episodes
	}
	if changed("horizon") {
		cfg.Horizon = horizon
	}
	if changed("runs") {
		cfg.Runs = runs
	}
	if changed("save") {
		cfg.RecordPath = saveFile
	}
	if changed("seed") {
		cfg.Seed = seed
	}
}

// printQValues prints the Q-value table of every experiment whose policy can predict
func printQValues(experiments []*types.Experiment, out func(...interface{})) error {
	for _, e := range experiments {
		model, ok := e.Policy().(dummy.Predictor)
		if !ok {
			continue
		}
		table, err := dummy.QValues(model)
		if err != nil {
			return fmt.Errorf("%s: %w", e.Name, err)
		}
		out(e.Name + table)
	}
	return nil
}
