package benchmarks

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/gym-dummy/config"
)

// variantConfig compares a random policy with the two tabular learners on env.
// abstraction and window configure the state keys of the learners.
func variantConfig(env, abstraction string, window int) *config.Config {
	cfg := config.Default()
	cfg.Env = env
	cfg.Policies = []config.PolicyConfig{
		{Name: "Random", Kind: config.KindRandom},
		{
			Name:        "QLearning",
			Kind:        config.KindQLearning,
			Alpha:       0.1,
			Epsilon:     0.1,
			Abstraction: abstraction,
			Window:      window,
		},
		{
			Name:        "SoftMax",
			Kind:        config.KindSoftMax,
			Alpha:       0.1,
			Temperature: 0.2,
			Abstraction: abstraction,
			Window:      window,
		},
	}
	return cfg
}

func variantCommand(use, short, env, abstraction string, window int, printTable bool) *cobra.Command {
	var plot bool
	var maxSteps int

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := variantConfig(env, abstraction, window)
			cfg.Episodes = episodes
			cfg.Horizon = horizon
			cfg.Runs = runs
			cfg.RecordPath = saveFile
			cfg.Seed = seed
			cfg.MaxSteps = maxSteps
			cfg.Plot = plot

			experiments, err := RunComparison(cmd.Context(), cfg, metricsOut, nil)
			if err != nil {
				return err
			}
			if printTable {
				return printQValues(experiments, cmd.Println)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&plot, "plot", false, "Save reward and accuracy plots")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 100, "Steps per episode")
	return cmd
}

func GreaterThanZeroCommand() *cobra.Command {
	return variantCommand("greater-than-zero", "Learn to report the sign of a gaussian observation",
		"GreaterThanZero-v0", "sign", 1, false)
}

func NotXORCommand() *cobra.Command {
	return variantCommand("not-xor", "Learn to report whether the two observed bits agree",
		"NotXOR-v0", "window", 1, false)
}

func TwoInARowCommand() *cobra.Command {
	return variantCommand("two-in-a-row", "Learn to report whether the last two observed bits agree",
		"TwoInARow-v0", "window", 2, true)
}
