package benchmarks

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/zeu5/gym-dummy/dummy"
	"github.com/zeu5/gym-dummy/policies"
	"github.com/zeu5/gym-dummy/types"
)

// TrainQLearner trains a Q-learner on TwoInARow-v0 for the given number of episodes
func TrainQLearner(episodes, window int, alpha, epsilon float64, seed uint64, logger *slog.Logger) (*policies.QLearningPolicy, error) {
	env, err := Make("TwoInARow-v0", dummy.WithSeed(seed), dummy.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	policy := policies.NewQLearningPolicy(alpha, 0, epsilon, policies.WindowAbstractor(window), seed)
	agent := types.NewAgent(&types.AgentConfig{
		Episodes:    episodes,
		Policy:      policy,
		Environment: env,
	})
	if err := agent.Run(); err != nil {
		return nil, err
	}
	return policy, nil
}

func QValuesCommand() *cobra.Command {
	var window int
	var alpha float64
	var epsilon float64

	cmd := &cobra.Command{
		Use:   "qvalues",
		Short: "Train a Q-learner on TwoInARow-v0 and print its action values",
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := TrainQLearner(episodes, window, alpha, epsilon, seed, slog.Default())
			if err != nil {
				return err
			}
			table, err := dummy.QValues(policy)
			if err != nil {
				return err
			}
			cmd.Println(table)
			return nil
		},
	}
	cmd.Flags().IntVar(&window, "window", 2, "Observations in the state key")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.1, "Learning rate")
	cmd.Flags().Float64Var(&epsilon, "epsilon", 0.1, "Exploration rate")
	return cmd
}
