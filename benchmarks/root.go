package benchmarks

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	episodes   int
	horizon    int
	saveFile   string
	runs       int
	seed       uint64
	configFile string
	logLevel   string
	metricsOut string
)

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
}

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "gym-dummy",
		Short:         "Sanity checks for reinforcement learning agents on tiny environments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLevel(logLevel)
			if err != nil {
				return err
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
	}
	rootCommand.PersistentFlags().IntVarP(&episodes, "episodes", "e", 1000, "Number of episodes to run")
	rootCommand.PersistentFlags().IntVar(&horizon, "horizon", 0, "Horizon of each episode, 0 lets the environment end it")
	rootCommand.PersistentFlags().StringVarP(&saveFile, "save", "s", "results", "Save the result data in the specified folder")
	rootCommand.PersistentFlags().IntVar(&runs, "runs", 1, "Number of experiment runs")
	rootCommand.PersistentFlags().Uint64Var(&seed, "seed", 1, "Seed for environments and policies")
	rootCommand.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML comparison config")
	rootCommand.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCommand.PersistentFlags().StringVar(&metricsOut, "metrics-out", "", "Write prometheus metrics in text format to this file")
	// adding the subcommands here
	rootCommand.AddCommand(ListCommand())
	rootCommand.AddCommand(GreaterThanZeroCommand())
	rootCommand.AddCommand(NotXORCommand())
	rootCommand.AddCommand(TwoInARowCommand())
	rootCommand.AddCommand(RunCommand())
	rootCommand.AddCommand(QValuesCommand())
	return rootCommand
}
