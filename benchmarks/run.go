package benchmarks

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/zeu5/gym-dummy/config"
)

func RunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the comparison described by --config",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFile == "" {
				return errors.New("run needs --config")
			}
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			applyFlags(cfg, cmd.Flags().Changed)

			experiments, err := RunComparison(cmd.Context(), cfg, metricsOut, nil)
			if err != nil {
				return err
			}
			return printQValues(experiments, cmd.Println)
		},
	}
}

func ListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the registered environments",
		Run: func(cmd *cobra.Command, args []string) {
			for _, id := range IDs() {
				cmd.Println(id)
			}
		},
	}
}
