package main

import (
	"fmt"
	"os"

	"hypolab/app"
	"hypolab/internal"
	"hypolab/internal/config"

	"github.com/spf13/cobra"
)

// env is built once per invocation in PersistentPreRunE
type env struct {
	cfg       *config.Config
	logger    *internal.Logger
	inference *app.InferenceService
	asJSON    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	e := &env{}

	rootCmd := &cobra.Command{
		Use:           "hypolab",
		Short:         "Hypothesis tests, intervals and error rates from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.logger = internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level))
			e.inference = app.NewInferenceService(cfg, e.logger)
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVar(&e.asJSON, "json", false, "Print results as JSON")

	rootCmd.AddCommand(
		newEvaluateCmd(e),
		newIntervalCmd(e),
		newProportionsCmd(e),
		newBinomialCmd(e),
		newErrorRatesCmd(e),
		newSummarizeCmd(e),
		newScenarioCmd(e),
		newSimulateCmd(e),
	)

	return rootCmd
}
