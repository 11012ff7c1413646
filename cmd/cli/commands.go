package main

import (
	"hypolab/adapters/excel"
	"hypolab/app"
	"hypolab/domain/stats"

	"github.com/spf13/cobra"
)

func newEvaluateCmd(e *env) *cobra.Command {
	var (
		summary           stats.SampleSummary
		successes         int
		nullValue, alpha  float64
		alternative, dist string
		includeCurve      bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Run a one-sample z, t or exact binomial test",
		Long: `Run a one-sample hypothesis test from summary statistics.

Example: hypolab evaluate --mean 66.2 --sd 3 --n 25 --null 65 --alt greater --dist t`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			alt, err := stats.ParseAlternative(alternative)
			if err != nil {
				return err
			}
			family, err := stats.ParseDistribution(dist)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("successes") {
				summary = summary.WithSuccesses(successes)
			}

			resp, err := e.inference.Evaluate(cmd.Context(), app.EvaluationRequest{
				Summary:      summary,
				Config:       stats.TestConfig{NullValue: nullValue, Alternative: alt, Alpha: alpha, Distribution: family},
				IncludeCurve: includeCurve,
			})
			if err != nil {
				return err
			}
			return e.print(cmd, resp, func(p *printer) { p.test(resp.Result) })
		},
	}

	cmd.Flags().Float64Var(&summary.Mean, "mean", 0, "Sample mean")
	cmd.Flags().Float64Var(&summary.StdDev, "sd", 0, "Standard deviation (population sigma for z, sample s for t)")
	cmd.Flags().IntVar(&summary.Size, "n", 0, "Sample size or number of trials")
	cmd.Flags().IntVar(&successes, "successes", 0, "Number of successes (binomial only)")
	cmd.Flags().Float64Var(&nullValue, "null", 0, "Null hypothesis value (p0 for binomial)")
	cmd.Flags().StringVar(&alternative, "alt", "two-sided", "Alternative: two-sided|greater|less")
	cmd.Flags().StringVar(&dist, "dist", "normal", "Reference distribution: normal|t|binomial")
	cmd.Flags().Float64Var(&alpha, "alpha", 0, "Significance level (default from DEFAULT_ALPHA)")
	cmd.Flags().BoolVar(&includeCurve, "curve", false, "Include the density curve in JSON output")

	return cmd
}

func newIntervalCmd(e *env) *cobra.Command {
	var (
		summary    stats.SampleSummary
		confidence float64
		dist       string
	)

	cmd := &cobra.Command{
		Use:   "interval",
		Short: "Compute a two-sided confidence interval for a mean",
		Long: `Compute a confidence interval from summary statistics.

Example: hypolab interval --mean 4.2 --sd 1.5 --n 25 --confidence 0.95`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			family, err := stats.ParseDistribution(dist)
			if err != nil {
				return err
			}
			ci, _, err := e.inference.ConfidenceInterval(cmd.Context(), summary, confidence, family)
			if err != nil {
				return err
			}
			return e.print(cmd, ci, func(p *printer) { p.interval(*ci) })
		},
	}

	cmd.Flags().Float64Var(&summary.Mean, "mean", 0, "Sample mean")
	cmd.Flags().Float64Var(&summary.StdDev, "sd", 0, "Standard deviation")
	cmd.Flags().IntVar(&summary.Size, "n", 0, "Sample size")
	cmd.Flags().Float64Var(&confidence, "confidence", 0, "Confidence level (default 1 - DEFAULT_ALPHA)")
	cmd.Flags().StringVar(&dist, "dist", "normal", "Reference distribution: normal|t")

	return cmd
}

func newProportionsCmd(e *env) *cobra.Command {
	var (
		x1, n1, x2, n2 int
		p0, alpha      float64
		alternative    string
	)

	cmd := &cobra.Command{
		Use:   "proportions",
		Short: "Run a one- or two-sample proportion z-test",
		Long: `Test a single proportion against --p0, or compare two groups when --x2/--n2 are given.

Examples:
  hypolab proportions --x1 60 --n1 100 --p0 0.5
  hypolab proportions --x1 45 --n1 400 --x2 38 --n2 400 --alt greater`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			alt, err := stats.ParseAlternative(alternative)
			if err != nil {
				return err
			}

			var result *stats.ProportionTest
			if cmd.Flags().Changed("n2") {
				result, err = e.inference.TwoProportion(cmd.Context(), x1, n1, x2, n2, alt, alpha)
			} else {
				result, err = e.inference.OneProportion(cmd.Context(), x1, n1, p0, alt, alpha)
			}
			if err != nil {
				return err
			}
			return e.print(cmd, result, func(p *printer) { p.proportion(*result) })
		},
	}

	cmd.Flags().IntVar(&x1, "x1", 0, "Successes in the first sample")
	cmd.Flags().IntVar(&n1, "n1", 0, "Size of the first sample")
	cmd.Flags().IntVar(&x2, "x2", 0, "Successes in the second sample")
	cmd.Flags().IntVar(&n2, "n2", 0, "Size of the second sample")
	cmd.Flags().Float64Var(&p0, "p0", 0.5, "Hypothesized proportion for the one-sample test")
	cmd.Flags().StringVar(&alternative, "alt", "two-sided", "Alternative: two-sided|greater|less")
	cmd.Flags().Float64Var(&alpha, "alpha", 0, "Significance level (default from DEFAULT_ALPHA)")

	return cmd
}

func newBinomialCmd(e *env) *cobra.Command {
	var (
		n, k int
		prob float64
		mode string
	)

	cmd := &cobra.Command{
		Use:   "binomial",
		Short: "Compute an exact binomial probability",
		Long: `Compute P(X = k), P(X <= k) or P(X >= k) for X ~ Bin(n, p).

Example: hypolab binomial --n 100 --p 0.09 --k 3 --mode exactly`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tail, err := stats.ParseTailMode(mode)
			if err != nil {
				return err
			}
			value, err := e.inference.BinomialProbability(cmd.Context(), n, prob, k, tail)
			if err != nil {
				return err
			}
			out := probabilityOutput{Probability: value}
			return e.print(cmd, out, func(p *printer) {
				p.line("P(%s %d) with n=%d, p=%g: %.6f", tailSymbol(tail), k, n, prob, value)
			})
		},
	}

	cmd.Flags().IntVar(&n, "n", 0, "Number of trials")
	cmd.Flags().IntVar(&k, "k", 0, "Number of successes")
	cmd.Flags().Float64Var(&prob, "p", 0, "Success probability")
	cmd.Flags().StringVar(&mode, "mode", "exactly", "Tail: exactly|at_most|at_least")

	return cmd
}

func newErrorRatesCmd(e *env) *cobra.Command {
	var (
		nullMean, altMean, sigma, alpha float64
		n                               int
		alternative                     string
	)

	cmd := &cobra.Command{
		Use:   "error-rates",
		Short: "Compute Type I / Type II error and power of a z-test",
		Long: `Compute the error rates of a z-test decision rule when the true mean is --alt-mean.

Example: hypolab error-rates --null 4 --alt-mean 4.05 --sigma 0.3 --n 36 --alt greater`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			alt, err := stats.ParseAlternative(alternative)
			if err != nil {
				return err
			}
			rates, err := e.inference.ErrorRates(cmd.Context(), nullMean, altMean, sigma, n, alt, alpha)
			if err != nil {
				return err
			}
			return e.print(cmd, rates, func(p *printer) { p.errorRates(*rates) })
		},
	}

	cmd.Flags().Float64Var(&nullMean, "null", 0, "Mean under the null hypothesis")
	cmd.Flags().Float64Var(&altMean, "alt-mean", 0, "True mean under the alternative")
	cmd.Flags().Float64Var(&sigma, "sigma", 0, "Population standard deviation")
	cmd.Flags().IntVar(&n, "n", 1, "Sample size")
	cmd.Flags().StringVar(&alternative, "alt", "two-sided", "Alternative: two-sided|greater|less")
	cmd.Flags().Float64Var(&alpha, "alpha", 0, "Significance level (default from DEFAULT_ALPHA)")

	return cmd
}

func newSummarizeCmd(e *env) *cobra.Command {
	var (
		column, sheet, alternative, dist string
		nullValue, alpha                 float64
	)

	cmd := &cobra.Command{
		Use:   "summarize [data-file]",
		Short: "Summarize a numeric column of a CSV or Excel file",
		Long: `Summarize one column of a data file. Without --column the available columns are listed.
With --null the column is also tested against that value.

Example: hypolab summarize waits.xlsx --column Minutes --null 144 --dist t`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := excel.NewDataReader(args[0], excel.WithSheet(sheet), excel.WithLogger(e.logger))
			datasets := app.NewDatasetService(reader, column, e.inference, e.logger)

			if column == "" {
				cols, err := datasets.Columns(cmd.Context())
				if err != nil {
					return err
				}
				return e.print(cmd, columnsOutput{Columns: cols}, func(p *printer) {
					for _, c := range cols {
						p.line("%s", c)
					}
				})
			}

			if !cmd.Flags().Changed("null") {
				summary, err := datasets.Summary(cmd.Context())
				if err != nil {
					return err
				}
				return e.print(cmd, summary, func(p *printer) { p.summary(*summary) })
			}

			alt, err := stats.ParseAlternative(alternative)
			if err != nil {
				return err
			}
			var family stats.Distribution
			if dist != "" {
				if family, err = stats.ParseDistribution(dist); err != nil {
					return err
				}
			}
			eval, err := datasets.EvaluateAgainst(cmd.Context(), stats.TestConfig{
				NullValue: nullValue, Alternative: alt, Alpha: alpha, Distribution: family,
			}, false)
			if err != nil {
				return err
			}
			return e.print(cmd, eval, func(p *printer) {
				p.summary(eval.Summary)
				p.line("")
				p.test(eval.Result.Result)
			})
		},
	}

	cmd.Flags().StringVar(&column, "column", "", "Column header to read")
	cmd.Flags().StringVar(&sheet, "sheet", "Sheet1", "Worksheet name for Excel files")
	cmd.Flags().Float64Var(&nullValue, "null", 0, "Test the column mean (or proportion of ones) against this value")
	cmd.Flags().StringVar(&alternative, "alt", "two-sided", "Alternative: two-sided|greater|less")
	cmd.Flags().StringVar(&dist, "dist", "", "Reference distribution; empty picks binomial for 0/1 columns and t otherwise")
	cmd.Flags().Float64Var(&alpha, "alpha", 0, "Significance level (default from DEFAULT_ALPHA)")

	return cmd
}

func newScenarioCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Browse and run the built-in worked examples",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the built-in scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarios, err := app.NewScenarioService(e.inference)
			if err != nil {
				return err
			}
			list := scenarios.List()
			return e.print(cmd, list, func(p *printer) {
				for _, sc := range list {
					p.line("%-22s %-22s %s", sc.ID, sc.Kind, sc.Title)
				}
			})
		},
	}

	runCmd := &cobra.Command{
		Use:   "run [scenario-id]",
		Short: "Run one scenario and print its outcome",
		Long: `Run a worked example and print what it computes.

Example: hypolab scenario run speeding-judge`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarios, err := app.NewScenarioService(e.inference)
			if err != nil {
				return err
			}
			outcome, err := scenarios.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return e.print(cmd, outcome, func(p *printer) { p.outcome(*outcome) })
		},
	}

	cmd.AddCommand(listCmd, runCmd)
	return cmd
}

func newSimulateCmd(e *env) *cobra.Command {
	var (
		n                int
		trueP, p0, alpha float64
		alternative      string
		seed             uint64
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Draw a Bernoulli sample and test its proportion",
		Long: `Draw n Bernoulli(true-p) trials from a seeded generator and test the observed
proportion against --p0. The same seed always gives the same sample.

Example: hypolab simulate --n 200 --true-p 0.55 --p0 0.5 --alt greater --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			alt, err := stats.ParseAlternative(alternative)
			if err != nil {
				return err
			}
			var seedPtr *uint64
			if cmd.Flags().Changed("seed") {
				seedPtr = &seed
			}
			sim, err := e.inference.SimulateProportion(cmd.Context(), seedPtr, n, trueP, p0, alt, alpha)
			if err != nil {
				return err
			}
			return e.print(cmd, sim, func(p *printer) {
				p.line("Sample: %d successes in %d draws (p̂ = %.4f, seed %d)",
					sim.Sample.Successes, sim.Sample.Size, sim.Sample.Proportion, sim.Sample.Seed)
				p.proportion(sim.Test)
			})
		},
	}

	cmd.Flags().IntVar(&n, "n", 100, "Number of draws")
	cmd.Flags().Float64Var(&trueP, "true-p", 0.5, "True success probability used to draw")
	cmd.Flags().Float64Var(&p0, "p0", 0.5, "Hypothesized proportion")
	cmd.Flags().StringVar(&alternative, "alt", "two-sided", "Alternative: two-sided|greater|less")
	cmd.Flags().Float64Var(&alpha, "alpha", 0, "Significance level (default from DEFAULT_ALPHA)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Generator seed (default from SIMULATION_SEED)")

	return cmd
}

func tailSymbol(mode stats.TailMode) string {
	switch mode {
	case stats.AtMost:
		return "X <="
	case stats.AtLeast:
		return "X >="
	default:
		return "X ="
	}
}
