package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"hypolab/app"
	"hypolab/domain/stats"
	"hypolab/internal/profiling"

	"github.com/spf13/cobra"
)

type probabilityOutput struct {
	Probability float64 `json:"probability"`
}

type columnsOutput struct {
	Columns []string `json:"columns"`
}

// print writes v as indented JSON when --json is set, otherwise runs text
func (e *env) print(cmd *cobra.Command, v interface{}, text func(p *printer)) error {
	out := cmd.OutOrStdout()
	if e.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	p := &printer{w: out}
	text(p)
	return p.err
}

// printer keeps the first write error so the text renderers stay linear
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) test(r stats.TestResult) {
	p.line("Distribution: %s", describeDistribution(r))
	p.line("Alternative:  %s", r.Alternative)
	p.line("Statistic:    %.4f", r.Statistic)
	p.line("P-value:      %.6f", r.PValue)
	p.line("Critical:     %s", describeCritical(r.Critical))
	p.line("Decision:     %s at alpha = %g", r.Decision, r.Alpha)
}

func (p *printer) interval(ci stats.ConfidenceInterval) {
	p.line("%.0f%% interval (%s): [%.4f, %.4f]", ci.Confidence*100, ci.Distribution, ci.Lower, ci.Upper)
	p.line("Estimate %.4f ± %.4f (critical %.4f × SE %.4f)", ci.Estimate, ci.Margin, ci.Critical, ci.StandardError)
}

func (p *printer) proportion(t stats.ProportionTest) {
	parts := make([]string, len(t.Proportions))
	for i, v := range t.Proportions {
		parts[i] = fmt.Sprintf("%.4f", v)
	}
	p.line("Proportions:  %s", strings.Join(parts, ", "))
	if t.Pooled > 0 {
		p.line("Pooled:       %.4f", t.Pooled)
	}
	p.test(t.TestResult)
}

func (p *printer) errorRates(r stats.ErrorRates) {
	thresholds := make([]string, len(r.Thresholds))
	for i, v := range r.Thresholds {
		thresholds[i] = fmt.Sprintf("%.4f", v)
	}
	p.line("Reject when the sample mean crosses %s", strings.Join(thresholds, " / "))
	p.line("Type I:  %.4f", r.TypeI)
	p.line("Type II: %.4f", r.TypeII)
	p.line("Power:   %.4f", r.Power)
}

func (p *printer) summary(s profiling.Summary) {
	p.line("Column %s: n=%d mean=%.4f sd=%.4f", s.Column, s.Count, s.Mean, s.StdDev)
	p.line("min=%.4f q25=%.4f median=%.4f q75=%.4f max=%.4f", s.Min, s.Q25, s.Median, s.Q75, s.Max)
	if s.Binary {
		p.line("binary column, %d successes", s.Successes)
	}
}

func (p *printer) outcome(o app.ScenarioOutcome) {
	p.line("%s", o.Scenario.Title)
	p.line("%s", strings.TrimSpace(o.Scenario.Description))
	for _, t := range o.Tests {
		p.line("")
		p.test(t)
	}
	if o.Interval != nil {
		p.line("")
		p.interval(*o.Interval)
	}
	if o.Proportion != nil {
		p.line("")
		p.proportion(*o.Proportion)
	}
	if o.ErrorRates != nil {
		p.line("")
		p.errorRates(*o.ErrorRates)
	}
	if o.Probability != nil {
		p.line("")
		p.line("Probability: %.6f", *o.Probability)
	}
}

func describeDistribution(r stats.TestResult) string {
	switch r.Distribution {
	case stats.StudentT:
		return fmt.Sprintf("t (df = %d)", r.DegreesOfFreedom)
	case stats.Binomial:
		return fmt.Sprintf("binomial (n = %d, p0 = %g)", r.Trials, r.P0)
	}
	return string(r.Distribution)
}

func describeCritical(c stats.CriticalRegion) string {
	switch {
	case c.Lower != nil && c.Upper != nil:
		return fmt.Sprintf("<= %.4f or >= %.4f", *c.Lower, *c.Upper)
	case c.Lower != nil:
		return fmt.Sprintf("<= %.4f", *c.Lower)
	case c.Upper != nil:
		return fmt.Sprintf(">= %.4f", *c.Upper)
	}
	return "none"
}
