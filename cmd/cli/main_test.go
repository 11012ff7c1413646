package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"hypolab/app"
	"hypolab/domain/stats"
	"hypolab/internal/profiling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEvaluateJSON(t *testing.T) {
	out, err := run(t, "evaluate", "--mean", "66.2", "--sd", "3", "--n", "25", "--null", "65", "--alt", "greater", "--dist", "t", "--json")
	require.NoError(t, err)

	var resp app.EvaluationResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.InDelta(t, 2.0, resp.Result.Statistic, 1e-9)
	assert.Equal(t, 24, resp.Result.DegreesOfFreedom)
	assert.Equal(t, stats.Reject, resp.Result.Decision)
}

func TestEvaluateText(t *testing.T) {
	out, err := run(t, "evaluate", "--mean", "66.2", "--sd", "3", "--n", "25", "--null", "65", "--alt", "larger", "--dist", "t")
	require.NoError(t, err)
	assert.Contains(t, out, "t (df = 24)")
	assert.Contains(t, out, "reject")
}

func TestEvaluateRejectsBadInput(t *testing.T) {
	_, err := run(t, "evaluate", "--mean", "1", "--sd", "1", "--n", "0")
	assert.Error(t, err)

	_, err = run(t, "evaluate", "--alt", "sideways")
	assert.Error(t, err)
}

func TestBinomialJSON(t *testing.T) {
	out, err := run(t, "binomial", "--n", "100", "--p", "0.09", "--k", "3", "--json")
	require.NoError(t, err)

	var resp probabilityOutput
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.InDelta(t, 0.012544, resp.Probability, 1e-5)
}

func TestProportions(t *testing.T) {
	out, err := run(t, "proportions", "--x1", "60", "--n1", "100", "--p0", "0.5", "--json")
	require.NoError(t, err)
	var one stats.ProportionTest
	require.NoError(t, json.Unmarshal([]byte(out), &one))
	assert.InDelta(t, 2.0, one.Statistic, 1e-9)

	out, err = run(t, "proportions", "--x1", "45", "--n1", "400", "--x2", "38", "--n2", "400", "--alt", "greater", "--json")
	require.NoError(t, err)
	var two stats.ProportionTest
	require.NoError(t, json.Unmarshal([]byte(out), &two))
	assert.Len(t, two.Proportions, 2)
	assert.InDelta(t, 0.10375, two.Pooled, 1e-9)
}

func TestIntervalAndErrorRates(t *testing.T) {
	out, err := run(t, "interval", "--mean", "4.2", "--sd", "1.5", "--n", "25", "--confidence", "0.95")
	require.NoError(t, err)
	assert.Contains(t, out, "95% interval")

	out, err = run(t, "error-rates", "--null", "4", "--alt-mean", "4.05", "--sigma", "0.3", "--n", "36", "--alt", "greater")
	require.NoError(t, err)
	assert.Contains(t, out, "Power")
}

func TestScenarioCommands(t *testing.T) {
	out, err := run(t, "scenario", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "diet-plan")
	assert.Contains(t, out, "vaccine-doses")

	out, err = run(t, "scenario", "run", "fair-coin", "--json")
	require.NoError(t, err)
	var outcome app.ScenarioOutcome
	require.NoError(t, json.Unmarshal([]byte(out), &outcome))
	require.Len(t, outcome.Tests, 1)
	assert.Equal(t, stats.Binomial, outcome.Tests[0].Distribution)

	_, err = run(t, "scenario", "run", "no-such-scenario")
	assert.Error(t, err)
}

func TestSimulateIsReproducible(t *testing.T) {
	args := []string{"simulate", "--n", "200", "--true-p", "0.55", "--seed", "7", "--json"}
	first, err := run(t, args...)
	require.NoError(t, err)
	second, err := run(t, args...)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSummarize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waits.csv")
	require.NoError(t, os.WriteFile(path, []byte("Minutes,Clinic\n150,a\n162,b\n139,a\n171,b\n"), 0o644))

	out, err := run(t, "summarize", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Minutes")
	assert.Contains(t, out, "Clinic")

	out, err = run(t, "summarize", path, "--column", "Minutes", "--json")
	require.NoError(t, err)
	var summary profiling.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 4, summary.Count)
	assert.InDelta(t, 155.5, summary.Mean, 1e-9)

	out, err = run(t, "summarize", path, "--column", "Minutes", "--null", "144", "--json")
	require.NoError(t, err)
	var eval app.DatasetEvaluation
	require.NoError(t, json.Unmarshal([]byte(out), &eval))
	assert.Equal(t, stats.StudentT, eval.Result.Result.Distribution)
	assert.Equal(t, 3, eval.Result.Result.DegreesOfFreedom)
}
