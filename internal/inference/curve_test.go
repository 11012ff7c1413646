package inference

import (
	"math"
	"testing"

	"hypolab/domain/core"
	"hypolab/domain/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestCurve_TwoSidedNormal(t *testing.T) {
	result, err := Evaluate(
		stats.SampleSummary{Mean: 102.5, StdDev: 10, Size: 50},
		stats.TestConfig{NullValue: 100, Alternative: stats.TwoSided, Alpha: 0.05, Distribution: stats.Normal},
	)
	require.NoError(t, err)

	curve, err := TestCurve(result, 200)
	require.NoError(t, err)

	assert.Equal(t, stats.Normal, curve.Distribution)
	require.Len(t, curve.Points, 200)
	assert.InDelta(t, -4.0, curve.Points[0].X, 1e-12)
	assert.InDelta(t, 4.0, curve.Points[199].X, 1e-12)
	assert.Equal(t, result.Statistic, curve.Marker)

	require.Len(t, curve.Shaded, 2)
	left, right := curve.Shaded[0], curve.Shaded[1]
	assert.Equal(t, 0.0, left[0].Y)
	assert.Equal(t, 0.0, left[len(left)-1].Y)
	assert.InDelta(t, *result.Critical.Lower, left[len(left)-1].X, 1e-12)
	assert.InDelta(t, *result.Critical.Upper, right[0].X, 1e-12)
}

func TestTestCurve_OneSidedShadesOneTail(t *testing.T) {
	result, err := Evaluate(
		stats.SampleSummary{Mean: 66.2, StdDev: 3, Size: 25},
		stats.TestConfig{NullValue: 65, Alternative: stats.Greater, Alpha: 0.05, Distribution: stats.StudentT},
	)
	require.NoError(t, err)

	curve, err := TestCurve(result, 100)
	require.NoError(t, err)
	require.Len(t, curve.Shaded, 1)
	assert.InDelta(t, *result.Critical.Upper, curve.Shaded[0][0].X, 1e-12)
}

func TestTestCurve_WidensForExtremeStatistic(t *testing.T) {
	result, err := Evaluate(
		stats.SampleSummary{Mean: 16, StdDev: 1, Size: 100},
		stats.TestConfig{NullValue: 15, Alternative: stats.TwoSided, Alpha: 0.05, Distribution: stats.Normal},
	)
	require.NoError(t, err)

	curve, err := TestCurve(result, 50)
	require.NoError(t, err)
	assert.InDelta(t, 10.5, curve.Points[len(curve.Points)-1].X, 1e-12)
}

func TestTestCurve_BinomialBars(t *testing.T) {
	result, err := Evaluate(
		stats.SampleSummary{Size: 100}.WithSuccesses(60),
		stats.TestConfig{NullValue: 0.5, Alternative: stats.TwoSided, Alpha: 0.05, Distribution: stats.Binomial},
	)
	require.NoError(t, err)

	curve, err := TestCurve(result, 200)
	require.NoError(t, err)
	require.Len(t, curve.Bars, 101)
	assert.Empty(t, curve.Points)

	assert.True(t, curve.Bars[39].Rejected)
	assert.False(t, curve.Bars[40].Rejected)
	assert.False(t, curve.Bars[60].Rejected)
	assert.True(t, curve.Bars[61].Rejected)

	total := 0.0
	for _, b := range curve.Bars {
		total += b.P
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestIntervalCurve(t *testing.T) {
	ci, err := ConfidenceInterval(stats.SampleSummary{Mean: 4.2, StdDev: 1.8, Size: 36}, 0.95, stats.Normal)
	require.NoError(t, err)

	curve, err := IntervalCurve(ci, 120)
	require.NoError(t, err)
	require.Len(t, curve.Points, 120)
	assert.InDelta(t, 3.0, curve.Points[0].X, 1e-12)
	assert.InDelta(t, 5.4, curve.Points[119].X, 1e-12)

	require.Len(t, curve.Shaded, 1)
	shade := curve.Shaded[0]
	assert.InDelta(t, ci.Lower, shade[0].X, 1e-12)
	assert.InDelta(t, ci.Upper, shade[len(shade)-1].X, 1e-12)
}

func TestCurves_Invalid(t *testing.T) {
	_, err := TestCurve(stats.TestResult{Distribution: stats.Normal}, 1)
	assert.True(t, core.IsInvalidParameter(err))

	_, err = TestCurve(stats.TestResult{Distribution: stats.StudentT}, 50)
	assert.True(t, core.IsInvalidParameter(err))

	_, err = TestCurve(stats.TestResult{Distribution: stats.Binomial}, 50)
	assert.True(t, core.IsInvalidParameter(err))

	_, err = IntervalCurve(stats.ConfidenceInterval{}, 50)
	assert.True(t, core.IsInvalidParameter(err))
}

func TestTestCurve_RejectsInconsistentResults(t *testing.T) {
	upper := 1.645
	inf := math.Inf(1)
	tt := []struct {
		name   string
		result stats.TestResult
	}{
		{"binomial p0 above one", stats.TestResult{Distribution: stats.Binomial, Trials: 10, P0: 2}},
		{"binomial p0 zero", stats.TestResult{Distribution: stats.Binomial, Trials: 10}},
		{"binomial with degrees of freedom", stats.TestResult{Distribution: stats.Binomial, Trials: 10, P0: 0.5, DegreesOfFreedom: 9}},
		{"t with trials", stats.TestResult{Distribution: stats.StudentT, DegreesOfFreedom: 9, Trials: 10}},
		{"normal with degrees of freedom", stats.TestResult{Distribution: stats.Normal, DegreesOfFreedom: 3}},
		{"infinite statistic", stats.TestResult{Distribution: stats.Normal, Statistic: math.Inf(1)}},
		{"NaN statistic", stats.TestResult{Distribution: stats.Normal, Statistic: math.NaN()}},
		{"infinite bound", stats.TestResult{Distribution: stats.Normal, Critical: stats.CriticalRegion{Upper: &inf}}},
		{"unknown family", stats.TestResult{Distribution: "cauchy", Critical: stats.CriticalRegion{Upper: &upper}}},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			_, err := TestCurve(tc.result, 50)
			require.Error(t, err)
			assert.True(t, core.IsInvalidParameter(err))
		})
	}
}
