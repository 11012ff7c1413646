package profiling

import (
	"errors"
	"testing"

	"hypolab/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	data := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	summary, err := Summarize("score", data)
	require.NoError(t, err)

	assert.Equal(t, "score", summary.Column)
	assert.Equal(t, 8, summary.Count)
	assert.InDelta(t, 5.0, summary.Mean, 1e-12)
	// population sd is 2; the sample sd uses n-1
	assert.InDelta(t, 2.13809, summary.StdDev, 1e-5)
	assert.Equal(t, 2.0, summary.Min)
	assert.Equal(t, 9.0, summary.Max)
	assert.Equal(t, 4.5, summary.Median)
	assert.LessOrEqual(t, summary.Q25, summary.Median)
	assert.GreaterOrEqual(t, summary.Q75, summary.Median)
	assert.Greater(t, summary.Skewness, 0.0)
	assert.False(t, summary.Binary)

	sample := summary.ToSampleSummary()
	assert.Equal(t, 8, sample.Size)
	assert.Equal(t, summary.Mean, sample.Mean)
	assert.Equal(t, summary.StdDev, sample.StdDev)
	assert.Nil(t, sample.SuccessCount)
}

func TestSummarize_SingleValue(t *testing.T) {
	summary, err := Summarize("x", []float64{3.5})
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.StdDev)
	assert.Equal(t, 3.5, summary.Q25)
	assert.Equal(t, 3.5, summary.Q75)
	assert.Equal(t, 0, summary.Outliers)
}

func TestSummarize_BinaryColumn(t *testing.T) {
	summary, err := Summarize("converted", []float64{1, 0, 0, 1, 1, 0, 1, 1})
	require.NoError(t, err)

	assert.True(t, summary.Binary)
	assert.Equal(t, 5, summary.Successes)

	sample := summary.ToSampleSummary()
	require.NotNil(t, sample.SuccessCount)
	assert.Equal(t, 5, *sample.SuccessCount)
}

func TestSummarize_Outliers(t *testing.T) {
	data := []float64{10, 11, 12, 10, 11, 12, 10, 11, 12, 100}
	summary, err := Summarize("latency", data)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Outliers)
}

func TestSummarize_Empty(t *testing.T) {
	_, err := Summarize("empty", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInsufficientData))
}
