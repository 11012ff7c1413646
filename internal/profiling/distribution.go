package profiling

import (
	"fmt"

	"hypolab/domain/core"
	dstats "hypolab/domain/stats"

	"github.com/montanaflynn/stats"
)

// Summary describes one numeric column
type Summary struct {
	Column   string  `json:"column"`
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Q25      float64 `json:"q25"`
	Q75      float64 `json:"q75"`
	Skewness float64 `json:"skewness"`
	Outliers int     `json:"outliers"`
	// Binary is set when every value is 0 or 1; Successes then counts the ones
	Binary    bool `json:"binary"`
	Successes int  `json:"successes,omitempty"`
}

// Summarize computes the descriptive statistics the inference layer needs.
// StdDev is the sample (n-1) standard deviation.
func Summarize(column string, data []float64) (Summary, error) {
	summary := Summary{Column: column, Count: len(data)}
	if len(data) == 0 {
		return summary, fmt.Errorf("%w: column %q has no numeric values", core.ErrInsufficientData, column)
	}

	mean, err := stats.Mean(data)
	if err != nil {
		return summary, err
	}
	min, err := stats.Min(data)
	if err != nil {
		return summary, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return summary, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return summary, err
	}

	stdDev := 0.0
	if len(data) > 1 {
		stdDev, err = stats.StandardDeviationSample(data)
		if err != nil {
			return summary, err
		}
	}

	// Percentile rejects ranks below the first observation on tiny samples
	q25, err := stats.Percentile(data, 25)
	if err != nil {
		q25 = min
	}
	q75, err := stats.Percentile(data, 75)
	if err != nil {
		q75 = max
	}

	summary.Mean = mean
	summary.StdDev = stdDev
	summary.Min = min
	summary.Max = max
	summary.Median = median
	summary.Q25 = q25
	summary.Q75 = q75
	summary.Skewness = calculateSkewness(data, mean, stdDev)
	summary.Outliers = detectOutliers(data, q25, q75)
	summary.Binary, summary.Successes = countSuccesses(data)

	return summary, nil
}

// ToSampleSummary converts the profile into test input. Binary columns
// carry their success count so they can be used with binomial tests.
func (s Summary) ToSampleSummary() dstats.SampleSummary {
	out := dstats.SampleSummary{Mean: s.Mean, StdDev: s.StdDev, Size: s.Count}
	if s.Binary {
		out = out.WithSuccesses(s.Successes)
	}
	return out
}

// calculateSkewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func calculateSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sumCubedDeviations := 0.0
	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumCubedDeviations += deviation * deviation * deviation
	}

	return sumCubedDeviations * n / ((n - 1) * (n - 2))
}

// detectOutliers counts values outside the 1.5 IQR fences
func detectOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lowerBound := q25 - 1.5*iqr
	upperBound := q75 + 1.5*iqr

	outlierCount := 0
	for _, x := range data {
		if x < lowerBound || x > upperBound {
			outlierCount++
		}
	}
	return outlierCount
}

func countSuccesses(data []float64) (bool, int) {
	ones := 0
	for _, x := range data {
		switch x {
		case 1:
			ones++
		case 0:
		default:
			return false, 0
		}
	}
	return true, ones
}
