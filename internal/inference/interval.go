package inference

import (
	"math"

	"hypolab/domain/stats"
)

// ConfidenceInterval builds a two-sided interval for the population mean.
// With the normal family the critical value is Φ⁻¹((1+c)/2); with t it is
// the t quantile on size-1 degrees of freedom.
func ConfidenceInterval(summary stats.SampleSummary, confidence float64, dist stats.Distribution) (stats.ConfidenceInterval, error) {
	if err := checkConfidence(confidence); err != nil {
		return stats.ConfidenceInterval{}, err
	}
	if summary.Size < 1 {
		return stats.ConfidenceInterval{}, invalid("size", "must be at least 1, got %d", summary.Size)
	}
	if !finite(summary.Mean) {
		return stats.ConfidenceInterval{}, invalid("mean", "must be finite")
	}
	if err := checkStdDev("std_dev", summary.StdDev); err != nil {
		return stats.ConfidenceInterval{}, err
	}

	q := (1 + confidence) / 2
	ci := stats.ConfidenceInterval{
		Distribution:  dist,
		Confidence:    confidence,
		Estimate:      summary.Mean,
		StandardError: summary.StdDev / math.Sqrt(float64(summary.Size)),
	}

	switch dist {
	case stats.Normal, "":
		ci.Distribution = stats.Normal
		ci.Critical = ZCritical(q)
	case stats.StudentT:
		if summary.Size < 2 {
			return stats.ConfidenceInterval{}, invalid("size", "must be at least 2 for a t interval, got %d", summary.Size)
		}
		ci.DegreesOfFreedom = summary.Size - 1
		ci.Critical = TCritical(q, ci.DegreesOfFreedom)
	default:
		return stats.ConfidenceInterval{}, invalid("distribution", "intervals support normal or t, got %q", dist)
	}

	ci.Margin = ci.Critical * ci.StandardError
	ci.Lower = summary.Mean - ci.Margin
	ci.Upper = summary.Mean + ci.Margin
	return ci, nil
}
