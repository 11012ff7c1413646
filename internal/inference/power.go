package inference

import (
	"math"

	"hypolab/domain/stats"
)

// ErrorRates derives the decision thresholds for a test on a mean at level
// alpha, then reports how often that rule errs: Type I under the null mean,
// Type II under the alternative mean, and the resulting power. n = 1 treats
// sigma as the spread of individual measurements.
func ErrorRates(nullMean, altMean, sigma float64, n int, alt stats.Alternative, alpha float64) (stats.ErrorRates, error) {
	alt, err := normalizeAlternative(alt)
	if err != nil {
		return stats.ErrorRates{}, err
	}
	if err := checkAlpha(alpha); err != nil {
		return stats.ErrorRates{}, err
	}
	if err := checkStdDev("sigma", sigma); err != nil {
		return stats.ErrorRates{}, err
	}
	if n < 1 {
		return stats.ErrorRates{}, invalid("size", "must be at least 1, got %d", n)
	}
	if !finite(nullMean) || !finite(altMean) {
		return stats.ErrorRates{}, invalid("mean", "null and alternative means must be finite")
	}

	se := sigma / math.Sqrt(float64(n))
	underNull := func(x float64) float64 { return NormalCDF(x, nullMean, se) }
	underAlt := func(x float64) float64 { return NormalCDF(x, altMean, se) }

	rates := stats.ErrorRates{
		Alternative:   alt,
		Alpha:         alpha,
		NullMean:      nullMean,
		AltMean:       altMean,
		StandardError: se,
	}

	switch alt {
	case stats.Greater:
		threshold := nullMean + ZCritical(1-alpha)*se
		rates.Thresholds = []float64{threshold}
		rates.TypeI = 1 - underNull(threshold)
		rates.TypeII = underAlt(threshold)
	case stats.Less:
		threshold := nullMean - ZCritical(1-alpha)*se
		rates.Thresholds = []float64{threshold}
		rates.TypeI = underNull(threshold)
		rates.TypeII = 1 - underAlt(threshold)
	default:
		z := ZCritical(1 - alpha/2)
		lo, hi := nullMean-z*se, nullMean+z*se
		rates.Thresholds = []float64{lo, hi}
		rates.TypeI = underNull(lo) + (1 - underNull(hi))
		rates.TypeII = underAlt(hi) - underAlt(lo)
	}

	rates.TypeI = clamp01(rates.TypeI)
	rates.TypeII = clamp01(rates.TypeII)
	rates.Power = 1 - rates.TypeII
	return rates, nil
}
