// Package inference evaluates introductory hypothesis tests, interval
// estimates and error-rate analyses. Every function is pure: identical
// inputs give identical outputs and invalid inputs fail with
// core.ErrInvalidParameter before anything is computed.
package inference

import (
	"math"

	"hypolab/domain/stats"

	"gonum.org/v1/gonum/stat/distuv"
)

// Evaluate runs a one-sample test of summary against cfg.NullValue
func Evaluate(summary stats.SampleSummary, cfg stats.TestConfig) (stats.TestResult, error) {
	cfg, err := validateTest(summary, cfg)
	if err != nil {
		return stats.TestResult{}, err
	}

	switch cfg.Distribution {
	case stats.Binomial:
		return evaluateBinomial(*summary.SuccessCount, summary.Size, cfg), nil
	case stats.StudentT:
		df := summary.Size - 1
		result, err := evaluateMean(summary, cfg, studentsT(df))
		if err != nil {
			return stats.TestResult{}, err
		}
		result.DegreesOfFreedom = df
		return result, nil
	default:
		return evaluateMean(summary, cfg, distuv.UnitNormal)
	}
}

// evaluateMean is the shared z / t path: standardize, then read tails off ref.
// A standard deviation so small that the statistic overflows is rejected.
func evaluateMean(summary stats.SampleSummary, cfg stats.TestConfig, ref reference) (stats.TestResult, error) {
	se := summary.StdDev / math.Sqrt(float64(summary.Size))
	statistic := (summary.Mean - cfg.NullValue) / se
	if se == 0 || !finite(statistic) {
		return stats.TestResult{}, invalid("std_dev", "%v is too small for this sample; the statistic is not finite", summary.StdDev)
	}

	result := standardTest(statistic, cfg.Alternative, cfg.Alpha, ref)
	result.Distribution = cfg.Distribution
	result.StandardError = se
	return result, nil
}

// standardTest finishes a test whose statistic follows a symmetric reference
// distribution centred on zero
func standardTest(statistic float64, alt stats.Alternative, alpha float64, ref reference) stats.TestResult {
	pValue := tailPValue(ref.CDF, statistic, alt)

	return stats.TestResult{
		Alternative: alt,
		Alpha:       alpha,
		Statistic:   statistic,
		PValue:      pValue,
		Critical:    symmetricCritical(ref, alt, alpha),
		Decision:    stats.DecisionFor(pValue, alpha),
	}
}

func tailPValue(cdf func(float64) float64, statistic float64, alt stats.Alternative) float64 {
	switch alt {
	case stats.Greater:
		return clamp01(1 - cdf(statistic))
	case stats.Less:
		return clamp01(cdf(statistic))
	default:
		return clamp01(2 * (1 - cdf(math.Abs(statistic))))
	}
}

func symmetricCritical(ref reference, alt stats.Alternative, alpha float64) stats.CriticalRegion {
	tail := alpha
	if alt == stats.TwoSided {
		tail = alpha / 2
	}
	c := ref.Quantile(1 - tail)
	return stats.NewCriticalRegion(alt, -c, c)
}

// evaluateBinomial is the exact test on k successes in n trials against p0.
// The critical bounds are the first rejected counts in each tail, so
// Critical.Contains(k) agrees with the p-value decision. Quantiles holds the
// inverse-CDF counts at the same tail probabilities.
func evaluateBinomial(k, n int, cfg stats.TestConfig) stats.TestResult {
	p0 := cfg.NullValue
	upperTail := BinomialAtLeast(k, n, p0)
	lowerTail := BinomialCDF(k, n, p0)

	var pValue float64
	tail := cfg.Alpha
	switch cfg.Alternative {
	case stats.Greater:
		pValue = upperTail
	case stats.Less:
		pValue = lowerTail
	default:
		pValue = math.Min(1, 2*math.Min(upperTail, lowerTail))
		tail = cfg.Alpha / 2
	}

	lower := binomialLowerBound(tail, n, p0)
	upper := binomialUpperBound(tail, n, p0)
	critical := stats.NewCriticalRegion(cfg.Alternative, float64(lower), float64(upper))
	// a tail with no qualifying count is not part of the region
	if lower < 0 {
		critical.Lower = nil
	}
	if upper > n {
		critical.Upper = nil
	}

	quantiles := stats.NewCriticalRegion(cfg.Alternative,
		float64(BinomialQuantile(tail, n, p0)),
		float64(BinomialQuantile(1-tail, n, p0)))

	return stats.TestResult{
		Distribution:  stats.Binomial,
		Alternative:   cfg.Alternative,
		Alpha:         cfg.Alpha,
		Statistic:     float64(k),
		PValue:        pValue,
		Critical:      critical,
		Quantiles:     &quantiles,
		Decision:      stats.DecisionFor(pValue, cfg.Alpha),
		StandardError: math.Sqrt(float64(n) * p0 * (1 - p0)),
		Trials:        n,
		P0:            p0,
	}
}
