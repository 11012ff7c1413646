package inference

import (
	"hypolab/domain/stats"
)

// BinomialProbability answers "exactly / at most / at least k successes in n trials"
func BinomialProbability(n int, p float64, k int, mode stats.TailMode) (float64, error) {
	if n < 1 {
		return 0, invalid("trials", "must be at least 1, got %d", n)
	}
	if err := checkProbability("p", p, false); err != nil {
		return 0, err
	}
	if err := checkCount("k", k, n); err != nil {
		return 0, err
	}

	switch mode {
	case stats.Exactly, "":
		return BinomialPMF(k, n, p), nil
	case stats.AtMost:
		return BinomialCDF(k, n, p), nil
	case stats.AtLeast:
		return BinomialAtLeast(k, n, p), nil
	}
	return 0, invalid("mode", "unknown tail mode %q", mode)
}

// NormalProbability is P(X <= x) for X ~ N(mu, sigma)
func NormalProbability(x, mu, sigma float64) (float64, error) {
	if err := checkStdDev("sigma", sigma); err != nil {
		return 0, err
	}
	if !finite(mu) || !finite(x) {
		return 0, invalid("x", "x and mu must be finite")
	}
	return NormalCDF(x, mu, sigma), nil
}

// NormalPercentile is the value below which a fraction q of N(mu, sigma) falls
func NormalPercentile(q, mu, sigma float64) (float64, error) {
	if err := checkProbability("q", q, true); err != nil {
		return 0, err
	}
	if err := checkStdDev("sigma", sigma); err != nil {
		return 0, err
	}
	if !finite(mu) {
		return 0, invalid("mu", "must be finite")
	}
	return NormalQuantile(q, mu, sigma), nil
}
