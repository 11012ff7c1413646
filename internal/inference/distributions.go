package inference

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// reference is the part of a continuous distribution the evaluator needs.
// distuv.Normal and distuv.StudentsT both satisfy it.
type reference interface {
	CDF(x float64) float64
	Quantile(p float64) float64
	Prob(x float64) float64
}

func studentsT(df int) distuv.StudentsT {
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
}

// NormalCDF computes the cumulative distribution function of N(mu, sigma)
func NormalCDF(x, mu, sigma float64) float64 {
	return distuv.Normal{Mu: mu, Sigma: sigma}.CDF(x)
}

// NormalQuantile computes the inverse CDF of N(mu, sigma)
func NormalQuantile(p, mu, sigma float64) float64 {
	return distuv.Normal{Mu: mu, Sigma: sigma}.Quantile(p)
}

// ZCritical returns the standard normal quantile at p
func ZCritical(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}

// TCritical returns the Student's t quantile at p with df degrees of freedom
func TCritical(p float64, df int) float64 {
	return studentsT(df).Quantile(p)
}

func binomial(n int, p float64) distuv.Binomial {
	return distuv.Binomial{N: float64(n), P: p}
}

// BinomialPMF is P(X = k) for X ~ Bin(n, p)
func BinomialPMF(k, n int, p float64) float64 {
	if k < 0 || k > n {
		return 0
	}
	return binomial(n, p).Prob(float64(k))
}

// BinomialCDF is P(X <= k) for X ~ Bin(n, p)
func BinomialCDF(k, n int, p float64) float64 {
	if k < 0 {
		return 0
	}
	if k >= n {
		return 1
	}
	return binomial(n, p).CDF(float64(k))
}

// BinomialAtLeast is P(X >= k) for X ~ Bin(n, p)
func BinomialAtLeast(k, n int, p float64) float64 {
	if k <= 0 {
		return 1
	}
	if k > n {
		return 0
	}
	return clamp01(1 - BinomialCDF(k-1, n, p))
}

// BinomialQuantile returns the smallest k with P(X <= k) >= q
func BinomialQuantile(q float64, n int, p float64) int {
	lo, hi := 0, n
	for lo < hi {
		mid := lo + (hi-lo)/2
		if BinomialCDF(mid, n, p) >= q {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// binomialUpperBound is the smallest count c with P(X >= c) < tail; n+1 when
// no count qualifies.
func binomialUpperBound(tail float64, n int, p float64) int {
	lo, hi := 0, n+1
	for lo < hi {
		mid := lo + (hi-lo)/2
		if BinomialAtLeast(mid, n, p) < tail {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// binomialLowerBound is the largest count c with P(X <= c) < tail; -1 when
// no count qualifies.
func binomialLowerBound(tail float64, n int, p float64) int {
	lo, hi := -1, n
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		if BinomialCDF(mid, n, p) < tail {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

func clamp01(p float64) float64 {
	switch {
	case math.IsNaN(p):
		return p
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
