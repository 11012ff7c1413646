package inference

import (
	"math"

	"hypolab/domain/stats"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

const curveHalfWidth = 4.0

// TestCurve renders the null distribution of a test result for charting.
// Continuous families are drawn over ±4 (widened to show the statistic)
// with one shaded polygon per rejection tail; binomial tests become bars
// flagged by the rejection region.
func TestCurve(result stats.TestResult, points int) (stats.DensityCurve, error) {
	if points < 2 {
		return stats.DensityCurve{}, invalid("points", "must be at least 2, got %d", points)
	}
	if err := validateCurveResult(result); err != nil {
		return stats.DensityCurve{}, err
	}

	switch result.Distribution {
	case stats.Binomial:
		bars := make([]stats.Bar, result.Trials+1)
		for k := range bars {
			bars[k] = stats.Bar{
				K:        k,
				P:        BinomialPMF(k, result.Trials, result.P0),
				Rejected: result.Critical.Contains(float64(k)),
			}
		}
		return stats.DensityCurve{Distribution: stats.Binomial, Bars: bars, Marker: result.Statistic}, nil
	case stats.StudentT:
		return continuousCurve(result, studentsT(result.DegreesOfFreedom), points), nil
	default:
		return continuousCurve(result, distuv.UnitNormal, points), nil
	}
}

// validateCurveResult checks a result that may come from a caller rather
// than from Evaluate
func validateCurveResult(result stats.TestResult) error {
	if !finite(result.Statistic) {
		return invalid("statistic", "must be finite")
	}
	for _, bound := range result.Critical.Values() {
		if !finite(bound) {
			return invalid("critical", "bounds must be finite")
		}
	}

	switch result.Distribution {
	case stats.Binomial:
		if result.Trials < 1 {
			return invalid("trials", "binomial result carries no trial count")
		}
		if err := checkProbability("p0", result.P0, true); err != nil {
			return err
		}
		if result.DegreesOfFreedom != 0 {
			return invalid("degrees_of_freedom", "must be unset for a binomial result")
		}
	case stats.StudentT:
		if result.DegreesOfFreedom < 1 {
			return invalid("degrees_of_freedom", "must be at least 1, got %d", result.DegreesOfFreedom)
		}
		if result.Trials != 0 {
			return invalid("trials", "must be unset for a t result")
		}
	case stats.Normal:
		if result.DegreesOfFreedom != 0 || result.Trials != 0 {
			return invalid("distribution", "normal result cannot carry degrees of freedom or trials")
		}
	default:
		return invalid("distribution", "cannot draw %q", result.Distribution)
	}
	return nil
}

func continuousCurve(result stats.TestResult, ref reference, points int) stats.DensityCurve {
	width := curveHalfWidth
	if s := math.Abs(result.Statistic); finite(s) && s+0.5 > width {
		width = s + 0.5
	}
	lo, hi := -width, width

	curve := stats.DensityCurve{
		Distribution: result.Distribution,
		Points:       sampleDensity(ref.Prob, lo, hi, points),
		Marker:       result.Statistic,
	}

	tailPoints := points / 4
	if tailPoints < 2 {
		tailPoints = 2
	}
	if result.Critical.Lower != nil && *result.Critical.Lower > lo {
		curve.Shaded = append(curve.Shaded, shadedArea(ref.Prob, lo, *result.Critical.Lower, tailPoints))
	}
	if result.Critical.Upper != nil && *result.Critical.Upper < hi {
		curve.Shaded = append(curve.Shaded, shadedArea(ref.Prob, *result.Critical.Upper, hi, tailPoints))
	}
	return curve
}

// IntervalCurve draws the sampling distribution of the mean, N(estimate, SE),
// over estimate ± 4 SE and shades the interval itself
func IntervalCurve(ci stats.ConfidenceInterval, points int) (stats.DensityCurve, error) {
	if points < 2 {
		return stats.DensityCurve{}, invalid("points", "must be at least 2, got %d", points)
	}
	if err := checkStdDev("standard_error", ci.StandardError); err != nil {
		return stats.DensityCurve{}, err
	}

	density := distuv.Normal{Mu: ci.Estimate, Sigma: ci.StandardError}.Prob
	lo := ci.Estimate - curveHalfWidth*ci.StandardError
	hi := ci.Estimate + curveHalfWidth*ci.StandardError

	tailPoints := points / 2
	if tailPoints < 2 {
		tailPoints = 2
	}
	return stats.DensityCurve{
		Distribution: ci.Distribution,
		Points:       sampleDensity(density, lo, hi, points),
		Shaded:       [][]stats.Point{shadedArea(density, math.Max(lo, ci.Lower), math.Min(hi, ci.Upper), tailPoints)},
		Marker:       ci.Estimate,
	}, nil
}

func sampleDensity(pdf func(float64) float64, lo, hi float64, n int) []stats.Point {
	xs := floats.Span(make([]float64, n), lo, hi)
	out := make([]stats.Point, n)
	for i, x := range xs {
		out[i] = stats.Point{X: x, Y: pdf(x)}
	}
	return out
}

// shadedArea is the closed polygon under pdf between from and to
func shadedArea(pdf func(float64) float64, from, to float64, n int) []stats.Point {
	poly := make([]stats.Point, 0, n+2)
	poly = append(poly, stats.Point{X: from, Y: 0})
	poly = append(poly, sampleDensity(pdf, from, to, n)...)
	poly = append(poly, stats.Point{X: to, Y: 0})
	return poly
}
