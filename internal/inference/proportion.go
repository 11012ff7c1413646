package inference

import (
	"math"

	"hypolab/domain/stats"

	"gonum.org/v1/gonum/stat/distuv"
)

// OneProportionZTest compares an observed success rate with p0 using the
// normal approximation with the null standard error sqrt(p0(1-p0)/n).
func OneProportionZTest(successes, n int, p0 float64, alt stats.Alternative, alpha float64) (stats.ProportionTest, error) {
	alt, err := normalizeAlternative(alt)
	if err != nil {
		return stats.ProportionTest{}, err
	}
	if err := checkAlpha(alpha); err != nil {
		return stats.ProportionTest{}, err
	}
	if n < 1 {
		return stats.ProportionTest{}, invalid("size", "must be at least 1, got %d", n)
	}
	if err := checkCount("successes", successes, n); err != nil {
		return stats.ProportionTest{}, err
	}
	if err := checkProbability("p0", p0, true); err != nil {
		return stats.ProportionTest{}, err
	}

	phat := float64(successes) / float64(n)
	se := math.Sqrt(p0 * (1 - p0) / float64(n))

	result := standardTest((phat-p0)/se, alt, alpha, distuv.UnitNormal)
	result.Distribution = stats.Normal
	result.StandardError = se

	return stats.ProportionTest{
		TestResult:  result,
		Proportions: []float64{phat},
	}, nil
}

// TwoProportionZTest tests p1 - p2 = 0 with the pooled-variance z statistic.
// No continuity correction is applied.
func TwoProportionZTest(x1, n1, x2, n2 int, alt stats.Alternative, alpha float64) (stats.ProportionTest, error) {
	alt, err := normalizeAlternative(alt)
	if err != nil {
		return stats.ProportionTest{}, err
	}
	if err := checkAlpha(alpha); err != nil {
		return stats.ProportionTest{}, err
	}
	if n1 < 1 || n2 < 1 {
		return stats.ProportionTest{}, invalid("size", "both samples need at least 1 observation, got %d and %d", n1, n2)
	}
	if err := checkCount("successes_a", x1, n1); err != nil {
		return stats.ProportionTest{}, err
	}
	if err := checkCount("successes_b", x2, n2); err != nil {
		return stats.ProportionTest{}, err
	}

	p1 := float64(x1) / float64(n1)
	p2 := float64(x2) / float64(n2)
	pooled := float64(x1+x2) / float64(n1+n2)
	if pooled <= 0 || pooled >= 1 {
		return stats.ProportionTest{}, invalid("successes", "pooled proportion must be strictly between 0 and 1, got %v", pooled)
	}
	se := math.Sqrt(pooled * (1 - pooled) * (1/float64(n1) + 1/float64(n2)))

	result := standardTest((p1-p2)/se, alt, alpha, distuv.UnitNormal)
	result.Distribution = stats.Normal
	result.StandardError = se

	return stats.ProportionTest{
		TestResult:  result,
		Proportions: []float64{p1, p2},
		Pooled:      pooled,
	}, nil
}
