package inference

import (
	"math/rand/v2"

	"hypolab/domain/stats"

	"gonum.org/v1/gonum/stat/distuv"
)

// ProportionSample is a simulated run of n Bernoulli(p) trials
type ProportionSample struct {
	Seed       uint64  `json:"seed"`
	Size       int     `json:"size"`
	TrueP      float64 `json:"true_p"`
	Successes  int     `json:"successes"`
	Proportion float64 `json:"proportion"`
}

// SimulateProportionSample draws n Bernoulli(p) trials from a PCG source
// seeded with seed. The same seed always yields the same sample.
func SimulateProportionSample(seed uint64, n int, p float64) (ProportionSample, error) {
	if n < 1 {
		return ProportionSample{}, invalid("size", "must be at least 1, got %d", n)
	}
	if err := checkProbability("p", p, false); err != nil {
		return ProportionSample{}, err
	}

	trial := distuv.Bernoulli{P: p, Src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
	successes := 0
	for i := 0; i < n; i++ {
		if trial.Rand() == 1 {
			successes++
		}
	}

	return ProportionSample{
		Seed:       seed,
		Size:       n,
		TrueP:      p,
		Successes:  successes,
		Proportion: float64(successes) / float64(n),
	}, nil
}

// SimulatedTest draws a sample with SimulateProportionSample and runs the
// one-proportion z-test on it against p0
func SimulatedTest(seed uint64, n int, trueP, p0 float64, alt stats.Alternative, alpha float64) (ProportionSample, stats.ProportionTest, error) {
	sample, err := SimulateProportionSample(seed, n, trueP)
	if err != nil {
		return ProportionSample{}, stats.ProportionTest{}, err
	}
	result, err := OneProportionZTest(sample.Successes, n, p0, alt, alpha)
	if err != nil {
		return ProportionSample{}, stats.ProportionTest{}, err
	}
	return sample, result, nil
}
