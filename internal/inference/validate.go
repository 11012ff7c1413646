package inference

import (
	"fmt"
	"math"

	"hypolab/domain/core"
	"hypolab/domain/stats"
)

func invalid(field, format string, args ...interface{}) error {
	return core.NewInvalidParameterError(field, fmt.Sprintf(format, args...))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func checkAlpha(alpha float64) error {
	if !(alpha > 0 && alpha < 1) {
		return invalid("alpha", "must be strictly between 0 and 1, got %v", alpha)
	}
	return nil
}

func checkConfidence(level float64) error {
	if !(level > 0 && level < 1) {
		return invalid("confidence", "must be strictly between 0 and 1, got %v", level)
	}
	return nil
}

func checkStdDev(field string, sd float64) error {
	if !(sd > 0) || !finite(sd) {
		return invalid(field, "must be positive, got %v", sd)
	}
	return nil
}

func checkProbability(field string, p float64, openInterval bool) error {
	if openInterval {
		if !(p > 0 && p < 1) {
			return invalid(field, "must be strictly between 0 and 1, got %v", p)
		}
		return nil
	}
	if !(p >= 0 && p <= 1) {
		return invalid(field, "must be within [0, 1], got %v", p)
	}
	return nil
}

func checkCount(field string, k, n int) error {
	if k < 0 || k > n {
		return invalid(field, "must be within [0, %d], got %d", n, k)
	}
	return nil
}

// normalizeAlternative treats the zero value as two-sided and rejects unknown directions
func normalizeAlternative(alt stats.Alternative) (stats.Alternative, error) {
	switch alt {
	case "":
		return stats.TwoSided, nil
	case stats.TwoSided, stats.Greater, stats.Less:
		return alt, nil
	}
	return "", invalid("alternative", "unknown direction %q", alt)
}

// validateTest checks a (summary, config) pair before any computation runs
func validateTest(summary stats.SampleSummary, cfg stats.TestConfig) (stats.TestConfig, error) {
	alt, err := normalizeAlternative(cfg.Alternative)
	if err != nil {
		return cfg, err
	}
	cfg.Alternative = alt

	if err := checkAlpha(cfg.Alpha); err != nil {
		return cfg, err
	}
	if summary.Size < 1 {
		return cfg, invalid("size", "must be at least 1, got %d", summary.Size)
	}
	if !finite(cfg.NullValue) {
		return cfg, invalid("null_value", "must be finite")
	}

	switch cfg.Distribution {
	case stats.Normal, stats.StudentT:
		if cfg.Distribution == stats.StudentT && summary.Size < 2 {
			return cfg, invalid("size", "must be at least 2 for a t test, got %d", summary.Size)
		}
		if !finite(summary.Mean) {
			return cfg, invalid("mean", "must be finite")
		}
		if err := checkStdDev("std_dev", summary.StdDev); err != nil {
			return cfg, err
		}
	case stats.Binomial:
		if summary.SuccessCount == nil {
			return cfg, invalid("success_count", "is required for a binomial test")
		}
		if err := checkCount("success_count", *summary.SuccessCount, summary.Size); err != nil {
			return cfg, err
		}
		if err := checkProbability("null_value", cfg.NullValue, true); err != nil {
			return cfg, err
		}
	case "":
		return cfg, invalid("distribution", "is required")
	default:
		return cfg, invalid("distribution", "unknown family %q", cfg.Distribution)
	}

	return cfg, nil
}
