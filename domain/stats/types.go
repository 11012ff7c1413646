package stats

import (
	"strings"

	"hypolab/domain/core"
)

// ============================================================================
// ENUMERATIONS
// ============================================================================

// Alternative is the direction of the alternative hypothesis
type Alternative string

const (
	TwoSided Alternative = "two-sided"
	Greater  Alternative = "greater"
	Less     Alternative = "less"
)

// ParseAlternative accepts the canonical names plus the "larger"/"smaller" aliases
func ParseAlternative(s string) (Alternative, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "two-sided", "two_sided", "two-tailed", "":
		return TwoSided, nil
	case "greater", "larger", "right":
		return Greater, nil
	case "less", "smaller", "left":
		return Less, nil
	}
	return "", core.NewInvalidParameterError("alternative", "must be one of two-sided, greater, less; got "+s)
}

// Distribution is the reference distribution of the test statistic
type Distribution string

const (
	Normal   Distribution = "normal"
	StudentT Distribution = "t"
	Binomial Distribution = "binomial"
)

// ParseDistribution maps user input to a Distribution
func ParseDistribution(s string) (Distribution, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "z":
		return Normal, nil
	case "t", "student", "students-t":
		return StudentT, nil
	case "binomial", "binom":
		return Binomial, nil
	}
	return "", core.NewInvalidParameterError("distribution", "must be one of normal, t, binomial; got "+s)
}

// Decision is the outcome of a hypothesis test
type Decision string

const (
	Reject       Decision = "reject"
	FailToReject Decision = "fail-to-reject"
)

// DecisionFor applies the rejection rule: reject iff p < alpha
func DecisionFor(pValue, alpha float64) Decision {
	if pValue < alpha {
		return Reject
	}
	return FailToReject
}

// ============================================================================
// TEST INPUTS
// ============================================================================

// SampleSummary describes the observed sample. StdDev is zero when absent;
// SuccessCount is only used by proportion and binomial tests.
type SampleSummary struct {
	Mean         float64 `json:"mean"`
	StdDev       float64 `json:"std_dev,omitempty"`
	Size         int     `json:"size"`
	SuccessCount *int    `json:"success_count,omitempty"`
}

// WithSuccesses returns a copy of the summary carrying a success count
func (s SampleSummary) WithSuccesses(k int) SampleSummary {
	s.SuccessCount = &k
	return s
}

// TestConfig holds the hypothesis under test. For binomial tests NullValue
// is the hypothesized success probability.
type TestConfig struct {
	NullValue    float64      `json:"null_value"`
	Alternative  Alternative  `json:"alternative"`
	Alpha        float64      `json:"alpha"`
	Distribution Distribution `json:"distribution"`
}

// ============================================================================
// TEST OUTPUTS
// ============================================================================

// CriticalRegion bounds the acceptance region. A nil bound means that tail
// is not part of the rejection region.
type CriticalRegion struct {
	Lower *float64 `json:"lower,omitempty"`
	Upper *float64 `json:"upper,omitempty"`
}

// NewCriticalRegion builds a region for the given alternative. For a
// two-sided test both bounds are set.
func NewCriticalRegion(alt Alternative, lower, upper float64) CriticalRegion {
	switch alt {
	case Greater:
		return CriticalRegion{Upper: &upper}
	case Less:
		return CriticalRegion{Lower: &lower}
	default:
		return CriticalRegion{Lower: &lower, Upper: &upper}
	}
}

// Values lists the bounds in ascending order
func (r CriticalRegion) Values() []float64 {
	out := make([]float64, 0, 2)
	if r.Lower != nil {
		out = append(out, *r.Lower)
	}
	if r.Upper != nil {
		out = append(out, *r.Upper)
	}
	return out
}

// Contains reports whether a statistic lies in the rejection region
func (r CriticalRegion) Contains(statistic float64) bool {
	if r.Lower != nil && statistic <= *r.Lower {
		return true
	}
	if r.Upper != nil && statistic >= *r.Upper {
		return true
	}
	return false
}

// TestResult is the outcome of one evaluation. Decision is Reject iff PValue < Alpha.
type TestResult struct {
	Distribution     Distribution   `json:"distribution"`
	Alternative      Alternative    `json:"alternative"`
	Alpha            float64        `json:"alpha"`
	Statistic        float64        `json:"statistic"`
	PValue           float64        `json:"p_value"`
	Critical         CriticalRegion `json:"critical"`
	Decision         Decision       `json:"decision"`
	StandardError    float64        `json:"standard_error,omitempty"`
	DegreesOfFreedom int            `json:"degrees_of_freedom,omitempty"`
	// Binomial tests only. Quantiles are the PPF counts at the tail
	// probabilities, the outermost counts the test still accepts in the
	// usual case.
	Trials    int             `json:"trials,omitempty"`
	P0        float64         `json:"p0,omitempty"`
	Quantiles *CriticalRegion `json:"quantiles,omitempty"`
}

// Rejected is shorthand for Decision == Reject
func (r TestResult) Rejected() bool {
	return r.Decision == Reject
}

// ConfidenceInterval is a two-sided interval estimate of a mean
type ConfidenceInterval struct {
	Distribution     Distribution `json:"distribution"`
	Confidence       float64      `json:"confidence"`
	Estimate         float64      `json:"estimate"`
	Lower            float64      `json:"lower"`
	Upper            float64      `json:"upper"`
	Margin           float64      `json:"margin"`
	Critical         float64      `json:"critical"`
	StandardError    float64      `json:"standard_error"`
	DegreesOfFreedom int          `json:"degrees_of_freedom,omitempty"`
}

// Contains reports whether a value is inside the interval (inclusive)
func (ci ConfidenceInterval) Contains(v float64) bool {
	return v >= ci.Lower && v <= ci.Upper
}

// ProportionTest is the result of a one- or two-sample proportion z-test
type ProportionTest struct {
	TestResult
	Proportions []float64 `json:"proportions"`
	Pooled      float64   `json:"pooled,omitempty"`
}

// ErrorRates summarises Type I / Type II error for a decision rule on a mean
type ErrorRates struct {
	Alternative   Alternative `json:"alternative"`
	Alpha         float64     `json:"alpha"`
	NullMean      float64     `json:"null_mean"`
	AltMean       float64     `json:"alt_mean"`
	StandardError float64     `json:"standard_error"`
	// Thresholds on the original measurement scale
	Thresholds []float64 `json:"thresholds"`
	TypeI      float64   `json:"type_i"`
	TypeII     float64   `json:"type_ii"`
	Power      float64   `json:"power"`
}

// TailMode selects which binomial probability is wanted
type TailMode string

const (
	Exactly TailMode = "exactly"
	AtMost  TailMode = "at_most"
	AtLeast TailMode = "at_least"
)

// ParseTailMode maps user input to a TailMode
func ParseTailMode(s string) (TailMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exactly", "eq", "":
		return Exactly, nil
	case "at_most", "at-most", "le":
		return AtMost, nil
	case "at_least", "at-least", "ge":
		return AtLeast, nil
	}
	return "", core.NewInvalidParameterError("mode", "must be one of exactly, at_most, at_least; got "+s)
}

// Point is one (x, y) coordinate of a chart series
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bar is one bar of a discrete probability mass chart
type Bar struct {
	K        int     `json:"k"`
	P        float64 `json:"p"`
	Rejected bool    `json:"rejected"`
}

// DensityCurve is a chart artifact: a density plus shaded polygons. For a
// test the polygons are the rejection tails, for an interval the interval
// itself. Discrete distributions use Bars instead of Points.
type DensityCurve struct {
	Distribution Distribution `json:"distribution"`
	Points       []Point      `json:"points,omitempty"`
	Shaded       [][]Point    `json:"shaded,omitempty"`
	Bars         []Bar        `json:"bars,omitempty"`
	Marker       float64      `json:"marker"`
}

// UnmarshalText lets JSON and YAML inputs use any accepted alias
func (a *Alternative) UnmarshalText(text []byte) error {
	parsed, err := ParseAlternative(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// UnmarshalText accepts the aliases of ParseDistribution. An empty value is
// left empty so callers can apply their own default.
func (d *Distribution) UnmarshalText(text []byte) error {
	if strings.TrimSpace(string(text)) == "" {
		*d = ""
		return nil
	}
	parsed, err := ParseDistribution(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// UnmarshalText accepts the aliases of ParseTailMode
func (m *TailMode) UnmarshalText(text []byte) error {
	parsed, err := ParseTailMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
