package api

import (
	"hypolab/app"
	"hypolab/domain/stats"
)

// BatchRequest is the body of POST /v1/tests/batch
type BatchRequest struct {
	Requests []app.EvaluationRequest `json:"requests"`
}

// BatchResponse preserves request order
type BatchResponse struct {
	Results []app.EvaluationResponse `json:"results"`
}

// OneProportionRequest is the body of POST /v1/tests/one-proportion
type OneProportionRequest struct {
	Successes   int               `json:"successes"`
	Size        int               `json:"size"`
	P0          float64           `json:"p0"`
	Alternative stats.Alternative `json:"alternative"`
	Alpha       float64           `json:"alpha"`
}

// TwoProportionRequest is the body of POST /v1/tests/two-proportion
type TwoProportionRequest struct {
	SuccessesA  int               `json:"successes_a"`
	SizeA       int               `json:"size_a"`
	SuccessesB  int               `json:"successes_b"`
	SizeB       int               `json:"size_b"`
	Alternative stats.Alternative `json:"alternative"`
	Alpha       float64           `json:"alpha"`
}

// IntervalRequest is the body of POST /v1/intervals. Confidence defaults to 1 - DEFAULT_ALPHA.
type IntervalRequest struct {
	Summary      stats.SampleSummary `json:"summary"`
	Confidence   float64             `json:"confidence"`
	Distribution stats.Distribution  `json:"distribution"`
}

// IntervalResponse pairs the interval with its chart
type IntervalResponse struct {
	Interval *stats.ConfidenceInterval `json:"interval"`
	Curve    *stats.DensityCurve       `json:"curve"`
}

// BinomialRequest is the body of POST /v1/probabilities/binomial
type BinomialRequest struct {
	Trials int            `json:"trials"`
	P      float64        `json:"p"`
	K      int            `json:"k"`
	Mode   stats.TailMode `json:"mode"`
}

// NormalRequest is the body of POST /v1/probabilities/normal
type NormalRequest struct {
	X     float64 `json:"x"`
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`
}

// PercentileRequest is the body of POST /v1/probabilities/percentile
type PercentileRequest struct {
	Q     float64 `json:"q"`
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`
}

// ProbabilityResponse answers the probability endpoints
type ProbabilityResponse struct {
	Probability float64 `json:"probability"`
}

// PercentileResponse answers POST /v1/probabilities/percentile
type PercentileResponse struct {
	X float64 `json:"x"`
}

// ErrorRatesRequest is the body of POST /v1/error-rates. Size defaults to 1.
type ErrorRatesRequest struct {
	NullMean    float64           `json:"null_mean"`
	AltMean     float64           `json:"alt_mean"`
	Sigma       float64           `json:"sigma"`
	Size        int               `json:"size"`
	Alternative stats.Alternative `json:"alternative"`
	Alpha       float64           `json:"alpha"`
}

// CurveRequest is the body of POST /v1/curves
type CurveRequest struct {
	Result stats.TestResult `json:"result"`
	Points int              `json:"points"`
}

// SimulationRequest is the body of POST /v1/simulations/proportion. A
// missing seed uses SIMULATION_SEED.
type SimulationRequest struct {
	Seed        *uint64           `json:"seed"`
	Size        int               `json:"size"`
	TrueP       float64           `json:"true_p"`
	P0          float64           `json:"p0"`
	Alternative stats.Alternative `json:"alternative"`
	Alpha       float64           `json:"alpha"`
}

// ErrorBody is the envelope of every non-2xx response
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable code and a human-readable message
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
