package app

import (
	"context"
	"fmt"
	"runtime"

	"hypolab/domain/core"
	"hypolab/domain/stats"
	"hypolab/internal"
	"hypolab/internal/config"
	"hypolab/internal/errors"
	"hypolab/internal/inference"

	"golang.org/x/sync/errgroup"
)

// InferenceService exposes the inference core with configured defaults
type InferenceService struct {
	defaultAlpha float64
	curvePoints  int
	maxBatchSize int
	seed         uint64
	logger       *internal.Logger

	maxCurvePoints int
	maxTrials      int
}

// EvaluationRequest is one test to run. A zero Alpha takes the configured default.
type EvaluationRequest struct {
	Summary      stats.SampleSummary `json:"summary"`
	Config       stats.TestConfig    `json:"config"`
	IncludeCurve bool                `json:"include_curve,omitempty"`
}

// EvaluationResponse carries the result and, on request, its chart data
type EvaluationResponse struct {
	Result stats.TestResult    `json:"result"`
	Curve  *stats.DensityCurve `json:"curve,omitempty"`
}

// BatchError reports which request of a batch failed
type BatchError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("request %d: %v", e.Index, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// NewInferenceService creates an inference service. A nil config uses config.Default().
func NewInferenceService(cfg *config.Config, logger *internal.Logger) *InferenceService {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &InferenceService{
		defaultAlpha: cfg.Inference.DefaultAlpha,
		curvePoints:  cfg.Inference.CurvePoints,
		maxBatchSize: cfg.Inference.MaxBatchSize,
		seed:         cfg.Simulation.Seed,
		logger:       logger.WithField("service", "inference"),

		maxCurvePoints: cfg.Inference.MaxCurvePoints,
		maxTrials:      cfg.Inference.MaxTrials,
	}
}

// DefaultAlpha returns the significance level applied when a request omits one
func (s *InferenceService) DefaultAlpha() float64 {
	return s.defaultAlpha
}

func (s *InferenceService) alpha(a float64) float64 {
	if a == 0 {
		return s.defaultAlpha
	}
	return a
}

// checkCurveSize bounds the allocations a curve request can cause
func (s *InferenceService) checkCurveSize(result stats.TestResult, points int) error {
	if points > s.maxCurvePoints {
		return core.NewInvalidParameterError("points", fmt.Sprintf("must be at most %d, got %d", s.maxCurvePoints, points))
	}
	if result.Distribution == stats.Binomial && result.Trials > s.maxTrials {
		return core.NewInvalidParameterError("trials", fmt.Sprintf("must be at most %d to draw, got %d", s.maxTrials, result.Trials))
	}
	return nil
}

// Evaluate runs a single test
func (s *InferenceService) Evaluate(ctx context.Context, req EvaluationRequest) (*EvaluationResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req.Config.Alpha = s.alpha(req.Config.Alpha)

	result, err := inference.Evaluate(req.Summary, req.Config)
	if err != nil {
		return nil, errors.Wrap(err, "evaluation failed")
	}
	s.logger.Debug("evaluated %s/%s test: stat=%.4f p=%.4g %s",
		result.Distribution, result.Alternative, result.Statistic, result.PValue, result.Decision)

	resp := &EvaluationResponse{Result: result}
	if req.IncludeCurve {
		if err := s.checkCurveSize(result, s.curvePoints); err != nil {
			return nil, errors.Wrap(err, "curve failed")
		}
		curve, err := inference.TestCurve(result, s.curvePoints)
		if err != nil {
			return nil, errors.Wrap(err, "curve failed")
		}
		resp.Curve = &curve
	}
	return resp, nil
}

// EvaluateBatch evaluates every request concurrently and returns results in
// request order. The first failure cancels the rest and is returned as a *BatchError.
func (s *InferenceService) EvaluateBatch(ctx context.Context, reqs []EvaluationRequest) ([]EvaluationResponse, error) {
	if len(reqs) == 0 {
		return nil, errors.InvalidParameter("batch must contain at least one request", nil)
	}
	if len(reqs) > s.maxBatchSize {
		return nil, errors.InvalidParameter(fmt.Sprintf("batch of %d exceeds the limit of %d", len(reqs), s.maxBatchSize), nil)
	}

	out := make([]EvaluationResponse, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, req := range reqs {
		g.Go(func() error {
			resp, err := s.Evaluate(gctx, req)
			if err != nil {
				return &BatchError{Index: i, Err: err}
			}
			out[i] = *resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Warn("batch of %d failed: %v", len(reqs), err)
		return nil, err
	}
	s.logger.Info("evaluated batch of %d tests", len(reqs))
	return out, nil
}

// ConfidenceInterval builds an interval and its chart
func (s *InferenceService) ConfidenceInterval(ctx context.Context, summary stats.SampleSummary, confidence float64, dist stats.Distribution) (*stats.ConfidenceInterval, *stats.DensityCurve, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if confidence == 0 {
		confidence = 1 - s.defaultAlpha
	}
	ci, err := inference.ConfidenceInterval(summary, confidence, dist)
	if err != nil {
		return nil, nil, errors.Wrap(err, "interval failed")
	}
	curve, err := inference.IntervalCurve(ci, s.curvePoints)
	if err != nil {
		return nil, nil, errors.Wrap(err, "curve failed")
	}
	return &ci, &curve, nil
}

// OneProportion runs a one-sample proportion z-test
func (s *InferenceService) OneProportion(ctx context.Context, successes, n int, p0 float64, alt stats.Alternative, alpha float64) (*stats.ProportionTest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result, err := inference.OneProportionZTest(successes, n, p0, alt, s.alpha(alpha))
	if err != nil {
		return nil, errors.Wrap(err, "proportion test failed")
	}
	return &result, nil
}

// TwoProportion runs a pooled two-sample proportion z-test
func (s *InferenceService) TwoProportion(ctx context.Context, x1, n1, x2, n2 int, alt stats.Alternative, alpha float64) (*stats.ProportionTest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result, err := inference.TwoProportionZTest(x1, n1, x2, n2, alt, s.alpha(alpha))
	if err != nil {
		return nil, errors.Wrap(err, "proportion test failed")
	}
	return &result, nil
}

// ErrorRates analyses the Type I / Type II trade-off of a decision rule
func (s *InferenceService) ErrorRates(ctx context.Context, nullMean, altMean, sigma float64, n int, alt stats.Alternative, alpha float64) (*stats.ErrorRates, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rates, err := inference.ErrorRates(nullMean, altMean, sigma, n, alt, s.alpha(alpha))
	if err != nil {
		return nil, errors.Wrap(err, "error-rate analysis failed")
	}
	return &rates, nil
}

// BinomialProbability answers an exactly / at-most / at-least question
func (s *InferenceService) BinomialProbability(ctx context.Context, n int, p float64, k int, mode stats.TailMode) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	prob, err := inference.BinomialProbability(n, p, k, mode)
	if err != nil {
		return 0, errors.Wrap(err, "binomial probability failed")
	}
	return prob, nil
}

// NormalProbability is P(X <= x) under N(mu, sigma)
func (s *InferenceService) NormalProbability(ctx context.Context, x, mu, sigma float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	prob, err := inference.NormalProbability(x, mu, sigma)
	if err != nil {
		return 0, errors.Wrap(err, "normal probability failed")
	}
	return prob, nil
}

// NormalPercentile inverts NormalProbability
func (s *InferenceService) NormalPercentile(ctx context.Context, q, mu, sigma float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	x, err := inference.NormalPercentile(q, mu, sigma)
	if err != nil {
		return 0, errors.Wrap(err, "normal percentile failed")
	}
	return x, nil
}

// Curve draws a previously computed test result
func (s *InferenceService) Curve(ctx context.Context, result stats.TestResult, points int) (*stats.DensityCurve, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if points == 0 {
		points = s.curvePoints
	}
	if err := s.checkCurveSize(result, points); err != nil {
		return nil, errors.Wrap(err, "curve failed")
	}
	curve, err := inference.TestCurve(result, points)
	if err != nil {
		return nil, errors.Wrap(err, "curve failed")
	}
	return &curve, nil
}

// SimulationResult pairs a simulated sample with the test run on it
type SimulationResult struct {
	Sample inference.ProportionSample `json:"sample"`
	Test   stats.ProportionTest       `json:"test"`
}

// SimulateProportion draws a sample with the given seed, or the configured
// seed when seed is nil, and tests it against p0
func (s *InferenceService) SimulateProportion(ctx context.Context, seed *uint64, n int, trueP, p0 float64, alt stats.Alternative, alpha float64) (*SimulationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n > s.maxTrials {
		return nil, errors.Wrap(core.NewInvalidParameterError("size", fmt.Sprintf("must be at most %d, got %d", s.maxTrials, n)), "simulation failed")
	}
	useSeed := s.seed
	if seed != nil {
		useSeed = *seed
	}
	sample, test, err := inference.SimulatedTest(useSeed, n, trueP, p0, alt, s.alpha(alpha))
	if err != nil {
		return nil, errors.Wrap(err, "simulation failed")
	}
	return &SimulationResult{Sample: sample, Test: test}, nil
}
