package app

import (
	"context"
	stderrors "errors"
	"sync"

	"hypolab/domain/core"
	"hypolab/domain/stats"
	"hypolab/internal"
	"hypolab/internal/errors"
	"hypolab/internal/profiling"
	"hypolab/ports"
)

// DatasetService serves the configured sample column. The column is read
// once and cached; Reload drops the cache.
type DatasetService struct {
	source    ports.SampleSource
	column    string
	inference *InferenceService
	logger    *internal.Logger

	mu      sync.RWMutex
	values  []float64
	summary *profiling.Summary
}

// DatasetEvaluation is a test run against the dataset column
type DatasetEvaluation struct {
	Column  string             `json:"column"`
	Summary profiling.Summary  `json:"summary"`
	Result  EvaluationResponse `json:"evaluation"`
}

// NewDatasetService creates a dataset service. A nil source makes every
// call fail with core.ErrNoDataSource.
func NewDatasetService(source ports.SampleSource, column string, inference *InferenceService, logger *internal.Logger) *DatasetService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DatasetService{
		source:    source,
		column:    column,
		inference: inference,
		logger:    logger.WithField("service", "dataset"),
	}
}

// Configured reports whether a source is set. An empty column means the
// first numeric column of the source.
func (s *DatasetService) Configured() bool {
	return s.source != nil
}

// Columns lists the headers of the source
func (s *DatasetService) Columns(ctx context.Context) ([]string, error) {
	if s.source == nil {
		return nil, core.ErrNoDataSource
	}
	cols, err := s.source.Columns(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list columns")
	}
	return cols, nil
}

// Summary profiles the configured column
func (s *DatasetService) Summary(ctx context.Context) (*profiling.Summary, error) {
	s.mu.RLock()
	if s.summary != nil {
		summary := *s.summary
		s.mu.RUnlock()
		return &summary, nil
	}
	s.mu.RUnlock()

	if !s.Configured() {
		return nil, core.ErrNoDataSource
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// another caller may have loaded it while we waited
	if s.summary != nil {
		summary := *s.summary
		return &summary, nil
	}

	column, values, err := s.readColumn(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := profiling.Summarize(column, values)
	if err != nil {
		return nil, errors.Wrap(err, "failed to summarize column")
	}
	s.values = values
	s.summary = &summary
	s.logger.Info("loaded column %q: n=%d mean=%.4f sd=%.4f", column, summary.Count, summary.Mean, summary.StdDev)

	out := summary
	return &out, nil
}

func (s *DatasetService) readColumn(ctx context.Context) (string, []float64, error) {
	if s.column != "" {
		values, err := s.source.ReadColumn(ctx, s.column)
		if err != nil {
			return "", nil, errors.Wrapf(err, "failed to read column %q", s.column)
		}
		return s.column, values, nil
	}

	cols, err := s.source.Columns(ctx)
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to list columns")
	}
	for _, col := range cols {
		values, err := s.source.ReadColumn(ctx, col)
		switch {
		case err == nil:
			return col, values, nil
		case stderrors.Is(err, core.ErrInsufficientData):
			continue
		default:
			return "", nil, errors.Wrapf(err, "failed to read column %q", col)
		}
	}
	return "", nil, errors.Wrap(core.ErrInsufficientData, "no numeric column in source")
}

// Values returns a copy of the cached column
func (s *DatasetService) Values(ctx context.Context) ([]float64, error) {
	if _, err := s.Summary(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]float64(nil), s.values...), nil
}

// EvaluateAgainst tests the column against cfg. An empty distribution picks
// binomial for 0/1 columns and t for everything else.
func (s *DatasetService) EvaluateAgainst(ctx context.Context, cfg stats.TestConfig, includeCurve bool) (*DatasetEvaluation, error) {
	if s.inference == nil {
		return nil, errors.InternalError("dataset service has no inference service")
	}
	summary, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.Distribution == "" {
		cfg.Distribution = stats.StudentT
		if summary.Binary {
			cfg.Distribution = stats.Binomial
		}
	}

	resp, err := s.inference.Evaluate(ctx, EvaluationRequest{
		Summary:      summary.ToSampleSummary(),
		Config:       cfg,
		IncludeCurve: includeCurve,
	})
	if err != nil {
		return nil, err
	}
	return &DatasetEvaluation{Column: summary.Column, Summary: *summary, Result: *resp}, nil
}

// DatasetInterval is a t interval for the mean of the dataset column
type DatasetInterval struct {
	Column   string                   `json:"column"`
	Interval stats.ConfidenceInterval `json:"interval"`
	Curve    *stats.DensityCurve      `json:"curve"`
}

// IntervalFor builds a t interval around the column mean. A zero confidence
// means one minus the configured alpha.
func (s *DatasetService) IntervalFor(ctx context.Context, confidence float64) (*DatasetInterval, error) {
	if s.inference == nil {
		return nil, errors.InternalError("dataset service has no inference service")
	}
	summary, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}
	ci, curve, err := s.inference.ConfidenceInterval(ctx, summary.ToSampleSummary(), confidence, stats.StudentT)
	if err != nil {
		return nil, err
	}
	return &DatasetInterval{Column: summary.Column, Interval: *ci, Curve: curve}, nil
}

// Reload forgets the cached column so the next call re-reads the source
func (s *DatasetService) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = nil
	s.summary = nil
}
