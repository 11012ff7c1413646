package app

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	"hypolab/domain/core"
	"hypolab/domain/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSampleSource is a mock implementation of ports.SampleSource
type MockSampleSource struct {
	mock.Mock
}

func (m *MockSampleSource) Columns(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSampleSource) ReadColumn(ctx context.Context, name string) ([]float64, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

func TestDatasetService_SummaryIsCached(t *testing.T) {
	source := new(MockSampleSource)
	source.On("ReadColumn", mock.Anything, "Minutes").Return([]float64{150, 160, 140, 170, 155}, nil).Once()

	svc := NewDatasetService(source, "Minutes", newTestInference(t), nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			summary, err := svc.Summary(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, 5, summary.Count)
		}()
	}
	wg.Wait()

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 155.0, summary.Mean, 1e-12)
	source.AssertNumberOfCalls(t, "ReadColumn", 1)
}

func TestDatasetService_ReloadRereads(t *testing.T) {
	source := new(MockSampleSource)
	source.On("ReadColumn", mock.Anything, "x").Return([]float64{1, 2, 3}, nil).Twice()

	svc := NewDatasetService(source, "x", newTestInference(t), nil)
	_, err := svc.Summary(context.Background())
	require.NoError(t, err)

	svc.Reload()
	values, err := svc.Values(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, values)
	source.AssertExpectations(t)
}

func TestDatasetService_EvaluateAgainst(t *testing.T) {
	source := new(MockSampleSource)
	source.On("ReadColumn", mock.Anything, "wait").Return([]float64{14, 15, 16, 17, 18, 15, 16, 17, 16, 16}, nil)

	svc := NewDatasetService(source, "wait", newTestInference(t), nil)
	eval, err := svc.EvaluateAgainst(context.Background(), stats.TestConfig{
		NullValue:    15,
		Alternative:  stats.Greater,
		Distribution: stats.StudentT,
	}, false)
	require.NoError(t, err)

	assert.Equal(t, "wait", eval.Column)
	assert.Equal(t, 10, eval.Summary.Count)
	assert.Equal(t, 9, eval.Result.Result.DegreesOfFreedom)
	assert.Greater(t, eval.Result.Result.Statistic, 0.0)
}

func TestDatasetService_BinaryColumnBinomial(t *testing.T) {
	source := new(MockSampleSource)
	source.On("ReadColumn", mock.Anything, "heads").Return([]float64{1, 1, 0, 1, 0, 1, 1, 0, 1, 1}, nil)

	svc := NewDatasetService(source, "heads", newTestInference(t), nil)
	eval, err := svc.EvaluateAgainst(context.Background(), stats.TestConfig{
		NullValue:    0.5,
		Distribution: stats.Binomial,
	}, true)
	require.NoError(t, err)

	assert.Equal(t, 7.0, eval.Result.Result.Statistic)
	assert.Equal(t, 10, eval.Result.Result.Trials)
	require.NotNil(t, eval.Result.Curve)
	assert.Len(t, eval.Result.Curve.Bars, 11)
}

func TestDatasetService_IntervalFor(t *testing.T) {
	source := new(MockSampleSource)
	source.On("ReadColumn", mock.Anything, "Minutes").Return([]float64{150, 160, 140, 170, 155}, nil).Once()

	svc := NewDatasetService(source, "Minutes", newTestInference(t), nil)

	// mean 155, sd sqrt(125), se 5, t(0.975, 4) = 2.776445
	interval, err := svc.IntervalFor(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "Minutes", interval.Column)
	assert.Equal(t, stats.StudentT, interval.Interval.Distribution)
	assert.InDelta(t, 0.95, interval.Interval.Confidence, 1e-12)
	assert.Equal(t, 4, interval.Interval.DegreesOfFreedom)
	assert.InDelta(t, 5.0, interval.Interval.StandardError, 1e-9)
	assert.InDelta(t, 155-5*2.776445, interval.Interval.Lower, 1e-4)
	assert.InDelta(t, 155+5*2.776445, interval.Interval.Upper, 1e-4)
	require.NotNil(t, interval.Curve)
	assert.Len(t, interval.Curve.Points, 50)

	narrower, err := svc.IntervalFor(context.Background(), 0.8)
	require.NoError(t, err)
	assert.Less(t, narrower.Interval.Margin, interval.Interval.Margin)

	_, err = svc.IntervalFor(context.Background(), 1.5)
	assert.True(t, core.IsInvalidParameter(err))
	source.AssertNumberOfCalls(t, "ReadColumn", 1)
}

func TestDatasetService_NotConfigured(t *testing.T) {
	svc := NewDatasetService(nil, "", newTestInference(t), nil)
	assert.False(t, svc.Configured())

	_, err := svc.Summary(context.Background())
	assert.True(t, stderrors.Is(err, core.ErrNoDataSource))

	_, err = svc.Columns(context.Background())
	assert.True(t, stderrors.Is(err, core.ErrNoDataSource))
}

func TestDatasetService_FirstNumericColumn(t *testing.T) {
	source := new(MockSampleSource)
	source.On("Columns", mock.Anything).Return([]string{"Name", "Minutes"}, nil)
	source.On("ReadColumn", mock.Anything, "Name").Return(nil, core.ErrInsufficientData)
	source.On("ReadColumn", mock.Anything, "Minutes").Return([]float64{150, 160, 170}, nil)

	svc := NewDatasetService(source, "", newTestInference(t), nil)
	assert.True(t, svc.Configured())

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Minutes", summary.Column)
	assert.Equal(t, 3, summary.Count)

	eval, err := svc.EvaluateAgainst(context.Background(), stats.TestConfig{NullValue: 144, Alpha: 0.05}, false)
	require.NoError(t, err)
	assert.Equal(t, "Minutes", eval.Column)
	assert.Equal(t, stats.StudentT, eval.Result.Result.Distribution)
}

func TestDatasetService_SourceErrorNotCached(t *testing.T) {
	source := new(MockSampleSource)
	source.On("ReadColumn", mock.Anything, "gone").Return(nil, core.ErrColumnNotFound).Once()
	source.On("ReadColumn", mock.Anything, "gone").Return([]float64{4, 5}, nil).Once()

	svc := NewDatasetService(source, "gone", newTestInference(t), nil)

	_, err := svc.Summary(context.Background())
	require.Error(t, err)
	assert.True(t, core.IsNotFoundError(err))

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Count)
}
