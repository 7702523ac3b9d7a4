package service

import (
	"context"
	"errors"
	"testing"

	"rule-one/internal/dto"
	"rule-one/internal/strategy"
	"rule-one/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProcessor struct {
	name   strategy.ProcessorName
	result dto.BatchResult
	err    error
}

func (p *fakeProcessor) Execute(ctx context.Context) (dto.BatchResult, error) {
	return p.result, p.err
}

func (p *fakeProcessor) GetName() strategy.ProcessorName {
	return p.name
}

func (p *fakeProcessor) Info() dto.ProcessorInfo {
	return dto.ProcessorInfo{Name: string(p.name), Tickers: p.result.Total}
}

func newBatchFixture() BatchService {
	processors := map[strategy.ProcessorName]strategy.SeedProcessor{
		"alpha": &fakeProcessor{name: "alpha", result: dto.BatchResult{Processor: "alpha", Total: 3, Added: 3}},
		"beta": &fakeProcessor{
			name:   "beta",
			result: dto.BatchResult{Processor: "beta", Total: 2, Failed: 2},
			err:    errors.New("connection refused"),
		},
		"gamma": &fakeProcessor{name: "gamma", result: dto.BatchResult{Processor: "gamma", Total: 4, Added: 1, Skipped: 3}},
	}
	return NewBatchService(testServiceConfig(), logger.NewNop(), processors)
}

func TestBatchRunAllSettlesEveryProcessor(t *testing.T) {
	summary := newBatchFixture().RunAll(context.Background())

	require.Len(t, summary.Results, 3)
	assert.Equal(t, "alpha", summary.Results[0].Processor)
	assert.Equal(t, "beta", summary.Results[1].Processor)
	assert.Equal(t, "connection refused", summary.Results[1].Error)
	assert.Equal(t, "gamma", summary.Results[2].Processor)
	assert.Equal(t, 4, summary.Added)
	assert.Equal(t, 2, summary.Failed)
}

func TestBatchRun(t *testing.T) {
	svc := newBatchFixture()

	result, err := svc.Run(context.Background(), "gamma")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)

	result, err = svc.Run(context.Background(), "beta")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Failed)
	assert.NotEmpty(t, result.Error)

	_, err = svc.Run(context.Background(), "missing")
	assert.ErrorIs(t, err, dto.ErrNotFound)
}

func TestBatchList(t *testing.T) {
	infos := newBatchFixture().List()
	require.Len(t, infos, 3)
	assert.Equal(t, "alpha", infos[0].Name)
	assert.Equal(t, "gamma", infos[2].Name)
}
