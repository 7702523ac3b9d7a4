package service

import (
	"context"
	"testing"

	"rule-one/internal/dto"
	"rule-one/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRefreshWatchlist(t *testing.T) {
	stocks := new(stubStockService)
	stocks.On("Refresh", mock.Anything, "AAPL").Return(&dto.StockDetail{}, nil).Once()
	stocks.On("Refresh", mock.Anything, "KO").Return(nil, dto.ErrUpstream).Once()
	stocks.On("Refresh", mock.Anything, "MSFT").Return(&dto.StockDetail{}, nil).Once()

	svc := NewSchedulerService(testServiceConfig(), logger.NewNop(), newMemoryWatchlistRepo("AAPL", "KO", "MSFT"), stocks)

	summary, err := svc.RefreshWatchlist(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Refreshed)
	assert.Equal(t, []string{"KO"}, summary.Failed)
	stocks.AssertExpectations(t)
}

func TestRefreshWatchlistPanicCountsAsFailure(t *testing.T) {
	stocks := new(stubStockService)
	stocks.On("Refresh", mock.Anything, "AAPL").Return(&dto.StockDetail{}, nil).Once()
	stocks.On("Refresh", mock.Anything, "KO").Run(func(mock.Arguments) {
		panic("unexpected provider payload")
	}).Return(nil, nil).Once()

	svc := NewSchedulerService(testServiceConfig(), logger.NewNop(), newMemoryWatchlistRepo("AAPL", "KO"), stocks)

	summary, err := svc.RefreshWatchlist(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Refreshed)
	assert.Equal(t, []string{"KO"}, summary.Failed)
	assert.Equal(t, summary.Total, summary.Refreshed+len(summary.Failed))
}

func TestRefreshWatchlistEmpty(t *testing.T) {
	svc := NewSchedulerService(testServiceConfig(), logger.NewNop(), newMemoryWatchlistRepo(), new(stubStockService))

	summary, err := svc.RefreshWatchlist(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.Total)
}

func TestSchedulerStart(t *testing.T) {
	cfg := testServiceConfig()
	cfg.Scheduler.WatchlistRefreshCron = "not a cron"
	svc := NewSchedulerService(cfg, logger.NewNop(), newMemoryWatchlistRepo(), new(stubStockService))
	assert.Error(t, svc.Start(context.Background()))

	cfg = testServiceConfig()
	svc = NewSchedulerService(cfg, logger.NewNop(), newMemoryWatchlistRepo(), new(stubStockService))
	require.NoError(t, svc.Start(context.Background()))
	<-svc.Stop().Done()

	cfg.Scheduler.Enabled = false
	svc = NewSchedulerService(cfg, logger.NewNop(), newMemoryWatchlistRepo(), new(stubStockService))
	assert.NoError(t, svc.Start(context.Background()))
}
