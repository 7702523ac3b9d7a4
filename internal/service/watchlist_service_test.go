package service

import (
	"context"
	"testing"

	"rule-one/internal/dto"
	"rule-one/internal/model"
	"rule-one/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubStockService struct {
	mock.Mock
}

func (m *stubStockService) EnsureStock(ctx context.Context, symbol string) (*model.Stock, error) {
	args := m.Called(ctx, symbol)
	stock, _ := args.Get(0).(*model.Stock)
	return stock, args.Error(1)
}

func (m *stubStockService) EnsureMetrics(ctx context.Context, stock *model.Stock) ([]model.FinancialMetric, error) {
	args := m.Called(ctx, stock)
	records, _ := args.Get(0).([]model.FinancialMetric)
	return records, args.Error(1)
}

func (m *stubStockService) Refresh(ctx context.Context, symbol string) (*dto.StockDetail, error) {
	args := m.Called(ctx, symbol)
	detail, _ := args.Get(0).(*dto.StockDetail)
	return detail, args.Error(1)
}

func (m *stubStockService) GetStockDetail(ctx context.Context, symbol string) (*dto.StockDetail, error) {
	args := m.Called(ctx, symbol)
	detail, _ := args.Get(0).(*dto.StockDetail)
	return detail, args.Error(1)
}

func (m *stubStockService) Compare(ctx context.Context, first, second string) (*dto.CompareResult, error) {
	args := m.Called(ctx, first, second)
	result, _ := args.Get(0).(*dto.CompareResult)
	return result, args.Error(1)
}

func (m *stubStockService) Search(ctx context.Context, query string) ([]dto.SearchResult, error) {
	args := m.Called(ctx, query)
	results, _ := args.Get(0).([]dto.SearchResult)
	return results, args.Error(1)
}

func TestWatchlistAddThenDelete(t *testing.T) {
	ctx := context.Background()
	stocks := new(stubStockService)
	stocks.On("EnsureStock", ctx, "AAPL").Return(&model.Stock{ID: 1, Symbol: "AAPL"}, nil).Twice()

	repo := newMemoryWatchlistRepo()
	svc := NewWatchlistService(logger.NewNop(), repo, stocks)

	item, err := svc.Add(ctx, "aapl")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", item.StockSymbol)
	require.NotNil(t, item.Stock)

	_, err = svc.Add(ctx, "AAPL")
	assert.ErrorIs(t, err, dto.ErrAlreadyExists)

	require.NoError(t, svc.Remove(ctx, "AAPL"))

	items, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)

	assert.ErrorIs(t, svc.Remove(ctx, "AAPL"), dto.ErrNotFound)
	stocks.AssertExpectations(t)
}

func TestWatchlistAddUnknownStock(t *testing.T) {
	ctx := context.Background()
	stocks := new(stubStockService)
	stocks.On("EnsureStock", ctx, "ZZZZ").Return(nil, dto.ErrNotFound).Once()

	repo := newMemoryWatchlistRepo()
	svc := NewWatchlistService(logger.NewNop(), repo, stocks)

	_, err := svc.Add(ctx, "ZZZZ")
	assert.ErrorIs(t, err, dto.ErrNotFound)
	assert.Empty(t, repo.items)
}
