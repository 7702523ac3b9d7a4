package mocks

import (
	"context"

	"rule-one/internal/dto"
	"rule-one/internal/model"
	"rule-one/pkg/utils"

	"github.com/stretchr/testify/mock"
)

type StockRepository struct {
	mock.Mock
}

func (m *StockRepository) GetBySymbol(ctx context.Context, symbol string, opts ...utils.DBOption) (*model.Stock, error) {
	args := m.Called(ctx, symbol)
	stock, _ := args.Get(0).(*model.Stock)
	return stock, args.Error(1)
}

func (m *StockRepository) Upsert(ctx context.Context, stock *model.Stock, opts ...utils.DBOption) error {
	args := m.Called(ctx, stock)
	return args.Error(0)
}

func (m *StockRepository) CreatePlaceholders(ctx context.Context, stocks []model.Stock, opts ...utils.DBOption) (int64, error) {
	args := m.Called(ctx, stocks)
	return args.Get(0).(int64), args.Error(1)
}

func (m *StockRepository) ListSymbols(ctx context.Context, exchange string) ([]string, error) {
	args := m.Called(ctx, exchange)
	symbols, _ := args.Get(0).([]string)
	return symbols, args.Error(1)
}

type FinancialMetricRepository struct {
	mock.Mock
}

func (m *FinancialMetricRepository) GetByStockID(ctx context.Context, stockID uint, opts ...utils.DBOption) ([]model.FinancialMetric, error) {
	args := m.Called(ctx, stockID)
	metrics, _ := args.Get(0).([]model.FinancialMetric)
	return metrics, args.Error(1)
}

func (m *FinancialMetricRepository) UpsertBulk(ctx context.Context, metrics []model.FinancialMetric, opts ...utils.DBOption) error {
	args := m.Called(ctx, metrics)
	return args.Error(0)
}

type WatchlistRepository struct {
	mock.Mock
}

func (m *WatchlistRepository) List(ctx context.Context) ([]model.WatchlistItem, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.WatchlistItem)
	return items, args.Error(1)
}

func (m *WatchlistRepository) ListSymbols(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	symbols, _ := args.Get(0).([]string)
	return symbols, args.Error(1)
}

func (m *WatchlistRepository) Create(ctx context.Context, item *model.WatchlistItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *WatchlistRepository) Delete(ctx context.Context, symbol string) error {
	args := m.Called(ctx, symbol)
	return args.Error(0)
}

type ValuationInputRepository struct {
	mock.Mock
}

func (m *ValuationInputRepository) GetBySymbol(ctx context.Context, symbol string) (*model.ValuationInput, error) {
	args := m.Called(ctx, symbol)
	input, _ := args.Get(0).(*model.ValuationInput)
	return input, args.Error(1)
}

func (m *ValuationInputRepository) Upsert(ctx context.Context, input *model.ValuationInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

type AlphaVantageRepository struct {
	mock.Mock
}

func (m *AlphaVantageRepository) GetOverview(ctx context.Context, symbol string) (*dto.CompanyProfile, error) {
	args := m.Called(ctx, symbol)
	profile, _ := args.Get(0).(*dto.CompanyProfile)
	return profile, args.Error(1)
}

func (m *AlphaVantageRepository) GetAnnualFinancials(ctx context.Context, symbol string) ([]dto.AnnualFinancials, error) {
	args := m.Called(ctx, symbol)
	records, _ := args.Get(0).([]dto.AnnualFinancials)
	return records, args.Error(1)
}

func (m *AlphaVantageRepository) Search(ctx context.Context, keywords string) ([]dto.SearchResult, error) {
	args := m.Called(ctx, keywords)
	results, _ := args.Get(0).([]dto.SearchResult)
	return results, args.Error(1)
}

func (m *AlphaVantageRepository) GetIndicator(ctx context.Context, indicator, symbol string, param dto.TechnicalParams) (*dto.IndicatorSeries, error) {
	args := m.Called(ctx, indicator, symbol, param)
	series, _ := args.Get(0).(*dto.IndicatorSeries)
	return series, args.Error(1)
}

type FMPRepository struct {
	mock.Mock
}

func (m *FMPRepository) GetProfile(ctx context.Context, symbol string) (*dto.CompanyProfile, error) {
	args := m.Called(ctx, symbol)
	profile, _ := args.Get(0).(*dto.CompanyProfile)
	return profile, args.Error(1)
}

func (m *FMPRepository) GetAnnualROIC(ctx context.Context, symbol string, limit int) (map[int]float64, error) {
	args := m.Called(ctx, symbol, limit)
	roic, _ := args.Get(0).(map[int]float64)
	return roic, args.Error(1)
}

type YahooFinanceRepository struct {
	mock.Mock
}

func (m *YahooFinanceRepository) GetQuote(ctx context.Context, symbol string) (*dto.Quote, error) {
	args := m.Called(ctx, symbol)
	quote, _ := args.Get(0).(*dto.Quote)
	return quote, args.Error(1)
}

func (m *YahooFinanceRepository) GetPrices(ctx context.Context, symbol, period string) (*dto.PriceSeries, error) {
	args := m.Called(ctx, symbol, period)
	series, _ := args.Get(0).(*dto.PriceSeries)
	return series, args.Error(1)
}

// UnitOfWork runs fn directly without a transaction.
type UnitOfWork struct{}

func (UnitOfWork) Run(ctx context.Context, fn func(opts ...utils.DBOption) error) error {
	return fn()
}
