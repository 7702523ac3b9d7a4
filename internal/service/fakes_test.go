package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"rule-one/config"
	"rule-one/internal/dto"
	"rule-one/internal/mocks"
	"rule-one/internal/model"
	"rule-one/internal/repository"
	"rule-one/pkg/cache"
	"rule-one/pkg/logger"
	"rule-one/pkg/utils"
)

// memoryStockRepo keeps stocks keyed by symbol the way the unique index does.
type memoryStockRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[string]model.Stock
	writes int
}

func newMemoryStockRepo(stocks ...model.Stock) *memoryStockRepo {
	r := &memoryStockRepo{rows: make(map[string]model.Stock)}
	for _, s := range stocks {
		r.nextID++
		s.ID = r.nextID
		r.rows[s.Symbol] = s
	}
	return r
}

func (r *memoryStockRepo) GetBySymbol(ctx context.Context, symbol string, opts ...utils.DBOption) (*model.Stock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[symbol]
	if !ok {
		return nil, fmt.Errorf("stock %s: %w", symbol, dto.ErrNotFound)
	}
	return &s, nil
}

func (r *memoryStockRepo) Upsert(ctx context.Context, stock *model.Stock, opts ...utils.DBOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.rows[stock.Symbol]; ok {
		stock.ID = existing.ID
	} else {
		r.nextID++
		stock.ID = r.nextID
	}
	r.rows[stock.Symbol] = *stock
	r.writes++
	return nil
}

func (r *memoryStockRepo) CreatePlaceholders(ctx context.Context, stocks []model.Stock, opts ...utils.DBOption) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var added int64
	for _, s := range stocks {
		if _, ok := r.rows[s.Symbol]; ok {
			continue
		}
		r.nextID++
		s.ID = r.nextID
		r.rows[s.Symbol] = s
		added++
	}
	return added, nil
}

func (r *memoryStockRepo) ListSymbols(ctx context.Context, exchange string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var symbols []string
	for symbol, s := range r.rows {
		if exchange == "" || s.Exchange == exchange {
			symbols = append(symbols, symbol)
		}
	}
	sort.Strings(symbols)
	return symbols, nil
}

// memoryMetricRepo upserts on (stock_id, year) like the database constraint.
type memoryMetricRepo struct {
	mu   sync.Mutex
	rows map[uint]map[int]model.FinancialMetric
}

func newMemoryMetricRepo() *memoryMetricRepo {
	return &memoryMetricRepo{rows: make(map[uint]map[int]model.FinancialMetric)}
}

func (r *memoryMetricRepo) GetByStockID(ctx context.Context, stockID uint, opts ...utils.DBOption) ([]model.FinancialMetric, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var records []model.FinancialMetric
	for _, m := range r.rows[stockID] {
		records = append(records, m)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Year < records[j].Year })
	return records, nil
}

func (r *memoryMetricRepo) UpsertBulk(ctx context.Context, metrics []model.FinancialMetric, opts ...utils.DBOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range metrics {
		if r.rows[m.StockID] == nil {
			r.rows[m.StockID] = make(map[int]model.FinancialMetric)
		}
		r.rows[m.StockID][m.Year] = m
	}
	return nil
}

type memoryWatchlistRepo struct {
	mu    sync.Mutex
	items map[string]model.WatchlistItem
}

func newMemoryWatchlistRepo(symbols ...string) *memoryWatchlistRepo {
	r := &memoryWatchlistRepo{items: make(map[string]model.WatchlistItem)}
	for _, s := range symbols {
		r.items[s] = model.WatchlistItem{StockSymbol: s}
	}
	return r
}

func (r *memoryWatchlistRepo) List(ctx context.Context) ([]model.WatchlistItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []model.WatchlistItem
	for _, item := range r.items {
		items = append(items, item)
	}
	return items, nil
}

func (r *memoryWatchlistRepo) ListSymbols(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var symbols []string
	for symbol := range r.items {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols, nil
}

func (r *memoryWatchlistRepo) Create(ctx context.Context, item *model.WatchlistItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.StockSymbol]; ok {
		return fmt.Errorf("watchlist %s: %w", item.StockSymbol, dto.ErrAlreadyExists)
	}
	r.items[item.StockSymbol] = *item
	return nil
}

func (r *memoryWatchlistRepo) Delete(ctx context.Context, symbol string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[symbol]; !ok {
		return fmt.Errorf("watchlist %s: %w", symbol, dto.ErrNotFound)
	}
	delete(r.items, symbol)
	return nil
}

type stockServiceFixture struct {
	svc          *stockService
	stocks       *memoryStockRepo
	metrics      *memoryMetricRepo
	inputs       *mocks.ValuationInputRepository
	alphaVantage *mocks.AlphaVantageRepository
	fmp          *mocks.FMPRepository
	yahoo        *mocks.YahooFinanceRepository
	cache        repository.CompanyCache
	now          time.Time
}

func testServiceConfig() *config.Config {
	return &config.Config{
		Stock:     config.Stock{StaleAfter: 24 * time.Hour, ValuationHorizon: 10},
		Cache:     config.Cache{CompanyTTL: 24 * time.Hour, TechnicalTTL: time.Minute},
		Batch:     config.Batch{MaxConcurrency: 2},
		Scheduler: config.Scheduler{Enabled: true, MaxConcurrency: 2, WatchlistRefreshCron: "0 6 * * *", TimeoutDuration: time.Minute},
	}
}

func newStockServiceFixture(t *testing.T, stocks ...model.Stock) *stockServiceFixture {
	t.Helper()
	f := &stockServiceFixture{
		stocks:       newMemoryStockRepo(stocks...),
		metrics:      newMemoryMetricRepo(),
		inputs:       new(mocks.ValuationInputRepository),
		alphaVantage: new(mocks.AlphaVantageRepository),
		fmp:          new(mocks.FMPRepository),
		yahoo:        new(mocks.YahooFinanceRepository),
		cache:        repository.NewCompanyCache(cache.NewCache(cache.NoExpiration, time.Hour), 24*time.Hour),
		now:          time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = &stockService{
		cfg:                testServiceConfig(),
		log:                logger.NewNop(),
		stockRepo:          f.stocks,
		metricRepo:         f.metrics,
		valuationInputRepo: f.inputs,
		alphaVantageRepo:   f.alphaVantage,
		fmpRepo:            f.fmp,
		yahooFinanceRepo:   f.yahoo,
		companyCache:       f.cache,
		unitOfWork:         mocks.UnitOfWork{},
		now:                func() time.Time { return f.now },
	}
	return f
}

func (f *stockServiceFixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.alphaVantage.AssertExpectations(t)
	f.fmp.AssertExpectations(t)
	f.yahoo.AssertExpectations(t)
	f.inputs.AssertExpectations(t)
}

func ptr(v float64) *float64 {
	return &v
}

// tenYearFinancials doubles every series between 2015 and 2024.
func tenYearFinancials() []dto.AnnualFinancials {
	var records []dto.AnnualFinancials
	for i := 0; i < 10; i++ {
		factor := 1 + float64(i)/9
		records = append(records, dto.AnnualFinancials{
			Year:         2015 + i,
			Revenue:      ptr(100 * factor),
			NetEarnings:  ptr(20 * factor),
			FreeCashFlow: ptr(10 * factor),
			BookValue:    ptr(50 * factor),
			EPS:          ptr(1 * factor),
			TotalDebt:    ptr(15),
		})
	}
	return records
}
