package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rule-one/config"
	"rule-one/internal/dto"
	"rule-one/internal/model"
	"rule-one/internal/repository"
	"rule-one/internal/ruleone"
	"rule-one/pkg/logger"
	"rule-one/pkg/utils"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

// roicHistoryYears is how many annual key-metric rows are requested from FMP.
const roicHistoryYears = 10

type StockService interface {
	EnsureStock(ctx context.Context, symbol string) (*model.Stock, error)
	EnsureMetrics(ctx context.Context, stock *model.Stock) ([]model.FinancialMetric, error)
	Refresh(ctx context.Context, symbol string) (*dto.StockDetail, error)
	GetStockDetail(ctx context.Context, symbol string) (*dto.StockDetail, error)
	Compare(ctx context.Context, first, second string) (*dto.CompareResult, error)
	Search(ctx context.Context, query string) ([]dto.SearchResult, error)
}

type stockService struct {
	cfg                *config.Config
	log                *logger.Logger
	stockRepo          repository.StockRepository
	metricRepo         repository.FinancialMetricRepository
	valuationInputRepo repository.ValuationInputRepository
	alphaVantageRepo   repository.AlphaVantageRepository
	fmpRepo            repository.FMPRepository
	yahooFinanceRepo   repository.YahooFinanceRepository
	companyCache       repository.CompanyCache
	unitOfWork         repository.UnitOfWork
	now                func() time.Time
}

func NewStockService(cfg *config.Config, log *logger.Logger, repo *repository.Repository) StockService {
	return &stockService{
		cfg:                cfg,
		log:                log,
		stockRepo:          repo.StockRepo,
		metricRepo:         repo.FinancialMetricRepo,
		valuationInputRepo: repo.ValuationInputRepo,
		alphaVantageRepo:   repo.AlphaVantageRepo,
		fmpRepo:            repo.FMPRepo,
		yahooFinanceRepo:   repo.YahooFinanceRepo,
		companyCache:       repo.CompanyCache,
		unitOfWork:         repo.UnitOfWork,
		now:                utils.TimeNow,
	}
}

// EnsureStock returns the stored stock, fetching and persisting it first
// when it is unknown. A stored row older than stock.stale_after gets a new
// quote; when that fails the stored row is served as is.
func (s *stockService) EnsureStock(ctx context.Context, symbol string) (*model.Stock, error) {
	symbol = utils.NormalizeSymbol(symbol)

	stock, err := s.stockRepo.GetBySymbol(ctx, symbol)
	if err != nil && !errors.Is(err, dto.ErrNotFound) {
		s.log.ErrorContext(ctx, "Failed to load stock", logger.SymbolField(symbol), logger.ErrorField(err))
		return nil, fmt.Errorf("failed to load stock: %w", err)
	}

	switch {
	case stock == nil:
		s.log.InfoContext(ctx, "Stock not stored yet, fetching from providers", logger.SymbolField(symbol))
		return s.fetchAndStoreStock(ctx, symbol, nil)
	case stock.IsPlaceholder:
		s.log.InfoContext(ctx, "Stock is a placeholder, fetching profile", logger.SymbolField(symbol))
		fetched, err := s.fetchAndStoreStock(ctx, symbol, stock)
		if err != nil {
			if errors.Is(err, dto.ErrNotFound) {
				return nil, err
			}
			s.log.WarnContext(ctx, "Serving placeholder stock, profile fetch failed", logger.SymbolField(symbol), logger.ErrorField(err))
			return stock, nil
		}
		return fetched, nil
	case utils.IsOlderThan(stock.LastUpdated, s.cfg.Stock.StaleAfter, s.now()):
		if err := s.refreshQuote(ctx, stock); err != nil {
			s.log.WarnContext(ctx, "Serving stale stock, quote refresh failed", logger.SymbolField(symbol), logger.ErrorField(err))
		}
		return stock, nil
	default:
		return stock, nil
	}
}

func (s *stockService) fetchAndStoreStock(ctx context.Context, symbol string, existing *model.Stock) (*model.Stock, error) {
	profile, quote, err := s.fetchProviderData(ctx, symbol)
	if err != nil {
		return nil, err
	}

	stock := s.buildStock(symbol, existing, profile, quote)
	if err := s.stockRepo.Upsert(ctx, stock); err != nil {
		s.log.ErrorContext(ctx, "Failed to save stock", logger.SymbolField(symbol), logger.ErrorField(err))
		return nil, fmt.Errorf("failed to save stock: %w", err)
	}
	return stock, nil
}

func (s *stockService) refreshQuote(ctx context.Context, stock *model.Stock) error {
	quote, err := s.yahooFinanceRepo.GetQuote(ctx, stock.Symbol)
	if err != nil {
		return err
	}

	applyQuote(stock, quote)
	stock.LastUpdated = s.now()
	return s.stockRepo.Upsert(ctx, stock)
}

// fetchProviderData loads the company profile and the latest quote in
// parallel. Either one is enough to describe the stock; the symbol is
// unknown only when every provider says so.
func (s *stockService) fetchProviderData(ctx context.Context, symbol string) (*dto.CompanyProfile, *dto.Quote, error) {
	var (
		profile              *dto.CompanyProfile
		quote                *dto.Quote
		profileErr, quoteErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profile, profileErr = s.fetchProfile(gctx, symbol)
		return nil
	})
	g.Go(func() error {
		quote, quoteErr = s.yahooFinanceRepo.GetQuote(gctx, symbol)
		return nil
	})
	_ = g.Wait()

	if quoteErr != nil {
		s.log.WarnContext(ctx, "Quote unavailable", logger.SymbolField(symbol), logger.ErrorField(quoteErr))
	}

	if profileErr != nil && quoteErr != nil {
		return nil, nil, combineProviderErrors(symbol, profileErr, quoteErr)
	}
	return profile, quote, nil
}

// combineProviderErrors reports not found only when every provider said so.
// Otherwise the real failures are returned.
func combineProviderErrors(symbol string, errs ...error) error {
	var failures []error
	for _, err := range errs {
		if !errors.Is(err, dto.ErrNotFound) {
			failures = append(failures, err)
		}
	}
	if len(failures) == 0 {
		return fmt.Errorf("stock %s: %w", symbol, dto.ErrNotFound)
	}
	return fmt.Errorf("fetch stock %s: %w", symbol, errors.Join(failures...))
}

// fetchProfile asks Alpha Vantage first and falls back to FMP.
func (s *stockService) fetchProfile(ctx context.Context, symbol string) (*dto.CompanyProfile, error) {
	profile, err := s.alphaVantageRepo.GetOverview(ctx, symbol)
	if err == nil {
		return profile, nil
	}
	s.log.WarnContext(ctx, "Alpha Vantage overview unavailable, trying FMP", logger.SymbolField(symbol), logger.ErrorField(err))

	fallback, fmpErr := s.fmpRepo.GetProfile(ctx, symbol)
	if fmpErr == nil {
		return fallback, nil
	}
	s.log.WarnContext(ctx, "FMP profile unavailable", logger.SymbolField(symbol), logger.ErrorField(fmpErr))

	return nil, combineProviderErrors(symbol, err, fmpErr)
}

func (s *stockService) buildStock(symbol string, existing *model.Stock, profile *dto.CompanyProfile, quote *dto.Quote) *model.Stock {
	stock := &model.Stock{Symbol: symbol}
	if existing != nil {
		copied := *existing
		stock = &copied
	}

	if profile != nil {
		stock.Name = profile.Name
		stock.Exchange = profile.Exchange
		stock.Sector = profile.Sector
		stock.MarketCap = nullDecimal(profile.MarketCap, 2)
		stock.PERatio = nullDecimal(profile.PERatio, 4)
		if len(profile.Raw) > 0 {
			stock.RawProfile = datatypes.JSON(profile.Raw)
		}
	}
	if quote != nil {
		applyQuote(stock, quote)
		if stock.Name == "" || stock.Name == symbol {
			stock.Name = quote.Name
		}
		if stock.Exchange == "" {
			stock.Exchange = quote.Exchange
		}
	}
	if stock.Name == "" {
		stock.Name = symbol
	}

	stock.IsPlaceholder = false
	stock.LastUpdated = s.now()
	return stock
}

func applyQuote(stock *model.Stock, quote *dto.Quote) {
	stock.Price = nullDecimal(&quote.Price, 4)
	stock.Change = nullDecimal(&quote.Change, 4)
	stock.ChangePercent = nullDecimal(&quote.ChangePercent, 4)
	stock.Volume = utils.ToPointer(quote.Volume)
}

func nullDecimal(v *float64, places int32) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(*v).Round(places))
}

// EnsureMetrics returns the stored yearly records, fetching them once when
// none are stored. Provider failures degrade to an empty result.
func (s *stockService) EnsureMetrics(ctx context.Context, stock *model.Stock) ([]model.FinancialMetric, error) {
	records, err := s.metricRepo.GetByStockID(ctx, stock.ID)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to load financial metrics", logger.SymbolField(stock.Symbol), logger.ErrorField(err))
		return nil, fmt.Errorf("failed to load financial metrics: %w", err)
	}
	if len(records) > 0 {
		return records, nil
	}

	financials, err := s.fetchFinancials(ctx, stock.Symbol)
	if err != nil {
		s.log.WarnContext(ctx, "Financial statements unavailable, serving without metrics",
			logger.SymbolField(stock.Symbol), logger.ErrorField(err))
		return []model.FinancialMetric{}, nil
	}
	if len(financials) == 0 {
		return []model.FinancialMetric{}, nil
	}

	if err := s.metricRepo.UpsertBulk(ctx, toMetricModels(stock.ID, financials)); err != nil {
		s.log.ErrorContext(ctx, "Failed to save financial metrics", logger.SymbolField(stock.Symbol), logger.ErrorField(err))
		return nil, fmt.Errorf("failed to save financial metrics: %w", err)
	}
	return s.metricRepo.GetByStockID(ctx, stock.ID)
}

// fetchFinancials loads the annual statements and fills ROIC from FMP for
// the years Alpha Vantage leaves empty. A missing ROIC source is not fatal.
func (s *stockService) fetchFinancials(ctx context.Context, symbol string) ([]dto.AnnualFinancials, error) {
	financials, err := s.alphaVantageRepo.GetAnnualFinancials(ctx, symbol)
	if err != nil {
		return nil, err
	}

	roic, err := s.fmpRepo.GetAnnualROIC(ctx, symbol, roicHistoryYears)
	if err != nil {
		s.log.WarnContext(ctx, "FMP ROIC unavailable", logger.SymbolField(symbol), logger.ErrorField(err))
		return financials, nil
	}
	for i := range financials {
		if financials[i].ROIC != nil {
			continue
		}
		if v, ok := roic[financials[i].Year]; ok {
			financials[i].ROIC = utils.ToPointer(v)
		}
	}
	return financials, nil
}

func toMetricModels(stockID uint, financials []dto.AnnualFinancials) []model.FinancialMetric {
	metrics := make([]model.FinancialMetric, 0, len(financials))
	for _, f := range financials {
		metrics = append(metrics, f.ToModel(stockID))
	}
	return metrics
}

// Refresh re-fetches everything for symbol regardless of cache or age.
// The stock row and its yearly rows are written in one transaction, keyed
// by symbol and (stock, year), so repeated calls overwrite instead of
// duplicating.
func (s *stockService) Refresh(ctx context.Context, symbol string) (*dto.StockDetail, error) {
	symbol = utils.NormalizeSymbol(symbol)
	s.log.InfoContext(ctx, "Refreshing stock", logger.SymbolField(symbol))

	existing, err := s.stockRepo.GetBySymbol(ctx, symbol)
	if err != nil && !errors.Is(err, dto.ErrNotFound) {
		return nil, fmt.Errorf("failed to load stock: %w", err)
	}

	profile, quote, err := s.fetchProviderData(ctx, symbol)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to fetch stock data", logger.SymbolField(symbol), logger.ErrorField(err))
		return nil, err
	}

	financials, err := s.fetchFinancials(ctx, symbol)
	if err != nil {
		s.log.WarnContext(ctx, "Financial statements unavailable, keeping stored metrics",
			logger.SymbolField(symbol), logger.ErrorField(err))
	}

	stock := s.buildStock(symbol, existing, profile, quote)
	err = s.unitOfWork.Run(ctx, func(opts ...utils.DBOption) error {
		if err := s.stockRepo.Upsert(ctx, stock, opts...); err != nil {
			return fmt.Errorf("failed to save stock: %w", err)
		}
		if len(financials) == 0 {
			return nil
		}
		if err := s.metricRepo.UpsertBulk(ctx, toMetricModels(stock.ID, financials), opts...); err != nil {
			return fmt.Errorf("failed to save financial metrics: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to persist refreshed stock", logger.SymbolField(symbol), logger.ErrorField(err))
		return nil, err
	}

	s.companyCache.Invalidate(symbol)

	records, err := s.metricRepo.GetByStockID(ctx, stock.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load financial metrics: %w", err)
	}
	detail, err := s.buildDetail(ctx, stock, records)
	if err != nil {
		return nil, err
	}
	s.companyCache.Set(symbol, detail)

	s.log.InfoContext(ctx, "Stock refreshed",
		logger.SymbolField(symbol),
		logger.IntField("years", len(records)),
		logger.IntField("quality_score", detail.RuleOne.QualityScore))
	return detail, nil
}

// GetStockDetail serves the cached payload when it is younger than the
// cache TTL and computes a fresh one otherwise.
func (s *stockService) GetStockDetail(ctx context.Context, symbol string) (*dto.StockDetail, error) {
	symbol = utils.NormalizeSymbol(symbol)

	if cached := s.companyCache.Get(symbol); cached != nil && cached.Detail != nil {
		s.log.DebugContext(ctx, "Serving stock from cache", logger.SymbolField(symbol))
		detail := *cached.Detail
		detail.FromCache = true
		detail.CachedAt = utils.ToPointer(cached.CachedAt)
		return &detail, nil
	}

	stock, err := s.EnsureStock(ctx, symbol)
	if err != nil {
		return nil, err
	}
	records, err := s.EnsureMetrics(ctx, stock)
	if err != nil {
		return nil, err
	}

	detail, err := s.buildDetail(ctx, stock, records)
	if err != nil {
		return nil, err
	}
	s.companyCache.Set(symbol, detail)
	return detail, nil
}

func (s *stockService) buildDetail(ctx context.Context, stock *model.Stock, records []model.FinancialMetric) (*dto.StockDetail, error) {
	var inputs *ruleone.ValuationInputs
	saved, err := s.valuationInputRepo.GetBySymbol(ctx, stock.Symbol)
	switch {
	case err == nil:
		inputs = &ruleone.ValuationInputs{
			GrowthRate:    saved.GrowthRate,
			PERatio:       saved.PERatio,
			MinimumReturn: saved.MinimumReturn,
		}
	case errors.Is(err, dto.ErrNotFound):
	default:
		return nil, fmt.Errorf("failed to load valuation inputs: %w", err)
	}

	quality := ruleone.BuildQuality(ctx, s.log.With(logger.SymbolField(stock.Symbol)), ruleone.QualityParams{
		Records:      records,
		Inputs:       inputs,
		CurrentPrice: stock.CurrentPrice(),
		HistoricalPE: stock.HistoricalPE(),
		HorizonYears: s.cfg.Stock.ValuationHorizon,
	})

	if records == nil {
		records = []model.FinancialMetric{}
	}
	return &dto.StockDetail{
		Stock:   stock,
		Metrics: records,
		RuleOne: quality,
	}, nil
}

func (s *stockService) Compare(ctx context.Context, first, second string) (*dto.CompareResult, error) {
	result := &dto.CompareResult{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		detail, err := s.GetStockDetail(gctx, first)
		if err != nil {
			return fmt.Errorf("%s: %w", utils.NormalizeSymbol(first), err)
		}
		result.First = detail
		return nil
	})
	g.Go(func() error {
		detail, err := s.GetStockDetail(gctx, second)
		if err != nil {
			return fmt.Errorf("%s: %w", utils.NormalizeSymbol(second), err)
		}
		result.Second = detail
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *stockService) Search(ctx context.Context, query string) ([]dto.SearchResult, error) {
	results, err := s.alphaVantageRepo.Search(ctx, query)
	if err != nil {
		s.log.ErrorContext(ctx, "Symbol search failed", logger.StringField("query", query), logger.ErrorField(err))
		return nil, err
	}
	return results, nil
}
