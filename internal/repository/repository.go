package repository

import (
	"rule-one/config"
	"rule-one/pkg/cache"
	"rule-one/pkg/logger"
	"rule-one/pkg/ratelimit"

	"gorm.io/gorm"
)

const (
	limiterAlphaVantage = "alpha_vantage"
	limiterFMP          = "fmp"
	limiterYahooFinance = "yahoo_finance"
)

type Repository struct {
	StockRepo           StockRepository
	FinancialMetricRepo FinancialMetricRepository
	WatchlistRepo       WatchlistRepository
	ValuationInputRepo  ValuationInputRepository
	AlphaVantageRepo    AlphaVantageRepository
	FMPRepo             FMPRepository
	YahooFinanceRepo    YahooFinanceRepository
	CompanyCache        CompanyCache
	UnitOfWork          UnitOfWork
}

func NewRepository(cfg *config.Config, db *gorm.DB, log *logger.Logger, inMemoryCache cache.Cache, limiters *ratelimit.LimiterStore) *Repository {
	avLimiter := limiters.SetLimit(limiterAlphaVantage, ratelimit.PerMinute(cfg.AlphaVantage.MaxRequestPerMinute), 1)
	fmpLimiter := limiters.SetLimit(limiterFMP, ratelimit.PerMinute(cfg.FMP.MaxRequestPerMinute), 1)
	yahooLimiter := limiters.SetLimit(limiterYahooFinance, ratelimit.PerMinute(cfg.YahooFinance.MaxRequestPerMinute), 1)

	return &Repository{
		StockRepo:           NewStockRepository(db),
		FinancialMetricRepo: NewFinancialMetricRepository(db),
		WatchlistRepo:       NewWatchlistRepository(db),
		ValuationInputRepo:  NewValuationInputRepository(db),
		AlphaVantageRepo:    NewAlphaVantageRepository(cfg, log, avLimiter),
		FMPRepo:             NewFMPRepository(cfg, log, fmpLimiter),
		YahooFinanceRepo:    NewYahooFinanceRepository(cfg, log, yahooLimiter),
		CompanyCache:        NewCompanyCache(inMemoryCache, cfg.Cache.CompanyTTL),
		UnitOfWork:          NewUnitOfWork(db),
	}
}
