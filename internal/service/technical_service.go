package service

import (
	"context"
	"fmt"
	"strings"

	"rule-one/config"
	"rule-one/internal/dto"
	"rule-one/internal/repository"
	"rule-one/pkg/cache"
	"rule-one/pkg/logger"
	"rule-one/pkg/utils"
)

const keyTechnical = "technical:%s:%s:%s:%d:%s:%s"

type TechnicalService interface {
	Get(ctx context.Context, indicator, symbol string, params dto.TechnicalParams) (*dto.TechnicalResult, error)
}

type technicalService struct {
	cfg              *config.Config
	log              *logger.Logger
	cache            cache.Cache
	alphaVantageRepo repository.AlphaVantageRepository
	yahooFinanceRepo repository.YahooFinanceRepository
}

func NewTechnicalService(cfg *config.Config, log *logger.Logger, inmemoryCache cache.Cache, repo *repository.Repository) TechnicalService {
	return &technicalService{
		cfg:              cfg,
		log:              log,
		cache:            inmemoryCache,
		alphaVantageRepo: repo.AlphaVantageRepo,
		yahooFinanceRepo: repo.YahooFinanceRepo,
	}
}

// Get passes the indicator request through to the provider. Prices come
// from Yahoo Finance, indicators from Alpha Vantage.
func (s *technicalService) Get(ctx context.Context, indicator, symbol string, params dto.TechnicalParams) (*dto.TechnicalResult, error) {
	indicator = strings.ToLower(strings.TrimSpace(indicator))
	if !dto.IsValidIndicator(indicator) {
		return nil, fmt.Errorf("%s: %w", indicator, dto.ErrInvalidIndicator)
	}
	symbol = utils.NormalizeSymbol(symbol)

	key := fmt.Sprintf(keyTechnical, indicator, symbol, params.Interval, params.TimePeriod, params.SeriesType, params.Range)
	if cached, ok := cache.GetFromCache[*dto.TechnicalResult](s.cache, key); ok {
		s.log.DebugContext(ctx, "Serving technical data from cache", logger.StringField("key", key))
		return cached, nil
	}

	result := &dto.TechnicalResult{Indicator: indicator, Symbol: symbol}
	if indicator == dto.IndicatorPrices {
		prices, err := s.yahooFinanceRepo.GetPrices(ctx, symbol, params.Range)
		if err != nil {
			s.log.ErrorContext(ctx, "Failed to fetch prices", logger.SymbolField(symbol), logger.ErrorField(err))
			return nil, err
		}
		result.Prices = prices
	} else {
		series, err := s.alphaVantageRepo.GetIndicator(ctx, indicator, symbol, params)
		if err != nil {
			s.log.ErrorContext(ctx, "Failed to fetch indicator",
				logger.SymbolField(symbol),
				logger.StringField("indicator", indicator),
				logger.ErrorField(err))
			return nil, err
		}
		result.Series = series
	}

	s.cache.Set(key, result, s.cfg.Cache.TechnicalTTL)
	return result, nil
}
