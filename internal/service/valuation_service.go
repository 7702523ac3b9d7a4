package service

import (
	"context"
	"errors"
	"fmt"

	"rule-one/config"
	"rule-one/internal/dto"
	"rule-one/internal/model"
	"rule-one/internal/repository"
	"rule-one/internal/ruleone"
	"rule-one/pkg/logger"
	"rule-one/pkg/utils"
)

type ValuationService interface {
	Calculate(ctx context.Context, req dto.ValuationRequest) (*dto.ValuationResult, error)
}

type valuationService struct {
	cfg                *config.Config
	log                *logger.Logger
	valuationInputRepo repository.ValuationInputRepository
	companyCache       repository.CompanyCache
	stockService       StockService
}

func NewValuationService(cfg *config.Config, log *logger.Logger, repo *repository.Repository, stockService StockService) ValuationService {
	return &valuationService{
		cfg:                cfg,
		log:                log,
		valuationInputRepo: repo.ValuationInputRepo,
		companyCache:       repo.CompanyCache,
		stockService:       stockService,
	}
}

// Calculate saves the user's assumptions for the ticker and prices it with
// the latest reported EPS. The cached payload for the ticker is dropped so
// the next read reflects the new inputs.
func (s *valuationService) Calculate(ctx context.Context, req dto.ValuationRequest) (*dto.ValuationResult, error) {
	symbol := utils.NormalizeSymbol(req.StockSymbol)
	if req.GrowthRate == nil {
		return nil, errors.New("growth rate is required")
	}
	growthRate := *req.GrowthRate

	stock, err := s.stockService.EnsureStock(ctx, symbol)
	if err != nil {
		return nil, err
	}
	records, err := s.stockService.EnsureMetrics(ctx, stock)
	if err != nil {
		return nil, err
	}

	input := &model.ValuationInput{
		StockSymbol:   stock.Symbol,
		GrowthRate:    growthRate,
		PERatio:       req.PERatio,
		MinimumReturn: req.MinimumReturn,
	}
	if err := s.valuationInputRepo.Upsert(ctx, input); err != nil {
		s.log.ErrorContext(ctx, "Failed to save valuation inputs", logger.SymbolField(symbol), logger.ErrorField(err))
		return nil, fmt.Errorf("failed to save valuation inputs: %w", err)
	}

	latestEPS := 0.0
	if eps := ruleone.LatestEPS(records); eps != nil {
		latestEPS = *eps
	}
	if latestEPS <= 0 {
		s.log.WarnContext(ctx, "No positive EPS reported, sticker price unavailable", logger.SymbolField(symbol))
	}

	valuation := ruleone.ComputeValuation(ruleone.ValuationParams{
		LatestEPS:     latestEPS,
		GrowthRate:    growthRate,
		PERatio:       req.PERatio,
		MinimumReturn: req.MinimumReturn,
		HorizonYears:  s.cfg.Stock.ValuationHorizon,
		CurrentPrice:  stock.CurrentPrice(),
	})

	s.companyCache.Invalidate(symbol)

	return &dto.ValuationResult{
		StockSymbol: stock.Symbol,
		Valuation:   valuation,
	}, nil
}
