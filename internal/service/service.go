package service

import (
	"rule-one/config"
	"rule-one/internal/repository"
	"rule-one/internal/strategy"
	"rule-one/pkg/cache"
	"rule-one/pkg/logger"
)

type Service struct {
	StockService     StockService
	WatchlistService WatchlistService
	ValuationService ValuationService
	TechnicalService TechnicalService
	BatchService     BatchService
	SchedulerService SchedulerService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
) *Service {
	stockService := NewStockService(cfg, log, repo)
	processors := strategy.NewRegistry(log, repo.StockRepo)

	return &Service{
		StockService:     stockService,
		WatchlistService: NewWatchlistService(log, repo.WatchlistRepo, stockService),
		ValuationService: NewValuationService(cfg, log, repo, stockService),
		TechnicalService: NewTechnicalService(cfg, log, inmemoryCache, repo),
		BatchService:     NewBatchService(cfg, log, processors),
		SchedulerService: NewSchedulerService(cfg, log, repo.WatchlistRepo, stockService),
	}
}
