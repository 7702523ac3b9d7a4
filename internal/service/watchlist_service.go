package service

import (
	"context"
	"fmt"

	"rule-one/internal/model"
	"rule-one/internal/repository"
	"rule-one/pkg/logger"
	"rule-one/pkg/utils"
)

type WatchlistService interface {
	List(ctx context.Context) ([]model.WatchlistItem, error)
	Add(ctx context.Context, symbol string) (*model.WatchlistItem, error)
	Remove(ctx context.Context, symbol string) error
}

type watchlistService struct {
	log           *logger.Logger
	watchlistRepo repository.WatchlistRepository
	stockService  StockService
}

func NewWatchlistService(log *logger.Logger, watchlistRepo repository.WatchlistRepository, stockService StockService) WatchlistService {
	return &watchlistService{
		log:           log,
		watchlistRepo: watchlistRepo,
		stockService:  stockService,
	}
}

func (s *watchlistService) List(ctx context.Context) ([]model.WatchlistItem, error) {
	items, err := s.watchlistRepo.List(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to list watchlist", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	if items == nil {
		items = []model.WatchlistItem{}
	}
	return items, nil
}

// Add makes sure the stock is known before saving it, so a symbol no
// provider recognises is rejected as not found.
func (s *watchlistService) Add(ctx context.Context, symbol string) (*model.WatchlistItem, error) {
	symbol = utils.NormalizeSymbol(symbol)

	stock, err := s.stockService.EnsureStock(ctx, symbol)
	if err != nil {
		return nil, err
	}

	item := &model.WatchlistItem{StockSymbol: stock.Symbol}
	if err := s.watchlistRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	item.Stock = stock

	s.log.InfoContext(ctx, "Stock added to watchlist", logger.SymbolField(symbol))
	return item, nil
}

func (s *watchlistService) Remove(ctx context.Context, symbol string) error {
	symbol = utils.NormalizeSymbol(symbol)
	if err := s.watchlistRepo.Delete(ctx, symbol); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "Stock removed from watchlist", logger.SymbolField(symbol))
	return nil
}
