package repository

import (
	"context"
	"fmt"

	"rule-one/internal/dto"
	"rule-one/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WatchlistRepository interface {
	List(ctx context.Context) ([]model.WatchlistItem, error)
	ListSymbols(ctx context.Context) ([]string, error)
	Create(ctx context.Context, item *model.WatchlistItem) error
	Delete(ctx context.Context, symbol string) error
}

type watchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) WatchlistRepository {
	return &watchlistRepository{db: db}
}

func (r *watchlistRepository) List(ctx context.Context) ([]model.WatchlistItem, error) {
	var items []model.WatchlistItem
	if err := r.db.WithContext(ctx).Preload("Stock").Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *watchlistRepository) ListSymbols(ctx context.Context) ([]string, error) {
	var symbols []string
	if err := r.db.WithContext(ctx).Model(&model.WatchlistItem{}).Pluck("stock_symbol", &symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}

func (r *watchlistRepository) Create(ctx context.Context, item *model.WatchlistItem) error {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "stock_symbol"}}, DoNothing: true}).
		Create(item)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("watchlist item %s: %w", item.StockSymbol, dto.ErrAlreadyExists)
	}
	return nil
}

func (r *watchlistRepository) Delete(ctx context.Context, symbol string) error {
	res := r.db.WithContext(ctx).Where("stock_symbol = ?", symbol).Delete(&model.WatchlistItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("watchlist item %s: %w", symbol, dto.ErrNotFound)
	}
	return nil
}
