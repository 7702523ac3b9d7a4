package repository

import (
	"context"
	"errors"
	"fmt"

	"rule-one/internal/dto"
	"rule-one/internal/model"
	"rule-one/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StockRepository interface {
	GetBySymbol(ctx context.Context, symbol string, opts ...utils.DBOption) (*model.Stock, error)
	Upsert(ctx context.Context, stock *model.Stock, opts ...utils.DBOption) error
	CreatePlaceholders(ctx context.Context, stocks []model.Stock, opts ...utils.DBOption) (int64, error)
	ListSymbols(ctx context.Context, exchange string) ([]string, error)
}

type stockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) GetBySymbol(ctx context.Context, symbol string, opts ...utils.DBOption) (*model.Stock, error) {
	var stock model.Stock
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("symbol = ?", symbol).
		First(&stock).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("stock %s: %w", symbol, dto.ErrNotFound)
		}
		return nil, err
	}
	return &stock, nil
}

// Upsert inserts the stock or, when the symbol exists, overwrites its
// profile and quote columns. The stored row is read back into stock.
func (r *stockRepository) Upsert(ctx context.Context, stock *model.Stock, opts ...utils.DBOption) error {
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "exchange", "sector", "price", "change", "change_percent",
			"volume", "market_cap", "pe_ratio", "is_placeholder", "raw_profile",
			"last_updated", "updated_at",
		}),
	}).Create(stock).Error
	if err != nil {
		return err
	}
	return db.Where("symbol = ?", stock.Symbol).First(stock).Error
}

// CreatePlaceholders inserts rows for symbols not yet stored and returns
// how many were inserted. Existing rows are left untouched.
func (r *stockRepository) CreatePlaceholders(ctx context.Context, stocks []model.Stock, opts ...utils.DBOption) (int64, error) {
	if len(stocks) == 0 {
		return 0, nil
	}
	res := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "symbol"}}, DoNothing: true}).
		CreateInBatches(stocks, 100)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *stockRepository) ListSymbols(ctx context.Context, exchange string) ([]string, error) {
	var symbols []string
	db := r.db.WithContext(ctx).Model(&model.Stock{})
	if exchange != "" {
		db = db.Where("exchange = ?", exchange)
	}
	if err := db.Order("symbol ASC").Pluck("symbol", &symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}
