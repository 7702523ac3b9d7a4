package repository

import (
	"context"
	"errors"
	"fmt"

	"rule-one/internal/dto"
	"rule-one/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ValuationInputRepository interface {
	GetBySymbol(ctx context.Context, symbol string) (*model.ValuationInput, error)
	Upsert(ctx context.Context, input *model.ValuationInput) error
}

type valuationInputRepository struct {
	db *gorm.DB
}

func NewValuationInputRepository(db *gorm.DB) ValuationInputRepository {
	return &valuationInputRepository{db: db}
}

func (r *valuationInputRepository) GetBySymbol(ctx context.Context, symbol string) (*model.ValuationInput, error) {
	var input model.ValuationInput
	if err := r.db.WithContext(ctx).Where("stock_symbol = ?", symbol).First(&input).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("valuation input %s: %w", symbol, dto.ErrNotFound)
		}
		return nil, err
	}
	return &input, nil
}

func (r *valuationInputRepository) Upsert(ctx context.Context, input *model.ValuationInput) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stock_symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"growth_rate", "pe_ratio", "minimum_return", "updated_at"}),
	}).Create(input).Error
}
