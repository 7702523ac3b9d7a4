package repository

import (
	"context"

	"rule-one/internal/model"
	"rule-one/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FinancialMetricRepository interface {
	GetByStockID(ctx context.Context, stockID uint, opts ...utils.DBOption) ([]model.FinancialMetric, error)
	UpsertBulk(ctx context.Context, metrics []model.FinancialMetric, opts ...utils.DBOption) error
}

type financialMetricRepository struct {
	db *gorm.DB
}

func NewFinancialMetricRepository(db *gorm.DB) FinancialMetricRepository {
	return &financialMetricRepository{db: db}
}

// GetByStockID returns every stored year in ascending order.
func (r *financialMetricRepository) GetByStockID(ctx context.Context, stockID uint, opts ...utils.DBOption) ([]model.FinancialMetric, error) {
	var metrics []model.FinancialMetric
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("stock_id = ?", stockID).
		Order("year ASC").
		Find(&metrics).Error
	if err != nil {
		return nil, err
	}
	return metrics, nil
}

// UpsertBulk writes one row per (stock_id, year); a year already stored is
// overwritten, never duplicated.
func (r *financialMetricRepository) UpsertBulk(ctx context.Context, metrics []model.FinancialMetric, opts ...utils.DBOption) error {
	if len(metrics) == 0 {
		return nil
	}
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "stock_id"}, {Name: "year"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"revenue", "net_earnings", "free_cash_flow", "book_value", "eps",
				"roic", "total_debt", "shares_outstanding", "updated_at",
			}),
		}).
		CreateInBatches(metrics, 50).Error
}
