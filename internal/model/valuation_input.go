package model

import "time"

// ValuationInput stores the user's sticker price assumptions for a ticker.
type ValuationInput struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	StockSymbol   string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"stock_symbol"`
	GrowthRate    float64   `gorm:"not null" json:"growth_rate"`
	PERatio       float64   `gorm:"not null" json:"pe_ratio"`
	MinimumReturn float64   `gorm:"not null" json:"minimum_return"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ValuationInput) TableName() string {
	return "valuation_inputs"
}
