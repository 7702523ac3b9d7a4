package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Stock struct {
	ID            uint                `gorm:"primaryKey" json:"id"`
	Symbol        string              `gorm:"type:varchar(20);uniqueIndex;not null" json:"symbol"`
	Name          string              `gorm:"type:varchar(255);not null" json:"name"`
	Exchange      string              `gorm:"type:varchar(50)" json:"exchange"`
	Sector        string              `gorm:"type:varchar(100)" json:"sector"`
	Price         decimal.NullDecimal `gorm:"type:numeric(18,4)" json:"price"`
	Change        decimal.NullDecimal `gorm:"type:numeric(18,4)" json:"change"`
	ChangePercent decimal.NullDecimal `gorm:"type:numeric(10,4)" json:"change_percent"`
	Volume        *int64              `json:"volume"`
	MarketCap     decimal.NullDecimal `gorm:"type:numeric(24,2)" json:"market_cap"`
	PERatio       decimal.NullDecimal `gorm:"type:numeric(12,4)" json:"pe_ratio"`
	IsPlaceholder bool                `gorm:"not null;default:false" json:"is_placeholder"`
	RawProfile    datatypes.JSON      `gorm:"type:jsonb" json:"-"`
	LastUpdated   time.Time           `json:"last_updated"`
	CreatedAt     time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Stock) TableName() string {
	return "stocks"
}

// CurrentPrice returns the latest price, or 0 when none is known.
func (s *Stock) CurrentPrice() float64 {
	if s == nil || !s.Price.Valid {
		return 0
	}
	return s.Price.Decimal.InexactFloat64()
}

// HistoricalPE returns the stored trailing PE ratio, or 0 when unknown.
func (s *Stock) HistoricalPE() float64 {
	if s == nil || !s.PERatio.Valid {
		return 0
	}
	return s.PERatio.Decimal.InexactFloat64()
}
