package model

import "time"

type WatchlistItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StockSymbol string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"stock_symbol"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	Stock *Stock `gorm:"foreignKey:StockSymbol;references:Symbol" json:"stock,omitempty"`
}

func (WatchlistItem) TableName() string {
	return "watchlist_items"
}
