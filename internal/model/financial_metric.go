package model

import "time"

// FinancialMetric is one fiscal year of fundamentals for a stock. Every
// figure is nullable because providers routinely omit fields.
type FinancialMetric struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	StockID           uint      `gorm:"not null;uniqueIndex:idx_financial_metrics_stock_year" json:"stock_id"`
	Year              int       `gorm:"not null;uniqueIndex:idx_financial_metrics_stock_year" json:"year"`
	Revenue           *float64  `json:"revenue"`
	NetEarnings       *float64  `json:"net_earnings"`
	FreeCashFlow      *float64  `json:"free_cash_flow"`
	BookValue         *float64  `json:"book_value"`
	EPS               *float64  `json:"eps"`
	ROIC              *float64  `json:"roic"`
	TotalDebt         *float64  `json:"total_debt"`
	SharesOutstanding *float64  `json:"shares_outstanding"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FinancialMetric) TableName() string {
	return "financial_metrics"
}
