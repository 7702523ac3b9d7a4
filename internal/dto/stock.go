package dto

import (
	"time"

	"rule-one/internal/model"
	"rule-one/internal/ruleone"
)

// StockDetail is the enriched payload served for a single ticker.
type StockDetail struct {
	Stock     *model.Stock            `json:"stock"`
	Metrics   []model.FinancialMetric `json:"metrics"`
	RuleOne   ruleone.Quality         `json:"rule_one"`
	FromCache bool                    `json:"from_cache"`
	CachedAt  *time.Time              `json:"cached_at,omitempty"`
}

type CompareResult struct {
	First  *StockDetail `json:"first"`
	Second *StockDetail `json:"second"`
}

type SearchResult struct {
	Symbol      string  `json:"symbol"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Region      string  `json:"region"`
	Currency    string  `json:"currency"`
	MatchScore  float64 `json:"match_score"`
	MarketOpen  string  `json:"market_open,omitempty"`
	MarketClose string  `json:"market_close,omitempty"`
}

// CompanyProfile is a provider-neutral company description.
type CompanyProfile struct {
	Symbol    string
	Name      string
	Exchange  string
	Sector    string
	MarketCap *float64
	PERatio   *float64
	Raw       []byte
}

// Quote is a provider-neutral latest price snapshot.
type Quote struct {
	Symbol        string
	Name          string
	Exchange      string
	Price         float64
	Change        float64
	ChangePercent float64
	Volume        int64
}

// AnnualFinancials is one fiscal year of merged statement data.
type AnnualFinancials struct {
	Year              int
	Revenue           *float64
	NetEarnings       *float64
	FreeCashFlow      *float64
	BookValue         *float64
	EPS               *float64
	ROIC              *float64
	TotalDebt         *float64
	SharesOutstanding *float64
}

func (a AnnualFinancials) ToModel(stockID uint) model.FinancialMetric {
	return model.FinancialMetric{
		StockID:           stockID,
		Year:              a.Year,
		Revenue:           a.Revenue,
		NetEarnings:       a.NetEarnings,
		FreeCashFlow:      a.FreeCashFlow,
		BookValue:         a.BookValue,
		EPS:               a.EPS,
		ROIC:              a.ROIC,
		TotalDebt:         a.TotalDebt,
		SharesOutstanding: a.SharesOutstanding,
	}
}

type ValuationRequest struct {
	StockSymbol   string   `json:"stockSymbol" validate:"required,ticker"`
	GrowthRate    *float64 `json:"growthRate" validate:"required,gt=-100,lte=100"`
	PERatio       float64  `json:"peRatio" validate:"gt=0,lte=200"`
	MinimumReturn float64  `json:"minimumReturn" validate:"gt=0,lte=100"`
}

type ValuationResult struct {
	StockSymbol string            `json:"stock_symbol"`
	Valuation   ruleone.Valuation `json:"valuation"`
}

type WatchlistRequest struct {
	StockSymbol string `json:"stockSymbol" validate:"required,ticker"`
}
