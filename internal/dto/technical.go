package dto

const (
	IndicatorRSI    = "rsi"
	IndicatorSMA    = "sma"
	IndicatorMACD   = "macd"
	IndicatorPrices = "prices"
)

func IsValidIndicator(indicator string) bool {
	switch indicator {
	case IndicatorRSI, IndicatorSMA, IndicatorMACD, IndicatorPrices:
		return true
	default:
		return false
	}
}

type TechnicalParams struct {
	Interval   string `query:"interval" validate:"omitempty,oneof=daily weekly monthly"`
	TimePeriod int    `query:"time_period" validate:"omitempty,min=2,max=200"`
	SeriesType string `query:"series_type" validate:"omitempty,oneof=close open high low"`
	Range      string `query:"range" validate:"omitempty,oneof=1m 3m 6m 1y 2y 5y"`
}

type IndicatorPoint struct {
	Date   string             `json:"date"`
	Values map[string]float64 `json:"values"`
}

type IndicatorSeries struct {
	Symbol    string           `json:"symbol"`
	Indicator string           `json:"indicator"`
	Interval  string           `json:"interval,omitempty"`
	Points    []IndicatorPoint `json:"points"`
}

type StockOHLCV struct {
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
	Timestamp int64   `json:"timestamp"`
}

type PriceSeries struct {
	Symbol      string       `json:"symbol"`
	MarketPrice float64      `json:"market_price"`
	Range       string       `json:"range"`
	Interval    string       `json:"interval"`
	OHLCV       []StockOHLCV `json:"ohlcv"`
}

// TechnicalResult carries either an indicator series or a price series.
type TechnicalResult struct {
	Indicator string           `json:"indicator"`
	Symbol    string           `json:"symbol"`
	Series    *IndicatorSeries `json:"series,omitempty"`
	Prices    *PriceSeries     `json:"prices,omitempty"`
}
