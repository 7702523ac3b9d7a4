package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"rule-one/config"
	"rule-one/internal/dto"
	"rule-one/pkg/httpclient"
	"rule-one/pkg/logger"
	"rule-one/pkg/utils"

	"golang.org/x/time/rate"
)

type YahooFinanceRepository interface {
	GetQuote(ctx context.Context, symbol string) (*dto.Quote, error)
	GetPrices(ctx context.Context, symbol, period string) (*dto.PriceSeries, error)
}

type yahooFinanceRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
	now            func() time.Time
}

func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger, requestLimiter *rate.Limiter) YahooFinanceRepository {
	return &yahooFinanceRepository{
		httpClient: httpclient.New(log, cfg.YahooFinance.BaseURL, cfg.YahooFinance.Timeout, httpclient.Options{
			RetryCount: cfg.YahooFinance.RetryCount,
		}),
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		now:            utils.TimeNow,
	}
}

var yahooHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "application/json, text/plain, */*",
	"Accept-Language": "en-US,en;q=0.9",
	"Referer":         "https://finance.yahoo.com/",
}

func (r *yahooFinanceRepository) chart(ctx context.Context, symbol string, queryParams map[string]string) (*dto.YahooFinanceResponse, error) {
	if !r.requestLimiter.Allow() {
		r.logger.DebugContext(ctx, "Yahoo Finance request waiting for rate limiter",
			logger.IntField("max_request_per_minute", r.cfg.YahooFinance.MaxRequestPerMinute))
		if err := r.requestLimiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var yahooResp dto.YahooFinanceResponse
	resp, err := r.httpClient.Get(ctx, "/"+url.PathEscape(symbol), queryParams, yahooHeaders, &yahooResp)
	if err != nil {
		return nil, fmt.Errorf("%w: yahoo finance: %v", dto.ErrUpstream, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("yahoo finance %s: %w", symbol, dto.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		r.logger.ErrorContext(ctx, "Yahoo Finance API returned Non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(resp.Body)))
		return nil, fmt.Errorf("%w: yahoo finance api returned status: %d", dto.ErrUpstream, resp.StatusCode)
	}

	if yahooResp.Chart.Error != nil {
		return nil, fmt.Errorf("%w: yahoo finance api error: %v", dto.ErrUpstream, yahooResp.Chart.Error)
	}
	if len(yahooResp.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo finance %s: %w", symbol, dto.ErrNotFound)
	}
	return &yahooResp, nil
}

func (r *yahooFinanceRepository) GetQuote(ctx context.Context, symbol string) (*dto.Quote, error) {
	resp, err := r.chart(ctx, symbol, map[string]string{
		"range":    "5d",
		"interval": "1d",
	})
	if err != nil {
		return nil, err
	}

	meta := resp.Chart.Result[0].Meta
	if meta.RegularMarketPrice <= 0 {
		return nil, fmt.Errorf("yahoo finance quote %s: %w", symbol, dto.ErrNotFound)
	}

	previous := meta.ChartPreviousClose
	if previous <= 0 {
		previous = meta.PreviousClose
	}

	name := meta.LongName
	if name == "" {
		name = meta.ShortName
	}

	quote := &dto.Quote{
		Symbol:   symbol,
		Name:     name,
		Exchange: meta.ExchangeName,
		Price:    meta.RegularMarketPrice,
		Volume:   meta.RegularMarketVolume,
	}
	if previous > 0 {
		quote.Change = meta.RegularMarketPrice - previous
		quote.ChangePercent = quote.Change / previous * 100
	}
	return quote, nil
}

func (r *yahooFinanceRepository) GetPrices(ctx context.Context, symbol, period string) (*dto.PriceSeries, error) {
	if period == "" {
		period = r.cfg.YahooFinance.PriceRange
	}
	period1, period2 := periodBounds(period, r.now())
	if period1 == 0 || period2 == 0 {
		return nil, fmt.Errorf("invalid period %q", period)
	}

	resp, err := r.chart(ctx, symbol, map[string]string{
		"period1":        fmt.Sprintf("%d", period1),
		"period2":        fmt.Sprintf("%d", period2),
		"interval":       "1d",
		"includePrePost": "false",
		"events":         "div,split",
	})
	if err != nil {
		return nil, err
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo finance prices %s: %w", symbol, dto.ErrNotFound)
	}
	quote := result.Indicators.Quote[0]

	var ohlcv []dto.StockOHLCV
	for i, timestamp := range result.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) ||
			i >= len(quote.Close) || i >= len(quote.Volume) {
			continue
		}

		// zero means the provider had no bar for that day
		if quote.Open[i] == 0 || quote.High[i] == 0 || quote.Low[i] == 0 || quote.Close[i] == 0 {
			continue
		}

		ohlcv = append(ohlcv, dto.StockOHLCV{
			Timestamp: timestamp,
			Open:      quote.Open[i],
			High:      quote.High[i],
			Low:       quote.Low[i],
			Close:     quote.Close[i],
			Volume:    quote.Volume[i],
		})
	}

	if len(ohlcv) == 0 {
		return nil, fmt.Errorf("yahoo finance prices %s: %w", symbol, dto.ErrNotFound)
	}

	return &dto.PriceSeries{
		Symbol:      symbol,
		MarketPrice: result.Meta.RegularMarketPrice,
		Range:       period,
		Interval:    "1d",
		OHLCV:       ohlcv,
	}, nil
}

// periodBounds converts a range label into unix start and end timestamps.
func periodBounds(period string, now time.Time) (int64, int64) {
	switch period {
	case "1m":
		return now.AddDate(0, -1, 0).Unix(), now.Unix()
	case "3m":
		return now.AddDate(0, -3, 0).Unix(), now.Unix()
	case "6m":
		return now.AddDate(0, -6, 0).Unix(), now.Unix()
	case "1y":
		return now.AddDate(-1, 0, 0).Unix(), now.Unix()
	case "2y":
		return now.AddDate(-2, 0, 0).Unix(), now.Unix()
	case "5y":
		return now.AddDate(-5, 0, 0).Unix(), now.Unix()
	default:
		return 0, 0
	}
}
