package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"rule-one/config"
	"rule-one/internal/dto"
	"rule-one/pkg/httpclient"
	"rule-one/pkg/logger"
	"rule-one/pkg/utils"

	"golang.org/x/time/rate"
)

// FMPRepository talks to Financial Modeling Prep, used as the profile
// fallback and as the source of annual ROIC.
type FMPRepository interface {
	GetProfile(ctx context.Context, symbol string) (*dto.CompanyProfile, error)
	GetAnnualROIC(ctx context.Context, symbol string, limit int) (map[int]float64, error)
}

type fmpRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

func NewFMPRepository(cfg *config.Config, log *logger.Logger, requestLimiter *rate.Limiter) FMPRepository {
	return &fmpRepository{
		httpClient: httpclient.New(log, cfg.FMP.BaseURL, cfg.FMP.Timeout, httpclient.Options{
			RetryCount:  cfg.FMP.RetryCount,
			QueryParams: map[string]string{"apikey": cfg.FMP.APIKey},
		}),
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
	}
}

func (r *fmpRepository) get(ctx context.Context, endpoint string, queryParams map[string]string, result interface{}) error {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := r.httpClient.Get(ctx, endpoint, queryParams, nil, result)
	if err != nil {
		return fmt.Errorf("%w: fmp %s: %v", dto.ErrUpstream, endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr dto.FMPError
		_ = json.Unmarshal(resp.Body, &apiErr)
		r.logger.ErrorContext(ctx, "FMP API returned Non-OK status",
			logger.StringField("endpoint", endpoint),
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("error_message", apiErr.ErrorMessage))
		return fmt.Errorf("%w: fmp returned status %d", dto.ErrUpstream, resp.StatusCode)
	}
	return nil
}

func (r *fmpRepository) GetProfile(ctx context.Context, symbol string) (*dto.CompanyProfile, error) {
	var profiles []dto.FMPProfile
	if err := r.get(ctx, "/api/v3/profile/"+url.PathEscape(symbol), nil, &profiles); err != nil {
		return nil, err
	}
	if len(profiles) == 0 || profiles[0].Symbol == "" {
		return nil, fmt.Errorf("fmp profile %s: %w", symbol, dto.ErrNotFound)
	}

	p := profiles[0]
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile: %w", err)
	}

	profile := &dto.CompanyProfile{
		Symbol:   p.Symbol,
		Name:     p.CompanyName,
		Exchange: p.ExchangeShortName,
		Sector:   p.Sector,
		Raw:      raw,
	}
	if p.MktCap > 0 {
		profile.MarketCap = utils.ToPointer(p.MktCap)
	}
	return profile, nil
}

// GetAnnualROIC returns ROIC in percent keyed by calendar year. FMP reports
// it as a ratio.
func (r *fmpRepository) GetAnnualROIC(ctx context.Context, symbol string, limit int) (map[int]float64, error) {
	var metrics []dto.FMPKeyMetric
	params := map[string]string{
		"period": "annual",
		"limit":  strconv.Itoa(limit),
	}
	if err := r.get(ctx, "/api/v3/key-metrics/"+url.PathEscape(symbol), params, &metrics); err != nil {
		return nil, err
	}

	result := make(map[int]float64, len(metrics))
	for _, m := range metrics {
		if m.ROIC == nil {
			continue
		}
		year, err := strconv.Atoi(m.CalendarYear)
		if err != nil {
			var ok bool
			if year, ok = utils.FiscalYear(m.Date); !ok {
				continue
			}
		}
		result[year] = *m.ROIC * 100
	}
	return result, nil
}
