package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"rule-one/config"
	"rule-one/internal/dto"
	"rule-one/pkg/httpclient"
	"rule-one/pkg/logger"
	"rule-one/pkg/utils"

	"golang.org/x/time/rate"
)

const technicalAnalysisPrefix = "Technical Analysis:"

type AlphaVantageRepository interface {
	GetOverview(ctx context.Context, symbol string) (*dto.CompanyProfile, error)
	GetAnnualFinancials(ctx context.Context, symbol string) ([]dto.AnnualFinancials, error)
	Search(ctx context.Context, keywords string) ([]dto.SearchResult, error)
	GetIndicator(ctx context.Context, indicator, symbol string, param dto.TechnicalParams) (*dto.IndicatorSeries, error)
}

type alphaVantageRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

func NewAlphaVantageRepository(cfg *config.Config, log *logger.Logger, requestLimiter *rate.Limiter) AlphaVantageRepository {
	return &alphaVantageRepository{
		httpClient: httpclient.New(log, cfg.AlphaVantage.BaseURL, cfg.AlphaVantage.Timeout, httpclient.Options{
			RetryCount:  cfg.AlphaVantage.RetryCount,
			QueryParams: map[string]string{"apikey": cfg.AlphaVantage.APIKey},
		}),
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
	}
}

type alphaVantageResult interface {
	Problem() string
}

func (r *alphaVantageRepository) query(ctx context.Context, params map[string]string, result interface{}) error {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := r.httpClient.Get(ctx, "/query", params, nil, result)
	if err != nil {
		return fmt.Errorf("%w: alpha vantage %s: %v", dto.ErrUpstream, params["function"], err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.ErrorContext(ctx, "Alpha Vantage API returned Non-OK status",
			logger.StringField("function", params["function"]),
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(resp.Body)))
		return fmt.Errorf("%w: alpha vantage returned status %d", dto.ErrUpstream, resp.StatusCode)
	}

	if withStatus, ok := result.(alphaVantageResult); ok {
		if problem := withStatus.Problem(); problem != "" {
			r.logger.WarnContext(ctx, "Alpha Vantage API reported a problem",
				logger.StringField("function", params["function"]),
				logger.StringField("problem", problem))
			return fmt.Errorf("%w: alpha vantage: %s", dto.ErrUpstream, problem)
		}
	}
	return nil
}

func (r *alphaVantageRepository) GetOverview(ctx context.Context, symbol string) (*dto.CompanyProfile, error) {
	var overview dto.AlphaVantageOverview
	if err := r.query(ctx, map[string]string{"function": "OVERVIEW", "symbol": symbol}, &overview); err != nil {
		return nil, err
	}

	if overview.Symbol == "" {
		return nil, fmt.Errorf("alpha vantage overview %s: %w", symbol, dto.ErrNotFound)
	}

	raw, err := json.Marshal(overview)
	if err != nil {
		return nil, fmt.Errorf("failed to encode overview: %w", err)
	}

	return &dto.CompanyProfile{
		Symbol:    overview.Symbol,
		Name:      overview.Name,
		Exchange:  overview.Exchange,
		Sector:    overview.Sector,
		MarketCap: parseProviderNumber(overview.MarketCapitalization),
		PERatio:   parseProviderNumber(overview.PERatio),
		Raw:       raw,
	}, nil
}

// GetAnnualFinancials merges the income statement, balance sheet, cash flow
// and earnings reports into one record per fiscal year, ascending.
func (r *alphaVantageRepository) GetAnnualFinancials(ctx context.Context, symbol string) ([]dto.AnnualFinancials, error) {
	years := make(map[int]*dto.AnnualFinancials)
	entry := func(fiscalDateEnding string) *dto.AnnualFinancials {
		year, ok := utils.FiscalYear(fiscalDateEnding)
		if !ok {
			return nil
		}
		if _, exists := years[year]; !exists {
			years[year] = &dto.AnnualFinancials{Year: year}
		}
		return years[year]
	}

	var income dto.AlphaVantageIncomeStatement
	if err := r.query(ctx, map[string]string{"function": "INCOME_STATEMENT", "symbol": symbol}, &income); err != nil {
		return nil, err
	}
	if len(income.AnnualReports) == 0 {
		return nil, fmt.Errorf("alpha vantage income statement %s: %w", symbol, dto.ErrNotFound)
	}
	for _, report := range income.AnnualReports {
		if e := entry(report.FiscalDateEnding); e != nil {
			e.Revenue = parseProviderNumber(report.TotalRevenue)
			e.NetEarnings = parseProviderNumber(report.NetIncome)
		}
	}

	var balance dto.AlphaVantageBalanceSheet
	if err := r.query(ctx, map[string]string{"function": "BALANCE_SHEET", "symbol": symbol}, &balance); err != nil {
		return nil, err
	}
	for _, report := range balance.AnnualReports {
		e := entry(report.FiscalDateEnding)
		if e == nil {
			continue
		}
		e.BookValue = parseProviderNumber(report.TotalShareholderEquity)
		e.SharesOutstanding = parseProviderNumber(report.CommonStockSharesOutstanding)
		e.TotalDebt = parseProviderNumber(report.ShortLongTermDebtTotal)
		if e.TotalDebt == nil {
			e.TotalDebt = sumNullable(parseProviderNumber(report.LongTermDebt), parseProviderNumber(report.ShortTermDebt))
		}
	}

	var cashFlow dto.AlphaVantageCashFlow
	if err := r.query(ctx, map[string]string{"function": "CASH_FLOW", "symbol": symbol}, &cashFlow); err != nil {
		return nil, err
	}
	for _, report := range cashFlow.AnnualReports {
		e := entry(report.FiscalDateEnding)
		if e == nil {
			continue
		}
		operating := parseProviderNumber(report.OperatingCashflow)
		capex := parseProviderNumber(report.CapitalExpenditures)
		if operating != nil && capex != nil {
			// capital expenditures are reported as a positive outflow
			fcf := *operating - math.Abs(*capex)
			e.FreeCashFlow = &fcf
		}
	}

	var earnings dto.AlphaVantageEarnings
	if err := r.query(ctx, map[string]string{"function": "EARNINGS", "symbol": symbol}, &earnings); err != nil {
		r.logger.WarnContext(ctx, "Annual earnings unavailable, deriving EPS from net income",
			logger.SymbolField(symbol), logger.ErrorField(err))
	}
	for _, report := range earnings.AnnualEarnings {
		year, ok := utils.FiscalYear(report.FiscalDateEnding)
		if !ok {
			continue
		}
		if e, exists := years[year]; exists {
			e.EPS = parseProviderNumber(report.ReportedEPS)
		}
	}

	result := make([]dto.AnnualFinancials, 0, len(years))
	for _, e := range years {
		if e.EPS == nil && e.NetEarnings != nil && e.SharesOutstanding != nil && *e.SharesOutstanding > 0 {
			eps := *e.NetEarnings / *e.SharesOutstanding
			e.EPS = &eps
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Year < result[j].Year })
	return result, nil
}

func (r *alphaVantageRepository) Search(ctx context.Context, keywords string) ([]dto.SearchResult, error) {
	var search dto.AlphaVantageSearch
	if err := r.query(ctx, map[string]string{"function": "SYMBOL_SEARCH", "keywords": keywords}, &search); err != nil {
		return nil, err
	}

	results := make([]dto.SearchResult, 0, len(search.BestMatches))
	for _, m := range search.BestMatches {
		score, _ := strconv.ParseFloat(m.MatchScore, 64)
		results = append(results, dto.SearchResult{
			Symbol:      m.Symbol,
			Name:        m.Name,
			Type:        m.Type,
			Region:      m.Region,
			Currency:    m.Currency,
			MatchScore:  score,
			MarketOpen:  m.MarketOpen,
			MarketClose: m.MarketClose,
		})
	}
	return results, nil
}

func (r *alphaVantageRepository) GetIndicator(ctx context.Context, indicator, symbol string, param dto.TechnicalParams) (*dto.IndicatorSeries, error) {
	interval := param.Interval
	if interval == "" {
		interval = "daily"
	}
	seriesType := param.SeriesType
	if seriesType == "" {
		seriesType = "close"
	}

	params := map[string]string{
		"function":    strings.ToUpper(indicator),
		"symbol":      symbol,
		"interval":    interval,
		"series_type": seriesType,
	}
	switch indicator {
	case dto.IndicatorRSI:
		params["time_period"] = strconv.Itoa(defaultInt(param.TimePeriod, 14))
	case dto.IndicatorSMA:
		params["time_period"] = strconv.Itoa(defaultInt(param.TimePeriod, 50))
	case dto.IndicatorMACD:
	default:
		return nil, fmt.Errorf("%s: %w", indicator, dto.ErrInvalidIndicator)
	}

	var raw dto.AlphaVantageIndicator
	if err := r.query(ctx, params, &raw); err != nil {
		return nil, err
	}

	var status dto.AlphaVantageStatus
	for _, key := range []string{"Note", "Information", "Error Message"} {
		if msg, ok := raw[key]; ok {
			_ = json.Unmarshal(msg, statusField(&status, key))
		}
	}
	if problem := status.Problem(); problem != "" {
		return nil, fmt.Errorf("%w: alpha vantage: %s", dto.ErrUpstream, problem)
	}

	var seriesRaw json.RawMessage
	for key, value := range raw {
		if strings.HasPrefix(key, technicalAnalysisPrefix) {
			seriesRaw = value
			break
		}
	}
	if seriesRaw == nil {
		return nil, fmt.Errorf("alpha vantage %s %s: %w", indicator, symbol, dto.ErrNotFound)
	}

	var byDate map[string]map[string]string
	if err := json.Unmarshal(seriesRaw, &byDate); err != nil {
		return nil, fmt.Errorf("%w: decode %s series: %v", dto.ErrUpstream, indicator, err)
	}

	points := make([]dto.IndicatorPoint, 0, len(byDate))
	for date, fields := range byDate {
		values := make(map[string]float64, len(fields))
		for name, rawValue := range fields {
			if v := parseProviderNumber(rawValue); v != nil {
				values[name] = *v
			}
		}
		points = append(points, dto.IndicatorPoint{Date: date, Values: values})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })

	return &dto.IndicatorSeries{
		Symbol:    symbol,
		Indicator: indicator,
		Interval:  interval,
		Points:    points,
	}, nil
}

func statusField(status *dto.AlphaVantageStatus, key string) *string {
	switch key {
	case "Note":
		return &status.Note
	case "Information":
		return &status.Information
	default:
		return &status.ErrorMessage
	}
}

func defaultInt(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}
