package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rule-one/config"
	"rule-one/internal/dto"
	"rule-one/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newProviderServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL string) *config.Config {
	provider := config.Provider{BaseURL: baseURL, APIKey: "demo", Timeout: 5 * time.Second}
	return &config.Config{
		AlphaVantage: provider,
		FMP:          provider,
		YahooFinance: config.YahooFinance{BaseURL: baseURL, Timeout: 5 * time.Second, PriceRange: "1y"},
	}
}

func unlimited() *rate.Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}

func TestAlphaVantageGetOverview(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		check   func(t *testing.T, p *dto.CompanyProfile)
	}{
		{
			name: "parses numbers and none",
			body: `{"Symbol":"AAPL","Name":"Apple Inc","Exchange":"NASDAQ","Sector":"TECHNOLOGY","MarketCapitalization":"3000000000000","PERatio":"None"}`,
			check: func(t *testing.T, p *dto.CompanyProfile) {
				assert.Equal(t, "Apple Inc", p.Name)
				assert.Equal(t, "NASDAQ", p.Exchange)
				require.NotNil(t, p.MarketCap)
				assert.Equal(t, 3e12, *p.MarketCap)
				assert.Nil(t, p.PERatio)
				assert.NotEmpty(t, p.Raw)
			},
		},
		{name: "empty overview is not found", body: `{}`, wantErr: dto.ErrNotFound},
		{name: "throttle note is upstream error", body: `{"Note":"Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`, wantErr: dto.ErrUpstream},
		{name: "error message is upstream error", body: `{"Error Message":"Invalid API call."}`, wantErr: dto.ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newProviderServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/query", r.URL.Path)
				assert.Equal(t, "OVERVIEW", r.URL.Query().Get("function"))
				assert.Equal(t, "demo", r.URL.Query().Get("apikey"))
				_, _ = w.Write([]byte(tt.body))
			})
			repo := NewAlphaVantageRepository(testConfig(srv.URL), logger.NewNop(), unlimited())

			profile, err := repo.GetOverview(context.Background(), "AAPL")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, profile)
		})
	}
}

func TestAlphaVantageGetAnnualFinancials(t *testing.T) {
	bodies := map[string]string{
		"INCOME_STATEMENT": `{"symbol":"ACME","annualReports":[
			{"fiscalDateEnding":"2023-12-31","totalRevenue":"200","netIncome":"40"},
			{"fiscalDateEnding":"2022-12-31","totalRevenue":"100","netIncome":"None"}]}`,
		"BALANCE_SHEET": `{"symbol":"ACME","annualReports":[
			{"fiscalDateEnding":"2023-12-31","totalShareholderEquity":"500","shortLongTermDebtTotal":"None","longTermDebt":"60","shortTermDebt":"40","commonStockSharesOutstanding":"10"},
			{"fiscalDateEnding":"2022-12-31","totalShareholderEquity":"400","shortLongTermDebtTotal":"80","commonStockSharesOutstanding":"10"}]}`,
		"CASH_FLOW": `{"symbol":"ACME","annualReports":[
			{"fiscalDateEnding":"2023-12-31","operatingCashflow":"70","capitalExpenditures":"20"},
			{"fiscalDateEnding":"2022-12-31","operatingCashflow":"None","capitalExpenditures":"10"}]}`,
		"EARNINGS": `{"Information":"premium endpoint"}`,
	}
	srv := newProviderServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(bodies[r.URL.Query().Get("function")]))
	})
	repo := NewAlphaVantageRepository(testConfig(srv.URL), logger.NewNop(), unlimited())

	records, err := repo.GetAnnualFinancials(context.Background(), "ACME")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 2022, records[0].Year)
	assert.Equal(t, 2023, records[1].Year)

	old := records[0]
	assert.Equal(t, 100.0, *old.Revenue)
	assert.Nil(t, old.NetEarnings)
	assert.Nil(t, old.FreeCashFlow)
	assert.Nil(t, old.EPS)
	assert.Equal(t, 80.0, *old.TotalDebt)

	latest := records[1]
	assert.Equal(t, 500.0, *latest.BookValue)
	assert.Equal(t, 100.0, *latest.TotalDebt, "debt falls back to long plus short term")
	assert.Equal(t, 50.0, *latest.FreeCashFlow)
	require.NotNil(t, latest.EPS)
	assert.Equal(t, 4.0, *latest.EPS, "eps derived from net income over shares")
}

func TestAlphaVantageGetAnnualFinancialsNoStatements(t *testing.T) {
	srv := newProviderServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	repo := NewAlphaVantageRepository(testConfig(srv.URL), logger.NewNop(), unlimited())

	_, err := repo.GetAnnualFinancials(context.Background(), "NOPE")
	assert.ErrorIs(t, err, dto.ErrNotFound)
}

func TestAlphaVantageGetIndicator(t *testing.T) {
	srv := newProviderServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "RSI", r.URL.Query().Get("function"))
		assert.Equal(t, "14", r.URL.Query().Get("time_period"))
		_, _ = w.Write([]byte(`{
			"Meta Data": {"1: Symbol": "IBM"},
			"Technical Analysis: RSI": {
				"2024-01-03": {"RSI": "55.1200"},
				"2024-01-02": {"RSI": "50.0000"}
			}}`))
	})
	repo := NewAlphaVantageRepository(testConfig(srv.URL), logger.NewNop(), unlimited())

	series, err := repo.GetIndicator(context.Background(), dto.IndicatorRSI, "IBM", dto.TechnicalParams{})
	require.NoError(t, err)
	assert.Equal(t, "daily", series.Interval)
	require.Len(t, series.Points, 2)
	assert.Equal(t, "2024-01-02", series.Points[0].Date)
	assert.Equal(t, 55.12, series.Points[1].Values["RSI"])

	_, err = repo.GetIndicator(context.Background(), "bollinger", "IBM", dto.TechnicalParams{})
	assert.ErrorIs(t, err, dto.ErrInvalidIndicator)
}

func TestAlphaVantageGetIndicatorThrottled(t *testing.T) {
	srv := newProviderServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Note":"call frequency exceeded"}`))
	})
	repo := NewAlphaVantageRepository(testConfig(srv.URL), logger.NewNop(), unlimited())

	_, err := repo.GetIndicator(context.Background(), dto.IndicatorSMA, "IBM", dto.TechnicalParams{TimePeriod: 20})
	assert.ErrorIs(t, err, dto.ErrUpstream)
}

func TestFMPRepository(t *testing.T) {
	srv := newProviderServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v3/profile/MSFT":
			_, _ = w.Write([]byte(`[{"symbol":"MSFT","companyName":"Microsoft Corporation","exchangeShortName":"NASDAQ","sector":"Technology","mktCap":2800000000000}]`))
		case "/api/v3/profile/NOPE":
			_, _ = w.Write([]byte(`[]`))
		case "/api/v3/key-metrics/MSFT":
			assert.Equal(t, "annual", r.URL.Query().Get("period"))
			_, _ = w.Write([]byte(`[
				{"symbol":"MSFT","date":"2023-06-30","calendarYear":"2023","roic":0.25},
				{"symbol":"MSFT","date":"2022-06-30","calendarYear":"","roic":0.2},
				{"symbol":"MSFT","date":"2021-06-30","calendarYear":"2021","roic":null}]`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"Error Message":"Invalid API KEY."}`))
		}
	})
	repo := NewFMPRepository(testConfig(srv.URL), logger.NewNop(), unlimited())
	ctx := context.Background()

	profile, err := repo.GetProfile(ctx, "MSFT")
	require.NoError(t, err)
	assert.Equal(t, "Microsoft Corporation", profile.Name)
	assert.Equal(t, 2.8e12, *profile.MarketCap)

	_, err = repo.GetProfile(ctx, "NOPE")
	assert.ErrorIs(t, err, dto.ErrNotFound)

	roic, err := repo.GetAnnualROIC(ctx, "MSFT", 10)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, roic[2023], 1e-9)
	assert.InDelta(t, 20.0, roic[2022], 1e-9, "year falls back to the report date")
	assert.NotContains(t, roic, 2021)

	_, err = repo.GetAnnualROIC(ctx, "ERR", 10)
	assert.ErrorIs(t, err, dto.ErrUpstream)
}

func TestYahooFinanceGetQuote(t *testing.T) {
	srv := newProviderServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/AAPL":
			assert.Equal(t, "5d", r.URL.Query().Get("range"))
			_, _ = w.Write([]byte(`{"chart":{"result":[{"meta":{"symbol":"AAPL","exchangeName":"NMS","shortName":"Apple Inc.","regularMarketPrice":110,"chartPreviousClose":100,"regularMarketVolume":5000}}],"error":null}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found"}}}`))
		}
	})
	repo := NewYahooFinanceRepository(testConfig(srv.URL), logger.NewNop(), unlimited())

	quote, err := repo.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", quote.Name)
	assert.Equal(t, 110.0, quote.Price)
	assert.InDelta(t, 10.0, quote.Change, 1e-9)
	assert.InDelta(t, 10.0, quote.ChangePercent, 1e-9)
	assert.Equal(t, int64(5000), quote.Volume)

	_, err = repo.GetQuote(context.Background(), "ZZZZ")
	assert.ErrorIs(t, err, dto.ErrNotFound)
}

func TestYahooFinanceGetPrices(t *testing.T) {
	srv := newProviderServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("period1"))
		_, _ = w.Write([]byte(`{"chart":{"result":[{"meta":{"regularMarketPrice":12},
			"timestamp":[1700000000,1700086400,1700172800],
			"indicators":{"quote":[{"open":[10,0,11],"high":[11,0,12],"low":[9,0,10],"close":[10.5,0,11.5],"volume":[100,0,200]}]}}],"error":null}}`))
	})
	repo := NewYahooFinanceRepository(testConfig(srv.URL), logger.NewNop(), unlimited())

	series, err := repo.GetPrices(context.Background(), "AAPL", "")
	require.NoError(t, err)
	assert.Equal(t, "1y", series.Range)
	require.Len(t, series.OHLCV, 2, "empty bars are skipped")
	assert.Equal(t, int64(1700172800), series.OHLCV[1].Timestamp)

	_, err = repo.GetPrices(context.Background(), "AAPL", "10y")
	assert.Error(t, err)
}

func TestPeriodBounds(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	start, end := periodBounds("6m", now)
	assert.Equal(t, now.Unix(), end)
	assert.Equal(t, time.Date(2023, 12, 15, 0, 0, 0, 0, time.UTC).Unix(), start)

	start, end = periodBounds("bogus", now)
	assert.Zero(t, start)
	assert.Zero(t, end)
}

func TestProviderSymbolStaysInPath(t *testing.T) {
	const symbol = "A?range=max&x="

	var paths []string
	var queries []map[string][]string
	srv := newProviderServer(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		queries = append(queries, r.URL.Query())
		if r.URL.Path == "/api/v3/profile/"+symbol {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found"}}}`))
	})
	ctx := context.Background()

	_, err := NewYahooFinanceRepository(testConfig(srv.URL), logger.NewNop(), unlimited()).GetQuote(ctx, symbol)
	assert.ErrorIs(t, err, dto.ErrNotFound)

	_, err = NewFMPRepository(testConfig(srv.URL), logger.NewNop(), unlimited()).GetProfile(ctx, symbol)
	assert.ErrorIs(t, err, dto.ErrNotFound)

	require.Len(t, paths, 2)
	assert.Equal(t, "/"+symbol, paths[0])
	assert.Equal(t, []string{"5d"}, queries[0]["range"])
	assert.NotContains(t, queries[0], "x")
	assert.Equal(t, "/api/v3/profile/"+symbol, paths[1])
	assert.NotContains(t, queries[1], "range")
}
