package dto

import "encoding/json"

// AlphaVantageStatus carries the fields Alpha Vantage uses to report
// throttling or bad requests with an HTTP 200.
type AlphaVantageStatus struct {
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

func (s AlphaVantageStatus) Problem() string {
	switch {
	case s.ErrorMessage != "":
		return s.ErrorMessage
	case s.Note != "":
		return s.Note
	default:
		return s.Information
	}
}

type AlphaVantageOverview struct {
	AlphaVantageStatus
	Symbol               string `json:"Symbol"`
	Name                 string `json:"Name"`
	Exchange             string `json:"Exchange"`
	Sector               string `json:"Sector"`
	MarketCapitalization string `json:"MarketCapitalization"`
	PERatio              string `json:"PERatio"`
}

type AlphaVantageIncomeStatement struct {
	AlphaVantageStatus
	Symbol        string `json:"symbol"`
	AnnualReports []struct {
		FiscalDateEnding string `json:"fiscalDateEnding"`
		TotalRevenue     string `json:"totalRevenue"`
		NetIncome        string `json:"netIncome"`
	} `json:"annualReports"`
}

type AlphaVantageBalanceSheet struct {
	AlphaVantageStatus
	Symbol        string `json:"symbol"`
	AnnualReports []struct {
		FiscalDateEnding             string `json:"fiscalDateEnding"`
		TotalShareholderEquity       string `json:"totalShareholderEquity"`
		ShortLongTermDebtTotal       string `json:"shortLongTermDebtTotal"`
		LongTermDebt                 string `json:"longTermDebt"`
		ShortTermDebt                string `json:"shortTermDebt"`
		CommonStockSharesOutstanding string `json:"commonStockSharesOutstanding"`
	} `json:"annualReports"`
}

type AlphaVantageCashFlow struct {
	AlphaVantageStatus
	Symbol        string `json:"symbol"`
	AnnualReports []struct {
		FiscalDateEnding    string `json:"fiscalDateEnding"`
		OperatingCashflow   string `json:"operatingCashflow"`
		CapitalExpenditures string `json:"capitalExpenditures"`
	} `json:"annualReports"`
}

type AlphaVantageEarnings struct {
	AlphaVantageStatus
	Symbol         string `json:"symbol"`
	AnnualEarnings []struct {
		FiscalDateEnding string `json:"fiscalDateEnding"`
		ReportedEPS      string `json:"reportedEPS"`
	} `json:"annualEarnings"`
}

type AlphaVantageSearch struct {
	AlphaVantageStatus
	BestMatches []struct {
		Symbol      string `json:"1. symbol"`
		Name        string `json:"2. name"`
		Type        string `json:"3. type"`
		Region      string `json:"4. region"`
		MarketOpen  string `json:"5. marketOpen"`
		MarketClose string `json:"6. marketClose"`
		Timezone    string `json:"7. timezone"`
		Currency    string `json:"8. currency"`
		MatchScore  string `json:"9. matchScore"`
	} `json:"bestMatches"`
}

// AlphaVantageIndicator is decoded loosely because the series key depends
// on the requested function, e.g. "Technical Analysis: RSI".
type AlphaVantageIndicator map[string]json.RawMessage

type FMPProfile struct {
	Symbol            string  `json:"symbol"`
	CompanyName       string  `json:"companyName"`
	ExchangeShortName string  `json:"exchangeShortName"`
	Sector            string  `json:"sector"`
	MktCap            float64 `json:"mktCap"`
	Price             float64 `json:"price"`
	Changes           float64 `json:"changes"`
	VolAvg            int64   `json:"volAvg"`
}

type FMPKeyMetric struct {
	Symbol       string   `json:"symbol"`
	Date         string   `json:"date"`
	CalendarYear string   `json:"calendarYear"`
	ROIC         *float64 `json:"roic"`
	PERatio      *float64 `json:"peRatio"`
}

type FMPError struct {
	ErrorMessage string `json:"Error Message"`
}

// YahooFinanceResponse is the chart API payload.
type YahooFinanceResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol              string  `json:"symbol"`
				ExchangeName        string  `json:"exchangeName"`
				FullExchangeName    string  `json:"fullExchangeName"`
				LongName            string  `json:"longName"`
				ShortName           string  `json:"shortName"`
				RegularMarketPrice  float64 `json:"regularMarketPrice"`
				ChartPreviousClose  float64 `json:"chartPreviousClose"`
				PreviousClose       float64 `json:"previousClose"`
				RegularMarketVolume int64   `json:"regularMarketVolume"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}
