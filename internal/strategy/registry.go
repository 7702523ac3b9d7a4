package strategy

import (
	"rule-one/internal/repository"
	"rule-one/pkg/logger"
)

const (
	ProcessorNasdaqLargeCap      ProcessorName = "nasdaq_large_cap"
	ProcessorNYSEBlueChip        ProcessorName = "nyse_blue_chip"
	ProcessorDividendAristocrats ProcessorName = "dividend_aristocrats"
	ProcessorSemiconductors      ProcessorName = "semiconductors"
	ProcessorConsumerStaples     ProcessorName = "consumer_staples"
	ProcessorFinancials          ProcessorName = "financials"
)

// TickerLists is every seedable group known to the binary.
var TickerLists = []TickerList{
	{
		Name:     ProcessorNasdaqLargeCap,
		Exchange: "NASDAQ",
		Tickers: []string{
			"AAPL", "MSFT", "AMZN", "GOOGL", "GOOG", "META", "NVDA", "TSLA", "AVGO", "COST",
			"PEP", "ADBE", "CSCO", "NFLX", "CMCSA", "TMUS", "INTC", "AMD", "INTU", "TXN",
			"QCOM", "AMGN", "HON", "SBUX", "ISRG", "BKNG", "GILD", "ADP", "MDLZ", "REGN",
			"VRTX", "ADI", "LRCX", "PYPL", "MU", "CSX", "MAR", "ORLY", "MNST", "CTAS",
		},
	},
	{
		Name:     ProcessorNYSEBlueChip,
		Exchange: "NYSE",
		Tickers: []string{
			"BRK.B", "JPM", "V", "JNJ", "WMT", "PG", "MA", "UNH", "HD", "CVX",
			"XOM", "KO", "MRK", "ABBV", "LLY", "BAC", "PFE", "TMO", "DIS", "MCD",
			"ABT", "CRM", "ACN", "NKE", "DHR", "VZ", "NEE", "LIN", "PM", "UNP",
			"RTX", "LOW", "IBM", "CAT", "GS", "SPGI", "BLK", "DE", "AXP", "MMM",
		},
	},
	{
		Name:     ProcessorDividendAristocrats,
		Exchange: "NYSE",
		Tickers: []string{
			"ABBV", "ABT", "ADM", "AFL", "ALB", "AMCR", "AOS", "APD", "ATO", "BDX",
			"BEN", "BRO", "CAH", "CAT", "CB", "CHD", "CHRW", "CINF", "CL", "CLX",
			"ED", "EMR", "ESS", "EXPD", "FRT", "GD", "GPC", "GWW", "IBM", "ITW",
			"KMB", "KO", "KVUE", "LOW", "MCD", "MDT", "MKC", "NDSN", "NUE", "O",
		},
	},
	{
		Name:     ProcessorSemiconductors,
		Exchange: "NASDAQ",
		Sector:   "Technology",
		Tickers: []string{
			"NVDA", "AMD", "INTC", "AVGO", "QCOM", "TXN", "MU", "ADI", "LRCX", "AMAT",
			"KLAC", "MRVL", "NXPI", "MCHP", "ON", "SWKS", "QRVO", "MPWR", "ENTG", "TER",
		},
	},
	{
		Name:     ProcessorConsumerStaples,
		Exchange: "NYSE",
		Sector:   "Consumer Defensive",
		Tickers: []string{
			"PG", "KO", "PEP", "WMT", "COST", "PM", "MO", "MDLZ", "CL", "KMB",
			"GIS", "KHC", "HSY", "SYY", "KR", "STZ", "MKC", "CLX", "CHD", "TSN",
		},
	},
	{
		Name:     ProcessorFinancials,
		Exchange: "NYSE",
		Sector:   "Financial Services",
		Tickers: []string{
			"JPM", "BAC", "WFC", "C", "GS", "MS", "SCHW", "BLK", "AXP", "SPGI",
			"CB", "PGR", "MMC", "USB", "PNC", "TFC", "COF", "AIG", "MET", "PRU",
		},
	},
}

// NewRegistry builds the name to processor map used by the batch service.
func NewRegistry(log *logger.Logger, stockRepo repository.StockRepository) map[ProcessorName]SeedProcessor {
	processors := make(map[ProcessorName]SeedProcessor, len(TickerLists))
	for _, list := range TickerLists {
		processors[list.Name] = NewTickerListProcessor(log, stockRepo, list)
	}
	return processors
}
