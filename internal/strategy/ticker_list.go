package strategy

import (
	"context"
	"fmt"

	"rule-one/internal/dto"
	"rule-one/internal/model"
	"rule-one/internal/repository"
	"rule-one/pkg/logger"
	"rule-one/pkg/utils"
)

// TickerList is a named group of symbols listed on one exchange.
type TickerList struct {
	Name     ProcessorName
	Exchange string
	Sector   string
	Tickers  []string
}

type TickerListProcessor struct {
	log       *logger.Logger
	stockRepo repository.StockRepository
	list      TickerList
}

func NewTickerListProcessor(log *logger.Logger, stockRepo repository.StockRepository, list TickerList) SeedProcessor {
	return &TickerListProcessor{
		log:       log,
		stockRepo: stockRepo,
		list:      list,
	}
}

func (p *TickerListProcessor) GetName() ProcessorName {
	return p.list.Name
}

func (p *TickerListProcessor) Info() dto.ProcessorInfo {
	return dto.ProcessorInfo{
		Name:     string(p.list.Name),
		Exchange: p.list.Exchange,
		Sector:   p.list.Sector,
		Tickers:  len(p.list.Tickers),
	}
}

// Execute stores a placeholder row for every valid ticker not yet known.
// Malformed tickers are counted as failed; already stored ones as skipped.
func (p *TickerListProcessor) Execute(ctx context.Context) (dto.BatchResult, error) {
	result := dto.BatchResult{
		Processor: string(p.list.Name),
		Exchange:  p.list.Exchange,
		Total:     len(p.list.Tickers),
	}

	seen := make(map[string]struct{}, len(p.list.Tickers))
	stocks := make([]model.Stock, 0, len(p.list.Tickers))
	now := utils.TimeNow()
	for _, ticker := range p.list.Tickers {
		symbol := utils.NormalizeSymbol(ticker)
		if !utils.IsTickerSymbol(symbol) {
			p.log.WarnContext(ctx, "Skipping malformed ticker",
				logger.StringField("processor", string(p.list.Name)),
				logger.StringField("ticker", ticker))
			result.Failed++
			continue
		}
		if _, dup := seen[symbol]; dup {
			result.Skipped++
			continue
		}
		seen[symbol] = struct{}{}

		stocks = append(stocks, model.Stock{
			Symbol:        symbol,
			Name:          symbol,
			Exchange:      p.list.Exchange,
			Sector:        p.list.Sector,
			IsPlaceholder: true,
			LastUpdated:   now,
		})
	}

	added, err := p.stockRepo.CreatePlaceholders(ctx, stocks)
	if err != nil {
		p.log.ErrorContext(ctx, "Failed to insert placeholder stocks",
			logger.StringField("processor", string(p.list.Name)),
			logger.ErrorField(err))
		result.Failed += len(stocks)
		result.Error = err.Error()
		return result, fmt.Errorf("processor %s: %w", p.list.Name, err)
	}

	result.Added = int(added)
	result.Skipped += len(stocks) - int(added)

	p.log.InfoContext(ctx, "Ticker list seeded",
		logger.StringField("processor", string(p.list.Name)),
		logger.IntField("added", result.Added),
		logger.IntField("skipped", result.Skipped),
		logger.IntField("failed", result.Failed))
	return result, nil
}
