package service

import (
	"context"
	"sync"

	"rule-one/config"
	"rule-one/internal/dto"
	"rule-one/internal/repository"
	"rule-one/pkg/logger"
	"rule-one/pkg/utils"

	"github.com/robfig/cron/v3"
)

type SchedulerService interface {
	Start(ctx context.Context) error
	Stop() context.Context
	RefreshWatchlist(ctx context.Context) (dto.RefreshSummary, error)
}

type schedulerService struct {
	cfg           *config.Config
	log           *logger.Logger
	cron          *cron.Cron
	watchlistRepo repository.WatchlistRepository
	stockService  StockService
	semaphore     chan struct{}
}

func NewSchedulerService(
	cfg *config.Config,
	log *logger.Logger,
	watchlistRepo repository.WatchlistRepository,
	stockService StockService,
) SchedulerService {
	maxConcurrency := cfg.Scheduler.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return &schedulerService{
		cfg:           cfg,
		log:           log,
		cron:          cron.New(cron.WithParser(parser)),
		watchlistRepo: watchlistRepo,
		stockService:  stockService,
		semaphore:     make(chan struct{}, maxConcurrency),
	}
}

// Start registers the watchlist refresh job and starts the cron runner.
func (s *schedulerService) Start(ctx context.Context) error {
	if !s.cfg.Scheduler.Enabled {
		s.log.InfoContext(ctx, "Scheduler disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.Scheduler.WatchlistRefreshCron, func() {
		runCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Scheduler.TimeoutDuration)
		defer cancel()

		if _, err := s.RefreshWatchlist(runCtx); err != nil {
			s.log.ErrorContext(runCtx, "Scheduled watchlist refresh failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		s.log.ErrorContext(ctx, "Invalid watchlist refresh schedule",
			logger.StringField("cron", s.cfg.Scheduler.WatchlistRefreshCron),
			logger.ErrorField(err))
		return err
	}

	s.cron.Start()
	s.log.InfoContext(ctx, "Scheduler started", logger.StringField("cron", s.cfg.Scheduler.WatchlistRefreshCron))
	return nil
}

// Stop halts the cron runner. The returned context is done once running
// jobs have finished.
func (s *schedulerService) Stop() context.Context {
	return s.cron.Stop()
}

// RefreshWatchlist refreshes every watchlist symbol, at most
// scheduler.max_concurrency at a time. A failing symbol is logged and
// reported but never stops the others.
func (s *schedulerService) RefreshWatchlist(ctx context.Context) (dto.RefreshSummary, error) {
	symbols, err := s.watchlistRepo.ListSymbols(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to list watchlist symbols", logger.ErrorField(err))
		return dto.RefreshSummary{}, err
	}

	summary := dto.RefreshSummary{Total: len(symbols)}
	if len(symbols) == 0 {
		s.log.InfoContext(ctx, "Watchlist is empty, nothing to refresh")
		return summary, nil
	}

	s.log.InfoContext(ctx, "Start refreshing watchlist",
		logger.IntField("symbols", len(symbols)),
		logger.IntField("max_concurrency", cap(s.semaphore)))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, symbol := range symbols {
		if !utils.ShouldContinue(ctx, s.log) {
			mu.Lock()
			summary.Failed = append(summary.Failed, symbol)
			mu.Unlock()
			continue
		}

		s.semaphore <- struct{}{}
		wg.Add(1)
		utils.GoSafe(func() {
			defer func() {
				if r := recover(); r != nil {
					s.log.ErrorContext(ctx, "Panic while refreshing watchlist stock",
						logger.SymbolField(symbol), logger.Field("panic", r))
					mu.Lock()
					summary.Failed = append(summary.Failed, symbol)
					mu.Unlock()
				}
				<-s.semaphore
				wg.Done()
			}()

			_, err := s.stockService.Refresh(ctx, symbol)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.log.ErrorContext(ctx, "Failed to refresh watchlist stock", logger.SymbolField(symbol), logger.ErrorField(err))
				summary.Failed = append(summary.Failed, symbol)
				return
			}
			summary.Refreshed++
		})
	}
	wg.Wait()

	s.log.InfoContext(ctx, "Watchlist refresh finished",
		logger.IntField("refreshed", summary.Refreshed),
		logger.IntField("failed", len(summary.Failed)))
	return summary, nil
}
