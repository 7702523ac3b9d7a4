package service

import (
	"context"
	"fmt"
	"sort"

	"rule-one/config"
	"rule-one/internal/dto"
	"rule-one/internal/strategy"
	"rule-one/pkg/logger"

	"golang.org/x/sync/errgroup"
)

type BatchService interface {
	List() []dto.ProcessorInfo
	Run(ctx context.Context, name string) (dto.BatchResult, error)
	RunAll(ctx context.Context) dto.BatchSummary
}

type batchService struct {
	cfg        *config.Config
	log        *logger.Logger
	processors map[strategy.ProcessorName]strategy.SeedProcessor
}

func NewBatchService(cfg *config.Config, log *logger.Logger, processors map[strategy.ProcessorName]strategy.SeedProcessor) BatchService {
	return &batchService{
		cfg:        cfg,
		log:        log,
		processors: processors,
	}
}

func (s *batchService) names() []strategy.ProcessorName {
	names := make([]strategy.ProcessorName, 0, len(s.processors))
	for name := range s.processors {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func (s *batchService) List() []dto.ProcessorInfo {
	infos := make([]dto.ProcessorInfo, 0, len(s.processors))
	for _, name := range s.names() {
		infos = append(infos, s.processors[name].Info())
	}
	return infos
}

// Run executes one processor. Only an unknown name is returned as an error;
// a processor failure is reported inside the result.
func (s *batchService) Run(ctx context.Context, name string) (dto.BatchResult, error) {
	processor, ok := s.processors[strategy.ProcessorName(name)]
	if !ok {
		return dto.BatchResult{}, fmt.Errorf("processor %s: %w", name, dto.ErrNotFound)
	}
	return s.execute(ctx, processor), nil
}

func (s *batchService) execute(ctx context.Context, processor strategy.SeedProcessor) dto.BatchResult {
	result, err := processor.Execute(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Seed processor failed",
			logger.StringField("processor", string(processor.GetName())),
			logger.ErrorField(err))
		if result.Error == "" {
			result.Error = err.Error()
		}
	}
	if result.Processor == "" {
		result.Processor = string(processor.GetName())
	}
	return result
}

// RunAll executes every processor with bounded parallelism. Each branch
// settles on its own; totals are summed once all have finished.
func (s *batchService) RunAll(ctx context.Context) dto.BatchSummary {
	names := s.names()
	results := make([]dto.BatchResult, len(names))

	var g errgroup.Group
	if s.cfg.Batch.MaxConcurrency > 0 {
		g.SetLimit(s.cfg.Batch.MaxConcurrency)
	}
	for i, name := range names {
		processor := s.processors[name]
		g.Go(func() error {
			results[i] = s.execute(ctx, processor)
			return nil
		})
	}
	_ = g.Wait()

	summary := dto.BatchSummary{Results: results}
	for _, r := range results {
		summary.Added += r.Added
		summary.Failed += r.Failed
	}

	s.log.InfoContext(ctx, "Batch seeding finished",
		logger.IntField("processors", len(results)),
		logger.IntField("added", summary.Added),
		logger.IntField("failed", summary.Failed))
	return summary
}
