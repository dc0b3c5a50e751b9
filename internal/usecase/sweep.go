package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"NewsSuggester/internal/ports"
)

// SweepOptions parameterizes a batch run over recent news.
type SweepOptions struct {
	// Days is the lookback window; default 7.
	Days int
	// Limit caps how many news posts one sweep touches; default 10.
	Limit int
	// Force reprocesses posts that already have a suggestion.
	Force bool
	// Workers bounds concurrent Process calls; 0 or 1 means sequential.
	Workers int
}

// SweepSummary aggregates per-item outcomes of one batch run.
type SweepSummary struct {
	Processed int
	Created   int
	Skipped   int
	Failed    int
}

// Sweeper processes recent news posts in bulk. One item failing never
// aborts the rest; failures are logged, counted, and left for the next run.
type Sweeper struct {
	news      ports.NewsRepository
	processor *Processor
	logger    *slog.Logger
}

// NewSweeper constructs the batch component.
func NewSweeper(news ports.NewsRepository, processor *Processor, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{news: news, processor: processor, logger: logger}
}

// Run sweeps news from the lookback window and returns the outcome counts.
// The returned error covers only listing the work; per-item failures show up
// in Summary.Failed.
func (s *Sweeper) Run(ctx context.Context, opts SweepOptions) (SweepSummary, error) {
	if opts.Days <= 0 {
		opts.Days = 7
	}
	if opts.Limit <= 0 {
		opts.Limit = 10
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	since := time.Now().UTC().AddDate(0, 0, -opts.Days)
	items, err := s.news.FindRecent(ctx, since, opts.Limit, !opts.Force)
	if err != nil {
		return SweepSummary{}, err
	}

	var (
		mu      sync.Mutex
		summary SweepSummary
	)

	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for _, news := range items {
		news := news
		g.Go(func() error {
			suggestion, err := s.processor.Process(ctx, news)

			mu.Lock()
			defer mu.Unlock()
			summary.Processed++
			switch {
			case err != nil:
				summary.Failed++
				s.logger.Error("news processing failed", "news_id", news.ID, "error", err)
			case suggestion == nil:
				summary.Skipped++
			default:
				summary.Created++
			}
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info("sweep finished",
		"processed", summary.Processed, "created", summary.Created,
		"skipped", summary.Skipped, "failed", summary.Failed)
	return summary, nil
}
