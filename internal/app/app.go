package app

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"NewsSuggester/internal/config"
	"NewsSuggester/internal/infrastructure/feed"
	"NewsSuggester/internal/infrastructure/llm"
	"NewsSuggester/internal/infrastructure/storage"
	"NewsSuggester/internal/infrastructure/telegram"
	"NewsSuggester/internal/logging"
	"NewsSuggester/internal/ports"
	"NewsSuggester/internal/usecase"
)

// Application wires configuration to adapters and use cases.
type Application struct {
	cfg  config.Config
	pool *pgxpool.Pool

	News        *storage.NewsRepository
	Suggestions *storage.SuggestionRepository
	Entries     *storage.FeedEntryRepository

	Processor *usecase.Processor
	Approval  *usecase.Approval
	Sweeper   *usecase.Sweeper
	Publisher *usecase.NewsPublisher
	Fetcher   *feed.Fetcher
}

// New connects the database and builds the full component graph.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	pool, err := storage.NewPool(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	news := storage.NewNewsRepository(pool)
	suggestions := storage.NewSuggestionRepository(pool)
	knowledge := storage.NewKnowledgeBaseRepository(pool)
	entries := storage.NewFeedEntryRepository(pool)
	tx := storage.NewTxManager(pool)

	analyzer, err := llm.New(cfg.AI, baseLogger.With("component", "llm"))
	if err != nil {
		pool.Close()
		return nil, err
	}

	var notifier ports.Notifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		notifier = telegram.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	}

	processor := usecase.NewProcessor(usecase.ProcessorDeps{
		Analyzer:      analyzer,
		KnowledgeBase: knowledge,
		Suggestions:   suggestions,
		Tx:            tx,
		Notifier:      notifier,
		Logger:        baseLogger.With("component", "processor"),
	})

	return &Application{
		cfg:         cfg,
		pool:        pool,
		News:        news,
		Suggestions: suggestions,
		Entries:     entries,
		Processor:   processor,
		Approval:    usecase.NewApproval(suggestions, processor, baseLogger.With("component", "approval")),
		Sweeper:     usecase.NewSweeper(news, processor, baseLogger.With("component", "sweep")),
		Publisher:   usecase.NewNewsPublisher(news, entries, tx, baseLogger.With("component", "publisher")),
		Fetcher:     feed.NewFetcher(cfg.Feeds, entries, baseLogger.With("component", "feed")),
	}, nil
}

// Close releases the database pool.
func (a *Application) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}
