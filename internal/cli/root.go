// Package cli contains all commands of the newssuggester binary.
package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"NewsSuggester/internal/config"
	"NewsSuggester/internal/logging"
)

var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "newssuggester",
	Short: "News-to-knowledge-base suggestion pipeline",
	Long: `newssuggester ingests RSS feeds and company news posts, asks an AI
model whether a post contains an actionable work instruction, matches it
against the knowledge base, and routes generated article suggestions
through a human approval workflow.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		logger = logging.New(cfg.Logging.Level)
	},
}

// Execute runs the CLI with the given base context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
