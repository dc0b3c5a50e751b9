package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"NewsSuggester/internal/app"
	"NewsSuggester/internal/usecase"
)

var (
	processNewsID int64
	processDays   int
	processLimit  int
	processForce  bool
)

var processNewsCmd = &cobra.Command{
	Use:   "process-news",
	Short: "Generate knowledge base suggestions from news posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		application, err := app.New(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer application.Close()

		if processNewsID > 0 {
			return processOne(ctx, application, processNewsID)
		}
		return processRecent(ctx, application)
	},
}

func init() {
	processNewsCmd.Flags().Int64Var(&processNewsID, "news-id", 0, "process a specific news post by id")
	processNewsCmd.Flags().IntVar(&processDays, "days", 7, "process news from the last N days")
	processNewsCmd.Flags().IntVar(&processLimit, "limit", 10, "maximum number of news posts to process")
	processNewsCmd.Flags().BoolVar(&processForce, "force", false, "process even if suggestions already exist")
	rootCmd.AddCommand(processNewsCmd)
}

func processOne(ctx context.Context, application *app.Application, newsID int64) error {
	news, err := application.News.FindByID(ctx, newsID)
	if err != nil {
		return err
	}

	fmt.Printf("Processing news #%d: %s\n", news.ID, news.Title)

	suggestion, err := application.Processor.Process(ctx, news)
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}
	if suggestion == nil {
		fmt.Println("No actionable instructions found in this news post")
		return nil
	}

	confidence := 0.0
	if suggestion.MatchConfidence != nil {
		confidence = *suggestion.MatchConfidence
	}
	fmt.Printf("Suggestion created: %s\n", suggestion.ID)
	fmt.Printf("  Type:       %s\n", suggestion.SuggestionType)
	fmt.Printf("  Category:   %s\n", suggestion.CategoryName)
	fmt.Printf("  Confidence: %.2f\n", confidence)
	return nil
}

func processRecent(ctx context.Context, application *app.Application) error {
	summary, err := application.Sweeper.Run(ctx, usecase.SweepOptions{
		Days:    processDays,
		Limit:   processLimit,
		Force:   processForce,
		Workers: cfg.Pipeline.SweepWorkers,
	})
	if err != nil {
		return err
	}

	fmt.Println("Processing summary")
	fmt.Printf("  Processed:           %d\n", summary.Processed)
	fmt.Printf("  Suggestions created: %d\n", summary.Created)
	fmt.Printf("  Skipped:             %d\n", summary.Skipped)
	fmt.Printf("  Failed:              %d\n", summary.Failed)

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d news posts failed", summary.Failed, summary.Processed)
	}
	return nil
}
