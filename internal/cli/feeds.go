package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"NewsSuggester/internal/app"
	"NewsSuggester/internal/infrastructure/scheduler"
	"NewsSuggester/internal/usecase"
)

var retrieveFeedsCmd = &cobra.Command{
	Use:   "retrieve-feeds",
	Short: "Fetch all configured RSS feeds once",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		application, err := app.New(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer application.Close()

		inserted, err := application.Fetcher.RetrieveAll(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Feeds have been retrieved, %d new item(s)\n", inserted)
		return nil
	},
}

var (
	feedEntriesName  string
	feedEntriesLimit int
)

var feedEntriesCmd = &cobra.Command{
	Use:   "feed-entries",
	Short: "List stored feed items, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		application, err := app.New(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer application.Close()

		entries, err := application.Entries.ListRecentByFeed(ctx, feedEntriesName, feedEntriesLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No feed entries stored")
			return nil
		}

		for _, entry := range entries {
			fmt.Printf("%s  %-12s  %s\n", entry.PublishedAt.Format("2006-01-02 15:04"), entry.FeedName, entry.Title)
		}
		return nil
	},
}

var watchSweep bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll feeds on an interval until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		application, err := app.New(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer application.Close()

		driver := scheduler.NewIntervalScheduler(cfg.Scheduler.PollInterval)
		job := func(t time.Time) {
			if _, err := application.Fetcher.RetrieveAll(ctx); err != nil {
				logger.Error("feed poll failed", "error", err)
			}
			if watchSweep {
				if _, err := application.Sweeper.Run(ctx, usecase.SweepOptions{
					Workers: cfg.Pipeline.SweepWorkers,
				}); err != nil {
					logger.Error("sweep failed", "error", err)
				}
			}
		}

		if err := driver.Start(ctx, job); err != nil {
			return err
		}
		defer driver.Stop(ctx)

		<-ctx.Done()
		return nil
	},
}

func init() {
	feedEntriesCmd.Flags().StringVar(&feedEntriesName, "feed", "", "restrict to one feed name")
	feedEntriesCmd.Flags().IntVar(&feedEntriesLimit, "limit", 20, "maximum number of entries to list")
	watchCmd.Flags().BoolVar(&watchSweep, "sweep", false, "also run the suggestion sweep on every poll")
	rootCmd.AddCommand(retrieveFeedsCmd, feedEntriesCmd, watchCmd)
}
