package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"NewsSuggester/internal/app"
)

var (
	postNewsTitle   string
	postNewsContent string
)

var postNewsCmd = &cobra.Command{
	Use:   "post-news",
	Short: "Publish an internal news post",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		application, err := app.New(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer application.Close()

		news, err := application.Publisher.Publish(ctx, postNewsTitle, postNewsContent)
		if err != nil {
			return err
		}
		fmt.Printf("News #%d published\n", news.ID)
		return nil
	},
}

func init() {
	postNewsCmd.Flags().StringVar(&postNewsTitle, "title", "", "news title")
	postNewsCmd.Flags().StringVar(&postNewsContent, "content", "", "news body text")
	_ = postNewsCmd.MarkFlagRequired("title")
	_ = postNewsCmd.MarkFlagRequired("content")
	rootCmd.AddCommand(postNewsCmd)
}
