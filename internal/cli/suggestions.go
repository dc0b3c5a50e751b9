package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"NewsSuggester/internal/app"
)

var suggestionsCmd = &cobra.Command{
	Use:   "suggestions",
	Short: "Review and apply AI-generated suggestions",
}

var suggestionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List suggestions awaiting review, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		application, err := app.New(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer application.Close()

		pending, err := application.Suggestions.FindPending(ctx)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			fmt.Println("No pending suggestions")
			return nil
		}

		for _, s := range pending {
			fmt.Printf("%s  %-6s  %-24s  %s\n", s.ID, s.SuggestionType, s.CategoryName, s.SuggestedTitle)
		}
		return nil
	},
}

var suggestionsApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Approve a pending suggestion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid suggestion id %q: %w", args[0], err)
		}

		application, err := app.New(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer application.Close()

		if err := application.Approval.Approve(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Suggestion %s approved\n", id)
		return nil
	},
}

var suggestionsRejectCmd = &cobra.Command{
	Use:   "reject <id>",
	Short: "Reject a pending suggestion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid suggestion id %q: %w", args[0], err)
		}

		application, err := app.New(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer application.Close()

		if err := application.Approval.Reject(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Suggestion %s rejected\n", id)
		return nil
	},
}

var suggestionsApplyCmd = &cobra.Command{
	Use:   "apply <id>",
	Short: "Apply an approved suggestion to the knowledge base",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid suggestion id %q: %w", args[0], err)
		}

		application, err := app.New(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer application.Close()

		article, err := application.Approval.Apply(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("Applied to knowledge base article #%d: %s\n", article.ID, article.Name)
		return nil
	},
}

func init() {
	suggestionsCmd.AddCommand(suggestionsListCmd, suggestionsApproveCmd, suggestionsRejectCmd, suggestionsApplyCmd)
	rootCmd.AddCommand(suggestionsCmd)
}
