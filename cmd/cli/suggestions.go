package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sevigo/evo-warden/internal/core"
)

var suggestionLimit int

var suggestionsCmd = &cobra.Command{
	Use:   "suggestions",
	Short: "Lists pending refactoring suggestions, highest priority first",
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx := context.Background()
		api := newAPIClient()

		var resp struct {
			Suggestions []core.Suggestion `json:"suggestions"`
		}
		path := fmt.Sprintf("/api/v1/suggestions/pending?limit=%d", suggestionLimit)
		if err := api.get(ctx, path, &resp); err != nil {
			return err
		}

		if outputJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(resp.Suggestions)
		}

		if len(resp.Suggestions) == 0 {
			successColor.Println("No pending suggestions.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tPRIORITY\tTYPE\tCONFIDENCE\tAUTOMATION\tTITLE")
		for _, s := range resp.Suggestions {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%s\n",
				shortID(s.ID),
				s.Priority,
				s.Type,
				s.Confidence,
				s.AutomationLevel,
				s.Title,
			)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		dimColor.Printf("\n%d suggestion(s). Use 'evo-cli feedback <id>' to approve or reject.\n", len(resp.Suggestions))
		return nil
	},
}

var (
	feedbackAction   string
	feedbackRating   int
	feedbackComments string
	feedbackUser     string
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback [suggestion-id]",
	Short: "Approves or rejects a suggestion",
	Long: `Approves or rejects a suggestion.

Approval of an automatic or assisted suggestion schedules its execution after
the debounce window; rejection is final.

Examples:
  evo-cli feedback 4f2c... --action approved --rating 4 --user alice
  evo-cli feedback 4f2c... --action rejected --rating 2 --user alice --comments "touches generated code"`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		api := newAPIClient()
		body := map[string]any{
			"user_id":  feedbackUser,
			"action":   feedbackAction,
			"rating":   feedbackRating,
			"comments": feedbackComments,
		}
		var resp struct {
			FeedbackID string `json:"feedback_id"`
		}
		path := fmt.Sprintf("/api/v1/suggestions/%s/feedback", args[0])
		if err := api.post(context.Background(), path, body, &resp); err != nil {
			return err
		}

		if core.FeedbackAction(feedbackAction) == core.FeedbackApproved {
			successColor.Printf("Suggestion approved (feedback %s). Execution is scheduled.\n", shortID(resp.FeedbackID))
		} else {
			warnColor.Printf("Suggestion rejected (feedback %s).\n", shortID(resp.FeedbackID))
		}
		return nil
	},
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	suggestionsCmd.Flags().IntVarP(&suggestionLimit, "limit", "n", 20, "Maximum number of suggestions to list")
	suggestionsCmd.Flags().BoolVar(&outputJSON, "json", false, "Output suggestions as JSON")

	feedbackCmd.Flags().StringVarP(&feedbackAction, "action", "a", "", "Verdict: approved or rejected")
	feedbackCmd.Flags().IntVarP(&feedbackRating, "rating", "r", 3, "Rating from 1 to 5")
	feedbackCmd.Flags().StringVarP(&feedbackComments, "comments", "c", "", "Optional review comments")
	feedbackCmd.Flags().StringVarP(&feedbackUser, "user", "u", "", "Reviewer identifier")
	_ = feedbackCmd.MarkFlagRequired("action")
	_ = feedbackCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(suggestionsCmd, feedbackCmd)
}
