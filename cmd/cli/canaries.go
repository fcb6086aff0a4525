package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sevigo/evo-warden/internal/core"
)

var canaryStatusFilter string

var canariesCmd = &cobra.Command{
	Use:   "canaries",
	Short: "Lists canary model deployments",
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx := context.Background()
		api := newAPIClient()

		path := "/api/v1/canaries"
		if canaryStatusFilter != "" {
			path += "?status=" + canaryStatusFilter
		}
		var resp struct {
			Canaries []core.CanaryModel `json:"canaries"`
		}
		if err := api.get(ctx, path, &resp); err != nil {
			return err
		}

		if outputJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(resp.Canaries)
		}

		if len(resp.Canaries) == 0 {
			dimColor.Println("No canaries match the filter.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tVERSION\tSTATUS\tTRAFFIC\tREQUESTS\tERROR RATE\tSTARTED")
		for _, c := range resp.Canaries {
			started := "-"
			if c.TestingStartedAt != nil {
				started = c.TestingStartedAt.Format(time.RFC822)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d%%\t%d\t%.2f%%\t%s\n",
				shortID(c.ID),
				c.Name,
				c.Version,
				c.Status,
				c.TrafficPercentage,
				c.Metrics.RequestCount,
				c.Metrics.ErrorRate*100,
				started,
			)
		}
		return w.Flush()
	},
}

var deploySpecFile string

var deployCanaryCmd = &cobra.Command{
	Use:   "deploy-canary",
	Short: "Deploys a canary model from a JSON deployment file",
	Long: `Deploys a canary model from a JSON deployment file.

The file carries the model name, version, configuration, traffic share,
baseline id, and promotion criteria:

  {
    "name": "gemini-flash-tuned",
    "version": "v2",
    "configuration": {"metrics_url": "http://serving:9100/metrics"},
    "traffic_percentage": 10,
    "baseline_id": "model-v1",
    "promotion_criteria": {"min_request_count": 1000, "max_error_rate": 0.05, "auto_promote": true}
  }`,
	RunE: func(_ *cobra.Command, _ []string) error {
		raw, err := os.ReadFile(deploySpecFile)
		if err != nil {
			return fmt.Errorf("failed to read deployment file: %w", err)
		}
		var body map[string]any
		if err := json.Unmarshal(raw, &body); err != nil {
			return fmt.Errorf("invalid deployment file: %w", err)
		}

		api := newAPIClient()
		var model core.CanaryModel
		if err := api.post(context.Background(), "/api/v1/canaries", body, &model); err != nil {
			return err
		}
		successColor.Printf("Canary %s (%s %s) deployed at %d%% traffic.\n",
			shortID(model.ID), model.Name, model.Version, model.TrafficPercentage)
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	canariesCmd.Flags().StringVar(&canaryStatusFilter, "status", "", "Comma-separated status filter (default: testing,active)")
	canariesCmd.Flags().BoolVar(&outputJSON, "json", false, "Output canaries as JSON")

	deployCanaryCmd.Flags().StringVarP(&deploySpecFile, "file", "f", "", "Path to the canary deployment JSON file")
	_ = deployCanaryCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(canariesCmd, deployCanaryCmd)
}
