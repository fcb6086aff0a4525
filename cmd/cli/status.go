package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sevigo/evo-warden/internal/core"
)

var outputJSON bool

// Color definitions
var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	dimColor     = color.New(color.FgHiBlack)
)

type statusResponse struct {
	Settings core.EvolutionSettings `json:"settings"`
	Metrics  core.EvolutionMetrics  `json:"metrics"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Shows the evolution loop status and the latest metrics snapshot",
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx := context.Background()
		api := newAPIClient()

		var status statusResponse
		if err := api.get(ctx, "/api/v1/evolution/status", &status); err != nil {
			return err
		}

		if outputJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(status)
		}

		printStatus(&status)
		return nil
	},
}

func printStatus(status *statusResponse) {
	s := status.Settings
	m := status.Metrics

	titleColor.Printf("Evolution loop for tenant %q\n\n", s.Tenant)

	if s.Enabled {
		successColor.Println("  Enabled")
	} else {
		errorColor.Println("  Disabled")
	}
	if s.Safeguards.EmergencyStop {
		errorColor.Println("  EMERGENCY STOP is engaged")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "\nFEATURE\tON")
	fmt.Fprintf(w, "code analysis\t%t\n", s.Features.CodeAnalysis)
	fmt.Fprintf(w, "auto refactor\t%t\n", s.Features.AutoRefactor)
	fmt.Fprintf(w, "canary testing\t%t\n", s.Features.CanaryTesting)
	fmt.Fprintf(w, "llm reasoning\t%t\n", s.Features.LLMReasoning)
	fmt.Fprintln(w, "\nSAFEGUARD\tVALUE")
	fmt.Fprintf(w, "max daily changes\t%d\n", s.Safeguards.MaxDailyChanges)
	fmt.Fprintf(w, "test coverage threshold\t%.1f%%\n", s.Safeguards.TestCoverageThreshold)
	fmt.Fprintln(w, "\nMETRIC\tVALUE")
	fmt.Fprintf(w, "analysis runs (30d)\t%d\n", m.AnalysisRuns)
	fmt.Fprintf(w, "open findings\t%d\n", m.OpenFindings)
	fmt.Fprintf(w, "executions\t%d total, %d rolled back\n", m.Refactor.TotalExecutions, m.Refactor.RolledBackExecutions)
	fmt.Fprintf(w, "approval rate\t%.0f%%\n", m.ApprovalRate*100)
	fmt.Fprintf(w, "rejection rate\t%.0f%%\n", m.RejectionRate*100)
	fmt.Fprintf(w, "active canaries\t%d\n", m.ActiveCanaries)
	w.Flush()

	dimColor.Printf("\nSnapshot generated %s\n", m.GeneratedAt.Format(time.RFC822))
}

var toggleActor string

var enableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enables the evolution loop",
	RunE:  func(_ *cobra.Command, _ []string) error { return toggle(true) },
}

var disableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disables the evolution loop",
	RunE:  func(_ *cobra.Command, _ []string) error { return toggle(false) },
}

func toggle(enabled bool) error {
	api := newAPIClient()
	body := map[string]any{"enabled": enabled, "actor": toggleActor}
	if err := api.post(context.Background(), "/api/v1/evolution/toggle", body, nil); err != nil {
		return err
	}
	if enabled {
		successColor.Println("Evolution loop enabled.")
	} else {
		warnColor.Println("Evolution loop disabled.")
	}
	return nil
}

var stopReason string

var emergencyStopCmd = &cobra.Command{
	Use:   "emergency-stop",
	Short: "Halts all autonomous activity and rolls back in-flight executions",
	RunE: func(_ *cobra.Command, _ []string) error {
		api := newAPIClient()
		body := map[string]any{"actor": toggleActor, "reason": stopReason}
		if err := api.post(context.Background(), "/api/v1/evolution/emergency-stop", body, nil); err != nil {
			return err
		}
		errorColor.Println("Emergency stop engaged. In-flight executions were rolled back.")
		return nil
	},
}

var analyzeIncremental bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Queues a codebase analysis cycle on the server",
	RunE: func(_ *cobra.Command, _ []string) error {
		api := newAPIClient()
		path := "/api/v1/evolution/analysis/run"
		if analyzeIncremental {
			path += "?mode=incremental"
		}
		if err := api.post(context.Background(), path, map[string]any{}, nil); err != nil {
			return err
		}
		if analyzeIncremental {
			successColor.Println("Incremental analysis queued.")
		} else {
			successColor.Println("Analysis cycle queued.")
		}
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	statusCmd.Flags().BoolVar(&outputJSON, "json", false, "Output status as JSON")

	for _, cmd := range []*cobra.Command{enableCmd, disableCmd, emergencyStopCmd} {
		cmd.Flags().StringVarP(&toggleActor, "actor", "a", "", "Name of the operator performing the action")
		_ = cmd.MarkFlagRequired("actor")
	}
	emergencyStopCmd.Flags().StringVarP(&stopReason, "reason", "r", "", "Why the loop is being halted")
	_ = emergencyStopCmd.MarkFlagRequired("reason")

	analyzeCmd.Flags().BoolVar(&analyzeIncremental, "incremental", false, "Only analyze files changed since the last run")

	rootCmd.AddCommand(statusCmd, enableCmd, disableCmd, emergencyStopCmd, analyzeCmd)
}
