package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sevigo/evo-warden/internal/core"
)

// opsClient is a thin JSON client for the evo-warden ops API.
type opsClient struct {
	base   string
	client *http.Client
}

func newOpsClient(base string) *opsClient {
	return &opsClient{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *opsClient) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *opsClient) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *opsClient) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		payload = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, payload)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("server unreachable at %s: %w", c.base, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func loadStatusCmd(client *opsClient) tea.Cmd {
	return func() tea.Msg {
		var resp struct {
			Settings core.EvolutionSettings `json:"settings"`
			Metrics  core.EvolutionMetrics  `json:"metrics"`
		}
		if err := client.get(context.Background(), "/api/v1/evolution/status", &resp); err != nil {
			return statusLoadedMsg{err: err}
		}
		return statusLoadedMsg{settings: resp.Settings, metrics: resp.Metrics}
	}
}

func loadSuggestionsCmd(client *opsClient, limit int) tea.Cmd {
	return func() tea.Msg {
		var resp struct {
			Suggestions []core.Suggestion `json:"suggestions"`
		}
		path := fmt.Sprintf("/api/v1/suggestions/pending?limit=%d", limit)
		if err := client.get(context.Background(), path, &resp); err != nil {
			return suggestionsLoadedMsg{err: err}
		}
		return suggestionsLoadedMsg{suggestions: resp.Suggestions}
	}
}

func loadCanariesCmd(client *opsClient) tea.Cmd {
	return func() tea.Msg {
		var resp struct {
			Canaries []core.CanaryModel `json:"canaries"`
		}
		if err := client.get(context.Background(), "/api/v1/canaries", &resp); err != nil {
			return canariesLoadedMsg{err: err}
		}
		return canariesLoadedMsg{canaries: resp.Canaries}
	}
}

func loadEventsCmd(client *opsClient, limit int) tea.Cmd {
	return func() tea.Msg {
		var resp struct {
			Events []core.EvolutionEvent `json:"events"`
		}
		path := fmt.Sprintf("/api/v1/evolution/events?limit=%d", limit)
		if err := client.get(context.Background(), path, &resp); err != nil {
			return eventsLoadedMsg{err: err}
		}
		return eventsLoadedMsg{events: resp.Events}
	}
}

func submitFeedbackCmd(client *opsClient, id string, action core.FeedbackAction, user string) tea.Cmd {
	return func() tea.Msg {
		body := map[string]any{
			"user_id": user,
			"action":  string(action),
			"rating":  3,
		}
		path := fmt.Sprintf("/api/v1/suggestions/%s/feedback", id)
		if err := client.post(context.Background(), path, body, nil); err != nil {
			return actionDoneMsg{err: err}
		}
		if action == core.FeedbackApproved {
			return actionDoneMsg{text: fmt.Sprintf("✓ Suggestion %s approved. Execution is scheduled.", id)}
		}
		return actionDoneMsg{text: fmt.Sprintf("✓ Suggestion %s rejected.", id)}
	}
}

func toggleCmd(client *opsClient, enabled bool, user string) tea.Cmd {
	return func() tea.Msg {
		body := map[string]any{"enabled": enabled, "actor": user}
		if err := client.post(context.Background(), "/api/v1/evolution/toggle", body, nil); err != nil {
			return actionDoneMsg{err: err}
		}
		if enabled {
			return actionDoneMsg{text: "✓ Evolution loop enabled."}
		}
		return actionDoneMsg{text: "✓ Evolution loop disabled."}
	}
}

func emergencyStopCmd(client *opsClient, user, reason string) tea.Cmd {
	return func() tea.Msg {
		body := map[string]any{"actor": user, "reason": reason}
		if err := client.post(context.Background(), "/api/v1/evolution/emergency-stop", body, nil); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{text: "⛔ EMERGENCY STOP engaged. In-flight executions rolled back."}
	}
}

func runAnalysisCmd(client *opsClient) tea.Cmd {
	return func() tea.Msg {
		if err := client.post(context.Background(), "/api/v1/evolution/analysis/run", map[string]any{}, nil); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{text: "✓ Analysis cycle queued."}
	}
}
