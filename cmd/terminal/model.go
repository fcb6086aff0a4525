package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sevigo/evo-warden/internal/core"
)

const asciiLogo = `
╔══════════════════════════════════════════════════════════════════════╗
║                                                                      ║
║      ███████╗██╗   ██╗ ██████╗     ██╗    ██╗ █████╗ ██████╗         ║
║      ██╔════╝██║   ██║██╔═══██╗    ██║    ██║██╔══██╗██╔══██╗        ║
║      █████╗  ██║   ██║██║   ██║    ██║ █╗ ██║███████║██████╔╝        ║
║      ██╔══╝  ╚██╗ ██╔╝██║   ██║    ██║███╗██║██╔══██║██╔══██╗        ║
║      ███████╗ ╚████╔╝ ╚██████╔╝    ╚███╔███╔╝██║  ██║██║  ██║        ║
║      ╚══════╝  ╚═══╝   ╚═════╝      ╚══╝╚══╝ ╚═╝  ╚═╝╚═╝  ╚═╝        ║
║                                                                      ║
║                 AUTONOMOUS CODE EVOLUTION CONSOLE                    ║
║                                                                      ║
╚══════════════════════════════════════════════════════════════════════╝
`

type model struct {
	styles styles
	client *opsClient
	user   string

	// UI Components
	viewport  viewport.Model
	textarea  textarea.Model
	spinner   spinner.Model
	isLoading bool

	// Session State
	settings *core.EvolutionSettings
	metrics  *core.EvolutionMetrics
	history  []string
}

func initialModel(theme ThemeName, client *opsClient, user string) *model {
	styles := GetTheme(theme)
	ta := textarea.New()
	ta.Placeholder = "Enter command, e.g. /status ..."
	ta.Focus()
	ta.Prompt = styles.prompt.Render("► ")
	ta.CharLimit = 500
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = styles.prompt

	return &model{
		styles:    styles,
		client:    client,
		user:      user,
		textarea:  ta,
		spinner:   sp,
		isLoading: true,
		history:   []string{styles.ascii.Render(asciiLogo), "", "⚙ CONNECTING TO EVO-WARDEN..."},
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(loadStatusCmd(m.client), m.spinner.Tick)
}

func (m *model) appendHistory(lines ...string) {
	m.history = append(m.history, lines...)
	m.viewport.SetContent(strings.Join(m.history, "\n"))
	m.viewport.GotoBottom()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	m.spinner, spCmd = m.spinner.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.Reset()
			return m, m.processCommand(input)
		}

	case statusLoadedMsg:
		m.isLoading = false
		if msg.err != nil {
			m.appendHistory("", m.styles.error.Render("⚠ "+msg.err.Error()))
			return m, nil
		}
		first := m.settings == nil
		m.settings = &msg.settings
		m.metrics = &msg.metrics
		if first {
			m.appendHistory("", m.styles.success.Render("✓ CONNECTED"), "", "Type /help for commands.")
		}
		m.appendHistory("", m.renderStatus())
		return m, nil

	case suggestionsLoadedMsg:
		m.isLoading = false
		if msg.err != nil {
			m.appendHistory("", m.styles.error.Render("⚠ "+msg.err.Error()))
			return m, nil
		}
		m.appendHistory("", m.renderSuggestions(msg.suggestions))
		return m, nil

	case canariesLoadedMsg:
		m.isLoading = false
		if msg.err != nil {
			m.appendHistory("", m.styles.error.Render("⚠ "+msg.err.Error()))
			return m, nil
		}
		m.appendHistory("", m.renderCanaries(msg.canaries))
		return m, nil

	case eventsLoadedMsg:
		m.isLoading = false
		if msg.err != nil {
			m.appendHistory("", m.styles.error.Render("⚠ "+msg.err.Error()))
			return m, nil
		}
		m.appendHistory("", m.renderEvents(msg.events))
		return m, nil

	case actionDoneMsg:
		m.isLoading = false
		if msg.err != nil {
			m.appendHistory("", m.styles.error.Render("⚠ "+msg.err.Error()))
			return m, nil
		}
		m.appendHistory("", m.styles.success.Render(msg.text))
		// Refresh the status line after any mutating action.
		return m, loadStatusCmd(m.client)

	case errorMsg:
		m.isLoading = false
		m.appendHistory("", m.styles.error.Render("⚠ "+msg.err.Error()))
		return m, nil

	case tea.WindowSizeMsg:
		m.styles.header.Width(msg.Width - 4)
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 10
		m.textarea.SetWidth(msg.Width - 10)
		m.viewport.SetContent(strings.Join(m.history, "\n"))
	}

	return m, tea.Batch(tiCmd, vpCmd, spCmd)
}

func (m *model) View() string {
	if m.settings == nil && m.isLoading {
		return fmt.Sprintf("\n  %s CONNECTING...\n\n", m.spinner.View())
	}

	var statusParts []string
	if m.settings != nil {
		statusParts = append(statusParts, fmt.Sprintf("TENANT: %s", m.settings.Tenant))
		if m.settings.Safeguards.EmergencyStop {
			statusParts = append(statusParts, m.styles.error.Render("⛔ EMERGENCY STOP"))
		} else if m.settings.Enabled {
			statusParts = append(statusParts, m.styles.success.Render("● RUNNING"))
		} else {
			statusParts = append(statusParts, m.styles.inactive.Render("○ DISABLED"))
		}
	}
	if m.metrics != nil {
		statusParts = append(statusParts, fmt.Sprintf("FINDINGS: %d", m.metrics.OpenFindings))
		statusParts = append(statusParts, fmt.Sprintf("CANARIES: %d", m.metrics.ActiveCanaries))
	}
	statusParts = append(statusParts, fmt.Sprintf("USER: %s", m.user))

	status := m.styles.inactive.Render(strings.Join(statusParts, " │ "))

	var loadingIndicator string
	if m.isLoading {
		loadingIndicator = " " + m.spinner.View() + " " + m.styles.success.Render("WORKING...")
	}

	return m.styles.app.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.styles.viewport.Render(m.viewport.View()),
			"",
			m.styles.footer.Render(
				lipgloss.JoinHorizontal(lipgloss.Left,
					m.textarea.View(),
					loadingIndicator,
				),
			),
			status,
		),
	)
}

func (m *model) renderStatus() string {
	var b strings.Builder
	s := m.settings
	b.WriteString(m.styles.success.Render("EVOLUTION STATUS"))
	b.WriteString(fmt.Sprintf("\n  enabled: %t", s.Enabled))
	b.WriteString(fmt.Sprintf("\n  features: analysis=%t refactor=%t canary=%t llm=%t",
		s.Features.CodeAnalysis, s.Features.AutoRefactor, s.Features.CanaryTesting, s.Features.LLMReasoning))
	b.WriteString(fmt.Sprintf("\n  safeguards: max_daily=%d coverage_min=%.1f%% emergency_stop=%t",
		s.Safeguards.MaxDailyChanges, s.Safeguards.TestCoverageThreshold, s.Safeguards.EmergencyStop))
	if m.metrics != nil {
		mt := m.metrics
		b.WriteString(fmt.Sprintf("\n  last 30d: %d analysis runs, %d open findings, %d executions (%d rolled back)",
			mt.AnalysisRuns, mt.OpenFindings, mt.Refactor.TotalExecutions, mt.Refactor.RolledBackExecutions))
		b.WriteString(fmt.Sprintf("\n  approval %.0f%% / rejection %.0f%%", mt.ApprovalRate*100, mt.RejectionRate*100))
	}
	return b.String()
}

func (m *model) renderSuggestions(suggestions []core.Suggestion) string {
	if len(suggestions) == 0 {
		return m.styles.inactive.Render("No pending suggestions.")
	}
	var b strings.Builder
	b.WriteString(m.styles.success.Render(fmt.Sprintf("PENDING SUGGESTIONS (%d)", len(suggestions))))
	for _, s := range suggestions {
		b.WriteString(fmt.Sprintf("\n  %s  [%s] %s",
			m.styles.prompt.Render(shortID(s.ID)),
			s.Priority,
			s.Title,
		))
		b.WriteString(m.styles.inactive.Render(fmt.Sprintf("\n      %s · confidence %.2f · %s", s.Type, s.Confidence, s.AutomationLevel)))
	}
	b.WriteString("\n\n" + m.styles.inactive.Render("Use '/approve [id]' or '/reject [id]'."))
	return b.String()
}

func (m *model) renderCanaries(canaries []core.CanaryModel) string {
	if len(canaries) == 0 {
		return m.styles.inactive.Render("No active canaries.")
	}
	var b strings.Builder
	b.WriteString(m.styles.success.Render(fmt.Sprintf("CANARIES (%d)", len(canaries))))
	for _, c := range canaries {
		started := "-"
		if c.TestingStartedAt != nil {
			started = c.TestingStartedAt.Format(time.RFC822)
		}
		b.WriteString(fmt.Sprintf("\n  %s  %s %s [%s] %d%% traffic",
			m.styles.prompt.Render(shortID(c.ID)), c.Name, c.Version, c.Status, c.TrafficPercentage))
		b.WriteString(m.styles.inactive.Render(fmt.Sprintf("\n      %d requests · %.2f%% errors · since %s",
			c.Metrics.RequestCount, c.Metrics.ErrorRate*100, started)))
	}
	return b.String()
}

func (m *model) renderEvents(events []core.EvolutionEvent) string {
	if len(events) == 0 {
		return m.styles.inactive.Render("No recorded events.")
	}
	var b strings.Builder
	b.WriteString(m.styles.success.Render(fmt.Sprintf("RECENT EVENTS (%d)", len(events))))
	for _, e := range events {
		line := fmt.Sprintf("\n  %s  [%s] %s", e.CreatedAt.Format("Jan 02 15:04"), e.Severity, e.Title)
		switch e.Severity {
		case core.SeverityCritical:
			b.WriteString(m.styles.error.Render(line))
		case core.SeverityWarning:
			b.WriteString(m.styles.prompt.Render(line))
		default:
			b.WriteString(line)
		}
		if e.Description != "" {
			b.WriteString(m.styles.inactive.Render("\n      " + e.Description))
		}
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (m *model) processCommand(input string) tea.Cmd {
	m.appendHistory(m.styles.prompt.Render("► ") + input)

	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}
	command := parts[0]
	args := parts[1:]

	switch command {
	case "/status", "/s":
		m.isLoading = true
		return tea.Batch(m.spinner.Tick, loadStatusCmd(m.client))

	case "/suggestions", "/ls":
		m.isLoading = true
		return tea.Batch(m.spinner.Tick, loadSuggestionsCmd(m.client, 20))

	case "/approve", "/reject":
		if len(args) != 1 {
			m.appendHistory(m.styles.error.Render(fmt.Sprintf("USAGE: %s [suggestion-id]", command)))
			return nil
		}
		action := core.FeedbackApproved
		if command == "/reject" {
			action = core.FeedbackRejected
		}
		m.isLoading = true
		return tea.Batch(m.spinner.Tick, submitFeedbackCmd(m.client, args[0], action, m.user))

	case "/canaries", "/c":
		m.isLoading = true
		return tea.Batch(m.spinner.Tick, loadCanariesCmd(m.client))

	case "/events", "/e":
		m.isLoading = true
		return tea.Batch(m.spinner.Tick, loadEventsCmd(m.client, 25))

	case "/analyze":
		m.isLoading = true
		return tea.Batch(m.spinner.Tick, runAnalysisCmd(m.client))

	case "/enable":
		m.isLoading = true
		return tea.Batch(m.spinner.Tick, toggleCmd(m.client, true, m.user))

	case "/disable":
		m.isLoading = true
		return tea.Batch(m.spinner.Tick, toggleCmd(m.client, false, m.user))

	case "/stop":
		if len(args) == 0 {
			m.appendHistory(m.styles.error.Render("USAGE: /stop [reason]"))
			return nil
		}
		m.isLoading = true
		return tea.Batch(m.spinner.Tick, emergencyStopCmd(m.client, m.user, strings.Join(args, " ")))

	case "/help", "/h":
		helpText := m.styles.success.Render("AVAILABLE COMMANDS:") + `

  /status, /s          Show the evolution loop status and metrics.
  /suggestions, /ls    List pending refactoring suggestions.
  /approve [id]        Approve a suggestion; schedules its execution.
  /reject [id]         Reject a suggestion.
  /canaries, /c        List canary model deployments.
  /events, /e          Show the recent evolution event log.
  /analyze             Queue a full codebase analysis cycle.
  /enable, /disable    Toggle the evolution loop.
  /stop [reason]       Engage the emergency stop.
  /help                Show this help message.
  /exit, /quit         Exit the console.`
		m.appendHistory("", helpText)
		return nil

	case "/exit", "/quit":
		return tea.Quit

	default:
		m.appendHistory("", m.styles.error.Render(fmt.Sprintf("UNKNOWN COMMAND: %s", command)), m.styles.inactive.Render("Type /help for assistance."))
		return nil
	}
}
