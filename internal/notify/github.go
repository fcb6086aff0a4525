// Package notify escalates situations that need a human by opening GitHub
// issues on the project's repository.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"

	"github.com/sevigo/evo-warden/internal/core"
)

// IssueCreator is the slice of the GitHub API the notifier needs.
//
//go:generate mockgen -destination=../../mocks/mock_issuecreator.go -package=mocks . IssueCreator
type IssueCreator interface {
	CreateIssue(ctx context.Context, owner, repo, title, body string, labels []string) error
}

type gitHubClient struct {
	client *github.Client
	logger *slog.Logger
}

// NewPATClient creates an IssueCreator authenticated with a personal access
// token.
func NewPATClient(ctx context.Context, token string, logger *slog.Logger) IssueCreator {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	return &gitHubClient{client: github.NewClient(tc), logger: logger}
}

func (g *gitHubClient) CreateIssue(ctx context.Context, owner, repo, title, body string, labels []string) error {
	req := &github.IssueRequest{
		Title:  &title,
		Body:   &body,
		Labels: &labels,
	}
	issue, _, err := g.client.Issues.Create(ctx, owner, repo, req)
	if err != nil {
		return fmt.Errorf("failed to create issue: %w", err)
	}
	g.logger.Info("escalation issue created", "issue", issue.GetNumber(), "title", title)
	return nil
}

// GitHubNotifier implements core.Notifier by filing issues on the configured
// repository.
type GitHubNotifier struct {
	issues IssueCreator
	owner  string
	repo   string
	logger *slog.Logger
}

// NewGitHubNotifier creates the notifier.
func NewGitHubNotifier(issues IssueCreator, owner, repo string, logger *slog.Logger) *GitHubNotifier {
	return &GitHubNotifier{issues: issues, owner: owner, repo: repo, logger: logger}
}

var _ core.Notifier = (*GitHubNotifier)(nil)

// NotifyManualReview files an issue asking for sign-off on a canary that met
// its criteria but requires manual approval.
func (n *GitHubNotifier) NotifyManualReview(ctx context.Context, model *core.CanaryModel, cmp *core.ModelComparison) error {
	title := fmt.Sprintf("Canary %s %s needs manual review", model.Name, model.Version)

	var b strings.Builder
	fmt.Fprintf(&b, "Canary `%s` (%s, %d%% traffic) met its promotion criteria and is waiting for sign-off.\n\n", model.Name, model.Version, model.TrafficPercentage)
	if cmp != nil {
		fmt.Fprintf(&b, "Recommendation: **%s** (confidence %.2f)\n\n", cmp.Recommendation, cmp.Confidence)
		for _, r := range cmp.Reasoning {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}
	fmt.Fprintf(&b, "\nCanary ID: `%s`\n", model.ID)

	return n.issues.CreateIssue(ctx, n.owner, n.repo, title, b.String(), []string{"evo-warden", "canary-review"})
}

// NotifyEmergencyStop files an issue announcing that the loop was halted.
func (n *GitHubNotifier) NotifyEmergencyStop(ctx context.Context, tenant, reason, actor string) error {
	title := fmt.Sprintf("Emergency stop engaged for %s", tenant)
	body := fmt.Sprintf(
		"The evolution loop for tenant `%s` was halted by `%s`.\n\nReason: %s\n\nAll in-flight executions were rolled back. Clear the emergency stop flag to resume.\n",
		tenant, actor, reason)
	return n.issues.CreateIssue(ctx, n.owner, n.repo, title, body, []string{"evo-warden", "emergency-stop"})
}
