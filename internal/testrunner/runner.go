// Package testrunner executes a project's test command and parses the
// outcome into core.TestResults.
package testrunner

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/sevigo/evo-warden/internal/core"
)

var (
	verdictRe  = regexp.MustCompile(`^--- (PASS|FAIL|SKIP): `)
	coverageRe = regexp.MustCompile(`coverage: (\d+(?:\.\d+)?)% of statements`)
)

// Exec runs tests through the project's test command, "go test" by default.
// The context deadline bounds the whole run.
type Exec struct {
	command []string
	logger  *slog.Logger
}

// NewExec creates a runner. An empty command falls back to "go test -v".
func NewExec(command []string, logger *slog.Logger) *Exec {
	if len(command) == 0 {
		command = []string{"go", "test", "-v"}
	}
	return &Exec{command: command, logger: logger}
}

var _ core.TestRunner = (*Exec)(nil)

// Run executes the named tests in dir. An empty test list runs the whole
// suite. A non-zero exit with parsable failures is reported through the
// results, not as an error; an error means the tests could not be run at all.
func (e *Exec) Run(ctx context.Context, dir string, tests []string) (*core.TestResults, error) {
	args := append([]string(nil), e.command[1:]...)
	if len(tests) > 0 {
		args = append(args, "-run", strings.Join(tests, "|"))
	}
	args = append(args, "./...")

	cmd := exec.CommandContext(ctx, e.command[0], args...)
	cmd.Dir = dir
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	e.logger.Debug("running tests", "dir", dir, "tests", len(tests))
	runErr := cmd.Run()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	results := parseOutput(output.String())
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) && results.Failed+results.Passed > 0 {
			// Test failures exit non-zero; the parsed counts carry the verdict.
			return results, nil
		}
		return nil, runErr
	}
	return results, nil
}

func parseOutput(output string) *core.TestResults {
	results := &core.TestResults{}
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if m := verdictRe.FindStringSubmatch(line); m != nil {
			switch m[1] {
			case "PASS":
				results.Passed++
			case "FAIL":
				results.Failed++
				results.Errors = append(results.Errors, line)
			case "SKIP":
				results.Skipped++
			}
			continue
		}
		if m := coverageRe.FindStringSubmatch(line); m != nil {
			if c, err := strconv.ParseFloat(m[1], 64); err == nil {
				results.Coverage = c
			}
		}
	}
	return results
}
