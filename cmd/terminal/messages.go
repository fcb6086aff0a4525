package main

import (
	"github.com/sevigo/evo-warden/internal/core"
)

// Indicates that the evolution status snapshot has been fetched.
type statusLoadedMsg struct {
	settings core.EvolutionSettings
	metrics  core.EvolutionMetrics
	err      error
}

type suggestionsLoadedMsg struct {
	suggestions []core.Suggestion
	err         error
}

type canariesLoadedMsg struct {
	canaries []core.CanaryModel
	err      error
}

type eventsLoadedMsg struct {
	events []core.EvolutionEvent
	err    error
}

// Reports the outcome of a mutating command (toggle, feedback, stop, analyze).
type actionDoneMsg struct {
	text string
	err  error
}

// A generic error message for reporting failures from commands.
type errorMsg struct{ err error }

func (e errorMsg) Error() string {
	return e.err.Error()
}
