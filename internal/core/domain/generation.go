package domain

import "strings"

// GenerationOutcome classifies how a contextual-response request ended
type GenerationOutcome string

const (
	// OutcomeCompleted - the provider answered and the reply was persisted
	OutcomeCompleted GenerationOutcome = "completed"

	// OutcomeStopped - a stop signal short-circuited the request
	OutcomeStopped GenerationOutcome = "stopped"

	// OutcomeCancelled - the caller aborted the in-flight generation
	OutcomeCancelled GenerationOutcome = "cancelled"

	// OutcomeDegraded - the provider failed and a canned fallback was returned
	OutcomeDegraded GenerationOutcome = "degraded"
)

// GenerationResult is the outcome of a contextual-response request
type GenerationResult struct {
	Text       string            `json:"text"`
	Outcome    GenerationOutcome `json:"outcome"`
	TokensUsed int               `json:"tokens_used,omitempty"`
}

// stopKeywords halt an autonomous or looping interaction cheaply and
// deterministically, without a provider call.
var stopKeywords = []string{"stop", "end", "quit", "exit", "terminate", "halt"}

// IsStopSignal reports whether the query asks the assistant to stop.
// Matching is a lowercase substring check over a fixed keyword set.
func IsStopSignal(query string) bool {
	q := strings.ToLower(query)
	for _, kw := range stopKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}
