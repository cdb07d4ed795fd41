package generate

import (
	"context"

	"server/internal/providers/openrouter"
)

// Completer is the slice of the provider client the stages depend on.
type Completer interface {
	Complete(ctx context.Context, model string, messages []openrouter.Message) (string, error)
}

// StageResult carries a degradable stage's output together with a marker, so
// callers can tell "model said X" from "stage fell back to its default"
// without using errors for control flow.
type StageResult struct {
	Value    string
	Degraded bool
	Reason   string
}

func degraded(value, reason string) StageResult {
	return StageResult{Value: value, Degraded: true, Reason: reason}
}
