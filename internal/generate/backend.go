package generate

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"server/internal/providers/openrouter"
)

// BackendSentinel is the token the model returns when no server-side code is
// needed for the request.
const BackendSentinel = "NO_BACKEND"

const backendInstruction = "You're a full-stack developer.\n" +
	"If the user request requires backend functionality (e.g. form submission, database), generate Express.js backend code.\n" +
	"If NOT needed, return \"" + BackendSentinel + "\"."

// BackendGenerator optionally produces server-side code when the request
// implies dynamic behavior. The sentinel and every failure both collapse to
// an empty value; this stage never fails the pipeline.
type BackendGenerator struct {
	client Completer
	model  string
	logger zerolog.Logger
}

func NewBackendGenerator(client Completer, model string, logger zerolog.Logger) *BackendGenerator {
	return &BackendGenerator{client: client, model: model, logger: logger}
}

// Generate asks the model whether the brief needs backend code and returns
// it, or an empty degraded result when the sentinel appears or the call fails.
func (b *BackendGenerator) Generate(ctx context.Context, enhancedPrompt string) StageResult {
	out, err := b.client.Complete(ctx, b.model, []openrouter.Message{
		{Role: "system", Content: backendInstruction},
		{Role: "user", Content: enhancedPrompt},
	})
	if err != nil {
		b.logger.Warn().Err(err).Msg("backend codegen skipped")
		return degraded("", "provider_error")
	}
	out = strings.TrimSpace(out)
	if out == "" || strings.Contains(out, BackendSentinel) {
		return degraded("", "no_backend")
	}
	return StageResult{Value: out}
}
