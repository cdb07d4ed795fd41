package generate

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"server/internal/providers/openrouter"
)

const enhanceInstruction = "You are an expert website strategist. Rewrite vague user prompts clearly. Detect intent and industry. Don't explain."

var (
	fencedBlockRe = regexp.MustCompile("(?s)```.*?```")
	anyTagRe      = regexp.MustCompile(`</?[^>]+>`)
)

// Enhancer rewrites a vague prompt into a clearer creative brief. It is an
// optimization, not a requirement: every failure degrades to the raw prompt.
type Enhancer struct {
	client Completer
	model  string
	logger zerolog.Logger
}

func NewEnhancer(client Completer, model string, logger zerolog.Logger) *Enhancer {
	return &Enhancer{client: client, model: model, logger: logger}
}

// Enhance returns the rewritten prompt, stripped of fenced code blocks and
// HTML tags the model was told not to emit. On provider failure or an empty
// reply the raw prompt comes back with a degraded marker.
func (e *Enhancer) Enhance(ctx context.Context, rawPrompt string) StageResult {
	out, err := e.client.Complete(ctx, e.model, []openrouter.Message{
		{Role: "system", Content: enhanceInstruction},
		{Role: "user", Content: rawPrompt},
	})
	if err != nil {
		e.logger.Warn().Err(err).Msg("prompt enhancement degraded to raw prompt")
		return degraded(rawPrompt, "provider_error")
	}
	cleaned := fencedBlockRe.ReplaceAllString(out, "")
	cleaned = anyTagRe.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return degraded(rawPrompt, "empty_response")
	}
	return StageResult{Value: cleaned}
}
