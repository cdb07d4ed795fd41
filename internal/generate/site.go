package generate

import (
	"context"
	"fmt"
	"strings"

	"server/internal/domain"
	"server/internal/providers/openrouter"
)

// FallbackImageURL is handed to the model for any image it cannot source.
const FallbackImageURL = "https://images.unsplash.com/photo-1503264116251-35a269479413?auto=format&fit=crop&w=800&q=80"

const createInstruction = `You are a professional web developer. Create a fully structured, modern, and responsive website using HTML, CSS, and JavaScript.

Requirements:
- Visually beautiful UI with sections like header, hero, features, about, contact, footer.
- Responsive layout with clean spacing and mobile-friendly design.
- Include animations, transitions, or interactive elements.
- Use only direct image URLs from https://images.unsplash.com
- Do NOT use placeholder names like "image1.jpg", "banner.png", or relative/local paths.
- If you're unsure, use this fallback image:
  ` + FallbackImageURL + `

Image Tag Requirements:
- All <img> tags MUST have:
  - "src" with a valid Unsplash URL
  - "alt" describing the image
  - responsive class like class="w-full h-auto rounded-md"

Do not explain. Only return:
- HTML (inside full <html> tag)
- CSS (inside <style>)
- JS (inside <script>)`

const editInstructionFormat = `You are an expert frontend developer.

You are given an existing website with its HTML, CSS, and JavaScript.

Your task is to update the website based on the user's new request.

If you remove any section with interactive logic, include updated JS that avoids breaking the website. Return empty <script> if none is needed.

Instructions:
- Modify only the parts needed - DO NOT repeat the full layout, footer, header, or other existing sections.
- If the user says "remove", remove it. If they say "add", insert the new section clearly.
- DO NOT re-declare variables or duplicate classes/IDs.
- DO NOT include explanations - only return code.

Output Format:
- Return ONLY the modified or newly added code.
- Wrap updated HTML in <body> or <section>
- Wrap updated CSS in <style>
- Wrap updated JS in <script>
- If no changes are needed, return an empty string.

Existing HTML:
%s

Existing CSS:
%s

Existing JS:
%s

User Request:
%s`

// SiteGenerator performs the single mandatory provider call of a pipeline
// run. It returns the raw model text unprocessed; interpreting the content
// is artifact extraction's job.
type SiteGenerator struct {
	client Completer
	model  string
}

func NewSiteGenerator(client Completer, model string) *SiteGenerator {
	return &SiteGenerator{client: client, model: model}
}

// Generate calls the model in create mode when the existing page carries no
// content, otherwise in edit mode with the current artifacts inlined and
// delta-only output rules.
func (g *SiteGenerator) Generate(ctx context.Context, enhancedPrompt string, existing domain.Page) (string, error) {
	var messages []openrouter.Message
	if existing.Empty() {
		messages = []openrouter.Message{
			{Role: "system", Content: createInstruction},
			{Role: "user", Content: enhancedPrompt},
		}
	} else {
		instruction := fmt.Sprintf(editInstructionFormat, existing.HTML, existing.CSS, existing.JS, enhancedPrompt)
		messages = []openrouter.Message{{Role: "system", Content: strings.TrimSpace(instruction)}}
	}
	return g.client.Complete(ctx, g.model, messages)
}
