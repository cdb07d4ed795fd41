package generate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"server/internal/artifact"
	"server/internal/domain"
	"server/internal/providers/openrouter"
	"server/internal/quota"
)

// State names a pipeline stage for logging and progress reporting.
type State string

const (
	StateQuotaCheck     State = "quota_check"
	StateEnhancing      State = "enhancing"
	StateGenerating     State = "generating"
	StateExtracting     State = "extracting"
	StateMerging        State = "merging"
	StateBackendCodegen State = "backend_codegen"
	StatePersisting     State = "persisting"
	StateDone           State = "done"
)

const defaultCallTimeout = 90 * time.Second

// Pipeline sequences one generation run: quota gate, prompt enhancement,
// site generation, artifact extraction, patch merging, optional backend
// codegen and the final persistence write. Runs for the same (user, project)
// pair are serialized; stages within a run are strictly ordered.
type Pipeline struct {
	users    domain.UserStore
	projects domain.ProjectStore
	ledger   *quota.Ledger
	enhancer *Enhancer
	sites    *SiteGenerator
	backends *BackendGenerator
	logger   zerolog.Logger

	// CallTimeout bounds each provider call; a run never holds its project
	// lock longer than one stage at a time plus this bound.
	CallTimeout time.Duration

	locks keyedMutex
}

// PipelineOptions wires a Pipeline's collaborators.
type PipelineOptions struct {
	Users       domain.UserStore
	Projects    domain.ProjectStore
	Ledger      *quota.Ledger
	Enhancer    *Enhancer
	Sites       *SiteGenerator
	Backends    *BackendGenerator
	Logger      zerolog.Logger
	CallTimeout time.Duration
}

func NewPipeline(opts PipelineOptions) *Pipeline {
	timeout := opts.CallTimeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return &Pipeline{
		users:       opts.Users,
		projects:    opts.Projects,
		ledger:      opts.Ledger,
		enhancer:    opts.Enhancer,
		sites:       opts.Sites,
		backends:    opts.Backends,
		logger:      opts.Logger,
		CallTimeout: timeout,
	}
}

// Run executes one generation request end to end. Quota denial short-circuits
// before any provider call; enhancement and backend codegen degrade silently;
// site generation and persistence failures abort the run.
func (p *Pipeline) Run(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	if req.Prompt == "" || req.UserID == "" || req.ProjectID == "" {
		return nil, fmt.Errorf("%w: missing prompt, userId, or projectId", domain.ErrInvalidRequest)
	}

	unlock := p.locks.lock(req.UserID + "/" + req.ProjectID)
	defer unlock()

	log := p.logger.With().Str("user_id", req.UserID).Str("project_id", req.ProjectID).Logger()

	user, err := p.users.Get(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("state", string(StateQuotaCheck)).Str("plan", string(user.Plan)).Msg("pipeline stage")
	if err := p.ledger.Admit(ctx, user); err != nil {
		return nil, err
	}

	project, err := p.projects.Get(ctx, req.UserID, req.ProjectID)
	if err != nil {
		return nil, err
	}
	existing := project.Home()

	log.Debug().Str("state", string(StateEnhancing)).Msg("pipeline stage")
	p.trace(ctx, req, "Enhancing your prompt for best results.")
	enhanced := p.enhance(ctx, req.Prompt)
	if !enhanced.Degraded {
		p.trace(ctx, req, "Enhanced prompt:\n"+enhanced.Value)
	}

	log.Debug().Str("state", string(StateGenerating)).Bool("edit_mode", !existing.Empty()).Msg("pipeline stage")
	p.trace(ctx, req, "Generating your website. This may take 1-2 minutes for best quality.")
	raw, err := p.generateSite(ctx, enhanced.Value, existing)
	if err != nil {
		if errors.Is(err, openrouter.ErrRateLimited) {
			return nil, fmt.Errorf("site generation: %w", domain.ErrRateLimited)
		}
		return nil, fmt.Errorf("site generation: %w: %v", domain.ErrProviderFailure, err)
	}

	log.Debug().Str("state", string(StateExtracting)).Msg("pipeline stage")
	bundle := artifact.Extract(raw)
	bundle.JS = artifact.SanitizeJS(bundle.JS)

	if bundle.Empty() {
		// Mechanically fulfilled, nothing usable produced. Reported as a
		// success with explicit empty fields, never as an error; nothing is
		// persisted over the existing page.
		log.Info().Str("state", string(StateDone)).Msg("generation produced no usable content")
		return &domain.GenerationResult{
			Message:        "No valid content generated",
			EnhancedPrompt: enhanced.Value,
			NoContent:      true,
		}, nil
	}

	log.Debug().Str("state", string(StateMerging)).Msg("pipeline stage")
	html := bundle.HTML
	switch {
	case existing.HTML != "" && artifact.IsFragment(html):
		html = artifact.Merge(existing.HTML, html)
	case html == "":
		html = existing.HTML
	}

	log.Debug().Str("state", string(StateBackendCodegen)).Msg("pipeline stage")
	backend := p.generateBackend(ctx, enhanced.Value)

	log.Debug().Str("state", string(StatePersisting)).Msg("pipeline stage")
	page := domain.Page{
		Prompt:         req.Prompt,
		EnhancedPrompt: enhanced.Value,
		HTML:           html,
		CSS:            bundle.CSS,
		JS:             bundle.JS,
	}
	if err := p.projects.SaveGeneration(ctx, req.UserID, req.ProjectID, page, backend.Value); err != nil {
		return nil, fmt.Errorf("persist generation: %w", err)
	}
	p.trace(ctx, req, "Your website is ready!")

	log.Info().Str("state", string(StateDone)).Int("html_bytes", len(html)).Msg("generation finished")
	return &domain.GenerationResult{
		Message:        "Website generated successfully",
		HTML:           html,
		CSS:            bundle.CSS,
		JS:             bundle.JS,
		EnhancedPrompt: enhanced.Value,
		BackendCode:    backend.Value,
	}, nil
}

func (p *Pipeline) enhance(ctx context.Context, prompt string) StageResult {
	callCtx, cancel := context.WithTimeout(ctx, p.CallTimeout)
	defer cancel()
	return p.enhancer.Enhance(callCtx, prompt)
}

func (p *Pipeline) generateSite(ctx context.Context, enhancedPrompt string, existing domain.Page) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.CallTimeout)
	defer cancel()
	return p.sites.Generate(callCtx, enhancedPrompt, existing)
}

func (p *Pipeline) generateBackend(ctx context.Context, enhancedPrompt string) StageResult {
	callCtx, cancel := context.WithTimeout(ctx, p.CallTimeout)
	defer cancel()
	return p.backends.Generate(callCtx, enhancedPrompt)
}

// trace appends a progress message to the project record for UI consumption.
// The trace is advisory; append failures only get logged.
func (p *Pipeline) trace(ctx context.Context, req domain.GenerationRequest, content string) {
	msg := domain.ChatMessage{Role: "assistant", Content: content, TS: time.Now().UnixMilli()}
	if err := p.projects.AppendTrace(ctx, req.UserID, req.ProjectID, msg); err != nil {
		p.logger.Debug().Err(err).Msg("progress trace append failed")
	}
}
