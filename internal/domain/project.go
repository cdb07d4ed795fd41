package domain

import "time"

// HomePage is the single page key populated by the current design. The
// pages mapping anticipates multi-page projects.
const HomePage = "home"

// Page holds the generated artifacts for one page together with the prompt
// that produced them.
type Page struct {
	Prompt         string `json:"prompt"`
	EnhancedPrompt string `json:"enhanced_prompt"`
	HTML           string `json:"html"`
	CSS            string `json:"css"`
	JS             string `json:"js"`
}

// Empty reports whether the page carries no content at all. An empty page
// must never be treated as a successful generation.
func (p Page) Empty() bool {
	return p.HTML == "" && p.CSS == "" && p.JS == ""
}

// Project is a website project document owned by a user.
type Project struct {
	ID              string
	UserID          string
	Prompt          string
	Pages           map[string]Page
	BackendCode     string
	GenerationCount int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Home returns the home page, or a zero Page when none exists yet.
func (p *Project) Home() Page {
	if p == nil || p.Pages == nil {
		return Page{}
	}
	return p.Pages[HomePage]
}

// ChatMessage is one entry of the advisory progress trace the pipeline
// appends to a project for UI consumption.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	TS      int64  `json:"ts"`
}

// GenerationRequest is the transient value object for one pipeline run.
type GenerationRequest struct {
	Prompt    string
	UserID    string
	ProjectID string
}

// GenerationResult is what a finished pipeline run reports back, including
// the no-content outcome where every artifact is empty.
type GenerationResult struct {
	Message        string
	HTML           string
	CSS            string
	JS             string
	EnhancedPrompt string
	BackendCode    string
	NoContent      bool
}
