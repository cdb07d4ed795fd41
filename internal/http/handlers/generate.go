package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"server/internal/domain"
)

type generateRequest struct {
	Prompt    string `json:"prompt"`
	UserID    string `json:"userId"`
	ProjectID string `json:"projectId"`
}

type generateResponse struct {
	Message        string `json:"message"`
	HTML           string `json:"html"`
	CSS            string `json:"css"`
	JS             string `json:"js"`
	EnhancedPrompt string `json:"enhanced_prompt"`
	BackendCode    string `json:"backend_code,omitempty"`
}

// Generate accepts a prompt and returns the generated site artifacts. Quota,
// enhancement, generation and persistence all run inside the pipeline; this
// handler only translates between HTTP and pipeline errors.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "Missing prompt, userId, or projectId")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" || strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.ProjectID) == "" {
		a.error(w, http.StatusBadRequest, "Missing prompt, userId, or projectId")
		return
	}

	result, err := a.Pipeline.Run(r.Context(), domain.GenerationRequest{
		Prompt:    req.Prompt,
		UserID:    req.UserID,
		ProjectID: req.ProjectID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			a.error(w, http.StatusBadRequest, "Missing prompt, userId, or projectId")
		case errors.Is(err, domain.ErrUserNotFound):
			a.error(w, http.StatusNotFound, "User not found")
		case errors.Is(err, domain.ErrProjectNotFound):
			a.error(w, http.StatusNotFound, "Project not found")
		case errors.Is(err, domain.ErrQuotaExceeded):
			a.error(w, http.StatusForbidden, "Daily prompt limit reached for your plan.")
		case errors.Is(err, domain.ErrRateLimited):
			a.error(w, http.StatusTooManyRequests, "Our servers are in maintenance mode. Please come back after 12:00 AM IST.")
		default:
			a.Logger.Error().Err(err).Str("user_id", req.UserID).Str("project_id", req.ProjectID).Msg("generation failed")
			a.error(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	a.json(w, http.StatusOK, generateResponse{
		Message:        result.Message,
		HTML:           result.HTML,
		CSS:            result.CSS,
		JS:             result.JS,
		EnhancedPrompt: result.EnhancedPrompt,
		BackendCode:    result.BackendCode,
	})
}
