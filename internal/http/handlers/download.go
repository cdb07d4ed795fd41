package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"server/internal/domain"
	"server/internal/export"
)

// Download streams the project as a zip archive. Free users are refused;
// download and extra plans get a single archive before the counter locks
// them out, premium is unmetered.
func (a *App) Download(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	projectID := r.URL.Query().Get("projectId")
	if userID == "" || projectID == "" {
		a.error(w, http.StatusBadRequest, "Missing userId or projectId")
		return
	}

	user, err := a.Users.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			a.error(w, http.StatusNotFound, "User not found")
			return
		}
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("download: load user")
		a.error(w, http.StatusInternalServerError, "Failed to generate download")
		return
	}

	if user.IsFree() {
		a.error(w, http.StatusForbidden, "Free users cannot download projects")
		return
	}
	metered := user.Plan == domain.PlanDownload || user.Plan == domain.PlanExtra
	if metered && user.DownloadUsed >= 1 {
		a.error(w, http.StatusForbidden, "Download limit reached for your plan")
		return
	}

	project, err := a.Projects.Get(r.Context(), userID, projectID)
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			a.error(w, http.StatusNotFound, "Project not found")
			return
		}
		a.Logger.Error().Err(err).Str("project_id", projectID).Msg("download: load project")
		a.error(w, http.StatusInternalServerError, "Failed to generate download")
		return
	}
	if len(project.Pages) == 0 {
		a.error(w, http.StatusNotFound, "Project data incomplete")
		return
	}

	if metered {
		if err := a.Users.IncrementDownloadUsed(r.Context(), userID); err != nil {
			a.Logger.Error().Err(err).Str("user_id", userID).Msg("download: record usage")
			a.error(w, http.StatusInternalServerError, "Failed to generate download")
			return
		}
	}

	archive, err := export.Bundle(project)
	if err != nil {
		a.Logger.Error().Err(err).Str("project_id", projectID).Msg("download: build archive")
		a.error(w, http.StatusInternalServerError, "Failed to generate download")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", "attachment; filename="+export.ArchiveFilename)
	w.Header().Set("Content-Length", strconv.Itoa(len(archive)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}
