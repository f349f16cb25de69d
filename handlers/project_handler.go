package handlers

import (
	"net/http"
	"strconv"

	"projecthub/microservices/progress-service/logging"
	"projecthub/microservices/progress-service/models"
	"projecthub/microservices/progress-service/services/commands"
	"projecthub/microservices/progress-service/services/queries"
)

func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	views, err := (&queries.ListProjectsQuery{Identity: identity(r), Deps: h.Queries}).Execute(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	project, err := (&queries.GetProjectQuery{Identity: identity(r), ProjectID: id, Deps: h.Queries}).Execute(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var in models.ProjectInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	project, err := commands.NewProjectHandler(h.Commands, h.Forget).Create(r.Context(), commands.CreateProjectCommand{Identity: identity(r), Input: in})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in models.ProjectInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	project, err := commands.NewProjectHandler(h.Commands, h.Forget).Update(r.Context(), commands.UpdateProjectCommand{Identity: identity(r), ProjectID: id, Input: in})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := commands.NewProjectHandler(h.Commands, h.Forget).Delete(r.Context(), commands.DeleteProjectCommand{Identity: identity(r), ProjectID: id}); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetProjectProgress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	progress, err := (&queries.GetProjectProgressQuery{Identity: identity(r), ProjectID: id, Deps: h.Queries}).Execute(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (h *Handler) RecomputeProgress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	progress, err := (&queries.RecomputeProgressQuery{Identity: identity(r), ProjectID: id, Deps: h.Queries}).Execute(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	logging.Logger.Infof("Event ID: PROGRESS_RECOMPUTED, Description: Project %d recomputed on request: %d%%", id, progress.Report.Percent)
	writeJSON(w, http.StatusOK, progress)
}

func (h *Handler) ProgressHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err = strconv.ParseInt(raw, 10, 64); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
	}
	history, err := (&queries.ProgressHistoryQuery{Identity: identity(r), ProjectID: id, Limit: limit, Deps: h.Queries}).Execute(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}
