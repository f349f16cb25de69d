package handlers

import (
	"net/http"
	"strconv"

	"projecthub/microservices/progress-service/services/queries"
)

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := (&queries.DashboardQuery{Identity: identity(r), Deps: h.Queries}).Execute(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := (&queries.ListTeamsQuery{Identity: identity(r), Deps: h.Queries}).Execute(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

func (h *Handler) ManagerCandidates(w http.ResponseWriter, r *http.Request) {
	managers, err := (&queries.ManagerCandidatesQuery{Identity: identity(r), Deps: h.Queries}).Execute(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, managers)
}

// NextRevision answers which revision number the next upload of ?fileName= should carry.
// The value is also set as the X-Next-Revision header.
func (h *Handler) NextRevision(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "taskId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	fileName := r.URL.Query().Get("fileName")
	if fileName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "fileName is required"})
		return
	}
	next, err := (&queries.NextRevisionQuery{Identity: identity(r), TaskID: taskID, FileName: fileName, Deps: h.Queries}).Execute(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set(NextRevisionHeader, strconv.FormatFloat(next, 'f', -1, 64))
	writeJSON(w, http.StatusOK, map[string]interface{}{"taskId": taskID, "fileName": fileName, "revisionNumber": next})
}
