package handlers

import (
	"net/http"

	"projecthub/microservices/progress-service/models"
	"projecthub/microservices/progress-service/services/commands"
	"projecthub/microservices/progress-service/services/queries"
)

func (h *Handler) ListSubtasks(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "taskId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	subtasks, err := (&queries.ListSubtasksQuery{Identity: identity(r), TaskID: taskID, Deps: h.Queries}).Execute(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, subtasks)
}

func (h *Handler) SubtaskAssigneeCandidates(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "taskId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	candidates, err := (&queries.SubtaskCandidatesQuery{Identity: identity(r), TaskID: taskID, Deps: h.Queries}).Execute(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, candidates)
}

func (h *Handler) CreateSubtask(w http.ResponseWriter, r *http.Request) {
	var in models.SubtaskInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	subtask, err := commands.NewSubtaskHandler(h.Commands).Create(r.Context(), commands.CreateSubtaskCommand{Identity: identity(r), Input: in})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, subtask)
}

func (h *Handler) UpdateSubtask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in models.SubtaskInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	subtask, err := commands.NewSubtaskHandler(h.Commands).Update(r.Context(), commands.UpdateSubtaskCommand{Identity: identity(r), SubtaskID: id, Input: in})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, subtask)
}

func (h *Handler) DeleteSubtask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := commands.NewSubtaskHandler(h.Commands).Delete(r.Context(), commands.DeleteSubtaskCommand{Identity: identity(r), SubtaskID: id}); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
