package handlers

import (
	"net/http"

	"projecthub/microservices/progress-service/models"
	"projecthub/microservices/progress-service/services/commands"
	"projecthub/microservices/progress-service/services/queries"
)

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	h.listTasks(w, r, 0)
}

func (h *Handler) ListTasksByProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.listTasks(w, r, projectID)
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request, projectID int64) {
	views, err := (&queries.ListTasksQuery{Identity: identity(r), ProjectID: projectID, Deps: h.Queries}).Execute(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) TaskAssignees(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	assignees, err := (&queries.TaskAssigneesQuery{Identity: identity(r), TaskID: id, Deps: h.Queries}).Execute(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assignees)
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var in models.TaskInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	task, err := commands.NewCreateTaskHandler(h.Commands).Handle(r.Context(), commands.CreateTaskCommand{Identity: identity(r), Input: in})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var update models.TaskUpdate
	if err := decodeJSON(r, &update); err != nil {
		writeError(w, r, err)
		return
	}
	task, err := commands.NewUpdateTaskHandler(h.Commands).Handle(r.Context(), commands.UpdateTaskCommand{Identity: identity(r), TaskID: id, Update: update})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// ChangeTaskStatus accepts {"status": "..."}.
func (h *Handler) ChangeTaskStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body struct {
		Status models.Status `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	task, err := commands.NewUpdateTaskHandler(h.Commands).HandleStatus(r.Context(), commands.ChangeTaskStatusCommand{Identity: identity(r), TaskID: id, Status: body.Status})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := commands.NewDeleteTaskHandler(h.Commands).Handle(r.Context(), commands.DeleteTaskCommand{Identity: identity(r), TaskID: id}); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
