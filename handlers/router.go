package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"projecthub/microservices/progress-service/middleware"
)

// RouterConfig carries what NewRouter needs beyond the handler itself.
type RouterConfig struct {
	CollaboratorURL string
	CORSOrigin      string
	Auth            *middleware.Authenticator
}

func NewRouter(h *Handler, cfg RouterConfig) (http.Handler, error) {
	proxy, err := reverseProxyURL(cfg.CollaboratorURL)
	if err != nil {
		return nil, err
	}
	auth := cfg.Auth.Authenticate
	protected := func(fn http.HandlerFunc) http.Handler { return auth(fn) }

	r := mux.NewRouter()
	r.HandleFunc("/health", h.Health).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	api.Handle("/projects", protected(h.ListProjects)).Methods("GET")
	api.Handle("/projects", protected(h.CreateProject)).Methods("POST")
	api.Handle("/projects/{id:[0-9]+}", protected(h.GetProject)).Methods("GET")
	api.Handle("/projects/{id:[0-9]+}", protected(h.UpdateProject)).Methods("PUT")
	api.Handle("/projects/{id:[0-9]+}", protected(h.DeleteProject)).Methods("DELETE")
	api.Handle("/projects/{id:[0-9]+}/progress", protected(h.GetProjectProgress)).Methods("GET")
	api.Handle("/projects/{id:[0-9]+}/progress/recompute", protected(h.RecomputeProgress)).Methods("POST")
	api.Handle("/projects/{id:[0-9]+}/progress/history", protected(h.ProgressHistory)).Methods("GET")

	api.Handle("/tasks", protected(h.ListTasks)).Methods("GET")
	api.Handle("/tasks", protected(h.CreateTask)).Methods("POST")
	api.Handle("/tasks/project/{projectId:[0-9]+}", protected(h.ListTasksByProject)).Methods("GET")
	api.Handle("/tasks/{id:[0-9]+}/assignees", protected(h.TaskAssignees)).Methods("GET")
	api.Handle("/tasks/{id:[0-9]+}/status", protected(h.ChangeTaskStatus)).Methods("PUT")
	api.Handle("/tasks/{id:[0-9]+}", protected(h.UpdateTask)).Methods("PUT")
	api.Handle("/tasks/{id:[0-9]+}", protected(h.DeleteTask)).Methods("DELETE")

	api.Handle("/subtasks/task/{taskId:[0-9]+}", protected(h.ListSubtasks)).Methods("GET")
	api.Handle("/subtasks/task/{taskId:[0-9]+}/assignee-candidates", protected(h.SubtaskAssigneeCandidates)).Methods("GET")
	api.Handle("/subtasks", protected(h.CreateSubtask)).Methods("POST")
	api.Handle("/subtasks/{id:[0-9]+}", protected(h.UpdateSubtask)).Methods("PUT")
	api.Handle("/subtasks/{id:[0-9]+}", protected(h.DeleteSubtask)).Methods("DELETE")

	api.Handle("/teams", protected(h.ListTeams)).Methods("GET")
	api.Handle("/teamMembers", protected(h.AddTeamMember(proxy))).Methods("POST")
	api.Handle("/teamMembers/{id:[0-9]+}", protected(h.RemoveTeamMember(proxy))).Methods("DELETE")
	api.Handle("/managers", protected(h.ManagerCandidates)).Methods("GET")
	api.Handle("/dashboard", protected(h.Dashboard)).Methods("GET")
	api.Handle("/attachments/task/{taskId:[0-9]+}/next-revision", protected(h.NextRevision)).Methods("GET")

	// Session endpoints are answered by the collaborator.
	for _, path := range []string{"/login", "/logout", "/register", "/roles"} {
		api.PathPrefix(path).Handler(proxy)
	}
	for _, path := range []string{"/me", "/employees", "/attachments"} {
		api.PathPrefix(path).Handler(auth(proxy))
	}

	return middleware.RequestLogger(middleware.CORS(cfg.CORSOrigin)(r)), nil
}
