package handlers

import (
	"net/http"

	"projecthub/microservices/progress-service/middleware"
	"projecthub/microservices/progress-service/models"
	"projecthub/microservices/progress-service/services/commands"
	"projecthub/microservices/progress-service/services/queries"
)

// Handler serves the API. Reads go through Queries, writes through Commands.
type Handler struct {
	Commands *commands.Dependencies
	Queries  *queries.Dependencies
	Forget   commands.ProjectForgetter
}

func NewHandler(cmds *commands.Dependencies, qs *queries.Dependencies, forget commands.ProjectForgetter) *Handler {
	return &Handler{Commands: cmds, Queries: qs, Forget: forget}
}

func identity(r *http.Request) *models.Identity {
	return middleware.IdentityFrom(r.Context())
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
