package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"projecthub/microservices/progress-service/clients"
	"projecthub/microservices/progress-service/middleware"
	"projecthub/microservices/progress-service/models"
	"projecthub/microservices/progress-service/repositories"
	"projecthub/microservices/progress-service/services"
	"projecthub/microservices/progress-service/services/commands"
	"projecthub/microservices/progress-service/services/queries"
	"projecthub/microservices/progress-service/utils"
)

const testSecret = "handler-secret"

// backend is an in-memory collaborator covering both the read and write side.
type backend struct {
	mu          sync.Mutex
	projects    map[int64]models.Project
	tasks       map[int64]models.Task
	subtasks    map[int64]models.Subtask
	employees   []models.Employee
	teams       map[int64]models.Team
	members     map[int64]models.TeamMember
	attachments []models.Attachment
	pushes      []float64
	nextID      int64
	down        bool
}

func newBackend() *backend {
	b := &backend{
		projects: make(map[int64]models.Project),
		tasks:    make(map[int64]models.Task),
		subtasks: make(map[int64]models.Subtask),
		teams:    make(map[int64]models.Team),
		members:  make(map[int64]models.TeamMember),
		nextID:   500,
	}
	b.employees = []models.Employee{
		{ID: 1, FirstName: "Ada", Role: &models.Role{RoleName: "Admin"}},
		{ID: 7, FirstName: "Wren", Role: &models.Role{RoleName: "User"}},
		{ID: 8, FirstName: "Otto", Role: &models.Role{RoleName: "User"}},
	}
	lead := models.TeamMember{ID: 70, TeamID: 5, Employee: b.employees[1], Role: models.TeamRoleLead}
	member := models.TeamMember{ID: 80, TeamID: 6, Employee: b.employees[2], Role: models.TeamRoleMember}
	b.teams[5] = models.Team{ID: 5, Name: "core", Members: []models.TeamMember{lead}}
	b.teams[6] = models.Team{ID: 6, Name: "ops", Members: []models.TeamMember{member}}
	b.members[70] = lead
	b.members[80] = member

	b.projects[1] = models.Project{ID: 1, Name: "alpha", Status: models.StatusInProgress, Team: &models.Team{ID: 5}}
	b.projects[2] = models.Project{ID: 2, Name: "beta", Status: models.StatusTodo, Team: &models.Team{ID: 6}}
	b.tasks[11] = models.Task{ID: 11, Title: "build", Status: models.StatusInProgress, ProjectID: 1,
		Assignment: models.AssignmentSource{Kind: models.AssignmentByIDList, IDs: []int64{7}}}
	b.tasks[12] = models.Task{ID: 12, Title: "ship", Status: models.StatusTodo, ProjectID: 1,
		Assignment: models.AssignmentSource{Kind: models.AssignmentByIDList, IDs: []int64{7}}}
	b.tasks[21] = models.Task{ID: 21, Title: "ops", Status: models.StatusTodo, ProjectID: 2,
		Assignment: models.AssignmentSource{Kind: models.AssignmentByIDList, IDs: []int64{8}}}
	return b
}

func (b *backend) fail() error {
	if b.down {
		return clients.ErrCollaboratorUnavailable
	}
	return nil
}

func missing(path string) error {
	return &clients.StatusError{Method: http.MethodGet, Path: path, StatusCode: http.StatusNotFound}
}

func (b *backend) ListProjects(ctx context.Context) ([]models.Project, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail(); err != nil {
		return nil, err
	}
	out := make([]models.Project, 0, len(b.projects))
	for _, p := range b.projects {
		out = append(out, p)
	}
	return out, nil
}

func (b *backend) GetProject(ctx context.Context, id int64) (models.Project, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.projects[id]
	if !ok {
		return models.Project{}, missing("/projects")
	}
	return p, nil
}

func (b *backend) CreateProject(ctx context.Context, p models.Project) (models.Project, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	p.ID = b.nextID
	b.projects[p.ID] = p
	return p, nil
}

func (b *backend) UpdateProject(ctx context.Context, id int64, p models.Project) (models.Project, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p.ID = id
	b.projects[id] = p
	return p, nil
}

func (b *backend) DeleteProject(ctx context.Context, id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.projects, id)
	return nil
}

func (b *backend) UpdateProjectProgress(ctx context.Context, projectID int64, progress float64) (models.Project, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pushes = append(b.pushes, progress)
	p := b.projects[projectID]
	p.Progress = &progress
	b.projects[projectID] = p
	return p, nil
}

func (b *backend) ListTasks(ctx context.Context) ([]models.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Task, 0, len(b.tasks))
	for _, t := range b.tasks {
		out = append(out, t)
	}
	return out, nil
}

func (b *backend) ListTasksByProject(ctx context.Context, projectID int64) ([]models.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []models.Task
	for _, t := range b.tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (b *backend) GetTask(ctx context.Context, id int64) (models.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.tasks[id]
	if !ok {
		return models.Task{}, missing("/tasks")
	}
	return t, nil
}

func (b *backend) CreateTask(ctx context.Context, in models.TaskInput, createdBy int64) (models.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	t := models.Task{ID: b.nextID, Title: in.Title, Status: models.StatusTodo, ProjectID: in.ProjectID, CreatedBy: &models.Employee{ID: createdBy}}
	b.tasks[t.ID] = t
	return t, nil
}

func (b *backend) UpdateTask(ctx context.Context, id int64, update models.TaskUpdate) (models.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := b.tasks[id]
	if update.Status != nil {
		t.Status = *update.Status
	}
	if update.Title != nil {
		t.Title = *update.Title
	}
	b.tasks[id] = t
	return t, nil
}

func (b *backend) DeleteTask(ctx context.Context, id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.tasks, id)
	return nil
}

func (b *backend) GetSubtask(ctx context.Context, id int64) (models.Subtask, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.subtasks[id]
	if !ok {
		return models.Subtask{}, missing("/subtasks")
	}
	return s, nil
}

func (b *backend) ListSubtasks(ctx context.Context, taskID int64) ([]models.Subtask, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []models.Subtask
	for _, s := range b.subtasks {
		if s.TaskID == taskID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (b *backend) CreateSubtask(ctx context.Context, s models.Subtask) (models.Subtask, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	s.ID = b.nextID
	b.subtasks[s.ID] = s
	return s, nil
}

func (b *backend) UpdateSubtask(ctx context.Context, id int64, s models.Subtask) (models.Subtask, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s.ID = id
	b.subtasks[id] = s
	return s, nil
}

func (b *backend) DeleteSubtask(ctx context.Context, id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subtasks, id)
	return nil
}

func (b *backend) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	return b.employees, nil
}

func (b *backend) ListTeams(ctx context.Context) ([]models.Team, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Team, 0, len(b.teams))
	for _, t := range b.teams {
		out = append(out, t)
	}
	return out, nil
}

func (b *backend) GetTeam(ctx context.Context, id int64) (models.Team, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.teams[id]
	if !ok {
		return models.Team{}, missing("/teams")
	}
	return t, nil
}

func (b *backend) GetTeamMember(ctx context.Context, id int64) (models.TeamMember, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m, ok := b.members[id]
	if !ok {
		return models.TeamMember{}, missing("/teamMembers")
	}
	return m, nil
}

func (b *backend) ListAttachments(ctx context.Context, taskID int64) ([]models.Attachment, error) {
	return b.attachments, nil
}

func (b *backend) pushed() []float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]float64(nil), b.pushes...)
}

type harness struct {
	backend      *backend
	collaborator *httptest.Server
	forwarded    chan *http.Request
	router       http.Handler
	registry     *services.SynchronizerRegistry
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{backend: newBackend(), forwarded: make(chan *http.Request, 4)}
	h.collaborator = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.forwarded <- r.Clone(context.Background())
		w.Header().Set("Access-Control-Allow-Origin", "http://elsewhere")
		w.Header().Set("Set-Cookie", "JSESSIONID=fresh")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(h.collaborator.Close)

	visibility := services.NewVisibilityFilter(models.RoleAdmin)
	calculator := services.NewProgressAggregator(h.backend, h.backend, 2)
	activity := repositories.NewMemoryActivityRepository(0)
	h.registry = services.NewSynchronizerRegistry(calculator, h.backend, activity, 5*time.Millisecond)
	t.Cleanup(h.registry.Close)

	cmds := &commands.Dependencies{Svc: h.backend, Progress: h.registry, Permissions: services.NewPermissions(visibility)}
	qs := &queries.Dependencies{
		Svc:        h.backend,
		Visibility: visibility,
		Calculator: calculator,
		Progress:   h.registry,
		Activity:   activity,
	}
	router, err := NewRouter(NewHandler(cmds, qs, h.registry), RouterConfig{
		CollaboratorURL: h.collaborator.URL + "/api",
		CORSOrigin:      "http://localhost:3000",
		Auth:            middleware.NewAuthenticator(testSecret, nil),
	})
	require.NoError(t, err)
	h.router = router
	return h
}

func bearer(t *testing.T, employeeID int64, role string) string {
	t.Helper()
	token, err := utils.GenerateToken([]byte(testSecret), employeeID, role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}
