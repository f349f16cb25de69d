package commands

import (
	"context"
	"net/http"
	"sync"

	"projecthub/microservices/progress-service/clients"
	"projecthub/microservices/progress-service/models"
	"projecthub/microservices/progress-service/services"
)

type trigger struct {
	projectID int64
	reason    string
}

type recordingTrigger struct {
	mu       sync.Mutex
	triggers []trigger
}

func (r *recordingTrigger) Trigger(ctx context.Context, projectID int64, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.triggers = append(r.triggers, trigger{projectID, reason})
}

type forgetter struct{ forgotten []int64 }

func (f *forgetter) Forget(projectID int64) { f.forgotten = append(f.forgotten, projectID) }

func notFound(path string) error {
	return &clients.StatusError{Method: http.MethodGet, Path: path, StatusCode: http.StatusNotFound}
}

// memoryCollaborator is an in-memory stand-in for the REST backend.
type memoryCollaborator struct {
	projects    map[int64]models.Project
	tasks       map[int64]models.Task
	subtasks    map[int64]models.Subtask
	employees   []models.Employee
	teams       map[int64]models.Team
	members     map[int64]models.TeamMember
	taskUpdates []models.TaskUpdate
	calls       int
	nextID      int64
}

func newMemoryCollaborator() *memoryCollaborator {
	return &memoryCollaborator{
		projects: make(map[int64]models.Project),
		tasks:    make(map[int64]models.Task),
		subtasks: make(map[int64]models.Subtask),
		teams:    make(map[int64]models.Team),
		members:  make(map[int64]models.TeamMember),
		nextID:   1000,
	}
}

func (m *memoryCollaborator) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memoryCollaborator) GetProject(ctx context.Context, id int64) (models.Project, error) {
	m.calls++
	p, ok := m.projects[id]
	if !ok {
		return models.Project{}, notFound("/projects")
	}
	return p, nil
}

func (m *memoryCollaborator) CreateProject(ctx context.Context, p models.Project) (models.Project, error) {
	m.calls++
	p.ID = m.id()
	m.projects[p.ID] = p
	return p, nil
}

func (m *memoryCollaborator) UpdateProject(ctx context.Context, id int64, p models.Project) (models.Project, error) {
	m.calls++
	m.projects[id] = p
	return p, nil
}

func (m *memoryCollaborator) DeleteProject(ctx context.Context, id int64) error {
	m.calls++
	delete(m.projects, id)
	return nil
}

func (m *memoryCollaborator) GetTask(ctx context.Context, id int64) (models.Task, error) {
	m.calls++
	t, ok := m.tasks[id]
	if !ok {
		return models.Task{}, notFound("/tasks")
	}
	return t, nil
}

func (m *memoryCollaborator) CreateTask(ctx context.Context, in models.TaskInput, createdBy int64) (models.Task, error) {
	m.calls++
	t := models.Task{ID: m.id(), Title: in.Title, Status: models.StatusTodo, CreatedBy: &models.Employee{ID: createdBy}}
	m.tasks[t.ID] = t
	return t, nil
}

func (m *memoryCollaborator) UpdateTask(ctx context.Context, id int64, update models.TaskUpdate) (models.Task, error) {
	m.calls++
	m.taskUpdates = append(m.taskUpdates, update)
	t := m.tasks[id]
	if update.Status != nil {
		t.Status = *update.Status
	}
	if update.Title != nil {
		t.Title = *update.Title
	}
	m.tasks[id] = t
	return t, nil
}

func (m *memoryCollaborator) DeleteTask(ctx context.Context, id int64) error {
	m.calls++
	delete(m.tasks, id)
	return nil
}

func (m *memoryCollaborator) GetSubtask(ctx context.Context, id int64) (models.Subtask, error) {
	m.calls++
	s, ok := m.subtasks[id]
	if !ok {
		return models.Subtask{}, notFound("/subtasks")
	}
	return s, nil
}

func (m *memoryCollaborator) ListSubtasks(ctx context.Context, taskID int64) ([]models.Subtask, error) {
	m.calls++
	var out []models.Subtask
	for _, s := range m.subtasks {
		if s.TaskID == taskID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memoryCollaborator) CreateSubtask(ctx context.Context, s models.Subtask) (models.Subtask, error) {
	m.calls++
	s.ID = m.id()
	s.Status = s.Status.ForCollaborator()
	m.subtasks[s.ID] = s
	return s, nil
}

func (m *memoryCollaborator) UpdateSubtask(ctx context.Context, id int64, s models.Subtask) (models.Subtask, error) {
	m.calls++
	s.ID = id
	s.Status = s.Status.ForCollaborator()
	m.subtasks[id] = s
	return s, nil
}

func (m *memoryCollaborator) DeleteSubtask(ctx context.Context, id int64) error {
	m.calls++
	delete(m.subtasks, id)
	return nil
}

func (m *memoryCollaborator) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	m.calls++
	return m.employees, nil
}

func (m *memoryCollaborator) GetTeam(ctx context.Context, id int64) (models.Team, error) {
	m.calls++
	t, ok := m.teams[id]
	if !ok {
		return models.Team{}, notFound("/teams")
	}
	return t, nil
}

func (m *memoryCollaborator) GetTeamMember(ctx context.Context, id int64) (models.TeamMember, error) {
	m.calls++
	tm, ok := m.members[id]
	if !ok {
		return models.TeamMember{}, notFound("/teamMembers")
	}
	return tm, nil
}

func newDeps(m *memoryCollaborator) (*Dependencies, *recordingTrigger) {
	rec := &recordingTrigger{}
	return &Dependencies{
		Svc:         m,
		Progress:    rec,
		Permissions: services.NewPermissions(services.NewVisibilityFilter("Admin")),
	}, rec
}

var (
	admin    = &models.Identity{EmployeeID: 1, Role: "Admin"}
	worker   = &models.Identity{EmployeeID: 7, Role: "User"}
	outsider = &models.Identity{EmployeeID: 8, Role: "User"}
)
