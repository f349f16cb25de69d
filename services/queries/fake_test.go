package queries

import (
	"context"
	"net/http"
	"sort"
	"sync"

	"projecthub/microservices/progress-service/clients"
	"projecthub/microservices/progress-service/models"
	"projecthub/microservices/progress-service/services"
)

type store struct {
	mu          sync.Mutex
	projects    []models.Project
	tasks       []models.Task
	subtasks    []models.Subtask
	employees   []models.Employee
	teams       []models.Team
	attachments []models.Attachment
	pushes      []float64
}

func missing(path string) error {
	return &clients.StatusError{Method: http.MethodGet, Path: path, StatusCode: http.StatusNotFound}
}

func (s *store) ListProjects(ctx context.Context) ([]models.Project, error) {
	return append([]models.Project(nil), s.projects...), nil
}

func (s *store) GetProject(ctx context.Context, id int64) (models.Project, error) {
	for _, p := range s.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Project{}, missing("/projects")
}

func (s *store) ListTasks(ctx context.Context) ([]models.Task, error) {
	return append([]models.Task(nil), s.tasks...), nil
}

func (s *store) ListTasksByProject(ctx context.Context, projectID int64) ([]models.Task, error) {
	var out []models.Task
	for _, t := range s.tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *store) GetTask(ctx context.Context, id int64) (models.Task, error) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Task{}, missing("/tasks")
}

func (s *store) ListSubtasks(ctx context.Context, taskID int64) ([]models.Subtask, error) {
	var out []models.Subtask
	for _, st := range s.subtasks {
		if st.TaskID == taskID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *store) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	return s.employees, nil
}

func (s *store) ListTeams(ctx context.Context) ([]models.Team, error) {
	return s.teams, nil
}

func (s *store) ListAttachments(ctx context.Context, taskID int64) ([]models.Attachment, error) {
	return s.attachments, nil
}

func (s *store) UpdateProjectProgress(ctx context.Context, projectID int64, progress float64) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushes = append(s.pushes, progress)
	return models.Project{ID: projectID, Progress: &progress}, nil
}

func (s *store) pushed() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]float64(nil), s.pushes...)
}

type activityLog struct {
	mu         sync.Mutex
	activities []models.ProgressActivity
}

func (a *activityLog) Record(ctx context.Context, activity models.ProgressActivity) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.activities = append(a.activities, activity)
	return nil
}

func (a *activityLog) ListByProject(ctx context.Context, projectID int64, limit int64) ([]models.ProgressActivity, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []models.ProgressActivity
	for _, activity := range a.activities {
		if activity.ProjectID == projectID {
			out = append(out, activity)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

var (
	admin    = &models.Identity{EmployeeID: 1, Role: models.RoleAdmin}
	worker   = &models.Identity{EmployeeID: 7, Role: models.RoleUser}
	outsider = &models.Identity{EmployeeID: 8, Role: models.RoleUser}
)

func person(id int64, first string) models.Employee {
	return models.Employee{ID: id, FirstName: first, LastName: "Test"}
}

func assigned(ids ...int64) models.AssignmentSource {
	return models.AssignmentSource{Kind: models.AssignmentByIDList, IDs: ids}
}

// fixture: project 1 belongs to the worker's team, project 2 to nobody the
// worker knows. Project 1 has 3 units with 2 done.
func fixture() *store {
	half := 10.0
	return &store{
		employees: []models.Employee{person(1, "Ada"), person(7, "Wren"), person(8, "Otto"), person(9, "Nia")},
		teams: []models.Team{
			{ID: 5, Name: "core", Members: []models.TeamMember{{TeamID: 5, Employee: person(7, "Wren")}}},
			{ID: 6, Name: "ops", Members: []models.TeamMember{{TeamID: 6, Employee: person(9, "Nia")}}},
		},
		projects: []models.Project{
			{ID: 1, Name: "alpha", Status: models.StatusInProgress, Team: &models.Team{ID: 5}, Progress: &half},
			{ID: 2, Name: "beta", Status: models.StatusDone, Team: &models.Team{ID: 6}},
		},
		tasks: []models.Task{
			{ID: 11, Title: "done", Status: models.StatusDone, ProjectID: 1, Assignment: assigned(7)},
			{ID: 12, Title: "split", Status: models.StatusInProgress, ProjectID: 1, Assignment: assigned(7, 9)},
			{ID: 21, Title: "other", Status: models.StatusTodo, ProjectID: 2, Assignment: assigned(9)},
		},
		subtasks: []models.Subtask{
			{ID: 101, TaskID: 12, Name: "a", Status: models.StatusDone},
			{ID: 102, TaskID: 12, Name: "b", Status: models.StatusTodo},
		},
	}
}

func newDeps(s *store, activity *activityLog) *Dependencies {
	calculator := services.NewProgressAggregator(s, s, 2)
	return &Dependencies{
		Svc:         s,
		Visibility:  services.NewVisibilityFilter(models.RoleAdmin),
		Calculator:  calculator,
		Progress:    services.NewSynchronizerRegistry(calculator, s, activity, 0),
		Activity:    activity,
		Concurrency: 2,
	}
}
