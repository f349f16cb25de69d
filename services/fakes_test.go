package services

import (
	"context"
	"errors"
	"sync"

	"projecthub/microservices/progress-service/models"
)

var errNetwork = errors.New("network down")

type fakeCollaborator struct {
	mu          sync.Mutex
	tasks       map[int64][]models.Task
	subtasks    map[int64][]models.Subtask
	failing     map[int64]bool
	subtaskHits int
}

func newFakeCollaborator() *fakeCollaborator {
	return &fakeCollaborator{
		tasks:    make(map[int64][]models.Task),
		subtasks: make(map[int64][]models.Subtask),
		failing:  make(map[int64]bool),
	}
}

func (f *fakeCollaborator) ListTasksByProject(ctx context.Context, projectID int64) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Task(nil), f.tasks[projectID]...), nil
}

func (f *fakeCollaborator) ListSubtasks(ctx context.Context, taskID int64) ([]models.Subtask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subtaskHits++
	if f.failing[taskID] {
		return nil, errNetwork
	}
	return append([]models.Subtask(nil), f.subtasks[taskID]...), nil
}

type fakePusher struct {
	mu     sync.Mutex
	pushes []float64
	err    error
}

func (p *fakePusher) UpdateProjectProgress(ctx context.Context, projectID int64, progress float64) (models.Project, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return models.Project{}, p.err
	}
	p.pushes = append(p.pushes, progress)
	return models.Project{ID: projectID, Progress: &progress}, nil
}

func (p *fakePusher) setErr(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

func (p *fakePusher) pushed() []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]float64(nil), p.pushes...)
}

type fakeRecorder struct {
	mu         sync.Mutex
	activities []models.ProgressActivity
}

func (r *fakeRecorder) Record(ctx context.Context, a models.ProgressActivity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activities = append(r.activities, a)
	return nil
}

func (r *fakeRecorder) recorded() []models.ProgressActivity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.ProgressActivity(nil), r.activities...)
}

// scriptedCalculator returns values from fn, numbered from 1.
type scriptedCalculator struct {
	mu    sync.Mutex
	calls int
	fn    func(call int) (int, error)
}

func (c *scriptedCalculator) ComputeProject(ctx context.Context, projectID int64) (models.ProgressReport, error) {
	c.mu.Lock()
	c.calls++
	call := c.calls
	c.mu.Unlock()

	percent, err := c.fn(call)
	if err != nil {
		return models.ProgressReport{}, err
	}
	return models.ProgressReport{ProjectID: projectID, Percent: percent}, nil
}

func (c *scriptedCalculator) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func task(id int64, status models.Status) models.Task {
	return models.Task{ID: id, Title: "task", Status: status}
}

func subtask(id, taskID int64, status models.Status) models.Subtask {
	return models.Subtask{ID: id, TaskID: taskID, Name: "sub", Status: status}
}

func employee(id int64) models.Employee {
	return models.Employee{ID: id, FirstName: "E", LastName: "Mployee"}
}
