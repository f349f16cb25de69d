package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"projecthub/microservices/progress-service/logging"
	"projecthub/microservices/progress-service/models"
)

const maxErrorBody = 512

// CollaboratorClient talks to the REST backend that owns all persisted records.
type CollaboratorClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Breaker    *gobreaker.CircuitBreaker
}

func NewCollaboratorClient(baseURL string, httpClient *http.Client, breaker *gobreaker.CircuitBreaker) *CollaboratorClient {
	return &CollaboratorClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: httpClient,
		Breaker:    breaker,
	}
}

// NewBreaker builds the circuit breaker guarding collaborator calls.
func NewBreaker(name string, maxFailures uint32, timeout time.Duration) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > maxFailures
		},
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
}

func (c *CollaboratorClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	_, err := c.Breaker.Execute(func() (interface{}, error) {
		return nil, c.roundTrip(ctx, method, path, body, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		logging.Logger.Warnf("Event ID: COLLABORATOR_CIRCUIT_OPEN, Description: %s %s rejected: %v", method, path, err)
		return fmt.Errorf("%w: %v", ErrCollaboratorUnavailable, err)
	}
	return err
}

func (c *CollaboratorClient) roundTrip(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if creds, ok := ForwardedAuth(ctx); ok {
		creds.apply(req)
	}

	logging.Logger.Debugf("Event ID: COLLABORATOR_REQUEST, Description: %s %s", method, path)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s %s: %w", method, path, ctxErr)
		}
		logging.Logger.Warnf("Event ID: COLLABORATOR_UNREACHABLE, Description: %s %s failed: %v", method, path, err)
		return fmt.Errorf("%w: %s %s: %v", ErrCollaboratorUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logging.Logger.Warnf("Event ID: COLLABORATOR_STATUS_ERROR, Description: %s %s returned %d", method, path, resp.StatusCode)
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading %s %s: %v", ErrCollaboratorUnavailable, method, path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding %s %s: %w", method, path, err)
	}
	return nil
}

func (c *CollaboratorClient) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *CollaboratorClient) GetProject(ctx context.Context, id int64) (models.Project, error) {
	var project models.Project
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d", id), nil, &project)
	return project, err
}

func (c *CollaboratorClient) CreateProject(ctx context.Context, project models.Project) (models.Project, error) {
	var created models.Project
	err := c.do(ctx, http.MethodPost, "/projects", project, &created)
	return created, err
}

func (c *CollaboratorClient) UpdateProject(ctx context.Context, id int64, project models.Project) (models.Project, error) {
	var updated models.Project
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/projects/%d", id), project, &updated)
	return updated, err
}

func (c *CollaboratorClient) DeleteProject(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/projects/%d", id), nil, nil)
}

// UpdateProjectProgress writes the cached progress value back to the collaborator.
func (c *CollaboratorClient) UpdateProjectProgress(ctx context.Context, id int64, progress float64) (models.Project, error) {
	var updated models.Project
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/projects/%d/progress", id), models.ProgressUpdate{Progress: progress}, &updated)
	return updated, err
}

func (c *CollaboratorClient) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *CollaboratorClient) ListTasksByProject(ctx context.Context, projectID int64) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tasks/project/%d", projectID), nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *CollaboratorClient) GetTask(ctx context.Context, id int64) (models.Task, error) {
	var task models.Task
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tasks/%d", id), nil, &task)
	return task, err
}

// CreateTask posts a new task, referencing the project and assignees by id.
func (c *CollaboratorClient) CreateTask(ctx context.Context, in models.TaskInput, createdBy int64) (models.Task, error) {
	status := in.Status.ForCollaborator()
	if status == "" {
		status = models.StatusTodo
	}
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	payload := map[string]interface{}{
		"title":       in.Title,
		"description": in.Description,
		"status":      status,
		"priority":    priority,
		"project":     map[string]int64{"id": in.ProjectID},
	}
	if createdBy != 0 {
		payload["createdBy"] = map[string]int64{"id": createdBy}
	}
	if len(in.AssignedEmployeeIDs) > 0 {
		refs := make([]map[string]int64, 0, len(in.AssignedEmployeeIDs))
		for _, id := range in.AssignedEmployeeIDs {
			refs = append(refs, map[string]int64{"id": id})
		}
		payload["assignedEmployees"] = refs
	}
	if in.StartDate != nil {
		payload["startDate"] = in.StartDate
	}
	if in.EndDate != nil {
		payload["endDate"] = in.EndDate
	}

	var created models.Task
	err := c.do(ctx, http.MethodPost, "/tasks", payload, &created)
	return created, err
}

func (c *CollaboratorClient) UpdateTask(ctx context.Context, id int64, update models.TaskUpdate) (models.Task, error) {
	var task models.Task
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d", id), update, &task)
	return task, err
}

func (c *CollaboratorClient) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, nil)
}

func (c *CollaboratorClient) ListSubtasks(ctx context.Context, taskID int64) ([]models.Subtask, error) {
	var subtasks []models.Subtask
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/subtasks/task/%d", taskID), nil, &subtasks); err != nil {
		return nil, err
	}
	return subtasks, nil
}

func (c *CollaboratorClient) GetSubtask(ctx context.Context, id int64) (models.Subtask, error) {
	var subtask models.Subtask
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/subtasks/%d", id), nil, &subtask)
	return subtask, err
}

func (c *CollaboratorClient) CreateSubtask(ctx context.Context, subtask models.Subtask) (models.Subtask, error) {
	var created models.Subtask
	err := c.do(ctx, http.MethodPost, "/subtasks", subtaskPayload(subtask), &created)
	return created, err
}

func (c *CollaboratorClient) UpdateSubtask(ctx context.Context, id int64, subtask models.Subtask) (models.Subtask, error) {
	var updated models.Subtask
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/subtasks/%d", id), subtaskPayload(subtask), &updated)
	return updated, err
}

func (c *CollaboratorClient) DeleteSubtask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/subtasks/%d", id), nil, nil)
}

func (c *CollaboratorClient) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	if err := c.do(ctx, http.MethodGet, "/employees", nil, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

func (c *CollaboratorClient) ListTeams(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	if err := c.do(ctx, http.MethodGet, "/teams", nil, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

func (c *CollaboratorClient) GetTeam(ctx context.Context, id int64) (models.Team, error) {
	var team models.Team
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/teams/%d", id), nil, &team)
	return team, err
}

func (c *CollaboratorClient) GetTeamMember(ctx context.Context, id int64) (models.TeamMember, error) {
	var member models.TeamMember
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/teamMembers/%d", id), nil, &member)
	return member, err
}

func (c *CollaboratorClient) ListAttachments(ctx context.Context, taskID int64) ([]models.Attachment, error) {
	var attachments []models.Attachment
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/attachments/task/%d", taskID), nil, &attachments); err != nil {
		return nil, err
	}
	return attachments, nil
}

// Me returns the employee bound to the forwarded session.
func (c *CollaboratorClient) Me(ctx context.Context) (models.Employee, error) {
	var me models.Employee
	err := c.do(ctx, http.MethodGet, "/me", nil, &me)
	return me, err
}

// subtaskPayload references the parent task and assignee by id, as the collaborator expects.
func subtaskPayload(s models.Subtask) map[string]interface{} {
	payload := map[string]interface{}{
		"name":        s.Name,
		"description": s.Description,
		"status":      s.Status.ForCollaborator(),
		"task":        map[string]int64{"id": s.TaskID},
	}
	if s.AssignedTo != nil {
		payload["assignedTo"] = map[string]int64{"id": s.AssignedTo.ID}
	}
	if s.StartDate != nil {
		payload["startDate"] = s.StartDate
	}
	if s.EndDate != nil {
		payload["endDate"] = s.EndDate
	}
	return payload
}
