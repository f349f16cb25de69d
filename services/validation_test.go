package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projecthub/microservices/progress-service/models"
)

func fields(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "expected a ValidationError, got %v", err)
	return ve.Fields
}

func TestValidateProject(t *testing.T) {
	start := models.NewDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	end := models.NewDate(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	team, emp, manager := int64(1), int64(2), int64(3)

	valid := models.ProjectInput{Name: "n", Description: "d", StartDate: start, EndDate: end, TeamID: &team, ManagerID: &manager}
	assert.NoError(t, ValidateProject(valid, true))

	f := fields(t, ValidateProject(models.ProjectInput{}, true))
	assert.Contains(t, f, "name")
	assert.Contains(t, f, "description")
	assert.Contains(t, f, "startDate")
	assert.Contains(t, f, "endDate")
	assert.Contains(t, f, "assignment")
	assert.Contains(t, f, "managerId")

	both := valid
	both.EmployeeID = &emp
	assert.Contains(t, fields(t, ValidateProject(both, false)), "assignment")

	backwards := valid
	backwards.StartDate, backwards.EndDate = end, start
	assert.Equal(t, "end date must be after start date", fields(t, ValidateProject(backwards, false))["endDate"])

	same := valid
	same.EndDate = start
	assert.Contains(t, fields(t, ValidateProject(same, false)), "endDate")
}

func TestValidateTaskAndSubtask(t *testing.T) {
	assert.NoError(t, ValidateTask(models.TaskInput{Title: "t", ProjectID: 1}))
	f := fields(t, ValidateTask(models.TaskInput{Title: strings.Repeat("x", 201)}))
	assert.Contains(t, f, "title")
	assert.Contains(t, f, "projectId")

	assert.NoError(t, ValidateSubtask(models.SubtaskInput{Name: "s", TaskID: 1, Status: "done"}))
	f = fields(t, ValidateSubtask(models.SubtaskInput{Name: " ", Status: "LATER"}))
	assert.Contains(t, f, "name")
	assert.Contains(t, f, "taskId")
	assert.Contains(t, f, "status")

	bad := models.Status("LATER")
	assert.Contains(t, fields(t, ValidateTaskUpdate(models.TaskUpdate{Status: &bad})), "status")
}

func TestSubtaskStatusIsTodoOrDone(t *testing.T) {
	cases := []struct {
		status models.Status
		valid  bool
	}{
		{models.StatusTodo, true},
		{models.StatusDone, true},
		{"done", true},
		{models.StatusCompleted, true},
		{"", true},
		{models.StatusInProgress, false},
		{models.StatusCancelled, false},
		{models.StatusOverdue, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			err := ValidateSubtask(models.SubtaskInput{Name: "s", TaskID: 1, Status: tc.status})
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			assert.Contains(t, fields(t, err), "status")
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"b": "two", "a": "one"}}
	assert.Equal(t, "validation failed: a: one; b: two", err.Error())
}
