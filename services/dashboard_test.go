package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"projecthub/microservices/progress-service/models"
)

func due(now time.Time, days int) *models.Date {
	return models.NewDate(now.AddDate(0, 0, days))
}

func TestBuildDashboard(t *testing.T) {
	now := time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)
	projects := []models.Project{
		{ID: 1, Status: models.StatusTodo},
		{ID: 2, Status: models.StatusInProgress},
		{ID: 3, Status: models.StatusDone},
		{ID: 4, Status: models.StatusCancelled},
	}
	tasks := []models.Task{
		{ID: 1, Status: models.StatusDone, EndDate: due(now, -5)},
		{ID: 2, Status: models.StatusOverdue},
		{ID: 3, Status: models.StatusTodo, EndDate: due(now, -1)},
		{ID: 4, Status: models.StatusTodo, EndDate: due(now, 3)},
		{ID: 5, Status: models.StatusTodo, EndDate: due(now, 1)},
		{ID: 6, Status: models.StatusTodo, EndDate: due(now, 0)},
		{ID: 7, Status: models.StatusInProgress, EndDate: due(now, 4)},
		{ID: 8, Status: models.StatusCompleted, EndDate: due(now, 2)},
	}

	stats := BuildDashboard(projects, tasks, []models.Team{{ID: 1}}, now)

	assert.Equal(t, 4, stats.TotalProjects)
	assert.Equal(t, 2, stats.ActiveProjects)
	assert.Equal(t, 1, stats.CompletedProjects)
	assert.Equal(t, 8, stats.TotalTasks)
	assert.Equal(t, 2, stats.CompletedTasks)
	assert.Equal(t, 1, stats.TotalTeams)
	assert.Equal(t, 25, stats.CompletionRate)
	assert.Equal(t, 2, stats.OverdueTasks)
	assert.Equal(t, 2, stats.UpcomingCount)
	if assert.Len(t, stats.UpcomingTasks, 2) {
		assert.Equal(t, int64(5), stats.UpcomingTasks[0].ID)
		assert.Equal(t, 1, stats.UpcomingTasks[0].DaysLeft)
		assert.Equal(t, int64(4), stats.UpcomingTasks[1].ID)
	}
	assert.Equal(t, 1, stats.ProjectsByStatus[models.StatusCancelled])
}

func TestUpcomingListIsCapped(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	var tasks []models.Task
	for i := 0; i < 9; i++ {
		tasks = append(tasks, models.Task{ID: int64(i + 1), Status: models.StatusTodo, EndDate: due(now, 1+i%3)})
	}
	stats := BuildDashboard(nil, tasks, nil, now)
	assert.Equal(t, 9, stats.UpcomingCount)
	assert.Len(t, stats.UpcomingTasks, 6)
	assert.Equal(t, 0, stats.CompletionRate)
}

func TestSortProjectViews(t *testing.T) {
	views := []models.ProjectView{
		{Project: models.Project{ID: 1, Status: models.StatusDone}},
		{Project: models.Project{ID: 2, Status: models.StatusTodo}},
		{Project: models.Project{ID: 5, Status: models.StatusInProgress}},
		{Project: models.Project{ID: 9, Status: models.StatusCompleted}},
	}
	SortProjectViews(views)

	var got []int64
	for _, v := range views {
		got = append(got, v.ID)
	}
	assert.Equal(t, []int64{5, 2, 9, 1}, got)
}
