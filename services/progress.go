package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"projecthub/microservices/progress-service/logging"
	"projecthub/microservices/progress-service/models"
)

type SubtaskSource interface {
	ListSubtasks(ctx context.Context, taskID int64) ([]models.Subtask, error)
}

type TaskSource interface {
	ListTasksByProject(ctx context.Context, projectID int64) ([]models.Task, error)
}

// ProgressAggregator computes a project's completion percentage from its
// tasks and their subtasks.
type ProgressAggregator struct {
	tasks       TaskSource
	subtasks    SubtaskSource
	concurrency int
	now         func() time.Time
}

func NewProgressAggregator(tasks TaskSource, subtasks SubtaskSource, concurrency int) *ProgressAggregator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &ProgressAggregator{
		tasks:       tasks,
		subtasks:    subtasks,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// ComputeProject fetches the project's tasks and aggregates them.
func (a *ProgressAggregator) ComputeProject(ctx context.Context, projectID int64) (models.ProgressReport, error) {
	tasks, err := a.tasks.ListTasksByProject(ctx, projectID)
	if err != nil {
		return models.ProgressReport{}, fmt.Errorf("listing tasks of project %d: %w", projectID, err)
	}
	return a.Aggregate(ctx, projectID, tasks)
}

// Aggregate fetches every task's subtasks concurrently and sums the units.
// A failed fetch degrades that task to a single unit and never fails the
// whole computation. The only error is a cancelled context, since a report
// built from cancelled fetches would be wrong.
func (a *ProgressAggregator) Aggregate(ctx context.Context, projectID int64, tasks []models.Task) (models.ProgressReport, error) {
	results := make([]models.TaskProgress, len(tasks))

	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			subtasks, err := a.subtasks.ListSubtasks(ctx, task.ID)
			if err != nil {
				logging.Logger.Debugf("Event ID: SUBTASK_FETCH_DEGRADED, Description: Subtasks of task %d unavailable, counting the task itself: %v", task.ID, err)
			}
			results[i] = CountUnits(task, subtasks, err)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return models.ProgressReport{}, err
	}

	report := models.ProgressReport{
		ProjectID:       projectID,
		Tasks:           results,
		DegradedTaskIDs: []int64{},
		ComputedAt:      a.now(),
	}
	for _, r := range results {
		report.TotalUnits += r.TotalUnits
		report.CompletedUnits += r.CompletedUnits
		if r.Degraded {
			report.DegradedTaskIDs = append(report.DegradedTaskIDs, r.TaskID)
		}
	}
	sort.Slice(report.DegradedTaskIDs, func(i, j int) bool { return report.DegradedTaskIDs[i] < report.DegradedTaskIDs[j] })
	report.Percent = Percent(report.CompletedUnits, report.TotalUnits)
	return report, nil
}

// CountUnits returns one task's contribution. With subtasks, each subtask is a
// unit and only DONE counts as completed. Without subtasks, or when they could
// not be fetched, the task is one unit completed when DONE or COMPLETED.
func CountUnits(task models.Task, subtasks []models.Subtask, fetchErr error) models.TaskProgress {
	tp := models.TaskProgress{TaskID: task.ID, Status: task.Status}
	if fetchErr != nil || len(subtasks) == 0 {
		tp.TotalUnits = 1
		if task.Status.IsCompleted() {
			tp.CompletedUnits = 1
		}
		tp.Degraded = fetchErr != nil
		return tp
	}
	tp.TotalUnits = len(subtasks)
	for _, s := range subtasks {
		if s.IsDone() {
			tp.CompletedUnits++
		}
	}
	return tp
}

// Percent rounds completed/total*100 half up; an empty total is 0.
func Percent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	if completed < 0 {
		completed = 0
	}
	if completed > total {
		completed = total
	}
	return (200*completed + total) / (2 * total)
}
