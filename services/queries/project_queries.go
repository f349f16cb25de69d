package queries

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"projecthub/microservices/progress-service/logging"
	"projecthub/microservices/progress-service/models"
	"projecthub/microservices/progress-service/services"
)

// ListProjectsQuery returns the caller's visible projects with freshly
// calculated progress, finished projects last.
type ListProjectsQuery struct {
	Identity *models.Identity
	Deps     *Dependencies
}

func (q *ListProjectsQuery) Execute(ctx context.Context) ([]models.ProjectView, error) {
	if q.Identity == nil {
		return nil, services.ErrUnauthenticated
	}
	projects, err := q.Deps.Svc.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	var teams []models.Team
	if !q.Deps.Visibility.IsAdmin(q.Identity) {
		if teams, err = q.Deps.Svc.ListTeams(ctx); err != nil {
			return nil, fmt.Errorf("failed to list teams: %w", err)
		}
	}
	visible, err := q.Deps.Visibility.Projects(q.Identity, projects, teams)
	if err != nil {
		return nil, err
	}

	views := make([]models.ProjectView, len(visible))
	var g errgroup.Group
	g.SetLimit(q.Deps.concurrency())
	for i, p := range visible {
		i, p := i, p
		g.Go(func() error {
			views[i] = models.ProjectView{Project: p}
			report, err := q.Deps.Calculator.ComputeProject(ctx, p.ID)
			if err != nil {
				logging.Logger.Warnf("Event ID: PROJECT_PROGRESS_UNAVAILABLE, Description: Progress of project %d could not be calculated: %v", p.ID, err)
				views[i].CalculatedProgress = cachedPercent(p)
				return nil
			}
			views[i].CalculatedProgress = report.Percent
			return nil
		})
	}
	_ = g.Wait()

	services.SortProjectViews(views)
	return views, nil
}

// cachedPercent falls back to the collaborator's stored value.
func cachedPercent(p models.Project) int {
	if p.Progress == nil {
		return 0
	}
	v := int(*p.Progress + 0.5)
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// GetProjectQuery returns one project if the caller can see it.
type GetProjectQuery struct {
	Identity  *models.Identity
	ProjectID int64
	Deps      *Dependencies
}

func (q *GetProjectQuery) Execute(ctx context.Context) (models.Project, error) {
	if q.Identity == nil {
		return models.Project{}, services.ErrUnauthenticated
	}
	project, err := q.Deps.Svc.GetProject(ctx, q.ProjectID)
	if err != nil {
		return models.Project{}, fmt.Errorf("failed to load project %d: %w", q.ProjectID, err)
	}
	var teams []models.Team
	if !q.Deps.Visibility.IsAdmin(q.Identity) && project.Team != nil && len(project.Team.Members) == 0 {
		if teams, err = q.Deps.Svc.ListTeams(ctx); err != nil {
			return models.Project{}, fmt.Errorf("failed to list teams: %w", err)
		}
	}
	ok, err := q.Deps.Visibility.CanSeeProject(q.Identity, project, teams)
	if err != nil {
		return models.Project{}, err
	}
	if !ok {
		return models.Project{}, fmt.Errorf("%w: project %d", services.ErrForbidden, q.ProjectID)
	}
	return project, nil
}

// GetProjectProgressQuery loads a project's progress: the fresh report and
// the synchronizer's held and last-remote values. The report also seeds the
// synchronizer's initial-load push.
type GetProjectProgressQuery struct {
	Identity  *models.Identity
	ProjectID int64
	Deps      *Dependencies
}

func (q *GetProjectProgressQuery) Execute(ctx context.Context) (models.ProjectProgress, error) {
	project, err := (&GetProjectQuery{Identity: q.Identity, ProjectID: q.ProjectID, Deps: q.Deps}).Execute(ctx)
	if err != nil {
		return models.ProjectProgress{}, err
	}
	report, err := q.Deps.Calculator.ComputeProject(ctx, project.ID)
	if err != nil {
		return models.ProjectProgress{}, fmt.Errorf("failed to compute progress of project %d: %w", project.ID, err)
	}
	synchronizer := q.Deps.Progress.Load(ctx, project, report)
	return models.ProjectProgress{Snapshot: synchronizer.Snapshot(), Report: report}, nil
}

// RecomputeProgressQuery forces an immediate recompute and push.
type RecomputeProgressQuery struct {
	Identity  *models.Identity
	ProjectID int64
	Deps      *Dependencies
}

func (q *RecomputeProgressQuery) Execute(ctx context.Context) (models.ProjectProgress, error) {
	project, err := (&GetProjectQuery{Identity: q.Identity, ProjectID: q.ProjectID, Deps: q.Deps}).Execute(ctx)
	if err != nil {
		return models.ProjectProgress{}, err
	}
	synchronizer := q.Deps.Progress.For(project.ID)
	synchronizer.ObserveRemote(project.Progress)
	report, err := synchronizer.Flush(ctx)
	if err != nil {
		return models.ProjectProgress{}, fmt.Errorf("failed to recompute progress of project %d: %w", project.ID, err)
	}
	return models.ProjectProgress{Snapshot: synchronizer.Snapshot(), Report: report}, nil
}

// ProgressHistoryQuery lists recorded synchronizer activity for a project.
type ProgressHistoryQuery struct {
	Identity  *models.Identity
	ProjectID int64
	Limit     int64
	Deps      *Dependencies
}

func (q *ProgressHistoryQuery) Execute(ctx context.Context) ([]models.ProgressActivity, error) {
	if _, err := (&GetProjectQuery{Identity: q.Identity, ProjectID: q.ProjectID, Deps: q.Deps}).Execute(ctx); err != nil {
		return nil, err
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	activities, err := q.Deps.Activity.ListByProject(ctx, q.ProjectID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress history of project %d: %w", q.ProjectID, err)
	}
	return activities, nil
}
