package queries

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"projecthub/microservices/progress-service/models"
	"projecthub/microservices/progress-service/services"
)

// DashboardQuery summarises everything the caller can see.
type DashboardQuery struct {
	Identity *models.Identity
	Now      time.Time
	Deps     *Dependencies
}

func (q *DashboardQuery) Execute(ctx context.Context) (models.DashboardStats, error) {
	if q.Identity == nil {
		return models.DashboardStats{}, services.ErrUnauthenticated
	}

	var (
		projects  []models.Project
		tasks     []models.Task
		teams     []models.Team
		employees []models.Employee
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		projects, err = q.Deps.Svc.ListProjects(gctx)
		return err
	})
	g.Go(func() (err error) {
		tasks, err = q.Deps.Svc.ListTasks(gctx)
		return err
	})
	g.Go(func() (err error) {
		teams, err = q.Deps.Svc.ListTeams(gctx)
		return err
	})
	g.Go(func() (err error) {
		employees, err = q.Deps.Svc.ListEmployees(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.DashboardStats{}, fmt.Errorf("failed to load dashboard data: %w", err)
	}

	visibleProjects, err := q.Deps.Visibility.Projects(q.Identity, projects, teams)
	if err != nil {
		return models.DashboardStats{}, err
	}
	visibleTasks, err := q.Deps.Visibility.Tasks(q.Identity, tasks, services.NewEmployeeDirectory(employees))
	if err != nil {
		return models.DashboardStats{}, err
	}
	visibleTeams, err := q.Deps.Visibility.Teams(q.Identity, teams)
	if err != nil {
		return models.DashboardStats{}, err
	}

	now := q.Now
	if now.IsZero() {
		now = time.Now()
	}
	return services.BuildDashboard(visibleProjects, visibleTasks, visibleTeams, now), nil
}

// ListTeamsQuery returns the teams the caller belongs to.
type ListTeamsQuery struct {
	Identity *models.Identity
	Deps     *Dependencies
}

func (q *ListTeamsQuery) Execute(ctx context.Context) ([]models.Team, error) {
	if q.Identity == nil {
		return nil, services.ErrUnauthenticated
	}
	teams, err := q.Deps.Svc.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return q.Deps.Visibility.Teams(q.Identity, teams)
}

// ManagerCandidatesQuery lists who may be picked as a project manager.
type ManagerCandidatesQuery struct {
	Identity *models.Identity
	Deps     *Dependencies
}

func (q *ManagerCandidatesQuery) Execute(ctx context.Context) ([]models.Employee, error) {
	if q.Identity == nil {
		return nil, services.ErrUnauthenticated
	}
	employees, err := q.Deps.Svc.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	candidates := services.ManagerCandidates(employees)
	if candidates == nil {
		candidates = []models.Employee{}
	}
	return candidates, nil
}
