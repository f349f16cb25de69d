package services

import (
	"sort"
	"time"

	"projecthub/microservices/progress-service/models"
)

const (
	upcomingWindowDays = 3
	upcomingListLimit  = 6
)

// BuildDashboard summarises the records an identity can see.
func BuildDashboard(projects []models.Project, tasks []models.Task, teams []models.Team, now time.Time) models.DashboardStats {
	stats := models.DashboardStats{
		TotalProjects:    len(projects),
		TotalTasks:       len(tasks),
		TotalTeams:       len(teams),
		UpcomingTasks:    []models.UpcomingTask{},
		ProjectsByStatus: make(map[models.Status]int),
	}

	for _, p := range projects {
		status := p.Status.Normalize()
		stats.ProjectsByStatus[status]++
		switch {
		case status.IsActive():
			stats.ActiveProjects++
		case status.IsCompleted():
			stats.CompletedProjects++
		}
	}

	today := civilDay(now)
	var upcoming []models.UpcomingTask
	for _, t := range tasks {
		completed := t.Status.IsCompleted()
		if completed {
			stats.CompletedTasks++
		}
		if t.Status.Normalize() == models.StatusOverdue {
			stats.OverdueTasks++
			continue
		}
		if t.EndDate == nil || t.EndDate.IsZero() || completed {
			continue
		}
		days := int(civilDay(t.EndDate.Time).Sub(today).Hours() / 24)
		switch {
		case days < 0:
			stats.OverdueTasks++
		case days >= 1 && days <= upcomingWindowDays:
			upcoming = append(upcoming, models.UpcomingTask{
				ID:        t.ID,
				Title:     t.Title,
				ProjectID: t.ProjectID,
				EndDate:   t.EndDate,
				DaysLeft:  days,
			})
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].EndDate.Before(upcoming[j].EndDate.Time)
	})
	stats.UpcomingCount = len(upcoming)
	if len(upcoming) > upcomingListLimit {
		upcoming = upcoming[:upcomingListLimit]
	}
	if len(upcoming) > 0 {
		stats.UpcomingTasks = upcoming
	}
	stats.CompletionRate = Percent(stats.CompletedTasks, stats.TotalTasks)
	return stats
}

func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SortProjectViews puts finished projects last, newest first otherwise.
func SortProjectViews(views []models.ProjectView) {
	sort.SliceStable(views, func(i, j int) bool {
		iDone := views[i].Status.IsCompleted()
		jDone := views[j].Status.IsCompleted()
		if iDone != jDone {
			return !iDone
		}
		return views[i].ID > views[j].ID
	})
}
