package models

type UpcomingTask struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	ProjectID int64  `json:"projectId,omitempty"`
	EndDate   *Date  `json:"endDate"`
	DaysLeft  int    `json:"daysLeft"`
}

type DashboardStats struct {
	TotalProjects     int            `json:"totalProjects"`
	ActiveProjects    int            `json:"activeProjects"`
	CompletedProjects int            `json:"completedProjects"`
	TotalTasks        int            `json:"totalTasks"`
	CompletedTasks    int            `json:"completedTasks"`
	TotalTeams        int            `json:"totalTeams"`
	CompletionRate    int            `json:"completionRate"`
	OverdueTasks      int            `json:"overdueTasks"`
	UpcomingCount     int            `json:"upcomingCount"`
	UpcomingTasks     []UpcomingTask `json:"upcomingTasks"`
	ProjectsByStatus  map[Status]int `json:"projectsByStatus"`
}
