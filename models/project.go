package models

type Project struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Status          Status    `json:"status"`
	Priority        Priority  `json:"priority,omitempty"`
	StartDate       *Date     `json:"startDate,omitempty"`
	EndDate         *Date     `json:"endDate,omitempty"`
	ActualEndDate   *Date     `json:"actualEndDate,omitempty"`
	Employee        *Employee `json:"employee,omitempty"`
	Team            *Team     `json:"team,omitempty"`
	CreatedBy       *Employee `json:"createdBy,omitempty"`
	AssignedManager *Employee `json:"assignedManager,omitempty"`
	// Progress is the collaborator's cached value; advisory and often stale.
	Progress  *float64 `json:"progress,omitempty"`
	CreatedAt *Date    `json:"createdAt,omitempty"`
	UpdatedAt *Date    `json:"updatedAt,omitempty"`
}

// ProjectView is a project enriched with a freshly computed percentage.
type ProjectView struct {
	Project
	CalculatedProgress int `json:"calculatedProgress"`
}

// ProjectInput is the create/update form body.
type ProjectInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Status      Status   `json:"status,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
	StartDate   *Date    `json:"startDate,omitempty"`
	EndDate     *Date    `json:"endDate,omitempty"`
	EmployeeID  *int64   `json:"employeeId,omitempty"`
	TeamID      *int64   `json:"teamId,omitempty"`
	ManagerID   *int64   `json:"managerId,omitempty"`
}

// ProgressUpdate is the body of PUT /projects/{id}/progress.
type ProgressUpdate struct {
	Progress float64 `json:"progress"`
}

// ToProject builds the collaborator payload, referencing related records by id only.
func (in ProjectInput) ToProject(createdBy int64) Project {
	p := Project{
		Name:        in.Name,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
	}
	if p.Status == "" {
		p.Status = StatusTodo
	}
	if p.Priority == "" {
		p.Priority = PriorityMedium
	}
	if in.EmployeeID != nil {
		p.Employee = &Employee{ID: *in.EmployeeID}
	}
	if in.TeamID != nil {
		p.Team = &Team{ID: *in.TeamID}
	}
	if in.ManagerID != nil {
		p.AssignedManager = &Employee{ID: *in.ManagerID}
	}
	if createdBy != 0 {
		p.CreatedBy = &Employee{ID: createdBy}
	}
	return p
}
