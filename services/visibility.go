package services

import (
	"strings"

	"projecthub/microservices/progress-service/models"
)

// VisibilityFilter restricts records to the ones an identity may see.
// The admin role sees everything.
type VisibilityFilter struct {
	AdminRole string
}

func NewVisibilityFilter(adminRole string) VisibilityFilter {
	if adminRole == "" {
		adminRole = models.RoleAdmin
	}
	return VisibilityFilter{AdminRole: adminRole}
}

func (f VisibilityFilter) IsAdmin(identity *models.Identity) bool {
	return identity != nil && strings.EqualFold(identity.Role, f.AdminRole)
}

// teamMembers looks up full membership when the embedded team carries none.
type teamMembers map[int64]*models.Team

func indexTeams(teams []models.Team) teamMembers {
	index := make(teamMembers, len(teams))
	for i := range teams {
		index[teams[i].ID] = &teams[i]
	}
	return index
}

func (idx teamMembers) resolve(team *models.Team) *models.Team {
	if team == nil || len(team.Members) > 0 {
		return team
	}
	if full, ok := idx[team.ID]; ok {
		return full
	}
	return team
}

func (f VisibilityFilter) canSeeProject(identity *models.Identity, project models.Project, teams teamMembers) bool {
	id := identity.EmployeeID
	if id == 0 {
		return false
	}
	switch {
	case models.EmployeeRef(project.Employee) == id,
		models.EmployeeRef(project.CreatedBy) == id,
		models.EmployeeRef(project.AssignedManager) == id:
		return true
	}
	return teams.resolve(project.Team).HasMember(id)
}

// CanSeeProject reports whether a single project is visible. teams may be nil.
func (f VisibilityFilter) CanSeeProject(identity *models.Identity, project models.Project, teams []models.Team) (bool, error) {
	if identity == nil {
		return false, ErrUnauthenticated
	}
	if f.IsAdmin(identity) {
		return true, nil
	}
	return f.canSeeProject(identity, project, indexTeams(teams)), nil
}

// Projects keeps projects where the identity is the assigned employee,
// creator, manager or a member of the assigned team.
func (f VisibilityFilter) Projects(identity *models.Identity, projects []models.Project, teams []models.Team) ([]models.Project, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}
	if f.IsAdmin(identity) {
		return projects, nil
	}
	index := indexTeams(teams)
	visible := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if f.canSeeProject(identity, p, index) {
			visible = append(visible, p)
		}
	}
	return visible, nil
}

func (f VisibilityFilter) canSeeTask(identity *models.Identity, task models.Task, directory *EmployeeDirectory) bool {
	id := identity.EmployeeID
	if id == 0 {
		return false
	}
	if models.EmployeeRef(task.CreatedBy) == id {
		return true
	}
	for _, legacy := range task.LegacyAssignedTo {
		if legacy.ID == id {
			return true
		}
	}
	return IsAssignee(task, directory, id)
}

// CanSeeTask reports whether a single task is visible.
func (f VisibilityFilter) CanSeeTask(identity *models.Identity, task models.Task, directory *EmployeeDirectory) (bool, error) {
	if identity == nil {
		return false, ErrUnauthenticated
	}
	return f.IsAdmin(identity) || f.canSeeTask(identity, task, directory), nil
}

// Tasks keeps tasks the identity created or is assigned to.
func (f VisibilityFilter) Tasks(identity *models.Identity, tasks []models.Task, directory *EmployeeDirectory) ([]models.Task, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}
	if f.IsAdmin(identity) {
		return tasks, nil
	}
	visible := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.canSeeTask(identity, t, directory) {
			visible = append(visible, t)
		}
	}
	return visible, nil
}

// Teams keeps teams the identity belongs to.
func (f VisibilityFilter) Teams(identity *models.Identity, teams []models.Team) ([]models.Team, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}
	if f.IsAdmin(identity) {
		return teams, nil
	}
	visible := make([]models.Team, 0, len(teams))
	for i := range teams {
		if teams[i].HasMember(identity.EmployeeID) {
			visible = append(visible, teams[i])
		}
	}
	return visible, nil
}
