package services

import (
	"strings"

	"projecthub/microservices/progress-service/logging"
	"projecthub/microservices/progress-service/models"
)

// EmployeeDirectory is the read-only reference employee list, indexed by id.
type EmployeeDirectory struct {
	all  []models.Employee
	byID map[int64]models.Employee
}

func NewEmployeeDirectory(employees []models.Employee) *EmployeeDirectory {
	byID := make(map[int64]models.Employee, len(employees))
	for _, e := range employees {
		if _, seen := byID[e.ID]; !seen {
			byID[e.ID] = e
		}
	}
	return &EmployeeDirectory{all: employees, byID: byID}
}

func (d *EmployeeDirectory) Lookup(id int64) (models.Employee, bool) {
	if d == nil {
		return models.Employee{}, false
	}
	e, ok := d.byID[id]
	return e, ok
}

func (d *EmployeeDirectory) All() []models.Employee {
	if d == nil {
		return nil
	}
	return d.all
}

// ResolveAssignees returns the task's assignees from the first non-empty
// representation, deduplicated by id in first-seen order. Ids missing from
// the directory are dropped. It never fails.
func ResolveAssignees(task models.Task, directory *EmployeeDirectory) []models.Employee {
	source := task.Assignment
	resolved := make([]models.Employee, 0, len(source.Employees)+len(source.IDs))

	switch source.Kind {
	case models.AssignmentEmbedded, models.AssignmentSingleEmbedded:
		resolved = append(resolved, source.Employees...)
	case models.AssignmentByIDList, models.AssignmentSingleID:
		for _, id := range source.IDs {
			if e, ok := directory.Lookup(id); ok {
				resolved = append(resolved, e)
			} else {
				logging.Logger.Debugf("Event ID: ASSIGNEE_UNRESOLVED, Description: Task %d references unknown employee %d", task.ID, id)
			}
		}
	}
	return dedupeEmployees(resolved)
}

func dedupeEmployees(employees []models.Employee) []models.Employee {
	seen := make(map[int64]struct{}, len(employees))
	out := employees[:0]
	for _, e := range employees {
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}

// IsAssignee reports whether the employee is in the task's resolved set.
func IsAssignee(task models.Task, directory *EmployeeDirectory, employeeID int64) bool {
	for _, e := range ResolveAssignees(task, directory) {
		if e.ID == employeeID {
			return true
		}
	}
	return false
}

// SubtaskAssigneeCandidates are the people a subtask of task may be given to.
func SubtaskAssigneeCandidates(task models.Task, directory *EmployeeDirectory) []models.Employee {
	return ResolveAssignees(task, directory)
}

// CheckSubtaskAssignee logs when a subtask assignee falls outside the parent's
// resolved set. The assignment is still allowed.
func CheckSubtaskAssignee(task models.Task, directory *EmployeeDirectory, assigneeID int64) bool {
	if assigneeID == 0 || IsAssignee(task, directory, assigneeID) {
		return true
	}
	logging.Logger.Warnf("Event ID: SUBTASK_ASSIGNEE_OUTSIDE_PARENT, Description: Employee %d is not assigned to parent task %d", assigneeID, task.ID)
	return false
}

var managerMarkers = []string{"manager", "yönetici"}

// ManagerCandidates returns employees eligible to manage a project. When
// nobody looks like a manager every employee is a candidate.
func ManagerCandidates(employees []models.Employee) []models.Employee {
	var candidates []models.Employee
	for _, e := range employees {
		if isManager(e) {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return employees
	}
	return candidates
}

func isManager(e models.Employee) bool {
	if strings.EqualFold(e.RoleName(), "MANAGER") {
		return true
	}
	position := strings.ToLower(e.Position)
	for _, marker := range managerMarkers {
		if strings.Contains(position, marker) {
			return true
		}
	}
	return false
}
