package models

import (
	"encoding/json"
	"fmt"
)

type TeamRole string

const (
	TeamRoleMember TeamRole = "MEMBER"
	TeamRoleLead   TeamRole = "TEAM_LEAD"
)

type Team struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Members     []TeamMember `json:"members"`
	CreatedAt   *Date        `json:"createdAt,omitempty"`
	UpdatedAt   *Date        `json:"updatedAt,omitempty"`
}

// TeamMember links an employee to a team. The collaborator sends either the
// membership shape {id, employee, role} or a bare employee object.
type TeamMember struct {
	ID       int64    `json:"id,omitempty"`
	TeamID   int64    `json:"teamId,omitempty"`
	Employee Employee `json:"employee"`
	Role     TeamRole `json:"role"`
	JoinedAt *Date    `json:"joinedAt,omitempty"`
}

func (m *TeamMember) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("team member: %w", err)
	}

	if _, ok := probe["employee"]; ok {
		type membership TeamMember
		var raw struct {
			membership
			Team *projectRef `json:"team,omitempty"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("team member: %w", err)
		}
		*m = TeamMember(raw.membership)
		if m.TeamID == 0 && raw.Team != nil {
			m.TeamID = raw.Team.ID
		}
	} else {
		var employee Employee
		if err := json.Unmarshal(data, &employee); err != nil {
			return fmt.Errorf("team member: %w", err)
		}
		*m = TeamMember{Employee: employee}
	}

	if m.Role == "" {
		m.Role = TeamRoleMember
	}
	return nil
}

// HasMember reports whether the employee belongs to the team.
func (t *Team) HasMember(employeeID int64) bool {
	if t == nil {
		return false
	}
	for _, member := range t.Members {
		if member.Employee.ID == employeeID {
			return true
		}
	}
	return false
}

// IsLead reports whether the employee is a TEAM_LEAD of the team.
func (t *Team) IsLead(employeeID int64) bool {
	if t == nil {
		return false
	}
	for _, member := range t.Members {
		if member.Employee.ID == employeeID && member.Role == TeamRoleLead {
			return true
		}
	}
	return false
}
