package models

import "strings"

type Role struct {
	RoleID   int64  `json:"roleId,omitempty"`
	RoleName string `json:"roleName"`
}

type Employee struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Position    string `json:"position,omitempty"`
	Role        *Role  `json:"role,omitempty"`
}

// FullName joins first and last name, skipping empty parts.
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// RoleName returns the role marker or an empty string for legacy records without one.
func (e Employee) RoleName() string {
	if e.Role == nil {
		return ""
	}
	return e.Role.RoleName
}

// EmployeeRef returns the id of an optional employee reference, 0 when absent.
func EmployeeRef(e *Employee) int64 {
	if e == nil {
		return 0
	}
	return e.ID
}
