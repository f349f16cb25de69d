package models

// Identity is the authenticated caller every visibility and permission check runs against.
type Identity struct {
	EmployeeID int64  `json:"employeeId"`
	Role       string `json:"role"`
}

const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)
