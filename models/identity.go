package models

// Role distinguishes administrators from employees
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// Identity is the logged-in principal
type Identity struct {
	Role       Role   `json:"role"`
	Email      string `json:"email"`
	EmployeeID string `json:"employee_id,omitempty"`
	Name       string `json:"name,omitempty"`
}

// IsAdmin reports whether the identity has the admin role
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// DisplayName is what the header shows for the identity
func (i *Identity) DisplayName() string {
	if i == nil {
		return ""
	}
	if i.IsAdmin() {
		return "Admin Dashboard"
	}
	return "Welcome, " + i.Name
}
