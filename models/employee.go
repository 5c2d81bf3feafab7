package models

import "strings"

// Employee represents a person who can clock in and out
type Employee struct {
	ID         string `json:"id" db:"id"`
	Name       string `json:"name" db:"name"`
	Email      string `json:"email" db:"email"`
	Department string `json:"department" db:"department"`
	AuditFields
}

// EmployeeForm represents form data for creating employees
type EmployeeForm struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// DepartmentOrDefault returns the department or a placeholder when unset
func (e *Employee) DepartmentOrDefault() string {
	if strings.TrimSpace(e.Department) == "" {
		return "No Department"
	}
	return e.Department
}

// Validate validates the employee form data
func (f *EmployeeForm) Validate() []string {
	var errors []string

	name := strings.TrimSpace(f.Name)
	email := strings.TrimSpace(f.Email)

	if name == "" {
		errors = append(errors, "Name is required")
	}

	if len(name) > 100 {
		errors = append(errors, "Name must be less than 100 characters")
	}

	if email == "" {
		errors = append(errors, "Email is required")
	} else {
		if len(email) > 255 {
			errors = append(errors, "Email must be less than 255 characters")
		}
		if !isValidEmail(email) {
			errors = append(errors, "Email format is invalid")
		}
	}

	if len(f.Department) > 100 {
		errors = append(errors, "Department must be less than 100 characters")
	}

	return errors
}
