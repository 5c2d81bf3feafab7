package repositories

import (
	"database/sql"
)

// Repositories struct holds all repository interfaces
type Repositories struct {
	Employees EmployeeRepository
	TimeLogs  TimeLogRepository
	Audit     AuditRepository
}

// NewRepositories creates and initializes all repositories
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Employees: NewEmployeeRepository(db),
		TimeLogs:  NewTimeLogRepository(db),
		Audit:     NewAuditRepository(db),
	}
}
