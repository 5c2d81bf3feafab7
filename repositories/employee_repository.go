package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/blogem/time-tracker/models"
	"github.com/blogem/time-tracker/userctx"
	"github.com/google/uuid"
)

// EmployeeRepository interface defines employee database operations
type EmployeeRepository interface {
	GetAll(ctx context.Context) ([]models.Employee, error)
	GetByID(ctx context.Context, id string) (*models.Employee, error)
	GetByEmail(ctx context.Context, email string) (*models.Employee, error)
	Create(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// employeeRepository implements EmployeeRepository interface
type employeeRepository struct {
	db *sql.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *sql.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `id, name, email, department, created_by, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEmployee(row rowScanner) (*models.Employee, error) {
	var e models.Employee
	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.Email,
		&e.Department,
		&e.CreatedBy,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetAll retrieves all employees in the order they were added
func (r *employeeRepository) GetAll(ctx context.Context) ([]models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY created_at ASC, rowid ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []models.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, *e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employees: %w", err)
	}

	return employees, nil
}

// GetByID retrieves an employee by ID
func (r *employeeRepository) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = ?`

	e, err := scanEmployee(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("employee with ID %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	return e, nil
}

// GetByEmail retrieves the first employee added with exactly this email
func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE email = ? ORDER BY created_at ASC, rowid ASC LIMIT 1`

	e, err := scanEmployee(r.db.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("employee with email %s: %w", email, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee by email: %w", err)
	}

	return e, nil
}

// Create inserts a new employee, assigning its ID
func (r *employeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	query := `
		INSERT INTO employees (id, name, email, department, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	if employee.ID == "" {
		employee.ID = uuid.NewString()
	}
	if employee.CreatedAt.IsZero() {
		employee.CreatedAt = time.Now().UTC()
	}

	// Get user from context
	userEmail := userctx.GetUserEmail(ctx)

	_, err := r.db.ExecContext(ctx, query,
		employee.ID,
		employee.Name,
		employee.Email,
		employee.Department,
		userEmail,
		employee.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}

	employee.CreatedBy = userEmail
	return nil
}

// Delete deletes an employee by ID. Their time logs are kept.
func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM employees WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("employee with ID %s: %w", id, models.ErrNotFound)
	}

	return nil
}

// Count returns the total number of employees
func (r *employeeRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}

	return count, nil
}
