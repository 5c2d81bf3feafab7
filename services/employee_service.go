package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/blogem/time-tracker/events"
	"github.com/blogem/time-tracker/models"
	"github.com/blogem/time-tracker/repositories"
)

// EmployeeService interface defines employee directory business logic
type EmployeeService interface {
	GetAllEmployees(ctx context.Context) ([]models.Employee, error)
	GetEmployee(ctx context.Context, id string) (*models.Employee, error)
	CreateEmployee(ctx context.Context, form *models.EmployeeForm) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
}

// employeeService implements EmployeeService interface
type employeeService struct {
	employeeRepo repositories.EmployeeRepository
	publisher    events.Publisher
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(employeeRepo repositories.EmployeeRepository, publisher events.Publisher) EmployeeService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &employeeService{
		employeeRepo: employeeRepo,
		publisher:    publisher,
	}
}

// GetAllEmployees retrieves all employees
func (s *employeeService) GetAllEmployees(ctx context.Context) ([]models.Employee, error) {
	return s.employeeRepo.GetAll(ctx)
}

// GetEmployee retrieves an employee by ID
func (s *employeeService) GetEmployee(ctx context.Context, id string) (*models.Employee, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("invalid employee ID: %w", models.ErrNotFound)
	}
	return s.employeeRepo.GetByID(ctx, id)
}

// CreateEmployee creates a new employee with validation
func (s *employeeService) CreateEmployee(ctx context.Context, form *models.EmployeeForm) (*models.Employee, error) {
	// Validate form
	if errors := form.Validate(); len(errors) > 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrValidation, strings.Join(errors, ", "))
	}

	email := strings.TrimSpace(form.Email)

	// Email is the employee login, so it has to be unique
	existing, err := s.employeeRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for duplicate email: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrDuplicateEmail, email)
	}

	employee := &models.Employee{
		Name:       strings.TrimSpace(form.Name),
		Email:      email,
		Department: strings.TrimSpace(form.Department),
	}

	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}

	s.publisher.Publish(models.ChangeEvent{
		Table:  models.TableEmployees,
		Type:   models.ChangeInsert,
		Record: *employee,
	})

	return employee, nil
}

// DeleteEmployee permanently deletes an employee. Their time logs are kept.
func (s *employeeService) DeleteEmployee(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("invalid employee ID: %w", models.ErrNotFound)
	}

	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	s.publisher.Publish(models.ChangeEvent{
		Table:  models.TableEmployees,
		Type:   models.ChangeDelete,
		Record: map[string]string{"id": id},
	})

	return nil
}
