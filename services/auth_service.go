package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/blogem/time-tracker/models"
	"github.com/blogem/time-tracker/repositories"
)

// AuthService interface defines the login gate
type AuthService interface {
	LoginAdmin(email, password string) (*models.Identity, error)
	LoginEmployee(ctx context.Context, email string) (*models.Identity, error)
	LoginVerifiedEmail(ctx context.Context, email string) (*models.Identity, error)
}

// authService implements AuthService interface
type authService struct {
	employeeRepo  repositories.EmployeeRepository
	adminEmail    string
	adminPassHash []byte
}

// NewAuthService creates a new auth service. The admin password is only
// kept as a bcrypt hash.
func NewAuthService(employeeRepo repositories.EmployeeRepository, adminEmail, adminPassword string) (AuthService, error) {
	if adminEmail == "" || adminPassword == "" {
		return nil, errors.New("admin email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}

	return &authService{
		employeeRepo:  employeeRepo,
		adminEmail:    adminEmail,
		adminPassHash: hash,
	}, nil
}

// LoginAdmin succeeds only for the exact admin email and password pair
func (s *authService) LoginAdmin(email, password string) (*models.Identity, error) {
	if email != s.adminEmail {
		return nil, models.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(s.adminPassHash, []byte(password)) != nil {
		return nil, models.ErrInvalidCredentials
	}

	return &models.Identity{Role: models.RoleAdmin, Email: email}, nil
}

// LoginEmployee succeeds iff an employee with exactly this email exists
func (s *authService) LoginEmployee(ctx context.Context, email string) (*models.Identity, error) {
	if strings.TrimSpace(email) == "" {
		return nil, models.ErrEmployeeNotFound
	}

	employee, err := s.employeeRepo.GetByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up employee: %w", err)
	}

	return &models.Identity{
		Role:       models.RoleEmployee,
		Email:      employee.Email,
		EmployeeID: employee.ID,
		Name:       employee.Name,
	}, nil
}

// LoginVerifiedEmail maps an email proven by single sign-on to the admin
// role or to the matching employee
func (s *authService) LoginVerifiedEmail(ctx context.Context, email string) (*models.Identity, error) {
	if email == "" {
		return nil, models.ErrEmployeeNotFound
	}
	if strings.EqualFold(email, s.adminEmail) {
		return &models.Identity{Role: models.RoleAdmin, Email: s.adminEmail}, nil
	}
	return s.LoginEmployee(ctx, email)
}
