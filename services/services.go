package services

import (
	"fmt"
	"time"

	"github.com/blogem/time-tracker/events"
	"github.com/blogem/time-tracker/models"
	"github.com/blogem/time-tracker/repositories"
)

var timeNow = func() time.Time {
	return time.Now()
}

// Options carries the settings services need from config
type Options struct {
	AdminEmail    string
	AdminPassword string
	Location      *time.Location
}

// Services holds all service instances
type Services struct {
	Auth      AuthService
	Employees EmployeeService
	TimeLogs  TimeLogService
	Reports   ReportService
}

// NewServices creates and initializes all service instances
func NewServices(repos *repositories.Repositories, publisher events.Publisher, opts Options) (*Services, error) {
	if opts.Location == nil {
		opts.Location = time.Local
	}

	auth, err := NewAuthService(repos.Employees, opts.AdminEmail, opts.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	return &Services{
		Auth:      auth,
		Employees: NewEmployeeService(repos.Employees, publisher),
		TimeLogs:  NewTimeLogService(repos.TimeLogs, repos.Employees, publisher, opts.Location),
		Reports:   NewReportService(repos.TimeLogs, repos.Employees, opts.Location),
	}, nil
}

// noopPublisher is used when no change feed is wired
type noopPublisher struct{}

func (noopPublisher) Publish(models.ChangeEvent) {}
