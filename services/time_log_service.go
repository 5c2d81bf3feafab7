package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blogem/time-tracker/events"
	"github.com/blogem/time-tracker/models"
	"github.com/blogem/time-tracker/repositories"
)

// RecentActivityLimit is how many of today's events the panel shows
const RecentActivityLimit = 10

// TimeLogService interface defines time-tracking business logic
type TimeLogService interface {
	RecordEvent(ctx context.Context, employeeID string, logType models.LogType) (*models.TimeLog, error)
	GetAllLogs(ctx context.Context) ([]models.TimeLog, error)
	GetTodayActivity(ctx context.Context, employeeID string, limit int) ([]models.TimeLog, error)
	Today() string
}

// timeLogService implements TimeLogService interface
type timeLogService struct {
	timeLogRepo  repositories.TimeLogRepository
	employeeRepo repositories.EmployeeRepository
	publisher    events.Publisher
	location     *time.Location
}

// NewTimeLogService creates a new time log service
func NewTimeLogService(
	timeLogRepo repositories.TimeLogRepository,
	employeeRepo repositories.EmployeeRepository,
	publisher events.Publisher,
	location *time.Location,
) TimeLogService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if location == nil {
		location = time.Local
	}
	return &timeLogService{
		timeLogRepo:  timeLogRepo,
		employeeRepo: employeeRepo,
		publisher:    publisher,
		location:     location,
	}
}

// RecordEvent appends an event for the employee stamped with the current
// 12-hour clock time and ISO day
func (s *timeLogService) RecordEvent(ctx context.Context, employeeID string, logType models.LogType) (*models.TimeLog, error) {
	if !logType.IsValid() {
		return nil, fmt.Errorf("%w: invalid log type %q", models.ErrValidation, logType)
	}
	if strings.TrimSpace(employeeID) == "" {
		return nil, fmt.Errorf("%w: please select an employee", models.ErrValidation)
	}

	employee, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}

	now := timeNow().In(s.location)
	log := &models.TimeLog{
		EmployeeID:   employee.ID,
		EmployeeName: employee.Name,
		Type:         logType,
		Timestamp:    models.FormatClock(now),
		Date:         models.FormatDate(now),
	}

	if err := s.timeLogRepo.Create(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to add time log: %w", err)
	}

	s.publisher.Publish(models.ChangeEvent{
		Table:  models.TableTimeLogs,
		Type:   models.ChangeInsert,
		Record: *log,
	})

	return log, nil
}

// GetAllLogs retrieves every time log in insertion order
func (s *timeLogService) GetAllLogs(ctx context.Context) ([]models.TimeLog, error) {
	return s.timeLogRepo.GetAll(ctx)
}

// GetTodayActivity returns today's events newest first, at most limit of
// them. An empty employeeID returns everyone's events.
func (s *timeLogService) GetTodayActivity(ctx context.Context, employeeID string, limit int) ([]models.TimeLog, error) {
	logs, err := s.timeLogRepo.GetByDate(ctx, s.Today())
	if err != nil {
		return nil, fmt.Errorf("failed to get today's activity: %w", err)
	}

	var recent []models.TimeLog
	for i := len(logs) - 1; i >= 0; i-- {
		if employeeID != "" && logs[i].EmployeeID != employeeID {
			continue
		}
		recent = append(recent, logs[i])
		if limit > 0 && len(recent) == limit {
			break
		}
	}

	return recent, nil
}

// Today returns the current ISO day in the configured time zone
func (s *timeLogService) Today() string {
	return models.FormatDate(timeNow().In(s.location))
}
