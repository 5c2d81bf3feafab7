package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/blogem/time-tracker/models"
	"github.com/google/uuid"
)

// TimeLogRepository interface defines time log database operations.
// Logs are append-only, so there is no update or delete.
type TimeLogRepository interface {
	GetAll(ctx context.Context) ([]models.TimeLog, error)
	GetByDate(ctx context.Context, date string) ([]models.TimeLog, error)
	Create(ctx context.Context, log *models.TimeLog) error
}

// timeLogRepository implements TimeLogRepository interface
type timeLogRepository struct {
	db *sql.DB
}

// NewTimeLogRepository creates a new time log repository
func NewTimeLogRepository(db *sql.DB) TimeLogRepository {
	return &timeLogRepository{db: db}
}

// GetAll retrieves every time log in insertion order
func (r *timeLogRepository) GetAll(ctx context.Context) ([]models.TimeLog, error) {
	query := `
		SELECT id, employee_id, employee_name, type, timestamp, date, created_at
		FROM time_logs
		ORDER BY created_at ASC, rowid ASC
	`
	return r.query(ctx, query)
}

// GetByDate retrieves the time logs of one ISO day in insertion order
func (r *timeLogRepository) GetByDate(ctx context.Context, date string) ([]models.TimeLog, error) {
	query := `
		SELECT id, employee_id, employee_name, type, timestamp, date, created_at
		FROM time_logs
		WHERE date = ?
		ORDER BY created_at ASC, rowid ASC
	`
	return r.query(ctx, query, date)
}

func (r *timeLogRepository) query(ctx context.Context, query string, args ...interface{}) ([]models.TimeLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query time logs: %w", err)
	}
	defer rows.Close()

	var logs []models.TimeLog
	for rows.Next() {
		var log models.TimeLog
		var logType string
		err := rows.Scan(
			&log.ID,
			&log.EmployeeID,
			&log.EmployeeName,
			&logType,
			&log.Timestamp,
			&log.Date,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time log: %w", err)
		}
		log.Type = models.LogType(logType)
		logs = append(logs, log)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating time logs: %w", err)
	}

	return logs, nil
}

// Create appends a time log, assigning its ID
func (r *timeLogRepository) Create(ctx context.Context, log *models.TimeLog) error {
	query := `
		INSERT INTO time_logs (id, employee_id, employee_name, type, timestamp, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, query,
		log.ID,
		log.EmployeeID,
		log.EmployeeName,
		string(log.Type),
		log.Timestamp,
		log.Date,
		log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create time log: %w", err)
	}

	return nil
}
