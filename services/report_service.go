package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/blogem/time-tracker/models"
	"github.com/blogem/time-tracker/repositories"
)

// ReportService interface defines attendance reporting
type ReportService interface {
	GetReport(ctx context.Context, filter models.ReportFilter) (*models.ReportView, error)
	WriteCSV(ctx context.Context, filter models.ReportFilter, w io.Writer) (int, error)
	WriteXLSX(ctx context.Context, filter models.ReportFilter, w io.Writer) (int, error)
	ExportFilename(ext string) string
}

// reportService implements ReportService interface
type reportService struct {
	timeLogRepo  repositories.TimeLogRepository
	employeeRepo repositories.EmployeeRepository
	location     *time.Location
}

// NewReportService creates a new report service
func NewReportService(
	timeLogRepo repositories.TimeLogRepository,
	employeeRepo repositories.EmployeeRepository,
	location *time.Location,
) ReportService {
	if location == nil {
		location = time.Local
	}
	return &reportService{
		timeLogRepo:  timeLogRepo,
		employeeRepo: employeeRepo,
		location:     location,
	}
}

// GetReport filters all time logs and aggregates them into daily rows
func (s *reportService) GetReport(ctx context.Context, filter models.ReportFilter) (*models.ReportView, error) {
	filter.Normalize()
	if errors := filter.Validate(); len(errors) > 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrValidation, strings.Join(errors, ", "))
	}

	logs, err := s.timeLogRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load time logs: %w", err)
	}

	employeeName, err := s.employeeName(ctx, filter.EmployeeID, logs)
	if err != nil {
		return nil, err
	}

	return &models.ReportView{
		Filter:       filter,
		EmployeeName: employeeName,
		Rows:         BuildDailyReports(logs, filter, timeNow().In(s.location)),
	}, nil
}

// WriteCSV writes the report as CSV and returns the number of data rows
func (s *reportService) WriteCSV(ctx context.Context, filter models.ReportFilter, w io.Writer) (int, error) {
	report, err := s.GetReport(ctx, filter)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(models.CSVHeader); err != nil {
		return 0, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range report.Rows {
		if err := cw.Write(row.CSVRecord(report.EmployeeName)); err != nil {
			return 0, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush csv: %w", err)
	}

	return len(report.Rows), nil
}

// ExportFilename returns attendance-report-YYYY-MM-DD.<ext>
func (s *reportService) ExportFilename(ext string) string {
	return fmt.Sprintf("attendance-report-%s.%s", models.FormatDate(timeNow().In(s.location)), ext)
}

// employeeName resolves the label of the employee column. A deleted
// employee falls back to the name denormalized on their logs.
func (s *reportService) employeeName(ctx context.Context, employeeID string, logs []models.TimeLog) (string, error) {
	if employeeID == "" {
		return models.AllEmployeesLabel, nil
	}

	employee, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err == nil {
		return employee.Name, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return "", fmt.Errorf("failed to load employee: %w", err)
	}

	for _, log := range logs {
		if log.EmployeeID == employeeID {
			return log.EmployeeName, nil
		}
	}
	return models.AllEmployeesLabel, nil
}

// FilterLogs applies the employee and date filters. today is the current
// instant in the reporting time zone.
func FilterLogs(logs []models.TimeLog, filter models.ReportFilter, today time.Time) []models.TimeLog {
	todayStr := models.FormatDate(today)
	weekAgoStr := models.FormatDate(today.AddDate(0, 0, -7))

	var filtered []models.TimeLog
	for _, log := range logs {
		if filter.EmployeeID != "" && log.EmployeeID != filter.EmployeeID {
			continue
		}

		switch filter.Period {
		case models.PeriodToday:
			if log.Date != todayStr {
				continue
			}
		case models.PeriodWeek:
			if log.Date < weekAgoStr {
				continue
			}
		case models.PeriodCustom:
			if filter.Date != "" && log.Date != filter.Date {
				continue
			}
		}

		filtered = append(filtered, log)
	}
	return filtered
}

// BuildDailyReports reduces the filtered logs to one row per date, newest
// date first. Within a date the last event of each type wins.
func BuildDailyReports(logs []models.TimeLog, filter models.ReportFilter, today time.Time) []models.DailyReport {
	byDate := make(map[string]*models.DailyReport)

	for _, log := range FilterLogs(logs, filter, today) {
		report, ok := byDate[log.Date]
		if !ok {
			report = &models.DailyReport{Date: log.Date}
			byDate[log.Date] = report
		}

		switch log.Type {
		case models.LogCheckIn:
			report.CheckIn = log.Timestamp
		case models.LogBreakStart:
			report.BreakStart = log.Timestamp
		case models.LogBreakEnd:
			report.BreakEnd = log.Timestamp
		case models.LogCheckOut:
			report.CheckOut = log.Timestamp
		}
	}

	reports := make([]models.DailyReport, 0, len(byDate))
	for _, report := range byDate {
		computeDurations(report)
		reports = append(reports, *report)
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Date > reports[j].Date
	})

	return reports
}

// computeDurations fills total hours and break duration when both ends of
// the pair exist and parse
func computeDurations(report *models.DailyReport) {
	if worked, ok := clockDiff(report.CheckIn, report.CheckOut); ok {
		minutes := int64(worked / time.Minute)
		report.TotalHours = models.FormatTotalHours(worked)
		report.WorkedMinutes = &minutes
	}

	if onBreak, ok := clockDiff(report.BreakStart, report.BreakEnd); ok {
		minutes := int64(onBreak / time.Minute)
		report.BreakDuration = models.FormatBreakDuration(onBreak)
		report.BreakMinutes = &minutes
	}
}

// clockDiff returns end-start for two same-day clock strings
func clockDiff(start, end string) (time.Duration, bool) {
	if start == "" || end == "" {
		return 0, false
	}
	from, ok := models.ParseClock(start)
	if !ok {
		return 0, false
	}
	to, ok := models.ParseClock(end)
	if !ok {
		return 0, false
	}
	if to < from {
		return 0, false
	}
	return to - from, true
}
