package models

import (
	"fmt"
	"strings"
	"time"
)

// Period selects which days a report covers
type Period string

const (
	PeriodAll    Period = "all"
	PeriodToday  Period = "today"
	PeriodWeek   Period = "week"
	PeriodCustom Period = "custom"
)

// Periods lists the report periods in menu order
var Periods = []Period{PeriodAll, PeriodToday, PeriodWeek, PeriodCustom}

// Label returns the menu text of the period
func (p Period) Label() string {
	switch p {
	case PeriodAll:
		return "All Time"
	case PeriodToday:
		return "Today"
	case PeriodWeek:
		return "Last 7 Days"
	case PeriodCustom:
		return "Custom Date"
	default:
		return string(p)
	}
}

// ReportFilter narrows the time logs that feed a report
type ReportFilter struct {
	EmployeeID string `json:"employee_id"`
	Period     Period `json:"period"`
	Date       string `json:"date"` // only used with PeriodCustom
}

// DailyReport is the per-date summary of the four event types.
// Empty strings mean the value is absent.
type DailyReport struct {
	Date          string `json:"date"`
	CheckIn       string `json:"check_in,omitempty"`
	BreakStart    string `json:"break_start,omitempty"`
	BreakEnd      string `json:"break_end,omitempty"`
	CheckOut      string `json:"check_out,omitempty"`
	TotalHours    string `json:"total_hours,omitempty"`
	BreakDuration string `json:"break_duration,omitempty"`
	WorkedMinutes *int64 `json:"worked_minutes,omitempty"`
	BreakMinutes  *int64 `json:"break_minutes,omitempty"`
}

// ReportView is everything the reports page and API return
type ReportView struct {
	Filter       ReportFilter  `json:"filter"`
	EmployeeName string        `json:"employee_name"`
	Rows         []DailyReport `json:"rows"`
}

// CSVHeader is the header line of the attendance export
var CSVHeader = []string{"Date", "Employee", "Check In", "Break Start", "Break End", "Check Out", "Total Hours", "Break Duration"}

// AllEmployeesLabel is the employee column value when no employee is selected
const AllEmployeesLabel = "All Employees"

// Placeholder marks absent values in exports
const Placeholder = "-"

// Normalize fills defaults and trims input
func (f *ReportFilter) Normalize() {
	f.EmployeeID = strings.TrimSpace(f.EmployeeID)
	f.Date = strings.TrimSpace(f.Date)
	f.Period = Period(strings.ToLower(strings.TrimSpace(string(f.Period))))
	if f.Period == "" {
		f.Period = PeriodAll
	}
}

// Validate validates the report filter
func (f *ReportFilter) Validate() []string {
	var errors []string

	switch f.Period {
	case PeriodAll, PeriodToday, PeriodWeek, PeriodCustom:
	default:
		errors = append(errors, fmt.Sprintf("Unknown time period %q", f.Period))
	}

	if f.Period == PeriodCustom && f.Date != "" {
		if _, err := ParseDate(f.Date); err != nil {
			errors = append(errors, "Date must be in YYYY-MM-DD format")
		}
	}

	return errors
}

// CSVRecord flattens the row using '-' for absent fields
func (r *DailyReport) CSVRecord(employeeName string) []string {
	return []string{
		FormatDisplayDate(r.Date),
		employeeName,
		orPlaceholder(r.CheckIn),
		orPlaceholder(r.BreakStart),
		orPlaceholder(r.BreakEnd),
		orPlaceholder(r.CheckOut),
		orPlaceholder(r.TotalHours),
		orPlaceholder(r.BreakDuration),
	}
}

// FormatTotalHours renders a duration as "{h}h {m}m"
func FormatTotalHours(d time.Duration) string {
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// FormatBreakDuration renders a duration as whole minutes, "{m}m"
func FormatBreakDuration(d time.Duration) string {
	return fmt.Sprintf("%dm", int(d/time.Minute))
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}
