package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LogType is the kind of a time-tracking event
type LogType string

const (
	LogCheckIn    LogType = "check-in"
	LogBreakStart LogType = "break-start"
	LogBreakEnd   LogType = "break-end"
	LogCheckOut   LogType = "check-out"
)

// ClockLayout is the 12-hour clock format stored in TimeLog.Timestamp
const ClockLayout = "03:04:05 PM"

// LogTypes lists the event types in the order the panel shows them
var LogTypes = []LogType{LogCheckIn, LogBreakStart, LogBreakEnd, LogCheckOut}

// TimeLog is a single append-only attendance event
type TimeLog struct {
	ID           string    `json:"id" db:"id"`
	EmployeeID   string    `json:"employee_id" db:"employee_id"`
	EmployeeName string    `json:"employee_name" db:"employee_name"`
	Type         LogType   `json:"type" db:"type"`
	Timestamp    string    `json:"timestamp" db:"timestamp"`
	Date         string    `json:"date" db:"date"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// ParseLogType converts a raw string into a LogType
func ParseLogType(s string) (LogType, error) {
	t := LogType(strings.TrimSpace(s))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: invalid log type %q", ErrValidation, s)
	}
	return t, nil
}

// IsValid reports whether t is one of the four known event types
func (t LogType) IsValid() bool {
	switch t {
	case LogCheckIn, LogBreakStart, LogBreakEnd, LogCheckOut:
		return true
	}
	return false
}

// Label returns the human readable activity label
func (t LogType) Label() string {
	switch t {
	case LogCheckIn:
		return "Checked In"
	case LogBreakStart:
		return "Break Started"
	case LogBreakEnd:
		return "Returned from Break"
	case LogCheckOut:
		return "Checked Out"
	}
	return string(t)
}

// ButtonLabel returns the label of the action that records t
func (t LogType) ButtonLabel() string {
	switch t {
	case LogCheckIn:
		return "Check In"
	case LogBreakStart:
		return "Start Break"
	case LogBreakEnd:
		return "End Break"
	case LogCheckOut:
		return "Check Out"
	}
	return string(t)
}

// FormatClock renders t as the 12-hour clock string stored on a TimeLog
func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}

// ParseClock parses a 12-hour "hh:mm[:ss] AM|PM" string (24-hour input
// without a period is accepted too) into an offset from midnight.
// ok is false for anything malformed.
func ParseClock(s string) (offset time.Duration, ok bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return 0, false
	}

	parts := strings.Split(fields[0], ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, false
		}
		nums[i] = n
	}
	hours, minutes, seconds := nums[0], nums[1], nums[2]

	if minutes > 59 || seconds > 59 {
		return 0, false
	}

	if len(fields) == 2 {
		if hours < 1 || hours > 12 {
			return 0, false
		}
		switch strings.ToUpper(fields[1]) {
		case "AM":
			if hours == 12 {
				hours = 0
			}
		case "PM":
			if hours != 12 {
				hours += 12
			}
		default:
			return 0, false
		}
	} else if hours > 23 {
		return 0, false
	}

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second, true
}
