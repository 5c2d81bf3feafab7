package models

import (
	"errors"
	"time"
)

// ISODateLayout is the layout of TimeLog.Date and report dates
const ISODateLayout = "2006-01-02"

// Sentinel errors shared by repositories, services and controllers
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid admin email or password")
	ErrEmployeeNotFound   = errors.New("employee not found, please check your email")
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEmail     = errors.New("an employee with this email already exists")
)

// AuditFields contains common audit tracking fields
type AuditFields struct {
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FormatDate formats a time as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(ISODateLayout)
}

// ParseDate parses a YYYY-MM-DD string into a time.Time
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse(ISODateLayout, dateStr)
}

// FormatDisplayDate renders an ISO day as "Mon, Jan 2, 2006".
// Unparseable input is returned unchanged.
func FormatDisplayDate(isoDate string) string {
	t, err := ParseDate(isoDate)
	if err != nil {
		return isoDate
	}
	return t.Format("Mon, Jan 2, 2006")
}

// isValidEmail performs basic email validation
func isValidEmail(email string) bool {
	// Simple validation: must contain @ and at least one dot after @
	atIndex := -1
	for i, char := range email {
		if char == '@' {
			if atIndex != -1 {
				return false // Multiple @ symbols
			}
			atIndex = i
		}
	}

	if atIndex == -1 || atIndex == 0 || atIndex == len(email)-1 {
		return false // No @, or @ at start/end
	}

	// Check for dot after @
	for i := atIndex + 1; i < len(email); i++ {
		if email[i] == '.' && i < len(email)-1 {
			return true
		}
	}

	return false
}
