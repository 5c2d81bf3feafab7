package models

import "time"

// AuditLogEntry represents a single HTTP mutation event
type AuditLogEntry struct {
	ID        int64
	Timestamp time.Time
	UserEmail string
	Method    string
	Path      string
	FormData  string
	UserAgent string
	IPAddress string
}

// ChangeType is the kind of row change carried by the change feed
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeDelete ChangeType = "DELETE"
)

// Table names published on the change feed
const (
	TableEmployees = "employees"
	TableTimeLogs  = "time_logs"
)

// ChangeEvent describes one row change on a table
type ChangeEvent struct {
	Table  string      `json:"table"`
	Type   ChangeType  `json:"type"`
	Record interface{} `json:"record"`
	At     time.Time   `json:"at"`
}
