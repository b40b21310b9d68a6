package models

import (
	"time"
)

// Log is an append-only audit record of an organizational action.
// Rows are never updated or deleted once written.
type Log struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	UserID      *int64    `json:"user_id,omitempty" db:"user_id"`
	OrgID       *int64    `json:"org_id,omitempty" db:"org_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// LogEntry is the append contract used by components performing auditable
// actions. The append is fire-and-forget for callers.
type LogEntry struct {
	Title       string
	Description string
	UserID      *int64
	OrgID       *int64
}
