package models

import (
	"time"
)

// CaseStatus represents the case lifecycle flag
type CaseStatus string

const (
	CaseOpen     CaseStatus = "open"
	CaseResolved CaseStatus = "resolved"
	CaseDeleted  CaseStatus = "deleted"
)

// Case represents a posted request/cause. Exactly one of UserID/OrgID is set
// at creation, depending on which principal type created it; a later claim
// may set the other.
type Case struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	UserID      *int64     `json:"user_id,omitempty" db:"user_id"`
	OrgID       *int64     `json:"org_id,omitempty" db:"org_id"`
	Status      CaseStatus `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// CaseCreateRequest represents the case creation payload
type CaseCreateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// CaseUpdateRequest represents a partial case update
type CaseUpdateRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Empty reports whether the update carries no fields
func (r CaseUpdateRequest) Empty() bool {
	return r.Title == nil && r.Description == nil
}

// ValidateCaseStatus validates if the status is valid
func ValidateCaseStatus(status string) bool {
	switch CaseStatus(status) {
	case CaseOpen, CaseResolved, CaseDeleted:
		return true
	default:
		return false
	}
}
