package models

import (
	"time"
)

// PrincipalType distinguishes the two authenticable identity types
type PrincipalType string

const (
	PrincipalUser PrincipalType = "user"
	PrincipalOrg  PrincipalType = "org"
)

// ValidatePrincipalType validates if the type is valid
func ValidatePrincipalType(t string) bool {
	switch PrincipalType(t) {
	case PrincipalUser, PrincipalOrg:
		return true
	default:
		return false
	}
}

// Principal is the identity the auth middleware attaches to the request
type Principal struct {
	Type PrincipalType `json:"type"`
	ID   int64         `json:"id"`
}

// Session represents a server-side session row. Only the SHA-256 hash of the
// issued token is stored.
type Session struct {
	ID            int64         `json:"id" db:"id"`
	TokenHash     string        `json:"-" db:"token_hash"`
	PrincipalType PrincipalType `json:"principal_type" db:"principal_type"`
	PrincipalID   int64         `json:"principal_id" db:"principal_id"`
	ExpiresAt     time.Time     `json:"expires_at" db:"expires_at"`
	Revoked       bool          `json:"revoked" db:"revoked"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

// Active reports whether the session still authenticates at the given time
func (s Session) Active(now time.Time) bool {
	return !s.Revoked && now.Before(s.ExpiresAt)
}

// LoginRequest represents the credential exchange payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Type     string `json:"type" binding:"required"`
}

// LoginResponse carries the issued session token
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Principal Principal `json:"principal"`
}
