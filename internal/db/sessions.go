package db

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/casebridge/casebridge/internal/models"
	"github.com/jackc/pgx/v5"
)

// HashSessionToken computes a URL-safe base64-encoded SHA-256 hash of the
// session token. Only the hash is ever stored.
func HashSessionToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// CreateSession stores a hashed session token bound to a principal
func (db *Database) CreateSession(ctx context.Context, tokenHash string, principal models.Principal, expiresAt time.Time, ip, userAgent string) (*models.Session, error) {
	query := `
		INSERT INTO sessions (token_hash, principal_type, principal_id, expires_at, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, NULLIF($5,''), NULLIF($6,''))
		RETURNING id, token_hash, principal_type, principal_id, expires_at, revoked, created_at`
	var s models.Session
	err := db.Pool.QueryRow(ctx, query, tokenHash, string(principal.Type), principal.ID, expiresAt, ip, userAgent).
		Scan(&s.ID, &s.TokenHash, &s.PrincipalType, &s.PrincipalID, &s.ExpiresAt, &s.Revoked, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &s, nil
}

// GetSession looks up a session by token hash
func (db *Database) GetSession(ctx context.Context, tokenHash string) (*models.Session, error) {
	query := `
		SELECT id, token_hash, principal_type, principal_id, expires_at, revoked, created_at
		FROM sessions WHERE token_hash = $1`
	var s models.Session
	err := db.Pool.QueryRow(ctx, query, tokenHash).
		Scan(&s.ID, &s.TokenHash, &s.PrincipalType, &s.PrincipalID, &s.ExpiresAt, &s.Revoked, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

// RevokeSession marks a session revoked by token hash. Revoking an unknown
// or already-revoked token is not an error, so logout stays idempotent.
func (db *Database) RevokeSession(ctx context.Context, tokenHash string) error {
	_, err := db.Pool.Exec(ctx, `UPDATE sessions SET revoked = true WHERE token_hash = $1`, tokenHash)
	return err
}

// CleanupExpiredSessions removes long-expired rows (maintenance helper)
func (db *Database) CleanupExpiredSessions(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx,
		`DELETE FROM sessions WHERE expires_at < now() - interval '7 days' OR (revoked = true AND expires_at < now())`)
	return err
}
