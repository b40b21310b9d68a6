package db

import (
	"context"
	"fmt"

	"github.com/casebridge/casebridge/internal/models"
)

// AppendLog inserts an audit record. Rows in logs are never updated or
// deleted afterwards.
func (db *Database) AppendLog(ctx context.Context, entry models.LogEntry) (*models.Log, error) {
	query := `
		INSERT INTO logs (title, description, user_id, org_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, description, user_id, org_id, created_at`
	var l models.Log
	err := db.Pool.QueryRow(ctx, query, entry.Title, entry.Description, entry.UserID, entry.OrgID).
		Scan(&l.ID, &l.Title, &l.Description, &l.UserID, &l.OrgID, &l.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to append log: %w", err)
	}
	return &l, nil
}

// GetLogsForPrincipal returns logs scoped to the given principal
func (db *Database) GetLogsForPrincipal(ctx context.Context, principal models.Principal) ([]models.Log, error) {
	var query string
	switch principal.Type {
	case models.PrincipalOrg:
		query = `SELECT id, title, description, user_id, org_id, created_at FROM logs WHERE org_id = $1 ORDER BY created_at DESC`
	case models.PrincipalUser:
		query = `SELECT id, title, description, user_id, org_id, created_at FROM logs WHERE user_id = $1 ORDER BY created_at DESC`
	default:
		return nil, fmt.Errorf("unknown principal type: %s", principal.Type)
	}

	rows, err := db.Pool.Query(ctx, query, principal.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]models.Log, 0)
	for rows.Next() {
		var l models.Log
		if err := rows.Scan(&l.ID, &l.Title, &l.Description, &l.UserID, &l.OrgID, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
