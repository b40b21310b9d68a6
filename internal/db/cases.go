package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/casebridge/casebridge/internal/models"
	"github.com/jackc/pgx/v5"
)

// ErrAlreadyClaimed indicates a claim attempt on a case that already has a
// helping user.
var ErrAlreadyClaimed = errors.New("case already claimed")

const caseColumns = `id, title, description, user_id, org_id, status, created_at`

func scanCase(row pgx.Row) (*models.Case, error) {
	var cs models.Case
	err := row.Scan(&cs.ID, &cs.Title, &cs.Description, &cs.UserID, &cs.OrgID,
		&cs.Status, &cs.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cs, nil
}

func scanCases(rows pgx.Rows) ([]models.Case, error) {
	defer rows.Close()
	cases := make([]models.Case, 0)
	for rows.Next() {
		var cs models.Case
		if err := rows.Scan(&cs.ID, &cs.Title, &cs.Description, &cs.UserID,
			&cs.OrgID, &cs.Status, &cs.CreatedAt); err != nil {
			return nil, err
		}
		cases = append(cases, cs)
	}
	return cases, rows.Err()
}

// CreateCase inserts a case owned by the given principal
func (db *Database) CreateCase(ctx context.Context, req models.CaseCreateRequest, principal models.Principal) (*models.Case, error) {
	var userID, orgID *int64
	switch principal.Type {
	case models.PrincipalUser:
		userID = &principal.ID
	case models.PrincipalOrg:
		orgID = &principal.ID
	default:
		return nil, fmt.Errorf("unknown principal type: %s", principal.Type)
	}

	query := `
		INSERT INTO cases (title, description, user_id, org_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + caseColumns
	cs, err := scanCase(db.Pool.QueryRow(ctx, query, req.Title, req.Description, userID, orgID))
	if err != nil {
		return nil, fmt.Errorf("failed to create case: %w", err)
	}
	return cs, nil
}

// GetCases returns every non-deleted case
func (db *Database) GetCases(ctx context.Context) ([]models.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE status <> 'deleted' ORDER BY created_at DESC`
	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return scanCases(rows)
}

// GetCasesByOrg returns non-deleted cases belonging to an organization.
// An organization with zero cases yields an empty list, not an error.
func (db *Database) GetCasesByOrg(ctx context.Context, orgID int64) ([]models.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE org_id = $1 AND status <> 'deleted' ORDER BY created_at DESC`
	rows, err := db.Pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	return scanCases(rows)
}

// GetCasesByUser returns non-deleted cases associated with a user
func (db *Database) GetCasesByUser(ctx context.Context, userID int64) ([]models.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE user_id = $1 AND status <> 'deleted' ORDER BY created_at DESC`
	rows, err := db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return scanCases(rows)
}

// GetCase returns a single non-deleted case
func (db *Database) GetCase(ctx context.Context, id int64) (*models.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE id = $1 AND status <> 'deleted'`
	cs, err := scanCase(db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get case: %w", err)
	}
	return cs, nil
}

// UpdateCase applies a partial update to a non-deleted case
func (db *Database) UpdateCase(ctx context.Context, id int64, updates models.CaseUpdateRequest) (*models.Case, error) {
	var setParts []string
	var args []interface{}
	argIndex := 1

	if updates.Title != nil {
		setParts = append(setParts, fmt.Sprintf("title = $%d", argIndex))
		args = append(args, *updates.Title)
		argIndex++
	}
	if updates.Description != nil {
		setParts = append(setParts, fmt.Sprintf("description = $%d", argIndex))
		args = append(args, *updates.Description)
		argIndex++
	}

	if len(setParts) == 0 {
		return db.GetCase(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE cases SET %s WHERE id = $%d AND status <> 'deleted' RETURNING %s",
		strings.Join(setParts, ", "), argIndex, caseColumns)

	cs, err := scanCase(db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update case: %w", err)
	}
	return cs, nil
}

// ClaimCase associates a helping user with an unclaimed case. The conditional
// UPDATE makes two concurrent claims race on the row, not in the application.
func (db *Database) ClaimCase(ctx context.Context, id, userID int64) (*models.Case, error) {
	query := `
		UPDATE cases SET user_id = $1
		WHERE id = $2 AND status <> 'deleted' AND user_id IS NULL
		RETURNING ` + caseColumns
	cs, err := scanCase(db.Pool.QueryRow(ctx, query, userID, id))
	if err == nil {
		return cs, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to claim case: %w", err)
	}

	// No row updated: either the case is gone or someone got there first
	if _, getErr := db.GetCase(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, ErrAlreadyClaimed
}

// DeleteCase marks a case deleted. The row stays so log references survive.
func (db *Database) DeleteCase(ctx context.Context, id int64) error {
	cmd, err := db.Pool.Exec(ctx,
		`UPDATE cases SET status = 'deleted' WHERE id = $1 AND status <> 'deleted'`, id)
	if err != nil {
		return fmt.Errorf("failed to delete case: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ResolveCase marks a case resolved
func (db *Database) ResolveCase(ctx context.Context, id int64) (*models.Case, error) {
	query := `
		UPDATE cases SET status = 'resolved'
		WHERE id = $1 AND status <> 'deleted'
		RETURNING ` + caseColumns
	cs, err := scanCase(db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to resolve case: %w", err)
	}
	return cs, nil
}
