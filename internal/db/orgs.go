package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/casebridge/casebridge/internal/models"
	"github.com/jackc/pgx/v5"
)

const orgColumns = `id, name, email, phone, address, number, complement, city, uf, created_at`

func scanOrg(row pgx.Row) (*models.Organization, error) {
	var o models.Organization
	err := row.Scan(&o.ID, &o.Name, &o.Email, &o.Phone, &o.Address, &o.Number,
		&o.Complement, &o.City, &o.UF, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// CreateOrg inserts a new organization row
func (db *Database) CreateOrg(ctx context.Context, req models.OrgCreateRequest, passwordHash string) (*models.Organization, error) {
	query := `
		INSERT INTO organizations (name, email, password_hash, phone, address, number, complement, city, uf)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + orgColumns
	number := 0
	if req.Number != nil {
		number = *req.Number
	}
	org, err := scanOrg(db.Pool.QueryRow(ctx, query,
		req.Name, req.Email, passwordHash, req.Phone, req.Address, number,
		req.Complement, req.City, req.UF,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}
	return org, nil
}

// GetOrgByID retrieves an organization by ID, password hash excluded
func (db *Database) GetOrgByID(ctx context.Context, id int64) (*models.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations WHERE id = $1`
	org, err := scanOrg(db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return org, nil
}

// GetOrgByEmail retrieves an organization including the password hash; login only
func (db *Database) GetOrgByEmail(ctx context.Context, email string) (*models.Organization, error) {
	query := `
		SELECT id, name, email, password_hash, phone, address, number, complement, city, uf, created_at
		FROM organizations WHERE email = $1`
	var o models.Organization
	err := db.Pool.QueryRow(ctx, query, email).Scan(
		&o.ID, &o.Name, &o.Email, &o.PasswordHash, &o.Phone, &o.Address,
		&o.Number, &o.Complement, &o.City, &o.UF, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get organization by email: %w", err)
	}
	return &o, nil
}

// GetOrgs retrieves all organizations, password hashes excluded
func (db *Database) GetOrgs(ctx context.Context) ([]models.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations ORDER BY name`
	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orgs := make([]models.Organization, 0)
	for rows.Next() {
		var o models.Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.Email, &o.Phone, &o.Address,
			&o.Number, &o.Complement, &o.City, &o.UF, &o.CreatedAt); err != nil {
			return nil, err
		}
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}

// UpdateOrg applies a partial update; only non-nil fields change
func (db *Database) UpdateOrg(ctx context.Context, id int64, updates models.OrgUpdateRequest, passwordHash *string) (*models.Organization, error) {
	var setParts []string
	var args []interface{}
	argIndex := 1

	set := func(column string, value interface{}) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if updates.Name != nil {
		set("name", *updates.Name)
	}
	if updates.Email != nil {
		set("email", *updates.Email)
	}
	if passwordHash != nil {
		set("password_hash", *passwordHash)
	}
	if updates.Phone != nil {
		set("phone", *updates.Phone)
	}
	if updates.Address != nil {
		set("address", *updates.Address)
	}
	if updates.Number != nil {
		set("number", *updates.Number)
	}
	if updates.Complement != nil {
		set("complement", *updates.Complement)
	}
	if updates.City != nil {
		set("city", *updates.City)
	}
	if updates.UF != nil {
		set("uf", *updates.UF)
	}

	if len(setParts) == 0 {
		return db.GetOrgByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE organizations SET %s WHERE id = $%d RETURNING %s",
		strings.Join(setParts, ", "), argIndex, orgColumns)

	org, err := scanOrg(db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}
	return org, nil
}

// DeleteOrg removes an organization row; owned cases and logs are orphaned,
// not removed.
func (db *Database) DeleteOrg(ctx context.Context, id int64) error {
	cmd, err := db.Pool.Exec(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
