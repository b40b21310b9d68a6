package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/casebridge/casebridge/internal/models"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, email, phone, address, number, complement, city, uf, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Address, &u.Number,
		&u.Complement, &u.City, &u.UF, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user row. Email uniqueness is decided by the
// constraint, so concurrent signups race in Postgres, not here.
func (db *Database) CreateUser(ctx context.Context, req models.UserCreateRequest, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, phone, address, number, complement, city, uf)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + userColumns
	number := 0
	if req.Number != nil {
		number = *req.Number
	}
	user, err := scanUser(db.Pool.QueryRow(ctx, query,
		req.Name, req.Email, passwordHash, req.Phone, req.Address, number,
		req.Complement, req.City, req.UF,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by ID, password hash excluded
func (db *Database) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user including the password hash; login only
func (db *Database) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, phone, address, number, complement, city, uf, created_at
		FROM users WHERE email = $1`
	var u models.User
	err := db.Pool.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &u.Address,
		&u.Number, &u.Complement, &u.City, &u.UF, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, nil
}

// GetUsers retrieves all users, password hashes excluded
func (db *Database) GetUsers(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Address,
			&u.Number, &u.Complement, &u.City, &u.UF, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUser applies a partial update; only non-nil fields change. An empty
// update is a no-op and returns the current row.
func (db *Database) UpdateUser(ctx context.Context, id int64, updates models.UserUpdateRequest, passwordHash *string) (*models.User, error) {
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
		return db.GetUserByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d RETURNING %s",
		strings.Join(setParts, ", "), argIndex, userColumns)

	user, err := scanUser(db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteUser removes a user row. Cases and logs keep their rows with the
// user reference nulled by the foreign keys.
func (db *Database) DeleteUser(ctx context.Context, id int64) error {
	cmd, err := db.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
