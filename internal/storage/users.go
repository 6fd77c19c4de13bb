package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"formcount/internal/core"
)

// GetUserByUsername returns the stored account or core.ErrNotFound.
func (r *SQLiteRepository) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	var (
		u         core.User
		createdAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, constituency, created_at
		   FROM users WHERE username = ? LIMIT 1`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Constituency, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user %s: %w", username, err)
	}
	u.CreatedAt = parseTimestamp(createdAt)
	return u, nil
}

// UpsertUser creates the account or replaces its hash, role and constituency.
func (r *SQLiteRepository) UpsertUser(ctx context.Context, u core.User) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (username, password_hash, role, constituency)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (username) DO UPDATE SET
		     password_hash = excluded.password_hash,
		     role = excluded.role,
		     constituency = excluded.constituency
		 RETURNING id`,
		u.Username, u.PasswordHash, u.Role, u.Constituency).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert user %s: %w", u.Username, err)
	}
	return id, nil
}
