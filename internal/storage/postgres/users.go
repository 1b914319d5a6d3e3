package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finance-tracker-backend/internal/core"
	"finance-tracker-backend/internal/storage"
)

func (s *Store) CreateUser(ctx context.Context, u core.User, passwordHash string) (core.User, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		u.Email, passwordHash, u.FirstName, u.LastName,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return core.User{}, core.Conflict("Email already registered")
		}
		return core.User{}, core.DataAccess("Failed to create user", fmt.Errorf("insert user: %w", err))
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (core.User, string, error) {
	var u core.User
	var hash string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, first_name, last_name, created_at, password_hash
		FROM users
		WHERE lower(email) = lower($1)`, email,
	).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.CreatedAt, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, "", core.NotFound("User not found")
	}
	if err != nil {
		return core.User{}, "", core.DataAccess("Failed to fetch user", fmt.Errorf("get user by email: %w", err))
	}
	return u, hash, nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return core.DataAccess("Failed to delete user", fmt.Errorf("delete user: %w", err))
	}
	return nil
}

func (s *Store) CreateSession(ctx context.Context, sess storage.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		sess.Token, sess.UserID, sess.ExpiresAt)
	if err != nil {
		return core.DataAccess("Failed to create session", fmt.Errorf("insert session: %w", err))
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context, token string, now time.Time) (storage.Session, core.User, error) {
	var (
		sess storage.Session
		u    core.User
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT s.token, s.user_id, s.expires_at, u.id, u.email, u.first_name, u.last_name, u.created_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1 AND s.expires_at > $2`, token, now,
	).Scan(&sess.Token, &sess.UserID, &sess.ExpiresAt, &u.ID, &u.Email, &u.FirstName, &u.LastName, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Session{}, core.User{}, core.NotFound("Session not found")
	}
	if err != nil {
		return storage.Session{}, core.User{}, core.DataAccess("Failed to fetch session", fmt.Errorf("get session: %w", err))
	}
	return sess, u, nil
}

func (s *Store) DeleteSession(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return core.DataAccess("Failed to delete session", fmt.Errorf("delete session: %w", err))
	}
	return nil
}

func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, core.DataAccess("Failed to purge sessions", fmt.Errorf("delete expired sessions: %w", err))
	}
	n, _ := res.RowsAffected()
	return n, nil
}
