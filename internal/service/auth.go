package service

import (
	"context"
	"errors"
	"strings"

	"finance-tracker-backend/internal/auth"
	"finance-tracker-backend/internal/core"
	"finance-tracker-backend/internal/log"
	"finance-tracker-backend/internal/storage"
)

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates the user and opens a session for it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (auth.Session, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return auth.Session{}, core.Validation("Email and password are required")
	}
	if at := strings.Index(email, "@"); at < 1 || at == len(email)-1 {
		return auth.Session{}, core.Validation("Invalid email address")
	}
	if len(in.Password) < auth.MinPasswordLength {
		return auth.Session{}, core.Validation("Password must be at least 8 characters")
	}
	if len(in.Password) > auth.MaxPasswordLength {
		return auth.Session{}, core.Validation("Password must be at most 72 characters")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return auth.Session{}, core.DataAccess("Failed to register user", err)
	}

	u, err := s.store.CreateUser(ctx, core.User{
		Email:     email,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	}, hash)
	if err != nil {
		return auth.Session{}, dataAccess("Failed to register user", err)
	}

	s.logger.InfoContext(ctx, "User registered", log.FieldUserID, u.ID)
	return s.openSession(ctx, u)
}

// Login checks the credentials and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (auth.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return auth.Session{}, core.Validation("Email and password are required")
	}

	u, hash, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, core.ErrNotFound) {
		return auth.Session{}, core.Unauthorized("Invalid email or password")
	}
	if err != nil {
		return auth.Session{}, dataAccess("Failed to log in", err)
	}
	if !auth.CheckPassword(hash, password) {
		return auth.Session{}, core.Unauthorized("Invalid email or password")
	}
	return s.openSession(ctx, u)
}

func (s *Service) openSession(ctx context.Context, u core.User) (auth.Session, error) {
	sess := auth.Session{
		Token:     auth.NewToken(),
		User:      u,
		ExpiresAt: s.now().Add(s.sessionTTL).UTC(),
	}
	err := s.store.CreateSession(ctx, storage.Session{Token: sess.Token, UserID: u.ID, ExpiresAt: sess.ExpiresAt})
	if err != nil {
		return auth.Session{}, dataAccess("Failed to create session", err)
	}
	return sess, nil
}

// Logout ends the session identified by token.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.store.DeleteSession(ctx, token); err != nil {
		return dataAccess("Failed to log out", err)
	}
	return nil
}

// Authenticate resolves a bearer token into its session.
func (s *Service) Authenticate(ctx context.Context, token string) (auth.Session, error) {
	if token == "" {
		return auth.Session{}, core.Unauthorized("Access token required")
	}
	sess, u, err := s.store.GetSession(ctx, token, s.now())
	if errors.Is(err, core.ErrNotFound) {
		return auth.Session{}, core.Unauthorized("Invalid or expired token")
	}
	if err != nil {
		return auth.Session{}, dataAccess("Failed to verify token", err)
	}
	return auth.Session{Token: sess.Token, User: u, ExpiresAt: sess.ExpiresAt}, nil
}
