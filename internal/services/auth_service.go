package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"formcount/internal/auth"
	"formcount/internal/core"
)

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token string        `json:"token"`
	User  core.Identity `json:"user"`
}

// AuthService verifies credentials and issues bearer tokens.
type AuthService struct {
	users  UserStore
	tokens *auth.Tokens
}

func NewAuthService(users UserStore, tokens *auth.Tokens) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// ErrCredentialsRequired rejects a login without username or password.
var ErrCredentialsRequired = core.NewValidationError("username and password required")

// Login checks the password against the stored hash and returns a token
// carrying the user's identity claims.
func (s *AuthService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	if username == "" || password == "" {
		return LoginResult{}, ErrCredentialsRequired
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, core.ErrNotFound) {
		return LoginResult{}, core.ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("load user: %w", err)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		slog.WarnContext(ctx, "Stored password hash is unusable", "user_id", user.ID, "error", err)
		return LoginResult{}, core.ErrInvalidCredentials
	}
	if !ok {
		return LoginResult{}, core.ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(user.Identity)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}
	return LoginResult{Token: token, User: user.Identity}, nil
}

// CreateUser hashes password and creates or updates the account.
func (s *AuthService) CreateUser(ctx context.Context, username, password, role string, constituency int64) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return 0, ErrCredentialsRequired
	}
	if role != core.RoleAdmin && role != core.RoleUser {
		return 0, core.NewValidationError("role must be admin or user")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return 0, err
	}
	return s.users.UpsertUser(ctx, core.User{
		Identity:     core.Identity{Username: username, Role: role, Constituency: constituency},
		PasswordHash: hash,
	})
}
