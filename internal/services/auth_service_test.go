package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formcount/internal/auth"
	"formcount/internal/core"
)

func TestLogin(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	tokens := auth.NewTokens("secret", time.Hour)
	svc := NewAuthService(repo, tokens)

	id, err := svc.CreateUser(ctx, "admin", "pw", core.RoleAdmin, 0)
	require.NoError(t, err)

	res, err := svc.Login(ctx, "admin", "pw")
	require.NoError(t, err)
	assert.Equal(t, id, res.User.ID)
	assert.Equal(t, core.RoleAdmin, res.User.Role)

	parsed, err := tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User, parsed)

	_, err = svc.Login(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "ghost", "pw")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "", "pw")
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestCreateUserValidation(t *testing.T) {
	svc := NewAuthService(newRepo(t), auth.NewTokens("s", 0))
	_, err := svc.CreateUser(context.Background(), "u", "pw", "root", 1)
	assert.ErrorIs(t, err, core.ErrValidation)
	_, err = svc.CreateUser(context.Background(), " ", "pw", core.RoleUser, 1)
	assert.ErrorIs(t, err, core.ErrValidation)
}
