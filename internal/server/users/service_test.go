package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/docreview/internal/server/auth"
	"github.com/dmitrijs2005/docreview/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	hashes   map[string]string
	LastUser string
}

func (f *fakeRepo) PasswordHash(ctx context.Context, username string) (string, error) {
	f.LastUser = username
	h, ok := f.hashes[username]
	if !ok {
		return "", errors.New("not found")
	}
	return h, nil
}

func newService(t *testing.T, validity time.Duration) (*Service, *fakeRepo) {
	t.Helper()
	hash, err := auth.HashPassword("secret")
	require.NoError(t, err)
	repo := &fakeRepo{hashes: map[string]string{"reviewer": hash}}
	cfg := &config.Config{SecretKey: "k", TokenValidity: validity}
	return NewService(repo, cfg), repo
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	s, repo := newService(t, time.Hour)

	token, err := s.Login(ctx, "reviewer", "secret")
	require.NoError(t, err)
	assert.Equal(t, "reviewer", repo.LastUser)

	sub, err := s.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "reviewer", sub)

	_, err = s.Login(ctx, "reviewer", "wrong")
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = s.Login(ctx, "ghost", "secret")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t, -time.Minute)

	token, err := s.Login(ctx, "reviewer", "secret")
	require.NoError(t, err)

	_, err = s.Authenticate(ctx, token)
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = s.Authenticate(ctx, "")
	require.ErrorIs(t, err, ErrUnauthorized)
}
