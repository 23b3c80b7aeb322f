// Package users authenticates reviewers and issues their access tokens.
package users

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/docreview/internal/server/auth"
	"github.com/dmitrijs2005/docreview/internal/server/config"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
)

type Service struct {
	repo                        Repository
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                        repo,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.TokenValidity,
	}
}

// Login checks the password and returns a signed access token. Unknown users
// and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, userName, password string) (string, error) {
	hash, err := s.repo.PasswordHash(ctx, userName)
	if err != nil {
		return "", ErrUnauthorized
	}

	if !auth.CheckPassword(hash, password) {
		return "", ErrUnauthorized
	}

	token, err := auth.GenerateToken(userName, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", ErrInternal
	}

	return token, nil
}

// Authenticate verifies a bearer token and returns the reviewer name.
func (s *Service) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthorized
	}
	sub, err := auth.SubjectFromToken(token, s.jwtSecret)
	if err != nil {
		return "", ErrUnauthorized
	}
	return sub, nil
}
