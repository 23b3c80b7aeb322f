// Package services contains application services for the reviewer client.
// This file defines the session manager: login, restoring a persisted
// session on start, logout, and housekeeping of the local store.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/docreview/internal/client/client"
	"github.com/dmitrijs2005/docreview/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/docreview/internal/dbx"
	"github.com/dmitrijs2005/docreview/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// Session describes the current credential. The zero value means no session.
type Session struct {
	Token     string
	Username  string
	ExpiresAt time.Time
}

// Active reports whether the session holds a credential.
func (s Session) Active() bool { return s.Token != "" }

// AuthService defines session operations for the CLI.
//
// Contract:
//   - Login: exchange credentials for a token and persist it.
//   - Restore: reload a persisted token without contacting the server.
//   - Logout: forget the token in memory and on disk.
//   - LastUsername: name used at the last successful login, for prompts.
//   - Close: release the local database.
type AuthService interface {
	Login(ctx context.Context, username string, password []byte) (Session, error)
	Restore(ctx context.Context) (Session, error)
	Logout(ctx context.Context) error
	LastUsername(ctx context.Context) (string, error)
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
	db     *sql.DB
	key    []byte
	log    logging.Logger
	now    func() time.Time
}

// NewAuthService binds the API client to the local database. key is the
// device key used to seal the token at rest.
func NewAuthService(c client.Client, db *sql.DB, key []byte, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{client: c, db: db, key: key, log: log, now: time.Now}
}

func (a *authService) tokenRepo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSealed(metadata.NewSQLiteRepository(db), a.key)
}

// Login authenticates against the server and stores the token together with
// the user name in a single transaction.
func (a *authService) Login(ctx context.Context, username string, password []byte) (Session, error) {
	token, err := a.client.Login(ctx, username, password)
	if err != nil {
		return Session{}, fmt.Errorf("login: %w", err)
	}

	err = dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := a.tokenRepo(tx).Set(ctx, metadata.KeyAccessToken, []byte(token)); err != nil {
			return err
		}
		return metadata.NewSQLiteRepository(tx).Set(ctx, metadata.KeyLastUsername, []byte(username))
	})
	if err != nil {
		a.client.ClearAccessToken()
		return Session{}, fmt.Errorf("saving session: %w", err)
	}

	s := a.sessionFor(token)
	if s.Username == "" {
		s.Username = username
	}
	a.log.Info(ctx, "logged in", "user", s.Username)
	return s, nil
}

// Restore loads the persisted token. It is not validated against the
// server; only an exp claim already in the past causes the token to be
// discarded. A token that cannot be read back is discarded as well.
func (a *authService) Restore(ctx context.Context) (Session, error) {
	raw, err := a.tokenRepo(a.db).Get(ctx, metadata.KeyAccessToken)
	if err != nil {
		a.log.Warn(ctx, "stored session unreadable, discarding", "error", err)
		return Session{}, a.forget(ctx)
	}
	if len(raw) == 0 {
		return Session{}, nil
	}

	s := a.sessionFor(string(raw))
	if !s.ExpiresAt.IsZero() && !a.now().Before(s.ExpiresAt) {
		a.log.Warn(ctx, "stored session expired, discarding", "expired_at", s.ExpiresAt)
		return Session{}, a.forget(ctx)
	}
	if s.Username == "" {
		s.Username, _ = a.LastUsername(ctx)
	}

	a.client.SetAccessToken(s.Token)
	return s, nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.client.ClearAccessToken()
	if err := a.forget(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	a.log.Info(ctx, "logged out")
	return nil
}

func (a *authService) LastUsername(ctx context.Context) (string, error) {
	v, err := metadata.NewSQLiteRepository(a.db).Get(ctx, metadata.KeyLastUsername)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// Close releases the local database.
func (a *authService) Close(ctx context.Context) error {
	return a.db.Close()
}

func (a *authService) forget(ctx context.Context) error {
	a.client.ClearAccessToken()
	return metadata.NewSQLiteRepository(a.db).Delete(ctx, metadata.KeyAccessToken)
}

// sessionFor reads sub and exp from the token without verifying the
// signature. Opaque (non-JWT) tokens yield a session with only Token set.
func (a *authService) sessionFor(token string) Session {
	s := Session{Token: token}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return s
	}
	s.Username = claims.Subject
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s
}

// IsSessionError reports whether err means the user has to log in again.
func IsSessionError(err error) bool {
	return errors.Is(err, client.ErrNoSession) || errors.Is(err, client.ErrUnauthorized)
}
