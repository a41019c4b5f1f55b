// Package services contains the application services behind the CLI: auth,
// application lifecycle, notification sync, user management and dashboard
// stats.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/certapply/certapply/internal/client/api"
	"github.com/certapply/certapply/internal/client/models"
	"github.com/certapply/certapply/internal/client/session"
	"github.com/certapply/certapply/internal/common"
	"github.com/certapply/certapply/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what the client can read out of its own credential without
// verifying it (verification is the server's job).
type TokenInfo struct {
	Subject   string
	ExpiresAt time.Time
}

// AuthService authenticates principals and manages the stored session.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*models.Principal, error)
	Register(ctx context.Context, profile api.Profile) error
	Logout(ctx context.Context) error
	TokenInfo() (*TokenInfo, error)
}

type authService struct {
	client  api.Client
	session *session.Store
	log     logging.Logger
}

func NewAuthService(client api.Client, sess *session.Store, log logging.Logger) AuthService {
	return &authService{client: client, session: sess, log: log.With("service", "auth")}
}

// Login authenticates against the server and replaces the stored principal.
// A rejected credential never leaves a stale session behind.
func (a *authService) Login(ctx context.Context, username, password string) (*models.Principal, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}

	p, err := a.client.Login(ctx, api.Credentials{Username: username, Password: password})
	if err != nil {
		if errors.Is(err, common.ErrAuthentication) {
			// also drop any previously persisted session: the server has
			// told us the account state changed under us
			if clearErr := a.session.Clear(ctx); clearErr != nil {
				a.log.Warn(ctx, "failed to clear session after rejected login", "error", clearErr)
			}
		}
		return nil, err
	}

	if err := a.session.Set(ctx, *p); err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}

	a.log.Info(ctx, "logged in", "user", p.DisplayName, "role", p.Role)
	return p, nil
}

func (a *authService) Register(ctx context.Context, profile api.Profile) error {
	if strings.TrimSpace(profile.Username) == "" || strings.TrimSpace(profile.Email) == "" || profile.Password == "" {
		return fmt.Errorf("%w: username, email and password are required", common.ErrValidation)
	}
	return a.client.Register(ctx, profile)
}

// Logout destroys the stored principal. The next guard evaluation redirects
// to login.
func (a *authService) Logout(ctx context.Context) error {
	if err := a.session.Clear(ctx); err != nil {
		return err
	}
	a.log.Info(ctx, "logged out")
	return nil
}

// TokenInfo parses the stored credential without verifying the signature,
// exposing subject and expiry for display. Not an authorization decision.
func (a *authService) TokenInfo() (*TokenInfo, error) {
	p := a.session.Current()
	if p == nil {
		return nil, common.ErrAuthentication
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(p.Credential, &claims); err != nil {
		return nil, fmt.Errorf("parsing stored token: %w", err)
	}

	info := &TokenInfo{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}
