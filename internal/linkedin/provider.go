package linkedin

import (
	"context"

	"github.com/spigell/profile-analyzer/internal/profile"

	"go.uber.org/zap"
)

// CredentialProvider opens a client by logging in with a username and password.
type CredentialProvider struct {
	Label    string
	Username string
	Password string
	Logger   *zap.Logger
	// BaseURL and UserAgent override the client defaults when set.
	BaseURL   string
	UserAgent string
}

func (p *CredentialProvider) Name() string {
	if p.Label == "" {
		return "credentials"
	}
	return p.Label
}

func (p *CredentialProvider) Open(ctx context.Context) (profile.Source, error) {
	c := newClient(p.Logger, p.BaseURL, p.UserAgent)
	if err := c.Login(ctx, p.Username, p.Password); err != nil {
		return nil, err
	}
	return c, nil
}

// CookieProvider opens a client from an existing session cookie.
type CookieProvider struct {
	Cookie    string
	Logger    *zap.Logger
	BaseURL   string
	UserAgent string
}

func (p *CookieProvider) Name() string { return "session cookie" }

func (p *CookieProvider) Open(ctx context.Context) (profile.Source, error) {
	c := newClient(p.Logger, p.BaseURL, p.UserAgent)
	if err := c.UseSessionCookie(ctx, p.Cookie); err != nil {
		return nil, err
	}
	return c, nil
}

func newClient(logger *zap.Logger, base, agent string) *Client {
	c := New(logger)
	if base != "" {
		c.BaseURL = base
	}
	if agent != "" {
		c.UserAgent = agent
	}
	return c
}
