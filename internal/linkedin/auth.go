package linkedin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spigell/profile-analyzer/internal/profile"

	"go.uber.org/zap"
)

const loginPassed = "PASS"

type loginResponse struct {
	LoginResult  string `json:"login_result"`
	ChallengeURL string `json:"challenge_url"`
}

// Login authenticates with a username and password.
func (c *Client) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", profile.ErrAuthentication)
	}

	if err := c.bootstrap(ctx); err != nil {
		return fmt.Errorf("%w: %v", profile.ErrAuthentication, err)
	}

	form := url.Values{}
	form.Set("session_key", username)
	form.Set("session_password", password)
	form.Set(csrfCookieName, c.csrfToken())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+authPath, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.request(req)
	if err != nil {
		return fmt.Errorf("%w: %v", profile.ErrAuthentication, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read login response: %v", profile.ErrAuthentication, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: credentials rejected", profile.ErrAuthentication)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: bad status: %s", profile.ErrAuthentication, resp.Status)
	}

	var result loginResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return fmt.Errorf("%w: parse login response: %v", profile.ErrAuthentication, err)
	}

	if result.LoginResult != loginPassed {
		if result.ChallengeURL != "" {
			c.logger.Debug("login challenge requested", zap.String("challenge_url", result.ChallengeURL))
		}
		return fmt.Errorf("%w: login result %q", profile.ErrAuthentication, result.LoginResult)
	}

	c.logger.Debug("logged in", zap.String("username", username))

	return nil
}

// UseSessionCookie authenticates with an existing li_at session cookie.
func (c *Client) UseSessionCookie(ctx context.Context, value string) error {
	value = strings.Trim(strings.TrimSpace(value), `"`)
	if value == "" {
		return fmt.Errorf("%w: session cookie is empty", profile.ErrAuthentication)
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return err
	}

	c.HTTPClient.Jar.SetCookies(u, []*http.Cookie{{
		Name:  sessionCookieName,
		Value: value,
		Path:  "/",
	}})

	if err := c.bootstrap(ctx); err != nil {
		return fmt.Errorf("%w: %v", profile.ErrAuthentication, err)
	}

	// The cookie is only known to be valid once an authenticated call succeeds.
	if err := c.getJSON(ctx, "/me", nil, nil); err != nil {
		var se *statusError
		if errors.As(err, &se) && (se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden) {
			return fmt.Errorf("%w: session cookie rejected", profile.ErrAuthentication)
		}
		return fmt.Errorf("%w: %v", profile.ErrAuthentication, err)
	}

	c.logger.Debug("session cookie accepted")

	return nil
}

// bootstrap obtains the JSESSIONID cookie used as the csrf token.
func (c *Client) bootstrap(ctx context.Context) error {
	if c.HTTPClient == nil || c.HTTPClient.Jar == nil {
		return errors.New("http client has no cookie jar")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+authPath, nil)
	if err != nil {
		return err
	}

	resp, err := c.request(c.setHeaders(req))
	if err != nil {
		return err
	}
	resp.Body.Close()

	if c.csrfToken() == "" {
		return fmt.Errorf("no %s cookie received", csrfCookieName)
	}

	return nil
}
