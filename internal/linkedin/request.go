package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

const restliProtocol = "2.0.0"

// statusError carries the HTTP status of a failed API call.
type statusError struct {
	Code   int
	Status string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("bad status: %s", e.Status)
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("method", req.Method), zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("X-Li-Lang", "en_US")
	req.Header.Set("X-Restli-Protocol-Version", restliProtocol)

	if token := c.csrfToken(); token != "" {
		req.Header.Set("Csrf-Token", token)
	}

	return req
}

// csrfToken returns the JSESSIONID cookie value the API expects echoed back.
func (c *Client) csrfToken() string {
	if c.HTTPClient == nil || c.HTTPClient.Jar == nil {
		return ""
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return ""
	}

	for _, cookie := range c.HTTPClient.Jar.Cookies(u) {
		if cookie.Name == csrfCookieName {
			return strings.Trim(cookie.Value, `"`)
		}
	}

	return ""
}

// getJSON makes a GET request to the API and decodes the response into target.
func (c *Client) getJSON(ctx context.Context, path string, q url.Values, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+apiPath+path, nil)
	if err != nil {
		return err
	}

	req = c.setHeaders(req)
	req.Header.Set("Accept", "application/json")
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.request(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return &statusError{Code: resp.StatusCode, Status: resp.Status}
	}

	if target == nil {
		return nil
	}

	return json.Unmarshal(data, target)
}
