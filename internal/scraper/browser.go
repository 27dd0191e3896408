package scraper

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spigell/profile-analyzer/internal/profile"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	baseURL           = "https://www.linkedin.com"
	sessionCookieName = "li_at"
	readySelector     = "main"
)

type renderFunc func(ctx context.Context, pageURL string) (string, error)

// Browser renders profile pages in headless Chrome and parses the result.
type Browser struct {
	execPath string
	cookie   string
	baseURL  string
	logger   *zap.Logger
	render   renderFunc
}

func NewBrowser(execPath, cookie string, logger *zap.Logger) *Browser {
	if logger == nil {
		logger = zap.NewNop()
	}

	b := &Browser{
		execPath: strings.TrimSpace(execPath),
		cookie:   strings.Trim(strings.TrimSpace(cookie), `"`),
		baseURL:  baseURL,
		logger:   logger,
	}
	b.render = b.renderPage

	return b
}

// FetchProfile renders the public profile page of id and parses it.
func (b *Browser) FetchProfile(ctx context.Context, id string) (*profile.Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: profile identifier is required", profile.ErrProfileRetrieval)
	}

	pageURL := fmt.Sprintf("%s/in/%s/", strings.TrimRight(b.baseURL, "/"), url.PathEscape(id))

	b.logger.Debug("rendering profile page", zap.String("url", pageURL))

	html, err := b.render(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: render %s: %v", profile.ErrProfileRetrieval, pageURL, err)
	}

	record, err := ParseProfile(html)
	if err != nil {
		return nil, err
	}

	b.logger.Info("profile scraped",
		zap.String("profile_id", id),
		zap.Int("experience", len(record.Experience)),
		zap.Int("education", len(record.Education)),
		zap.Int("skills", len(record.Skills)),
	)

	return record, nil
}

func (b *Browser) renderPage(ctx context.Context, pageURL string) (string, error) {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if b.execPath != "" {
		opts = append(opts, chromedp.ExecPath(b.execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	domain, err := cookieDomain(b.baseURL)
	if err != nil {
		return "", err
	}

	var html string
	err = chromedp.Run(browserCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			return network.SetCookie(sessionCookieName, b.cookie).
				WithDomain(domain).
				WithPath("/").
				WithSecure(true).
				WithHTTPOnly(true).
				Do(ctx)
		}),
		chromedp.Navigate(pageURL),
		chromedp.WaitReady(readySelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", err
	}

	return html, nil
}

// cookieDomain turns https://www.example.com into .example.com.
func cookieDomain(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("no host in %q", base)
	}
	return "." + strings.TrimPrefix(host, "www."), nil
}

// Provider opens a Browser source. The session cookie is checked by the
// first page load; Open only validates the local setup.
type Provider struct {
	ExecPath string
	Cookie   string
	Logger   *zap.Logger
}

func (p *Provider) Name() string { return "headless browser" }

func (p *Provider) Open(_ context.Context) (profile.Source, error) {
	if strings.TrimSpace(p.Cookie) == "" {
		return nil, fmt.Errorf("%w: session cookie is empty", profile.ErrAuthentication)
	}

	if path := strings.TrimSpace(p.ExecPath); path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("browser binary %q: %w", path, err)
		}
	}

	return NewBrowser(p.ExecPath, p.Cookie, p.Logger), nil
}
