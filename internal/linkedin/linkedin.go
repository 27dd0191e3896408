package linkedin

import (
	"net/http"
	"net/http/cookiejar"

	"go.uber.org/zap"
)

const (
	baseURL   = "https://www.linkedin.com"
	apiPath   = "/voyager/api"
	authPath  = "/uas/authenticate"
	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	sessionCookieName = "li_at"
	csrfCookieName    = "JSESSIONID"
)

// Client talks to the profile API on behalf of one authenticated session.
type Client struct {
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	BaseURL    string
}

func New(logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	// cookiejar.New never fails without a public suffix list.
	jar, _ := cookiejar.New(nil)

	return &Client{
		logger:  logger,
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Jar: jar,
		},
		UserAgent: userAgent,
	}
}
