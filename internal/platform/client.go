// Package platform is the HTTP client for the construction-management
// platform: the OAuth token endpoints and the handful of REST calls the
// checklist workflow needs.
package platform

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/fieldcheck/internal/logging"
	"github.com/dmitrijs2005/fieldcheck/internal/netx"
)

// Settings carries everything Client needs to reach the platform.
type Settings struct {
	BaseURL      string
	OAuthURL     string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Timeout      time.Duration
}

// Client talks to the platform on behalf of the OAuth application.
// Calls that need a user go through API.
type Client struct {
	baseURL      string
	oauthURL     string
	clientID     string
	clientSecret string
	redirectURI  string
	httpClient   *http.Client
	logger       logging.Logger
}

func NewClient(s Settings, logger logging.Logger) *Client {
	return &Client{
		baseURL:      strings.TrimRight(s.BaseURL, "/"),
		oauthURL:     strings.TrimRight(s.OAuthURL, "/"),
		clientID:     s.ClientID,
		clientSecret: s.ClientSecret,
		redirectURI:  s.RedirectURI,
		httpClient:   &http.Client{Timeout: s.Timeout},
		logger:       logger.With("module", "platform"),
	}
}

// WithHTTPClient swaps the transport, used by tests to point at httptest.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.httpClient = h
	return c
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) do(ctx context.Context, req *http.Request, out any) error {
	start := time.Now()
	code, err := netx.Do(c.httpClient, req, out)

	args := []any{"method", req.Method, "path", req.URL.Path, "status", code, "elapsed", time.Since(start)}
	if err != nil {
		c.logger.Warn(ctx, "upstream call failed", append(args, "error", err)...)
		return err
	}
	c.logger.Debug(ctx, "upstream call", args...)
	return nil
}
