package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/fieldcheck/internal/netx"
)

// AuthorizationURL is where the browser is sent to grant access. state is
// echoed back on the redirect and is omitted when empty.
func (c *Client) AuthorizationURL(state string) string {
	q := url.Values{}
	q.Set("client_id", c.clientID)
	q.Set("response_type", "code")
	q.Set("redirect_uri", c.redirectURI)
	if state != "" {
		q.Set("state", state)
	}
	return c.oauthURL + "/authorize?" + q.Encode()
}

// ExchangeCode trades an authorization code for a token pair. The client
// credentials travel as HTTP basic auth.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.redirectURI)

	req, err := netx.NewFormRequest(ctx, http.MethodPost, c.endpoint("/oauth/token", nil), form)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)

	var tr TokenResponse
	if err := c.do(ctx, req, &tr); err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	return &tr, nil
}

// RefreshToken asks for a new pair using refreshToken. Client credentials
// are sent in the form body.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("grant_type", "refresh_token")
	form.Set("redirect_uri", c.redirectURI)
	form.Set("client_secret", c.clientSecret)
	form.Set("refresh_token", refreshToken)

	req, err := netx.NewFormRequest(ctx, http.MethodPost, c.endpoint("/oauth/token", nil), form)
	if err != nil {
		return nil, err
	}

	var tr TokenResponse
	if err := c.do(ctx, req, &tr); err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	return &tr, nil
}

// Revoke invalidates token on the platform.
func (c *Client) Revoke(ctx context.Context, token string) error {
	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("token", token)

	req, err := netx.NewFormRequest(ctx, http.MethodPost, c.endpoint("/oauth/revoke", nil), form)
	if err != nil {
		return err
	}

	if err := c.do(ctx, req, nil); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}
