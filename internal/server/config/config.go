// Package config handles configuration for the fieldcheck web server,
// including defaults, JSON overlay, environment and command-line flags.
package config

import (
	"time"

	"github.com/dmitrijs2005/fieldcheck/internal/flagx"
)

// Config holds runtime settings for the fieldcheck server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the browser-facing web server.
//   - EndpointAddrGRPC: bind address for the gRPC health endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps sessions and reports in memory.
//   - SecretKey: HMAC secret for session cookies, also used to seal stored tokens.
//   - SessionValidityDuration: how long a browser session lives.
//   - UpstreamTimeout: per-request timeout for platform API calls.
//   - BaseURL / OAuthURL: platform REST and OAuth roots.
//   - ClientID / ClientSecret / RedirectURI: OAuth application credentials.
//   - S3*: report archive settings. An empty S3Bucket disables archiving.
//   - ReportLinkValidity: lifetime of presigned report links.
//   - LogLevel: slog level name.
type Config struct {
	EndpointAddrHTTP        string
	EndpointAddrGRPC        string
	DatabaseDSN             string
	SecretKey               string
	SessionValidityDuration time.Duration
	UpstreamTimeout         time.Duration
	BaseURL                 string
	OAuthURL                string
	ClientID                string
	ClientSecret            string
	RedirectURI             string
	S3RootUser              string
	S3RootPassword          string
	S3Bucket                string
	S3Region                string
	S3BaseEndpoint          string
	ReportLinkValidity      time.Duration
	LogLevel                string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":5000"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.SessionValidityDuration = 12 * time.Hour
	c.UpstreamTimeout = 30 * time.Second
	c.BaseURL = "https://sandbox.procore.com"
	c.OAuthURL = "https://login-sandbox.procore.com/oauth"
	c.RedirectURI = "http://localhost:5000/user/home"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.ReportLinkValidity = 15 * time.Minute
	c.LogLevel = "info"
}

// parseEnv overlays the OAuth application settings from the environment.
func parseEnv(c *Config) {
	flagx.EnvOverlay(map[string]*string{
		"BASE_URL":      &c.BaseURL,
		"OAUTH_URL":     &c.OAuthURL,
		"CLIENT_ID":     &c.ClientID,
		"CLIENT_SECRET": &c.ClientSecret,
		"REDIRECT_URI":  &c.RedirectURI,
		"DATABASE_DSN":  &c.DatabaseDSN,
		"SECRET_KEY":    &c.SecretKey,
	})
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
