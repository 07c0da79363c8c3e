package config

import (
	"time"

	"github.com/dmitrijs2005/fieldcheck/internal/flagx"
)

// Config holds runtime settings for the fieldcheck terminal client.
//
// Fields:
//   - BaseURL / OAuthURL: platform REST and OAuth roots.
//   - ClientID / ClientSecret / RedirectURI: OAuth application credentials.
//     The redirect URI only has to be registered; the user pastes the code.
//   - UpstreamTimeout: per-request timeout for platform calls.
//   - CachePath: SQLite file holding the sealed token between runs.
//   - CacheKey: secret the cached token is sealed with.
type Config struct {
	BaseURL         string
	OAuthURL        string
	ClientID        string
	ClientSecret    string
	RedirectURI     string
	UpstreamTimeout time.Duration
	CachePath       string
	CacheKey        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "https://sandbox.procore.com"
	c.OAuthURL = "https://login-sandbox.procore.com/oauth"
	c.RedirectURI = "urn:ietf:wg:oauth:2.0:oob"
	c.UpstreamTimeout = 30 * time.Second
	c.CachePath = "fieldcheck.db"
	c.CacheKey = "secretKey"
}

func parseEnv(c *Config) {
	flagx.EnvOverlay(map[string]*string{
		"BASE_URL":              &c.BaseURL,
		"OAUTH_URL":             &c.OAuthURL,
		"CLIENT_ID":             &c.ClientID,
		"CLIENT_SECRET":         &c.ClientSecret,
		"REDIRECT_URI":          &c.RedirectURI,
		"FIELDCHECK_CACHE_KEY":  &c.CacheKey,
		"FIELDCHECK_CACHE_PATH": &c.CachePath,
	})
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
