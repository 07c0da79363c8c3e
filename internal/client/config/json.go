package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/fieldcheck/internal/flagx"
	"github.com/dmitrijs2005/fieldcheck/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify the timeout either as a
// string like "30s" or as integer nanoseconds.
type JsonConfig struct {
	BaseURL         string         `json:"base_url"`
	OAuthURL        string         `json:"oauth_url"`
	ClientID        string         `json:"client_id"`
	ClientSecret    string         `json:"client_secret"`
	RedirectURI     string         `json:"redirect_uri"`
	UpstreamTimeout timex.Duration `json:"upstream_timeout"`
	CachePath       string         `json:"cache_path"`
}

// parseJson overlays Config with values loaded from a JSON file named by
// -c/-config. Empty JSON fields leave the current value alone. Read or
// unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.BaseURL, jc.BaseURL)
	setString(&cfg.OAuthURL, jc.OAuthURL)
	setString(&cfg.ClientID, jc.ClientID)
	setString(&cfg.ClientSecret, jc.ClientSecret)
	setString(&cfg.RedirectURI, jc.RedirectURI)
	setString(&cfg.CachePath, jc.CachePath)
	if jc.UpstreamTimeout.Duration != 0 {
		cfg.UpstreamTimeout = time.Duration(jc.UpstreamTimeout.Duration)
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
