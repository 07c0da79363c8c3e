package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/fieldcheck/internal/flagx"
	"github.com/dmitrijs2005/fieldcheck/internal/timex"
)

// JsonConfig is the on-disk shape of the server config file. Durations use
// timex.Duration so both "90s" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrHTTP        string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC        string         `json:"endpoint_addr_grpc"`
	DatabaseDSN             string         `json:"database_dsn"`
	SecretKey               string         `json:"secret_key"`
	SessionValidityDuration timex.Duration `json:"session_validity_duration"`
	UpstreamTimeout         timex.Duration `json:"upstream_timeout"`
	BaseURL                 string         `json:"base_url"`
	OAuthURL                string         `json:"oauth_url"`
	ClientID                string         `json:"client_id"`
	ClientSecret            string         `json:"client_secret"`
	RedirectURI             string         `json:"redirect_uri"`
	S3RootUser              string         `json:"s3_root_user"`
	S3RootPassword          string         `json:"s3_root_password"`
	S3Bucket                string         `json:"s3_bucket"`
	S3Region                string         `json:"s3_region"`
	S3BaseEndpoint          string         `json:"s3_base_endpoint"`
	ReportLinkValidity      timex.Duration `json:"report_link_validity"`
	LogLevel                string         `json:"log_level"`
}

// parseJson loads configuration values from the JSON file named by -c/-config
// (or $FIELDCHECK_CONFIG) into config. Nothing happens when no file is named.
// An unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.EndpointAddrGRPC = c.EndpointAddrGRPC
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.SessionValidityDuration = c.SessionValidityDuration.Duration
	config.UpstreamTimeout = c.UpstreamTimeout.Duration
	config.BaseURL = c.BaseURL
	config.OAuthURL = c.OAuthURL
	config.ClientID = c.ClientID
	config.ClientSecret = c.ClientSecret
	config.RedirectURI = c.RedirectURI
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.ReportLinkValidity = c.ReportLinkValidity.Duration
	config.LogLevel = c.LogLevel
}
