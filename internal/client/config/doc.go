// Package config loads runtime configuration for the fieldcheck CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment: BASE_URL, OAUTH_URL, CLIENT_ID, CLIENT_SECRET,
//     REDIRECT_URI, FIELDCHECK_CACHE_KEY, FIELDCHECK_CACHE_PATH.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
//	{
//	  "base_url": "https://sandbox.procore.com",
//	  "oauth_url": "https://login-sandbox.procore.com/oauth",
//	  "client_id": "...",
//	  "client_secret": "...",
//	  "redirect_uri": "urn:ietf:wg:oauth:2.0:oob",
//	  "upstream_timeout": "30s",
//	  "cache_path": "fieldcheck.db"
//	}
package config
