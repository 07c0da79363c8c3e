package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/fieldcheck/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-b string   platform REST base URL
//	-f string   path of the local token cache
//	-o int      upstream request timeout in seconds
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-b", "-f", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "b", cfg.BaseURL, "platform base URL")
	fs.StringVar(&cfg.CachePath, "f", cfg.CachePath, "token cache file")
	upstreamTimeout := fs.Int("o", int(cfg.UpstreamTimeout.Seconds()), "upstream timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.UpstreamTimeout = time.Duration(*upstreamTimeout) * time.Second
}
