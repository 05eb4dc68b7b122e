package app

import (
	"github.com/raysh454/pagesource/internal/fetcher"
	"github.com/raysh454/pagesource/internal/webclient"
)

// DefaultTarget is the page fetched when no --target is given.
const DefaultTarget = "https://www.passwordmonster.com/"

// Config contains the runtime configuration for a single fetch. Only Target
// is exposed on the command line; the rest is fixed by DefaultConfig.
type Config struct {
	// Target is the address to GET. It is passed to the transport as-is.
	Target string

	// Fetcher Configuration
	FetcherCfg fetcher.Config

	// WebClient configuration
	WebClientCfg webclient.Config
}

// DefaultConfig returns a Config populated with the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Target:       DefaultTarget,
		FetcherCfg:   fetcher.DefaultConfig(),
		WebClientCfg: webclient.DefaultConfig(),
	}
}
