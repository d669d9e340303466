package app

import (
	"github.com/huiren/geoaudit/internal/history"
	"github.com/huiren/geoaudit/internal/visibility"
	"github.com/huiren/geoaudit/internal/webclient"
)

// Config contains the runtime configuration shared by the CLI and the API
// server. Per-component options live in the component packages; this struct
// only aggregates them.
type Config struct {
	// WebClient configuration (backend, timeout, user agent).
	WebClient webclient.Config

	// Prober configuration for visibility probes.
	Prober visibility.Config

	// HistoryPath is the SQLite database file for audit history. Empty
	// means the per-user default location.
	HistoryPath string

	// Providers limits visibility probes to the named providers. Empty
	// means every provider with a configured credential.
	Providers []string

	// ProviderSet injects prebuilt providers, bypassing environment
	// credentials and the Providers filter. For tests and embedders.
	ProviderSet []visibility.Provider
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		WebClient:   webclient.DefaultConfig(),
		Prober:      visibility.DefaultConfig(),
		HistoryPath: history.DefaultPath(),
	}
}
