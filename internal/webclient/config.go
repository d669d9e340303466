package webclient

import "time"

const (
	BackendNetHTTP  = "nethttp"
	BackendChromedp = "chromedp"
)

// Config selects and parameterizes a webclient backend.
type Config struct {
	// Backend names the registered backend to construct ("nethttp" default).
	Backend string

	// Timeout bounds a single request including body read.
	Timeout time.Duration

	// UserAgent is sent with every request when non-empty.
	UserAgent string

	// IdleAfter is how long the chromedp backend waits for network idle
	// before snapshotting the DOM.
	IdleAfter time.Duration

	// Headless controls chromedp browser visibility.
	Headless bool
}

// DefaultConfig returns the settings used when the caller provides none.
func DefaultConfig() Config {
	return Config{
		Backend:   BackendNetHTTP,
		Timeout:   30 * time.Second,
		UserAgent: "Mozilla/5.0 (compatible; GEOAudit/1.0; +https://github.com/huiren/geoaudit)",
		IdleAfter: 2 * time.Second,
		Headless:  true,
	}
}
