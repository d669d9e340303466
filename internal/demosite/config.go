package demosite

// Config holds configuration for the demo site.
type Config struct {
	// Port is the port on which the demo site listens.
	Port int

	// InitialLevel is the starting maturity level for all pages (default: 1).
	InitialLevel int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Port:         9999,
		InitialLevel: 1,
	}
}
