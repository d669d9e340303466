// Command demosite starts a sample site whose AI-readability can be switched
// between maturity levels, for demonstrating geoaudit scoring.
// Usage: go run ./cmd/demosite [port]
// Default port: 9999
package main

import (
	"log"
	"os"
	"strconv"

	"github.com/huiren/geoaudit/internal/demosite"
)

func main() {
	cfg := demosite.DefaultConfig()

	// Optional: custom port from command line
	if len(os.Args) > 1 {
		port, err := strconv.Atoi(os.Args[1])
		if err != nil || port < 1 || port > 65535 {
			log.Fatalf("Invalid port: %s", os.Args[1])
		}
		cfg.Port = port
	}

	site := demosite.New(cfg)
	if err := site.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
