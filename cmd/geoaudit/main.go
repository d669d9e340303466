// Command geoaudit audits websites for AI-engine readability, generates
// fixes, and probes AI providers for brand visibility.
package main

import (
	"os"

	"github.com/huiren/geoaudit/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
