package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"
)

// Args are the parsed command-line arguments for one invocation.
type Args struct {
	// Command is the subcommand: audit, probe, fix, history or serve.
	Command string

	// Target is the site URL (or bare host) the command operates on.
	Target string

	// JSON switches output from human-readable text to JSON.
	JSON bool

	// Verbose includes passing checks in audit output.
	Verbose bool

	// Render fetches with a headless browser instead of plain HTTP.
	Render bool

	// Timeout bounds each network operation; 0 means the default.
	Timeout time.Duration

	// Industry gives probe prompts extra context, e.g. "developer tools".
	Industry string

	// Providers limits probes to the named providers.
	Providers []string

	// Competitors are brand names to look for alongside the target's.
	Competitors []string

	// LlmsTxt and Schema select which fix artifacts to generate. Neither
	// set means all of them.
	LlmsTxt bool
	Schema  bool

	// SchemaType is the schema to generate: Organization, WebSite or FAQPage.
	SchemaType string

	// OutDir is where fix writes artifacts. Empty means stdout.
	OutDir string

	// Preview diffs generated artifacts against what the site serves.
	Preview bool

	// Limit caps how many history entries are listed.
	Limit int

	// CompareA and CompareB are audit IDs to diff (history --compare a,b).
	CompareA string
	CompareB string

	// Addr is the serve listen address.
	Addr string

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

// Usage is the top-level help text.
const Usage = `geoaudit audits websites for AI-engine readability.

Usage:
  geoaudit audit <url>    Score the site and print findings
  geoaudit probe <url>    Ask AI providers about the site's brand
  geoaudit fix <url>      Generate llms.txt and schema markup
  geoaudit history <url>  List recorded audits, or compare two
  geoaudit serve          Run the HTTP API server

Run "geoaudit <command> -h" for the command's flags.
`

// ParseArgs parses a slice of args and returns Args. Use in tests by passing
// arbitrary slices. The function is deterministic and does not read os.Args.
func ParseArgs(args []string) (*Args, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("missing command\n\n%s", Usage)
	}

	a := &Args{Command: args[0], RawArgs: args}
	rest := args[1:]

	fs := flag.NewFlagSet("geoaudit "+a.Command, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var providers, competitors, compare string

	switch a.Command {
	case "audit":
		fs.BoolVar(&a.JSON, "json", false, "Output the report as JSON")
		fs.BoolVar(&a.Verbose, "verbose", false, "Include passing checks in the output")
		fs.BoolVar(&a.Render, "render", false, "Fetch with a headless browser")
		fs.DurationVar(&a.Timeout, "timeout", 0, "Per-request timeout (default 30s)")
	case "probe":
		fs.BoolVar(&a.JSON, "json", false, "Output the report as JSON")
		fs.StringVar(&a.Industry, "industry", "", "Industry context for prompts")
		fs.StringVar(&providers, "providers", "", "Comma-separated providers to ask (default: all configured)")
		fs.StringVar(&competitors, "competitors", "", "Comma-separated competitor brand names to detect")
		fs.DurationVar(&a.Timeout, "timeout", 0, "Per-provider timeout (default 60s)")
	case "fix":
		fs.BoolVar(&a.JSON, "json", false, "Output artifacts as JSON")
		fs.BoolVar(&a.LlmsTxt, "llms-txt", false, "Generate llms.txt only")
		fs.BoolVar(&a.Schema, "schema", false, "Generate schema markup only")
		fs.StringVar(&a.SchemaType, "schema-type", "", "Schema to generate: Organization, WebSite or FAQPage")
		fs.StringVar(&a.OutDir, "out", "", "Directory to write artifacts into (default: stdout)")
		fs.BoolVar(&a.Preview, "preview", false, "Diff artifacts against what the site currently serves")
		fs.BoolVar(&a.Render, "render", false, "Fetch with a headless browser")
	case "history":
		fs.BoolVar(&a.JSON, "json", false, "Output entries as JSON")
		fs.IntVar(&a.Limit, "limit", 10, "Maximum entries to list")
		fs.StringVar(&compare, "compare", "", "Two audit IDs to diff, comma-separated")
	case "serve":
		fs.StringVar(&a.Addr, "addr", ":8080", "HTTP listen address")
		fs.BoolVar(&a.Render, "render", false, "Fetch with a headless browser")
	case "-h", "--help", "help":
		return nil, flag.ErrHelp
	default:
		return nil, fmt.Errorf("unknown command %q\n\n%s", a.Command, Usage)
	}

	if err := fs.Parse(rest); err != nil {
		return nil, err
	}

	if providers != "" {
		a.Providers = splitList(providers)
	}
	if competitors != "" {
		a.Competitors = splitList(competitors)
	}
	if compare != "" {
		parts := splitList(compare)
		if len(parts) != 2 {
			return nil, fmt.Errorf("-compare takes exactly two audit IDs, got %d", len(parts))
		}
		a.CompareA, a.CompareB = parts[0], parts[1]
	}

	switch a.Command {
	case "audit", "probe", "fix", "history":
		a.Target = fs.Arg(0)
		if strings.TrimSpace(a.Target) == "" && !(a.Command == "history" && a.CompareA != "") {
			return nil, fmt.Errorf("%s requires a target URL", a.Command)
		}
	}

	if a.SchemaType != "" && !a.Schema {
		a.Schema = true
	}

	return a, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
