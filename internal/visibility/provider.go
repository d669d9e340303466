// Package visibility probes LLM providers to measure whether they recognize
// a brand. Provider calls fan out concurrently into pre-indexed slots and
// join before aggregation, so reports are deterministic in request order.
package visibility

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
)

// Provider is an opaque text-completion capability. Implementations own
// their wire format; the prober only sees prompt in, text out.
type Provider interface {
	Name() string
	Model() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// FailureKind classifies a provider call failure.
type FailureKind string

const (
	FailAuth      FailureKind = "auth"
	FailRateLimit FailureKind = "rate_limit"
	FailTimeout   FailureKind = "timeout"
	FailMalformed FailureKind = "malformed_response"
	FailCancelled FailureKind = "cancelled"
	FailUnavail   FailureKind = "unavailable"
)

// Error is a classified provider failure.
type Error struct {
	Provider string
	Kind     FailureKind
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func classifyStatus(provider string, status int, body string) *Error {
	kind := FailUnavail
	switch {
	case status == 401 || status == 403:
		kind = FailAuth
	case status == 429:
		kind = FailRateLimit
	}
	return &Error{Provider: provider, Kind: kind, Err: fmt.Errorf("status %d: %s", status, truncate(body, 200))}
}

func classifyTransport(provider string, err error) *Error {
	kind := FailUnavail
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		kind = FailCancelled
	case errors.Is(err, context.DeadlineExceeded):
		kind = FailTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = FailTimeout
	}
	return &Error{Provider: provider, Kind: kind, Err: err}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Credentials holds the per-provider API keys. Loaded once at startup and
// injected, never read from the environment at call time.
type Credentials struct {
	OpenAI     string
	Anthropic  string
	Google     string
	Perplexity string
}

// CredentialsFromEnv reads the conventional environment variables. Google
// accepts either GOOGLE_API_KEY or GEMINI_API_KEY.
func CredentialsFromEnv() Credentials {
	google := os.Getenv("GOOGLE_API_KEY")
	if google == "" {
		google = os.Getenv("GEMINI_API_KEY")
	}
	return Credentials{
		OpenAI:     os.Getenv("OPENAI_API_KEY"),
		Anthropic:  os.Getenv("ANTHROPIC_API_KEY"),
		Google:     google,
		Perplexity: os.Getenv("PERPLEXITY_API_KEY"),
	}
}

// ProviderNames lists the known provider names in canonical order.
var ProviderNames = []string{"openai", "anthropic", "google", "perplexity"}

// Providers constructs clients for the requested provider names. An empty
// request means every provider with a credential. Requesting a provider
// without a credential is a configuration error, surfaced here before any
// network call.
func (c Credentials) Providers(names []string) ([]Provider, error) {
	keys := map[string]string{
		"openai":     c.OpenAI,
		"anthropic":  c.Anthropic,
		"google":     c.Google,
		"perplexity": c.Perplexity,
	}

	if len(names) == 0 {
		for _, name := range ProviderNames {
			if keys[name] != "" {
				names = append(names, name)
			}
		}
		if len(names) == 0 {
			return nil, errors.New("no provider credentials configured (set OPENAI_API_KEY, ANTHROPIC_API_KEY, GOOGLE_API_KEY or PERPLEXITY_API_KEY)")
		}
	}

	var providers []Provider
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		key, known := keys[name]
		if !known {
			return nil, fmt.Errorf("unknown provider %q (have %s)", name, strings.Join(ProviderNames, ", "))
		}
		if key == "" {
			return nil, fmt.Errorf("provider %s requested but its API key is not set", name)
		}
		switch name {
		case "openai":
			providers = append(providers, NewOpenAI(key, nil))
		case "anthropic":
			providers = append(providers, NewAnthropic(key, nil))
		case "google":
			providers = append(providers, NewGoogle(key, nil))
		case "perplexity":
			providers = append(providers, NewPerplexity(key, nil))
		}
	}
	return providers, nil
}
