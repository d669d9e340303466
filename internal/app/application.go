package app

import (
	"context"
	"fmt"

	"github.com/huiren/geoaudit/internal/audit"
	"github.com/huiren/geoaudit/internal/fetcher"
	"github.com/huiren/geoaudit/internal/fixgen"
	"github.com/huiren/geoaudit/internal/history"
	"github.com/huiren/geoaudit/internal/logging"
	"github.com/huiren/geoaudit/internal/urlutil"
	"github.com/huiren/geoaudit/internal/visibility"
	"github.com/huiren/geoaudit/internal/webclient"
)

// Application wires the fetcher, the audit registry, the fix generators, the
// visibility prober and the history store behind a single entry point used by
// both the CLI and the API server.
type Application struct {
	cfg      *Config
	logger   logging.Logger
	client   webclient.WebClient
	fetcher  *fetcher.Fetcher
	registry *audit.Registry
	store    *history.Store
	prober   *visibility.Prober
}

// New builds an Application from cfg. The history store and the prober are
// optional: history is skipped when opening the database fails, and probes
// are unavailable until at least one provider credential is configured.
func New(cfg *Config, logger logging.Logger) (*Application, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.Nop{}
	}

	client, err := webclient.New(cfg.WebClient, logger)
	if err != nil {
		return nil, fmt.Errorf("creating web client: %w", err)
	}

	registry, err := audit.NewDefaultRegistry(logger)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("building audit registry: %w", err)
	}

	a := &Application{
		cfg:      cfg,
		logger:   logger,
		client:   client,
		fetcher:  fetcher.New(client, logger),
		registry: registry,
	}

	path := cfg.HistoryPath
	if path == "" {
		path = history.DefaultPath()
	}
	store, err := history.Open(path, logger)
	if err != nil {
		logger.Warn("opening history store, continuing without history",
			logging.Field{Key: "path", Value: path},
			logging.Field{Key: "error", Value: err.Error()})
	} else {
		a.store = store
	}

	if len(cfg.ProviderSet) > 0 {
		a.prober = visibility.NewProber(cfg.ProviderSet, cfg.Prober, logger)
		return a, nil
	}

	providers, err := visibility.CredentialsFromEnv().Providers(cfg.Providers)
	switch {
	case err != nil && len(cfg.Providers) > 0:
		// The caller named providers; a missing key or unknown name is a
		// configuration error, not a degraded mode.
		a.Close()
		return nil, err
	case err != nil:
		logger.Info("visibility probes unavailable", logging.Field{Key: "reason", Value: err.Error()})
	default:
		a.prober = visibility.NewProber(providers, cfg.Prober, logger)
	}

	return a, nil
}

// Close releases the web client and the history store.
func (a *Application) Close() {
	if a.client != nil {
		a.client.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
}

// Audit fetches target, evaluates every registered check against it and
// records the report in history when a store is available.
func (a *Application) Audit(ctx context.Context, target string) (*audit.Report, error) {
	sc, err := a.fetcher.Fetch(ctx, target)
	if err != nil {
		return nil, err
	}

	report := audit.Aggregate(sc, a.registry.Evaluate(sc))

	if a.store != nil {
		if _, err := a.store.Record(ctx, report); err != nil {
			a.logger.Warn("recording audit history", logging.Field{Key: "error", Value: err.Error()})
		}
	}

	return report, nil
}

// Fix fetches target and generates the artifacts selected by opts. The
// fetched site context is returned alongside so callers can diff generated
// content against what the site currently serves.
func (a *Application) Fix(ctx context.Context, target string, opts fixgen.Options) ([]fixgen.Artifact, *audit.SiteContext, error) {
	sc, err := a.fetcher.Fetch(ctx, target)
	if err != nil {
		return nil, nil, err
	}

	artifacts, err := fixgen.Generate(sc, opts)
	if err != nil {
		return nil, nil, err
	}
	return artifacts, sc, nil
}

// ErrNoProviders is returned by Probe when no provider credential is
// configured in the environment.
var ErrNoProviders = fmt.Errorf("no providers configured: set OPENAI_API_KEY, ANTHROPIC_API_KEY, GOOGLE_API_KEY or PERPLEXITY_API_KEY")

// Probe asks every configured AI provider about the brand behind target and
// reports whether each response mentions it.
func (a *Application) Probe(ctx context.Context, target, industry string) (*visibility.Report, error) {
	return a.ProbeStream(ctx, target, industry, nil)
}

// ProbeStream is Probe with a per-provider callback, invoked as each
// provider answers. onResult may be nil.
func (a *Application) ProbeStream(ctx context.Context, target, industry string, onResult func(visibility.ProviderResponse)) (*visibility.Report, error) {
	if a.prober == nil {
		return nil, ErrNoProviders
	}

	brand, err := a.brandFor(ctx, target)
	if err != nil {
		return nil, err
	}

	return a.prober.ProbeStream(ctx, brand, industry, onResult)
}

// History returns the recorded audits for target, newest first.
func (a *Application) History(ctx context.Context, target string, limit int) ([]history.Entry, error) {
	if a.store == nil {
		return nil, fmt.Errorf("history store unavailable")
	}
	return a.store.List(ctx, target, limit)
}

// Entry returns one recorded audit with its full report.
func (a *Application) Entry(ctx context.Context, id string) (*history.Entry, error) {
	if a.store == nil {
		return nil, fmt.Errorf("history store unavailable")
	}
	return a.store.Get(ctx, id)
}

// Compare diffs two recorded audits of the same target.
func (a *Application) Compare(ctx context.Context, idA, idB string) (*history.Comparison, error) {
	if a.store == nil {
		return nil, fmt.Errorf("history store unavailable")
	}

	a1, err := a.store.Get(ctx, idA)
	if err != nil {
		return nil, fmt.Errorf("loading audit %s: %w", idA, err)
	}
	a2, err := a.store.Get(ctx, idB)
	if err != nil {
		return nil, fmt.Errorf("loading audit %s: %w", idB, err)
	}
	return history.Compare(a1, a2)
}

// brandFor derives the brand name to probe for. It tries the page first
// (og:site_name, title) and falls back to the domain when the fetch fails,
// so probes still work for sites that are down.
func (a *Application) brandFor(ctx context.Context, target string) (string, error) {
	u, err := urlutil.Normalize(target)
	if err != nil {
		return "", err
	}

	sc, err := a.fetcher.Fetch(ctx, target)
	if err != nil {
		a.logger.Warn("fetching target for brand name, falling back to domain",
			logging.Field{Key: "error", Value: err.Error()})
		return urlutil.Domain(u), nil
	}

	if name := fixgen.OrgName(sc.Doc, u); name != "" {
		return name, nil
	}
	return urlutil.Domain(u), nil
}
