package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huiren/geoaudit/internal/fixgen"
	"github.com/huiren/geoaudit/internal/logging"
)

const testPage = `<!DOCTYPE html>
<html lang="en">
<head>
<title>Acme Corp | Widgets</title>
<meta name="description" content="Acme Corp makes widgets for builders who need reliable parts delivered fast.">
</head>
<body>
<main><h1>Acme Corp</h1><p>We make widgets. Lots of them, in every size a builder could want, shipped the same day you order.</p></main>
</body>
</html>`

func newTestApplication(t *testing.T, handler http.Handler) (*Application, *httptest.Server) {
	t.Helper()

	for _, key := range []string{"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GOOGLE_API_KEY", "GEMINI_API_KEY", "PERPLEXITY_API_KEY"} {
		t.Setenv(key, "")
	}

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.HistoryPath = filepath.Join(t.TempDir(), "history.db")

	app, err := New(cfg, logging.Nop{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(app.Close)

	return app, srv
}

func testSiteHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(testPage))
	})
	return mux
}

func TestAuditRecordsHistory(t *testing.T) {
	app, srv := newTestApplication(t, testSiteHandler())

	report, err := app.Audit(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Audit: %v", err)
	}
	if report.Composite < 0 || report.Composite > 100 {
		t.Errorf("composite = %d, want 0..100", report.Composite)
	}

	entries, err := app.History(context.Background(), srv.URL, 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("history entries = %d, want 1", len(entries))
	}
	if entries[0].Composite != report.Composite {
		t.Errorf("recorded composite = %d, want %d", entries[0].Composite, report.Composite)
	}
}

func TestFixReturnsArtifactsAndContext(t *testing.T) {
	app, srv := newTestApplication(t, testSiteHandler())

	artifacts, sc, err := app.Fix(context.Background(), srv.URL, fixgen.Options{})
	if err != nil {
		t.Fatalf("Fix: %v", err)
	}
	if sc == nil || sc.Doc == nil {
		t.Fatal("expected a fetched site context")
	}
	if len(artifacts) == 0 {
		t.Fatal("expected at least one artifact")
	}

	names := make(map[string]bool, len(artifacts))
	for _, a := range artifacts {
		names[a.Name] = true
	}
	if !names["llms.txt"] {
		t.Errorf("artifact names = %v, want llms.txt included", names)
	}
}

func TestProbeWithoutCredentials(t *testing.T) {
	app, srv := newTestApplication(t, testSiteHandler())

	_, err := app.Probe(context.Background(), srv.URL, "")
	if !errors.Is(err, ErrNoProviders) {
		t.Fatalf("Probe error = %v, want ErrNoProviders", err)
	}
}

func TestExplicitProviderWithoutKeyFailsFast(t *testing.T) {
	for _, key := range []string{"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GOOGLE_API_KEY", "GEMINI_API_KEY", "PERPLEXITY_API_KEY"} {
		t.Setenv(key, "")
	}

	cfg := DefaultConfig()
	cfg.HistoryPath = filepath.Join(t.TempDir(), "history.db")
	cfg.Providers = []string{"openai"}

	_, err := New(cfg, logging.Nop{})
	if err == nil {
		t.Fatal("expected an error for a requested provider with no key")
	}
	if !strings.Contains(err.Error(), "openai") {
		t.Errorf("error does not name the provider: %v", err)
	}
}

func TestCompareRejectsUnknownIDs(t *testing.T) {
	app, _ := newTestApplication(t, testSiteHandler())

	if _, err := app.Compare(context.Background(), "nope-a", "nope-b"); err == nil {
		t.Fatal("expected an error for unknown audit IDs")
	}
}
