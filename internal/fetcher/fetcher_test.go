package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/huiren/geoaudit/internal/logging"
	"github.com/huiren/geoaudit/internal/webclient"
)

const homePage = `<html lang="en"><head><title>Acme Widgets</title></head>
<body><h1>Acme</h1><p>Widgets for everyone.</p></body></html>`

func newTestFetcher(t *testing.T) *Fetcher {
	t.Helper()
	cfg := webclient.DefaultConfig()
	cfg.Timeout = 5 * time.Second
	client, err := webclient.NewNetHTTPClient(cfg, logging.Nop{}, nil)
	if err != nil {
		t.Fatalf("NewNetHTTPClient: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return New(client, logging.Nop{})
}

func TestFetchAssemblesSiteContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Write([]byte(homePage))
		case "/llms.txt":
			w.Header().Set("Content-Type", "text/plain")
			w.Write([]byte("# Acme\n\n> Widgets.\n"))
		case "/robots.txt":
			w.Header().Set("Content-Type", "text/plain")
			w.Write([]byte("User-agent: *\nAllow: /\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	sc, err := newTestFetcher(t).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if sc.Doc.Title() != "Acme Widgets" {
		t.Errorf("title = %q", sc.Doc.Title())
	}
	if sc.Content == nil {
		t.Error("content view not populated")
	}
	if !sc.LlmsTxt.Present {
		t.Error("llms.txt should be present")
	}
	if sc.LlmsTxt.Body == "" {
		t.Error("llms.txt body empty")
	}
	if !sc.Robots.Present {
		t.Error("robots.txt should be present")
	}
	if sc.LlmsFull.Present {
		t.Error("llms-full.txt should be absent")
	}
	if sc.Sitemap.Present {
		t.Error("sitemap.xml should be absent")
	}
	if sc.StatusCode != http.StatusOK {
		t.Errorf("status = %d", sc.StatusCode)
	}
	if sc.FetchTimeMS < 0 {
		t.Errorf("fetch time = %d", sc.FetchTimeMS)
	}
}

func TestFetchSoftNotFoundIsAbsent(t *testing.T) {
	// A server that answers every path with the home page must not earn
	// llms.txt credit.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(homePage))
	}))
	defer srv.Close()

	sc, err := newTestFetcher(t).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if sc.LlmsTxt.Present {
		t.Error("HTML soft-404 counted as llms.txt")
	}
	if sc.Robots.Present {
		t.Error("HTML soft-404 counted as robots.txt")
	}
}

func TestFetchHTTPErrorIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestFetcher(t).Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for 500 home page")
	}
	var fe *Error
	if !errors.As(err, &fe) {
		t.Fatalf("error type = %T", err)
	}
	if fe.Kind != FailHTTP || fe.StatusCode != http.StatusInternalServerError {
		t.Errorf("got %s/%d, want %s/500", fe.Kind, fe.StatusCode, FailHTTP)
	}
}

func TestFetchConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestFetcher(t).Fetch(context.Background(), url)
	if err == nil {
		t.Fatal("expected error for closed server")
	}
	var fe *Error
	if !errors.As(err, &fe) {
		t.Fatalf("error type = %T", err)
	}
	if fe.Kind != FailConnRefused {
		t.Errorf("kind = %s, want %s", fe.Kind, FailConnRefused)
	}
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	cfg := webclient.DefaultConfig()
	cfg.Timeout = 100 * time.Millisecond
	client, err := webclient.NewNetHTTPClient(cfg, logging.Nop{}, nil)
	if err != nil {
		t.Fatalf("NewNetHTTPClient: %v", err)
	}
	defer client.Close()

	_, err = New(client, logging.Nop{}).Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	var fe *Error
	if !errors.As(err, &fe) {
		t.Fatalf("error type = %T", err)
	}
	if fe.Kind != FailTimeout {
		t.Errorf("kind = %s, want %s", fe.Kind, FailTimeout)
	}
}

func TestFetchInvalidTarget(t *testing.T) {
	if _, err := newTestFetcher(t).Fetch(context.Background(), "ftp://example.com"); err == nil {
		t.Error("expected error for unsupported scheme")
	}
	if _, err := newTestFetcher(t).Fetch(context.Background(), ""); err == nil {
		t.Error("expected error for empty target")
	}
}
