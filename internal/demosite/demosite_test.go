package demosite

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/huiren/geoaudit/internal/audit"
	"github.com/huiren/geoaudit/internal/fetcher"
	"github.com/huiren/geoaudit/internal/logging"
	"github.com/huiren/geoaudit/internal/webclient"
)

func auditSite(t *testing.T, url string) *audit.Report {
	t.Helper()

	client, err := webclient.NewNetHTTPClient(webclient.DefaultConfig(), logging.Nop{}, nil)
	if err != nil {
		t.Fatalf("creating web client: %v", err)
	}
	defer client.Close()

	registry, err := audit.NewDefaultRegistry(logging.Nop{})
	if err != nil {
		t.Fatalf("building registry: %v", err)
	}

	sc, err := fetcher.New(client, logging.Nop{}).Fetch(context.Background(), url)
	if err != nil {
		t.Fatalf("fetching %s: %v", url, err)
	}
	return audit.Aggregate(sc, registry.Evaluate(sc))
}

func TestScoreRisesWithLevel(t *testing.T) {
	site := New(DefaultConfig())
	srv := httptest.NewServer(site.Handler())
	defer srv.Close()

	var scores [MaxLevel + 1]int
	for level := 1; level <= MaxLevel; level++ {
		if err := site.SetLevel(level); err != nil {
			t.Fatalf("SetLevel(%d): %v", level, err)
		}
		scores[level] = auditSite(t, srv.URL).Composite
	}

	for level := 2; level <= MaxLevel; level++ {
		if scores[level] <= scores[level-1] {
			t.Errorf("level %d scored %d, not above level %d's %d",
				level, scores[level], level-1, scores[level-1])
		}
	}
}

func TestLevelThreeServesLlmsTxt(t *testing.T) {
	site := New(Config{InitialLevel: 3})
	srv := httptest.NewServer(site.Handler())
	defer srv.Close()

	client, err := webclient.NewNetHTTPClient(webclient.DefaultConfig(), logging.Nop{}, nil)
	if err != nil {
		t.Fatalf("creating web client: %v", err)
	}
	defer client.Close()

	sc, err := fetcher.New(client, logging.Nop{}).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !sc.LlmsTxt.Present {
		t.Error("expected llms.txt at level 3")
	}
	if sc.LlmsFull.Present {
		t.Error("llms-full.txt should not exist at any level")
	}
}

func TestSetLevelBounds(t *testing.T) {
	site := New(DefaultConfig())
	if err := site.SetLevel(0); err == nil {
		t.Error("SetLevel(0) should fail")
	}
	if err := site.SetLevel(MaxLevel + 1); err == nil {
		t.Errorf("SetLevel(%d) should fail", MaxLevel+1)
	}
	if got := site.Level(); got != 1 {
		t.Errorf("level = %d, want 1 after rejected updates", got)
	}
}
