package visibility

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/huiren/geoaudit/internal/logging"
)

type fakeProvider struct {
	name  string
	text  string
	err   error
	delay time.Duration
}

func (f *fakeProvider) Name() string  { return f.name }
func (f *fakeProvider) Model() string { return "fake-model" }

func (f *fakeProvider) Complete(ctx context.Context, prompt string) (string, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", classifyTransport(f.name, ctx.Err())
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func newProber(cfg Config, providers ...Provider) *Prober {
	return NewProber(providers, cfg, logging.Nop{})
}

func TestProbePreservesRequestOrder(t *testing.T) {
	providers := []Provider{
		&fakeProvider{name: "p1", text: "BrandX is a leading company.", delay: 50 * time.Millisecond},
		&fakeProvider{name: "p2", text: "Never heard of it."},
		&fakeProvider{name: "p3", text: "BrandX makes widgets.", delay: 20 * time.Millisecond},
	}

	rep, err := newProber(DefaultConfig(), providers...).Probe(context.Background(), "BrandX", "")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}

	want := []string{"p1", "p2", "p3"}
	if len(rep.Responses) != len(want) {
		t.Fatalf("got %d responses, want %d", len(rep.Responses), len(want))
	}
	for i, name := range want {
		if rep.Responses[i].Provider != name {
			t.Errorf("response %d from %s, want %s", i, rep.Responses[i].Provider, name)
		}
	}
}

func TestProbeIsolatesFailures(t *testing.T) {
	providers := []Provider{
		&fakeProvider{name: "good", text: "BrandX is a trusted brand."},
		&fakeProvider{name: "bad", err: &Error{Provider: "bad", Kind: FailAuth, Err: errors.New("invalid key")}},
	}

	rep, err := newProber(DefaultConfig(), providers...).Probe(context.Background(), "BrandX", "")
	if err != nil {
		t.Fatalf("one failure must not fail the probe: %v", err)
	}

	if rep.Responses[0].Failure != nil {
		t.Errorf("good provider marked failed: %+v", rep.Responses[0].Failure)
	}
	if !rep.Responses[0].Analysis.Mentioned {
		t.Error("good provider mention not detected")
	}
	bad := rep.Responses[1]
	if bad.Failure == nil || bad.Failure.Kind != FailAuth {
		t.Errorf("bad provider failure = %+v, want auth", bad.Failure)
	}
	if rep.ProvidersOK != 1 {
		t.Errorf("providers_ok = %d, want 1", rep.ProvidersOK)
	}
}

func TestProbeTimeoutDenominator(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ProviderTimeout = 50 * time.Millisecond
	providers := []Provider{
		&fakeProvider{name: "p_ok", text: "BrandX is well-known."},
		&fakeProvider{name: "p_timeout", text: "too late", delay: 5 * time.Second},
	}

	rep, err := newProber(cfg, providers...).Probe(context.Background(), "BrandX", "")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}

	if rep.ProvidersOK != 1 {
		t.Fatalf("providers_ok = %d, want 1", rep.ProvidersOK)
	}
	if rep.MentionRate != 1.0 {
		t.Errorf("mention rate = %v, want 1.0 (denominator is successes only)", rep.MentionRate)
	}
	slow := rep.Responses[1]
	if slow.Failure == nil || slow.Failure.Kind != FailTimeout {
		t.Errorf("slow provider failure = %+v, want timeout", slow.Failure)
	}
}

func TestProbeAllFailed(t *testing.T) {
	providers := []Provider{
		&fakeProvider{name: "a", err: errors.New("boom")},
		&fakeProvider{name: "b", err: &Error{Provider: "b", Kind: FailRateLimit, Err: errors.New("429")}},
	}

	rep, err := newProber(DefaultConfig(), providers...).Probe(context.Background(), "BrandX", "")
	if !errors.Is(err, ErrAllProvidersFailed) {
		t.Fatalf("err = %v, want ErrAllProvidersFailed", err)
	}
	if len(rep.Responses) != 2 {
		t.Errorf("failed probe should still report per-provider outcomes, got %d", len(rep.Responses))
	}
	if rep.MentionRate != 0 {
		t.Errorf("mention rate = %v, want 0", rep.MentionRate)
	}
}

func TestProbeCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	providers := []Provider{
		&fakeProvider{name: "slow", text: "BrandX", delay: 5 * time.Second},
	}

	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	rep, err := newProber(DefaultConfig(), providers...).Probe(ctx, "BrandX", "")
	if !errors.Is(err, ErrAllProvidersFailed) {
		t.Fatalf("err = %v", err)
	}
	if f := rep.Responses[0].Failure; f == nil || f.Kind != FailCancelled {
		t.Errorf("failure = %+v, want cancelled", f)
	}
}

func TestProbeStreamEmitsEveryResult(t *testing.T) {
	providers := []Provider{
		&fakeProvider{name: "p1", text: "BrandX.", delay: 40 * time.Millisecond},
		&fakeProvider{name: "p2", text: "BrandX."},
	}

	var streamed []string
	rep, err := newProber(DefaultConfig(), providers...).ProbeStream(
		context.Background(), "BrandX", "",
		func(r ProviderResponse) { streamed = append(streamed, r.Provider) })
	if err != nil {
		t.Fatalf("ProbeStream: %v", err)
	}

	if len(streamed) != 2 {
		t.Fatalf("streamed %d results, want 2", len(streamed))
	}
	// Completion order: the undelayed provider lands first.
	if streamed[0] != "p2" {
		t.Errorf("streamed order = %v", streamed)
	}
	if rep.Responses[0].Provider != "p1" {
		t.Errorf("report order = %s, want request order", rep.Responses[0].Provider)
	}
}

func TestCredentialsFailFast(t *testing.T) {
	creds := Credentials{OpenAI: "sk-test"}

	if _, err := creds.Providers([]string{"anthropic"}); err == nil {
		t.Error("expected error for provider without credential")
	}
	if _, err := creds.Providers([]string{"hal9000"}); err == nil {
		t.Error("expected error for unknown provider")
	}
	if _, err := (Credentials{}).Providers(nil); err == nil {
		t.Error("expected error when nothing is configured")
	}

	providers, err := creds.Providers(nil)
	if err != nil {
		t.Fatalf("Providers: %v", err)
	}
	if len(providers) != 1 || providers[0].Name() != "openai" {
		t.Errorf("providers = %v", providers)
	}
}
