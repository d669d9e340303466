package visibility

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/huiren/geoaudit/internal/logging"
)

// Config parameterizes a Prober.
type Config struct {
	// ProviderTimeout bounds each provider call independently.
	ProviderTimeout time.Duration

	// Competitors are brand names checked for co-occurrence in responses.
	Competitors []string
}

func DefaultConfig() Config {
	return Config{ProviderTimeout: 60 * time.Second}
}

// Failure is a provider failure as recorded on a ProviderResponse.
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

// ProviderResponse is the outcome of one provider call, success or not.
type ProviderResponse struct {
	Provider  string   `json:"provider"`
	Model     string   `json:"model"`
	Prompt    string   `json:"prompt"`
	Response  string   `json:"response,omitempty"`
	Analysis  Analysis `json:"analysis"`
	LatencyMS int64    `json:"latency_ms"`
	Failure   *Failure `json:"failure,omitempty"`
}

// Report is the aggregated probe outcome. Responses hold one entry per
// requested provider in request order, failed ones included.
type Report struct {
	Brand       string             `json:"brand"`
	Industry    string             `json:"industry,omitempty"`
	Responses   []ProviderResponse `json:"responses"`
	MentionRate float64            `json:"mention_rate"`
	ProvidersOK int                `json:"providers_ok"`
}

// ErrAllProvidersFailed is returned when not a single provider answered. The
// report still carries the per-provider failures.
var ErrAllProvidersFailed = errors.New("all providers failed")

// Prober fans one prompt out to a fixed provider set.
type Prober struct {
	providers []Provider
	cfg       Config
	logger    logging.Logger
}

func NewProber(providers []Provider, cfg Config, logger logging.Logger) *Prober {
	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = DefaultConfig().ProviderTimeout
	}
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Prober{
		providers: providers,
		cfg:       cfg,
		logger:    logger.With(logging.Field{Key: "component", Value: "prober"}),
	}
}

// Probe queries every provider concurrently and aggregates in request order.
// Each call writes into its own pre-indexed slot; a join barrier is the only
// synchronization. One provider's failure never delays or voids the others;
// only all of them failing makes the probe itself an error.
func (p *Prober) Probe(ctx context.Context, brand, industry string) (*Report, error) {
	return p.ProbeStream(ctx, brand, industry, nil)
}

// ProbeStream is Probe with a completion callback: onResult fires once per
// provider as its call finishes, in completion order, serialized. The
// returned report is still in request order.
func (p *Prober) ProbeStream(ctx context.Context, brand, industry string, onResult func(ProviderResponse)) (*Report, error) {
	prompt := BuildPrompt(brand, industry)
	slots := make([]ProviderResponse, len(p.providers))

	var wg sync.WaitGroup
	var emitMu sync.Mutex
	for i, provider := range p.providers {
		wg.Add(1)
		go func(i int, provider Provider) {
			defer wg.Done()
			slots[i] = p.callOne(ctx, provider, prompt, brand)
			if onResult != nil {
				emitMu.Lock()
				onResult(slots[i])
				emitMu.Unlock()
			}
		}(i, provider)
	}
	wg.Wait()

	report := &Report{
		Brand:     brand,
		Industry:  industry,
		Responses: slots,
	}

	mentioned := 0
	for _, r := range slots {
		if r.Failure != nil {
			continue
		}
		report.ProvidersOK++
		if r.Analysis.Mentioned {
			mentioned++
		}
	}
	// Mention rate is over successful responses only; a timed-out provider
	// must not drag the denominator.
	if report.ProvidersOK > 0 {
		report.MentionRate = float64(mentioned) / float64(report.ProvidersOK)
	}

	if len(p.providers) > 0 && report.ProvidersOK == 0 {
		return report, ErrAllProvidersFailed
	}
	return report, nil
}

func (p *Prober) callOne(ctx context.Context, provider Provider, prompt, brand string) ProviderResponse {
	resp := ProviderResponse{
		Provider: provider.Name(),
		Model:    provider.Model(),
		Prompt:   prompt,
		Analysis: Analysis{Sentiment: SentimentUnknown, Confidence: ConfidenceNone},
	}

	callCtx, cancel := context.WithTimeout(ctx, p.cfg.ProviderTimeout)
	defer cancel()

	start := time.Now()
	text, err := provider.Complete(callCtx, prompt)
	resp.LatencyMS = time.Since(start).Milliseconds()

	if err != nil {
		resp.Failure = toFailure(provider.Name(), ctx, err)
		p.logger.Warn("provider call failed",
			logging.Field{Key: "provider", Value: provider.Name()},
			logging.Field{Key: "kind", Value: string(resp.Failure.Kind)},
			logging.Field{Key: "error", Value: resp.Failure.Message})
		return resp
	}

	resp.Response = text
	resp.Analysis = ParseResponse(brand, p.cfg.Competitors, text)
	p.logger.Info("provider responded",
		logging.Field{Key: "provider", Value: provider.Name()},
		logging.Field{Key: "mentioned", Value: resp.Analysis.Mentioned},
		logging.Field{Key: "latency_ms", Value: resp.LatencyMS})
	return resp
}

// toFailure maps an arbitrary provider error to a recorded Failure. A parent
// context cancellation wins over whatever the call context turned it into.
func toFailure(provider string, parent context.Context, err error) *Failure {
	var perr *Error
	if !errors.As(err, &perr) {
		perr = classifyTransport(provider, err)
	}
	if parent.Err() != nil && errors.Is(parent.Err(), context.Canceled) {
		perr = &Error{Provider: provider, Kind: FailCancelled, Err: parent.Err()}
	} else if perr.Kind == FailCancelled {
		// The per-call deadline cancels the inner context; without a parent
		// cancellation that is a timeout.
		perr.Kind = FailTimeout
	}
	return &Failure{Kind: perr.Kind, Message: perr.Err.Error()}
}
