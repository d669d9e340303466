package webclient

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/huiren/geoaudit/internal/logging"
)

// ChromeDPClient renders pages in a headless browser before snapshotting the
// DOM. Sites that assemble their markup client-side score very differently
// between the raw response and the rendered document, so audits can opt into
// this backend.
type ChromeDPClient struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	idleAfter   time.Duration
	timeout     time.Duration
	logger      logging.Logger
}

func NewChromeDPClient(cfg Config, logger logging.Logger) (*ChromeDPClient, error) {
	if logger == nil {
		logger = logging.Nop{}
	}
	opts := chromedp.DefaultExecAllocatorOptions[:]
	if !cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	idleAfter := cfg.IdleAfter
	if idleAfter <= 0 {
		idleAfter = 2 * time.Second
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &ChromeDPClient{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		idleAfter:   idleAfter,
		timeout:     timeout,
		logger:      logger.With(logging.Field{Key: "backend", Value: "chromedp"}),
	}, nil
}

// waitNetworkIdle signals once no network request has been in flight for
// idleAfter. SPA-heavy pages keep loading after the navigation completes, so
// the DOM snapshot waits for this quiet period.
func waitNetworkIdle(ctx context.Context, idleAfter time.Duration) chan struct{} {
	idleChan := make(chan struct{})
	var activeReqs int32
	var timer *time.Timer
	var timerMutex sync.Mutex
	var once sync.Once

	startTimer := func() {
		timerMutex.Lock()
		defer timerMutex.Unlock()

		if timer != nil {
			timer.Stop()
		}

		timer = time.AfterFunc(idleAfter, func() {
			if atomic.LoadInt32(&activeReqs) == 0 {
				once.Do(func() { close(idleChan) })
			}
		})
	}

	chromedp.ListenTarget(ctx, func(ev any) {
		switch ev.(type) {
		case *network.EventRequestWillBeSent:
			atomic.AddInt32(&activeReqs, 1)
		case *network.EventLoadingFinished, *network.EventLoadingFailed:
			if atomic.AddInt32(&activeReqs, -1) == 0 {
				startTimer()
			}
		}
	})

	// Arm the timer once in case the page loads with zero subresources.
	startTimer()

	return idleChan
}

func (cdc *ChromeDPClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}

	tabCtx, cancel := chromedp.NewContext(cdc.allocCtx)
	defer cancel()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, cdc.timeout)
	defer cancelTimeout()

	// Propagate the caller's cancellation into the tab context.
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-tabCtx.Done():
		}
	}()

	start := time.Now()
	waitIdleChan := waitNetworkIdle(tabCtx, cdc.idleAfter)

	var statusCode int64 = http.StatusOK
	chromedp.ListenTarget(tabCtx, func(ev any) {
		if resp, ok := ev.(*network.EventResponseReceived); ok {
			if resp.Type == network.ResourceTypeDocument {
				atomic.StoreInt64(&statusCode, resp.Response.Status)
			}
		}
	})

	if err := chromedp.Run(tabCtx, chromedp.Navigate(req.URL)); err != nil {
		cdc.logger.Warn("navigation failed",
			logging.Field{Key: "url", Value: req.URL},
			logging.Field{Key: "error", Value: err.Error()})
		return nil, fmt.Errorf("chromedp navigate %s: %w", req.URL, err)
	}

	select {
	case <-waitIdleChan:
	case <-tabCtx.Done():
		return nil, fmt.Errorf("chromedp wait for idle: %w", tabCtx.Err())
	}

	var html string
	var finalURL string
	if err := chromedp.Run(tabCtx,
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &html),
	); err != nil {
		return nil, fmt.Errorf("chromedp snapshot %s: %w", req.URL, err)
	}

	return &Response{
		Request:    req,
		Body:       []byte(html),
		Headers:    http.Header{"Content-Type": []string{"text/html"}},
		StatusCode: int(atomic.LoadInt64(&statusCode)),
		FetchedAt:  time.Now(),
		Latency:    time.Since(start),
		FinalURL:   finalURL,
	}, nil
}

func (cdc *ChromeDPClient) Close() error {
	cdc.logger.Debug("closing chromedp webclient")
	cdc.allocCancel()
	return nil
}
