// Package fetcher assembles the immutable site snapshot an audit evaluates.
// It performs every network read up front: the home page first, then the
// well-known side files concurrently. Checks downstream do no I/O.
package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/huiren/geoaudit/internal/audit"
	"github.com/huiren/geoaudit/internal/logging"
	"github.com/huiren/geoaudit/internal/page"
	"github.com/huiren/geoaudit/internal/urlutil"
	"github.com/huiren/geoaudit/internal/webclient"
)

// Fetcher builds SiteContexts through a webclient backend.
type Fetcher struct {
	client webclient.WebClient
	logger logging.Logger
}

func New(client webclient.WebClient, logger logging.Logger) *Fetcher {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Fetcher{
		client: client,
		logger: logger.With(logging.Field{Key: "component", Value: "fetcher"}),
	}
}

// Fetch retrieves the target page and its well-known side files and returns a
// complete SiteContext. The home page is fatal on failure; side files are
// fetched in parallel and recorded as absent on any failure.
func (f *Fetcher) Fetch(ctx context.Context, target string) (*audit.SiteContext, error) {
	u, err := urlutil.Normalize(target)
	if err != nil {
		return nil, err
	}

	f.logger.Info("fetching page", logging.Field{Key: "url", Value: u.String()})

	resp, err := f.client.Do(ctx, &webclient.Request{Method: http.MethodGet, URL: u.String()})
	if err != nil {
		return nil, Classify(u.String(), err)
	}
	if resp.StatusCode >= 400 {
		return nil, &Error{Kind: FailHTTP, URL: u.String(), StatusCode: resp.StatusCode}
	}

	doc, err := page.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", u, err)
	}
	content, err := doc.Content()
	if err != nil {
		f.logger.Warn("content view unavailable, using full document",
			logging.Field{Key: "error", Value: err.Error()})
		content = nil
	}

	finalURL := resp.FinalURL
	if finalURL == "" {
		finalURL = u.String()
	}

	sc := &audit.SiteContext{
		Target:      u,
		FinalURL:    finalURL,
		Doc:         doc,
		Content:     content,
		StatusCode:  resp.StatusCode,
		FetchTimeMS: resp.Latency.Milliseconds(),
	}

	targets := []struct {
		path string
		dst  *audit.Resource
	}{
		{path: "/llms.txt", dst: &sc.LlmsTxt},
		{path: "/llms-full.txt", dst: &sc.LlmsFull},
		{path: "/robots.txt", dst: &sc.Robots},
		{path: "/sitemap.xml", dst: &sc.Sitemap},
	}

	var wg sync.WaitGroup
	for _, tgt := range targets {
		wg.Add(1)
		go func(path string, dst *audit.Resource) {
			defer wg.Done()
			*dst = f.fetchResource(ctx, u, path)
		}(tgt.path, tgt.dst)
	}
	wg.Wait()

	return sc, nil
}

// fetchResource retrieves one well-known file. Every failure mode maps to an
// absent resource; nothing here can fail the audit.
func (f *Fetcher) fetchResource(ctx context.Context, base *url.URL, path string) audit.Resource {
	resURL := urlutil.WellKnown(base, path)
	res := audit.Resource{URL: resURL}

	resp, err := f.client.Do(ctx, &webclient.Request{Method: http.MethodGet, URL: resURL})
	if err != nil {
		f.logger.Debug("side file unavailable",
			logging.Field{Key: "url", Value: resURL},
			logging.Field{Key: "error", Value: err.Error()})
		return res
	}

	res.StatusCode = resp.StatusCode
	res.ContentType = resp.Headers.Get("Content-Type")
	if resp.StatusCode != http.StatusOK {
		return res
	}

	body := string(resp.Body)
	// Servers that answer every path with the home page would otherwise give
	// free credit. An HTML body at a text/xml well-known path is a soft 404.
	if looksLikeHTML(body) {
		f.logger.Debug("side file is an HTML page, treating as absent",
			logging.Field{Key: "url", Value: resURL})
		return res
	}

	res.Present = true
	res.Body = body
	return res
}

func looksLikeHTML(body string) bool {
	head := strings.ToLower(body)
	if len(head) > 256 {
		head = head[:256]
	}
	return strings.Contains(head, "<html") || strings.Contains(head, "<!doctype html")
}
