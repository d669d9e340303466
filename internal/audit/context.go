package audit

import (
	"net/url"

	"github.com/huiren/geoaudit/internal/page"
)

// Resource is one secondary well-known file fetched alongside the home page.
// Absence is a scoring signal, never an error: a missing llms.txt simply
// scores zero on the checks that want it.
type Resource struct {
	URL         string
	Present     bool
	StatusCode  int
	ContentType string
	Body        string
}

// SiteContext is the immutable snapshot a single audit evaluates. It is
// assembled once by the fetcher, before any check runs, and is never mutated
// afterward. Checks perform no I/O; everything they need is in here.
type SiteContext struct {
	// Target is the normalized URL the audit was asked for.
	Target *url.URL

	// FinalURL is the home page URL after redirects.
	FinalURL string

	// Doc is the parsed home page. Content is the same page with boilerplate
	// chrome stripped (nav, header, footer, script); content-structure checks
	// prefer it so menus don't count as lists. Nil Content falls back to Doc.
	Doc     *page.Document
	Content *page.Document

	// StatusCode and FetchTimeMS describe the home page fetch.
	StatusCode  int
	FetchTimeMS int64

	LlmsTxt  Resource
	LlmsFull Resource
	Robots   Resource
	Sitemap  Resource
}
