package urlutil

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// Normalize parses a user-supplied target and returns a canonical absolute URL.
// A missing scheme defaults to https. The host is lower-cased and
// internationalized hostnames are converted to their ASCII (punycode) form so
// that fetches and comparisons behave consistently.
func Normalize(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty target URL")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("couldn't parse url %s: %w", raw, err)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("url %s has no host", raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		host = ascii
	}
	if port := u.Port(); port != "" &&
		!(u.Scheme == "http" && port == "80") &&
		!(u.Scheme == "https" && port == "443") {
		u.Host = host + ":" + port
	} else {
		u.Host = host
	}

	u.Fragment = ""
	return u, nil
}

// Root returns the scheme://host[:port] origin of u with no path.
func Root(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}

// WellKnown resolves a root-relative path (e.g. "/llms.txt") against u's origin.
func WellKnown(u *url.URL, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return Root(u) + path
}

// Domain returns the host with any leading "www." stripped, which is how the
// site is referred to in generated artifacts.
func Domain(u *url.URL) string {
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// SameHost reports whether the absolute URL raw points at the same host as u.
// Relative references count as same-host.
func SameHost(u *url.URL, raw string) bool {
	ref, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if ref.Host == "" {
		return true
	}
	return strings.EqualFold(ref.Hostname(), u.Hostname())
}

// Resolve makes raw absolute against base. Already-absolute URLs pass through.
func Resolve(base *url.URL, raw string) string {
	ref, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return base.ResolveReference(ref).String()
}
