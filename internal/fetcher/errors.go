package fetcher

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// FailureKind classifies why a primary-page fetch failed. It is stable and
// machine-readable so callers can map it to exit codes or API payloads.
type FailureKind string

const (
	FailTimeout     FailureKind = "timeout"
	FailDNS         FailureKind = "dns"
	FailTLS         FailureKind = "tls"
	FailConnRefused FailureKind = "connection_refused"
	FailHTTP        FailureKind = "http_error"
	FailNetwork     FailureKind = "network"
)

// Error is a classified fetch failure for the audited page itself. Secondary
// resources never produce one; their absence is a scoring signal.
type Error struct {
	Kind       FailureKind
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Kind == FailHTTP {
		return fmt.Sprintf("fetch %s: %s (status %d)", e.URL, e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Classify wraps a transport error with its failure kind. Checks run from
// most to least specific; url.Error unwrapping falls out of errors.As/Is.
func Classify(url string, err error) *Error {
	kind := FailNetwork

	var dnsErr *net.DNSError
	var certErr *x509.CertificateInvalidError
	var hostErr x509.HostnameError
	var authErr x509.UnknownAuthorityError
	var netErr net.Error

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = FailTimeout
	case errors.As(err, &dnsErr):
		kind = FailDNS
	case errors.As(err, &certErr), errors.As(err, &hostErr), errors.As(err, &authErr):
		kind = FailTLS
	case errors.Is(err, syscall.ECONNREFUSED):
		kind = FailConnRefused
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = FailTimeout
	}

	return &Error{Kind: kind, URL: url, Err: err}
}
