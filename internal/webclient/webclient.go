package webclient

import "context"

// WebClient executes HTTP requests against audited sites. Implementations
// must honor ctx cancellation and must not retry on their own.
type WebClient interface {
	Do(ctx context.Context, req *Request) (*Response, error)

	Close() error
}
