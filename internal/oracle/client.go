package oracle

import (
	"net/http"
	"time"
)

// DefaultTimeout bounds a single verdict request.
const DefaultTimeout = 5 * time.Second

type clientOptions struct {
	httpClient *http.Client
}

// Option configures an oracle client.
type Option func(*clientOptions)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.httpClient.Timeout = d
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

func newClientOptions(opts ...Option) clientOptions {
	o := clientOptions{
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// callOutcome labels a finished oracle call for metrics.
func callOutcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
