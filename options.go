package batchconv

import (
	"log/slog"
	"net/http"
	"time"
)

// Option configures an Engine.
type Option func(*Engine)

// WithConverter replaces the default per-pair format converter with a
// custom collaborator.
func WithConverter(c Converter) Option {
	return func(e *Engine) {
		e.converter = c
	}
}

// WithArchiveCodecs replaces the built-in container codecs.
func WithArchiveCodecs(codecs ...ArchiveCodec) Option {
	return func(e *Engine) {
		e.codecs = codecs
	}
}

// WithWorkers sets the upper bound on simultaneous in-flight conversions.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithFetchTimeout bounds each remote fetch, connect through read.
func WithFetchTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.fetchTimeout = d
		}
	}
}

// WithFetchLimit caps the byte size of a single fetched body.
func WithFetchLimit(n int64) Option {
	return func(e *Engine) {
		if n > 0 {
			e.fetchLimit = n
		}
	}
}

// WithMaxRedirects bounds redirect hops per URL.
func WithMaxRedirects(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.maxRedirects = n
		}
	}
}

// WithBatchTimeout bounds a whole Run; on expiry, undispatched items are
// recorded as cancelled and completed work is still packaged.
func WithBatchTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.batchTimeout = d
	}
}

// WithHTTPClient substitutes the fetcher's HTTP client. Redirect and
// timeout policy are still applied on top of it.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Engine) {
		if c != nil {
			e.httpClient = c
		}
	}
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}
