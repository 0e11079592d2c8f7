// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

// Package batchconv converts heterogeneous batches of documents. Inputs may
// arrive as direct blobs, as a compressed archive, or as remote URLs; the
// engine normalizes them into one ordered collection, converts every item
// independently with bounded concurrency, and packages the successes plus a
// per-item manifest into a single result ZIP. A failed item never aborts
// the batch; only unusable requests (no inputs, bad target format,
// unreadable archive, broken output stream) surface as errors.
package batchconv

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultWorkers is the conversion concurrency bound.
	DefaultWorkers = 4
	// DefaultFetchLimit caps one fetched body at 10 MiB.
	DefaultFetchLimit = 10 << 20
	// DefaultFetchTimeout bounds one URL retrieval.
	DefaultFetchTimeout = 30 * time.Second
	// DefaultMaxRedirects bounds redirect hops per URL.
	DefaultMaxRedirects = 5
)

// Engine is the batch conversion pipeline: collection, dispatch, and
// packaging around injected Converter and ArchiveCodec collaborators.
type Engine struct {
	converter Converter
	codecs    []ArchiveCodec

	httpClient   *http.Client
	workers      int
	fetchTimeout time.Duration
	fetchLimit   int64
	maxRedirects int
	batchTimeout time.Duration
	log          *slog.Logger
}

// New creates an Engine with the built-in format converter and container
// codecs, configurable through options.
func New(opts ...Option) *Engine {
	e := &Engine{
		workers:      DefaultWorkers,
		fetchTimeout: DefaultFetchTimeout,
		fetchLimit:   DefaultFetchLimit,
		maxRedirects: DefaultMaxRedirects,
		log:          slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.converter == nil {
		e.converter = NewFormatConverter()
	}
	if e.codecs == nil {
		e.codecs = DefaultArchiveCodecs()
	}
	return e
}

// CollectRequest is the raw input surface of one batch: zero or more direct
// uploads, at most one archive blob, and zero or more URLs.
type CollectRequest struct {
	Uploads         []NamedBytes
	Archive         *NamedBytes
	ArchivePassword string
	URLs            []string
}

// Run converts every item of the request and packages the results. The
// returned manifest has exactly one record per input item, in input order.
// The only fatal conditions are an invalid target format and a packaging
// failure; per-item trouble is recorded in the manifest instead.
func (e *Engine) Run(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	target := normalizeFormat(req.TargetFormat)
	if target == "" {
		return nil, &InvalidTargetFormatError{Format: req.TargetFormat}
	}

	// Allow-list entries accept the same spellings as the target format.
	var allowed []string
	for _, f := range req.AllowedSourceFormats {
		if f = normalizeFormat(f); f != "" {
			allowed = append(allowed, f)
		}
	}

	if e.batchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.batchTimeout)
		defer cancel()
	}

	// Workers write disjoint slots of a pre-sized slice, so manifest order
	// equals input order no matter when each item finishes.
	outcomes := make([]ConversionOutcome, len(req.Items))
	g := new(errgroup.Group)
	g.SetLimit(e.workers)

	for i := range req.Items {
		item := req.Items[i]
		req.Items[i].Payload = nil // slot worker now owns the payload
		g.Go(func() error {
			if ctx.Err() != nil {
				outcomes[i] = ConversionOutcome{
					Name:         item.Name,
					Origin:       item.Origin,
					Status:       StatusFailed,
					ErrorKind:    KindCancelled,
					ErrorMessage: ctx.Err().Error(),
				}
				return nil
			}
			outcomes[i] = e.dispatch(item, target, allowed, req.Options)
			return nil
		})
	}
	g.Wait() //nolint:errcheck // workers never return errors; outcomes carry them

	archive, err := e.pack(outcomes)
	if err != nil {
		return nil, err
	}

	return &BatchResult{
		Manifest:     outcomes,
		ArchiveBytes: archive,
		ArchiveName:  resultArchiveName(req.Items, target),
	}, nil
}

// RunCollected collects inputs and runs the batch in one call.
func (e *Engine) RunCollected(ctx context.Context, targetFormat string, allowed []string, in CollectRequest) (*BatchResult, error) {
	items, err := e.Collect(ctx, in)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, BatchRequest{
		TargetFormat:         targetFormat,
		AllowedSourceFormats: allowed,
		Items:                items,
	})
}
