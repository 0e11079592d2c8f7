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

package batchconv

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// fetch retrieves each URL into a SourceItem. Every URL yields exactly one
// item, in input order: retrieval trouble (bad URL, non-2xx, timeout,
// oversize body, too many redirects) produces a pre-failed item instead of
// aborting the sibling fetches.
func (e *Engine) fetch(ctx context.Context, urls []string) []SourceItem {
	client := e.fetchClient()

	items := make([]SourceItem, len(urls))
	g := new(errgroup.Group)
	g.SetLimit(e.workers)
	for i, raw := range urls {
		g.Go(func() error {
			items[i] = e.fetchOne(ctx, client, raw)
			return nil
		})
	}
	g.Wait() //nolint:errcheck // failures live inside the items

	return items
}

func (e *Engine) fetchOne(ctx context.Context, client *http.Client, raw string) SourceItem {
	name := fetchItemName(raw, nil)

	fctx, cancel := context.WithTimeout(ctx, e.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fctx, http.MethodGet, raw, nil)
	if err != nil {
		return e.fetchFailed(name, raw, fmt.Sprintf("invalid URL: %v", err))
	}

	resp, err := client.Do(req)
	if err != nil {
		return e.fetchFailed(name, raw, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return e.fetchFailed(name, raw, fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	// Read at most one byte past the limit; never buffer an unbounded body.
	data, err := io.ReadAll(io.LimitReader(resp.Body, e.fetchLimit+1))
	if err != nil {
		return e.fetchFailed(name, raw, fmt.Sprintf("read body: %v", err))
	}
	if int64(len(data)) > e.fetchLimit {
		return e.fetchFailed(name, raw, fmt.Sprintf("response exceeds %d byte limit", e.fetchLimit))
	}

	return newSourceItem(fetchItemName(raw, data), data, OriginURL)
}

func (e *Engine) fetchFailed(name, raw, msg string) SourceItem {
	if name == "" {
		name = "remote_" + uuid.NewString()[:8]
	}
	e.log.Warn("fetch failed", "url", raw, "error", msg)
	return failedSourceItem(name, OriginURL, KindFetchFailed, msg)
}

// fetchClient applies the bounded-redirect policy on top of the configured
// or default HTTP client.
func (e *Engine) fetchClient() *http.Client {
	base := e.httpClient
	if base == nil {
		base = http.DefaultClient
	}
	client := *base
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= e.maxRedirects {
			return fmt.Errorf("stopped after %d redirects", e.maxRedirects)
		}
		return nil
	}
	return &client
}

// fetchItemName derives an item name from the URL path's last segment. When
// the path has no usable segment a name is synthesized, with the extension
// sniffed from the body when one is available.
func fetchItemName(raw string, body []byte) string {
	if u, err := url.Parse(raw); err == nil {
		base := path.Base(u.Path)
		if base != "" && base != "." && base != "/" && strings.Contains(base, ".") {
			return sanitizeFileName(base)
		}
	}
	if body == nil {
		return ""
	}
	ext := mimetype.Detect(body).Extension()
	return "remote_" + uuid.NewString()[:8] + ext
}
