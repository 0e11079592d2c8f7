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

import "context"

// Collect normalizes the raw input surface into one ordered SourceItem
// collection: direct uploads first, then archive entries, then fetched
// URLs. Nothing is deduplicated; name collisions are resolved at packaging
// time. Fatal only when the merge is empty or the archive itself is
// unusable — per-URL and per-entry trouble is folded into pre-failed items
// so it still reaches the manifest.
func (e *Engine) Collect(ctx context.Context, in CollectRequest) ([]SourceItem, error) {
	var items []SourceItem

	for _, up := range in.Uploads {
		items = append(items, newSourceItem(up.Name, up.Data, OriginUpload))
	}

	if in.Archive != nil {
		extracted, err := e.extract(in.Archive.Name, in.Archive.Data, in.ArchivePassword)
		if err != nil {
			return nil, err
		}
		items = append(items, extracted...)
	}

	if len(in.URLs) > 0 {
		items = append(items, e.fetch(ctx, in.URLs)...)
	}

	if len(items) == 0 {
		return nil, &NoInputsError{}
	}
	return items, nil
}
