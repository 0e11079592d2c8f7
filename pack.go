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
	"archive/zip"
	"bytes"
	"fmt"
	"path"
	"strings"
	"unicode/utf8"
)

// pack writes every success output plus the manifest into one ZIP. Name
// collisions among successes are resolved deterministically, in manifest
// order, by appending _1, _2, ... to the stem; the resolved names are
// written back into the outcomes so the manifest reflects them. A batch with
// zero successes still yields a manifest-only archive. Only a failure of the
// archive stream itself is fatal.
func (e *Engine) pack(outcomes []ConversionOutcome) ([]byte, error) {
	claimed := map[string]bool{ManifestFileName: true}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for i := range outcomes {
		o := &outcomes[i]
		if o.Status != StatusSuccess {
			continue
		}
		o.OutputName = claimOutputName(claimed, sanitizeFileName(o.OutputName))
		if err := writeZipEntry(zw, o.OutputName, o.OutputBytes); err != nil {
			return nil, &PackagingError{Err: err}
		}
	}

	manifest, err := buildManifest(outcomes).encode()
	if err != nil {
		return nil, &PackagingError{Err: err}
	}
	if err := writeZipEntry(zw, ManifestFileName, manifest); err != nil {
		return nil, &PackagingError{Err: err}
	}

	if err := zw.Close(); err != nil {
		return nil, &PackagingError{Err: err}
	}
	return buf.Bytes(), nil
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	// The header's zero Modified timestamp keeps output byte-identical
	// across runs for the same outcomes.
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:   name,
		Method: zip.Deflate,
	})
	if err != nil {
		return fmt.Errorf("create entry %q: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write entry %q: %w", name, err)
	}
	return nil
}

// claimOutputName returns name if unclaimed, otherwise the first free
// stem_N.ext variant.
func claimOutputName(claimed map[string]bool, name string) string {
	if !claimed[name] {
		claimed[name] = true
		return name
	}
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, n, ext)
		if !claimed[candidate] {
			claimed[candidate] = true
			return candidate
		}
	}
}

// resultArchiveName names the download: pair-specific when every input item
// shares one source format, generic otherwise.
func resultArchiveName(items []SourceItem, target string) string {
	source := ""
	for _, it := range items {
		if it.Format == "" {
			return "batch_results.zip"
		}
		if source == "" {
			source = it.Format
			continue
		}
		if it.Format != source {
			return "batch_results.zip"
		}
	}
	if source == "" {
		return "batch_results.zip"
	}
	return fmt.Sprintf("batch_%s_to_%s.zip", source, target)
}

// sanitizeFileName strips characters that are unsafe in archive entry or
// file names and caps the length at 255 bytes, preserving the extension.
// An extension that would not itself fit the cap is treated as part of the
// stem; truncation never splits a UTF-8 rune.
func sanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	s := b.String()
	if len(s) > 255 {
		ext := path.Ext(s)
		if len(ext) >= 255 {
			ext = ""
		}
		stem := strings.TrimSuffix(s, ext)
		cut := 255 - len(ext)
		for cut > 0 && cut < len(stem) && !utf8.RuneStart(stem[cut]) {
			cut--
		}
		if cut < len(stem) {
			stem = stem[:cut]
		}
		s = stem + ext
	}
	return s
}
