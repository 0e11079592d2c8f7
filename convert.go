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
	"fmt"
	"sort"
)

// PairFunc converts one payload for a single (source, target) pair.
type PairFunc func(data []byte, opts ConvertOptions) ([]byte, error)

type pairKey struct {
	src, dst string
}

// FormatConverter is the built-in Converter collaborator: a registry of
// per-pair conversion functions over the bundled format libraries. Pairs
// without a registered function report StatusUnsupportedPair.
type FormatConverter struct {
	pairs map[pairKey]PairFunc
}

// NewFormatConverter creates a converter with every built-in pair registered.
func NewFormatConverter() *FormatConverter {
	fc := &FormatConverter{pairs: make(map[pairKey]PairFunc)}
	fc.registerBuiltins()
	return fc
}

// Register adds or replaces the conversion function for source -> target.
func (fc *FormatConverter) Register(source, target string, fn PairFunc) {
	fc.pairs[pairKey{normalizeFormat(source), normalizeFormat(target)}] = fn
}

// SupportedPairs lists the registered target formats per source format,
// both sorted.
func (fc *FormatConverter) SupportedPairs() map[string][]string {
	out := make(map[string][]string)
	for k := range fc.pairs {
		out[k.src] = append(out[k.src], k.dst)
	}
	for _, targets := range out {
		sort.Strings(targets)
	}
	return out
}

// Convert implements the Converter collaborator contract.
func (fc *FormatConverter) Convert(payload []byte, sourceFormat, targetFormat string, opts ConvertOptions) ([]byte, StatusCode, error) {
	src := normalizeFormat(sourceFormat)
	dst := normalizeFormat(targetFormat)

	fn, ok := fc.pairs[pairKey{src, dst}]
	if !ok {
		return nil, StatusUnsupportedPair, fmt.Errorf("no converter registered for %s -> %s", orUnknown(src), dst)
	}

	out, err := fn(payload, opts.withDefaults())
	if err != nil {
		return nil, StatusMalformedSource, err
	}
	return out, StatusOK, nil
}

func (fc *FormatConverter) registerBuiltins() {
	// Documents
	fc.Register("pdf", "txt", pdfToText)
	fc.Register("pdf", "md", pdfToText)
	fc.Register("docx", "txt", docxToText)
	fc.Register("docx", "md", docxToMarkdown)
	fc.Register("pptx", "txt", pptxToText)
	fc.Register("pptx", "md", pptxToMarkdown)
	fc.Register("epub", "md", epubToMarkdown)
	fc.Register("epub", "txt", epubToText)
	fc.Register("ipynb", "md", ipynbToMarkdown)

	// Markup
	for _, src := range []string{"html", "htm"} {
		fc.Register(src, "md", htmlToMarkdown)
		fc.Register(src, "txt", htmlToText)
	}
	for _, src := range []string{"md", "markdown"} {
		fc.Register(src, "html", markdownToHTML)
		fc.Register(src, "txt", markdownToText)
	}
	fc.Register("txt", "md", textToMarkdown)
	fc.Register("txt", "pdf", textToPDF)

	// Spreadsheets
	fc.Register("xlsx", "csv", xlsxToCSV)
	fc.Register("xlsx", "md", xlsxToMarkdown)
	fc.Register("xls", "csv", xlsToCSV)
	fc.Register("xls", "md", xlsToMarkdown)
	fc.Register("csv", "xlsx", csvToXLSX)
	fc.Register("csv", "md", csvToMarkdown)

	// Feeds
	for _, src := range []string{"rss", "atom", "xml"} {
		fc.Register(src, "md", feedToMarkdown)
	}
}

func orUnknown(format string) string {
	if format == "" {
		return "(unknown)"
	}
	return format
}
