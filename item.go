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
	"path"
	"strings"
)

// Origin identifies where a SourceItem came from.
type Origin string

const (
	OriginUpload  Origin = "upload"
	OriginArchive Origin = "archive"
	OriginURL     Origin = "url"
)

// NamedBytes is a raw input blob paired with its filename.
type NamedBytes struct {
	Name string
	Data []byte
}

// SourceItem is one normalized unit of work in a batch: a name, a payload,
// and the format inferred from the name. Items whose collection already
// failed (unreachable URL, corrupt archive entry) carry the failure in
// FailKind/FailMessage and still occupy exactly one manifest slot.
type SourceItem struct {
	Name    string
	Format  string // lowercase extension without the dot; "" when unknown
	Origin  Origin
	Payload []byte

	FailKind    ErrorKind
	FailMessage string
}

// Collected reports whether the item carries a usable payload, as opposed
// to a placeholder recorded for a collection-time failure.
func (it SourceItem) Collected() bool { return it.FailKind == "" }

func newSourceItem(name string, data []byte, origin Origin) SourceItem {
	return SourceItem{
		Name:    name,
		Format:  formatOf(name),
		Origin:  origin,
		Payload: data,
	}
}

func failedSourceItem(name string, origin Origin, kind ErrorKind, msg string) SourceItem {
	return SourceItem{
		Name:        name,
		Format:      formatOf(name),
		Origin:      origin,
		FailKind:    kind,
		FailMessage: msg,
	}
}

// formatOf derives the source format from a filename: the lowercase
// extension without the leading dot, or "" when there is none.
func formatOf(name string) string {
	ext := strings.ToLower(path.Ext(name))
	return strings.TrimPrefix(ext, ".")
}

// normalizeFormat lowercases a format string and strips a leading dot, so
// callers may pass "pdf", ".pdf" or "PDF" interchangeably.
func normalizeFormat(format string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(format)), ".")
}

// Status is the per-item outcome class recorded in the manifest.
type Status string

const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// ConversionOutcome is the result record for one input item. OutputName and
// OutputBytes are set iff Status is StatusSuccess; ErrorKind and
// ErrorMessage iff it is not.
type ConversionOutcome struct {
	Name   string
	Origin Origin
	Status Status

	OutputName  string
	OutputBytes []byte

	ErrorKind    ErrorKind
	ErrorMessage string
}

// BatchRequest describes one batch conversion: a single target format for
// every item, an optional source-format allow-list, and the merged input
// collection in its final order.
type BatchRequest struct {
	TargetFormat         string
	AllowedSourceFormats []string
	Options              ConvertOptions
	Items                []SourceItem
}

// BatchResult is what a completed batch hands back: one outcome per input
// item in input order, plus the packaged result archive.
type BatchResult struct {
	Manifest     []ConversionOutcome
	ArchiveBytes []byte
	ArchiveName  string
}

// Succeeded counts the StatusSuccess records in the manifest.
func (r *BatchResult) Succeeded() int {
	n := 0
	for _, o := range r.Manifest {
		if o.Status == StatusSuccess {
			n++
		}
	}
	return n
}
