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

// StatusCode is the Converter collaborator's own result taxonomy.
type StatusCode int

const (
	// StatusOK means the conversion produced usable output bytes.
	StatusOK StatusCode = iota
	// StatusUnsupportedPair means no conversion exists for source -> target.
	StatusUnsupportedPair
	// StatusMalformedSource means the payload was rejected by the format library.
	StatusMalformedSource
	// StatusInternalError means the converter failed for an unexpected reason.
	StatusInternalError
)

func (c StatusCode) String() string {
	switch c {
	case StatusOK:
		return "ok"
	case StatusUnsupportedPair:
		return "unsupported pair"
	case StatusMalformedSource:
		return "malformed source"
	default:
		return "internal error"
	}
}

// ConvertOptions carries layout parameters for converters that render pages.
// The zero value means "use defaults" (A4, portrait, 20mm margin).
type ConvertOptions struct {
	PageSize    string  // "A4", "Letter", "Legal"
	Orientation string  // "portrait" or "landscape"
	MarginMM    float64 // page margin in millimeters
}

// withDefaults fills unset fields with the default layout.
func (o ConvertOptions) withDefaults() ConvertOptions {
	if o.PageSize == "" {
		o.PageSize = "A4"
	}
	if o.Orientation == "" {
		o.Orientation = "portrait"
	}
	if o.MarginMM == 0 {
		o.MarginMM = 20
	}
	return o
}

// Converter is the single-file conversion collaborator. Implementations
// transform one opaque payload from sourceFormat to targetFormat. A non-OK
// status comes with an error whose message is preserved verbatim in the
// manifest; Convert must not be invoked for items excluded by the allow-list.
type Converter interface {
	Convert(payload []byte, sourceFormat, targetFormat string, opts ConvertOptions) ([]byte, StatusCode, error)
}

// ArchiveEntry names one member of a container.
type ArchiveEntry struct {
	Name string
	Dir  bool
}

// ArchiveCodec decodes one container format. Match inspects the filename
// and leading bytes; List and Read may return ErrPasswordRequired for
// encrypted containers. Read errors on individual entries are treated as
// per-entry corruption, not container failure. The container filename is
// passed through so single-stream codecs (gz, bz2) can name their entry.
type ArchiveCodec interface {
	Match(filename string, data []byte) bool
	List(filename string, data []byte, password string) ([]ArchiveEntry, error)
	Read(filename string, data []byte, password, entryName string) ([]byte, error)
}
