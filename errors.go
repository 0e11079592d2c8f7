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
	"errors"
	"fmt"
)

// ErrorKind classifies a per-item, non-fatal failure in the manifest.
type ErrorKind string

const (
	// KindUnsupportedSource marks items excluded by the allow-list.
	KindUnsupportedSource ErrorKind = "unsupported_source"
	// KindUnsupportedPair marks pairs no converter is registered for.
	KindUnsupportedPair ErrorKind = "unsupported_pair"
	// KindMalformedSource marks payloads the converter rejected.
	KindMalformedSource ErrorKind = "malformed_source"
	// KindFetchFailed marks URL-origin items whose retrieval failed.
	KindFetchFailed ErrorKind = "fetch_failed"
	// KindCorruptArchiveEntry marks unreadable members of a valid archive.
	KindCorruptArchiveEntry ErrorKind = "corrupt_archive_entry"
	// KindCancelled marks items never dispatched before cancellation.
	KindCancelled ErrorKind = "cancelled"
	// KindInternal marks unexpected converter faults, caught and downgraded.
	KindInternal ErrorKind = "internal_error"
)

// ErrPasswordRequired is returned by an ArchiveCodec when the container is
// encrypted and no (or the wrong) password was supplied.
var ErrPasswordRequired = errors.New("archive password required")

// NoInputsError is returned when collection produced zero items.
type NoInputsError struct{}

func (e *NoInputsError) Error() string {
	return "no inputs: provide at least one file, archive, or URL"
}

// InvalidTargetFormatError is returned for an empty or unusable target format.
type InvalidTargetFormatError struct {
	Format string
}

func (e *InvalidTargetFormatError) Error() string {
	if e.Format == "" {
		return "invalid target format: empty"
	}
	return fmt.Sprintf("invalid target format %q", e.Format)
}

// UnsupportedArchiveError is returned when no codec recognizes the supplied
// container, or the container itself is unreadable.
type UnsupportedArchiveError struct {
	Filename string
	Reason   string
}

func (e *UnsupportedArchiveError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported archive %q: %s", e.Filename, e.Reason)
	}
	return fmt.Sprintf("unsupported archive %q: unrecognized container format", e.Filename)
}

// ArchivePasswordRequiredError is returned when the archive is encrypted and
// the request carried no password.
type ArchivePasswordRequiredError struct {
	Filename string
}

func (e *ArchivePasswordRequiredError) Error() string {
	return fmt.Sprintf("archive %q is password protected", e.Filename)
}

// PackagingError wraps a failure to finalize the result archive. This is an
// infrastructure fault, not a conversion failure.
type PackagingError struct {
	Err error
}

func (e *PackagingError) Error() string {
	return fmt.Sprintf("packaging result archive: %v", e.Err)
}

func (e *PackagingError) Unwrap() error { return e.Err }

// IsNoInputs reports whether the error is a NoInputsError.
func IsNoInputs(err error) bool {
	var target *NoInputsError
	return errors.As(err, &target)
}

// IsInvalidTargetFormat reports whether the error is an InvalidTargetFormatError.
func IsInvalidTargetFormat(err error) bool {
	var target *InvalidTargetFormatError
	return errors.As(err, &target)
}

// IsUnsupportedArchive reports whether the error is an UnsupportedArchiveError.
func IsUnsupportedArchive(err error) bool {
	var target *UnsupportedArchiveError
	return errors.As(err, &target)
}

// IsArchivePasswordRequired reports whether the error is an ArchivePasswordRequiredError.
func IsArchivePasswordRequired(err error) bool {
	var target *ArchivePasswordRequiredError
	return errors.As(err, &target)
}

// IsPackaging reports whether the error is a PackagingError.
func IsPackaging(err error) bool {
	var target *PackagingError
	return errors.As(err, &target)
}
