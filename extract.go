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
	"path"
	"strings"
)

// DefaultArchiveCodecs returns the built-in container codecs: ZIP, TAR
// (plain and gzip/bzip2 compressed), single-stream GZ/BZ2, 7Z, and RAR.
func DefaultArchiveCodecs() []ArchiveCodec {
	return []ArchiveCodec{
		&ZipCodec{},
		&TarCodec{},
		&GzipCodec{},
		&Bzip2Codec{},
		&SevenZipCodec{},
		&RarCodec{},
	}
}

// extract unpacks one container into SourceItems. An unrecognized or
// unreadable container is fatal — no items could be derived from it. A
// corrupt member of an otherwise valid archive is not: it becomes a
// pre-failed item and extraction continues.
func (e *Engine) extract(name string, data []byte, password string) ([]SourceItem, error) {
	var codec ArchiveCodec
	for _, c := range e.codecs {
		if c.Match(name, data) {
			codec = c
			break
		}
	}
	if codec == nil {
		return nil, &UnsupportedArchiveError{Filename: name}
	}

	entries, err := codec.List(name, data, password)
	if errors.Is(err, ErrPasswordRequired) {
		return nil, &ArchivePasswordRequiredError{Filename: name}
	}
	if err != nil {
		return nil, &UnsupportedArchiveError{Filename: name, Reason: err.Error()}
	}

	var items []SourceItem
	for _, entry := range entries {
		if entry.Dir {
			continue
		}
		entryName := flattenEntryName(entry.Name)
		if entryName == "" {
			e.log.Warn("dropping archive entry with unusable name", "archive", name, "entry", entry.Name)
			continue
		}

		content, err := codec.Read(name, data, password, entry.Name)
		if errors.Is(err, ErrPasswordRequired) {
			return nil, &ArchivePasswordRequiredError{Filename: name}
		}
		if err != nil {
			e.log.Warn("corrupt archive entry", "archive", name, "entry", entry.Name, "error", err)
			items = append(items, failedSourceItem(entryName, OriginArchive, KindCorruptArchiveEntry, err.Error()))
			continue
		}
		items = append(items, newSourceItem(entryName, content, OriginArchive))
	}
	return items, nil
}

// flattenEntryName reduces an archive-internal path to a safe file name.
// Parent-directory segments and absolute paths never survive: only the base
// name does. Returns "" for entries with no usable base.
func flattenEntryName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	base := path.Base(path.Clean(name))
	if base == "." || base == ".." || base == "/" || base == "" {
		return ""
	}
	return sanitizeFileName(base)
}
