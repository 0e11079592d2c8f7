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
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yeka/zip"
)

// ZipCodec reads ZIP containers, including ZipCrypto and AES encrypted
// entries.
type ZipCodec struct{}

var zipSignature = []byte("PK\x03\x04")

func (c *ZipCodec) Match(filename string, data []byte) bool {
	if strings.HasSuffix(strings.ToLower(filename), ".zip") {
		return true
	}
	return bytes.HasPrefix(data, zipSignature)
}

func (c *ZipCodec) List(filename string, data []byte, password string) ([]ArchiveEntry, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open ZIP: %w", err)
	}

	entries := make([]ArchiveEntry, 0, len(zr.File))
	for _, f := range zr.File {
		if f.IsEncrypted() && password == "" {
			return nil, ErrPasswordRequired
		}
		entries = append(entries, ArchiveEntry{
			Name: f.Name,
			Dir:  f.FileInfo().IsDir(),
		})
	}
	return entries, nil
}

func (c *ZipCodec) Read(filename string, data []byte, password, entryName string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open ZIP: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != entryName {
			continue
		}
		if f.IsEncrypted() {
			if password == "" {
				return nil, ErrPasswordRequired
			}
			f.SetPassword(password)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open entry: %w", err)
		}
		defer rc.Close()
		content, err := io.ReadAll(rc)
		if err != nil {
			if f.IsEncrypted() {
				// A wrong password surfaces as a checksum failure.
				return nil, fmt.Errorf("%w: %v", ErrPasswordRequired, err)
			}
			return nil, fmt.Errorf("read entry: %w", err)
		}
		return content, nil
	}
	return nil, fmt.Errorf("entry %q not found", entryName)
}
