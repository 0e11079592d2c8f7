package batchconv

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nwaples/rardecode/v2"
)

// RarCodec reads RAR containers, with password support via rardecode.
type RarCodec struct{}

var rarSignature = []byte("Rar!\x1a\x07")

func (c *RarCodec) Match(filename string, data []byte) bool {
	if strings.HasSuffix(strings.ToLower(filename), ".rar") {
		return true
	}
	return bytes.HasPrefix(data, rarSignature)
}

func (c *RarCodec) List(filename string, data []byte, password string) ([]ArchiveEntry, error) {
	r, err := c.open(data, password)
	if err != nil {
		return nil, err
	}
	var entries []ArchiveEntry
	for {
		hdr, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, mapEncryptionError(err, "read RAR header")
		}
		entries = append(entries, ArchiveEntry{Name: hdr.Name, Dir: hdr.IsDir})
	}
	return entries, nil
}

func (c *RarCodec) Read(filename string, data []byte, password, entryName string) ([]byte, error) {
	r, err := c.open(data, password)
	if err != nil {
		return nil, err
	}
	for {
		hdr, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, mapEncryptionError(err, "read RAR header")
		}
		if hdr.Name == entryName && !hdr.IsDir {
			content, err := io.ReadAll(r)
			if err != nil {
				return nil, mapEncryptionError(err, "read entry")
			}
			return content, nil
		}
	}
	return nil, fmt.Errorf("entry %q not found", entryName)
}

func (c *RarCodec) open(data []byte, password string) (*rardecode.Reader, error) {
	var opts []rardecode.Option
	if password != "" {
		opts = append(opts, rardecode.Password(password))
	}
	r, err := rardecode.NewReader(bytes.NewReader(data), opts...)
	if err != nil {
		return nil, mapEncryptionError(err, "open RAR")
	}
	return r, nil
}
