package batchconv

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/bodgit/sevenzip"
)

// SevenZipCodec reads 7Z containers, including AES-256 encrypted ones.
type SevenZipCodec struct{}

var sevenZipSignature = []byte{'7', 'z', 0xbc, 0xaf, 0x27, 0x1c}

func (c *SevenZipCodec) Match(filename string, data []byte) bool {
	if strings.HasSuffix(strings.ToLower(filename), ".7z") {
		return true
	}
	return bytes.HasPrefix(data, sevenZipSignature)
}

func (c *SevenZipCodec) List(filename string, data []byte, password string) ([]ArchiveEntry, error) {
	r, err := c.open(data, password)
	if err != nil {
		return nil, err
	}
	entries := make([]ArchiveEntry, 0, len(r.File))
	for _, f := range r.File {
		entries = append(entries, ArchiveEntry{
			Name: f.Name,
			Dir:  f.FileInfo().IsDir(),
		})
	}
	return entries, nil
}

func (c *SevenZipCodec) Read(filename string, data []byte, password, entryName string) ([]byte, error) {
	r, err := c.open(data, password)
	if err != nil {
		return nil, err
	}
	for _, f := range r.File {
		if f.Name != entryName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, mapEncryptionError(err, "open entry")
		}
		defer rc.Close()
		content, err := io.ReadAll(rc)
		if err != nil {
			return nil, mapEncryptionError(err, "read entry")
		}
		return content, nil
	}
	return nil, fmt.Errorf("entry %q not found", entryName)
}

func (c *SevenZipCodec) open(data []byte, password string) (*sevenzip.Reader, error) {
	ra := bytes.NewReader(data)
	if password != "" {
		r, err := sevenzip.NewReaderWithPassword(ra, int64(len(data)), password)
		if err != nil {
			return nil, mapEncryptionError(err, "open 7Z")
		}
		return r, nil
	}
	r, err := sevenzip.NewReader(ra, int64(len(data)))
	if err != nil {
		return nil, mapEncryptionError(err, "open 7Z")
	}
	return r, nil
}

// mapEncryptionError turns decoder errors that indicate an absent or wrong
// password into ErrPasswordRequired; anything else passes through wrapped.
func mapEncryptionError(err error, op string) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "password") || strings.Contains(msg, "encrypt") || strings.Contains(msg, "decrypt") {
		return fmt.Errorf("%w: %v", ErrPasswordRequired, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
