package batchconv

import (
	"archive/tar"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"strings"
)

// TarCodec reads TAR containers, plain or wrapped in gzip/bzip2
// (.tar, .tar.gz, .tgz, .tar.bz2, .tbz2). TAR has no encryption; passwords
// are ignored.
type TarCodec struct{}

func (c *TarCodec) Match(filename string, data []byte) bool {
	name := strings.ToLower(filename)
	for _, suffix := range []string{".tar", ".tar.gz", ".tgz", ".tar.bz2", ".tbz2"} {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	// "ustar" magic at offset 257 in an uncompressed tar.
	return len(data) > 262 && bytes.Equal(data[257:262], []byte("ustar"))
}

func (c *TarCodec) List(filename string, data []byte, password string) ([]ArchiveEntry, error) {
	tr, err := c.open(filename, data)
	if err != nil {
		return nil, err
	}
	var entries []ArchiveEntry
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read TAR header: %w", err)
		}
		switch hdr.Typeflag {
		case tar.TypeReg:
			entries = append(entries, ArchiveEntry{Name: hdr.Name})
		case tar.TypeDir:
			entries = append(entries, ArchiveEntry{Name: hdr.Name, Dir: true})
		}
	}
	return entries, nil
}

func (c *TarCodec) Read(filename string, data []byte, password, entryName string) ([]byte, error) {
	tr, err := c.open(filename, data)
	if err != nil {
		return nil, err
	}
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read TAR header: %w", err)
		}
		if hdr.Name == entryName && hdr.Typeflag == tar.TypeReg {
			return io.ReadAll(tr)
		}
	}
	return nil, fmt.Errorf("entry %q not found", entryName)
}

func (c *TarCodec) open(filename string, data []byte) (*tar.Reader, error) {
	name := strings.ToLower(filename)
	var r io.Reader = bytes.NewReader(data)
	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		r = gz
	case strings.HasSuffix(name, ".tar.bz2"), strings.HasSuffix(name, ".tbz2"):
		r = bzip2.NewReader(r)
	}
	return tar.NewReader(r), nil
}

// GzipCodec treats a bare .gz file as a single-entry container. The entry
// name comes from the gzip header when recorded, else from the container
// filename with its .gz suffix stripped.
type GzipCodec struct{}

var gzipSignature = []byte{0x1f, 0x8b}

func (c *GzipCodec) Match(filename string, data []byte) bool {
	name := strings.ToLower(filename)
	if strings.HasSuffix(name, ".tar.gz") || strings.HasSuffix(name, ".tgz") {
		return false // TarCodec territory
	}
	return strings.HasSuffix(name, ".gz") || bytes.HasPrefix(data, gzipSignature)
}

func (c *GzipCodec) List(filename string, data []byte, password string) ([]ArchiveEntry, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	defer gz.Close()
	return []ArchiveEntry{{Name: singleEntryName(gz.Name, filename, ".gz")}}, nil
}

func (c *GzipCodec) Read(filename string, data []byte, password, entryName string) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	defer gz.Close()
	return io.ReadAll(gz)
}

// Bzip2Codec treats a bare .bz2 file as a single-entry container.
type Bzip2Codec struct{}

var bzip2Signature = []byte("BZh")

func (c *Bzip2Codec) Match(filename string, data []byte) bool {
	name := strings.ToLower(filename)
	if strings.HasSuffix(name, ".tar.bz2") || strings.HasSuffix(name, ".tbz2") {
		return false
	}
	return strings.HasSuffix(name, ".bz2") || bytes.HasPrefix(data, bzip2Signature)
}

func (c *Bzip2Codec) List(filename string, data []byte, password string) ([]ArchiveEntry, error) {
	// bzip2 stores no metadata; validate the stream by decoding a byte.
	r := bzip2.NewReader(bytes.NewReader(data))
	if _, err := r.Read(make([]byte, 1)); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("open bzip2 stream: %w", err)
	}
	return []ArchiveEntry{{Name: singleEntryName("", filename, ".bz2")}}, nil
}

func (c *Bzip2Codec) Read(filename string, data []byte, password, entryName string) ([]byte, error) {
	return io.ReadAll(bzip2.NewReader(bytes.NewReader(data)))
}

// singleEntryName picks a name for the one entry of a single-stream
// container: the name recorded in the stream header, the container filename
// minus its compression suffix, or "content" as a last resort.
func singleEntryName(recorded, filename, suffix string) string {
	if recorded != "" {
		return recorded
	}
	base := strings.TrimSuffix(filename, suffix)
	if base != "" && base != filename {
		return base
	}
	return "content"
}
