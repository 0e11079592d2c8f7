package batchconv

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"path"
	"strings"

	"github.com/nicholasgasior/batchconv-go/internal/ooxml"
)

func epubToMarkdown(data []byte, opts ConvertOptions) ([]byte, error) {
	zr, err := ooxml.Open(data)
	if err != nil {
		return nil, fmt.Errorf("open EPUB ZIP: %w", err)
	}

	opfPath, err := findOPFPath(zr)
	if err != nil {
		return nil, fmt.Errorf("find OPF: %w", err)
	}

	meta, manifest, spine, err := parseOPF(zr, opfPath)
	if err != nil {
		return nil, fmt.Errorf("parse OPF: %w", err)
	}

	var md strings.Builder

	if meta.title != "" {
		fmt.Fprintf(&md, "# %s\n\n", meta.title)
	}
	if len(meta.authors) > 0 {
		fmt.Fprintf(&md, "**Authors:** %s\n\n", strings.Join(meta.authors, ", "))
	}
	if meta.language != "" {
		fmt.Fprintf(&md, "**Language:** %s\n\n", meta.language)
	}
	if meta.publisher != "" {
		fmt.Fprintf(&md, "**Publisher:** %s\n\n", meta.publisher)
	}
	if meta.date != "" {
		fmt.Fprintf(&md, "**Date:** %s\n\n", meta.date)
	}
	if meta.description != "" {
		fmt.Fprintf(&md, "**Description:** %s\n\n", meta.description)
	}

	// Walk the spine in reading order, converting each HTML document.
	opfDir := path.Dir(opfPath)
	for _, itemRef := range spine {
		item, ok := manifest[itemRef]
		if !ok {
			continue
		}

		filePath := item.href
		if opfDir != "." && !strings.HasPrefix(filePath, "/") {
			filePath = opfDir + "/" + filePath
		}

		fileData, err := ooxml.ReadFile(zr, filePath)
		if err != nil {
			continue
		}

		ext := strings.ToLower(path.Ext(filePath))
		isHTML := ext == ".html" || ext == ".htm" || ext == ".xhtml" ||
			strings.Contains(item.mediaType, "html") || strings.Contains(item.mediaType, "xhtml")
		if !isHTML {
			continue
		}

		chapter, err := htmlToMarkdown(fileData, opts)
		if err == nil && len(bytes.TrimSpace(chapter)) > 0 {
			md.Write(chapter)
			md.WriteString("\n\n")
		}
	}

	return []byte(md.String()), nil
}

func epubToText(data []byte, opts ConvertOptions) ([]byte, error) {
	md, err := epubToMarkdown(data, opts)
	if err != nil {
		return nil, err
	}
	return markdownToText(md, opts)
}

type epubMetadata struct {
	title       string
	authors     []string
	language    string
	publisher   string
	date        string
	description string
}

type opfItem struct {
	id        string
	href      string
	mediaType string
}

// findOPFPath locates the package document via META-INF/container.xml.
func findOPFPath(zr *zip.Reader) (string, error) {
	data, err := ooxml.ReadFile(zr, "META-INF/container.xml")
	if err != nil {
		return "", err
	}

	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := tok.(xml.StartElement); ok {
			if se.Name.Local == "rootfile" {
				for _, attr := range se.Attr {
					if attr.Name.Local == "full-path" {
						return attr.Value, nil
					}
				}
			}
		}
	}

	return "", fmt.Errorf("rootfile not found in container.xml")
}

// parseOPF extracts metadata, the manifest, and the spine from the OPF.
func parseOPF(zr *zip.Reader, opfPath string) (epubMetadata, map[string]opfItem, []string, error) {
	data, err := ooxml.ReadFile(zr, opfPath)
	if err != nil {
		return epubMetadata{}, nil, nil, err
	}

	var meta epubMetadata
	manifest := make(map[string]opfItem)
	var spine []string

	decoder := xml.NewDecoder(bytes.NewReader(data))

	var inMetadata bool
	var currentTag string

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "metadata":
				inMetadata = true
			case "title", "creator", "language", "publisher", "date", "description":
				if inMetadata {
					currentTag = t.Name.Local
				}
			case "item":
				var item opfItem
				for _, attr := range t.Attr {
					switch attr.Name.Local {
					case "id":
						item.id = attr.Value
					case "href":
						item.href = attr.Value
					case "media-type":
						item.mediaType = attr.Value
					}
				}
				if item.id != "" {
					manifest[item.id] = item
				}
			case "itemref":
				for _, attr := range t.Attr {
					if attr.Name.Local == "idref" {
						spine = append(spine, attr.Value)
					}
				}
			}

		case xml.CharData:
			if inMetadata {
				text := strings.TrimSpace(string(t))
				switch currentTag {
				case "title":
					meta.title = text
				case "creator":
					if text != "" {
						meta.authors = append(meta.authors, text)
					}
				case "language":
					meta.language = text
				case "publisher":
					meta.publisher = text
				case "date":
					meta.date = text
				case "description":
					meta.description = text
				}
			}

		case xml.EndElement:
			if t.Name.Local == "metadata" {
				inMetadata = false
			}
			currentTag = ""
		}
	}

	return meta, manifest, spine, nil
}
