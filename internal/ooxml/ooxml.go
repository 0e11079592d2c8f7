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

// Package ooxml reads Office Open XML packages (DOCX, PPTX) and other
// ZIP-based document containers (EPUB), and extracts their text content.
package ooxml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// OOXML namespaces used to disambiguate text runs.
const (
	NSWordprocessingML = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	NSDrawingML        = "http://schemas.openxmlformats.org/drawingml/2006/main"
)

// Open wraps an in-memory package as a zip reader.
func Open(data []byte) (*zip.Reader, error) {
	return zip.NewReader(bytes.NewReader(data), int64(len(data)))
}

// ReadFile reads one member of the package by exact name.
func ReadFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("file %q not found in package", name)
}

// Paragraph is one DOCX paragraph: its style name (e.g. "Heading1") and
// its concatenated text runs.
type Paragraph struct {
	Style string
	Text  string
}

// Paragraphs extracts the paragraphs of a DOCX word/document.xml body.
// Only wordprocessingml text runs count; drawing text inside the document
// is ignored so embedded shapes do not duplicate content.
func Paragraphs(doc []byte) ([]Paragraph, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))

	var paragraphs []Paragraph
	var current strings.Builder
	var style string
	inParagraph := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != NSWordprocessingML {
				continue
			}
			switch t.Name.Local {
			case "p":
				inParagraph = true
				current.Reset()
				style = ""
			case "pStyle":
				for _, attr := range t.Attr {
					if attr.Name.Local == "val" {
						style = attr.Value
					}
				}
			case "t":
				if !inParagraph {
					continue
				}
				var text string
				if err := dec.DecodeElement(&text, &t); err == nil {
					current.WriteString(text)
				}
			case "tab":
				if inParagraph {
					current.WriteString("\t")
				}
			case "br", "cr":
				if inParagraph {
					current.WriteString("\n")
				}
			}
		case xml.EndElement:
			if t.Name.Space == NSWordprocessingML && t.Name.Local == "p" && inParagraph {
				paragraphs = append(paragraphs, Paragraph{Style: style, Text: current.String()})
				inParagraph = false
			}
		}
	}
	return paragraphs, nil
}

// SlideText extracts the text of one PPTX slide XML, one line per drawing
// paragraph.
func SlideText(slide []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(slide))

	var out strings.Builder
	var current strings.Builder

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse slide: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space == NSDrawingML && t.Name.Local == "t" {
				var text string
				if err := dec.DecodeElement(&text, &t); err == nil {
					current.WriteString(text)
				}
			}
		case xml.EndElement:
			if t.Name.Space == NSDrawingML && t.Name.Local == "p" {
				if line := strings.TrimSpace(current.String()); line != "" {
					out.WriteString(line)
					out.WriteString("\n")
				}
				current.Reset()
			}
		}
	}
	return out.String(), nil
}
