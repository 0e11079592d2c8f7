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
	"fmt"
	"strings"

	"github.com/nicholasgasior/batchconv-go/internal/ooxml"
)

// docxToText extracts the plain paragraph text of a DOCX document.
func docxToText(data []byte, _ ConvertOptions) ([]byte, error) {
	paragraphs, err := docxParagraphs(data)
	if err != nil {
		return nil, err
	}
	var out strings.Builder
	for _, p := range paragraphs {
		out.WriteString(p.Text)
		out.WriteString("\n")
	}
	return []byte(normalizeText(out.String())), nil
}

// docxToMarkdown renders DOCX paragraphs as markdown, mapping HeadingN
// styles to ATX headings.
func docxToMarkdown(data []byte, _ ConvertOptions) ([]byte, error) {
	paragraphs, err := docxParagraphs(data)
	if err != nil {
		return nil, err
	}
	var out strings.Builder
	for _, p := range paragraphs {
		text := strings.TrimSpace(p.Text)
		if text == "" {
			continue
		}
		if level := headingLevel(p.Style); level > 0 {
			out.WriteString(strings.Repeat("#", level))
			out.WriteString(" ")
		}
		out.WriteString(text)
		out.WriteString("\n\n")
	}
	return []byte(normalizeText(out.String())), nil
}

func docxParagraphs(data []byte) ([]ooxml.Paragraph, error) {
	zr, err := ooxml.Open(data)
	if err != nil {
		return nil, fmt.Errorf("open DOCX: %w", err)
	}
	doc, err := ooxml.ReadFile(zr, "word/document.xml")
	if err != nil {
		return nil, fmt.Errorf("read document.xml: %w", err)
	}
	return ooxml.Paragraphs(doc)
}

// headingLevel maps DOCX heading styles ("Heading1".."Heading6", "Title")
// to markdown levels; 0 means body text.
func headingLevel(style string) int {
	if style == "Title" {
		return 1
	}
	if rest, ok := strings.CutPrefix(style, "Heading"); ok && len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
		return int(rest[0] - '0')
	}
	return 0
}
