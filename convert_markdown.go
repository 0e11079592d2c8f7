package batchconv

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// markdownToHTML renders markdown as a standalone HTML document.
func markdownToHTML(data []byte, _ ConvertOptions) ([]byte, error) {
	var body bytes.Buffer
	if err := markdown.Convert(data, &body); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n</head>\n<body>\n")
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}

// markdownToText strips markdown formatting by rendering to HTML and
// extracting the visible text.
func markdownToText(data []byte, opts ConvertOptions) ([]byte, error) {
	var body bytes.Buffer
	if err := markdown.Convert(data, &body); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return htmlToText(body.Bytes(), opts)
}
