package batchconv

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestFormatConverterUnregisteredPair(t *testing.T) {
	fc := NewFormatConverter()
	_, code, err := fc.Convert([]byte("x"), "txt", "mp3", ConvertOptions{})
	if code != StatusUnsupportedPair {
		t.Fatalf("code = %v, want StatusUnsupportedPair", code)
	}
	if err == nil || !strings.Contains(err.Error(), "txt -> mp3") {
		t.Errorf("err = %v", err)
	}
}

func TestFormatConverterSupportedPairs(t *testing.T) {
	pairs := NewFormatConverter().SupportedPairs()

	for src, want := range map[string][]string{
		"pdf":  {"md", "txt"},
		"csv":  {"md", "xlsx"},
		"docx": {"md", "txt"},
	} {
		got := pairs[src]
		if len(got) != len(want) {
			t.Errorf("pairs[%q] = %v, want %v", src, got, want)
			continue
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("pairs[%q] = %v, want %v", src, got, want)
				break
			}
		}
	}
}

func TestFormatConverterRegisterOverride(t *testing.T) {
	fc := NewFormatConverter()
	fc.Register("TXT", ".md", func(data []byte, _ ConvertOptions) ([]byte, error) {
		return []byte("custom"), nil
	})
	out, code, err := fc.Convert([]byte("ignored"), "txt", "md", ConvertOptions{})
	if err != nil || code != StatusOK {
		t.Fatalf("Convert: code=%v err=%v", code, err)
	}
	if string(out) != "custom" {
		t.Errorf("out = %q", out)
	}
}

func TestMarkdownToHTML(t *testing.T) {
	out, err := markdownToHTML([]byte("# Title\n\nSome *emphasis*.\n"), ConvertOptions{})
	if err != nil {
		t.Fatalf("markdownToHTML: %v", err)
	}
	html := string(out)
	for _, want := range []string{"<!DOCTYPE html>", "<h1", "Title", "<em>emphasis</em>"} {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %q:\n%s", want, html)
		}
	}
}

func TestHTMLToMarkdown(t *testing.T) {
	in := []byte(`<html><head><script>alert(1)</script></head><body><h1>Hello</h1><p>A <a href="https://example.com">link</a>.</p></body></html>`)
	out, err := htmlToMarkdown(in, ConvertOptions{})
	if err != nil {
		t.Fatalf("htmlToMarkdown: %v", err)
	}
	md := string(out)
	if !strings.Contains(md, "# Hello") {
		t.Errorf("missing heading:\n%s", md)
	}
	if !strings.Contains(md, "[link](https://example.com)") {
		t.Errorf("missing link:\n%s", md)
	}
	if strings.Contains(md, "alert(1)") {
		t.Errorf("script content leaked:\n%s", md)
	}
}

func TestHTMLToText(t *testing.T) {
	out, err := htmlToText([]byte("<html><body><h1>Top</h1><p>one</p><p>two</p></body></html>"), ConvertOptions{})
	if err != nil {
		t.Fatalf("htmlToText: %v", err)
	}
	text := string(out)
	for _, want := range []string{"Top", "one", "two"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "<") {
		t.Errorf("tags leaked:\n%s", text)
	}
}

func TestCSVToMarkdown(t *testing.T) {
	out, err := csvToMarkdown([]byte("id,name\n1,alpha\n2,beta\n"), ConvertOptions{})
	if err != nil {
		t.Fatalf("csvToMarkdown: %v", err)
	}
	md := string(out)
	for _, want := range []string{"| id | name |", "| --- | --- |", "| 1 | alpha |", "| 2 | beta |"} {
		if !strings.Contains(md, want) {
			t.Errorf("missing %q:\n%s", want, md)
		}
	}
}

func TestCSVToXLSXRoundTrip(t *testing.T) {
	out, err := csvToXLSX([]byte("id,name\n1,alpha\n"), ConvertOptions{})
	if err != nil {
		t.Fatalf("csvToXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("open generated workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 || rows[0][0] != "id" || rows[1][1] != "alpha" {
		t.Errorf("rows = %v", rows)
	}
}

func TestXLSXToCSV(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetCellValue(sheet, "A1", "id")
	f.SetCellValue(sheet, "B1", "name")
	f.SetCellValue(sheet, "A2", "1")
	f.SetCellValue(sheet, "B2", "alpha")
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	f.Close()

	out, err := xlsxToCSV(buf.Bytes(), ConvertOptions{})
	if err != nil {
		t.Fatalf("xlsxToCSV: %v", err)
	}
	if got := string(out); got != "id,name\n1,alpha\n" {
		t.Errorf("csv = %q", got)
	}
}

func TestIpynbToMarkdown(t *testing.T) {
	nb := `{
  "metadata": {"kernelspec": {"language": "python"}},
  "cells": [
    {"cell_type": "markdown", "source": ["# Analysis\n", "Intro text."]},
    {"cell_type": "code", "source": "print('hi')", "outputs": [
      {"output_type": "stream", "text": ["hi\n"]}
    ]},
    {"cell_type": "code", "source": "", "outputs": []}
  ]
}`
	out, err := ipynbToMarkdown([]byte(nb), ConvertOptions{})
	if err != nil {
		t.Fatalf("ipynbToMarkdown: %v", err)
	}
	md := string(out)
	for _, want := range []string{"# Analysis", "```python\nprint('hi')\n```", "```\nhi\n```"} {
		if !strings.Contains(md, want) {
			t.Errorf("missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "kernelspec") {
		t.Errorf("metadata leaked:\n%s", md)
	}
}

func TestFeedToMarkdown(t *testing.T) {
	rss := `<?xml version="1.0"?>
<rss version="2.0"><channel>
  <title>Example Feed</title>
  <description>Daily updates</description>
  <item>
    <title>First Post</title>
    <pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
    <description>&lt;p&gt;Hello &lt;b&gt;world&lt;/b&gt;&lt;/p&gt;</description>
  </item>
</channel></rss>`
	out, err := feedToMarkdown([]byte(rss), ConvertOptions{})
	if err != nil {
		t.Fatalf("feedToMarkdown: %v", err)
	}
	md := string(out)
	for _, want := range []string{"# Example Feed", "Daily updates", "## First Post", "**world**"} {
		if !strings.Contains(md, want) {
			t.Errorf("missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "<rss") {
		t.Errorf("raw XML leaked:\n%s", md)
	}
}

func TestTextToPDF(t *testing.T) {
	out, err := textToPDF([]byte("Hello PDF\nsecond line"), ConvertOptions{})
	if err != nil {
		t.Fatalf("textToPDF: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("output does not start with %%PDF: %q", out[:min(16, len(out))])
	}
}

func TestTextToPDFUnknownPageSize(t *testing.T) {
	_, err := textToPDF([]byte("x"), ConvertOptions{PageSize: "A17"})
	if err == nil || !strings.Contains(err.Error(), "page size") {
		t.Fatalf("err = %v, want unknown page size", err)
	}
}

func TestTextToMarkdownNormalizes(t *testing.T) {
	in := []byte("line one\r\nline two   \r\n\r\n\r\n\r\nline three\r\n")
	out, err := textToMarkdown(in, ConvertOptions{})
	if err != nil {
		t.Fatalf("textToMarkdown: %v", err)
	}
	got := string(out)
	if strings.Contains(got, "\r") {
		t.Errorf("CRLF survived: %q", got)
	}
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("blank runs not collapsed: %q", got)
	}
	if !strings.Contains(got, "line two\nline three") && !strings.Contains(got, "line two\n\nline three") {
		t.Errorf("unexpected layout: %q", got)
	}
}

func TestDocxToMarkdown(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Introduction</w:t></w:r></w:p>
    <w:p><w:r><w:t>Plain body </w:t></w:r><w:r><w:t>text.</w:t></w:r></w:p>
  </w:body>
</w:document>`
	data := makeZip(t, map[string]string{"word/document.xml": doc})

	out, err := docxToMarkdown(data, ConvertOptions{})
	if err != nil {
		t.Fatalf("docxToMarkdown: %v", err)
	}
	md := string(out)
	if !strings.Contains(md, "# Introduction") {
		t.Errorf("missing heading:\n%s", md)
	}
	if !strings.Contains(md, "Plain body text.") {
		t.Errorf("runs not joined:\n%s", md)
	}
}

func TestPptxToMarkdownSlideOrder(t *testing.T) {
	slide := func(text string) string {
		return `<?xml version="1.0"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
       xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld><p:spTree><p:sp><p:txBody>
    <a:p><a:r><a:t>` + text + `</a:t></a:r></a:p>
  </p:txBody></p:sp></p:spTree></p:cSld>
</p:sld>`
	}
	data := makeZip(t, map[string]string{
		"ppt/slides/slide10.xml": slide("tenth"),
		"ppt/slides/slide2.xml":  slide("second"),
		"ppt/slides/slide1.xml":  slide("first"),
	})

	out, err := pptxToMarkdown(data, ConvertOptions{})
	if err != nil {
		t.Fatalf("pptxToMarkdown: %v", err)
	}
	md := string(out)
	if !strings.Contains(md, "## Slide 1") || !strings.Contains(md, "## Slide 3") {
		t.Errorf("slide headings missing:\n%s", md)
	}
	// slide2 sorts before slide10 despite lexicographic order.
	if strings.Index(md, "second") > strings.Index(md, "tenth") {
		t.Errorf("slides out of order:\n%s", md)
	}
}

func TestEpubToMarkdown(t *testing.T) {
	data := makeZip(t, map[string]string{
		"mimetype": "application/epub+zip",
		"META-INF/container.xml": `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles><rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/></rootfiles>
</container>`,
		"OEBPS/content.opf": `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Sample Book</dc:title>
    <dc:creator>Test Author</dc:creator>
    <dc:language>en</dc:language>
  </metadata>
  <manifest>
    <item id="ch1" href="chapter1.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine><itemref idref="ch1"/></spine>
</package>`,
		"OEBPS/chapter1.xhtml": `<html><body><h1>Chapter 1</h1><p>It begins.</p></body></html>`,
	})

	out, err := epubToMarkdown(data, ConvertOptions{})
	if err != nil {
		t.Fatalf("epubToMarkdown: %v", err)
	}
	md := string(out)
	for _, want := range []string{"# Sample Book", "**Authors:** Test Author", "# Chapter 1", "It begins."} {
		if !strings.Contains(md, want) {
			t.Errorf("missing %q:\n%s", want, md)
		}
	}
}

func TestNormalizeFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"pdf", "pdf"},
		{".PDF", "pdf"},
		{"  Md ", "md"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeFormat(tt.in); got != tt.want {
			t.Errorf("normalizeFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
