package batchconv

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// textToPDF lays plain text out onto PDF pages using the requested page
// size, orientation, and margin. Core PDF fonts are cp1252, so runes
// outside that set are transliterated by the unicode translator.
func textToPDF(data []byte, opts ConvertOptions) ([]byte, error) {
	opts = opts.withDefaults()

	orientation := "P"
	if strings.EqualFold(opts.Orientation, "landscape") {
		orientation = "L"
	}

	size, err := pageSizeName(opts.PageSize)
	if err != nil {
		return nil, err
	}

	doc := fpdf.New(orientation, "mm", size, "")
	doc.SetMargins(opts.MarginMM, opts.MarginMM, opts.MarginMM)
	doc.SetAutoPageBreak(true, opts.MarginMM)
	doc.AddPage()
	doc.SetFont("Helvetica", "", 11)

	tr := doc.UnicodeTranslatorFromDescriptor("")
	text := normalizeText(decodeText(data))

	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			doc.Ln(5)
			continue
		}
		doc.MultiCell(0, 5, tr(line), "", "L", false)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func pageSizeName(size string) (string, error) {
	switch strings.ToLower(size) {
	case "a4":
		return "A4", nil
	case "letter":
		return "Letter", nil
	case "legal":
		return "Legal", nil
	}
	return "", fmt.Errorf("unknown page size %q", size)
}
