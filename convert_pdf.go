package batchconv

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfToText extracts plain text from a PDF, page by page.
func pdfToText(data []byte, _ ConvertOptions) ([]byte, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}

	var out strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text := strings.TrimSpace(extractPageText(page))
		if text == "" {
			continue
		}
		out.WriteString(text)
		out.WriteString("\n\n")
	}

	return []byte(normalizeText(out.String())), nil
}

// extractPageText uses GetTextByRow for word-boundary detection, falling
// back to position-sorted character extraction when rows are unavailable.
func extractPageText(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err == nil && len(rows) > 0 {
		var result strings.Builder
		for _, row := range rows {
			var line strings.Builder
			sawGap := false
			for _, word := range row.Content {
				if word.S == "" {
					// An empty string between words marks a boundary.
					sawGap = true
					continue
				}
				if line.Len() > 0 && sawGap && !strings.HasSuffix(line.String(), " ") {
					line.WriteString(" ")
				}
				line.WriteString(word.S)
				sawGap = false
			}
			if text := strings.TrimSpace(line.String()); text != "" {
				result.WriteString(text)
				result.WriteString("\n")
			}
		}
		if text := result.String(); strings.TrimSpace(text) != "" {
			return text
		}
	}

	// Fallback: group characters into lines by Y proximity, then order
	// each line by X.
	content := page.Content()
	type element struct {
		x, y, size float64
		text       string
	}
	var elements []element
	for _, t := range content.Text {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		elements = append(elements, element{x: t.X, y: t.Y, size: t.FontSize, text: t.S})
	}
	if len(elements) == 0 {
		return ""
	}

	tolerance := 3.0
	if elements[0].size > 0 {
		tolerance = elements[0].size * 0.3
	}

	type line struct {
		y        float64
		elements []element
	}
	var lines []line
	for _, el := range elements {
		placed := false
		for i := range lines {
			if abs(lines[i].y-el.y) < tolerance {
				lines[i].elements = append(lines[i].elements, el)
				placed = true
				break
			}
		}
		if !placed {
			lines = append(lines, line{y: el.y, elements: []element{el}})
		}
	}

	// PDF Y grows upward; higher Y is earlier on the page.
	sort.Slice(lines, func(i, j int) bool { return lines[i].y > lines[j].y })

	var result strings.Builder
	for _, ln := range lines {
		sort.Slice(ln.elements, func(i, j int) bool { return ln.elements[i].x < ln.elements[j].x })

		var lineText strings.Builder
		var lastX, lastWidth float64
		for i, el := range ln.elements {
			if i > 0 {
				threshold := el.size * 0.2
				if threshold < 1.0 {
					threshold = 1.0
				}
				if el.x-(lastX+lastWidth) > threshold {
					lineText.WriteString(" ")
				}
			}
			lineText.WriteString(el.text)
			lastX = el.x
			lastWidth = float64(len([]rune(el.text))) * el.size * 0.55
		}
		if text := lineText.String(); strings.TrimSpace(text) != "" {
			result.WriteString(text)
			result.WriteString("\n")
		}
	}
	return result.String()
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
