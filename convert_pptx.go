package batchconv

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nicholasgasior/batchconv-go/internal/ooxml"
)

// pptxToText extracts slide text in slide order.
func pptxToText(data []byte, _ ConvertOptions) ([]byte, error) {
	slides, err := pptxSlides(data)
	if err != nil {
		return nil, err
	}
	return []byte(normalizeText(strings.Join(slides, "\n"))), nil
}

// pptxToMarkdown renders each slide under a numbered heading.
func pptxToMarkdown(data []byte, _ ConvertOptions) ([]byte, error) {
	slides, err := pptxSlides(data)
	if err != nil {
		return nil, err
	}
	var out strings.Builder
	for i, text := range slides {
		fmt.Fprintf(&out, "## Slide %d\n\n", i+1)
		out.WriteString(text)
		out.WriteString("\n")
	}
	return []byte(normalizeText(out.String())), nil
}

func pptxSlides(data []byte) ([]string, error) {
	zr, err := ooxml.Open(data)
	if err != nil {
		return nil, fmt.Errorf("open PPTX: %w", err)
	}

	var names []string
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			names = append(names, f.Name)
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no slides found in PPTX")
	}
	sortSlideNames(names)

	slides := make([]string, 0, len(names))
	for _, name := range names {
		content, err := ooxml.ReadFile(zr, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		text, err := ooxml.SlideText(content)
		if err != nil {
			return nil, err
		}
		slides = append(slides, text)
	}
	return slides, nil
}

// sortSlideNames orders slide2.xml before slide10.xml.
func sortSlideNames(names []string) {
	num := func(name string) int {
		s := strings.TrimSuffix(strings.TrimPrefix(name, "ppt/slides/slide"), ".xml")
		n := 0
		for _, r := range s {
			if r < '0' || r > '9' {
				return 0
			}
			n = n*10 + int(r-'0')
		}
		return n
	}
	sort.Slice(names, func(i, j int) bool { return num(names[i]) < num(names[j]) })
}
