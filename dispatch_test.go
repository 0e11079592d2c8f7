package batchconv

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func TestDispatchAllowList(t *testing.T) {
	e := New(WithConverter(upperConverter()))

	out := e.dispatch(newSourceItem("notes.txt", []byte("x"), OriginUpload), "md", []string{"pdf", "docx"}, ConvertOptions{})
	if out.Status != StatusSkipped {
		t.Fatalf("status = %s, want skipped", out.Status)
	}
	if out.ErrorKind != KindUnsupportedSource {
		t.Errorf("kind = %s, want %s", out.ErrorKind, KindUnsupportedSource)
	}
	if !strings.Contains(out.ErrorMessage, "allow-list") {
		t.Errorf("message = %q", out.ErrorMessage)
	}

	out = e.dispatch(newSourceItem("notes.txt", []byte("x"), OriginUpload), "md", []string{"txt"}, ConvertOptions{})
	if out.Status != StatusSuccess {
		t.Errorf("allow-listed item: status = %s, want success", out.Status)
	}
}

// An empty allow-list admits everything.
func TestDispatchEmptyAllowList(t *testing.T) {
	e := New(WithConverter(upperConverter()))
	out := e.dispatch(newSourceItem("a.weird", []byte("x"), OriginUpload), "md", nil, ConvertOptions{})
	if out.Status != StatusSuccess {
		t.Errorf("status = %s, want success", out.Status)
	}
}

func TestDispatchStatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		code    StatusCode
		err     error
		status  Status
		kind    ErrorKind
		message string
	}{
		{"ok", StatusOK, nil, StatusSuccess, "", ""},
		{"unsupported pair", StatusUnsupportedPair, fmt.Errorf("no converter registered for txt -> mp3"), StatusFailed, KindUnsupportedPair, "no converter registered for txt -> mp3"},
		{"malformed", StatusMalformedSource, fmt.Errorf("parse CSV: bare quote"), StatusFailed, KindMalformedSource, "parse CSV: bare quote"},
		{"internal", StatusInternalError, nil, StatusFailed, KindInternal, "converter failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := &fakeConverter{fn: func(payload []byte, src, dst string) ([]byte, StatusCode, error) {
				return payload, tt.code, tt.err
			}}
			e := New(WithConverter(conv))
			out := e.dispatch(newSourceItem("f.txt", []byte("x"), OriginUpload), "md", nil, ConvertOptions{})
			if out.Status != tt.status {
				t.Errorf("status = %s, want %s", out.Status, tt.status)
			}
			if out.ErrorKind != tt.kind {
				t.Errorf("kind = %s, want %s", out.ErrorKind, tt.kind)
			}
			if out.ErrorMessage != tt.message {
				t.Errorf("message = %q, want %q", out.ErrorMessage, tt.message)
			}
		})
	}
}

// A panicking converter fails only its own item.
func TestDispatchRecoversConverterPanic(t *testing.T) {
	conv := &fakeConverter{fn: func(payload []byte, src, dst string) ([]byte, StatusCode, error) {
		if strings.HasPrefix(string(payload), "boom") {
			panic("nil dereference in format library")
		}
		return payload, StatusOK, nil
	}}

	e := New(WithConverter(conv))
	result, err := e.Run(context.Background(), BatchRequest{
		TargetFormat: "txt",
		Items: []SourceItem{
			newSourceItem("fine.md", []byte("ok"), OriginUpload),
			newSourceItem("crash.md", []byte("boom"), OriginUpload),
			newSourceItem("fine2.md", []byte("ok"), OriginUpload),
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Succeeded() != 2 {
		t.Errorf("Succeeded() = %d, want 2", result.Succeeded())
	}
	crashed := result.Manifest[1]
	if crashed.Status != StatusFailed || crashed.ErrorKind != KindInternal {
		t.Fatalf("crash.md outcome = %+v", crashed)
	}
	if !strings.Contains(crashed.ErrorMessage, "converter panic") {
		t.Errorf("message = %q", crashed.ErrorMessage)
	}
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		in     string
		target string
		want   string
	}{
		{"report.docx", "md", "report.md"},
		{"archive.tar.gz", "txt", "archive.tar.txt"},
		{"noext", "md", "noext.md"},
		{".hidden", "txt", "output.txt"},
		{"", "md", "output.md"},
	}
	for _, tt := range tests {
		if got := outputName(tt.in, tt.target); got != tt.want {
			t.Errorf("outputName(%q, %q) = %q, want %q", tt.in, tt.target, got, tt.want)
		}
	}
}
