package batchconv

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchDownloadsEachURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/docs/report.html":
			fmt.Fprint(w, "<html><body>report</body></html>")
		case "/missing.pdf":
			http.NotFound(w, r)
		default:
			fmt.Fprint(w, "ok")
		}
	}))
	defer srv.Close()

	e := New(WithConverter(upperConverter()))
	items := e.fetch(context.Background(), []string{
		srv.URL + "/docs/report.html",
		srv.URL + "/missing.pdf",
	})

	if len(items) != 2 {
		t.Fatalf("fetched %d items, want 2", len(items))
	}

	ok := items[0]
	if !ok.Collected() || ok.Name != "report.html" || ok.Origin != OriginURL {
		t.Errorf("items[0] = %+v", ok)
	}
	if !strings.Contains(string(ok.Payload), "report") {
		t.Errorf("payload = %q", ok.Payload)
	}

	missing := items[1]
	if missing.Collected() || missing.FailKind != KindFetchFailed {
		t.Errorf("items[1] = %+v, want pre-failed fetch_failed", missing)
	}
	if !strings.Contains(missing.FailMessage, "404") {
		t.Errorf("FailMessage = %q", missing.FailMessage)
	}
	if missing.Name != "missing.pdf" {
		t.Errorf("failed item keeps its URL-derived name, got %q", missing.Name)
	}
}

func TestFetchOversizeBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 64))
	}))
	defer srv.Close()

	e := New(WithConverter(upperConverter()), WithFetchLimit(16))
	items := e.fetch(context.Background(), []string{srv.URL + "/big.bin"})

	if items[0].Collected() {
		t.Fatalf("oversize body must fail the item: %+v", items[0])
	}
	if items[0].FailKind != KindFetchFailed || !strings.Contains(items[0].FailMessage, "limit") {
		t.Errorf("item = %+v", items[0])
	}
}

func TestFetchRedirectBound(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Every response redirects; the loop never terminates on its own.
		http.Redirect(w, r, srv.URL+r.URL.Path, http.StatusFound)
	}))
	defer srv.Close()

	e := New(WithConverter(upperConverter()), WithMaxRedirects(3))
	items := e.fetch(context.Background(), []string{srv.URL + "/loop.txt"})

	if items[0].Collected() {
		t.Fatalf("redirect loop must fail the item: %+v", items[0])
	}
	if !strings.Contains(items[0].FailMessage, "redirect") {
		t.Errorf("FailMessage = %q", items[0].FailMessage)
	}
}

// A URL with no usable file name gets a synthesized one with a sniffed
// extension.
func TestFetchSynthesizesName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "%PDF-1.4 fake body")
	}))
	defer srv.Close()

	e := New(WithConverter(upperConverter()))
	items := e.fetch(context.Background(), []string{srv.URL + "/download"})

	it := items[0]
	if !it.Collected() {
		t.Fatalf("fetch failed: %+v", it)
	}
	if !strings.HasPrefix(it.Name, "remote_") {
		t.Errorf("name = %q, want synthesized remote_* name", it.Name)
	}
	if !strings.HasSuffix(it.Name, ".pdf") {
		t.Errorf("name = %q, want sniffed .pdf extension", it.Name)
	}
}

func TestFetchInvalidURL(t *testing.T) {
	e := New(WithConverter(upperConverter()))
	items := e.fetch(context.Background(), []string{"http://\x00bad"})

	if items[0].Collected() || items[0].FailKind != KindFetchFailed {
		t.Fatalf("item = %+v, want pre-failed fetch_failed", items[0])
	}
	if items[0].Name == "" {
		t.Errorf("failed item needs a non-empty name for the manifest")
	}
}

func TestFetchItemName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://example.com/files/doc.pdf", "doc.pdf"},
		{"https://example.com/files/doc.pdf?version=2", "doc.pdf"},
		{"https://example.com/", ""},
		{"https://example.com/api/v1/export", ""},
	}
	for _, tt := range tests {
		if got := fetchItemName(tt.raw, nil); got != tt.want {
			t.Errorf("fetchItemName(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
