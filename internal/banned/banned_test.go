package banned

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	s, err := Parse(strings.NewReader("666\n13\n\n# unlucky\n  42  \n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("expected 3 numbers, got %d", s.Len())
	}
	for _, n := range []string{"666", "13", "42"} {
		if !s.Contains(n) {
			t.Fatalf("expected %q to be banned", n)
		}
	}
	if s.Contains("# unlucky") {
		t.Fatal("comment line must not be banned")
	}
	if s.Contains("7") {
		t.Fatal("7 should not be banned")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banned.txt")
	if err := os.WriteFile(path, []byte("666\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !s.Contains("666") {
		t.Fatal("expected 666 banned")
	}

	// file:// URIs point at the same loader.
	s, err = Load(context.Background(), "file://"+path)
	if err != nil {
		t.Fatalf("load file uri: %v", err)
	}
	if !s.Contains("666") {
		t.Fatal("expected 666 banned via file uri")
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestLoadFromHTTP(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("666\n13\n"))
	}))
	defer ts.Close()

	s, err := Load(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 numbers, got %d", s.Len())
	}
}

func TestLoadHTTPErrorStatusFails(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	if _, err := Load(context.Background(), ts.URL); err == nil {
		t.Fatal("expected error for 404 source")
	}
}
