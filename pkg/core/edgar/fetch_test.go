package edgar

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetchAndSaveWritesVerifiedBody(t *testing.T) {
	body := `{"cik": "0000320193", "name": "Apple Inc."}`
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.Header.Get("User-Agent") == "" {
			t.Error("request missing User-Agent header")
		}
		w.Write([]byte(body))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "page.json")
	err := FetchAndSave(context.Background(), srv.Client(), srv.URL, path, DefaultUserAgent, ContentTypeJSON, NewRateLimiter(2))
	if err != nil {
		t.Fatalf("FetchAndSave: %v", err)
	}

	saved, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if string(saved) != body {
		t.Errorf("saved %q, want %q", saved, body)
	}

	// Warm cache: a second call must not touch the network.
	if err := FetchAndSave(context.Background(), srv.Client(), srv.URL, path, DefaultUserAgent, ContentTypeJSON, NewRateLimiter(2)); err != nil {
		t.Fatalf("second FetchAndSave: %v", err)
	}
	if n := requests.Load(); n != 1 {
		t.Errorf("made %d requests, want 1: warm cache must issue no network I/O", n)
	}
}

func TestFetchAndSaveRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "missing.json")
	err := FetchAndSave(context.Background(), srv.Client(), srv.URL, path, DefaultUserAgent, ContentTypeJSON, NewRateLimiter(2))
	if !errors.Is(err, ErrRemote) {
		t.Fatalf("error = %v, want ErrRemote", err)
	}
	if _, statErr := os.Stat(path); statErr == nil {
		t.Error("failed fetch should not leave a file behind")
	}
}

func TestFetchAndSaveTruncatedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"cik": "0000320193", "fil`)) // cut off mid-stream
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "truncated.json")
	err := FetchAndSave(context.Background(), srv.Client(), srv.URL, path, DefaultUserAgent, ContentTypeJSON, NewRateLimiter(2))
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("error = %v, want ErrTruncated", err)
	}
}

func TestFetchAndSaveBadJSONTail(t *testing.T) {
	// Ends with } but does not parse.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"cik": }`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "bad.json")
	err := FetchAndSave(context.Background(), srv.Client(), srv.URL, path, DefaultUserAgent, ContentTypeJSON, NewRateLimiter(2))
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("error = %v, want ErrTruncated", err)
	}
}

func TestFetchAndSaveReusesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cached.json")
	if err := os.WriteFile(path, []byte(`{"cached": true}`), 0644); err != nil {
		t.Fatal(err)
	}

	// No server at this address; an existing non-empty file wins
	// before any network I/O happens.
	err := FetchAndSave(context.Background(), http.DefaultClient, "http://127.0.0.1:0/nope", path, DefaultUserAgent, ContentTypeJSON, NewRateLimiter(2))
	if err != nil {
		t.Fatalf("FetchAndSave with warm cache: %v", err)
	}
}

func TestFetchAndSaveTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := &http.Client{Timeout: 50 * time.Millisecond}
	path := filepath.Join(t.TempDir(), "slow.json")
	err := FetchAndSave(context.Background(), client, srv.URL, path, DefaultUserAgent, ContentTypeJSON, NewRateLimiter(2))
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("error = %v, want ErrTimeout", err)
	}
}

func TestFetchAndSaveNonJSONSkipsTailCheck(t *testing.T) {
	body := `<xbrl>not json at all</xbrl>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "doc.xml")
	err := FetchAndSave(context.Background(), srv.Client(), srv.URL, path, DefaultUserAgent, ContentTypeXML, NewRateLimiter(2))
	if err != nil {
		t.Fatalf("FetchAndSave XML: %v", err)
	}
	saved, _ := os.ReadFile(path)
	if string(saved) != body {
		t.Errorf("saved %q, want %q", saved, body)
	}
}
