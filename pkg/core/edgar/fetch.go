package edgar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Archive endpoints. Vars so tests can point them at local servers.
var (
	// EdgarDataURL serves the JSON submissions API.
	EdgarDataURL = "https://data.sec.gov"
	// EdgarArchivesURL serves the filing documents themselves.
	EdgarArchivesURL = "https://www.sec.gov/Archives/edgar/data"
	// TickerURL is the SEC's ticker to CIK mapping file.
	TickerURL = "https://www.sec.gov/files/company_tickers.json"
)

const (
	// DefaultUserAgent identifies the client to the SEC, which
	// requires a contact address in the User-Agent header.
	DefaultUserAgent = "EdgarAdvisor/1.0 (software@example.com)"

	// Content type tokens passed to FetchAndSave.
	ContentTypeJSON = "application/json"
	ContentTypeXML  = "text/xml"
)

// UserAgent returns the User-Agent string to send, preferring the
// USER_AGENT environment variable.
func UserAgent() string {
	if ua := os.Getenv("USER_AGENT"); ua != "" {
		return ua
	}
	return DefaultUserAgent
}

// NewHTTPClient builds a client with the pipeline's timeout policy:
// 10s to connect, 30s for the whole request.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: 10 * time.Second,
			}).DialContext,
		},
	}
}

// FetchAndSave downloads url to path under the rate limiter, reusing
// any existing non-empty file. On return the path holds a complete,
// verified response body, or an error is surfaced. Timeouts map to
// ErrTimeout, bad statuses to ErrRemote, and incomplete bodies to
// ErrTruncated.
func FetchAndSave(ctx context.Context, client *http.Client, url, path, userAgent, contentType string, limiter *RateLimiter) error {
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		log.Printf("Using cached file for %s: %s", url, path)
		return nil
	}

	if err := limiter.Acquire(ctx); err != nil {
		return fmt.Errorf("acquiring rate limit permit: %w", err)
	}
	defer limiter.Release()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", contentType)
	req.Header.Set("Content-Type", contentType)
	// Accept-Encoding is negotiated by the transport, which also
	// decompresses transparently.

	resp, err := client.Do(req)
	if err != nil {
		return classifyTransportError(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d fetching %s", ErrRemote, resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransportError(url, err)
	}

	if err := verifyComplete(body, resp.ContentLength, contentType); err != nil {
		// A complete file from a prior partial run still satisfies
		// the caller.
		if existingComplete(path, contentType) {
			log.Printf("[WARNING] Fetch of %s failed verification (%v), using existing complete file %s", url, err, path)
			return nil
		}
		return fmt.Errorf("fetching %s: %w", url, err)
	}

	if err := writeFileAtomic(path, body); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}

	saved, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("re-reading %s: %w", path, err)
	}
	if len(saved) != len(body) {
		return fmt.Errorf("%w: received %d bytes but saved %d to %s", ErrTruncated, len(body), len(saved), path)
	}

	return nil
}

// verifyComplete checks the body against the advertised length and,
// for JSON, the structural tail.
func verifyComplete(body []byte, contentLength int64, contentType string) error {
	if contentLength >= 0 && contentLength != int64(len(body)) {
		return fmt.Errorf("%w: Content-Length %d but body was %d bytes", ErrTruncated, contentLength, len(body))
	}
	if strings.Contains(contentType, "json") {
		trimmed := strings.TrimSpace(string(body))
		if !strings.HasSuffix(trimmed, "}") {
			return fmt.Errorf("%w: JSON body does not end with '}'", ErrTruncated)
		}
		if !json.Valid(body) {
			return fmt.Errorf("%w: JSON body does not parse", ErrTruncated)
		}
	}
	return nil
}

// existingComplete reports whether a previously cached file passes
// the same completeness checks applied to fresh responses.
func existingComplete(path, contentType string) bool {
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return false
	}
	return verifyComplete(data, int64(len(data)), contentType) == nil
}

// writeFileAtomic writes data to path via a temp file and rename, so
// a crashed run never leaves a half-written cache entry.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

// classifyTransportError maps timeouts to ErrTimeout and everything
// else to ErrRemote.
func classifyTransportError(url string, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %s: %v", ErrTimeout, url, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", ErrTimeout, url, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrRemote, url, err)
}
