package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
)

// TickerEntry maps a trading symbol to its SEC identity.
type TickerEntry struct {
	Ticker      string
	CompanyName string
	CIK         string // zero-padded to 10 digits
}

// tickerIndex is the process-wide ticker map, loaded once on first
// use and read-only afterwards.
var (
	tickerMu    sync.Mutex
	tickerIndex []TickerEntry
)

// secTickerRecord matches one value of company_tickers.json, keyed by
// arbitrary row numbers: {"0": {"cik_str":320193,"ticker":"AAPL",...}}.
type secTickerRecord struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// FetchTickers returns the ticker index, fetching and caching the SEC
// mapping file on first call. The returned slice is sorted by ticker
// so prefix scans are deterministic.
func FetchTickers(ctx context.Context, client *http.Client) ([]TickerEntry, error) {
	tickerMu.Lock()
	defer tickerMu.Unlock()

	if tickerIndex != nil {
		return tickerIndex, nil
	}

	if err := EnsureEdgarDirs(); err != nil {
		return nil, err
	}

	path := TickersPath()
	if err := FetchAndSave(ctx, client, TickerURL, path, UserAgent(), ContentTypeJSON, GlobalRateLimiter()); err != nil {
		return nil, fmt.Errorf("fetching ticker index: %w", err)
	}

	entries, err := loadTickersFrom(path)
	if err != nil {
		return nil, err
	}
	tickerIndex = entries
	return tickerIndex, nil
}

// loadTickersFrom parses a cached company_tickers.json file.
func loadTickersFrom(path string) ([]TickerEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ticker cache %s: %w", path, err)
	}

	var raw map[string]secTickerRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing ticker cache %s: %w", path, err)
	}

	entries := make([]TickerEntry, 0, len(raw))
	for _, rec := range raw {
		entries = append(entries, TickerEntry{
			Ticker:      rec.Ticker,
			CompanyName: rec.Title,
			CIK:         fmt.Sprintf("%010d", rec.CIK),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Ticker < entries[j].Ticker })
	return entries, nil
}

// ValidateTicker uppercases t and rejects anything that is not plain
// alphanumerics.
func ValidateTicker(t string) (string, error) {
	upper := strings.ToUpper(strings.TrimSpace(t))
	if upper == "" {
		return "", fmt.Errorf("%w: empty ticker", ErrInvalidTicker)
	}
	for _, r := range upper {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", fmt.Errorf("%w: %q contains non-alphanumeric characters", ErrInvalidTicker, t)
		}
	}
	return upper, nil
}

// GetCIKForTicker resolves a trading symbol to its 10-digit CIK.
func GetCIKForTicker(ctx context.Context, client *http.Client, ticker string) (string, error) {
	upper, err := ValidateTicker(ticker)
	if err != nil {
		return "", err
	}
	entries, err := FetchTickers(ctx, client)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.Ticker == upper {
			return e.CIK, nil
		}
	}
	return "", fmt.Errorf("%w: %s not found in SEC ticker index", ErrInvalidTicker, ticker)
}

// GetTickerForCIK resolves a CIK back to its primary trading symbol.
// Used when building sink metadata for a parsed filing.
func GetTickerForCIK(ctx context.Context, client *http.Client, cik string) (string, error) {
	padded := PadCIK(cik)
	entries, err := FetchTickers(ctx, client)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.CIK == padded {
			return e.Ticker, nil
		}
	}
	return "", fmt.Errorf("no ticker found for CIK %s", cik)
}

// TickersWithPrefix returns entries whose ticker starts with prefix,
// for autocomplete-style lookups.
func TickersWithPrefix(ctx context.Context, client *http.Client, prefix string) ([]TickerEntry, error) {
	upper := strings.ToUpper(prefix)
	entries, err := FetchTickers(ctx, client)
	if err != nil {
		return nil, err
	}
	var out []TickerEntry
	for _, e := range entries {
		if strings.HasPrefix(e.Ticker, upper) {
			out = append(out, e)
		}
	}
	return out, nil
}

// PadCIK zero-pads a CIK to the 10 digits the submissions API wants.
func PadCIK(cik string) string {
	return fmt.Sprintf("%010s", strings.TrimLeft(cik, "0"))
}
