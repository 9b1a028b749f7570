package edgar

import (
	"os"
	"path/filepath"
)

// Cache layout under the data root:
//
//	{root}/edgar/filings/CIK{cid}_{page}.json   submission index pages
//	{root}/edgar/filings/{cid}/{accession}/     primary documents
//	{root}/edgar/tickers.json                   ticker map
//	{root}/edgar/parsed/{cid}/{accession}/      rendered markdown
//
// The root comes from ADVISOR_DATA_DIR and defaults to "data".

const defaultDataDir = "data"

// DataDir returns the data root directory.
func DataDir() string {
	if dir := os.Getenv("ADVISOR_DATA_DIR"); dir != "" {
		return dir
	}
	return defaultDataDir
}

// EdgarDir returns the EDGAR cache root.
func EdgarDir() string {
	return filepath.Join(DataDir(), "edgar")
}

// FilingsDir returns the directory holding index pages and documents.
func FilingsDir() string {
	return filepath.Join(EdgarDir(), "filings")
}

// ParsedDir returns the directory holding rendered markdown.
func ParsedDir() string {
	return filepath.Join(EdgarDir(), "parsed")
}

// TickersPath returns the cached ticker map location.
func TickersPath() string {
	return filepath.Join(EdgarDir(), "tickers.json")
}

// EnsureEdgarDirs creates the cache directory tree.
func EnsureEdgarDirs() error {
	for _, dir := range []string{DataDir(), EdgarDir(), FilingsDir(), ParsedDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
