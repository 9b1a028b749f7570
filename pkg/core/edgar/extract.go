package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// DocumentSink accepts rendered filing content for embedding. The
// concrete implementation lives downstream (pkg/core/store); the core
// only calls outward through this interface.
type DocumentSink interface {
	StoreDocument(ctx context.Context, content string, metadata map[string]any) error
}

// ExtractFiling parses the XBRL instance document at path, renders it
// to markdown, and persists the rendering plus its metadata under the
// parsed cache tree. Returns the markdown and the sink metadata.
//
// The path is expected to follow the fetcher's layout,
// .../filings/{cik}/{accession}/{doc}, which is where the CIK and
// accession number come from.
func ExtractFiling(ctx context.Context, client *http.Client, path string, reportType ReportType) (string, map[string]any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("reading filing %s: %w", path, err)
	}

	facts, err := ParseFacts(string(content))
	if err != nil {
		return "", nil, fmt.Errorf("parsing filing %s: %w", path, err)
	}

	markdown := RenderMarkdown(facts)

	cik, accession, err := filingPathParts(path)
	if err != nil {
		return "", nil, err
	}

	parsedDir := filepath.Join(ParsedDir(), cik, accession)
	if err := os.MkdirAll(parsedDir, 0755); err != nil {
		return "", nil, fmt.Errorf("creating parsed dir %s: %w", parsedDir, err)
	}

	markdownPath := filepath.Join(parsedDir, "filing.md")
	if err := os.WriteFile(markdownPath, []byte(markdown), 0644); err != nil {
		return "", nil, fmt.Errorf("writing markdown %s: %w", markdownPath, err)
	}
	log.Printf("Saved markdown rendering to %s", markdownPath)

	symbol, err := GetTickerForCIK(ctx, client, cik)
	if err != nil {
		return "", nil, fmt.Errorf("resolving symbol for CIK %s: %w", cik, err)
	}

	metadata := map[string]any{
		"doc_type":         "edgar_filing",
		"filepath":         path,
		"report_type":      reportType.String(),
		"cik":              cik,
		"accession_number": accession,
		"symbol":           symbol,
		"chunk_index":      0,
		"total_chunks":     1,
	}

	metadataPath := filepath.Join(parsedDir, "filing.json")
	metadataJSON, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return "", nil, fmt.Errorf("encoding metadata: %w", err)
	}
	if err := os.WriteFile(metadataPath, metadataJSON, 0644); err != nil {
		return "", nil, fmt.Errorf("writing metadata %s: %w", metadataPath, err)
	}

	return markdown, metadata, nil
}

// ExtractAndStore runs ExtractFiling and hands the result to the
// document sink.
func ExtractAndStore(ctx context.Context, client *http.Client, path string, reportType ReportType, sink DocumentSink) error {
	markdown, metadata, err := ExtractFiling(ctx, client, path, reportType)
	if err != nil {
		return err
	}
	if err := sink.StoreDocument(ctx, markdown, metadata); err != nil {
		return fmt.Errorf("storing filing document %s: %w", path, err)
	}
	log.Printf("Added filing document to sink: %s", path)
	return nil
}

// filingPathParts recovers (cik, accession) from a fetched document
// path, .../{cik}/{accession}/{doc}.
func filingPathParts(path string) (cik, accession string, err error) {
	dir := filepath.Dir(path)
	parts := strings.Split(filepath.ToSlash(dir), "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("filing path %s does not follow the cache layout", path)
	}
	return parts[len(parts)-2], parts[len(parts)-1], nil
}
