package edgar

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// fetchResultCap bounds the result channel; producers block when the
// consumer lags, which is the pipeline's only backpressure.
const fetchResultCap = 100

// FetchResult reports the outcome of one filing's document fetch.
type FetchResult struct {
	Path   string
	Filing Filing
	Err    error
}

// xbrlDocumentName rewrites a primary document filename to the
// archive's inline-XBRL instance convention: trailing ".htm" becomes
// "_htm.xml".
func xbrlDocumentName(primaryDocument string) string {
	if strings.HasSuffix(primaryDocument, ".htm") {
		return strings.TrimSuffix(primaryDocument, ".htm") + "_htm.xml"
	}
	return primaryDocument
}

// documentLocation derives the archive URL and cache path for one
// filing's XBRL instance document.
func documentLocation(paddedCIK string, filing Filing) (url, path string) {
	accessionFlat := strings.ReplaceAll(filing.AccessionNumber, "-", "")
	docName := xbrlDocumentName(filing.PrimaryDocument)
	url = fmt.Sprintf("%s/%s/%s/%s", EdgarArchivesURL, paddedCIK, accessionFlat, docName)
	path = filepath.Join(FilingsDir(), paddedCIK, accessionFlat, docName)
	return url, path
}

// fetchFilingDocument downloads one filing's XBRL instance document
// into the cache and returns its on-disk path.
func fetchFilingDocument(ctx context.Context, client *http.Client, paddedCIK string, filing Filing) (string, error) {
	url, path := documentLocation(paddedCIK, filing)
	log.Printf("Fetching %s", url)
	if err := FetchAndSave(ctx, client, url, path, UserAgent(), ContentTypeXML, GlobalRateLimiter()); err != nil {
		return "", err
	}
	return path, nil
}

// FetchFilingDocuments downloads the XBRL instance documents for the
// given filings concurrently. The rate limiter caps how many are in
// network at once. Per-filing failures are logged and reported in the
// result map's absence; they never abort the batch. The returned map
// is path -> filing for every successful fetch.
func FetchFilingDocuments(ctx context.Context, client *http.Client, cik string, filings []Filing) (map[string]Filing, error) {
	paddedCIK := PadCIK(cik)

	if err := EnsureEdgarDirs(); err != nil {
		return nil, err
	}

	results := make(chan FetchResult, fetchResultCap)

	g, gctx := errgroup.WithContext(ctx)
	for _, filing := range filings {
		filing := filing
		g.Go(func() error {
			path, err := fetchFilingDocument(gctx, client, paddedCIK, filing)
			results <- FetchResult{Path: path, Filing: filing, Err: err}
			// Task errors are per-filing: report them, keep the batch.
			return nil
		})
	}

	go func() {
		g.Wait()
		close(results)
	}()

	filingMap := make(map[string]Filing)
	for res := range results {
		if res.Err != nil {
			log.Printf("[ERROR] Fetching filing %s: %v", res.Filing.AccessionNumber, res.Err)
			continue
		}
		filingMap[res.Path] = res.Filing
	}

	if err := ctx.Err(); err != nil {
		return filingMap, err
	}
	return filingMap, nil
}

// FetchMatchingFilings is the pipeline's main entry point: resolve
// the query's primary ticker to a CIK, load and merge the submissions
// index, filter it, and download every matching filing's XBRL
// document. Returns path -> filing for each success.
func FetchMatchingFilings(ctx context.Context, client *http.Client, query *Query) (map[string]Filing, error) {
	if len(query.Tickers) == 0 {
		return nil, fmt.Errorf("%w: query has no tickers", ErrInvalidTicker)
	}

	cik, err := GetCIKForTicker(ctx, client, query.Tickers[0])
	if err != nil {
		return nil, err
	}

	// ADR issuers currently take the standard path; the flag exists
	// so a future rate policy can diverge.
	filings, err := GetCompanyFilings(ctx, client, cik, 0)
	if err != nil {
		return nil, err
	}

	matching, err := FilterFilings(&filings.Filings.Recent, query)
	if err != nil {
		return nil, err
	}
	log.Printf("Query for %s matched %d filings", query.Tickers[0], len(matching))

	return FetchFilingDocuments(ctx, client, cik, matching)
}
