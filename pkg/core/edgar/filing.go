package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Filing is one row of a company's submissions index.
type Filing struct {
	AccessionNumber    string     `json:"accession_number"`
	FilingDate         time.Time  `json:"filing_date"`
	ReportDate         string     `json:"report_date,omitempty"`
	AcceptanceDateTime string     `json:"acceptance_date_time"`
	Act                string     `json:"act"`
	ReportType         ReportType `json:"-"`
	FileNumber         string     `json:"file_number"`
	FilmNumber         string     `json:"film_number"`
	Items              string     `json:"items"`
	Size               int        `json:"size"`
	IsXBRL             bool       `json:"is_xbrl"`
	IsInlineXBRL       bool       `json:"is_inline_xbrl"`
	PrimaryDocument    string     `json:"primary_document"`
	PrimaryDocDesc     string     `json:"primary_doc_description"`
}

// FilingEntry is the archive's columnar representation: one parallel
// array per field, all the same length.
type FilingEntry struct {
	AccessionNumber    []string `json:"accessionNumber"`
	FilingDate         []string `json:"filingDate"`
	ReportDate         []string `json:"reportDate"`
	AcceptanceDateTime []string `json:"acceptanceDateTime"`
	Act                []string `json:"act"`
	ReportType         []string `json:"form"`
	FileNumber         []string `json:"fileNumber"`
	FilmNumber         []string `json:"filmNumber"`
	Items              []string `json:"items"`
	Size               []int    `json:"size"`
	IsXBRL             []int    `json:"isXBRL"`
	IsInlineXBRL       []int    `json:"isInlineXBRL"`
	PrimaryDocument    []string `json:"primaryDocument"`
	PrimaryDocDesc     []string `json:"primaryDocDescription"`
}

// FilingFile describes one continuation page of the index.
type FilingFile struct {
	Name        string `json:"name"`
	FilingCount int64  `json:"filingCount"`
	FilingFrom  string `json:"filingFrom"`
	FilingTo    string `json:"filingTo"`
}

// FilingsData is the "filings" object of the first index page.
type FilingsData struct {
	Recent FilingEntry  `json:"recent"`
	Files  []FilingFile `json:"files"`
}

// CompanyFilings is the full submissions document for one company.
// After loading, Filings.Recent holds the merge of every page.
type CompanyFilings struct {
	CIK            string      `json:"cik"`
	EntityType     string      `json:"entityType"`
	SIC            string      `json:"sic"`
	SICDescription string      `json:"sicDescription"`
	Name           string      `json:"name"`
	Tickers        []string    `json:"tickers"`
	Exchanges      []string    `json:"exchanges"`
	Filings        FilingsData `json:"filings"`
}

// Len returns the common length of the parallel arrays, or
// ErrMalformedIndex when they disagree.
func (e *FilingEntry) Len() (int, error) {
	n := len(e.AccessionNumber)
	lengths := []int{
		len(e.FilingDate), len(e.ReportDate), len(e.AcceptanceDateTime),
		len(e.Act), len(e.ReportType), len(e.FileNumber), len(e.FilmNumber),
		len(e.Items), len(e.Size), len(e.IsXBRL), len(e.IsInlineXBRL),
		len(e.PrimaryDocument), len(e.PrimaryDocDesc),
	}
	for _, l := range lengths {
		if l != n {
			return 0, fmt.Errorf("%w: parallel arrays have lengths %d and %d", ErrMalformedIndex, n, l)
		}
	}
	return n, nil
}

// Row inflates one index row. The caller is expected to have
// validated lengths via Len.
func (e *FilingEntry) Row(i int) (Filing, error) {
	filingDate, err := time.Parse("2006-01-02", e.FilingDate[i])
	if err != nil {
		return Filing{}, fmt.Errorf("%w: bad filing date %q at row %d", ErrMalformedIndex, e.FilingDate[i], i)
	}
	return Filing{
		AccessionNumber:    e.AccessionNumber[i],
		FilingDate:         filingDate,
		ReportDate:         e.ReportDate[i],
		AcceptanceDateTime: e.AcceptanceDateTime[i],
		Act:                e.Act[i],
		ReportType:         ParseReportType(e.ReportType[i]),
		FileNumber:         e.FileNumber[i],
		FilmNumber:         e.FilmNumber[i],
		Items:              e.Items[i],
		Size:               e.Size[i],
		IsXBRL:             e.IsXBRL[i] == 1,
		IsInlineXBRL:       e.IsInlineXBRL[i] == 1,
		PrimaryDocument:    e.PrimaryDocument[i],
		PrimaryDocDesc:     e.PrimaryDocDesc[i],
	}, nil
}

// append concatenates other's columns onto e, preserving source order.
func (e *FilingEntry) append(other *FilingEntry) {
	e.AccessionNumber = append(e.AccessionNumber, other.AccessionNumber...)
	e.FilingDate = append(e.FilingDate, other.FilingDate...)
	e.ReportDate = append(e.ReportDate, other.ReportDate...)
	e.AcceptanceDateTime = append(e.AcceptanceDateTime, other.AcceptanceDateTime...)
	e.Act = append(e.Act, other.Act...)
	e.ReportType = append(e.ReportType, other.ReportType...)
	e.FileNumber = append(e.FileNumber, other.FileNumber...)
	e.FilmNumber = append(e.FilmNumber, other.FilmNumber...)
	e.Items = append(e.Items, other.Items...)
	e.Size = append(e.Size, other.Size...)
	e.IsXBRL = append(e.IsXBRL, other.IsXBRL...)
	e.IsInlineXBRL = append(e.IsInlineXBRL, other.IsInlineXBRL...)
	e.PrimaryDocument = append(e.PrimaryDocument, other.PrimaryDocument...)
	e.PrimaryDocDesc = append(e.PrimaryDocDesc, other.PrimaryDocDesc...)
}

// MergeFilingEntries concatenates pages column-wise, page 0 first.
// Pages are disjoint by archive contract, so no deduplication.
func MergeFilingEntries(pages []FilingEntry) FilingEntry {
	var merged FilingEntry
	for i := range pages {
		merged.append(&pages[i])
	}
	return merged
}

// indexPagePath is the cache location of one submissions index page.
func indexPagePath(paddedCIK string, page int) string {
	return filepath.Join(FilingsDir(), fmt.Sprintf("CIK%s_%d.json", paddedCIK, page))
}

// fetchFilingPage fetches one index page into the cache. If the fetch
// fails but an earlier run left a file behind, the cached copy is
// used with a warning.
func fetchFilingPage(ctx context.Context, client *http.Client, url, path string) error {
	err := FetchAndSave(ctx, client, url, path, UserAgent(), ContentTypeJSON, GlobalRateLimiter())
	if err == nil {
		return nil
	}
	if _, statErr := os.Stat(path); statErr != nil {
		return fmt.Errorf("fetching index page %s with no local copy: %w", url, err)
	}
	log.Printf("[WARNING] Error fetching %s but local file exists, using cached version: %v", url, err)
	return nil
}

// GetCompanyFilings loads the full submissions index for a CIK,
// following continuation pages until exhausted (or until pageLimit
// pages when pageLimit > 0) and merging every page into
// Filings.Recent. A failed page fetch or parse is fatal to the whole
// load; cached pages are left on disk for inspection.
func GetCompanyFilings(ctx context.Context, client *http.Client, cik string, pageLimit int) (*CompanyFilings, error) {
	paddedCIK := PadCIK(cik)
	currentURL := fmt.Sprintf("%s/submissions/CIK%s.json", EdgarDataURL, paddedCIK)

	log.Printf("Fetching company filings for CIK %s", paddedCIK)

	if err := EnsureEdgarDirs(); err != nil {
		return nil, err
	}

	var (
		pages         []FilingEntry
		continuations []FilingFile
		pageIndex     int
	)

	for {
		path := indexPagePath(paddedCIK, pageIndex)
		if err := fetchFilingPage(ctx, client, currentURL, path); err != nil {
			return nil, err
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading index page %s: %w", path, err)
		}

		if pageIndex == 0 {
			var first CompanyFilings
			if err := json.Unmarshal(content, &first); err != nil {
				return nil, fmt.Errorf("%w: parsing initial page %s: %v", ErrMalformedIndex, path, err)
			}
			pages = append(pages, first.Filings.Recent)
			continuations = first.Filings.Files
		} else {
			var entry FilingEntry
			if err := json.Unmarshal(content, &entry); err != nil {
				return nil, fmt.Errorf("%w: parsing page %d (%s): %v", ErrMalformedIndex, pageIndex, path, err)
			}
			pages = append(pages, entry)
		}

		pageIndex++
		if pageLimit > 0 && pageIndex >= pageLimit {
			break
		}
		if len(continuations) == 0 {
			break
		}
		next := continuations[0]
		continuations = continuations[1:]
		currentURL = fmt.Sprintf("%s/submissions/%s", EdgarDataURL, next.Name)
	}

	// Page 0 carries the company metadata; re-read it and attach the
	// merged filing list.
	content, err := os.ReadFile(indexPagePath(paddedCIK, 0))
	if err != nil {
		return nil, fmt.Errorf("re-reading initial index page: %w", err)
	}
	var result CompanyFilings
	if err := json.Unmarshal(content, &result); err != nil {
		return nil, fmt.Errorf("%w: re-parsing initial page: %v", ErrMalformedIndex, err)
	}

	merged := MergeFilingEntries(pages)
	if _, err := merged.Len(); err != nil {
		return nil, err
	}
	result.Filings.Recent = merged

	logFilingSummary(&merged, paddedCIK)

	return &result, nil
}

// FilterFilings inflates the rows of a merged entry that satisfy the
// query: report type by variant equality and filing date within the
// inclusive range. Only matching rows are materialized.
func FilterFilings(entry *FilingEntry, query *Query) ([]Filing, error) {
	n, err := entry.Len()
	if err != nil {
		return nil, err
	}

	var matches []Filing
	for i := 0; i < n; i++ {
		filing, err := entry.Row(i)
		if err != nil {
			return nil, err
		}
		if query.matchesReportType(filing.ReportType) && query.matchesDate(filing.FilingDate) {
			matches = append(matches, filing)
		}
	}
	return matches, nil
}

// logFilingSummary reports the merged index's shape after a load.
func logFilingSummary(merged *FilingEntry, paddedCIK string) {
	types := make(map[string]struct{})
	for _, rt := range merged.ReportType {
		types[rt] = struct{}{}
	}
	uniqueTypes := make([]string, 0, len(types))
	for t := range types {
		uniqueTypes = append(uniqueTypes, t)
	}
	sort.Strings(uniqueTypes)

	minDate, maxDate := "N/A", "N/A"
	if len(merged.FilingDate) > 0 {
		minDate, maxDate = merged.FilingDate[0], merged.FilingDate[0]
		for _, d := range merged.FilingDate[1:] {
			if d < minDate {
				minDate = d
			}
			if d > maxDate {
				maxDate = d
			}
		}
	}

	log.Printf("Filings summary for CIK %s: %d total, %d report types (%s), dates %s to %s",
		paddedCIK, len(merged.AccessionNumber), len(uniqueTypes),
		strings.Join(uniqueTypes, ", "), minDate, maxDate)
}
