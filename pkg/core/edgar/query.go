package edgar

import "time"

// Query selects filings from a company's submission index.
type Query struct {
	// Tickers holds the query symbols; the first entry is the
	// primary issuer whose CIK is resolved.
	Tickers []string

	// StartDate and EndDate bound the filing date, inclusive.
	StartDate time.Time
	EndDate   time.Time

	// ReportTypes lists the accepted form types.
	ReportTypes []ReportType

	// IsADR marks American Depositary Receipt issuers. Processing is
	// currently identical to standard filings.
	IsADR bool
}

// NewQuery builds a query over the given tickers, date range, and
// form types.
func NewQuery(tickers []string, start, end time.Time, reportTypes []ReportType) *Query {
	return &Query{
		Tickers:     tickers,
		StartDate:   start,
		EndDate:     end,
		ReportTypes: reportTypes,
	}
}

// matchesReportType reports whether rt is one of the accepted types.
func (q *Query) matchesReportType(rt ReportType) bool {
	for _, want := range q.ReportTypes {
		if rt.Equal(want) {
			return true
		}
	}
	return false
}

// matchesDate reports whether d falls within [StartDate, EndDate].
func (q *Query) matchesDate(d time.Time) bool {
	return !d.Before(q.StartDate) && !d.After(q.EndDate)
}
