package edgar

import "errors"

// Error kinds, by recovery policy. Callers classify with errors.Is.
var (
	// ErrInvalidTicker is returned for tickers that are not plain
	// alphanumerics or are absent from the SEC ticker index.
	ErrInvalidTicker = errors.New("invalid ticker")

	// ErrRemote is returned when the archive answers with a
	// non-success HTTP status.
	ErrRemote = errors.New("remote error")

	// ErrTruncated is returned when a response body fails the
	// completeness checks (Content-Length mismatch, bad JSON tail).
	ErrTruncated = errors.New("truncated response")

	// ErrTimeout is returned when a request hits the connect or
	// total-request timeout. Per-task; a batch keeps going.
	ErrTimeout = errors.New("request timeout")

	// ErrMalformedIndex is returned when the columnar submission
	// index has parallel arrays of differing lengths or an
	// unparseable filing date. Fatal to the whole load.
	ErrMalformedIndex = errors.New("malformed submissions index")

	// ErrXML is returned for an unparseable instance document.
	// Fatal to that filing only.
	ErrXML = errors.New("xml parse error")
)
