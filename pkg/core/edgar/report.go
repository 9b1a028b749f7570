package edgar

import "strings"

// ReportType is the SEC form type of a filing. Common forms get their
// own variant; anything else is preserved verbatim via OtherRaw.
type ReportType struct {
	kind     string
	otherRaw string
}

var knownReportTypes = []string{
	"10-K", "10-Q", "8-K", "4", "5", "S-1", "S-3", "S-4",
	"DEF 14A", "13F", "13G", "13D", "SD", "6-K", "20-F",
	"N-1A", "N-CSR", "N-PORT", "N-Q",
}

// ParseReportType maps a raw form tag to a ReportType. Unrecognized
// tags become an "other" variant carrying the original string.
func ParseReportType(s string) ReportType {
	upper := strings.ToUpper(s)
	for _, known := range knownReportTypes {
		if upper == known {
			return ReportType{kind: known}
		}
	}
	return ReportType{kind: "other", otherRaw: s}
}

// IsOther reports whether this is the open "other" variant.
func (rt ReportType) IsOther() bool {
	return rt.kind == "other"
}

// String returns the form tag, or the raw string for other variants.
func (rt ReportType) String() string {
	if rt.IsOther() {
		return rt.otherRaw
	}
	return rt.kind
}

// Equal compares by variant; two "other" variants are equal only when
// their raw tags match.
func (rt ReportType) Equal(o ReportType) bool {
	return rt.kind == o.kind && rt.otherRaw == o.otherRaw
}

// ListReportTypes returns the known form tags, comma separated, for
// help text.
func ListReportTypes() string {
	return strings.Join(knownReportTypes, ", ")
}
