package edgar

import "testing"

func TestParseReportType(t *testing.T) {
	tests := []struct {
		input   string
		str     string
		isOther bool
	}{
		{"10-K", "10-K", false},
		{"10-q", "10-Q", false},
		{"8-K", "8-K", false},
		{"DEF 14A", "DEF 14A", false},
		{"def 14a", "DEF 14A", false},
		{"N-PORT", "N-PORT", false},
		{"4", "4", false},
		{"10-K/A", "10-K/A", true},
		{"SC 13G", "SC 13G", true},
		{"", "", true},
	}

	for _, tc := range tests {
		rt := ParseReportType(tc.input)
		if rt.String() != tc.str {
			t.Errorf("ParseReportType(%q).String() = %q, want %q", tc.input, rt.String(), tc.str)
		}
		if rt.IsOther() != tc.isOther {
			t.Errorf("ParseReportType(%q).IsOther() = %v, want %v", tc.input, rt.IsOther(), tc.isOther)
		}
	}
}

func TestReportTypeEqual(t *testing.T) {
	if !ParseReportType("10-K").Equal(ParseReportType("10-k")) {
		t.Error("10-K variants should compare equal regardless of case")
	}
	if ParseReportType("10-K").Equal(ParseReportType("10-Q")) {
		t.Error("distinct variants should not compare equal")
	}
	// Two "other" variants are equal only with the same raw tag.
	if !ParseReportType("10-K/A").Equal(ParseReportType("10-K/A")) {
		t.Error("identical other variants should compare equal")
	}
	if ParseReportType("10-K/A").Equal(ParseReportType("10-Q/A")) {
		t.Error("other variants with different raw tags should not compare equal")
	}
}
