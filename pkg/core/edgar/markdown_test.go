package edgar

import (
	"strings"
	"testing"
)

func segmentFact(name, value, member, start, end string) Fact {
	return Fact{
		Prefix: "us-gaap",
		Name:   name,
		Value:  value,
		Units:  []Unit{{Kind: "unit", Value: "iso4217:USD"}},
		Periods: []Period{
			{Kind: "startDate", Value: start},
			{Kind: "endDate", Value: end},
		},
		Dimensions: []Dimension{{
			AxisNS:     "us-gaap",
			AxisName:   "StatementBusinessSegmentsAxis",
			MemberNS:   "aapl",
			MemberName: member,
		}},
	}
}

func TestRenderMarkdownTables(t *testing.T) {
	facts := []Fact{
		segmentFact("Revenues", "162560000000", "AmericasSegmentMember", "2022-10-01", "2023-09-30"),
		segmentFact("Revenues", "94294000000", "EuropeSegmentMember", "2022-10-01", "2023-09-30"),
		{
			Prefix:  "dei",
			Name:    "EntityRegistrantName",
			Value:   "Apple Inc.",
			Periods: []Period{{Kind: "instant", Value: "2023-09-30"}},
		},
	}

	md := RenderMarkdown(facts)

	if !strings.Contains(md, "# Data Tables") {
		t.Error("missing Data Tables section")
	}
	if !strings.Contains(md, "## us-gaap:Revenues") {
		t.Error("missing table heading for grouped concept")
	}
	if !strings.Contains(md, "| Period | us-gaap:StatementBusinessSegmentsAxis | Value |") {
		t.Errorf("missing table header row in:\n%s", md)
	}
	if !strings.Contains(md, "aapl:AmericasSegmentMember") || !strings.Contains(md, "aapl:EuropeSegmentMember") {
		t.Error("missing member cells")
	}
	if !strings.Contains(md, "$162,560,000,000.00") {
		t.Errorf("value not formatted as USD in:\n%s", md)
	}
	if !strings.Contains(md, "# Facts") {
		t.Error("missing Facts section for the standalone fact")
	}
	if !strings.Contains(md, "dei:EntityRegistrantName Apple Inc. as of 2023-09-30") {
		t.Errorf("standalone fact not in compact form:\n%s", md)
	}
}

func TestRenderMarkdownSingletonStaysCompact(t *testing.T) {
	facts := []Fact{
		segmentFact("Revenues", "100", "AmericasSegmentMember", "2022-10-01", "2023-09-30"),
	}
	md := RenderMarkdown(facts)
	if strings.Contains(md, "# Data Tables") {
		t.Error("a single fact must not form a table")
	}
	if !strings.Contains(md, "[us-gaap:StatementBusinessSegmentsAxis=aapl:AmericasSegmentMember]") {
		t.Errorf("compact fact missing dimension tag:\n%s", md)
	}
}

func TestRenderMarkdownDeterministic(t *testing.T) {
	facts, err := ParseFacts(xbrlFixture)
	if err != nil {
		t.Fatalf("ParseFacts: %v", err)
	}
	// Two Revenues rows so the fixture produces a table as well.
	facts = append(facts, segmentFact("Revenues", "94294000000", "EuropeSegmentMember", "2022-10-01", "2023-09-30"))

	first := RenderMarkdown(facts)
	for i := 0; i < 20; i++ {
		if got := RenderMarkdown(facts); got != first {
			t.Fatalf("render %d differs from the first", i)
		}
	}
}

func TestPeriodLabel(t *testing.T) {
	tests := []struct {
		name    string
		periods []Period
		want    string
	}{
		{"instant", []Period{{Kind: "instant", Value: "2023-09-30"}}, "as of 2023-09-30"},
		{"range", []Period{{Kind: "startDate", Value: "2022-10-01"}, {Kind: "endDate", Value: "2023-09-30"}}, "2022-10-01 – 2023-09-30"},
		{"collapsed range", []Period{{Kind: "startDate", Value: "2023-09-30"}, {Kind: "endDate", Value: "2023-09-30"}}, "as of 2023-09-30"},
		{"start only", []Period{{Kind: "startDate", Value: "2022-10-01"}}, "2022-10-01"},
		{"none", nil, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fact := Fact{Periods: tc.periods}
			if got := periodLabel(&fact); got != tc.want {
				t.Errorf("periodLabel = %q, want %q", got, tc.want)
			}
		})
	}
}
