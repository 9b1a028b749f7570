package edgar

import "strings"

// FactTableRow is a fact flattened for row-oriented consumers: the
// period entries become three columns and units collapse to one
// string.
type FactTableRow struct {
	ContextRef  string
	Tag         string
	Prefix      string
	Value       string
	PeriodStart string
	PeriodEnd   string
	PointInTime string
	Unit        string
	NumDim      int
}

// FactsToTable flattens facts into rows, in input order.
func FactsToTable(facts []Fact) []FactTableRow {
	rows := make([]FactTableRow, 0, len(facts))
	for _, fact := range facts {
		row := FactTableRow{
			ContextRef: fact.ContextRef,
			Tag:        fact.Name,
			Prefix:     fact.Prefix,
			Value:      fact.Value,
			NumDim:     len(fact.Dimensions),
		}
		for _, period := range fact.Periods {
			switch period.Kind {
			case "startDate":
				row.PeriodStart = period.Value
			case "endDate":
				row.PeriodEnd = period.Value
			case "instant":
				row.PointInTime = period.Value
			}
		}
		if len(fact.Units) > 0 {
			parts := make([]string, len(fact.Units))
			for i, u := range fact.Units {
				parts[i] = u.String()
			}
			row.Unit = strings.Join(parts, " || ")
		}
		rows = append(rows, row)
	}
	return rows
}

// DimensionTableRow maps one context to one of its axis/member pairs.
type DimensionTableRow struct {
	ContextRef   string
	AxisPrefix   string
	AxisTag      string
	MemberPrefix string
	MemberTag    string
}

// DimensionsToTable collects each context's dimensions once, in the
// order contexts are first seen on facts.
func DimensionsToTable(facts []Fact) []DimensionTableRow {
	var rows []DimensionTableRow
	seen := make(map[string]bool)
	for _, fact := range facts {
		if fact.ContextRef == "" || seen[fact.ContextRef] {
			continue
		}
		for _, dim := range fact.Dimensions {
			rows = append(rows, DimensionTableRow{
				ContextRef:   fact.ContextRef,
				AxisPrefix:   dim.AxisNS,
				AxisTag:      dim.AxisName,
				MemberPrefix: dim.MemberNS,
				MemberTag:    dim.MemberName,
			})
			seen[fact.ContextRef] = true
		}
	}
	return rows
}
