package edgar

import (
	"fmt"
	"sort"
	"strings"
)

// RenderMarkdown renders parsed facts as a markdown document suitable
// for chunking and embedding. Facts sharing a concept and dimension
// axes are grouped into tables; the rest are compact one-line facts.
// Identical input produces byte-identical output: grouping signatures,
// dimension axes, and period labels are all emitted in sorted order,
// and facts otherwise keep their input order.
func RenderMarkdown(facts []Fact) string {
	var md strings.Builder

	tables := detectTables(facts)

	inTable := make(map[int]bool)
	for _, group := range tables {
		for _, idx := range group {
			inTable[idx] = true
		}
	}

	if len(tables) > 0 {
		md.WriteString("# Data Tables\n\n")
		sigs := make([]string, 0, len(tables))
		for sig := range tables {
			sigs = append(sigs, sig)
		}
		sort.Strings(sigs)
		for _, sig := range sigs {
			writeTable(&md, facts, tables[sig])
			md.WriteString("\n")
		}
	}

	var standalone []int
	for i := range facts {
		if !inTable[i] {
			standalone = append(standalone, i)
		}
	}
	if len(standalone) > 0 {
		md.WriteString("# Facts\n\n")
		for _, idx := range standalone {
			md.WriteString(compactFact(&facts[idx]))
			md.WriteString("\n")
		}
	}

	return md.String()
}

// detectTables groups fact indices by concept name plus sorted
// dimension axes. Only groups with more than one fact become tables.
func detectTables(facts []Fact) map[string][]int {
	groups := make(map[string][]int)
	for i, fact := range facts {
		axes := make([]string, 0, len(fact.Dimensions))
		for _, d := range fact.Dimensions {
			axes = append(axes, d.AxisNS+":"+d.AxisName)
		}
		sort.Strings(axes)

		sig := fact.Name
		if len(axes) > 0 {
			sig = fact.Name + "_" + strings.Join(axes, "_")
		}
		groups[sig] = append(groups[sig], i)
	}

	for sig, idxs := range groups {
		if len(idxs) < 2 {
			delete(groups, sig)
		}
	}
	return groups
}

// writeTable emits one table: a Period column, one column per
// dimension axis, and the formatted value.
func writeTable(md *strings.Builder, facts []Fact, group []int) {
	first := &facts[group[0]]
	fmt.Fprintf(md, "## %s:%s\n\n", first.Prefix, first.Name)

	axisSet := make(map[string]bool)
	for _, idx := range group {
		for _, d := range facts[idx].Dimensions {
			axisSet[d.AxisNS+":"+d.AxisName] = true
		}
	}
	axes := make([]string, 0, len(axisSet))
	for a := range axisSet {
		axes = append(axes, a)
	}
	sort.Strings(axes)

	md.WriteString("| Period |")
	for _, a := range axes {
		fmt.Fprintf(md, " %s |", a)
	}
	md.WriteString(" Value |\n")

	md.WriteString("| --- |")
	for range axes {
		md.WriteString(" --- |")
	}
	md.WriteString(" --- |\n")

	rows := make([]int, len(group))
	copy(rows, group)
	sort.SliceStable(rows, func(i, j int) bool {
		return periodLabel(&facts[rows[i]]) < periodLabel(&facts[rows[j]])
	})

	for _, idx := range rows {
		fact := &facts[idx]
		fmt.Fprintf(md, "| %s |", periodLabel(fact))
		for _, axis := range axes {
			member := "-"
			for _, d := range fact.Dimensions {
				if d.AxisNS+":"+d.AxisName == axis {
					member = d.MemberNS + ":" + d.MemberName
					break
				}
			}
			fmt.Fprintf(md, " %s |", member)
		}
		fmt.Fprintf(md, " %s |\n", FormatFactValue(fact.Value, fact.Units))
	}
}

// compactFact renders one fact as a single line: name, formatted
// value, period, and any dimension tags.
func compactFact(fact *Fact) string {
	parts := []string{fmt.Sprintf("%s:%s", fact.Prefix, fact.Name)}

	parts = append(parts, FormatFactValue(fact.Value, fact.Units))

	if label := periodLabel(fact); label != "" {
		parts = append(parts, label)
	}

	for _, d := range fact.Dimensions {
		parts = append(parts, fmt.Sprintf("[%s:%s=%s:%s]", d.AxisNS, d.AxisName, d.MemberNS, d.MemberName))
	}

	return strings.Join(parts, " ")
}

// periodLabel condenses a fact's period entries: "as of {instant}"
// for instants, "{start} – {end}" for ranges.
func periodLabel(fact *Fact) string {
	var instant, start, end string
	for _, p := range fact.Periods {
		switch p.Kind {
		case "instant":
			instant = p.Value
		case "startDate":
			start = p.Value
		case "endDate":
			end = p.Value
		}
	}

	switch {
	case instant != "":
		return "as of " + instant
	case start != "" && end != "":
		if start == end {
			return "as of " + start
		}
		return start + " – " + end
	case start != "":
		return start
	case end != "":
		return end
	default:
		return ""
	}
}
