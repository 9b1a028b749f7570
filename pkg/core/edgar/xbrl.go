package edgar

import (
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/beevik/etree"
)

// Unit is one measure of an XBRL unit. Kind is the measure's parent
// element name: "unit" for plain measures, "unitNumerator" or
// "unitDenominator" inside divide units.
type Unit struct {
	Kind  string
	Value string
}

// String renders a unit the way the fact table shows it.
func (u Unit) String() string {
	return fmt.Sprintf("%s -- %s", u.Kind, u.Value)
}

// Period is one date bound of a context: an "instant", or a
// "startDate"/"endDate" pair recorded as separate entries.
type Period struct {
	Kind  string
	Value string
}

// Dimension qualifies a context along a taxonomy axis.
type Dimension struct {
	AxisNS     string
	AxisName   string
	MemberNS   string
	MemberName string
}

// Fact is a tagged datum from an instance document with its units,
// period, and dimensions joined in by contextRef/unitRef.
type Fact struct {
	ID         string
	Prefix     string
	Name       string
	Value      string
	Decimals   string
	ContextRef string
	UnitRef    string
	Units      []Unit
	Periods    []Period
	Dimensions []Dimension
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Element local names that are never facts.
var nonFactElements = map[string]bool{
	"context":   true,
	"unit":      true,
	"xbrl":      true,
	"schemaRef": true,
}

// ParseFacts parses an XBRL/iXBRL instance document into its facts.
// Whitespace runs are collapsed to single spaces first; layout is
// deliberately lost, numeric content is not. Malformed XML is fatal;
// a malformed explicit member is skipped with a warning.
func ParseFacts(content string) ([]Fact, error) {
	collapsed := whitespaceRun.ReplaceAllString(content, " ")

	doc := etree.NewDocument()
	if err := doc.ReadFromString(collapsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrXML, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: document has no root element", ErrXML)
	}

	units := make(map[string][]Unit)
	periods := make(map[string][]Period)
	dimensions := make(map[string][]Dimension)

	for _, child := range root.ChildElements() {
		switch child.Tag {
		case "unit":
			parseUnit(child, units)
		case "context":
			parseContext(child, periods, dimensions)
		}
	}

	var facts []Fact
	for _, child := range root.ChildElements() {
		if nonFactElements[child.Tag] {
			continue
		}
		if resolveNamespace(child) == "" {
			continue
		}

		contextRef := child.SelectAttrValue("contextRef", "")
		unitRef := child.SelectAttrValue("unitRef", "")

		fact := Fact{
			ID:         child.SelectAttrValue("id", ""),
			Prefix:     child.Space,
			Name:       child.Tag,
			Value:      sanitizeFactText(child.Text()),
			Decimals:   child.SelectAttrValue("decimals", ""),
			ContextRef: contextRef,
			UnitRef:    unitRef,
		}
		if unitRef != "" {
			fact.Units = units[unitRef]
		}
		if contextRef != "" {
			fact.Periods = periods[contextRef]
			fact.Dimensions = dimensions[contextRef]
		}
		facts = append(facts, fact)
	}

	return facts, nil
}

// parseUnit records every descendant measure of a unit element,
// classified by its parent's local name.
func parseUnit(unit *etree.Element, units map[string][]Unit) {
	id := unit.SelectAttrValue("id", "")
	for _, measure := range descendantElements(unit, "measure") {
		kind := ""
		if p := measure.Parent(); p != nil {
			kind = p.Tag
		}
		units[id] = append(units[id], Unit{Kind: kind, Value: strings.TrimSpace(measure.Text())})
	}
}

// parseContext records the period bounds and explicit dimension
// members of one context element.
func parseContext(context *etree.Element, periods map[string][]Period, dimensions map[string][]Dimension) {
	id := context.SelectAttrValue("id", "")

	for _, child := range context.ChildElements() {
		switch child.Tag {
		case "period":
			for _, bound := range descendantElements(child, "instant", "startDate", "endDate") {
				periods[id] = append(periods[id], Period{
					Kind:  bound.Tag,
					Value: strings.TrimSpace(bound.Text()),
				})
			}
		case "entity":
			for _, member := range descendantElements(child, "explicitMember") {
				dim := member.SelectAttrValue("dimension", "")
				if dim == "" {
					continue
				}
				axisNS, axisName, ok := splitQName(dim)
				if !ok {
					log.Printf("[WARNING] Skipping dimension with malformed axis %q in context %s", dim, id)
					continue
				}
				memberNS, memberName, ok := splitQName(strings.TrimSpace(member.Text()))
				if !ok {
					log.Printf("[WARNING] Skipping dimension with malformed member %q in context %s", member.Text(), id)
					continue
				}
				dimensions[id] = append(dimensions[id], Dimension{
					AxisNS:     axisNS,
					AxisName:   axisName,
					MemberNS:   memberNS,
					MemberName: memberName,
				})
			}
		}
	}
}

// splitQName splits "prefix:name"; ok is false when no colon present.
func splitQName(s string) (ns, name string, ok bool) {
	idx := strings.Index(s, ":")
	if idx < 0 {
		return "", "", false
	}
	return s[:idx], s[idx+1:], true
}

// descendantElements collects every descendant of el whose local name
// is one of names, in document order.
func descendantElements(el *etree.Element, names ...string) []*etree.Element {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []*etree.Element
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		for _, child := range e.ChildElements() {
			if want[child.Tag] {
				out = append(out, child)
			}
			walk(child)
		}
	}
	walk(el)
	return out
}

// resolveNamespace resolves el's prefix (or the default xmlns) to a
// namespace URI using the declarations in scope. The parser trusts
// the document's bindings; no prefixes are hard-coded.
func resolveNamespace(el *etree.Element) string {
	prefix := el.Space
	for e := el; e != nil; e = e.Parent() {
		for _, attr := range e.Attr {
			if prefix == "" {
				if attr.Space == "" && attr.Key == "xmlns" {
					return attr.Value
				}
			} else if attr.Space == "xmlns" && attr.Key == prefix {
				return attr.Value
			}
		}
	}
	return ""
}

// sanitizeFactText cleans a fact value: non-ASCII characters become
// spaces, HTML-like markup is reduced to its text, and whitespace
// runs collapse to single spaces.
func sanitizeFactText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if r > 127 {
			b.WriteRune(' ')
		} else {
			b.WriteRune(r)
		}
	}
	out := b.String()

	if strings.Contains(out, "<") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(out)); err == nil {
			out = doc.Text()
		}
	}

	return strings.TrimSpace(whitespaceRun.ReplaceAllString(out, " "))
}
