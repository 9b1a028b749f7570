package store

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// maxChunkSize caps a chunk's byte length. Rendered filings run to
// hundreds of kilobytes; embedding models want far less.
const maxChunkSize = 4000

// ChunkMarkdown splits a markdown document into embedding-sized
// chunks. Splits prefer top-level heading boundaries (found with
// goldmark's AST) and fall back to line boundaries inside oversized
// sections. Chunking is deterministic: the same document always
// yields the same chunks.
func ChunkMarkdown(content string) []string {
	sections := splitAtHeadings(content)

	var chunks []string
	for _, section := range sections {
		if len(section) <= maxChunkSize {
			if strings.TrimSpace(section) != "" {
				chunks = append(chunks, section)
			}
			continue
		}
		chunks = append(chunks, splitByLines(section)...)
	}

	if len(chunks) == 0 && strings.TrimSpace(content) != "" {
		chunks = []string{content}
	}
	return chunks
}

// splitAtHeadings cuts the document at each level-1 or level-2
// heading.
func splitAtHeadings(content string) []string {
	source := []byte(content)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var offsets []int
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		heading, ok := node.(*ast.Heading)
		if !ok || heading.Level > 2 {
			continue
		}
		if lines := heading.Lines(); lines.Len() > 0 {
			start := lines.At(0).Start
			// Back up over the "#" markers to the line start.
			for start > 0 && source[start-1] != '\n' {
				start--
			}
			offsets = append(offsets, start)
		}
	}

	if len(offsets) == 0 {
		return []string{content}
	}

	var sections []string
	if offsets[0] > 0 {
		sections = append(sections, content[:offsets[0]])
	}
	for i, start := range offsets {
		end := len(content)
		if i+1 < len(offsets) {
			end = offsets[i+1]
		}
		sections = append(sections, content[start:end])
	}
	return sections
}

// splitByLines packs lines into chunks no larger than maxChunkSize.
func splitByLines(section string) []string {
	var chunks []string
	var b strings.Builder
	for _, line := range strings.SplitAfter(section, "\n") {
		if b.Len() > 0 && b.Len()+len(line) > maxChunkSize {
			chunks = append(chunks, b.String())
			b.Reset()
		}
		b.WriteString(line)
	}
	if strings.TrimSpace(b.String()) != "" {
		chunks = append(chunks, b.String())
	}
	return chunks
}
