package entity

import "strings"

// MarkupDocument is the parsed form of a plain-text markup abstract. Markup
// rendering itself is out of scope for this bridge; this is the sparse,
// paragraph-level shape the projector needs to populate a documentation
// node's abstract.
type MarkupDocument struct {
	Source     string
	Paragraphs []string
}

// MarkupParser turns markup source text into a MarkupDocument. The core
// depends on this as an interface, per the "cyclic typings" design note, so
// a host with a real markup engine can substitute its own parser; the
// default parser below is a minimal, total stand-in.
type MarkupParser interface {
	Parse(source string) MarkupDocument
}

// PlainParagraphParser is the default MarkupParser: it splits source on
// blank lines into paragraphs, trimming surrounding whitespace from each.
// It performs no markup interpretation beyond that.
type PlainParagraphParser struct{}

// Parse implements MarkupParser.
func (PlainParagraphParser) Parse(source string) MarkupDocument {
	var paragraphs []string
	for _, block := range strings.Split(source, "\n\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			paragraphs = append(paragraphs, block)
		}
	}
	return MarkupDocument{Source: source, Paragraphs: paragraphs}
}
