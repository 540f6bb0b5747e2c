// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns search results into displayable output. Freeform
// answers go through a small line-oriented markdown reader that supports
// two heading levels, blank-line spacers, single-level lists, inline links
// and bold spans. Nothing else (nesting, italics, tables, escapes) is
// recognized. Structured answers are grouped into agency sections of cards.
package render

import (
	"regexp"
	"strings"
)

// BlockKind identifies a block-level node.
type BlockKind int

const (
	BlockHeading BlockKind = iota
	BlockSpacer
	BlockParagraph
	BlockListItem
)

// InlineKind identifies a span inside a paragraph or list item.
type InlineKind int

const (
	InlineText InlineKind = iota
	InlineBold
	InlineLink
)

// Inline is a text span, an emphasized span, or a hyperlink.
type Inline struct {
	Kind InlineKind
	Text string

	// URL is set for InlineLink.
	URL string
}

func (i Inline) IsLink() bool { return i.Kind == InlineLink }
func (i Inline) IsBold() bool { return i.Kind == InlineBold }

// Block is one rendered line.
type Block struct {
	Kind BlockKind

	// Level is 2 or 3 for headings.
	Level int

	// Text is the heading text with its marker removed.
	Text string

	// Inlines holds the content of paragraphs and list items.
	Inlines []Inline
}

func (b Block) IsHeading() bool  { return b.Kind == BlockHeading }
func (b Block) IsSpacer() bool   { return b.Kind == BlockSpacer }
func (b Block) IsListItem() bool { return b.Kind == BlockListItem }

var (
	// numberedPrefix matches a numbered-list marker such as "12. ".
	numberedPrefix = regexp.MustCompile(`^\d+\.\s`)

	// bulletPrefix matches "- " and "* ".
	bulletPrefix = regexp.MustCompile(`^[-*]\s`)

	// linkPattern matches [label](url); labels cannot contain ']' and urls
	// cannot contain ')'.
	linkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

	// boldPattern matches the shortest **...** span.
	boldPattern = regexp.MustCompile(`\*\*.*?\*\*`)
)

// ParseMarkdown reads text line by line and returns one block per line.
func ParseMarkdown(text string) []Block {
	lines := strings.Split(text, "\n")
	blocks := make([]Block, 0, len(lines))
	for _, line := range lines {
		blocks = append(blocks, parseLine(line))
	}
	return blocks
}

func parseLine(line string) Block {
	line = strings.TrimSuffix(line, "\r")

	if strings.HasPrefix(line, "## ") {
		return Block{Kind: BlockHeading, Level: 2, Text: strings.TrimPrefix(line, "## ")}
	}
	if strings.HasPrefix(line, "### ") {
		return Block{Kind: BlockHeading, Level: 3, Text: strings.TrimPrefix(line, "### ")}
	}

	content := strings.TrimSpace(line)
	if content == "" {
		return Block{Kind: BlockSpacer}
	}

	if isListItem(content) {
		clean := bulletPrefix.ReplaceAllString(content, "")
		clean = numberedPrefix.ReplaceAllString(clean, "")
		return Block{Kind: BlockListItem, Inlines: ParseInline(clean)}
	}

	return Block{Kind: BlockParagraph, Inlines: ParseInline(content)}
}

func isListItem(content string) bool {
	return strings.HasPrefix(content, "- ") ||
		strings.HasPrefix(content, "* ") ||
		numberedPrefix.MatchString(content)
}

// ParseInline scans s for links from left to right. Links become link
// spans; the text around them goes through the bold splitter.
func ParseInline(s string) []Inline {
	var out []Inline
	last := 0
	for _, m := range linkPattern.FindAllStringSubmatchIndex(s, -1) {
		if m[0] > last {
			out = append(out, splitBold(s[last:m[0]])...)
		}
		out = append(out, Inline{
			Kind: InlineLink,
			Text: s[m[2]:m[3]],
			URL:  s[m[4]:m[5]],
		})
		last = m[1]
	}
	if last < len(s) {
		out = append(out, splitBold(s[last:])...)
	}
	return out
}

// splitBold splits s on **...** spans. Delimited spans become bold with
// the markers removed; everything else passes through as text.
func splitBold(s string) []Inline {
	var out []Inline
	last := 0
	for _, m := range boldPattern.FindAllStringIndex(s, -1) {
		if m[0] > last {
			out = append(out, Inline{Kind: InlineText, Text: s[last:m[0]]})
		}
		out = append(out, Inline{Kind: InlineBold, Text: s[m[0]+2 : m[1]-2]})
		last = m[1]
	}
	if last < len(s) {
		out = append(out, Inline{Kind: InlineText, Text: s[last:]})
	}
	return out
}
