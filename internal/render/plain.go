// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// WritePlain writes blocks for a terminal: headings underlined, list items
// bulleted, links as "label (url)", bold markers dropped.
func WritePlain(w io.Writer, blocks []Block) error {
	for _, b := range blocks {
		var err error
		switch b.Kind {
		case BlockHeading:
			rule := "="
			if b.Level == 3 {
				rule = "-"
			}
			_, err = fmt.Fprintf(w, "%s\n%s\n", b.Text, strings.Repeat(rule, max(utf8.RuneCountInString(b.Text), 3)))
		case BlockSpacer:
			_, err = fmt.Fprintln(w)
		case BlockListItem:
			_, err = fmt.Fprintf(w, "  • %s\n", plainInlines(b.Inlines))
		default:
			_, err = fmt.Fprintln(w, plainInlines(b.Inlines))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func plainInlines(inlines []Inline) string {
	var sb strings.Builder
	for _, in := range inlines {
		if in.Kind == InlineLink {
			fmt.Fprintf(&sb, "%s (%s)", in.Text, in.URL)
			continue
		}
		sb.WriteString(in.Text)
	}
	return sb.String()
}

// WritePlainCards writes agency groups for a terminal.
func WritePlainCards(w io.Writer, groups []AgencyGroup) error {
	for i, g := range groups {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		agency := g.Agency
		if agency == "" {
			agency = "기타 기관"
		}
		if _, err := fmt.Fprintf(w, "%s (%d)\n", agency, g.Count()); err != nil {
			return err
		}
		for _, f := range g.Funds {
			fmt.Fprintf(w, "  [%s] %s\n", f.Category, f.Title)
			fmt.Fprintf(w, "    지원혜택: %s\n", f.Summary)
			fmt.Fprintf(w, "    자격요건: %s\n", f.Eligibility)
			if f.HasLink() {
				fmt.Fprintf(w, "    공고확인: %s\n", f.URL)
			}
		}
	}
	return nil
}
