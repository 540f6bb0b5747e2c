// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/fund-matcher/pkg/types"
)

func TestParseMarkdown_HeadingAndListItem(t *testing.T) {
	blocks := ParseMarkdown("## Title\n- **Bold** item [link](http://x)")

	require.Len(t, blocks, 2)
	assert.Equal(t, Block{Kind: BlockHeading, Level: 2, Text: "Title"}, blocks[0])
	assert.Equal(t, BlockListItem, blocks[1].Kind)
	assert.Equal(t, []Inline{
		{Kind: InlineBold, Text: "Bold"},
		{Kind: InlineText, Text: " item "},
		{Kind: InlineLink, Text: "link", URL: "http://x"},
	}, blocks[1].Inlines)
}

func TestParseMarkdown_LineKinds(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		kind  BlockKind
		level int
		text  string
	}{
		{name: "h2", line: "## 🎯 서울 소재 맞춤 자금", kind: BlockHeading, level: 2, text: "🎯 서울 소재 맞춤 자금"},
		{name: "h3", line: "### 1. 소상공인 정책자금", kind: BlockHeading, level: 3, text: "1. 소상공인 정책자금"},
		{name: "h1 is a paragraph", line: "# 제목", kind: BlockParagraph},
		{name: "blank", line: "", kind: BlockSpacer},
		{name: "whitespace only", line: "   \t", kind: BlockSpacer},
		{name: "dash bullet", line: "- 항목", kind: BlockListItem},
		{name: "star bullet", line: "* 항목", kind: BlockListItem},
		{name: "numbered", line: "12. 항목", kind: BlockListItem},
		{name: "indented bullet", line: "   - 항목", kind: BlockListItem},
		{name: "dash without space", line: "-항목", kind: BlockParagraph},
		{name: "plain", line: "일반 문장입니다.", kind: BlockParagraph},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := ParseMarkdown(tt.line)
			require.Len(t, blocks, 1)
			b := blocks[0]
			assert.Equal(t, tt.kind, b.Kind)
			if tt.kind == BlockHeading {
				assert.Equal(t, tt.level, b.Level)
				assert.Equal(t, tt.text, b.Text)
			}
		})
	}
}

func TestParseMarkdown_ListMarkerRemoved(t *testing.T) {
	for _, line := range []string{"- 항목", "* 항목", "3. 항목", "  1. 항목"} {
		blocks := ParseMarkdown(line)
		require.Len(t, blocks, 1)
		assert.Equal(t, []Inline{{Kind: InlineText, Text: "항목"}}, blocks[0].Inlines, "line %q", line)
	}
}

func TestParseMarkdown_OneBlockPerLine(t *testing.T) {
	text := "## a\n\nb\n- c\n\r\n### d"
	assert.Len(t, ParseMarkdown(text), strings.Count(text, "\n")+1)
}

func TestParseInline(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Inline
	}{
		{name: "plain", in: "text", want: []Inline{{Kind: InlineText, Text: "text"}}},
		{name: "empty", in: "", want: nil},
		{
			name: "two links",
			in:   "[a](http://a) 와 [b](http://b)",
			want: []Inline{
				{Kind: InlineLink, Text: "a", URL: "http://a"},
				{Kind: InlineText, Text: " 와 "},
				{Kind: InlineLink, Text: "b", URL: "http://b"},
			},
		},
		{
			name: "bold is shortest match",
			in:   "**a** 그리고 **b**",
			want: []Inline{
				{Kind: InlineBold, Text: "a"},
				{Kind: InlineText, Text: " 그리고 "},
				{Kind: InlineBold, Text: "b"},
			},
		},
		{
			name: "unterminated bold stays text",
			in:   "**열린 채로",
			want: []Inline{{Kind: InlineText, Text: "**열린 채로"}},
		},
		{
			name: "bold inside link label is not split",
			in:   "[**x**](http://x)",
			want: []Inline{{Kind: InlineLink, Text: "**x**", URL: "http://x"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseInline(tt.in))
		})
	}
}

func TestGroupByAgency(t *testing.T) {
	funds := []types.Fund{
		{Agency: "B", Title: "b1"},
		{Agency: "A", Title: "a1"},
		{Agency: "B", Title: "b2"},
		{Agency: "", Title: "none"},
		{Agency: "A", Title: "a2"},
	}

	groups := GroupByAgency(funds)

	require.Len(t, groups, 3)
	assert.Equal(t, "B", groups[0].Agency)
	assert.Equal(t, "A", groups[1].Agency)
	assert.Equal(t, "", groups[2].Agency)
	assert.Equal(t, []string{"b1", "b2"}, titles(groups[0].Funds))
	assert.Equal(t, []string{"a1", "a2"}, titles(groups[1].Funds))

	total := 0
	for _, g := range groups {
		total += g.Count()
	}
	assert.Equal(t, len(funds), total)
}

func TestGroupByAgency_Empty(t *testing.T) {
	assert.Empty(t, GroupByAgency(nil))
}

func titles(funds []types.Fund) []string {
	out := make([]string, len(funds))
	for i, f := range funds {
		out[i] = f.Title
	}
	return out
}

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestMarkdownHTML(t *testing.T) {
	out, err := MarkdownHTML("## Title\n\n### Sub\n- **Bold** item [link](http://x)\n본문")
	require.NoError(t, err)
	doc := parseHTML(t, string(out))

	assert.Equal(t, "Title", doc.Find("h2").Text())
	assert.Equal(t, "Sub", doc.Find("h3").Text())
	assert.Equal(t, 1, doc.Find(".md-spacer").Length())
	assert.Equal(t, "Bold", doc.Find(".md-li strong").Text())
	assert.Equal(t, "본문", doc.Find("p.md-p").Text())

	link := doc.Find(".md-li a")
	require.Equal(t, 1, link.Length())
	assert.Equal(t, "link", link.Text())
	href, _ := link.Attr("href")
	assert.Equal(t, "http://x", href)
	target, _ := link.Attr("target")
	assert.Equal(t, "_blank", target)
	rel, _ := link.Attr("rel")
	assert.Contains(t, rel, "noopener")
	assert.Contains(t, rel, "noreferrer")
}

func TestMarkdownHTML_EscapesText(t *testing.T) {
	out, err := MarkdownHTML("<script>alert(1)</script> [x](javascript:alert(1))")
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<script>")
	assert.NotContains(t, string(out), `href="javascript:`)
}

func TestCardsHTML(t *testing.T) {
	funds := []types.Fund{
		{Agency: "신용보증기금", Category: "보증", Title: "창업보증", URL: "https://kodit.co.kr/1", Summary: "최대 30억", Eligibility: "창업 7년 이내"},
		{Agency: "신용보증기금", Category: "보증", Title: "링크 없음", URL: "null"},
		{Agency: "", Category: "기타", Title: "기관 미상", URL: "  "},
	}

	out, err := CardsHTML(funds)
	require.NoError(t, err)
	doc := parseHTML(t, string(out))

	sections := doc.Find("section.agency")
	require.Equal(t, 2, sections.Length())

	first := sections.Eq(0)
	assert.Contains(t, first.Find(".agency-name").Text(), "신용보증기금")
	assert.Equal(t, "2", first.Find(".badge.count").Text())
	assert.Equal(t, 2, first.Find("article.fund-card").Length())
	assert.Equal(t, "최대 30억", first.Find(".summary").First().Text())
	assert.Equal(t, "창업 7년 이내", first.Find(".eligibility").First().Text())

	links := doc.Find("a.fund-link")
	require.Equal(t, 1, links.Length())
	href, _ := links.Attr("href")
	assert.Equal(t, "https://kodit.co.kr/1", href)
	target, _ := links.Attr("target")
	assert.Equal(t, "_blank", target)

	assert.Contains(t, sections.Eq(1).Find(".agency-name").Text(), "기타 기관")
}

func TestWritePlain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlain(&buf, ParseMarkdown("## 제목\n- **굵게** [링크](http://x)\n\n끝")))

	assert.Equal(t, "제목\n===\n  • 굵게 링크 (http://x)\n\n끝\n", buf.String())
}

func TestWritePlainCards(t *testing.T) {
	var buf bytes.Buffer
	groups := GroupByAgency([]types.Fund{
		{Agency: "A", Category: "융자", Title: "t1", URL: "http://a", Summary: "s", Eligibility: "e"},
		{Agency: "B", Category: "보증", Title: "t2", URL: "null"},
	})
	require.NoError(t, WritePlainCards(&buf, groups))

	out := buf.String()
	assert.Contains(t, out, "A (1)\n  [융자] t1\n")
	assert.Contains(t, out, "공고확인: http://a")
	assert.Equal(t, 1, strings.Count(out, "공고확인"))
	assert.Contains(t, out, "\nB (1)\n")
}
