// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse turns raw model output into fund records. Structured
// responses go through an ordered chain of strategies; the last strategy
// always succeeds, so parsing never fails for malformed content.
package parse

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yosuke-furukawa/json5/encoding/json5"

	"github.com/pdiddy/fund-matcher/pkg/types"
)

// Stage names, reported in Result.Stage and in metrics.
const (
	StageEmpty     = "empty"
	StageDirect    = "direct-json"
	StageExtracted = "extracted-array"
	StageLenient   = "lenient-array"
	StagePassThru  = "passthrough"
	StagePlacehold = "placeholder"
)

// ExcerptRunes is the maximum length of the raw-text excerpt kept in a
// placeholder record.
const ExcerptRunes = 50

// Placeholder field values. Eligibility is replaced by an excerpt of the
// response that could not be parsed.
const (
	PlaceholderAgency   = "AI 분석"
	PlaceholderCategory = "정보"
	PlaceholderTitle    = "검색 결과를 확인해주세요"
	PlaceholderSummary  = "분석 중 오류"
)

// Result is the outcome of parsing one response.
type Result struct {
	Funds []types.Fund

	// Stage names the strategy that produced Funds.
	Stage string

	// Degraded is set when the placeholder strategy was used.
	Degraded bool
}

// Strategy is one step of the chain. It returns ok=false to hand the text
// to the next strategy.
type Strategy interface {
	Name() string
	Parse(text string) (funds []types.Fund, ok bool)
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc struct {
	StageName string
	Fn        func(text string) ([]types.Fund, bool)
}

func (s StrategyFunc) Name() string { return s.StageName }

func (s StrategyFunc) Parse(text string) ([]types.Fund, bool) { return s.Fn(text) }

// Chain runs its strategies in order and stops at the first success. When
// every strategy declines, the placeholder record is returned.
type Chain struct {
	Strategies []Strategy
}

// DefaultChain is direct JSON, then the first array found inside the text,
// then a JSON5 reading of the same candidates.
func DefaultChain() Chain {
	return Chain{Strategies: []Strategy{
		StrategyFunc{StageName: StageDirect, Fn: parseDirect},
		StrategyFunc{StageName: StageExtracted, Fn: parseExtracted},
		StrategyFunc{StageName: StageLenient, Fn: parseLenient},
	}}
}

// Parse runs the chain over raw. Raw is stripped of a surrounding code fence
// first. Empty input yields no funds; any other input yields at least the
// placeholder.
func (c Chain) Parse(raw string) Result {
	text := StripFence(raw)
	if text == "" {
		return Result{Stage: StageEmpty}
	}
	for _, s := range c.Strategies {
		if funds, ok := s.Parse(text); ok {
			return Result{Funds: funds, Stage: s.Name()}
		}
	}
	return Result{
		Funds:    []types.Fund{Placeholder(raw)},
		Stage:    StagePlacehold,
		Degraded: true,
	}
}

// ParseFunds parses a structured response with DefaultChain.
func ParseFunds(raw string) Result {
	return DefaultChain().Parse(raw)
}

// PassThrough is the freeform variant: the text is handed to the renderer
// untouched.
func PassThrough(raw string) string {
	return raw
}

// fencePattern matches an opening fence line such as ``` or ```json.
var fencePattern = regexp.MustCompile("^```[A-Za-z0-9_-]*[ \t]*\r?\n?")

// StripFence removes one leading fence line and one trailing fence marker,
// then trims surrounding whitespace. Text without fences is only trimmed.
func StripFence(raw string) string {
	text := strings.TrimSpace(raw)
	if loc := fencePattern.FindStringIndex(text); loc != nil {
		text = text[loc[1]:]
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// Placeholder builds the single record shown when the response could not
// be parsed. Its eligibility is a prefix of raw of at most ExcerptRunes
// runes.
func Placeholder(raw string) types.Fund {
	return types.Fund{
		Agency:      PlaceholderAgency,
		Category:    PlaceholderCategory,
		Title:       PlaceholderTitle,
		URL:         "",
		Summary:     PlaceholderSummary,
		Eligibility: Excerpt(raw, ExcerptRunes),
	}
}

// Excerpt returns the first n runes of s.
func Excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func parseDirect(text string) ([]types.Fund, bool) {
	return decodeArray(text)
}

// parseExtracted decodes the first array that starts at a '[' in text.
// Bracketed prose before or after the array, such as "[1]" citations, is
// skipped.
func parseExtracted(text string) ([]types.Fund, bool) {
	for _, i := range arrayStarts(text) {
		var funds []types.Fund
		if err := json.NewDecoder(strings.NewReader(text[i:])).Decode(&funds); err != nil {
			continue
		}
		return nonNil(funds), true
	}
	return nil, false
}

// parseLenient reads the same candidate spans as JSON5, which accepts the
// trailing commas and unquoted keys models sometimes emit. Single-quoted
// strings are rewritten to double quotes first.
func parseLenient(text string) ([]types.Fund, bool) {
	for _, i := range arrayStarts(text) {
		var funds []types.Fund
		dec := json5.NewDecoder(strings.NewReader(doubleQuote(text[i:])))
		if err := dec.Decode(&funds); err != nil {
			continue
		}
		return nonNil(funds), true
	}
	return nil, false
}

// arrayStarts returns the offset of every '[' in text, in order.
func arrayStarts(text string) []int {
	var starts []int
	for i := 0; i < len(text); i++ {
		if text[i] == '[' {
			starts = append(starts, i)
		}
	}
	return starts
}

// doubleQuote rewrites single-quoted strings as double-quoted ones.
// Double-quoted strings pass through untouched, including any apostrophes
// inside them.
func doubleQuote(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inDouble, inSingle := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inDouble:
			b.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			} else if c == '"' {
				inDouble = false
			}
		case inSingle:
			switch c {
			case '\\':
				if i+1 < len(s) {
					i++
					if s[i] != '\'' {
						b.WriteByte('\\')
					}
					b.WriteByte(s[i])
				}
			case '"':
				b.WriteString(`\"`)
			case '\'':
				b.WriteByte('"')
				inSingle = false
			default:
				b.WriteByte(c)
			}
		default:
			switch c {
			case '"':
				inDouble = true
			case '\'':
				inSingle = true
				c = '"'
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}

func decodeArray(text string) ([]types.Fund, bool) {
	if !strings.HasPrefix(text, "[") {
		return nil, false
	}
	var funds []types.Fund
	if err := json.Unmarshal([]byte(text), &funds); err != nil {
		return nil, false
	}
	return nonNil(funds), true
}

func nonNil(funds []types.Fund) []types.Fund {
	if funds == nil {
		return []types.Fund{}
	}
	return funds
}
