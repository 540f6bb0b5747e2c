// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strings"
	"time"
)

// ResponseFormat selects which of the two response contracts a deployment
// asks the model for. It is fixed by configuration, never inferred from the
// response itself.
type ResponseFormat string

const (
	// FormatMarkdown asks for prose following a markdown template.
	FormatMarkdown ResponseFormat = "markdown"

	// FormatJSON asks for a strict JSON array of Fund objects.
	FormatJSON ResponseFormat = "json"
)

// Valid reports whether f is a known response format.
func (f ResponseFormat) Valid() bool {
	return f == FormatMarkdown || f == FormatJSON
}

// Fund is a single matched subsidy or loan program. Funds are produced only
// by parsing the model response and are not modified afterwards.
type Fund struct {
	// Agency is the issuing organization (e.g. 소상공인시장진흥공단).
	Agency string `json:"agency" yaml:"agency"`

	// Category is a short label such as 정책자금 or 보증.
	Category string `json:"category" yaml:"category"`

	// Title is the program or announcement name.
	Title string `json:"title" yaml:"title"`

	// URL points at the announcement detail page. The model sometimes emits
	// the literal string "null"; see HasLink.
	URL string `json:"url" yaml:"url"`

	// Summary is the benefit summary, intended to be at most 30 characters.
	Summary string `json:"summary" yaml:"summary"`

	// Eligibility is the key eligibility requirement, intended to be at
	// most 30 characters.
	Eligibility string `json:"eligibility" yaml:"eligibility"`
}

// HasLink reports whether the fund carries a usable outbound URL.
func (f Fund) HasLink() bool {
	u := strings.TrimSpace(f.URL)
	return u != "" && u != "null"
}

// GroundingChunk is citation metadata returned by a search-augmented
// response. Only web sources are kept; they are listed under the result.
type GroundingChunk struct {
	Web *GroundingWeb `json:"web,omitempty" yaml:"web,omitempty"`
}

// GroundingWeb is the web source of a GroundingChunk.
type GroundingWeb struct {
	URI   string `json:"uri" yaml:"uri"`
	Title string `json:"title" yaml:"title"`
}

// SearchResult is the outcome of one successful match. Which of Text and
// Funds is meaningful is decided by Format.
type SearchResult struct {
	// Format is the response contract the deployment requested.
	Format ResponseFormat `json:"format" yaml:"format"`

	// Text holds the freeform markdown answer (FormatMarkdown).
	Text string `json:"text,omitempty" yaml:"text,omitempty"`

	// Funds holds the parsed records (FormatJSON).
	Funds []Fund `json:"funds,omitempty" yaml:"funds,omitempty"`

	// GroundingChunks is passthrough citation metadata.
	GroundingChunks []GroundingChunk `json:"groundingChunks" yaml:"grounding_chunks"`

	// Degraded is set when the structured response could not be parsed and
	// a placeholder record was synthesized instead.
	Degraded bool `json:"degraded,omitempty" yaml:"degraded,omitempty"`

	// ParseStage names the parser strategy that produced Funds.
	ParseStage string `json:"parseStage,omitempty" yaml:"parse_stage,omitempty"`

	// UsedFallback is set when the search tool was rejected and the answer
	// came from the model's internal knowledge.
	UsedFallback bool `json:"usedFallback,omitempty" yaml:"used_fallback,omitempty"`
}

// SearchStatus is the lifecycle position of a session's search.
type SearchStatus string

const (
	StatusIdle      SearchStatus = "idle"
	StatusLoading   SearchStatus = "loading"
	StatusSuccess   SearchStatus = "success"
	StatusError     SearchStatus = "error"
	StatusCancelled SearchStatus = "cancelled"
)

// SearchState is the transient UI state of a session: idle, loading, then
// success, error, or cancelled.
type SearchState struct {
	Status    SearchStatus  `json:"status"`
	IsLoading bool          `json:"isLoading"`
	Error     string        `json:"error,omitempty"`
	Data      *SearchResult `json:"data,omitempty"`

	// Info is the profile the state belongs to, so the lead form can be
	// prefilled after a search.
	Info BusinessInfo `json:"info"`

	// Unset until a search starts and ends respectively.
	StartedAt  *time.Time `json:"startedAt,omitempty"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}
