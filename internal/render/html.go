// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"html/template"
	"io"

	"github.com/pdiddy/fund-matcher/pkg/types"
)

// Outbound links open in a new browsing context without leaking the
// referrer or the opener.
var htmlTmpl = template.Must(template.New("render").Parse(`
{{- define "inlines" -}}
{{- range . -}}
{{- if .IsLink -}}
<a href="{{.URL}}" target="_blank" rel="noopener noreferrer" class="md-link">{{.Text}}</a>
{{- else if .IsBold -}}
<strong>{{.Text}}</strong>
{{- else -}}
{{.Text}}
{{- end -}}
{{- end -}}
{{- end -}}

{{- define "blocks" -}}
{{- range . -}}
{{- if .IsHeading -}}
{{- if eq .Level 2}}<h2 class="md-h2">{{.Text}}</h2>
{{else}}<h3 class="md-h3">{{.Text}}</h3>
{{end -}}
{{- else if .IsSpacer -}}
<div class="md-spacer"></div>
{{else if .IsListItem -}}
<div class="md-li"><span class="md-bullet">●</span><p>{{template "inlines" .Inlines}}</p></div>
{{else -}}
<p class="md-p">{{template "inlines" .Inlines}}</p>
{{end -}}
{{- end -}}
{{- end -}}

{{- define "cards" -}}
{{- range . -}}
<section class="agency">
<h3 class="agency-name">{{if .Agency}}{{.Agency}}{{else}}기타 기관{{end}} <span class="badge count">{{.Count}}</span></h3>
{{- range .Funds}}
<article class="fund-card">
<span class="badge category">{{.Category}}</span>
<h4 class="fund-title">{{.Title}}</h4>
<div class="fund-detail"><p class="label">지원혜택</p><p class="summary">{{.Summary}}</p></div>
<div class="fund-detail"><p class="label">자격요건</p><p class="eligibility">{{.Eligibility}}</p></div>
{{- if .HasLink}}
<a href="{{.URL}}" target="_blank" rel="noopener noreferrer" class="fund-link">공고확인</a>
{{- end}}
</article>
{{- end}}
</section>
{{end -}}
{{- end -}}
`))

// WriteHTML writes blocks as HTML fragments.
func WriteHTML(w io.Writer, blocks []Block) error {
	return htmlTmpl.ExecuteTemplate(w, "blocks", blocks)
}

// WriteCardsHTML writes agency sections of fund cards.
func WriteCardsHTML(w io.Writer, groups []AgencyGroup) error {
	return htmlTmpl.ExecuteTemplate(w, "cards", groups)
}

// MarkdownHTML renders text to a trusted HTML fragment for embedding in a
// page template.
func MarkdownHTML(text string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, ParseMarkdown(text)); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// CardsHTML groups funds by agency and renders them to a trusted HTML
// fragment.
func CardsHTML(funds []types.Fund) (template.HTML, error) {
	var buf bytes.Buffer
	if err := WriteCardsHTML(&buf, GroupByAgency(funds)); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
