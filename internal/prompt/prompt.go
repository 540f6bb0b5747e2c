// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt builds the natural-language instruction sent to the model
// for a fund match: the business profile, the agency boards to search, and
// the output rules for the deployment's response format.
package prompt

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/fund-matcher/pkg/types"
)

var (
	// ErrMissingRegion is returned when the profile has no region.
	ErrMissingRegion = errors.New("region is required")

	// ErrMissingIndustry is returned when the profile has no industry.
	ErrMissingIndustry = errors.New("industry is required")
)

// NationalSource is a nationwide agency whose announcement board the model
// is pointed at.
type NationalSource struct {
	Name string
	URL  string
}

// nationalSources is the fixed list of nationwide agencies.
var nationalSources = []NationalSource{
	{Name: "소상공인시장진흥공단", URL: "https://www.sbiz24.kr/"},
	{Name: "중소벤처기업진흥공단", URL: "https://www.kosmes.or.kr/"},
	{Name: "신용보증기금", URL: "https://www.kodit.co.kr/"},
	{Name: "기술보증기금", URL: "https://www.kibo.or.kr/"},
}

// regionalFoundationURLs maps regions to the fund list of their credit
// guarantee foundation (신용보증재단). Regions without an entry fall back to
// a generic description.
var regionalFoundationURLs = map[types.Region]string{
	types.RegionSeoul:     "https://www.seoulshinbo.co.kr/",
	types.RegionIncheon:   "https://www.icsinbo.or.kr/",
	types.RegionGangwon:   "https://www.gwsinbo.or.kr/board/board_list.php?board_name=product",
	types.RegionGyeonggi:  "https://www.gcgf.or.kr/gcgf/cm/conts/contsView.do?mi=1051&contsId=1022",
	types.RegionBusan:     "https://www.busansinbo.or.kr/portal/board/post/list.do?bcIdx=623&mid=0103010000",
	types.RegionGyeongnam: "https://www.gnsinbo.or.kr/bbs/content.php?co_id=2_2",
}

// NationalSources returns the nationwide agencies in prompt order.
func NationalSources() []NationalSource {
	out := make([]NationalSource, len(nationalSources))
	copy(out, nationalSources)
	return out
}

// RegionalURL returns the credit guarantee foundation fund list for region.
func RegionalURL(region types.Region) (string, bool) {
	u, ok := regionalFoundationURLs[region]
	return u, ok
}

// RegionalSource returns the prompt line describing the region's credit
// guarantee foundation: its fund list URL when known, otherwise a generic
// phrase that still names the region.
func RegionalSource(region types.Region) string {
	if u, ok := RegionalURL(region); ok {
		return fmt.Sprintf("%s 신용보증재단 자금 목록: %s", region, u)
	}
	return fmt.Sprintf("%s 지역 신용보증재단 홈페이지", region)
}

// matchPromptTmpl is the instruction for one search. The output section
// differs per response format; everything above it is shared.
var matchPromptTmpl = template.Must(template.New("match").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`당신은 대한민국 정책자금 매칭 AI입니다.

[기업 정보]
- 사업자번호: {{.Info.BizNumber}}
- 소재지: {{.Info.Region}}
- 업종: {{.Info.Industry}}
{{- if .Info.BizType}}
- 사업자 유형: {{.Info.BizType}}
{{- end}}

[검색 대상 및 지침]
아래 사이트들의 **현재 모집 중인 공고 게시판**을 정밀 검색하여, 이 기업이 **지금 당장 신청 가능한 자금**을 찾아주세요.
{{range $i, $s := .National}}
{{inc $i}}. {{$s.Name}} ({{$s.URL}})
{{- end}}
{{inc (len .National)}}. {{.Regional}}

[필수 요청 사항]
1. 단순한 기관 소개나 홈페이지 메인 연결은 **절대 하지 마세요.**
2. **"2024년 희망리턴패키지"**, **"강원형 저신용 소상공인 지원자금"** 처럼 구체적인 **자금/공고명**을 찾으세요.
3. 찾은 자금명에 대해 **해당 공고의 상세 페이지 URL**을 찾아서 반드시 **링크**를 걸어주세요.
4. 신청 불가능하거나 마감된 자금은 제외하세요.
{{if .JSON}}
[출력 양식 (JSON)]
오직 JSON 배열만 반환하세요. 설명 문장이나 코드 블록 표시를 붙이지 마세요.
각 원소는 다음 필드를 가집니다: "agency", "category", "title", "url", "summary" (최대 30자), "eligibility" (최대 30자).
예시: [{"agency": "소상공인시장진흥공단", "category": "정책자금", "title": "자금명", "url": "https://...", "summary": "지원한도/금리", "eligibility": "핵심 자격요건"}]
상세 페이지 URL을 찾지 못한 경우 "url"은 빈 문자열로 두세요.
{{else}}
[출력 양식 (Markdown)]

## 🎯 {{.Info.Region}} 소재 [{{.Info.Industry}}] 맞춤 자금 (신청 가능)

1. **[자금명 (반드시 링크로 작성)](URL)**
   - **지원한도/금리**: [내용]
   - **자격요건**: [핵심 요건]
   - **신청방법**: [온라인/방문 등]

2. **[자금명 (반드시 링크로 작성)](URL)**
   ...
{{end}}
(적합한 자금이 명확하지 않을 경우, 가장 유사한 현재 진행 중인 공고를 보여주세요.)
`))

// promptData is the template input for matchPromptTmpl.
type promptData struct {
	Info     types.BusinessInfo
	National []NationalSource
	Regional string
	JSON     bool
}

// Build renders the instruction for info in the given response format.
// Region and industry must be present; the industry text is otherwise
// passed through unchecked.
func Build(info types.BusinessInfo, format types.ResponseFormat) (string, error) {
	if strings.TrimSpace(string(info.Region)) == "" {
		return "", ErrMissingRegion
	}
	if strings.TrimSpace(info.Industry) == "" {
		return "", ErrMissingIndustry
	}
	if !format.Valid() {
		return "", fmt.Errorf("unknown response format %q", format)
	}

	data := promptData{
		Info:     info,
		National: nationalSources,
		Regional: RegionalSource(info.Region),
		JSON:     format == types.FormatJSON,
	}

	var buf bytes.Buffer
	if err := matchPromptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return buf.String(), nil
}

// FallbackNotice is appended to the instruction when live web search was
// refused. It tells the model to answer from what it already knows and
// repeats the regional source so the answer still points somewhere useful.
func FallbackNotice(region types.Region) string {
	return fmt.Sprintf(`
[참고]
현재 실시간 웹 검색을 사용할 수 없습니다. 학습된 내부 지식을 바탕으로 답변하되,
확인이 필요한 공고는 각 기관 게시판(%s)에서 직접 확인하도록 안내해주세요.
`, RegionalSource(region))
}
