// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/rs/zerolog/hlog"

	"github.com/pdiddy/fund-matcher/internal/bizno"
	"github.com/pdiddy/fund-matcher/internal/leads"
	"github.com/pdiddy/fund-matcher/internal/match"
	"github.com/pdiddy/fund-matcher/internal/render"
	"github.com/pdiddy/fund-matcher/pkg/types"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTmpl = template.Must(template.New("").Funcs(template.FuncMap{
	"formatBizNo": bizno.Format,
}).ParseFS(templateFS, "templates/*.html"))

// page is the data behind index.html.
type page struct {
	Regions        []types.Region
	Form           types.BusinessInfo
	State          types.SearchState
	Result         template.HTML
	Sources        []types.GroundingChunk
	FundCount      int
	KeyConfigured  bool
	AllowKeyUpdate bool

	// FormError is a validation message for the search form.
	FormError string

	// Notice is a one-off message such as the lead confirmation.
	Notice string

	Lead      types.Application
	LeadError string
}

// newPage fills the common fields from the session state.
func (s *Server) newPage(state types.SearchState) (page, error) {
	p := page{
		Regions:        types.Regions(),
		Form:           state.Info,
		State:          state,
		KeyConfigured:  s.keys.Configured(),
		AllowKeyUpdate: s.allowKeyUpdate,
	}
	if p.Form.Region == "" {
		p.Form.Region = types.RegionSeoul
	}
	if p.Form.BizType == "" {
		p.Form.BizType = types.DefaultBizType
	}
	if state.Data == nil {
		return p, nil
	}

	p.Sources = state.Data.GroundingChunks
	var err error
	if state.Data.Format == types.FormatJSON {
		p.FundCount = len(state.Data.Funds)
		p.Result, err = render.CardsHTML(state.Data.Funds)
	} else {
		p.Result, err = render.MarkdownHTML(state.Data.Text)
	}
	return p, err
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, p page) {
	var buf bytes.Buffer
	if err := pageTmpl.ExecuteTemplate(&buf, "index.html", p); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("rendering page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) pageFor(w http.ResponseWriter, r *http.Request, state types.SearchState) (page, bool) {
	p, err := s.newPage(state)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("rendering result")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return p, false
	}
	return p, true
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	p, ok := s.pageFor(w, r, sess.State())
	if !ok {
		return
	}
	s.renderPage(w, r, http.StatusOK, p)
}

// businessInfoFromForm reads and validates the search form.
func businessInfoFromForm(r *http.Request) (types.BusinessInfo, string) {
	info := types.BusinessInfo{
		BizNumber: bizno.Format(r.PostFormValue("bizNumber")),
		Industry:  strings.TrimSpace(r.PostFormValue("industry")),
		BizType:   strings.TrimSpace(r.PostFormValue("bizType")),
	}
	if info.BizType == "" {
		info.BizType = types.DefaultBizType
	}
	region, ok := types.ParseRegion(r.PostFormValue("region"))
	info.Region = region
	switch {
	case bizno.Validate(info.BizNumber) != nil:
		return info, bizno.ErrLength.Error()
	case !ok:
		return info, match.MsgMissingRegion
	case info.Industry == "":
		return info, match.MsgMissingIndustry
	}
	return info, ""
}

// handleSearch runs a search and renders its outcome in the same response.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	info, formErr := businessInfoFromForm(r)
	if formErr != "" {
		p, ok := s.pageFor(w, r, sess.State())
		if !ok {
			return
		}
		p.Form = info
		p.FormError = formErr
		s.renderPage(w, r, http.StatusUnprocessableEntity, p)
		return
	}

	state := sess.Run(r.Context(), info, s.matchFunc())
	p, ok := s.pageFor(w, r, state)
	if !ok {
		return
	}
	s.renderPage(w, r, http.StatusOK, p)
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.session(w, r).Stop()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSetKey(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if !s.allowKeyUpdate {
		p, ok := s.pageFor(w, r, sess.State())
		if !ok {
			return
		}
		p.Notice = KeyUpdateDisabled
		s.renderPage(w, r, http.StatusForbidden, p)
		return
	}
	s.keys.Set(r.PostFormValue("apiKey"))
	hlog.FromRequest(r).Info().Bool("configured", s.keys.Configured()).Msg("API key updated")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLead accepts a consultation request for the session's last search.
func (s *Server) handleLead(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	state := sess.State()
	app := types.Application{
		BusinessInfo: state.Info,
		CompanyName:  r.PostFormValue("companyName"),
		ContactName:  r.PostFormValue("contactName"),
		PhoneNumber:  r.PostFormValue("phoneNumber"),
	}

	p, ok := s.pageFor(w, r, state)
	if !ok {
		return
	}
	accepted, err := s.leads.Submit(r.Context(), app)
	if err != nil {
		p.Lead = app
		if leads.Validate(app) == nil {
			hlog.FromRequest(r).Error().Err(err).Msg("lead not delivered")
			p.LeadError = "신청 처리 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
			s.renderPage(w, r, http.StatusInternalServerError, p)
			return
		}
		hlog.FromRequest(r).Info().Err(err).Msg("lead rejected")
		p.LeadError = "회사명, 대표자명, 연락처를 모두 입력해주세요."
		s.renderPage(w, r, http.StatusUnprocessableEntity, p)
		return
	}
	p.Notice = leads.Confirmation(accepted)
	s.renderPage(w, r, http.StatusOK, p)
}
