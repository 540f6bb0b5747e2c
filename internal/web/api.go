// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pdiddy/fund-matcher/internal/bizno"
	"github.com/pdiddy/fund-matcher/internal/match"
	"github.com/pdiddy/fund-matcher/pkg/types"
)

func (s *Server) handleAPIState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session(w, r).State())
}

// handleAPIStart starts a background search and returns the loading state.
// Clients poll GET /api/search for the outcome.
func (s *Server) handleAPIStart(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	var in types.BusinessInfo
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	region, ok := types.ParseRegion(string(in.Region))
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: match.MsgMissingRegion})
		return
	}
	in.Region = region
	in.Industry = strings.TrimSpace(in.Industry)
	if in.Industry == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: match.MsgMissingIndustry})
		return
	}
	// Same as the form: extra digits are truncated, then the rest is checked.
	in.BizNumber = bizno.Format(in.BizNumber)
	if err := bizno.Validate(in.BizNumber); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}
	if in.BizType == "" {
		in.BizType = types.DefaultBizType
	}

	// The search outlives this request.
	sess.Start(s.baseCtx, in, s.matchFunc())
	writeJSON(w, http.StatusAccepted, sess.State())
}

func (s *Server) handleAPIStop(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.Stop()
	writeJSON(w, http.StatusOK, sess.State())
}

type biznoResponse struct {
	Formatted string `json:"formatted"`
	Valid     bool   `json:"valid"`
	Error     string `json:"error,omitempty"`
}

func (s *Server) handleAPIBizno(w http.ResponseWriter, r *http.Request) {
	value := r.URL.Query().Get("value")
	resp := biznoResponse{Formatted: bizno.Format(value), Valid: true}
	if err := bizno.Validate(resp.Formatted); err != nil {
		resp.Valid = false
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}
