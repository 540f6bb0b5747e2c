// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"context"
	"errors"
	"strings"

	"github.com/pdiddy/fund-matcher/internal/prompt"
)

var (
	// ErrMissingCredential is returned before any request is issued when no
	// API key is configured.
	ErrMissingCredential = errors.New("API key is not configured")

	// ErrPermissionDenied marks a model call rejected with HTTP 403 or
	// PERMISSION_DENIED. The fetcher recovers from it with one fallback
	// request; it never reaches callers of Fetch.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrRequestFailed wraps every other failure of the model call. The
	// wrapped message is shown to the user as is.
	ErrRequestFailed = errors.New("request failed")
)

// User-facing messages.
const (
	MsgMissingCredential = "API Key가 설정되지 않았습니다."
	MsgMissingRegion     = "지역을 선택해주세요."
	MsgMissingIndustry   = "업종을 입력해주세요."
	MsgCancelled         = "검색이 사용자에 의해 중단되었습니다."
	MsgGeneric           = "자금 매칭 분석 중 오류가 발생했습니다."
)

// Message returns the text shown to the user for err. Request failures
// surface the provider's message verbatim.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return MsgCancelled
	case errors.Is(err, ErrMissingCredential):
		return MsgMissingCredential
	case errors.Is(err, prompt.ErrMissingRegion):
		return MsgMissingRegion
	case errors.Is(err, prompt.ErrMissingIndustry):
		return MsgMissingIndustry
	case errors.Is(err, ErrRequestFailed):
		if msg := strings.TrimPrefix(err.Error(), ErrRequestFailed.Error()+": "); msg != "" && msg != err.Error() {
			return msg
		}
	}
	return MsgGeneric
}
