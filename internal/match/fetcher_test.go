// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/fund-matcher/internal/prompt"
	"github.com/pdiddy/fund-matcher/pkg/types"
)

// mockGenerator records requests and answers through fn, which receives
// the zero-based call number.
type mockGenerator struct {
	mu    sync.Mutex
	calls []GenerateRequest
	keys  []string
	fn    func(ctx context.Context, n int, req GenerateRequest) (GenerateResponse, error)
}

func (m *mockGenerator) Generate(ctx context.Context, apiKey string, req GenerateRequest) (GenerateResponse, error) {
	m.mu.Lock()
	n := len(m.calls)
	m.calls = append(m.calls, req)
	m.keys = append(m.keys, apiKey)
	m.mu.Unlock()
	return m.fn(ctx, n, req)
}

func (m *mockGenerator) Calls() []GenerateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]GenerateRequest(nil), m.calls...)
}

func answer(text string) func(context.Context, int, GenerateRequest) (GenerateResponse, error) {
	return func(context.Context, int, GenerateRequest) (GenerateResponse, error) {
		return GenerateResponse{Text: text}, nil
	}
}

var testAIConfig = types.AIConfig{
	Model:               "gemini-test",
	EnableSearch:        true,
	Temperature:         0.1,
	FallbackTemperature: 0.3,
}

func newTestFetcher(gen Generator) *Fetcher {
	return NewFetcher(gen, testAIConfig, zerolog.Nop())
}

func TestFetch_Primary(t *testing.T) {
	gen := &mockGenerator{fn: func(_ context.Context, _ int, _ GenerateRequest) (GenerateResponse, error) {
		return GenerateResponse{
			Text:            "## 결과",
			GroundingChunks: []types.GroundingChunk{{Web: &types.GroundingWeb{URI: "https://a", Title: "a"}}},
		}, nil
	}}

	resp, err := newTestFetcher(gen).Fetch(context.Background(), Request{Prompt: "p", Region: types.RegionSeoul, APIKey: "key"})
	require.NoError(t, err)

	assert.Equal(t, "## 결과", resp.Text)
	assert.False(t, resp.UsedFallback)
	assert.Len(t, resp.GroundingChunks, 1)

	calls := gen.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, GenerateRequest{Prompt: "p", Temperature: 0.1, Search: true}, calls[0])
	assert.Equal(t, []string{"key"}, gen.keys)
}

func TestFetch_MissingCredentialIssuesNoRequest(t *testing.T) {
	gen := &mockGenerator{fn: answer("unused")}

	_, err := newTestFetcher(gen).Fetch(context.Background(), Request{Prompt: "p", Region: types.RegionSeoul})

	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Empty(t, gen.Calls())
}

func TestFetch_PermissionDeniedFallsBackOnce(t *testing.T) {
	gen := &mockGenerator{fn: func(_ context.Context, n int, _ GenerateRequest) (GenerateResponse, error) {
		if n == 0 {
			return GenerateResponse{}, ErrPermissionDenied
		}
		return GenerateResponse{Text: "내부 지식 기반 답변"}, nil
	}}

	resp, err := newTestFetcher(gen).Fetch(context.Background(), Request{Prompt: "p", Region: types.RegionGangwon, APIKey: "key"})
	require.NoError(t, err)

	assert.True(t, resp.UsedFallback)
	assert.Equal(t, "내부 지식 기반 답변", resp.Text)

	calls := gen.Calls()
	require.Len(t, calls, 2)
	fb := calls[1]
	assert.False(t, fb.Search)
	assert.Equal(t, float32(0.3), fb.Temperature)
	assert.Contains(t, fb.Prompt, "p")
	assert.Contains(t, fb.Prompt, "실시간 웹 검색을 사용할 수 없습니다")
	assert.Contains(t, fb.Prompt, prompt.RegionalSource(types.RegionGangwon))
}

func TestFetch_FallbackNoticeForUnmappedRegion(t *testing.T) {
	gen := &mockGenerator{fn: func(_ context.Context, n int, _ GenerateRequest) (GenerateResponse, error) {
		if n == 0 {
			return GenerateResponse{}, ErrPermissionDenied
		}
		return GenerateResponse{Text: "ok"}, nil
	}}

	_, err := newTestFetcher(gen).Fetch(context.Background(), Request{Prompt: "p", Region: types.RegionJeju, APIKey: "key"})
	require.NoError(t, err)

	calls := gen.Calls()
	require.Len(t, calls, 2)
	assert.Contains(t, calls[1].Prompt, "제주 지역 신용보증재단 홈페이지")
}

func TestFetch_FallbackFailureIsRequestFailed(t *testing.T) {
	gen := &mockGenerator{fn: func(_ context.Context, n int, _ GenerateRequest) (GenerateResponse, error) {
		if n == 0 {
			return GenerateResponse{}, ErrPermissionDenied
		}
		return GenerateResponse{}, ErrPermissionDenied
	}}

	_, err := newTestFetcher(gen).Fetch(context.Background(), Request{Prompt: "p", Region: types.RegionSeoul, APIKey: "key"})

	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Len(t, gen.Calls(), 2, "at most one fallback request")
}

func TestFetch_OtherErrorsAreNotRetried(t *testing.T) {
	boom := errors.New("quota exceeded")
	gen := &mockGenerator{fn: func(context.Context, int, GenerateRequest) (GenerateResponse, error) {
		return GenerateResponse{}, boom
	}}

	_, err := newTestFetcher(gen).Fetch(context.Background(), Request{Prompt: "p", Region: types.RegionSeoul, APIKey: "key"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Len(t, gen.Calls(), 1)
}

func TestFetch_NoFallbackWhenSearchDisabled(t *testing.T) {
	gen := &mockGenerator{fn: func(context.Context, int, GenerateRequest) (GenerateResponse, error) {
		return GenerateResponse{}, ErrPermissionDenied
	}}
	cfg := testAIConfig
	cfg.EnableSearch = false

	_, err := NewFetcher(gen, cfg, zerolog.Nop()).Fetch(context.Background(), Request{Prompt: "p", Region: types.RegionSeoul, APIKey: "key"})

	assert.ErrorIs(t, err, ErrRequestFailed)
	require.Len(t, gen.Calls(), 1)
	assert.False(t, gen.Calls()[0].Search)
}

func TestFetch_CancelledBeforeStart(t *testing.T) {
	gen := &mockGenerator{fn: answer("unused")}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestFetcher(gen).Fetch(ctx, Request{Prompt: "p", Region: types.RegionSeoul, APIKey: "key"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrRequestFailed)
	assert.Empty(t, gen.Calls())
}

func TestFetch_LateAnswerAfterCancelIsDropped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gen := &mockGenerator{fn: func(context.Context, int, GenerateRequest) (GenerateResponse, error) {
		// The transport finished, but the user stopped the search meanwhile.
		cancel()
		return GenerateResponse{Text: "stale"}, nil
	}}

	resp, err := newTestFetcher(gen).Fetch(ctx, Request{Prompt: "p", Region: types.RegionSeoul, APIKey: "key"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, resp.Text)
}

func TestFetch_CancelledDuringRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	gen := &mockGenerator{fn: func(ctx context.Context, _ int, _ GenerateRequest) (GenerateResponse, error) {
		close(started)
		<-ctx.Done()
		return GenerateResponse{}, ctx.Err()
	}}

	errc := make(chan error, 1)
	go func() {
		_, err := newTestFetcher(gen).Fetch(ctx, Request{Prompt: "p", Region: types.RegionSeoul, APIKey: "key"})
		errc <- err
	}()
	<-started
	cancel()

	err := <-errc
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrRequestFailed)
}

func TestFetch_CancelledDuringFallback(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gen := &mockGenerator{fn: func(_ context.Context, n int, _ GenerateRequest) (GenerateResponse, error) {
		if n == 0 {
			return GenerateResponse{}, ErrPermissionDenied
		}
		cancel()
		return GenerateResponse{Text: "stale fallback"}, nil
	}}

	resp, err := newTestFetcher(gen).Fetch(ctx, Request{Prompt: "p", Region: types.RegionSeoul, APIKey: "key"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, resp.Text)
	assert.Len(t, gen.Calls(), 2)
}
