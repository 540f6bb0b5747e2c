// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pdiddy/fund-matcher/internal/metrics"
	"github.com/pdiddy/fund-matcher/internal/prompt"
	"github.com/pdiddy/fund-matcher/pkg/types"
)

// Request is one search as seen by the fetcher.
type Request struct {
	Prompt string

	// Region names the regional source in the fallback notice.
	Region types.Region

	APIKey string
}

// Response is the model's answer.
type Response struct {
	Text            string
	GroundingChunks []types.GroundingChunk

	// UsedFallback is set when the answer came from the request issued
	// without the search tool.
	UsedFallback bool
}

// Fetcher issues the primary request and, when the search tool is
// rejected, exactly one fallback request without it.
type Fetcher struct {
	gen Generator
	cfg types.AIConfig
	log zerolog.Logger
}

// NewFetcher returns a fetcher using gen with cfg's temperatures and
// search setting.
func NewFetcher(gen Generator, cfg types.AIConfig, log zerolog.Logger) *Fetcher {
	return &Fetcher{gen: gen, cfg: cfg, log: log.With().Str("component", "fetcher").Logger()}
}

// Fetch returns the model's answer to req.Prompt.
//
// A cancelled ctx yields ctx.Err(), even when the transport completed; the
// late answer is discarded. Failures other than cancellation and the
// recovered permission denial are wrapped in ErrRequestFailed.
func (f *Fetcher) Fetch(ctx context.Context, req Request) (Response, error) {
	if req.APIKey == "" {
		return Response{}, ErrMissingCredential
	}
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	primary := GenerateRequest{
		Prompt:      req.Prompt,
		Temperature: f.cfg.Temperature,
		Search:      f.cfg.EnableSearch,
	}
	resp, err := f.gen.Generate(ctx, req.APIKey, primary)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Response{}, ctxErr
	}
	if err == nil {
		return Response{Text: resp.Text, GroundingChunks: resp.GroundingChunks}, nil
	}
	if !primary.Search || !errors.Is(err, ErrPermissionDenied) {
		return Response{}, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	f.log.Warn().Err(err).Str("region", string(req.Region)).Msg("search tool rejected, retrying without search")
	metrics.FallbacksTotal.Inc()

	fallback := GenerateRequest{
		Prompt:      req.Prompt + "\n\n" + prompt.FallbackNotice(req.Region),
		Temperature: f.cfg.FallbackTemperature,
	}
	resp, err = f.gen.Generate(ctx, req.APIKey, fallback)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Response{}, ctxErr
	}
	if err != nil {
		return Response{}, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	return Response{Text: resp.Text, GroundingChunks: resp.GroundingChunks, UsedFallback: true}, nil
}
