// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match runs a fund search: it builds the instruction, asks the
// model (falling back once when the search tool is refused), and turns the
// answer into a SearchResult for the configured response format.
package match

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/fund-matcher/internal/metrics"
	"github.com/pdiddy/fund-matcher/internal/parse"
	"github.com/pdiddy/fund-matcher/internal/prompt"
	"github.com/pdiddy/fund-matcher/pkg/types"
)

// EmptyAnswer replaces a blank markdown answer.
const EmptyAnswer = "죄송합니다. 현재 조건에 맞는 상세 공고를 찾지 못했습니다."

// Service combines prompt building, fetching and parsing.
type Service struct {
	fetcher *Fetcher
	format  types.ResponseFormat
	chain   parse.Chain
	log     zerolog.Logger
}

// NewService returns a service producing results in format.
func NewService(fetcher *Fetcher, format types.ResponseFormat, log zerolog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		format:  format,
		chain:   parse.DefaultChain(),
		log:     log.With().Str("component", "match").Logger(),
	}
}

// Format is the response format this service produces.
func (s *Service) Format() types.ResponseFormat {
	return s.format
}

// Match searches for funds available to info using apiKey.
func (s *Service) Match(ctx context.Context, info types.BusinessInfo, apiKey string) (types.SearchResult, error) {
	start := time.Now()
	format := string(s.format)
	log := s.log.With().Str("region", string(info.Region)).Str("industry", info.Industry).Logger()

	result, err := s.match(ctx, info, apiKey)
	metrics.SearchDuration.WithLabelValues(format).Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		metrics.SearchesTotal.WithLabelValues(format, metrics.OutcomeSuccess).Inc()
		log.Info().
			Bool("fallback", result.UsedFallback).
			Str("stage", result.ParseStage).
			Int("funds", len(result.Funds)).
			Dur("elapsed", time.Since(start)).
			Msg("search completed")
	case errors.Is(err, context.Canceled):
		metrics.SearchesTotal.WithLabelValues(format, metrics.OutcomeCancelled).Inc()
		log.Info().Msg("search cancelled")
	case errors.Is(err, ErrMissingCredential):
		metrics.SearchesTotal.WithLabelValues(format, metrics.OutcomeMissingCredential).Inc()
		log.Warn().Msg("search attempted without an API key")
	default:
		metrics.SearchesTotal.WithLabelValues(format, metrics.OutcomeError).Inc()
		log.Error().Err(err).Msg("search failed")
	}
	return result, err
}

func (s *Service) match(ctx context.Context, info types.BusinessInfo, apiKey string) (types.SearchResult, error) {
	instruction, err := prompt.Build(info, s.format)
	if err != nil {
		return types.SearchResult{}, fmt.Errorf("building prompt: %w", err)
	}

	resp, err := s.fetcher.Fetch(ctx, Request{Prompt: instruction, Region: info.Region, APIKey: apiKey})
	if err != nil {
		return types.SearchResult{}, err
	}

	result := types.SearchResult{
		Format:          s.format,
		GroundingChunks: resp.GroundingChunks,
		UsedFallback:    resp.UsedFallback,
	}

	if s.format == types.FormatJSON {
		parsed := s.chain.Parse(resp.Text)
		result.Funds = parsed.Funds
		result.ParseStage = parsed.Stage
		result.Degraded = parsed.Degraded
		metrics.ParseStagesTotal.WithLabelValues(parsed.Stage).Inc()
		if parsed.Degraded {
			s.log.Warn().Str("excerpt", parse.Excerpt(resp.Text, parse.ExcerptRunes)).Msg("model answer was not a fund array")
		}
		return result, nil
	}

	result.Text = parse.PassThrough(resp.Text)
	result.ParseStage = parse.StagePassThru
	if strings.TrimSpace(result.Text) == "" {
		result.Text = EmptyAnswer
	}
	return result, nil
}
