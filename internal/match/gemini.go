// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/pdiddy/fund-matcher/pkg/types"
)

// GenerateRequest is one model call.
type GenerateRequest struct {
	Prompt      string
	Temperature float32

	// Search enables the Google Search grounding tool.
	Search bool
}

// GenerateResponse is the text answer and any grounding sources.
type GenerateResponse struct {
	Text            string
	GroundingChunks []types.GroundingChunk
}

// Generator abstracts the generative-AI API so tests can supply a mock.
// Implementations return an error wrapping ErrPermissionDenied when the
// provider rejects the request for lack of permission.
type Generator interface {
	Generate(ctx context.Context, apiKey string, req GenerateRequest) (GenerateResponse, error)
}

// GeminiBackend calls the Gemini API through google.golang.org/genai.
type GeminiBackend struct {
	model      string
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger

	mu     sync.Mutex
	client *genai.Client
	forKey string
}

// NewGeminiBackend returns a backend for cfg.Model. httpClient may be nil.
func NewGeminiBackend(cfg types.AIConfig, httpClient *http.Client, log zerolog.Logger) *GeminiBackend {
	return &GeminiBackend{
		model:      cfg.Model,
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
		log:        log.With().Str("provider", "gemini").Logger(),
	}
}

// clientFor returns a client bound to apiKey. The key can change at runtime,
// so the client is rebuilt whenever it differs from the last one used.
func (g *GeminiBackend) clientFor(ctx context.Context, apiKey string) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil && g.forKey == apiKey {
		return g.client, nil
	}

	config := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.httpClient,
	}
	if g.baseURL != "" {
		config.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}

	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	g.client, g.forKey = client, apiKey
	return client, nil
}

// Generate issues one generateContent call.
func (g *GeminiBackend) Generate(ctx context.Context, apiKey string, req GenerateRequest) (GenerateResponse, error) {
	client, err := g.clientFor(ctx, apiKey)
	if err != nil {
		return GenerateResponse{}, err
	}

	temp := req.Temperature
	config := &genai.GenerateContentConfig{Temperature: &temp}
	if req.Search {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	g.log.Debug().Str("model", g.model).Bool("search", req.Search).Float32("temperature", temp).Msg("generating content")

	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), config)
	if err != nil {
		if isPermissionDenied(err) {
			return GenerateResponse{}, fmt.Errorf("%w: %w", ErrPermissionDenied, err)
		}
		return GenerateResponse{}, fmt.Errorf("generating content: %w", err)
	}

	return GenerateResponse{
		Text:            resp.Text(),
		GroundingChunks: groundingChunks(resp),
	}, nil
}

// isPermissionDenied reports whether err is the provider rejecting the
// request (typically the search tool) with 403 or PERMISSION_DENIED.
func isPermissionDenied(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusForbidden || apiErr.Status == "PERMISSION_DENIED"
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code == http.StatusForbidden || apiErrPtr.Status == "PERMISSION_DENIED"
	}
	// Untyped errors only count when they carry the status token or the
	// provider's "Error 403," prefix; a bare 403 may be part of an id.
	msg := err.Error()
	return strings.Contains(msg, "PERMISSION_DENIED") || strings.Contains(msg, "Error 403,")
}

func groundingChunks(resp *genai.GenerateContentResponse) []types.GroundingChunk {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}
	var out []types.GroundingChunk
	for _, c := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if c == nil || c.Web == nil {
			continue
		}
		out = append(out, types.GroundingChunk{Web: &types.GroundingWeb{URI: c.Web.URI, Title: c.Web.Title}})
	}
	return out
}
