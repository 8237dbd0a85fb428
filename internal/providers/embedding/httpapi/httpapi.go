// Package httpapi implements an OpenAI-compatible embeddings adapter
// over plain HTTP/JSON. No embedding-specific SDK appears anywhere in
// the reference corpus (see DESIGN.md), so this adapter is built on
// net/http directly rather than importing an unrelated client library
// just to wrap a handful of HTTP calls.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jobscout/scouter/internal/providers/embedding"
	"github.com/jobscout/scouter/internal/providers/llm"
)

// chunkSize is the batch ceiling past which the provider's own API
// would start chunking server-side; this adapter mirrors that behaviour
// client-side when given a larger slice.
const chunkSize = 2048

type Provider struct {
	baseURL    string
	apiKey     string
	model      string
	dimensions int
	httpClient *http.Client
}

func New(baseURL, apiKey, model string, dimensions int) *Provider {
	return &Provider{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		dimensions: dimensions,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *Provider) ProviderName() string { return "openai-compatible" }
func (p *Provider) Dimensions() int      { return p.dimensions }

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Model string `json:"model"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Embed calls the embeddings endpoint once per chunk of at most
// chunkSize texts. When more than one chunk is required, the aggregate
// token count is not meaningful across chunks, so TotalTokens is
// returned as the -1 sentinel (spec.md §6) and the metered proxy
// estimates tokens from input length instead.
func (p *Provider) Embed(ctx context.Context, texts []string) (*embedding.Result, error) {
	if len(texts) == 0 {
		return &embedding.Result{Model: p.model, Dimensions: p.dimensions}, nil
	}

	chunked := len(texts) > chunkSize
	var vectors [][]float32
	totalTokens := 0

	for start := 0; start < len(texts); start += chunkSize {
		end := start + chunkSize
		if end > len(texts) {
			end = len(texts)
		}
		result, err := p.embedChunk(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, result.Vectors...)
		totalTokens += result.TotalTokens
	}

	if chunked {
		totalTokens = -1
	}

	return &embedding.Result{
		Vectors:     vectors,
		Model:       p.model,
		Dimensions:  p.dimensions,
		TotalTokens: totalTokens,
	}, nil
}

func (p *Provider) embedChunk(ctx context.Context, texts []string) (*embedding.Result, error) {
	body, err := json.Marshal(embedRequest{Model: p.model, Input: texts})
	if err != nil {
		return nil, llm.ErrProvider(p.ProviderName(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, llm.ErrProvider(p.ProviderName(), err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, llm.ErrTransient(p.ProviderName(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, llm.ErrRateLimit(p.ProviderName(), fmt.Errorf("status %d", resp.StatusCode))
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, llm.ErrAuth(p.ProviderName(), fmt.Errorf("status %d", resp.StatusCode))
	}
	if resp.StatusCode >= 500 {
		return nil, llm.ErrTransient(p.ProviderName(), fmt.Errorf("status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, llm.ErrProvider(p.ProviderName(), fmt.Errorf("status %d", resp.StatusCode))
	}

	var decoded embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, llm.ErrProvider(p.ProviderName(), err)
	}

	vectors := make([][]float32, len(decoded.Data))
	for i, d := range decoded.Data {
		vectors[i] = d.Embedding
	}

	return &embedding.Result{
		Vectors:     vectors,
		Model:       decoded.Model,
		TotalTokens: decoded.Usage.TotalTokens,
	}, nil
}
