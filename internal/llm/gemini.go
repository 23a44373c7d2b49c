package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"college-sync/internal/httpx"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Gemini calls the Google Generative Language REST API.
type Gemini struct {
	BaseURL      string
	APIKey       string
	DefaultModel string
	HTTP         *http.Client
}

func NewGemini(apiKey, model string) *Gemini {
	if model == "" {
		model = "gemini-2.5-flash-lite"
	}
	return &Gemini{
		BaseURL:      defaultGeminiBaseURL,
		APIKey:       apiKey,
		DefaultModel: model,
		HTTP: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

func (g *Gemini) Name() string { return "gemini" }

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig *geminiConfig   `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiConfig struct {
	Temperature float64 `json:"temperature,omitempty"`
	TopP        float64 `json:"topP,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (g *Gemini) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if g.APIKey == "" {
		return nil, errors.New("gemini: missing API key")
	}

	model := req.Model
	if model == "" {
		model = g.DefaultModel
	}

	body := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: req.Prompt}}}},
	}
	if req.Temperature > 0 || req.TopP > 0 {
		body.GenerationConfig = &geminiConfig{Temperature: req.Temperature, TopP: req.TopP}
	}

	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.BaseURL, url.PathEscape(model), url.QueryEscape(g.APIKey))

	var out geminiResponse
	err = httpx.DoJSON(
		ctx,
		g.HTTP,
		func(ctx context.Context) (*http.Request, error) {
			r, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
			if err != nil {
				return nil, err
			}
			r.Header.Set("Content-Type", "application/json")
			return r, nil
		},
		&out,
		httpx.DefaultRetryConfig(),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini: generate failed: %w", err)
	}

	if len(out.Candidates) == 0 {
		return nil, errors.New("gemini: empty response")
	}

	var sb strings.Builder
	for _, part := range out.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("gemini: empty response")
	}

	return &GenerateResponse{Text: text, Model: model}, nil
}
