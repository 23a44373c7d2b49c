// Package llm abstracts the generative-model backend behind a small
// provider interface so the refinement pipeline can run against the real
// Gemini API or a mock in tests.
package llm

import "context"

// Provider produces a text completion for a prompt.
type Provider interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
	Name() string
}

type GenerateRequest struct {
	Prompt      string
	Model       string
	Temperature float64
	TopP        float64
}

type GenerateResponse struct {
	Text  string
	Model string
}

// Mock is a canned provider for tests. It records every request it sees.
type Mock struct {
	Response string
	Err      error
	Requests []GenerateRequest
}

func (m *Mock) Generate(_ context.Context, req GenerateRequest) (*GenerateResponse, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return &GenerateResponse{Text: m.Response, Model: req.Model}, nil
}

func (m *Mock) Name() string { return "mock" }
