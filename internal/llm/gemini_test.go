package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func geminiOK(parts ...string) string {
	type part struct {
		Text string `json:"text"`
	}
	ps := []part{}
	for _, p := range parts {
		ps = append(ps, part{Text: p})
	}
	b, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": ps}},
		},
	})
	return string(b)
}

func TestGeminiGenerate(t *testing.T) {
	var gotPath string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		io.WriteString(w, geminiOK("Hello ", "world"))
	}))
	defer srv.Close()

	g := NewGemini("secret", "gemini-2.5-flash-lite")
	g.BaseURL = srv.URL
	g.HTTP = srv.Client()

	resp, err := g.Generate(context.Background(), GenerateRequest{
		Prompt:      "say hello",
		Temperature: 0.7,
		TopP:        0.9,
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Text != "Hello world" {
		t.Errorf("Expected concatenated parts, got %q", resp.Text)
	}
	if resp.Model != "gemini-2.5-flash-lite" {
		t.Errorf("Unexpected model %q", resp.Model)
	}
	if gotPath != "/models/gemini-2.5-flash-lite:generateContent" {
		t.Errorf("Unexpected path %q", gotPath)
	}

	var req map[string]any
	if err := json.Unmarshal(gotBody, &req); err != nil {
		t.Fatal(err)
	}
	if _, ok := req["generationConfig"]; !ok {
		t.Error("Expected generationConfig in request body")
	}
}

func TestGeminiRequestModelOverride(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		io.WriteString(w, geminiOK("ok"))
	}))
	defer srv.Close()

	g := NewGemini("secret", "gemini-2.5-flash-lite")
	g.BaseURL = srv.URL
	g.HTTP = srv.Client()

	if _, err := g.Generate(context.Background(), GenerateRequest{Prompt: "p", Model: "gemini-pro"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(gotPath, "gemini-pro") {
		t.Errorf("Expected per-request model in path, got %q", gotPath)
	}
}

func TestGeminiEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"candidates": []}`)
	}))
	defer srv.Close()

	g := NewGemini("secret", "")
	g.BaseURL = srv.URL
	g.HTTP = srv.Client()

	if _, err := g.Generate(context.Background(), GenerateRequest{Prompt: "p"}); err == nil {
		t.Error("Expected error for empty candidates")
	}
}

func TestGeminiMissingKey(t *testing.T) {
	g := &Gemini{}
	if _, err := g.Generate(context.Background(), GenerateRequest{Prompt: "p"}); err == nil {
		t.Error("Expected error without API key")
	}
}

func TestMockRecordsRequests(t *testing.T) {
	m := &Mock{Response: "canned"}
	resp, err := m.Generate(context.Background(), GenerateRequest{Prompt: "a"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Text != "canned" {
		t.Errorf("Unexpected response %q", resp.Text)
	}
	if len(m.Requests) != 1 || m.Requests[0].Prompt != "a" {
		t.Errorf("Unexpected recorded requests %v", m.Requests)
	}
}
