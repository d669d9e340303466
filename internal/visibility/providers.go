package visibility

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Default models per provider. Cheap, fast tiers: the probe asks a simple
// recognition question, not a reasoning task.
const (
	defaultOpenAIModel     = "gpt-4o-mini"
	defaultAnthropicModel  = "claude-3-5-haiku-20241022"
	defaultGoogleModel     = "gemini-2.0-flash"
	defaultPerplexityModel = "sonar"
)

const maxCompletionTokens = 1000

// postJSON issues one JSON POST and decodes the response into out. Non-2xx
// statuses and undecodable bodies come back as classified Errors.
func postJSON(ctx context.Context, hc *http.Client, provider, url string, headers map[string]string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &Error{Provider: provider, Kind: FailMalformed, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &Error{Provider: provider, Kind: FailUnavail, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return classifyTransport(provider, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransport(provider, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifyStatus(provider, resp.StatusCode, string(raw))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Provider: provider, Kind: FailMalformed, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func orDefault(hc *http.Client) *http.Client {
	if hc != nil {
		return hc
	}
	return http.DefaultClient
}

// chatMessage is the role/content pair OpenAI-style chat APIs take.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OpenAI calls the chat completions API.
type OpenAI struct {
	apiKey  string
	model   string
	baseURL string
	hc      *http.Client
}

func NewOpenAI(apiKey string, hc *http.Client) *OpenAI {
	return &OpenAI{apiKey: apiKey, model: defaultOpenAIModel, baseURL: "https://api.openai.com/v1", hc: orDefault(hc)}
}

func (p *OpenAI) Name() string  { return "openai" }
func (p *OpenAI) Model() string { return p.model }

func (p *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model":       p.model,
		"messages":    []chatMessage{{Role: "user", Content: prompt}},
		"max_tokens":  maxCompletionTokens,
		"temperature": 0.7,
	}
	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	headers := map[string]string{"Authorization": "Bearer " + p.apiKey}
	if err := postJSON(ctx, p.hc, p.Name(), p.baseURL+"/chat/completions", headers, payload, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", &Error{Provider: p.Name(), Kind: FailMalformed, Err: fmt.Errorf("response has no choices")}
	}
	return out.Choices[0].Message.Content, nil
}

// Anthropic calls the messages API.
type Anthropic struct {
	apiKey  string
	model   string
	baseURL string
	hc      *http.Client
}

func NewAnthropic(apiKey string, hc *http.Client) *Anthropic {
	return &Anthropic{apiKey: apiKey, model: defaultAnthropicModel, baseURL: "https://api.anthropic.com/v1", hc: orDefault(hc)}
}

func (p *Anthropic) Name() string  { return "anthropic" }
func (p *Anthropic) Model() string { return p.model }

func (p *Anthropic) Complete(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model":      p.model,
		"max_tokens": maxCompletionTokens,
		"messages":   []chatMessage{{Role: "user", Content: prompt}},
	}
	var out struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	headers := map[string]string{
		"x-api-key":         p.apiKey,
		"anthropic-version": "2023-06-01",
	}
	if err := postJSON(ctx, p.hc, p.Name(), p.baseURL+"/messages", headers, payload, &out); err != nil {
		return "", err
	}
	if len(out.Content) == 0 {
		return "", &Error{Provider: p.Name(), Kind: FailMalformed, Err: fmt.Errorf("response has no content blocks")}
	}
	return out.Content[0].Text, nil
}

// Google calls the Gemini generateContent API.
type Google struct {
	apiKey  string
	model   string
	baseURL string
	hc      *http.Client
}

func NewGoogle(apiKey string, hc *http.Client) *Google {
	return &Google{apiKey: apiKey, model: defaultGoogleModel, baseURL: "https://generativelanguage.googleapis.com", hc: orDefault(hc)}
}

func (p *Google) Name() string  { return "google" }
func (p *Google) Model() string { return p.model }

func (p *Google) Complete(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}
	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", p.baseURL, p.model, p.apiKey)
	if err := postJSON(ctx, p.hc, p.Name(), url, nil, payload, &out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", &Error{Provider: p.Name(), Kind: FailMalformed, Err: fmt.Errorf("response has no candidates")}
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

// Perplexity speaks the OpenAI chat completions shape at its own endpoint.
type Perplexity struct {
	apiKey  string
	model   string
	baseURL string
	hc      *http.Client
}

func NewPerplexity(apiKey string, hc *http.Client) *Perplexity {
	return &Perplexity{apiKey: apiKey, model: defaultPerplexityModel, baseURL: "https://api.perplexity.ai", hc: orDefault(hc)}
}

func (p *Perplexity) Name() string  { return "perplexity" }
func (p *Perplexity) Model() string { return p.model }

func (p *Perplexity) Complete(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model":    p.model,
		"messages": []chatMessage{{Role: "user", Content: prompt}},
	}
	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	headers := map[string]string{"Authorization": "Bearer " + p.apiKey}
	if err := postJSON(ctx, p.hc, p.Name(), p.baseURL+"/chat/completions", headers, payload, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", &Error{Provider: p.Name(), Kind: FailMalformed, Err: fmt.Errorf("response has no choices")}
	}
	return out.Choices[0].Message.Content, nil
}
