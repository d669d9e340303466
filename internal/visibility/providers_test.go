package visibility

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIWireFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("auth header = %q", got)
		}
		var body struct {
			Model    string        `json:"model"`
			Messages []chatMessage `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(body.Messages) != 1 || body.Messages[0].Role != "user" {
			t.Errorf("messages = %+v", body.Messages)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"BrandX is a widget maker."}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAI("sk-test", srv.Client())
	p.baseURL = srv.URL

	text, err := p.Complete(context.Background(), "What is BrandX?")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != "BrandX is a widget maker." {
		t.Errorf("text = %q", text)
	}
}

func TestAnthropicWireFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "sk-ant" {
			t.Errorf("x-api-key = %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got != "2023-06-01" {
			t.Errorf("anthropic-version = %q", got)
		}
		w.Write([]byte(`{"content":[{"text":"BrandX builds widgets."}]}`))
	}))
	defer srv.Close()

	p := NewAnthropic("sk-ant", srv.Client())
	p.baseURL = srv.URL

	text, err := p.Complete(context.Background(), "What is BrandX?")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != "BrandX builds widgets." {
		t.Errorf("text = %q", text)
	}
}

func TestGoogleWireFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/gemini-2.0-flash:generateContent" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("key"); got != "g-key" {
			t.Errorf("key param = %q", got)
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"BrandX overview."}]}}]}`))
	}))
	defer srv.Close()

	p := NewGoogle("g-key", srv.Client())
	p.baseURL = srv.URL

	text, err := p.Complete(context.Background(), "What is BrandX?")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != "BrandX overview." {
		t.Errorf("text = %q", text)
	}
}

func TestProviderErrorClassification(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		kind   FailureKind
	}{
		{name: "unauthorized", status: 401, body: `{"error":"bad key"}`, kind: FailAuth},
		{name: "forbidden", status: 403, body: `{"error":"no access"}`, kind: FailAuth},
		{name: "rate limited", status: 429, body: `{"error":"slow down"}`, kind: FailRateLimit},
		{name: "server error", status: 500, body: `oops`, kind: FailUnavail},
		{name: "malformed body", status: 200, body: `{"choices": [`, kind: FailMalformed},
		{name: "empty choices", status: 200, body: `{"choices":[]}`, kind: FailMalformed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			p := NewOpenAI("sk-test", srv.Client())
			p.baseURL = srv.URL

			_, err := p.Complete(context.Background(), "prompt")
			if err == nil {
				t.Fatal("expected error")
			}
			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("error type = %T", err)
			}
			if perr.Kind != tc.kind {
				t.Errorf("kind = %s, want %s", perr.Kind, tc.kind)
			}
		})
	}
}
