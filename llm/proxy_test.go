package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clementus360/simpliday/types"
)

func TestProxyProviderComplete(t *testing.T) {
	var got proxyRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(proxyResponse{Content: `{"entries":[],"reply":"hi"}`})
	}))
	defer srv.Close()

	p := NewProxyProvider(srv.URL, false, time.Second)
	msgs := []types.Message{
		{Role: types.RoleUser, Content: "hello"},
		{Role: types.RoleAssistant, Content: "hi!"},
		{Role: types.RoleUser, Content: "ran 5k"},
	}
	out, err := p.Complete(context.Background(), "sys", msgs)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != `{"entries":[],"reply":"hi"}` {
		t.Errorf("content = %q", out)
	}
	if got.SystemPrompt != "sys" || len(got.Messages) != 3 || got.UserMessage != "" {
		t.Errorf("request = %+v", got)
	}
}

func TestProxyProviderLegacyBody(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(proxyResponse{Content: "ok"})
	}))
	defer srv.Close()

	p := NewProxyProvider(srv.URL, true, time.Second)
	_, err := p.Complete(context.Background(), "sys", []types.Message{
		{Role: types.RoleUser, Content: "first"},
		{Role: types.RoleUser, Content: "latest"},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got["userMessage"] != "latest" {
		t.Errorf("userMessage = %v, want latest", got["userMessage"])
	}
	if _, ok := got["messages"]; ok {
		t.Error("legacy body should not carry messages")
	}
}

func TestProxyProviderFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}},
		{"empty content", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(proxyResponse{Content: "  "})
		}},
		{"not json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>"))
		}},
		{"timeout", func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			p := NewProxyProvider(srv.URL, false, 50*time.Millisecond)
			_, err := p.Complete(context.Background(), "sys", []types.Message{{Role: types.RoleUser, Content: "x"}})
			if !errors.Is(err, ErrServiceUnavailable) {
				t.Errorf("err = %v, want ErrServiceUnavailable", err)
			}
		})
	}
}
