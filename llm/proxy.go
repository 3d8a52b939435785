package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"clementus360/simpliday/types"
)

// ProxyProvider posts to a same-origin proxy that holds the model credentials.
// The proxy accepts {systemPrompt, messages} and answers {content}. Legacy
// proxies only take {systemPrompt, userMessage}.
type ProxyProvider struct {
	url    string
	legacy bool
	client *http.Client
}

type proxyRequest struct {
	SystemPrompt string          `json:"systemPrompt"`
	Messages     []types.Message `json:"messages,omitempty"`
	UserMessage  string          `json:"userMessage,omitempty"`
}

type proxyResponse struct {
	Content string `json:"content"`
}

func NewProxyProvider(url string, legacy bool, timeout time.Duration) *ProxyProvider {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ProxyProvider{
		url:    url,
		legacy: legacy,
		// Add timeout to prevent hanging
		client: &http.Client{Timeout: timeout},
	}
}

func (p *ProxyProvider) Complete(ctx context.Context, systemPrompt string, messages []types.Message) (string, error) {
	body := proxyRequest{SystemPrompt: systemPrompt}
	if p.legacy {
		if len(messages) > 0 {
			body.UserMessage = messages[len(messages)-1].Content
		}
	} else {
		body.Messages = messages
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", unavailable("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return "", unavailable("API returned status %d", resp.StatusCode)
	}

	var res proxyResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", unavailable("failed to decode response: %v", err)
	}
	if strings.TrimSpace(res.Content) == "" {
		return "", unavailable("empty content in response")
	}
	return res.Content, nil
}
