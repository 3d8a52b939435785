package llm

import (
	"context"
	"fmt"
	"strings"

	"clementus360/simpliday/config"
	"clementus360/simpliday/types"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider talks to Gemini through the Generative AI SDK.
type GeminiProvider struct {
	client    *genai.Client
	modelName string
}

func NewGeminiProvider(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}
	if modelName == "" {
		modelName = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiProvider{client: client, modelName: modelName}, nil
}

func (p *GeminiProvider) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

func (p *GeminiProvider) Complete(ctx context.Context, systemPrompt string, messages []types.Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("prompt history is empty for chat completion")
	}
	last := messages[len(messages)-1]
	if last.Role != types.RoleUser {
		return "", fmt.Errorf("last message in history is not from 'user', cannot proceed with chat completion")
	}

	model := p.client.GenerativeModel(p.modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}
	model.SetTemperature(0.3)
	model.SetMaxOutputTokens(1024)
	model.ResponseMIMEType = "application/json"

	chatSession := model.StartChat()
	chatSession.History = toGeminiHistory(messages[:len(messages)-1])

	resp, err := chatSession.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		return "", unavailable("gemini chat SendMessage failed: %v", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", unavailable("gemini response was empty or had no valid candidates")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		} else {
			config.Logger.Debugf("Gemini response part was not text: %T", part)
		}
	}

	if strings.TrimSpace(responseText.String()) == "" {
		return "", unavailable("gemini returned no text")
	}
	return responseText.String(), nil
}

func toGeminiHistory(messages []types.Message) []*genai.Content {
	history := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := "user"
		if m.Role == types.RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}
	return history
}
