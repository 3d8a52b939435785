package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"clementus360/simpliday/config"
	"clementus360/simpliday/types"

	"github.com/sirupsen/logrus"
)

// ExtractionRequest is one turn of the conversation. History ends with the
// user utterance being answered.
type ExtractionRequest struct {
	Language types.Language
	History  []types.Message
	Recent   []types.Entry
	Now      time.Time
}

// Extractor runs extraction turns against a Provider with a bounded timeout.
type Extractor struct {
	provider   Provider
	timeout    time.Duration
	maxHistory int
}

func NewExtractor(provider Provider, timeout time.Duration) *Extractor {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Extractor{
		provider:   provider,
		timeout:    timeout,
		maxHistory: config.ContextConfig.MaxHistoryMessages,
	}
}

// Extract sends the capped history and returns the parsed result. Any
// provider failure is reported as ErrServiceUnavailable.
func (e *Extractor) Extract(ctx context.Context, req ExtractionRequest) (types.ExtractionResult, error) {
	if len(req.History) == 0 {
		return types.ExtractionResult{}, &types.ValidationError{Field: "history", Message: "empty"}
	}
	last := req.History[len(req.History)-1]
	if last.Role != types.RoleUser || strings.TrimSpace(last.Content) == "" {
		return types.ExtractionResult{}, &types.ValidationError{Field: "utterance", Message: "empty"}
	}
	if req.Now.IsZero() {
		req.Now = time.Now()
	}

	prompt := BuildSystemPrompt(req.Language, req.Recent, req.Now)
	history := CapHistory(req.History, e.maxHistory)

	config.Logger.WithFields(logrus.Fields{
		"messages":      len(history),
		"recent":        len(req.Recent),
		"prompt_tokens": EstimateTokens(prompt),
	}).Debug("Sending extraction request")

	raw, err := e.complete(ctx, prompt, history)
	if err != nil {
		return types.ExtractionResult{}, err
	}

	result := ParseExtraction(raw, last.Content, req.Language)
	config.Logger.WithField("entries", len(result.Entries)).Debug("Parsed extraction result")
	return result, nil
}

// Reparse extracts the fields of an edited entry whose type is already known.
// An empty result means the model found nothing to extract.
func (e *Extractor) Reparse(ctx context.Context, t types.EntryType, content string, lang types.Language) (types.Fields, error) {
	if strings.TrimSpace(content) == "" {
		return nil, &types.ValidationError{Field: "content", Message: "empty"}
	}

	raw, err := e.complete(ctx, BuildReparsePrompt(lang, t), []types.Message{
		{Role: types.RoleUser, Content: content},
	})
	if err != nil {
		return nil, err
	}

	obj, ok := RecoverObject(raw)
	if !ok {
		return types.Fields{}, nil
	}
	if inner, ok := obj["parsed_data"].(map[string]any); ok {
		obj = inner
	}
	return types.NormalizeFields(t, obj), nil
}

func (e *Extractor) complete(ctx context.Context, systemPrompt string, messages []types.Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.provider.Complete(ctx, systemPrompt, messages)
	if err != nil {
		var ve *types.ValidationError
		if errors.As(err, &ve) {
			return "", err
		}
		config.Logger.WithError(err).Warn("Extraction service call failed")
		return "", asUnavailable(err)
	}
	if strings.TrimSpace(raw) == "" {
		return "", unavailable("empty payload")
	}
	return raw, nil
}
