package llm

import (
	"context"
	"errors"
	"fmt"

	"clementus360/simpliday/types"
)

// ErrServiceUnavailable covers every way a model call can fail: transport
// errors, non-2xx statuses, timeouts and empty payloads.
var ErrServiceUnavailable = errors.New("extraction service unavailable")

// Provider sends a system instruction plus chat history to a language model
// and returns the raw text of its reply.
type Provider interface {
	Complete(ctx context.Context, systemPrompt string, messages []types.Message) (string, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, systemPrompt string, messages []types.Message) (string, error)

func (f ProviderFunc) Complete(ctx context.Context, systemPrompt string, messages []types.Message) (string, error) {
	return f(ctx, systemPrompt, messages)
}

func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrServiceUnavailable, fmt.Sprintf(format, args...))
}

// asUnavailable makes sure a provider failure matches ErrServiceUnavailable.
func asUnavailable(err error) error {
	if err == nil || errors.Is(err, ErrServiceUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
}
