package cli

import (
	"context"
	"fmt"

	"clementus360/simpliday/config"
	"clementus360/simpliday/llm"
	"clementus360/simpliday/sqlite"
	"clementus360/simpliday/store"
	"clementus360/simpliday/supabase"
	"clementus360/simpliday/types"
)

// services holds what the serve and chat commands share.
type services struct {
	store     store.RecordStore
	extractor *llm.Extractor
	closers   []func() error
}

func (s *services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			config.Logger.WithError(err).Warn("Failed to release resource")
		}
	}
}

// openStore connects the backend selected by STORE_BACKEND.
func openStore(c config.Config) (store.RecordStore, func() error, error) {
	switch c.StoreBackend {
	case "sqlite":
		st, err := sqlite.NewStore(c.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	case "supabase":
		st, err := supabase.NewStore(c.SupabaseURL, c.SupabaseKey)
		if err != nil {
			return nil, nil, err
		}
		return st, func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unsupported STORE_BACKEND %q", c.StoreBackend)
}

func newServices(ctx context.Context, c config.Config) (*services, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	svc := &services{}
	st, closeStore, err := openStore(c)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", c.StoreBackend, err)
	}
	svc.store = st
	svc.closers = append(svc.closers, closeStore)

	provider, closeProvider, err := llm.NewProvider(ctx, c)
	if err != nil {
		svc.Close()
		return nil, fmt.Errorf("failed to initialize %s provider: %w", c.LLMProvider, err)
	}
	svc.closers = append(svc.closers, closeProvider)
	svc.extractor = llm.NewExtractor(provider, c.LLMTimeout)

	config.Logger.WithField("store", c.StoreBackend).
		WithField("provider", c.LLMProvider).
		Info("Services initialized")
	return svc, nil
}

func defaultLanguage(c config.Config) types.Language {
	return types.ParseLanguage(c.DefaultLanguage)
}
