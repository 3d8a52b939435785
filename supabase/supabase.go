package supabase

import (
	"context"
	"fmt"

	"clementus360/simpliday/store"

	"github.com/supabase-community/supabase-go"
)

const (
	entriesTable  = "entries"
	profilesTable = "profiles"
)

type accessTokenKey struct{}

// WithAccessToken attaches the caller's Supabase JWT so queries run under
// row-level security as that user.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey{}, token)
}

func accessToken(ctx context.Context) string {
	tok, _ := ctx.Value(accessTokenKey{}).(string)
	return tok
}

var _ store.RecordStore = (*Store)(nil)

// Store is the RecordStore backed by the Supabase REST API.
type Store struct {
	apiURL string
	apiKey string
	client *supabase.Client
}

func NewStore(apiURL, apiKey string) (*Store, error) {
	if apiURL == "" || apiKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL or SUPABASE_KEY is missing")
	}

	client, err := supabase.NewClient(apiURL, apiKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}
	return &Store{apiURL: apiURL, apiKey: apiKey, client: client}, nil
}

// clientFor returns a client acting as the request's user when a token is
// present, and the shared key-authenticated client otherwise.
func (s *Store) clientFor(ctx context.Context) (*supabase.Client, error) {
	jwtString := accessToken(ctx)
	if jwtString == "" {
		return s.client, nil
	}

	client, err := supabase.NewClient(s.apiURL, s.apiKey, &supabase.ClientOptions{
		Headers: map[string]string{
			"Authorization": "Bearer " + jwtString,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}
	return client, nil
}
