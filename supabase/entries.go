package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clementus360/simpliday/store"
	"clementus360/simpliday/types"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

// entryRow is the insert shape; id and created_at are assigned by the database.
type entryRow struct {
	UserID     string          `json:"user_id"`
	Type       types.EntryType `json:"type"`
	Content    string          `json:"content"`
	ParsedData types.Fields    `json:"parsed_data"`
}

func (s *Store) CreateEntry(ctx context.Context, owner string, t types.EntryType, content string, fields types.Fields) (types.Entry, error) {
	if err := store.ValidateEntry(owner, t, content); err != nil {
		return types.Entry{}, err
	}
	client, err := s.clientFor(ctx)
	if err != nil {
		return types.Entry{}, store.Wrap("create entry", err)
	}

	row := entryRow{
		UserID:     owner,
		Type:       t,
		Content:    content,
		ParsedData: types.NormalizeFields(t, fields),
	}

	resp, _, err := client.From(entriesTable).Insert(row, false, "", "", "").Execute()
	if err != nil {
		return types.Entry{}, store.Wrap("create entry", fmt.Errorf("failed to insert entry: %w", err))
	}

	var created []types.Entry
	if err := json.Unmarshal(resp, &created); err != nil {
		return types.Entry{}, store.Wrap("create entry", fmt.Errorf("failed to unmarshal entry: %w", err))
	}
	if len(created) == 0 {
		return types.Entry{}, store.Wrap("create entry", fmt.Errorf("insert returned no rows"))
	}
	return created[0], nil
}

func (s *Store) ListEntries(ctx context.Context, owner string, q store.ListQuery) ([]types.Entry, error) {
	if owner == "" {
		return nil, &types.ValidationError{Field: "owner", Message: "missing"}
	}
	client, err := s.clientFor(ctx)
	if err != nil {
		return nil, store.Wrap("list entries", err)
	}

	query := client.From(entriesTable).
		Select("*", "", false).
		Eq("user_id", owner)

	if !q.From.IsZero() {
		query = query.Gte("created_at", q.From.UTC().Format(time.RFC3339))
	}
	if !q.To.IsZero() {
		query = query.Lt("created_at", q.To.UTC().Format(time.RFC3339))
	}
	query = query.Order("created_at", &postgrest.OrderOpts{Ascending: false})
	if q.Limit > 0 {
		query = query.Limit(q.Limit, "")
	}

	resp, _, err := query.Execute()
	if err != nil {
		return nil, store.Wrap("list entries", fmt.Errorf("failed to fetch entries: %w", err))
	}

	var entries []types.Entry
	if err := json.Unmarshal(resp, &entries); err != nil {
		return nil, store.Wrap("list entries", fmt.Errorf("failed to unmarshal entries: %w", err))
	}
	return entries, nil
}

func (s *Store) GetEntry(ctx context.Context, owner, id string) (types.Entry, error) {
	if owner == "" || id == "" {
		return types.Entry{}, &types.ValidationError{Field: "id", Message: "missing owner or id"}
	}
	client, err := s.clientFor(ctx)
	if err != nil {
		return types.Entry{}, store.Wrap("get entry", err)
	}
	e, err := s.getEntry(client, owner, id)
	if err != nil {
		return types.Entry{}, store.Wrap("get entry", err)
	}
	return e, nil
}

func (s *Store) UpdateEntry(ctx context.Context, owner, id, content string, fields types.Fields) (types.Entry, error) {
	if owner == "" || id == "" {
		return types.Entry{}, &types.ValidationError{Field: "id", Message: "missing owner or id"}
	}
	if content == "" {
		return types.Entry{}, &types.ValidationError{Field: "content", Message: "empty"}
	}
	client, err := s.clientFor(ctx)
	if err != nil {
		return types.Entry{}, store.Wrap("update entry", err)
	}

	current, err := s.getEntry(client, owner, id)
	if err != nil {
		return types.Entry{}, store.Wrap("update entry", err)
	}

	updates := map[string]interface{}{
		"content":     content,
		"parsed_data": types.NormalizeFields(current.Type, fields),
	}

	resp, _, err := client.From(entriesTable).
		Update(updates, "", "").
		Eq("id", id).
		Eq("user_id", owner).
		Execute()
	if err != nil {
		return types.Entry{}, store.Wrap("update entry", fmt.Errorf("failed to update entry: %w", err))
	}

	var updated []types.Entry
	if err := json.Unmarshal(resp, &updated); err != nil {
		return types.Entry{}, store.Wrap("update entry", fmt.Errorf("failed to unmarshal entry: %w", err))
	}
	if len(updated) == 0 {
		return types.Entry{}, store.Wrap("update entry", store.ErrNotFound)
	}
	return updated[0], nil
}

func (s *Store) DeleteEntry(ctx context.Context, owner, id string) error {
	if owner == "" || id == "" {
		return &types.ValidationError{Field: "id", Message: "missing owner or id"}
	}
	client, err := s.clientFor(ctx)
	if err != nil {
		return store.Wrap("delete entry", err)
	}

	resp, _, err := client.From(entriesTable).
		Delete("", "").
		Eq("id", id).
		Eq("user_id", owner).
		Execute()
	if err != nil {
		return store.Wrap("delete entry", fmt.Errorf("failed to delete entry: %w", err))
	}

	var deleted []types.Entry
	if err := json.Unmarshal(resp, &deleted); err == nil && len(deleted) == 0 {
		return store.Wrap("delete entry", store.ErrNotFound)
	}
	return nil
}

func (s *Store) getEntry(client *supabase.Client, owner, id string) (types.Entry, error) {
	resp, _, err := client.From(entriesTable).
		Select("*", "", false).
		Eq("id", id).
		Eq("user_id", owner).
		Execute()
	if err != nil {
		return types.Entry{}, fmt.Errorf("failed to fetch entry: %w", err)
	}

	var entries []types.Entry
	if err := json.Unmarshal(resp, &entries); err != nil {
		return types.Entry{}, fmt.Errorf("failed to unmarshal entry: %w", err)
	}
	if len(entries) == 0 {
		return types.Entry{}, store.ErrNotFound
	}
	return entries[0], nil
}
