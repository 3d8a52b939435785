package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"clementus360/simpliday/types"
)

func TestManagerOwnership(t *testing.T) {
	m := NewManager(&scriptedExtractor{}, &memStore{}, time.Hour, time.UTC, types.LanguageEN)
	ctx := context.Background()

	s, err := m.Create(ctx, "alice", "", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := m.Get(s.ID, "bob"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get by another user err = %v", err)
	}
	got, err := m.Get(s.ID, "alice")
	if err != nil || got != s {
		t.Fatalf("Get = %v, %v", got, err)
	}

	resumed, err := m.GetOrCreate(ctx, s.ID, "alice", "", nil)
	if err != nil || resumed != s {
		t.Errorf("GetOrCreate did not resume the live session")
	}
	fresh, err := m.GetOrCreate(ctx, "unknown", "alice", "", nil)
	if err != nil || fresh == s {
		t.Errorf("GetOrCreate with an unknown id should open a new session")
	}

	if err := m.Close(s.ID, "bob"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Close by another user err = %v", err)
	}
	if err := m.Close(s.ID, "alice"); err != nil {
		t.Errorf("Close: %v", err)
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
}

func TestManagerCreateRequiresOwner(t *testing.T) {
	m := NewManager(&scriptedExtractor{}, &memStore{}, time.Hour, time.UTC, types.LanguageEN)
	_, err := m.Create(context.Background(), "", types.LanguageEN, nil)
	var ve *types.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("err = %v, want ValidationError", err)
	}
}

func TestManagerUsesProfileLanguage(t *testing.T) {
	st := &memStore{profile: &types.UserProfile{ID: "u1", Language: types.LanguageZH}}
	m := NewManager(&scriptedExtractor{}, st, time.Hour, time.UTC, types.LanguageEN)

	s, err := m.Create(context.Background(), "u1", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.Language != types.LanguageZH {
		t.Errorf("Language = %q, want zh", s.Language)
	}

	explicit, err := m.Create(context.Background(), "u1", types.LanguageEN, nil)
	if err != nil {
		t.Fatal(err)
	}
	if explicit.Language != types.LanguageEN {
		t.Errorf("explicit Language = %q, want en", explicit.Language)
	}
}

func TestManagerEvictsIdleSessions(t *testing.T) {
	now := time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)
	m := NewManager(&scriptedExtractor{}, &memStore{}, time.Hour, time.UTC, types.LanguageEN)
	m.now = func() time.Time { return now }

	old, _ := m.Create(context.Background(), "u1", "", nil)
	now = now.Add(45 * time.Minute)
	active, _ := m.Create(context.Background(), "u1", "", nil)
	now = now.Add(30 * time.Minute)

	if _, err := m.Get(old.ID, "u1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired session still reachable: %v", err)
	}
	if n := m.Evict(); n != 1 {
		t.Errorf("Evict removed %d, want 1", n)
	}
	if _, err := m.Get(active.ID, "u1"); err != nil {
		t.Errorf("active session evicted: %v", err)
	}
}
