package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"clementus360/simpliday/store"
	"clementus360/simpliday/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEntryLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	e, err := s.CreateEntry(ctx, "u1", types.EntryDiet, "rice", types.Fields{"calories": "250"})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if e.ID == "" || e.CreatedAt.IsZero() {
		t.Fatalf("store did not assign id/created_at: %+v", e)
	}
	if n, _ := e.ParsedData.Number("calories"); n != 250 {
		t.Errorf("calories = %v, want 250", n)
	}

	updated, err := s.UpdateEntry(ctx, "u1", e.ID, "fried rice", types.Fields{"calories": 400.0})
	if err != nil {
		t.Fatalf("UpdateEntry: %v", err)
	}
	if updated.Content != "fried rice" || updated.Type != types.EntryDiet {
		t.Errorf("updated = %+v", updated)
	}
	if !updated.CreatedAt.Equal(e.CreatedAt) {
		t.Errorf("created_at changed on update")
	}

	list, err := s.ListEntries(ctx, "u1", store.ListQuery{})
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(list) != 1 || list[0].ParsedData.NumberOr("calories") != 400 {
		t.Fatalf("list = %+v", list)
	}

	if err := s.DeleteEntry(ctx, "u1", e.ID); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if err := s.DeleteEntry(ctx, "u1", e.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestOwnershipIsolation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	e, err := s.CreateEntry(ctx, "alice", types.EntryMood, "happy", types.Fields{"mood_score": 8.0})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	list, err := s.ListEntries(ctx, "bob", store.ListQuery{})
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("bob sees %d entries", len(list))
	}

	if _, err := s.UpdateEntry(ctx, "bob", e.ID, "sad", nil); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("cross-owner update err = %v, want ErrNotFound", err)
	}
	var se *store.Error
	if err := s.DeleteEntry(ctx, "bob", e.ID); !errors.As(err, &se) {
		t.Errorf("cross-owner delete err = %v, want *store.Error", err)
	}
}

func TestListEntriesOrderAndFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, c := range []string{"first", "second", "third"} {
		if _, err := s.CreateEntry(ctx, "u1", types.EntryOther, c, nil); err != nil {
			t.Fatalf("CreateEntry: %v", err)
		}
	}

	list, err := s.ListEntries(ctx, "u1", store.ListQuery{Limit: 2})
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(list) != 2 || list[0].Content != "third" || list[1].Content != "second" {
		t.Fatalf("list = %+v, want newest first", list)
	}

	future := time.Now().Add(time.Hour)
	list, err = s.ListEntries(ctx, "u1", store.ListQuery{From: future})
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("From in the future returned %d entries", len(list))
	}
}

func TestCreateEntryValidation(t *testing.T) {
	s := newTestStore(t)
	var ve *types.ValidationError
	if _, err := s.CreateEntry(context.Background(), "", types.EntryDiet, "rice", nil); !errors.As(err, &ve) {
		t.Errorf("err = %v, want ValidationError", err)
	}
}

func TestProfileUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.GetProfile(ctx, "u1")
	if err != nil || p != nil {
		t.Fatalf("GetProfile on empty store = %v, %v", p, err)
	}

	male := "male"
	age := 30
	h, w := 175.0, 70.0
	level := types.ActivityModerate
	saved, err := s.UpsertProfile(ctx, "u1", types.ProfilePatch{
		Gender: &male, Age: &age, HeightCM: &h, WeightKG: &w, ActivityLevel: &level,
	})
	if err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}
	if saved.TDEE == nil || *saved.TDEE != 2556 {
		t.Fatalf("TDEE = %v, want 2556", saved.TDEE)
	}

	goal := types.GoalLose
	if _, err := s.UpsertProfile(ctx, "u1", types.ProfilePatch{Goal: &goal}); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}
	p, err = s.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.GoalOrDefault() != types.GoalLose || p.TDEE == nil || *p.TDEE != 2556 {
		t.Errorf("merged profile = %+v", p)
	}
}
