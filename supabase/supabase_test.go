package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clementus360/simpliday/store"
	"clementus360/simpliday/types"
)

func newTestStore(t *testing.T, handler http.HandlerFunc) *Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s, err := NewStore(srv.URL, "anon-key")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestListEntriesScopesToOwner(t *testing.T) {
	var gotQuery, gotAuth string
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/rest/v1/entries") {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":"e1","user_id":"u1","type":"diet","content":"rice","parsed_data":{"calories":250},"created_at":"2024-05-01T12:00:00+00:00"}]`)
	})

	ctx := WithAccessToken(context.Background(), "user-jwt")
	entries, err := s.ListEntries(ctx, "u1", store.ListQuery{Limit: 10})
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 1 || entries[0].Type != types.EntryDiet {
		t.Fatalf("entries = %+v", entries)
	}
	if n, _ := entries[0].ParsedData.Number("calories"); n != 250 {
		t.Errorf("calories = %v, want 250", n)
	}
	if !strings.Contains(gotQuery, "user_id=eq.u1") {
		t.Errorf("query %q missing owner filter", gotQuery)
	}
	if gotAuth != "Bearer user-jwt" {
		t.Errorf("Authorization = %q, want user token", gotAuth)
	}
}

func TestCreateEntryNormalizesFields(t *testing.T) {
	var body []map[string]any
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		raw, _ := io.ReadAll(r.Body)
		// postgrest-go may send a single object or an array
		if err := json.Unmarshal(raw, &body); err != nil {
			var one map[string]any
			if err := json.Unmarshal(raw, &one); err != nil {
				t.Errorf("bad insert body %s", raw)
			}
			body = []map[string]any{one}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `[{"id":"e9","user_id":"u1","type":"fitness","content":"ran","parsed_data":{"intensity":"high"},"created_at":"2024-05-01T12:00:00+00:00"}]`)
	})

	e, err := s.CreateEntry(context.Background(), "u1", types.EntryFitness, "ran", types.Fields{"intensity": "高"})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if e.ID != "e9" {
		t.Errorf("ID = %q, want e9", e.ID)
	}
	if len(body) != 1 || body[0]["user_id"] != "u1" {
		t.Fatalf("insert body = %v", body)
	}
	pd, _ := body[0]["parsed_data"].(map[string]any)
	if pd["intensity"] != "high" {
		t.Errorf("sent intensity = %v, want high", pd["intensity"])
	}
}

func TestGetProfileMissingIsNil(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[]`)
	})

	p, err := s.GetProfile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p != nil {
		t.Errorf("profile = %+v, want nil", p)
	}
}

func TestCreateEntryValidation(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("store should not be called")
	})
	if _, err := s.CreateEntry(context.Background(), "", types.EntryDiet, "rice", nil); err == nil {
		t.Error("expected validation error for missing owner")
	}
}
