package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"clementus360/simpliday/llm"
	"clementus360/simpliday/middleware"
	"clementus360/simpliday/session"
	"clementus360/simpliday/sqlite"
	"clementus360/simpliday/types"

	"github.com/go-chi/chi/v5"
)

// fakeModel returns queued responses in order; an empty queue is an outage.
type fakeModel struct {
	mu        sync.Mutex
	responses []string
}

func (f *fakeModel) push(responses ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, responses...)
}

func (f *fakeModel) Complete(ctx context.Context, systemPrompt string, messages []types.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.responses) == 0 {
		return "", errors.New("model offline")
	}
	next := f.responses[0]
	f.responses = f.responses[1:]
	return next, nil
}

type testEnv struct {
	handler *Handler
	store   *sqlite.Store
	model   *fakeModel
	router  http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "handlers.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	model := &fakeModel{}
	ex := llm.NewExtractor(model, time.Second)
	mgr := session.NewManager(ex, st, time.Hour, time.UTC, types.LanguageEN)
	h := New(st, mgr, ex, llm.NewAdvisor(ex), time.UTC)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user := r.Header.Get("X-Test-User"); user != "" {
				r = r.WithContext(middleware.WithUserID(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	})
	r.Post("/chat", h.ChatHandler)
	r.Post("/chat/confirm", h.ConfirmHandler)
	r.Post("/chat/cancel", h.CancelHandler)
	r.Get("/chat/{sessionID}", h.GetSessionHandler)
	r.Delete("/chat/{sessionID}", h.DeleteSessionHandler)
	r.Get("/entries", h.GetEntriesHandler)
	r.Post("/entries", h.CreateEntryHandler)
	r.Patch("/entries/{id}", h.UpdateEntryHandler)
	r.Delete("/entries/{id}", h.DeleteEntryHandler)
	r.Get("/profile", h.GetProfileHandler)
	r.Put("/profile", h.UpdateProfileHandler)
	r.Get("/summary/today", h.TodaySummaryHandler)
	r.Get("/summary", h.SummaryHandler)
	r.Get("/insights", h.InsightsHandler)
	r.Post("/insights/suggestions", h.SuggestionsHandler)

	return &testEnv{handler: h, store: st, model: model, router: r}
}

func (e *testEnv) do(t *testing.T, method, path, user string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code
}

func TestChatConfirmFlow(t *testing.T) {
	env := newTestEnv(t)
	env.model.push(`{"entries":[
		{"type":"fitness","content":"Run 5k","parsed_data":{"duration":30,"calories_burned":300}},
		{"type":"diet","content":"Noodles","parsed_data":{"calories":600}}
	],"reply":"Two records, confirm?"}`)

	var chat types.ChatResponse
	code := env.do(t, http.MethodPost, "/chat", "u1", types.ChatRequest{Message: "ran 5k then noodles"}, &chat)
	if code != http.StatusOK || !chat.Success {
		t.Fatalf("chat status = %d, resp = %+v", code, chat)
	}
	if chat.State != string(session.StateAwaitingConfirmation) || len(chat.Drafts) != 2 || chat.SessionID == "" {
		t.Fatalf("chat = %+v", chat)
	}

	var confirm types.ChatResponse
	code = env.do(t, http.MethodPost, "/chat/confirm", "u1", types.SessionRequest{SessionID: chat.SessionID}, &confirm)
	if code != http.StatusOK || len(confirm.Committed) != 2 || confirm.State != string(session.StateIdle) {
		t.Fatalf("confirm status = %d, resp = %+v", code, confirm)
	}

	var list types.GetEntriesResponse
	env.do(t, http.MethodGet, "/entries", "u1", nil, &list)
	if len(list.Entries) != 2 {
		t.Fatalf("listed %d entries, want 2", len(list.Entries))
	}

	code = env.do(t, http.MethodPost, "/chat/confirm", "u1", types.SessionRequest{SessionID: chat.SessionID}, nil)
	if code != http.StatusConflict {
		t.Errorf("second confirm status = %d, want 409", code)
	}

	var state types.ChatStateResponse
	env.do(t, http.MethodGet, "/chat/"+chat.SessionID, "u1", nil, &state)
	if len(state.History) != 2 || state.State != string(session.StateIdle) {
		t.Errorf("state = %+v", state)
	}
	if code := env.do(t, http.MethodGet, "/chat/"+chat.SessionID, "u2", nil, nil); code != http.StatusNotFound {
		t.Errorf("foreign session status = %d, want 404", code)
	}
}

func TestChatServiceUnavailable(t *testing.T) {
	env := newTestEnv(t)

	var chat types.ChatResponse
	code := env.do(t, http.MethodPost, "/chat", "u1", types.ChatRequest{Message: "hello"}, &chat)
	if code != http.StatusOK || chat.Reply != session.UnavailableReply(types.LanguageEN) {
		t.Fatalf("status = %d, resp = %+v", code, chat)
	}
	if chat.State != string(session.StateIdle) {
		t.Errorf("state = %s", chat.State)
	}
}

func TestChatValidation(t *testing.T) {
	env := newTestEnv(t)

	if code := env.do(t, http.MethodPost, "/chat", "u1", types.ChatRequest{Message: "  "}, nil); code != http.StatusBadRequest {
		t.Errorf("empty message status = %d", code)
	}
	if code := env.do(t, http.MethodPost, "/chat", "", types.ChatRequest{Message: "hi"}, nil); code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d", code)
	}
	if code := env.do(t, http.MethodPost, "/chat", "u1", types.ChatRequest{Message: "hi", Timezone: "Mars/Base"}, nil); code != http.StatusBadRequest {
		t.Errorf("bad timezone status = %d", code)
	}
	if code := env.do(t, http.MethodPost, "/chat/cancel", "u1", types.SessionRequest{SessionID: "nope"}, nil); code != http.StatusNotFound {
		t.Errorf("cancel unknown session status = %d", code)
	}
}

func TestEntryLifecycle(t *testing.T) {
	env := newTestEnv(t)

	var created types.EntryResponse
	code := env.do(t, http.MethodPost, "/entries", "u1", types.CreateEntryRequest{
		Type:       types.EntryDiet,
		Content:    "oatmeal",
		ParsedData: types.Fields{"calories": "300"},
	}, &created)
	if code != http.StatusCreated || created.Entry == nil {
		t.Fatalf("create status = %d, resp = %+v", code, created)
	}
	id := created.Entry.ID
	if created.Entry.ParsedData.NumberOr("calories") != 300 {
		t.Errorf("fields = %v", created.Entry.ParsedData)
	}

	if code := env.do(t, http.MethodPost, "/entries", "u1", types.CreateEntryRequest{Type: "sleep", Content: "8h"}, nil); code != http.StatusBadRequest {
		t.Errorf("unknown type status = %d", code)
	}

	// Re-extraction replaces the fields.
	env.model.push(`{"parsed_data": {"food": "oatmeal with banana", "calories": 420}}`)
	var updated types.EntryResponse
	code = env.do(t, http.MethodPatch, "/entries/"+id, "u1", types.UpdateEntryRequest{Content: "oatmeal with banana", Reextract: true}, &updated)
	if code != http.StatusOK || updated.Entry.ParsedData.NumberOr("calories") != 420 {
		t.Fatalf("reextract status = %d, resp = %+v", code, updated)
	}

	// A failed re-extraction keeps the old fields and saves the text.
	code = env.do(t, http.MethodPatch, "/entries/"+id, "u1", types.UpdateEntryRequest{Content: "big oatmeal", Reextract: true}, &updated)
	if code != http.StatusOK || updated.Entry.Content != "big oatmeal" || updated.Entry.ParsedData.NumberOr("calories") != 420 {
		t.Fatalf("failed reextract status = %d, resp = %+v", code, updated)
	}

	if code := env.do(t, http.MethodPatch, "/entries/"+id, "u2", types.UpdateEntryRequest{Content: "stolen"}, nil); code != http.StatusNotFound {
		t.Errorf("foreign update status = %d", code)
	}
	if code := env.do(t, http.MethodPatch, "/entries/not-a-uuid", "u1", types.UpdateEntryRequest{Content: "x"}, nil); code != http.StatusBadRequest {
		t.Errorf("bad id status = %d", code)
	}

	if code := env.do(t, http.MethodDelete, "/entries/"+id, "u1", nil, nil); code != http.StatusOK {
		t.Errorf("delete status = %d", code)
	}
	if code := env.do(t, http.MethodDelete, "/entries/"+id, "u1", nil, nil); code != http.StatusNotFound {
		t.Errorf("second delete status = %d", code)
	}
}

func TestGetEntriesFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for _, c := range []string{"a", "b", "c"} {
		if _, err := env.store.CreateEntry(ctx, "u1", types.EntryMood, c, nil); err != nil {
			t.Fatal(err)
		}
	}

	var list types.GetEntriesResponse
	env.do(t, http.MethodGet, "/entries?limit=2", "u1", nil, &list)
	if len(list.Entries) != 2 || list.Entries[0].Content != "c" {
		t.Errorf("entries = %+v", list.Entries)
	}

	tests := []string{"/entries?limit=-1", "/entries?from=yesterday", "/entries?range=decade"}
	for _, path := range tests {
		if code := env.do(t, http.MethodGet, path, "u1", nil, nil); code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", path, code)
		}
	}
}

func TestProfile(t *testing.T) {
	env := newTestEnv(t)

	var empty map[string]any
	env.do(t, http.MethodGet, "/profile", "u1", nil, &empty)
	if empty["profile"] != nil {
		t.Errorf("new user profile = %v, want null", empty["profile"])
	}

	gender, age, height, weight, level := "male", 30, 175.0, 70.0, types.ActivityModerate
	var saved types.ProfileResponse
	code := env.do(t, http.MethodPut, "/profile", "u1", types.ProfilePatch{
		Gender: &gender, Age: &age, HeightCM: &height, WeightKG: &weight, ActivityLevel: &level,
	}, &saved)
	if code != http.StatusOK || saved.Profile == nil || saved.Profile.TDEE == nil || *saved.Profile.TDEE != 2556 {
		t.Fatalf("status = %d, profile = %+v", code, saved.Profile)
	}

	bad := -4
	if code := env.do(t, http.MethodPut, "/profile", "u1", types.ProfilePatch{Age: &bad}, nil); code != http.StatusBadRequest {
		t.Errorf("invalid age status = %d", code)
	}
}

func TestTodaySummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.store.CreateEntry(ctx, "u1", types.EntryDiet, "lunch", types.Fields{"calories": 900})
	env.store.CreateEntry(ctx, "u1", types.EntryDiet, "dinner", types.Fields{"calories": 1000})
	env.store.CreateEntry(ctx, "u1", types.EntryFitness, "run", types.Fields{"calories_burned": 400})
	gender, age, height, weight, level, goal := "male", 30, 175.0, 70.0, types.ActivityModerate, types.GoalLose
	if _, err := env.store.UpsertProfile(ctx, "u1", types.ProfilePatch{
		Gender: &gender, Age: &age, HeightCM: &height, WeightKG: &weight, ActivityLevel: &level, Goal: &goal,
	}); err != nil {
		t.Fatal(err)
	}

	var resp map[string]any
	code := env.do(t, http.MethodGet, "/summary/today", "u1", nil, &resp)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if resp["mood_display"] != "-" {
		t.Errorf("mood_display = %v, want -", resp["mood_display"])
	}
	balance, ok := resp["balance"].(map[string]any)
	if !ok {
		t.Fatalf("balance missing: %v", resp)
	}
	// 1900 in, 2556 tdee, 400 burned
	if balance["net"] != float64(1900-2556-400) || balance["status"] != "deficit" || balance["assessment"] != "favorable" {
		t.Errorf("balance = %v", balance)
	}
}

func TestInsightsAndSuggestions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.store.CreateEntry(ctx, "u1", types.EntryMood, "good", types.Fields{"mood_score": 8})
	env.store.CreateEntry(ctx, "u1", types.EntryDiet, "salad", nil)

	var insights types.InsightsResponse
	env.do(t, http.MethodGet, "/insights", "u1", nil, &insights)
	if len(insights.Last7Days) != 7 || insights.Total != 2 || insights.Distribution[types.EntryMood] != 1 {
		t.Errorf("insights = %+v", insights)
	}
	if insights.Last7Days[6].Count != 2 {
		t.Errorf("today count = %d", insights.Last7Days[6].Count)
	}

	if code := env.do(t, http.MethodPost, "/insights/suggestions", "u1", nil, nil); code != http.StatusBadRequest {
		t.Errorf("too few entries status = %d, want 400", code)
	}

	env.store.CreateEntry(ctx, "u1", types.EntryFitness, "swim", nil)
	env.model.push(`{"summary":"Balanced week","fitness_suggestions":["Swim twice"],"diet_suggestions":[],"encouragement":"Nice"}`)
	var sugg types.SuggestionsResponse
	code := env.do(t, http.MethodPost, "/insights/suggestions", "u1", nil, &sugg)
	if code != http.StatusOK || sugg.Suggestions == nil || sugg.Suggestions.Summary != "Balanced week" {
		t.Errorf("status = %d, resp = %+v", code, sugg)
	}

	if code := env.do(t, http.MethodPost, "/insights/suggestions", "u1", nil, nil); code != http.StatusServiceUnavailable {
		t.Errorf("offline model status = %d, want 503", code)
	}
}
