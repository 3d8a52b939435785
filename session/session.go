package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"clementus360/simpliday/config"
	"clementus360/simpliday/llm"
	"clementus360/simpliday/store"
	"clementus360/simpliday/types"

	"github.com/sirupsen/logrus"
)

type State string

const (
	StateIdle                 State = "idle"
	StateAwaitingConfirmation State = "awaiting_confirmation"
)

var (
	ErrBusy             = errors.New("a turn is already in progress for this session")
	ErrNotFound         = errors.New("session not found")
	ErrNothingToConfirm = errors.New("no drafts awaiting confirmation")
)

var unavailableReplies = map[types.Language]string{
	types.LanguageEN: "The service is temporarily unavailable. Please try again.",
	types.LanguageZH: "服务暂时不可用，请稍后再试。",
}

// UnavailableReply is shown instead of a model reply when extraction fails.
func UnavailableReply(lang types.Language) string {
	if reply, ok := unavailableReplies[lang]; ok {
		return reply
	}
	return unavailableReplies[types.LanguageEN]
}

// Extractor runs one extraction round over the conversation so far.
type Extractor interface {
	Extract(ctx context.Context, req llm.ExtractionRequest) (types.ExtractionResult, error)
}

// CommitError reports a failed commit. Entries written before the failure
// are in Committed; the rest stay staged.
type CommitError struct {
	Committed []types.Entry
	Err       error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit stopped after %d entries: %v", len(e.Committed), e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

// TurnResult is what the user sees after one utterance.
type TurnResult struct {
	Reply       string
	State       State
	Drafts      []types.EntryDraft
	Committed   []types.Entry
	Unavailable bool
}

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	ID      string
	State   State
	History []types.Message
	Drafts  []types.EntryDraft
}

// Session is the confirm/correct conversation of one user. Turns are single
// flight: Send, Confirm and Cancel fail with ErrBusy while another one runs.
type Session struct {
	ID       string
	Owner    string
	Language types.Language

	loc       *time.Location
	extractor Extractor
	store     store.RecordStore
	now       func() time.Time

	// turn serializes Send, Confirm and Cancel; mu guards the fields below it
	// for readers such as Snapshot.
	turn sync.Mutex

	mu         sync.RWMutex
	state      State
	history    []types.Message
	drafts     []types.EntryDraft
	recent     []types.Entry
	lastActive time.Time

	// retryPending is set when the last round failed as unavailable.
	retryPending bool
}

func New(id, owner string, lang types.Language, loc *time.Location, extractor Extractor, st store.RecordStore) *Session {
	if loc == nil {
		loc = time.Local
	}
	return &Session{
		ID:         id,
		Owner:      owner,
		Language:   lang,
		loc:        loc,
		extractor:  extractor,
		store:      st,
		now:        time.Now,
		state:      StateIdle,
		lastActive: time.Now(),
	}
}

// LoadRecent fills the recent-entries digest sent with every turn.
func (s *Session) LoadRecent(ctx context.Context) error {
	entries, err := s.store.ListEntries(ctx, s.Owner, store.ListQuery{Limit: config.ContextConfig.MaxRecentEntries})
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.recent = entries
	s.mu.Unlock()
	return nil
}

// Send runs one extraction round for the utterance. A ServiceUnavailable
// failure becomes a reply-only result and leaves the state untouched.
func (s *Session) Send(ctx context.Context, utterance string) (*TurnResult, error) {
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return nil, &types.ValidationError{Field: "message", Message: "empty"}
	}
	if !s.turn.TryLock() {
		return nil, ErrBusy
	}
	defer s.turn.Unlock()

	s.mu.Lock()
	s.lastActive = s.now()
	// A retry after an unavailable round reuses the utterance already in history.
	n := len(s.history)
	retry := s.retryPending && n > 0 && s.history[n-1].Role == types.RoleUser && s.history[n-1].Content == utterance
	if !retry {
		s.history = append(s.history, types.Message{Role: types.RoleUser, Content: utterance})
	}
	s.retryPending = false
	req := llm.ExtractionRequest{
		Language: s.Language,
		History:  append([]types.Message(nil), s.history...),
		Recent:   append([]types.Entry(nil), s.recent...),
		Now:      s.now().In(s.loc),
	}
	s.mu.Unlock()

	logger := config.Logger.WithFields(logrus.Fields{
		"session": s.ID,
		"user_id": s.Owner,
	})

	res, err := s.extractor.Extract(ctx, req)
	if err != nil {
		if !errors.Is(err, llm.ErrServiceUnavailable) {
			return nil, err
		}
		logger.WithError(err).Warn("Extraction unavailable, keeping session state")
		s.mu.Lock()
		defer s.mu.Unlock()
		s.retryPending = true
		return &TurnResult{
			Reply:       UnavailableReply(s.Language),
			State:       s.state,
			Drafts:      copyDrafts(s.drafts),
			Unavailable: true,
		}, nil
	}

	s.mu.Lock()
	if res.Reply != "" {
		s.history = append(s.history, types.Message{Role: types.RoleAssistant, Content: res.Reply})
	}
	awaiting := s.state == StateAwaitingConfirmation
	if len(res.Entries) > 0 {
		s.drafts = copyDrafts(res.Entries)
		s.state = StateAwaitingConfirmation
	}
	s.mu.Unlock()

	result := &TurnResult{Reply: res.Reply}

	// Zero drafts while awaiting confirmation counts as confirming the staged ones.
	if len(res.Entries) == 0 && awaiting {
		logger.Debug("No new drafts while awaiting confirmation, committing staged drafts")
		committed, err := s.commit(ctx)
		if err != nil {
			return nil, err
		}
		result.Committed = committed
	}

	s.mu.RLock()
	result.State = s.state
	result.Drafts = copyDrafts(s.drafts)
	s.mu.RUnlock()

	logger.WithFields(logrus.Fields{
		"drafts":    len(result.Drafts),
		"committed": len(result.Committed),
		"state":     result.State,
	}).Info("Chat turn completed")
	return result, nil
}

// Confirm writes every staged draft, in order, and returns the new entries.
func (s *Session) Confirm(ctx context.Context) ([]types.Entry, error) {
	if !s.turn.TryLock() {
		return nil, ErrBusy
	}
	defer s.turn.Unlock()

	s.mu.RLock()
	empty := len(s.drafts) == 0
	s.mu.RUnlock()
	if empty {
		return nil, ErrNothingToConfirm
	}
	return s.commit(ctx)
}

// Cancel discards the staged drafts without writing them.
func (s *Session) Cancel() error {
	if !s.turn.TryLock() {
		return ErrBusy
	}
	defer s.turn.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts = nil
	s.state = StateIdle
	s.lastActive = s.now()
	return nil
}

// commit must be called with the turn lock held.
func (s *Session) commit(ctx context.Context) ([]types.Entry, error) {
	s.mu.RLock()
	drafts := copyDrafts(s.drafts)
	s.mu.RUnlock()

	committed := make([]types.Entry, 0, len(drafts))
	for i, d := range drafts {
		entry, err := s.store.CreateEntry(ctx, s.Owner, d.Type, d.Content, d.Fields)
		if err != nil {
			s.mu.Lock()
			s.drafts = drafts[i:]
			s.rememberLocked(committed)
			s.mu.Unlock()

			config.Logger.WithFields(logrus.Fields{
				"session":   s.ID,
				"committed": len(committed),
				"remaining": len(drafts) - i,
			}).WithError(err).Error("Failed to commit drafts")
			return nil, &CommitError{Committed: committed, Err: err}
		}
		committed = append(committed, entry)
	}

	s.mu.Lock()
	s.drafts = nil
	s.state = StateIdle
	s.lastActive = s.now()
	s.rememberLocked(committed)
	s.mu.Unlock()
	return committed, nil
}

// rememberLocked prepends new entries to the recent digest, newest first.
func (s *Session) rememberLocked(entries []types.Entry) {
	if len(entries) == 0 {
		return
	}
	recent := make([]types.Entry, 0, len(entries)+len(s.recent))
	for i := len(entries) - 1; i >= 0; i-- {
		recent = append(recent, entries[i])
	}
	recent = append(recent, s.recent...)
	if limit := config.ContextConfig.MaxRecentEntries; len(recent) > limit {
		recent = recent[:limit]
	}
	s.recent = recent
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		ID:      s.ID,
		State:   s.state,
		History: append([]types.Message{}, s.history...),
		Drafts:  copyDrafts(s.drafts),
	}
}

func (s *Session) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActive
}

func copyDrafts(drafts []types.EntryDraft) []types.EntryDraft {
	out := make([]types.EntryDraft, len(drafts))
	copy(out, drafts)
	return out
}
