package session

import (
	"context"
	"sync"
	"time"

	"clementus360/simpliday/config"
	"clementus360/simpliday/store"
	"clementus360/simpliday/types"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Manager keeps the live sessions of every user in memory. Sessions are
// never persisted and disappear after ttl without activity.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	extractor   Extractor
	store       store.RecordStore
	ttl         time.Duration
	loc         *time.Location
	defaultLang types.Language
	now         func() time.Time
}

func NewManager(extractor Extractor, st store.RecordStore, ttl time.Duration, loc *time.Location, defaultLang types.Language) *Manager {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	if loc == nil {
		loc = time.Local
	}
	if defaultLang == "" {
		defaultLang = types.LanguageEN
	}
	return &Manager{
		sessions:    make(map[string]*Session),
		extractor:   extractor,
		store:       st,
		ttl:         ttl,
		loc:         loc,
		defaultLang: defaultLang,
		now:         time.Now,
	}
}

// Create opens a new session. An empty lang falls back to the language saved
// on the user's profile, then to the default. A nil loc uses the server zone.
func (m *Manager) Create(ctx context.Context, owner string, lang types.Language, loc *time.Location) (*Session, error) {
	if owner == "" {
		return nil, &types.ValidationError{Field: "owner", Message: "missing"}
	}
	logger := config.Logger.WithField("user_id", owner)

	if lang == "" {
		lang = m.defaultLang
		profile, err := m.store.GetProfile(ctx, owner)
		if err != nil {
			logger.WithError(err).Warn("Failed to load profile language")
		} else if profile != nil && profile.Language != "" {
			lang = profile.Language
		}
	}
	if loc == nil {
		loc = m.loc
	}

	s := New(uuid.NewString(), owner, lang, loc, m.extractor, m.store)
	s.now = m.now
	s.lastActive = m.now()

	// Continue without the digest if the store is unreachable
	if err := s.LoadRecent(ctx); err != nil {
		logger.WithError(err).Warn("Failed to load recent entries for session")
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	logger.WithFields(logrus.Fields{
		"session":  s.ID,
		"language": lang,
	}).Info("Session created")
	return s, nil
}

// Get returns the session only to its owner. Expired sessions are not found.
func (m *Manager) Get(id, owner string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok || s.Owner != owner || m.expired(s) {
		return nil, ErrNotFound
	}
	return s, nil
}

// GetOrCreate resumes id when it is live, otherwise opens a new session.
func (m *Manager) GetOrCreate(ctx context.Context, id, owner string, lang types.Language, loc *time.Location) (*Session, error) {
	if id != "" {
		if s, err := m.Get(id, owner); err == nil {
			return s, nil
		}
	}
	return m.Create(ctx, owner, lang, loc)
}

func (m *Manager) Close(id, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || s.Owner != owner {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Evict drops every session idle for longer than the ttl.
func (m *Manager) Evict() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if m.expired(s) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Run evicts expired sessions until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	interval := m.ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Evict(); n > 0 {
				config.Logger.Debugf("Evicted %d idle sessions", n)
			}
		}
	}
}

func (m *Manager) expired(s *Session) bool {
	return m.now().Sub(s.idleSince()) > m.ttl
}
