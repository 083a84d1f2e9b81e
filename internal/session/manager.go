package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/domain"
)

// Config holds the timing of pollers and session expiry.
type Config struct {
	PollInterval    time.Duration
	JanitorInterval time.Duration
	Location        *time.Location
	Now             func() time.Time

	// TTL is how long a session may stay idle before the janitor drops it.
	// Zero disables expiry.
	TTL time.Duration

	// OnExpire is called with the last state of every reaped session.
	OnExpire func(Snapshot)
}

func DefaultConfig() Config {
	return Config{
		PollInterval:    2 * time.Second,
		TTL:             12 * time.Hour,
		JanitorInterval: time.Minute,
		Location:        time.Local,
		Now:             time.Now,
	}
}

// Manager is the registry of operator sessions keyed by session id.
type Manager struct {
	source EventSource
	config Config
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func NewManager(source EventSource, config Config, logger *slog.Logger) *Manager {
	defaults := DefaultConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.JanitorInterval <= 0 {
		config.JanitorInterval = defaults.JanitorInterval
	}
	if config.Location == nil {
		config.Location = defaults.Location
	}
	if config.Now == nil {
		config.Now = defaults.Now
	}

	m := &Manager{
		source:   source,
		config:   config,
		logger:   logger,
		sessions: make(map[string]*Session),
		done:     make(chan struct{}),
	}

	if config.TTL > 0 {
		m.wg.Add(1)
		go m.janitor()
	}

	return m
}

// Get returns the session for id and marks it as seen.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		s.touch(m.config.Now())
	}
	return s, ok
}

// GetOrCreate returns the session for id, creating an unauthenticated one with
// the default selection if needed.
func (m *Manager) GetOrCreate(id string) *Session {
	if s, ok := m.Get(id); ok {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		return s
	}
	now := m.config.Now()
	s := newSession(id, domain.DefaultSelection(now, m.config.Location), now)
	m.sessions[id] = s
	return s
}

// Credentials is a login submission. Nothing is checked against a user store;
// any submission with a non-blank field is accepted.
type Credentials struct {
	MemberID string
	Password string
}

func (c Credentials) Blank() bool {
	return strings.TrimSpace(c.MemberID) == "" && strings.TrimSpace(c.Password) == ""
}

// Login authenticates the session and starts its poller, which fetches at
// once. Logging in an already authenticated session is a no-op. A logout still
// waiting for its poller finishes before Login proceeds.
func (m *Manager) Login(id string, creds Credentials) (*Session, error) {
	if creds.Blank() {
		return nil, domain.ErrEmptyLogin
	}
	// the caller's string may alias a pooled request buffer
	memberID := strings.Clone(strings.TrimSpace(creds.MemberID))

	s := m.GetOrCreate(id)
	s.loginMu.Lock()
	defer s.loginMu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	if !s.authenticate(memberID, cancel, done) {
		cancel()
		return s, nil
	}

	poller := NewPoller(m.source, s, m.logger, m.config.PollInterval)
	go func() {
		defer close(done)
		poller.Run(ctx)
	}()

	m.logger.Info("session authenticated", "session_id", id, "member_id", memberID)
	return s, nil
}

// Logout stops polling for the session and clears its batch. The selection is
// kept. When Logout returns no fetch started under the old login can touch
// the session.
func (m *Manager) Logout(id string) bool {
	s, ok := m.Get(id)
	if !ok {
		return false
	}
	return m.logout(s)
}

func (m *Manager) logout(s *Session) bool {
	s.loginMu.Lock()
	defer s.loginMu.Unlock()

	stop, done := s.deauthenticate()
	if stop == nil {
		return false
	}
	stop()
	<-done

	m.logger.Info("session logged out", "session_id", s.ID())
	return true
}

// ActiveCount returns the number of authenticated sessions.
func (m *Manager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, s := range m.sessions {
		if s.Authenticated() {
			n++
		}
	}
	return n
}

// Stop ends the janitor and every running poller.
func (m *Manager) Stop() {
	m.once.Do(func() {
		close(m.done)
		m.wg.Wait()

		m.mu.Lock()
		sessions := m.sessions
		m.sessions = make(map[string]*Session)
		m.mu.Unlock()

		for _, s := range sessions {
			m.logout(s)
		}
		m.logger.Info("session manager stopped", "sessions", len(sessions))
	})
}

func (m *Manager) janitor() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.config.JanitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.reap()
		}
	}
}

// reap drops sessions idle for longer than the TTL.
func (m *Manager) reap() int {
	now := m.config.Now()

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.idleSince(now) > m.config.TTL {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		snap := s.Snapshot()
		m.logout(s)
		if m.config.OnExpire != nil {
			m.config.OnExpire(snap)
		}
	}
	if len(expired) > 0 {
		m.logger.Info("expired idle sessions", "count", len(expired))
	}
	return len(expired)
}
