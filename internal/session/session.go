package session

import (
	"context"
	"sync"
	"time"

	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/domain"
)

// Session holds the state of one operator: login flag, the latest event batch
// and the filter selection. Handlers and the session's own poller are its only
// writers; readers work on snapshots.
type Session struct {
	mu sync.Mutex

	// loginMu serializes login and logout, including the wait for the old
	// poller to exit.
	loginMu sync.Mutex

	id            string
	memberID      string
	authenticated bool
	batch         []domain.Event
	selection     domain.Selection
	lastFetch     time.Time
	lastSeen      time.Time

	// issuedSeq counts fetches handed out; appliedSeq is the newest one whose
	// result is in batch. Results at or below appliedSeq are stale.
	issuedSeq  uint64
	appliedSeq uint64

	stopPoll context.CancelFunc
	pollDone <-chan struct{}
}

// Snapshot is a copy of the session state safe to use without locking.
type Snapshot struct {
	ID            string           `json:"id"`
	MemberID      string           `json:"member_id,omitempty"`
	Authenticated bool             `json:"authenticated"`
	Batch         []domain.Event   `json:"-"`
	Selection     domain.Selection `json:"selection"`
	LastFetch     time.Time        `json:"last_fetch,omitempty"`
}

func newSession(id string, sel domain.Selection, now time.Time) *Session {
	return &Session{
		id:        id,
		selection: sel,
		lastSeen:  now,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := make([]domain.Event, len(s.batch))
	copy(batch, s.batch)

	return Snapshot{
		ID:            s.id,
		MemberID:      s.memberID,
		Authenticated: s.authenticated,
		Batch:         batch,
		Selection:     s.selection,
		LastFetch:     s.lastFetch,
	}
}

func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// ApplySelection validates u against the current selection and stores the
// result. On error the selection is unchanged.
func (s *Session) ApplySelection(u domain.SelectionUpdate) (domain.Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.selection.Apply(u)
	if err != nil {
		return s.selection, err
	}
	s.selection = next
	return next, nil
}

// ReplaceBatch swaps in the result of fetch seq. It reports false and leaves
// the batch alone when the session is logged out or a newer fetch already won.
func (s *Session) ReplaceBatch(seq uint64, events []domain.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.authenticated || seq <= s.appliedSeq || seq > s.issuedSeq {
		return false
	}
	if events == nil {
		events = []domain.Event{}
	}
	s.batch = events
	s.appliedSeq = seq
	s.lastFetch = time.Now()
	return true
}

func (s *Session) nextSeq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issuedSeq++
	return s.issuedSeq
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// authenticate flips the session to logged in and records the poller handle.
// It returns false when the session was already authenticated.
func (s *Session) authenticate(memberID string, stop context.CancelFunc, done <-chan struct{}) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.authenticated {
		return false
	}
	s.authenticated = true
	s.memberID = memberID
	s.batch = nil
	s.appliedSeq = s.issuedSeq
	s.stopPoll = stop
	s.pollDone = done
	return true
}

// deauthenticate logs the session out and invalidates every fetch issued so
// far. The caller must stop and wait on the returned poller handle.
func (s *Session) deauthenticate() (context.CancelFunc, <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stop, done := s.stopPoll, s.pollDone
	s.authenticated = false
	s.memberID = ""
	s.batch = nil
	s.lastFetch = time.Time{}
	s.appliedSeq = s.issuedSeq
	s.stopPoll = nil
	s.pollDone = nil
	return stop, done
}
