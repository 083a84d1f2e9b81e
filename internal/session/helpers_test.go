package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dist(m float64) *float64 { return &m }

func sampleEvents(n int) []domain.Event {
	events := make([]domain.Event, n)
	for i := range events {
		events[i] = domain.Event{
			TimestampMs: 1714539600000 + int64(i)*1000,
			Floor:       "3F",
			Person:      "A (S1)",
			AnchorID:    "AX1",
			Distance:    dist(1.5),
			Level:       "safe",
		}
	}
	return events
}

// MockEventSource is a testify mock for EventSource.
type MockEventSource struct {
	mock.Mock
}

func (m *MockEventSource) FetchEvents(ctx context.Context) ([]domain.Event, error) {
	args := m.Called(ctx)
	events, _ := args.Get(0).([]domain.Event)
	return events, args.Error(1)
}

// funcSource answers fetch n (starting at 1) with fn.
type funcSource struct {
	calls atomic.Int32
	fn    func(ctx context.Context, n int) ([]domain.Event, error)
}

func (s *funcSource) FetchEvents(ctx context.Context) ([]domain.Event, error) {
	n := int(s.calls.Add(1))
	return s.fn(ctx, n)
}

func (s *funcSource) Calls() int {
	return int(s.calls.Load())
}

func constSource(events []domain.Event) *funcSource {
	return &funcSource{fn: func(context.Context, int) ([]domain.Event, error) {
		return events, nil
	}}
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// loggedIn returns a session that accepts batches without a running poller.
func loggedIn(id string) *Session {
	s := newSession(id, domain.Selection{Floor: domain.MatchAll, Person: domain.MatchAll, Date: "2024-05-01", Level: domain.MatchAll}, time.Now())
	s.authenticate("member", func() {}, make(chan struct{}))
	return s
}
