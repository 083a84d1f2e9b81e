package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/domain"
)

// EventSource fetches the latest event batch from upstream.
type EventSource interface {
	FetchEvents(ctx context.Context) ([]domain.Event, error)
}

// Poller refreshes one session's batch on a fixed interval.
type Poller struct {
	source   EventSource
	session  *Session
	logger   *slog.Logger
	interval time.Duration
}

func NewPoller(source EventSource, s *Session, logger *slog.Logger, interval time.Duration) *Poller {
	return &Poller{
		source:   source,
		session:  s,
		logger:   logger.With("session_id", s.ID()),
		interval: interval,
	}
}

// Run fetches once immediately and then on every tick until ctx is done. Each
// tick cancels the fetch still in flight from the previous one. Run returns
// only after the last fetch has finished.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var (
		wg     sync.WaitGroup
		cancel context.CancelFunc = func() {}
	)
	defer func() {
		cancel()
		wg.Wait()
	}()

	start := func() {
		cancel()
		var fetchCtx context.Context
		fetchCtx, cancel = context.WithCancel(ctx)
		seq := p.session.nextSeq()

		wg.Add(1)
		go func() {
			defer wg.Done()
			p.fetch(fetchCtx, seq)
		}()
	}

	p.logger.Info("event poller started", "interval", p.interval)
	start()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("event poller stopped")
			return
		case <-ticker.C:
			start()
		}
	}
}

func (p *Poller) fetch(ctx context.Context, seq uint64) {
	events, err := p.source.FetchEvents(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			p.logger.Debug("event fetch cancelled", "seq", seq)
			return
		}
		p.logger.Error("failed to fetch events", "error", err, "seq", seq)
		return
	}

	if !p.session.ReplaceBatch(seq, events) {
		p.logger.Debug("discarded stale event batch", "seq", seq)
		return
	}
	p.logger.Debug("event batch replaced", "seq", seq, "events", len(events))
}
