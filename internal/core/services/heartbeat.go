package services

import (
	"context"
	"time"

	"springboard/internal/core/domain"
	"springboard/internal/core/ports"

	"go.uber.org/zap"
)

// Heartbeat broadcasts a liveness beacon on the user's own channel so that
// other sessions of the same user can detect a duplicate concurrent stream.
// Beacons carry the emitting session's id; the heartbeat suppresses itself
// only while the flag records a different session as streaming.
type Heartbeat struct {
	interval time.Duration
	session  domain.SessionID
	notifier ports.Notifier
	flag     *StreamingFlag
	logger   *zap.SugaredLogger
}

func NewHeartbeat(interval time.Duration, session domain.SessionID, notifier ports.Notifier, flag *StreamingFlag, logger *zap.SugaredLogger) *Heartbeat {
	return &Heartbeat{
		interval: interval,
		session:  session,
		notifier: notifier,
		flag:     flag,
		logger:   logger,
	}
}

// Run blocks until ctx is cancelled. While no other session is streaming it
// emits one beacon per interval; when a foreign origin appears the ticker is
// discarded entirely, and a fresh interval starts when it goes away again.
func (h *Heartbeat) Run(ctx context.Context, userID domain.UserID) {
	changes, unsubscribe := h.flag.Subscribe()
	defer unsubscribe()

	for {
		if h.flag.OtherThan(h.session) {
			select {
			case <-ctx.Done():
				return
			case <-changes:
				continue
			}
		}

		ticker := time.NewTicker(h.interval)
		suppressed := h.tickLoop(ctx, userID, ticker, changes)
		ticker.Stop()
		if !suppressed {
			return
		}
	}
}

// tickLoop emits beacons until the context ends (returns false) or another
// session starts streaming (returns true, caller waits for it to stop).
func (h *Heartbeat) tickLoop(ctx context.Context, userID domain.UserID, ticker *time.Ticker, changes <-chan domain.SessionID) bool {
	for {
		select {
		case <-ctx.Done():
			return false

		case <-changes:
			if h.flag.OtherThan(h.session) {
				return true
			}

		case <-ticker.C:
			// A tick racing teardown must not broadcast after it.
			if ctx.Err() != nil {
				return false
			}
			if h.flag.OtherThan(h.session) {
				return true
			}
			if err := h.notifier.BroadcastToSelf(ctx, userID, domain.Notification{
				Type:    domain.NotifyStreaming,
				Title:   "Streaming",
				Message: "Streaming",
				Data:    nil,
				Origin:  h.session,
			}); err != nil {
				h.logger.Warnw("heartbeat broadcast failed", "user_id", userID, "error", err)
			}
		}
	}
}
