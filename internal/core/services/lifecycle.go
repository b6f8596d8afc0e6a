package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"springboard/internal/core/domain"
	"springboard/internal/core/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LifecycleState tracks a watch session through its life.
type LifecycleState int32

const (
	StateIdle LifecycleState = iota
	StateLoading
	StateActive
	StateTerminated
)

func (s LifecycleState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateActive:
		return "active"
	case StateTerminated:
		return "terminated"
	}
	return "unknown"
}

// LifecycleController orchestrates watch sessions: activation (publish →
// canonicalize → join room → presence → heartbeat) and guaranteed ordered
// teardown against the activation-time snapshot.
type LifecycleController struct {
	sessionRepo ports.SessionRepository
	presence    ports.PresenceService
	notifier    ports.Notifier
	joiner      *GroupWatchJoiner
	auth        AuthService
	flags       *StreamingFlags

	heartbeatInterval time.Duration
	logger            *zap.SugaredLogger

	mu     sync.Mutex
	active map[domain.SessionID]*WatchSession
}

func NewLifecycleController(
	sessionRepo ports.SessionRepository,
	presence ports.PresenceService,
	notifier ports.Notifier,
	joiner *GroupWatchJoiner,
	auth AuthService,
	flags *StreamingFlags,
	heartbeatInterval time.Duration,
	logger *zap.SugaredLogger,
) *LifecycleController {
	return &LifecycleController{
		sessionRepo:       sessionRepo,
		presence:          presence,
		notifier:          notifier,
		joiner:            joiner,
		auth:              auth,
		flags:             flags,
		heartbeatInterval: heartbeatInterval,
		logger:            logger,
		active:            make(map[domain.SessionID]*WatchSession),
	}
}

// WatchSession is a scoped handle over one activated session. Its Close runs
// the ordered cleanup exactly once, against the user/media snapshot captured
// here at activation, no matter how many times or from where it is called.
type WatchSession struct {
	ID domain.SessionID

	media *domain.PlaybackSession
	room  *domain.RoomRef
	user  domain.UserIdentity

	canonicalLocation string
	startedAt         time.Time

	state           atomic.Int32
	cancelHeartbeat context.CancelFunc
	heartbeatDone   chan struct{}
	closeOnce       sync.Once

	ctrl *LifecycleController
}

func (w *WatchSession) State() LifecycleState {
	return LifecycleState(w.state.Load())
}

func (w *WatchSession) User() domain.UserIdentity {
	return w.user
}

func (w *WatchSession) StartedAt() time.Time {
	return w.startedAt
}

// CanonicalLocation is the shallow-rewrite target recorded at activation,
// empty for frame sessions and room sessions.
func (w *WatchSession) CanonicalLocation() string {
	return w.canonicalLocation
}

// Start activates a session. If replaces names a previous handle (media or
// room changed), it is torn down fully before the new one starts loading.
func (c *LifecycleController) Start(
	ctx context.Context,
	media *domain.PlaybackSession,
	room *domain.RoomRef,
	user domain.UserIdentity,
	replaces domain.SessionID,
) (*WatchSession, error) {
	if media == nil {
		return nil, domain.ErrMediaNotFound
	}

	if replaces != "" {
		if prev, ok := c.take(replaces); ok {
			prev.Close(ctx)
		}
	}

	w := &WatchSession{
		ID:        domain.SessionID(uuid.New().String()),
		media:     media,
		room:      room,
		user:      user,
		startedAt: time.Now(),
		ctrl:      c,
	}
	w.state.Store(int32(StateLoading))

	// Frame sessions require an identity; mint a guest when none exists.
	guestMinted := false
	if media.Frame && (user.UserID == "" || user.UserID == domain.UnknownUser) {
		guest, err := c.auth.SignAsGuest(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to sign in guest: %w", err)
		}
		w.user = *guest
		guestMinted = true
	}

	if !media.Frame && room == nil {
		w.canonicalLocation = "/watch=" + media.Location
	}

	record := &domain.SessionRecord{
		ID:                w.ID,
		UserID:            w.user.UserID,
		Media:             media,
		Room:              room,
		CanonicalLocation: w.canonicalLocation,
		StartedAt:         w.startedAt,
	}
	if err := c.sessionRepo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to publish session: %w", err)
	}

	// A failure past this point leaves no handle behind, so the saved record
	// and any guest minted above must be unwound here.
	discard := func() {
		if err := c.sessionRepo.Delete(ctx, w.ID); err != nil {
			c.logger.Warnw("failed to remove session record after aborted activation", "session_id", w.ID, "error", err)
		}
		if guestMinted {
			if err := c.auth.SignOut(ctx, w.user); err != nil {
				c.logger.Warnw("failed to sign out guest after aborted activation", "session_id", w.ID, "user_id", w.user.UserID, "error", err)
			}
		}
	}

	if err := c.joiner.JoinIfNeeded(ctx, w.user.UserID, room); err != nil {
		// Not retried here; the failure surfaces to the caller.
		discard()
		return nil, err
	}

	if err := c.presence.ModifyPresence(ctx, w.user.UserID, "watching "+media.Name, domain.PresenceMetadata{
		Logo:     media.Logo,
		Name:     media.Name,
		Overview: media.Overview,
		Backdrop: media.Backdrop,
		Poster:   media.Poster,
	}); err != nil {
		discard()
		return nil, fmt.Errorf("failed to set presence: %w", err)
	}

	// Heartbeat outlives the activation request; only Close stops it.
	hbCtx, cancel := context.WithCancel(context.Background())
	w.cancelHeartbeat = cancel
	w.heartbeatDone = make(chan struct{})
	heartbeat := NewHeartbeat(c.heartbeatInterval, w.ID, c.notifier, c.flags.For(w.user.UserID), c.logger)
	go func() {
		defer close(w.heartbeatDone)
		heartbeat.Run(hbCtx, w.user.UserID)
	}()

	w.state.Store(int32(StateActive))
	c.mu.Lock()
	c.active[w.ID] = w
	c.mu.Unlock()

	c.logger.Infow("watch session active",
		"session_id", w.ID,
		"user_id", w.user.UserID,
		"media_id", media.MediaID,
		"frame", media.Frame,
		"room", room != nil,
	)
	return w, nil
}

func (c *LifecycleController) Get(id domain.SessionID) (*WatchSession, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	w, ok := c.active[id]
	return w, ok
}

func (c *LifecycleController) take(id domain.SessionID) (*WatchSession, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	w, ok := c.active[id]
	if ok {
		delete(c.active, id)
	}
	return w, ok
}

// CloseSession tears down a session by id. Unknown ids are a no-op so the
// operation stays idempotent for callers.
func (c *LifecycleController) CloseSession(ctx context.Context, id domain.SessionID) {
	if w, ok := c.take(id); ok {
		w.Close(ctx)
	}
}

// Shutdown tears down every active session, for graceful process exit.
func (c *LifecycleController) Shutdown(ctx context.Context) {
	c.mu.Lock()
	sessions := make([]*WatchSession, 0, len(c.active))
	for _, w := range c.active {
		sessions = append(sessions, w)
	}
	c.active = make(map[domain.SessionID]*WatchSession)
	c.mu.Unlock()

	for _, w := range sessions {
		w.Close(ctx)
	}
}

// Close runs the teardown sequence once and exactly once: stop heartbeat,
// restore presence, broadcast doneStreaming, end the guest identity if the
// snapshot calls for it. Individual step failures are logged and never abort
// the remaining steps.
func (w *WatchSession) Close(ctx context.Context) {
	w.closeOnce.Do(func() {
		// The snapshot taken at activation drives every step below, even if
		// a newer session has already replaced this one.
		media := w.media
		user := w.user

		w.state.Store(int32(StateTerminated))

		// Cleanup must finish even when the triggering request is gone.
		ctx = context.WithoutCancel(ctx)

		if w.cancelHeartbeat != nil {
			w.cancelHeartbeat()
			<-w.heartbeatDone
		}

		c := w.ctrl
		if err := c.presence.RestorePresence(ctx, user.UserID); err != nil {
			c.logger.Warnw("failed to restore presence", "session_id", w.ID, "error", err)
		}

		title := ""
		if media != nil {
			title = media.Name
		}
		if err := c.notifier.BroadcastToSelf(ctx, user.UserID, domain.Notification{
			Type:    domain.NotifyDoneStreaming,
			Title:   title,
			Message: fmt.Sprintf("%s has stopped streaming", user.Session),
			Data:    nil,
			Origin:  w.ID,
		}); err != nil {
			c.logger.Warnw("doneStreaming broadcast failed", "session_id", w.ID, "error", err)
		}

		if user.IsGuest() && media != nil && media.Frame {
			if err := c.auth.SignOut(ctx, user); err != nil {
				c.logger.Warnw("failed to sign out guest", "session_id", w.ID, "user_id", user.UserID, "error", err)
			}
		}

		if err := c.sessionRepo.Delete(ctx, w.ID); err != nil {
			c.logger.Warnw("failed to remove session record", "session_id", w.ID, "error", err)
		}

		c.mu.Lock()
		delete(c.active, w.ID)
		c.mu.Unlock()

		c.logger.Infow("watch session terminated", "session_id", w.ID, "user_id", user.UserID)
	})
}
