package services

import (
	"sync"

	"springboard/internal/core/domain"
)

// StreamingFlag is an observable record of which session of a user is
// currently emitting streaming beacons. It is owned by an external source
// (the notification watcher); the heartbeat subscribes to it and compares
// the recorded origin against its own session, so beacons of the reading
// session never suppress that session.
type StreamingFlag struct {
	mu     sync.Mutex
	origin domain.SessionID
	subs   map[chan domain.SessionID]struct{}
}

func NewStreamingFlag() *StreamingFlag {
	return &StreamingFlag{
		subs: make(map[chan domain.SessionID]struct{}),
	}
}

// Set records origin as the streaming session and wakes subscribers.
// Notifications are coalesced: a slow subscriber sees the latest origin,
// not every intermediate change.
func (f *StreamingFlag) Set(origin domain.SessionID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setLocked(origin)
}

// Clear lowers the flag, but only when the clearing session is the one that
// raised it. An empty origin lowers unconditionally.
func (f *StreamingFlag) Clear(origin domain.SessionID) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if origin != "" && f.origin != origin {
		return
	}
	f.setLocked("")
}

func (f *StreamingFlag) setLocked(origin domain.SessionID) {
	if f.origin == origin {
		return
	}
	f.origin = origin

	for ch := range f.subs {
		select {
		case ch <- origin:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- origin
		}
	}
}

// Origin returns the session currently streaming, empty when nobody is.
func (f *StreamingFlag) Origin() domain.SessionID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.origin
}

// Raised reports whether any session of the user is streaming.
func (f *StreamingFlag) Raised() bool {
	return f.Origin() != ""
}

// OtherThan reports whether a session other than self is streaming. This is
// the suppression predicate the heartbeat acts on.
func (f *StreamingFlag) OtherThan(self domain.SessionID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.origin != "" && f.origin != self
}

// Subscribe returns a change channel and a cancel func. The channel carries
// the origin after each change; callers must re-read the flag for the latest
// state before acting.
func (f *StreamingFlag) Subscribe() (<-chan domain.SessionID, func()) {
	ch := make(chan domain.SessionID, 1)

	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		delete(f.subs, ch)
		f.mu.Unlock()
	}
	return ch, cancel
}

// StreamingFlags hands out one flag per user. Multiple sessions of the same
// user share the flag; distinct users never interfere.
type StreamingFlags struct {
	mu    sync.Mutex
	flags map[domain.UserID]*StreamingFlag
}

func NewStreamingFlags() *StreamingFlags {
	return &StreamingFlags{
		flags: make(map[domain.UserID]*StreamingFlag),
	}
}

func (r *StreamingFlags) For(userID domain.UserID) *StreamingFlag {
	r.mu.Lock()
	defer r.mu.Unlock()

	flag, ok := r.flags[userID]
	if !ok {
		flag = NewStreamingFlag()
		r.flags[userID] = flag
	}
	return flag
}
