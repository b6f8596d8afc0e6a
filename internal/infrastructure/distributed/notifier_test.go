package distributed

import (
	"context"
	"sync"
	"testing"
	"time"

	"springboard/internal/core/domain"
	"springboard/internal/core/services"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLocalNotifier_StreamingBeaconRaisesFlag(t *testing.T) {
	flags := services.NewStreamingFlags()
	notifier := NewLocalNotifier(flags, zap.NewNop().Sugar())

	err := notifier.BroadcastToSelf(context.Background(), "u1", domain.Notification{
		Type:   domain.NotifyStreaming,
		Origin: "s1",
	})
	assert.NoError(t, err)

	// Foreign sessions of the same user see the flag; the emitter does not.
	assert.True(t, flags.For("u1").OtherThan("s2"))
	assert.False(t, flags.For("u1").OtherThan("s1"))
	assert.False(t, flags.For("u2").Raised())
}

func TestLocalNotifier_DoneStreamingLowersOwnRaiseOnly(t *testing.T) {
	flags := services.NewStreamingFlags()
	notifier := NewLocalNotifier(flags, zap.NewNop().Sugar())
	ctx := context.Background()

	assert.NoError(t, notifier.BroadcastToSelf(ctx, "u1", domain.Notification{Type: domain.NotifyStreaming, Origin: "s1"}))

	// A suppressed session closing must not lower the active session's flag.
	assert.NoError(t, notifier.BroadcastToSelf(ctx, "u1", domain.Notification{Type: domain.NotifyDoneStreaming, Origin: "s2"}))
	assert.True(t, flags.For("u1").Raised())

	assert.NoError(t, notifier.BroadcastToSelf(ctx, "u1", domain.Notification{Type: domain.NotifyDoneStreaming, Origin: "s1"}))
	assert.False(t, flags.For("u1").Raised())
}

// countingNotifier wraps the local notifier and tallies streaming beacons
// per origin session.
type countingNotifier struct {
	inner *LocalNotifier

	mu      sync.Mutex
	beacons map[domain.SessionID]int
}

func (n *countingNotifier) BroadcastToSelf(ctx context.Context, userID domain.UserID, note domain.Notification) error {
	if note.Type == domain.NotifyStreaming {
		n.mu.Lock()
		n.beacons[note.Origin]++
		n.mu.Unlock()
	}
	return n.inner.BroadcastToSelf(ctx, userID, note)
}

func (n *countingNotifier) count(origin domain.SessionID) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.beacons[origin]
}

func TestLocalNotifier_ConcurrentSessionsSuppressEachOther(t *testing.T) {
	flags := services.NewStreamingFlags()
	notifier := &countingNotifier{
		inner:   NewLocalNotifier(flags, zap.NewNop().Sugar()),
		beacons: make(map[domain.SessionID]int),
	}
	log := zap.NewNop().Sugar()

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	first := services.NewHeartbeat(10*time.Millisecond, "s1", notifier, flags.For("u1"), log)
	wg.Add(1)
	go func() {
		defer wg.Done()
		first.Run(ctx, "u1")
	}()

	// Let the first session establish itself before the second starts.
	time.Sleep(50 * time.Millisecond)
	assert.Greater(t, notifier.count("s1"), 0)

	second := services.NewHeartbeat(10*time.Millisecond, "s2", notifier, flags.For("u1"), log)
	wg.Add(1)
	go func() {
		defer wg.Done()
		second.Run(ctx, "u1")
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()
	wg.Wait()

	// The second session observed the first one's beacons and never emitted.
	assert.Equal(t, 0, notifier.count("s2"))
	assert.True(t, flags.For("u1").Raised())
}

func TestStreamingWatcher_HandleTracksOrigins(t *testing.T) {
	flags := services.NewStreamingFlags()
	watcher := NewStreamingWatcher(nil, flags, zap.NewNop().Sugar())

	watcher.handle(&goredis.Message{
		Channel: notifyChannelPrefix + "u1",
		Payload: `{"instance_id":"i1","note":{"type":"streaming","origin":"s1"}}`,
	})
	assert.True(t, flags.For("u1").OtherThan("s2"))
	assert.False(t, flags.For("u1").OtherThan("s1"))

	// A done from another session leaves the flag up.
	watcher.handle(&goredis.Message{
		Channel: notifyChannelPrefix + "u1",
		Payload: `{"instance_id":"i2","note":{"type":"doneStreaming","origin":"s2"}}`,
	})
	assert.True(t, flags.For("u1").Raised())

	watcher.handle(&goredis.Message{
		Channel: notifyChannelPrefix + "u1",
		Payload: `{"instance_id":"i1","note":{"type":"doneStreaming","origin":"s1"}}`,
	})
	assert.False(t, flags.For("u1").Raised())
}

func TestStreamingWatcher_DropsMalformedPayload(t *testing.T) {
	flags := services.NewStreamingFlags()
	watcher := NewStreamingWatcher(nil, flags, zap.NewNop().Sugar())

	watcher.handle(&goredis.Message{
		Channel: notifyChannelPrefix + "u1",
		Payload: "not json",
	})
	assert.False(t, flags.For("u1").Raised())
}
