package distributed

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"springboard/internal/core/domain"
	"springboard/internal/core/ports"
	"springboard/internal/core/services"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const notifyChannelPrefix = "springboard:notify:"

// envelope is the wire form of a notification. InstanceID names the emitting
// process for diagnostics; duplicate-stream detection runs on the session id
// carried inside the note itself.
type envelope struct {
	InstanceID string              `json:"instance_id"`
	Timestamp  time.Time           `json:"timestamp"`
	Note       domain.Notification `json:"note"`
}

// RedisNotifier fans notifications out over a per-user pub/sub channel so
// every instance serving that user sees them.
type RedisNotifier struct {
	client     *redis.Client
	instanceID string
	logger     *zap.SugaredLogger
}

func NewRedisNotifier(client *redis.Client, instanceID string, logger *zap.SugaredLogger) *RedisNotifier {
	return &RedisNotifier{
		client:     client,
		instanceID: instanceID,
		logger:     logger,
	}
}

var _ ports.Notifier = (*RedisNotifier)(nil)

func channelFor(userID domain.UserID) string {
	return notifyChannelPrefix + string(userID)
}

func (n *RedisNotifier) BroadcastToSelf(ctx context.Context, userID domain.UserID, note domain.Notification) error {
	data, err := json.Marshal(envelope{
		InstanceID: n.instanceID,
		Timestamp:  time.Now(),
		Note:       note,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if err := n.client.Publish(ctx, channelFor(userID), data).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

// StreamingWatcher listens to every user's notification channel and keeps
// the per-user streaming flags in sync: a streaming beacon records its
// origin session on the flag, a doneStreaming from that session lowers it.
// A session on the same instance is still a duplicate, so no beacon is
// filtered here; each heartbeat compares the recorded origin to its own.
type StreamingWatcher struct {
	client *redis.Client
	flags  *services.StreamingFlags
	logger *zap.SugaredLogger

	pubsub *redis.PubSub
}

func NewStreamingWatcher(client *redis.Client, flags *services.StreamingFlags, logger *zap.SugaredLogger) *StreamingWatcher {
	return &StreamingWatcher{
		client: client,
		flags:  flags,
		logger: logger,
	}
}

// Start subscribes and consumes until ctx is done.
func (w *StreamingWatcher) Start(ctx context.Context) error {
	w.pubsub = w.client.PSubscribe(ctx, notifyChannelPrefix+"*")

	if _, err := w.pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to notification channels: %w", err)
	}

	go w.consume(ctx)
	return nil
}

func (w *StreamingWatcher) consume(ctx context.Context) {
	ch := w.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			w.handle(msg)
		}
	}
}

func (w *StreamingWatcher) handle(msg *redis.Message) {
	userID := domain.UserID(strings.TrimPrefix(msg.Channel, notifyChannelPrefix))

	var env envelope
	if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
		w.logger.Warnw("dropping malformed notification", "channel", msg.Channel, "error", err)
		return
	}

	switch env.Note.Type {
	case domain.NotifyStreaming:
		w.flags.For(userID).Set(env.Note.Origin)
	case domain.NotifyDoneStreaming:
		w.flags.For(userID).Clear(env.Note.Origin)
	}
}

// Stop closes the subscription.
func (w *StreamingWatcher) Stop() error {
	if w.pubsub != nil {
		return w.pubsub.Close()
	}
	return nil
}

// LocalNotifier is the single-instance stand-in used when Redis is not
// configured. Notifications still drive the streaming flags the same way
// the watcher does, so two concurrent sessions of one user suppress each
// other even without a broker.
type LocalNotifier struct {
	flags  *services.StreamingFlags
	logger *zap.SugaredLogger
}

func NewLocalNotifier(flags *services.StreamingFlags, logger *zap.SugaredLogger) *LocalNotifier {
	return &LocalNotifier{
		flags:  flags,
		logger: logger,
	}
}

var _ ports.Notifier = (*LocalNotifier)(nil)

func (n *LocalNotifier) BroadcastToSelf(ctx context.Context, userID domain.UserID, note domain.Notification) error {
	switch note.Type {
	case domain.NotifyStreaming:
		n.flags.For(userID).Set(note.Origin)
	case domain.NotifyDoneStreaming:
		n.flags.For(userID).Clear(note.Origin)
	}

	n.logger.Debugw("notification",
		"user_id", userID,
		"type", note.Type,
		"title", note.Title,
		"origin", note.Origin,
	)
	return nil
}
