// Package notifications publishes engagement events to Redis channels for
// interested consumers (feeds, digests, moderation tooling).
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/observability"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EngagementEvent describes one completed engagement mutation.
type EngagementEvent struct {
	ID       string               `json:"id"`
	Kind     models.RelationKind  `json:"kind"`
	Outcome  models.ToggleOutcome `json:"outcome"`
	UserID   uint                 `json:"user_id"`
	ObjectID uint                 `json:"object_id"`
	Count    int                  `json:"count"`
	At       time.Time            `json:"at"`
}

// Notifier provides helpers to publish engagement events into Redis channels.
// Publishing is best-effort: a nil client or a failed publish never fails the
// underlying operation.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishEngagement sends the event to the per-object channel and the firehose.
func (n *Notifier) PublishEngagement(ctx context.Context, ev EngagementEvent) {
	if n == nil || n.rdb == nil {
		return
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	channel := fmt.Sprintf("engagement:%s:%d", ev.Kind, ev.ObjectID)
	if err := n.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		observability.Logger.WarnContext(ctx, "engagement event publish failed",
			slog.String("channel", channel), slog.String("error", err.Error()))
		return
	}
	_ = n.rdb.Publish(ctx, "engagement:all", payload).Err()
}

// Subscribe subscribes to all engagement events and calls onEvent for each
// until ctx is done.
func (n *Notifier) Subscribe(ctx context.Context, onEvent func(EngagementEvent)) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, "engagement:all")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev EngagementEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					continue
				}
				onEvent(ev)
			}
		}
	}()

	return nil
}
