// Package notifications publishes content events to Redis for downstream consumers.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"time"

	"github.com/redis/go-redis/v9"
)

// Event types published by the application.
const (
	EventPostCreated    = "post.created"
	EventCommentCreated = "comment.created"
	EventFollowCreated  = "follow.created"
)

const channelPrefix = "events:"

// Event is the JSON payload published on an event channel.
type Event struct {
	Type     string    `json:"type"`
	ActorID  uint      `json:"actor_id"`
	PostID   uint      `json:"post_id,omitempty"`
	AuthorID uint      `json:"author_id,omitempty"`
	GroupID  uint      `json:"group_id,omitempty"`
	At       time.Time `json:"at"`
}

// EventChannel returns the Redis channel carrying events of one type.
func EventChannel(eventType string) string {
	return channelPrefix + eventType
}

// Notifier provides helpers to publish events into Redis channels
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Publish sends ev on its type's channel. A nil client makes it a no-op.
func (n *Notifier) Publish(ctx context.Context, ev Event) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return n.rdb.Publish(ctx, EventChannel(ev.Type), payload).Err()
}

// Subscribe listens on every event channel and calls onEvent for each decoded event
// until ctx is cancelled. Malformed payloads are skipped.
func (n *Notifier) Subscribe(ctx context.Context, onEvent func(Event)) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, channelPrefix+"*")
	// Wait for the subscription to be confirmed so no event published after
	// Subscribe returns is missed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe: %w", err)
	}
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
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.Printf("notifications: dropping malformed event on %s: %v", msg.Channel, err)
					continue
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in event subscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onEvent(ev)
				}()
			}
		}
	}()

	return nil
}
