package events

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const bridgeChannel = "task-tracker:events"

// envelope wraps an event with its origin instance so the bridge can
// ignore its own messages on the way back in.
type envelope struct {
	Origin string      `json:"origin"`
	Event  ChangeEvent `json:"event"`
}

// RedisBridge relays change events between instances over a Redis pub/sub
// channel. Local fan-out never depends on Redis being reachable; bridge
// failures are logged and the event still reaches local subscribers.
type RedisBridge struct {
	hub      *Hub
	client   *redis.Client
	instance string
	logger   *zap.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewRedisBridge wires the hub to a Redis client.
func NewRedisBridge(hub *Hub, client *redis.Client, logger *zap.Logger) *RedisBridge {
	return &RedisBridge{
		hub:      hub,
		client:   client,
		instance: uuid.NewString(),
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Publish delivers locally, then relays to the other instances.
func (b *RedisBridge) Publish(topic string, event ChangeEvent) {
	b.hub.Publish(topic, event)

	payload, err := json.Marshal(envelope{Origin: b.instance, Event: event})
	if err != nil {
		b.logger.Warn("bridge marshal failed", zap.Error(err))
		return
	}
	if err := b.client.Publish(context.Background(), bridgeChannel, payload).Err(); err != nil {
		b.logger.Warn("bridge publish failed", zap.String("topic", topic), zap.Error(err))
	}
}

// Start launches the relay goroutine that re-injects events published by
// other instances into the local hub.
func (b *RedisBridge) Start(ctx context.Context) {
	ctx, b.cancel = context.WithCancel(ctx)
	pubsub := b.client.Subscribe(ctx, bridgeChannel)

	go func() {
		defer close(b.done)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var env envelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					b.logger.Warn("bridge decode failed", zap.Error(err))
					continue
				}
				if env.Origin == b.instance {
					continue
				}
				b.hub.Publish(env.Event.Topic, env.Event)
			}
		}
	}()
}

// Stop tears the relay down.
func (b *RedisBridge) Stop() {
	if b.cancel == nil {
		return
	}
	b.cancel()
	<-b.done
}
