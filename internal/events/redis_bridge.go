package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// Redis channel prefixes for external consumers (notification, catalog
// dispatch, reporting).
const (
	ChannelPrefixOrder = "channel:order:"
	ChannelPrefixSla   = "channel:sla:"
	ChannelSystem      = "channel:system:events"
)

// RedisBridge mirrors every dispatched event onto Redis Pub/Sub so
// out-of-process consumers receive the same stream the in-process
// subscribers do. It is registered on the bus as a catch-all handler.
type RedisBridge struct {
	client *redis.Client
}

func NewRedisBridge(client *redis.Client) *RedisBridge {
	return &RedisBridge{client: client}
}

func (b *RedisBridge) Handle(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	env := Envelope{
		EventName:  event.Name(),
		StreamType: event.StreamType(),
		StreamID:   event.StreamID().String(),
		OccurredAt: event.At().UTC(),
		Payload:    payload,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, resolveChannel(event), data).Err()
}

func resolveChannel(event Event) string {
	switch event.StreamType() {
	case StreamTypeOrder:
		return ChannelPrefixOrder + event.StreamID().String()
	case StreamTypeSlaClock:
		return ChannelPrefixSla + event.StreamID().String()
	default:
		return ChannelSystem
	}
}
