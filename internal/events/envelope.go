package events

import (
	"encoding/json"
	"time"
)

type Envelope struct {
	EventName  string          `json:"event_name"`
	StreamType string          `json:"stream_type"`
	StreamID   string          `json:"stream_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}
