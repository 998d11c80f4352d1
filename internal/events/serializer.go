package events

import (
	"encoding/json"
	"fmt"

	clearcheck_errors "clearcheck/pkg/errors"
)

// Deserialize reconstructs a typed event from its stored name and payload.
// The event set is closed; an unknown name is a permanent failure the
// dispatch loop must not retry forever without logging.
func Deserialize(eventName string, payload []byte) (Event, error) {
	switch eventName {
	case EventOrderCreated:
		var e OrderCreated
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, err
		}
		return e, nil
	case EventOrderStatusChanged:
		var e OrderStatusChanged
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, err
		}
		return e, nil
	case EventSlaClockStarted:
		var e SlaClockStarted
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, err
		}
		return e, nil
	case EventSlaClockPaused:
		var e SlaClockPaused
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, err
		}
		return e, nil
	case EventSlaClockResumed:
		var e SlaClockResumed
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, err
		}
		return e, nil
	case EventSlaClockAtRisk:
		var e SlaClockAtRisk
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, err
		}
		return e, nil
	case EventSlaClockBreached:
		var e SlaClockBreached
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, err
		}
		return e, nil
	case EventSlaClockCompleted:
		var e SlaClockCompleted
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, err
		}
		return e, nil
	}
	return nil, fmt.Errorf("%w: %s", clearcheck_errors.ErrUnknownEvent, eventName)
}
