package amqp

import (
	"encoding/json"
	"time"
)

// StateEvent announces one applied command. It carries only the record id
// and amount; consumers needing more read the state themselves.
type StateEvent struct {
	Type        string    `json:"type"`
	ID          int64     `json:"id"`
	AmountCents int64     `json:"amount_cents"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewStateEvent(eventType string, id, amountCents int64) *StateEvent {
	return &StateEvent{
		Type:        eventType,
		ID:          id,
		AmountCents: amountCents,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (m *StateEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// StateEventFromJSON decodes an event body.
func StateEventFromJSON(data []byte) (*StateEvent, error) {
	var msg StateEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
