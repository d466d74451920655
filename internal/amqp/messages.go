package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"salesdash/internal/core"
)

// ActivityMessage carries one dashboard activity event to the journal worker.
type ActivityMessage struct {
	EventID     string          `json:"event_id"`
	SessionID   string          `json:"session_id"`
	Trigger     string          `json:"trigger"`
	Category    string          `json:"category,omitempty"`
	Sales       decimal.Decimal `json:"sales"`
	Accepted    bool            `json:"accepted"`
	DatasetSize int             `json:"dataset_size"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Timestamp   time.Time       `json:"timestamp"`
}

// NewActivityMessage wraps an event for publishing
func NewActivityMessage(e core.Event) *ActivityMessage {
	return &ActivityMessage{
		EventID:     e.ID,
		SessionID:   e.SessionID,
		Trigger:     e.Trigger.String(),
		Category:    e.Category,
		Sales:       e.Sales,
		Accepted:    e.Accepted,
		DatasetSize: e.DatasetSize,
		OccurredAt:  e.At,
		Timestamp:   time.Now(),
	}
}

// Event converts the message back into a journal event
func (m *ActivityMessage) Event() (core.Event, error) {
	if m.EventID == "" {
		return core.Event{}, errors.New("activity message without event_id")
	}
	return core.Event{
		ID:          m.EventID,
		SessionID:   m.SessionID,
		Trigger:     core.ParseTrigger(m.Trigger),
		Category:    m.Category,
		Sales:       m.Sales,
		Accepted:    m.Accepted,
		DatasetSize: m.DatasetSize,
		At:          m.OccurredAt,
	}, nil
}

// ToJSON converts the message to JSON bytes
func (m *ActivityMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ActivityMessageFromJSON creates a message from JSON bytes
func ActivityMessageFromJSON(data []byte) (*ActivityMessage, error) {
	var msg ActivityMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
