package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event is one entry of the dashboard activity journal.
type Event struct {
	ID          string
	SessionID   string
	Trigger     Trigger
	Category    string
	Sales       decimal.Decimal
	Accepted    bool
	DatasetSize int
	At          time.Time
}

// NewEvent describes the outcome of a dashboard update for the journal.
// Rejected adds keep the submitted category; unparseable sales become zero.
func NewEvent(sessionID string, trig Trigger, form Form, accepted bool, datasetSize int) Event {
	e := Event{
		ID:          uuid.NewString(),
		SessionID:   sessionID,
		Trigger:     trig,
		Accepted:    accepted,
		DatasetSize: datasetSize,
		At:          time.Now().UTC(),
	}
	if trig == TriggerAdd {
		e.Category = form.Category
		e.Sales = form.salesOrZero()
	}
	return e
}
