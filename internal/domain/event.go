package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType is the routing key of a scheduling event
type EventType string

const (
	EventReservationBooked    EventType = "reservation.booked"
	EventReservationCancelled EventType = "reservation.cancelled"
	EventSlotBlocked          EventType = "slot.blocked"
	EventSlotUnblocked        EventType = "slot.unblocked"
)

// Event is published after a scheduling change has been committed
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       EventType `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`

	CourtID int64  `json:"courtId"`
	Date    string `json:"date"`
	Start   string `json:"start"`
	End     string `json:"end"`

	// Player for reservation events, owner for block events
	UserID        int64      `json:"userId"`
	ReservationID *uuid.UUID `json:"reservationId,omitempty"`
	BlockID       *uuid.UUID `json:"blockId,omitempty"`
	Amount        *float64   `json:"amount,omitempty"`
}

// NewReservationEvent builds an event about a reservation
func NewReservationEvent(t EventType, r *Reservation, at time.Time) Event {
	id := r.ID
	amount := r.Amount
	return Event{
		ID:            uuid.New(),
		Type:          t,
		OccurredAt:    at,
		CourtID:       r.CourtID,
		Date:          r.Date.Format(DateFormat),
		Start:         r.Start.String(),
		End:           r.End.String(),
		UserID:        r.PlayerID,
		ReservationID: &id,
		Amount:        &amount,
	}
}

// NewBlockEvent builds an event about a block
func NewBlockEvent(t EventType, b *Block, userID int64, at time.Time) Event {
	id := b.ID
	return Event{
		ID:         uuid.New(),
		Type:       t,
		OccurredAt: at,
		CourtID:    b.CourtID,
		Date:       b.Date.Format(DateFormat),
		Start:      b.Start.String(),
		End:        b.End.String(),
		UserID:     userID,
		BlockID:    &id,
	}
}
