package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CourtScheduler/pkg/types"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	ReservationBooked    ReservationStatus = "booked"
	ReservationCancelled ReservationStatus = "cancelled"
)

// IsValid reports whether s is a known status
func (s ReservationStatus) IsValid() bool {
	return s == ReservationBooked || s == ReservationCancelled
}

// Reservation is a player's booking of one slot. Never hard-deleted.
type Reservation struct {
	ID       uuid.UUID
	CourtID  int64
	PlayerID int64
	Date     time.Time
	Start    types.TimeString
	End      types.TimeString
	Status   ReservationStatus

	// Price snapshot at booking time
	PricePerHour float64
	Amount       float64

	CreatedAt   time.Time
	CancelledAt *time.Time
}

// Key returns the slot the reservation occupies
func (r *Reservation) Key() SlotKey {
	return SlotKey{CourtID: r.CourtID, Date: r.Date, Start: r.Start, End: r.End}
}

// IsActive returns true if the reservation still occupies its slot
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationBooked
}

// IsCancelled returns true if the reservation has been cancelled
func (r *Reservation) IsCancelled() bool {
	return r.Status == ReservationCancelled
}

// IsWithinCancellationWindow reports whether now - CreatedAt <= window
func (r *Reservation) IsWithinCancellationWindow(now time.Time, window time.Duration) bool {
	return now.Sub(r.CreatedAt) <= window
}

// IsExpired reports whether an active reservation's slot has already ended
func (r *Reservation) IsExpired(now time.Time, loc *time.Location) bool {
	return r.IsActive() && !r.End.On(r.Date, loc).After(now)
}

// CourtReservationsFilter фильтр бронирований корта
type CourtReservationsFilter struct {
	CourtID          int64      // Обязательный параметр
	From             *time.Time // Начало периода (включительно), nil - без ограничения
	To               *time.Time // Конец периода (включительно), nil - без ограничения
	IncludeCancelled bool       // Включать ли отменённые бронирования
}
