package domain

import "time"

// Default court schedule, used when the directory supplies no or malformed hours
const (
	DefaultOpeningHour         = 6
	DefaultClosingHour         = 22
	DefaultSlotDurationMinutes = 60
)

// Business validation constants
const (
	MinSlotDurationMinutes = 15
	MaxSlotDurationMinutes = 240
)

// DefaultCancellationWindow free cancellation window after a reservation is created
const DefaultCancellationWindow = 30 * time.Minute

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
