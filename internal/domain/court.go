package domain

import (
	"github.com/m04kA/SMC-CourtScheduler/pkg/types"
)

// Court is a bookable court as supplied by the court directory
type Court struct {
	ID                  int64
	OwnerID             int64
	Name                string
	Location            string
	PricePerHour        float64
	OpeningHour         int
	ClosingHour         int
	SlotDurationMinutes int
	IsApproved          bool
}

// IsOwnedBy reports whether userID owns the court
func (c *Court) IsOwnedBy(userID int64) bool {
	return c.OwnerID == userID
}

// Schedule returns the effective opening hour, closing hour and slot length.
// A configuration that would not produce at least one slot falls back to the defaults.
func (c *Court) Schedule() (opening, closing, duration int) {
	opening, closing, duration = c.OpeningHour, c.ClosingHour, c.SlotDurationMinutes

	if duration < MinSlotDurationMinutes || duration > MaxSlotDurationMinutes {
		duration = DefaultSlotDurationMinutes
	}

	if opening < 0 || closing > 24 || opening >= closing || (closing-opening)*60 < duration {
		return DefaultOpeningHour, DefaultClosingHour, DefaultSlotDurationMinutes
	}

	return opening, closing, duration
}

// GenerateSlots returns the ordered slot windows of one operating day.
// The last window ends at or before the closing hour; a trailing partial window is dropped.
// The result depends only on the court schedule, so it is the same for every date.
func (c *Court) GenerateSlots() []SlotWindow {
	opening, closing, duration := c.Schedule()

	slots := make([]SlotWindow, 0, (closing-opening)*60/duration)
	for start := opening * 60; start+duration <= closing*60; start += duration {
		// ошибки невозможны: границы проверены в Schedule
		from, _ := types.NewTimeStringFromMinutes(start)
		to, _ := types.NewTimeStringFromMinutes(start + duration)
		slots = append(slots, SlotWindow{Start: from, End: to})
	}

	return slots
}

// HasSlot reports whether (start, end) is exactly one of the generated windows
func (c *Court) HasSlot(start, end types.TimeString) bool {
	for _, w := range c.GenerateSlots() {
		if w.Start == start && w.End == end {
			return true
		}
	}
	return false
}

// SlotHours returns the duration of one slot in hours
func (c *Court) SlotHours() float64 {
	_, _, duration := c.Schedule()
	return float64(duration) / 60
}
