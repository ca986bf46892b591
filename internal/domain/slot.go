package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtScheduler/pkg/types"
)

// SlotStatus is the resolved status of a slot on a date
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
	SlotBlocked   SlotStatus = "blocked"
)

// SlotAction is an action the viewer may take on a slot
type SlotAction string

const (
	ActionBook    SlotAction = "book"
	ActionBlock   SlotAction = "block"
	ActionUnblock SlotAction = "unblock"
)

// SlotWindow is a generated [Start, End) window of a court day
type SlotWindow struct {
	Start types.TimeString
	End   types.TimeString
}

// Slot is a window with its resolved status. Computed, never stored.
type Slot struct {
	Start   types.TimeString
	End     types.TimeString
	Status  SlotStatus
	Actions []SlotAction
}

// IsAvailable returns true if nothing occupies the slot
func (s *Slot) IsAvailable() bool {
	return s.Status == SlotAvailable
}

// DaySlots is the resolved grid of one date
type DaySlots struct {
	Date  time.Time
	Slots []Slot
}

// CountByStatus returns how many slots of the day have the given status
func (d *DaySlots) CountByStatus(status SlotStatus) int {
	n := 0
	for _, s := range d.Slots {
		if s.Status == status {
			n++
		}
	}
	return n
}

// SlotKey identifies a slot of a court on a date
type SlotKey struct {
	CourtID int64
	Date    time.Time
	Start   types.TimeString
	End     types.TimeString
}

// String is the lock key of the slot, e.g. "court:7|2024-06-01|09:00-10:00"
func (k SlotKey) String() string {
	return fmt.Sprintf("court:%d|%s|%s-%s", k.CourtID, k.Date.Format(DateFormat), k.Start, k.End)
}

// Matches reports whether the stored (date, start, end) refers to this slot
func (k SlotKey) Matches(courtID int64, date time.Time, start, end types.TimeString) bool {
	return k.CourtID == courtID &&
		k.Date.Format(DateFormat) == date.Format(DateFormat) &&
		k.Start == start &&
		k.End == end
}
