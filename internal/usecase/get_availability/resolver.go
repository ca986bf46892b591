package get_availability

import (
	"time"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
)

// ResolveDay вычисляет статус каждого слота корта на дату.
// Бронь важнее блокировки: если по слоту есть и то и другое, слот считается занятым.
// Роль смотрящего влияет только на список действий, но не на статусы.
func ResolveDay(
	court *domain.Court,
	date time.Time,
	reservations []*domain.Reservation,
	blocks []*domain.Block,
	viewer domain.Viewer,
) domain.DaySlots {
	windows := court.GenerateSlots()

	booked := make(map[domain.SlotWindow]bool, len(reservations))
	for _, r := range reservations {
		if r.IsActive() {
			booked[domain.SlotWindow{Start: r.Start, End: r.End}] = true
		}
	}

	blocked := make(map[domain.SlotWindow]bool, len(blocks))
	for _, b := range blocks {
		if b.IsActive() {
			blocked[domain.SlotWindow{Start: b.Start, End: b.End}] = true
		}
	}

	slots := make([]domain.Slot, 0, len(windows))
	for _, w := range windows {
		status := domain.SlotAvailable
		switch {
		case booked[w]:
			status = domain.SlotBooked
		case blocked[w]:
			status = domain.SlotBlocked
		}

		slots = append(slots, domain.Slot{
			Start:   w.Start,
			End:     w.End,
			Status:  status,
			Actions: viewer.ActionsFor(court, status),
		})
	}

	return domain.DaySlots{Date: date, Slots: slots}
}
