package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
	"github.com/m04kA/SMC-CourtScheduler/internal/infra/storage/reservation"
)

// ReservationRepository in-memory репозиторий бронирований.
// Возвращает те же ошибки, что и reservation.Repository.
type ReservationRepository struct {
	store *Store
}

// Create сохраняет бронирование, соблюдая уникальность активной брони на слот
func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if res.Status == domain.ReservationBooked {
		for _, existing := range s.reservations {
			if existing.IsActive() && existing.Key().Matches(res.CourtID, res.Date, res.Start, res.End) {
				return nil, fmt.Errorf("%w: %s", reservation.ErrSlotTaken, res.Key())
			}
		}
	}

	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now()
	}

	s.reservations[res.ID] = *res
	id := res.ID
	onRollback(ctx, func() {
		s.mu.Lock()
		delete(s.reservations, id)
		s.mu.Unlock()
	})

	created := *res
	return &created, nil
}

// GetByID получает бронирование по ID
func (r *ReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.reservations[id]
	if !ok {
		return nil, reservation.ErrReservationNotFound
	}
	return &res, nil
}

// GetActiveBySlot получает активное бронирование слота
func (r *ReservationRepository) GetActiveBySlot(ctx context.Context, key domain.SlotKey) (*domain.Reservation, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, res := range s.reservations {
		if res.IsActive() && key.Matches(res.CourtID, res.Date, res.Start, res.End) {
			found := res
			return &found, nil
		}
	}
	return nil, reservation.ErrReservationNotFound
}

// ListActiveByCourtAndDate возвращает активные бронирования корта на дату
func (r *ReservationRepository) ListActiveByCourtAndDate(ctx context.Context, courtID int64, date time.Time) ([]*domain.Reservation, error) {
	day := date.Format(domain.DateFormat)

	return r.list(func(res *domain.Reservation) bool {
		return res.CourtID == courtID && res.IsActive() && res.Date.Format(domain.DateFormat) == day
	}, false), nil
}

// ListByPlayer возвращает бронирования игрока, новые сначала
func (r *ReservationRepository) ListByPlayer(ctx context.Context, playerID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	return r.list(func(res *domain.Reservation) bool {
		return res.PlayerID == playerID && (status == nil || res.Status == *status)
	}, true), nil
}

// ListByCourt возвращает бронирования корта за период
func (r *ReservationRepository) ListByCourt(ctx context.Context, filter domain.CourtReservationsFilter) ([]*domain.Reservation, error) {
	return r.list(func(res *domain.Reservation) bool {
		if res.CourtID != filter.CourtID {
			return false
		}
		if filter.From != nil && res.Date.Before(*filter.From) {
			return false
		}
		if filter.To != nil && res.Date.After(*filter.To) {
			return false
		}
		return filter.IncludeCancelled || res.IsActive()
	}, false), nil
}

// Cancel переводит активное бронирование в статус cancelled
func (r *ReservationRepository) Cancel(ctx context.Context, id uuid.UUID, cancelledAt time.Time) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.reservations[id]
	if !ok || !res.IsActive() {
		return reservation.ErrNotActive
	}

	prev := res
	res.Status = domain.ReservationCancelled
	at := cancelledAt
	res.CancelledAt = &at
	s.reservations[id] = res

	onRollback(ctx, func() {
		s.mu.Lock()
		s.reservations[id] = prev
		s.mu.Unlock()
	})

	return nil
}

func (r *ReservationRepository) list(match func(res *domain.Reservation) bool, desc bool) []*domain.Reservation {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Reservation, 0)
	for _, res := range s.reservations {
		res := res
		if match(&res) {
			result = append(result, &res)
		}
	}

	sortReservations(result, desc)
	return result
}
