// Package memory keeps reservations and blocks in process memory.
// It mirrors the PostgreSQL repositories, including the one-active-row-per-slot
// uniqueness and transaction-scoped slot locks, and is used for local runs and tests.
package memory

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
	"github.com/m04kA/SMC-CourtScheduler/pkg/keylock"
)

// Store общее хранилище данных in-memory драйвера
type Store struct {
	mu           sync.RWMutex
	reservations map[uuid.UUID]domain.Reservation
	blocks       map[uuid.UUID]domain.Block
	locks        *keylock.Locker
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		reservations: make(map[uuid.UUID]domain.Reservation),
		blocks:       make(map[uuid.UUID]domain.Block),
		locks:        keylock.New(),
	}
}

// Reservations репозиторий бронирований поверх хранилища
func (s *Store) Reservations() *ReservationRepository {
	return &ReservationRepository{store: s}
}

// Blocks репозиторий блокировок поверх хранилища
func (s *Store) Blocks() *BlockRepository {
	return &BlockRepository{store: s}
}

// SlotLocks блокировки слотов поверх хранилища
func (s *Store) SlotLocks() *SlotLockRepository {
	return &SlotLockRepository{store: s}
}

// TxManager менеджер транзакций in-memory драйвера
func (s *Store) TxManager() *TxManager {
	return &TxManager{}
}

func sortReservations(list []*domain.Reservation, desc bool) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.Date.Equal(b.Date) {
			if desc {
				return a.Date.After(b.Date)
			}
			return a.Date.Before(b.Date)
		}
		if desc {
			return a.Start.IsAfter(b.Start)
		}
		return a.Start.IsBefore(b.Start)
	})
}
