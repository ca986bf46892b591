package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
	"github.com/m04kA/SMC-CourtScheduler/internal/infra/storage/block"
)

// BlockRepository in-memory репозиторий блокировок.
// Возвращает те же ошибки, что и block.Repository.
type BlockRepository struct {
	store *Store
}

// Create сохраняет активную блокировку, соблюдая уникальность на слот
func (r *BlockRepository) Create(ctx context.Context, b *domain.Block) (*domain.Block, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.blocks {
		if existing.IsActive() && existing.Key().Matches(b.CourtID, b.Date, b.Start, b.End) {
			return nil, fmt.Errorf("%w: %s", block.ErrSlotBlocked, b.Key())
		}
	}

	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}

	s.blocks[b.ID] = *b
	id := b.ID
	onRollback(ctx, func() {
		s.mu.Lock()
		delete(s.blocks, id)
		s.mu.Unlock()
	})

	created := *b
	return &created, nil
}

// GetActiveBySlot получает активную блокировку слота
func (r *BlockRepository) GetActiveBySlot(ctx context.Context, key domain.SlotKey) (*domain.Block, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.blocks {
		if b.IsActive() && key.Matches(b.CourtID, b.Date, b.Start, b.End) {
			found := b
			return &found, nil
		}
	}
	return nil, block.ErrBlockNotFound
}

// ListActiveByCourtAndDate возвращает активные блокировки корта на дату
func (r *BlockRepository) ListActiveByCourtAndDate(ctx context.Context, courtID int64, date time.Time) ([]*domain.Block, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	day := date.Format(domain.DateFormat)
	result := make([]*domain.Block, 0)
	for _, b := range s.blocks {
		b := b
		if b.CourtID == courtID && b.IsActive() && b.Date.Format(domain.DateFormat) == day {
			result = append(result, &b)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Start.IsBefore(result[j].Start)
	})
	return result, nil
}

// Remove снимает блокировку, сохраняя запись в истории
func (r *BlockRepository) Remove(ctx context.Context, id uuid.UUID, removedBy int64, removedAt time.Time) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.blocks[id]
	if !ok || !b.IsActive() {
		return block.ErrBlockNotFound
	}

	prev := b
	at, by := removedAt, removedBy
	b.RemovedAt = &at
	b.RemovedBy = &by
	s.blocks[id] = b

	onRollback(ctx, func() {
		s.mu.Lock()
		s.blocks[id] = prev
		s.mu.Unlock()
	})

	return nil
}
