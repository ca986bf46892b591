package unblock_slot

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
)

// BlockRepository интерфейс репозитория блокировок слотов
type BlockRepository interface {
	GetActiveBySlot(ctx context.Context, key domain.SlotKey) (*domain.Block, error)
	Remove(ctx context.Context, id uuid.UUID, removedBy int64, removedAt time.Time) error
}

// SlotLocker берёт блокировку слота до конца текущей транзакции
type SlotLocker interface {
	LockSlot(ctx context.Context, key domain.SlotKey) error
}

// CourtDirectory интерфейс каталога кортов
type CourtDirectory interface {
	GetCourt(ctx context.Context, courtID int64) (*domain.Court, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier публикует события после фиксации транзакции
type Notifier interface {
	Publish(ctx context.Context, event domain.Event) error
}

// Metrics счетчики операций со слотами
type Metrics interface {
	ObserveSlotOperation(operation, outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
