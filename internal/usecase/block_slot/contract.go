package block_slot

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetActiveBySlot(ctx context.Context, key domain.SlotKey) (*domain.Reservation, error)
}

// BlockRepository интерфейс репозитория блокировок слотов
type BlockRepository interface {
	Create(ctx context.Context, b *domain.Block) (*domain.Block, error)
	GetActiveBySlot(ctx context.Context, key domain.SlotKey) (*domain.Block, error)
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
