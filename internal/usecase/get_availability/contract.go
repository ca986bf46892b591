package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	// ListActiveByCourtAndDate получает активные бронирования корта на дату
	ListActiveByCourtAndDate(ctx context.Context, courtID int64, date time.Time) ([]*domain.Reservation, error)
}

// BlockRepository интерфейс репозитория блокировок слотов
type BlockRepository interface {
	ListActiveByCourtAndDate(ctx context.Context, courtID int64, date time.Time) ([]*domain.Block, error)
}

// CourtDirectory интерфейс каталога кортов
type CourtDirectory interface {
	GetCourt(ctx context.Context, courtID int64) (*domain.Court, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
