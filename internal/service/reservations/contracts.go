package reservations

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)
	ListByPlayer(ctx context.Context, playerID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error)
	ListByCourt(ctx context.Context, filter domain.CourtReservationsFilter) ([]*domain.Reservation, error)
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

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
