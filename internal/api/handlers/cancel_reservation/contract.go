package cancel_reservation

import (
	"context"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
	cancelReservation "github.com/m04kA/SMC-CourtScheduler/internal/usecase/cancel_reservation"
)

type CancelReservationUseCase interface {
	Execute(ctx context.Context, req *cancelReservation.Request) (*domain.Reservation, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
