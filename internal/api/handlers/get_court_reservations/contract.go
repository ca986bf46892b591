package get_court_reservations

import (
	"context"

	"github.com/m04kA/SMC-CourtScheduler/internal/service/reservations/models"
)

type ReservationService interface {
	ListCourtReservations(ctx context.Context, req *models.ListCourtReservationsRequest) (*models.CourtReservationsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
