package get_player_reservations

import (
	"context"

	"github.com/m04kA/SMC-CourtScheduler/internal/service/reservations/models"
)

type ReservationService interface {
	ListPlayerReservations(ctx context.Context, req *models.ListPlayerReservationsRequest) (*models.ReservationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
