package cancel_reservation

import (
	"github.com/google/uuid"
)

// Request модель запроса на отмену бронирования
type Request struct {
	ReservationID uuid.UUID // ID бронирования
	RequesterID   int64     // Кто отменяет, должен совпадать с игроком брони
}
