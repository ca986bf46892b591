package cancel_reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrNotOwnerOfBooking возвращается, когда отменить пытается не автор брони
	ErrNotOwnerOfBooking = errors.New("user is not the owner of the reservation")

	// ErrAlreadyCancelled возвращается, когда бронирование уже отменено
	ErrAlreadyCancelled = errors.New("reservation is already cancelled")

	// ErrWindowExpired возвращается, когда окно отмены истекло
	ErrWindowExpired = errors.New("cancellation window has expired")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
