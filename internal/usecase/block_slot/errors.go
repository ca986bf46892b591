package block_slot

import "errors"

var (
	// ErrCourtNotFound возвращается, когда корт не найден в каталоге
	ErrCourtNotFound = errors.New("court not found")

	// ErrNotOwner возвращается, когда пользователь не владелец корта
	ErrNotOwner = errors.New("user is not the court owner")

	// ErrInvalidSlot возвращается, когда слот не совпадает с сеткой корта или уже начался
	ErrInvalidSlot = errors.New("invalid slot")

	// ErrSlotConflict возвращается, когда слот уже забронирован или заблокирован
	ErrSlotConflict = errors.New("slot is already booked or blocked")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
