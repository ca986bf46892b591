package courtdirectory

import "errors"

var (
	// ErrCourtNotFound возвращается, когда корт не найден в каталоге
	ErrCourtNotFound = errors.New("courtdirectory: court not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("courtdirectory client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("courtdirectory client: invalid response")

	// ErrInvalidCatalog возвращается при некорректном файле каталога
	ErrInvalidCatalog = errors.New("courtdirectory: invalid catalog file")
)
