package block

import "errors"

var (
	// ErrBlockNotFound возвращается, когда активная блокировка не найдена
	ErrBlockNotFound = errors.New("block.repository: block not found")

	// ErrSlotBlocked возвращается при нарушении уникальности активной блокировки на слот
	ErrSlotBlocked = errors.New("block.repository: slot is already blocked")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("block.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("block.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("block.repository: failed to scan row")
)
