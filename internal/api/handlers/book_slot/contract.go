package book_slot

import (
	"context"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
	bookSlot "github.com/m04kA/SMC-CourtScheduler/internal/usecase/book_slot"
)

type BookSlotUseCase interface {
	Execute(ctx context.Context, req *bookSlot.Request) (*domain.Reservation, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
