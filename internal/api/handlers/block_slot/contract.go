package block_slot

import (
	"context"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
	blockSlot "github.com/m04kA/SMC-CourtScheduler/internal/usecase/block_slot"
)

type BlockSlotUseCase interface {
	Execute(ctx context.Context, req *blockSlot.Request) (*domain.Block, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
