package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CourtScheduler/pkg/types"
)

// Block is an owner's hold on a slot making it unbookable.
// Unblocking removes it softly; removed blocks are kept for history.
type Block struct {
	ID        uuid.UUID
	CourtID   int64
	Date      time.Time
	Start     types.TimeString
	End       types.TimeString
	CreatedBy int64
	CreatedAt time.Time
	RemovedAt *time.Time
	RemovedBy *int64
}

// Key returns the slot the block holds
func (b *Block) Key() SlotKey {
	return SlotKey{CourtID: b.CourtID, Date: b.Date, Start: b.Start, End: b.End}
}

// IsActive returns true if the block has not been removed
func (b *Block) IsActive() bool {
	return b.RemovedAt == nil
}
