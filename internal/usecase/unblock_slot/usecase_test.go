package unblock_slot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
	"github.com/m04kA/SMC-CourtScheduler/internal/infra/storage/memory"
	"github.com/m04kA/SMC-CourtScheduler/internal/integrations/courtdirectory"
	"github.com/m04kA/SMC-CourtScheduler/internal/integrations/notifier"
	"github.com/m04kA/SMC-CourtScheduler/pkg/logger"
	"github.com/m04kA/SMC-CourtScheduler/pkg/metrics"
)

var (
	day = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	now = time.Date(2024, 5, 31, 12, 0, 0, 0, time.UTC)
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

func newUseCase(store *memory.Store) *UseCase {
	courts := courtdirectory.NewStatic([]domain.Court{
		{ID: 7, OwnerID: 10, Name: "Center Court", OpeningHour: 6, ClosingHour: 22, SlotDurationMinutes: 60, IsApproved: true},
	})
	return NewUseCase(
		store.Blocks(),
		store.SlotLocks(),
		courts,
		store.TxManager(),
		notifier.Noop{},
		(*metrics.Metrics)(nil),
		logger.NewNop(),
	).WithTimeProvider(fixedTime{now})
}

func seedBlock(t *testing.T, store *memory.Store) *domain.Block {
	t.Helper()
	b, err := store.Blocks().Create(context.Background(), &domain.Block{
		CourtID: 7, Date: day, Start: "09:00", End: "10:00", CreatedBy: 10,
	})
	require.NoError(t, err)
	return b
}

func TestExecute_Success(t *testing.T) {
	store := memory.NewStore()
	seedBlock(t, store)

	err := newUseCase(store).Execute(context.Background(), &Request{
		OwnerID: 10, CourtID: 7, Date: day, Start: "9:00", End: "10:00",
	})
	require.NoError(t, err)

	active, err := store.Blocks().ListActiveByCourtAndDate(context.Background(), 7, day)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestExecute_Errors(t *testing.T) {
	store := memory.NewStore()
	seedBlock(t, store)
	uc := newUseCase(store)

	tests := []struct {
		name string
		req  *Request
		err  error
	}{
		{"not the owner", &Request{OwnerID: 11, CourtID: 7, Date: day, Start: "09:00", End: "10:00"}, ErrNotOwner},
		{"not blocked", &Request{OwnerID: 10, CourtID: 7, Date: day, Start: "10:00", End: "11:00"}, ErrBlockNotFound},
		{"not a slot", &Request{OwnerID: 10, CourtID: 7, Date: day, Start: "10:00", End: "10:30"}, ErrInvalidSlot},
		{"unknown court", &Request{OwnerID: 10, CourtID: 99, Date: day, Start: "09:00", End: "10:00"}, ErrCourtNotFound},
		{"malformed time", &Request{OwnerID: 10, CourtID: 7, Date: day, Start: "nine", End: "10:00"}, ErrInvalidSlot},
		{"missing date", &Request{OwnerID: 10, CourtID: 7, Start: "09:00", End: "10:00"}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, uc.Execute(context.Background(), tt.req), tt.err)
		})
	}

	// блокировка осталась на месте
	_, err := store.Blocks().GetActiveBySlot(context.Background(), domain.SlotKey{CourtID: 7, Date: day, Start: "09:00", End: "10:00"})
	assert.NoError(t, err)
}

func TestExecute_SecondUnblockNotFound(t *testing.T) {
	store := memory.NewStore()
	seedBlock(t, store)
	uc := newUseCase(store)

	req := func() *Request {
		return &Request{OwnerID: 10, CourtID: 7, Date: day, Start: "09:00", End: "10:00"}
	}

	require.NoError(t, uc.Execute(context.Background(), req()))
	assert.ErrorIs(t, uc.Execute(context.Background(), req()), ErrBlockNotFound)
}
