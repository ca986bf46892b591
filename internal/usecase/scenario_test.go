package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
	"github.com/m04kA/SMC-CourtScheduler/internal/infra/storage/memory"
	"github.com/m04kA/SMC-CourtScheduler/internal/integrations/courtdirectory"
	"github.com/m04kA/SMC-CourtScheduler/internal/integrations/notifier"
	"github.com/m04kA/SMC-CourtScheduler/internal/usecase/block_slot"
	"github.com/m04kA/SMC-CourtScheduler/internal/usecase/book_slot"
	"github.com/m04kA/SMC-CourtScheduler/internal/usecase/cancel_reservation"
	"github.com/m04kA/SMC-CourtScheduler/internal/usecase/get_availability"
	"github.com/m04kA/SMC-CourtScheduler/internal/usecase/unblock_slot"
	"github.com/m04kA/SMC-CourtScheduler/pkg/logger"
	"github.com/m04kA/SMC-CourtScheduler/pkg/metrics"
	"github.com/m04kA/SMC-CourtScheduler/pkg/types"
)

const (
	courtID  = int64(7)
	ownerID  = int64(10)
	playerID = int64(42)
)

var day = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

type engine struct {
	store        *memory.Store
	clock        *clock
	availability *get_availability.UseCase
	book         *book_slot.UseCase
	block        *block_slot.UseCase
	unblock      *unblock_slot.UseCase
	cancel       *cancel_reservation.UseCase
}

func newEngine() *engine {
	store := memory.NewStore()
	log := logger.NewNop()
	m := metrics.NewWithRegisterer(prometheus.NewRegistry(), "scenario")
	courts := courtdirectory.NewStatic([]domain.Court{{
		ID:                  courtID,
		OwnerID:             ownerID,
		Name:                "Center Court",
		PricePerHour:        40,
		OpeningHour:         6,
		ClosingHour:         22,
		SlotDurationMinutes: 60,
		IsApproved:          true,
	}})
	c := &clock{t: time.Date(2024, 5, 31, 12, 0, 0, 0, time.UTC)}

	return &engine{
		store:        store,
		clock:        c,
		availability: get_availability.NewUseCase(store.Reservations(), store.Blocks(), courts, 7, log),
		book: book_slot.NewUseCase(store.Reservations(), store.Blocks(), store.SlotLocks(), courts,
			store.TxManager(), notifier.Noop{}, m, time.UTC, log).WithTimeProvider(c),
		block: block_slot.NewUseCase(store.Reservations(), store.Blocks(), store.SlotLocks(), courts,
			store.TxManager(), notifier.Noop{}, m, time.UTC, log).WithTimeProvider(c),
		unblock: unblock_slot.NewUseCase(store.Blocks(), store.SlotLocks(), courts,
			store.TxManager(), notifier.Noop{}, m, log).WithTimeProvider(c),
		cancel: cancel_reservation.NewUseCase(store.Reservations(), store.TxManager(),
			notifier.Noop{}, m, 30*time.Minute, log).WithTimeProvider(c),
	}
}

func (e *engine) grid(t *testing.T, viewer domain.Viewer) domain.DaySlots {
	t.Helper()
	resp, err := e.availability.Execute(context.Background(), &get_availability.Request{
		Viewer: viewer, CourtID: courtID, Date: day,
	})
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)
	return resp.Days[0]
}

func slotAt(d domain.DaySlots, start string) domain.Slot {
	for _, s := range d.Slots {
		if s.Start.String() == start {
			return s
		}
	}
	return domain.Slot{}
}

func TestScenario_BookBlockCancel(t *testing.T) {
	e := newEngine()
	ctx := context.Background()
	player := domain.Viewer{UserID: playerID, Role: domain.RolePlayer}

	res, err := e.book.Execute(ctx, &book_slot.Request{PlayerID: playerID, CourtID: courtID, Date: day, Start: "09:00", End: "10:00"})
	require.NoError(t, err)

	_, err = e.block.Execute(ctx, &block_slot.Request{OwnerID: ownerID, CourtID: courtID, Date: day, Start: "10:00", End: "11:00"})
	require.NoError(t, err)

	grid := e.grid(t, player)
	require.Len(t, grid.Slots, 16)
	assert.Equal(t, 1, grid.CountByStatus(domain.SlotBooked))
	assert.Equal(t, 1, grid.CountByStatus(domain.SlotBlocked))
	assert.Equal(t, 14, grid.CountByStatus(domain.SlotAvailable))
	assert.Equal(t, domain.SlotBooked, slotAt(grid, "09:00").Status)

	// блокировка забронированного слота отклоняется
	_, err = e.block.Execute(ctx, &block_slot.Request{OwnerID: ownerID, CourtID: courtID, Date: day, Start: "09:00", End: "10:00"})
	assert.ErrorIs(t, err, block_slot.ErrSlotConflict)

	// бронь заблокированного слота отклоняется
	_, err = e.book.Execute(ctx, &book_slot.Request{PlayerID: 43, CourtID: courtID, Date: day, Start: "10:00", End: "11:00"})
	assert.ErrorIs(t, err, book_slot.ErrSlotConflict)

	// отмена в пределах окна освобождает слот
	e.clock.t = e.clock.t.Add(29 * time.Minute)
	_, err = e.cancel.Execute(ctx, &cancel_reservation.Request{ReservationID: res.ID, RequesterID: playerID})
	require.NoError(t, err)
	assert.Equal(t, domain.SlotAvailable, slotAt(e.grid(t, player), "09:00").Status)

	// слот можно забронировать снова
	_, err = e.book.Execute(ctx, &book_slot.Request{PlayerID: 43, CourtID: courtID, Date: day, Start: "09:00", End: "10:00"})
	require.NoError(t, err)

	// снятие блокировки
	require.NoError(t, e.unblock.Execute(ctx, &unblock_slot.Request{OwnerID: ownerID, CourtID: courtID, Date: day, Start: "10:00", End: "11:00"}))
	owner := domain.Viewer{UserID: ownerID, Role: domain.RoleOwner}
	assert.Equal(t, []domain.SlotAction{domain.ActionBlock}, slotAt(e.grid(t, owner), "10:00").Actions)
}

func TestScenario_CancelAfterWindow(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	res, err := e.book.Execute(ctx, &book_slot.Request{PlayerID: playerID, CourtID: courtID, Date: day, Start: "12:00", End: "13:00"})
	require.NoError(t, err)

	e.clock.t = e.clock.t.Add(31 * time.Minute)
	_, err = e.cancel.Execute(ctx, &cancel_reservation.Request{ReservationID: res.ID, RequesterID: playerID})
	assert.ErrorIs(t, err, cancel_reservation.ErrWindowExpired)

	grid := e.grid(t, domain.Viewer{UserID: playerID, Role: domain.RolePlayer})
	assert.Equal(t, domain.SlotBooked, slotAt(grid, "12:00").Status)
}

func TestScenario_ConcurrentBookAndBlock(t *testing.T) {
	for round := 0; round < 20; round++ {
		e := newEngine()
		ctx := context.Background()

		var booked, blocked bool
		var g errgroup.Group
		g.Go(func() error {
			_, err := e.book.Execute(ctx, &book_slot.Request{PlayerID: playerID, CourtID: courtID, Date: day, Start: "15:00", End: "16:00"})
			if errors.Is(err, book_slot.ErrSlotConflict) {
				return nil
			}
			booked = err == nil
			return err
		})
		g.Go(func() error {
			_, err := e.block.Execute(ctx, &block_slot.Request{OwnerID: ownerID, CourtID: courtID, Date: day, Start: "15:00", End: "16:00"})
			if errors.Is(err, block_slot.ErrSlotConflict) {
				return nil
			}
			blocked = err == nil
			return err
		})
		require.NoError(t, g.Wait())

		assert.True(t, booked != blocked, "exactly one of book and block must win")

		grid := e.grid(t, domain.Viewer{UserID: playerID, Role: domain.RolePlayer})
		assert.NotEqual(t, domain.SlotAvailable, slotAt(grid, "15:00").Status)
	}
}

func TestScenario_ConcurrentBookingsAcrossSlots(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	windows := []struct{ start, end types.TimeString }{
		{"06:00", "07:00"}, {"07:00", "08:00"}, {"08:00", "09:00"}, {"09:00", "10:00"},
	}

	var g errgroup.Group
	for i, w := range windows {
		for p := 0; p < 8; p++ {
			player := int64(100 + i*10 + p)
			g.Go(func() error {
				_, err := e.book.Execute(ctx, &book_slot.Request{PlayerID: player, CourtID: courtID, Date: day, Start: w.start, End: w.end})
				if err != nil && !errors.Is(err, book_slot.ErrSlotConflict) {
					return err
				}
				return nil
			})
		}
	}
	require.NoError(t, g.Wait())

	grid := e.grid(t, domain.Viewer{UserID: playerID, Role: domain.RolePlayer})
	assert.Equal(t, len(windows), grid.CountByStatus(domain.SlotBooked))
}
