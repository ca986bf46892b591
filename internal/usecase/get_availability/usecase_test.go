package get_availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
	"github.com/m04kA/SMC-CourtScheduler/internal/infra/storage/memory"
	"github.com/m04kA/SMC-CourtScheduler/internal/integrations/courtdirectory"
	"github.com/m04kA/SMC-CourtScheduler/pkg/logger"
)

var day = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func testCourt() domain.Court {
	return domain.Court{
		ID:                  7,
		OwnerID:             10,
		Name:                "Center Court",
		PricePerHour:        40,
		OpeningHour:         6,
		ClosingHour:         22,
		SlotDurationMinutes: 60,
		IsApproved:          true,
	}
}

func newUseCase(t *testing.T, store *memory.Store) *UseCase {
	t.Helper()
	return NewUseCase(store.Reservations(), store.Blocks(), courtdirectory.NewStatic([]domain.Court{testCourt()}), 7, logger.NewNop())
}

func statusAt(d domain.DaySlots, start string) domain.Slot {
	for _, s := range d.Slots {
		if s.Start.String() == start {
			return s
		}
	}
	return domain.Slot{}
}

func TestExecute_ExampleScenario(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	_, err := store.Reservations().Create(ctx, &domain.Reservation{
		CourtID: 7, PlayerID: 42, Date: day, Start: "09:00", End: "10:00", Status: domain.ReservationBooked,
	})
	require.NoError(t, err)
	_, err = store.Blocks().Create(ctx, &domain.Block{
		CourtID: 7, Date: day, Start: "10:00", End: "11:00", CreatedBy: 10,
	})
	require.NoError(t, err)

	resp, err := newUseCase(t, store).Execute(ctx, &Request{
		Viewer:  domain.Viewer{UserID: 42, Role: domain.RolePlayer},
		CourtID: 7,
		Date:    day,
	})
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)

	grid := resp.Days[0]
	require.Len(t, grid.Slots, 16)
	assert.Equal(t, 1, grid.CountByStatus(domain.SlotBooked))
	assert.Equal(t, 1, grid.CountByStatus(domain.SlotBlocked))
	assert.Equal(t, 14, grid.CountByStatus(domain.SlotAvailable))

	assert.Equal(t, domain.SlotBooked, statusAt(grid, "09:00").Status)
	assert.Equal(t, domain.SlotBlocked, statusAt(grid, "10:00").Status)
	assert.Equal(t, []domain.SlotAction{domain.ActionBook}, statusAt(grid, "11:00").Actions)
	assert.Empty(t, statusAt(grid, "09:00").Actions)
}

func TestExecute_OwnerActions(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	_, err := store.Blocks().Create(ctx, &domain.Block{
		CourtID: 7, Date: day, Start: "06:00", End: "07:00", CreatedBy: 10,
	})
	require.NoError(t, err)

	resp, err := newUseCase(t, store).Execute(ctx, &Request{
		Viewer:  domain.Viewer{UserID: 10, Role: domain.RoleOwner},
		CourtID: 7,
		Date:    day,
	})
	require.NoError(t, err)

	grid := resp.Days[0]
	assert.Equal(t, []domain.SlotAction{domain.ActionUnblock}, statusAt(grid, "06:00").Actions)
	assert.Equal(t, []domain.SlotAction{domain.ActionBlock}, statusAt(grid, "07:00").Actions)
}

func TestExecute_MultipleDays(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	_, err := store.Reservations().Create(ctx, &domain.Reservation{
		CourtID: 7, PlayerID: 42, Date: day.AddDate(0, 0, 2), Start: "21:00", End: "22:00", Status: domain.ReservationBooked,
	})
	require.NoError(t, err)

	resp, err := newUseCase(t, store).Execute(ctx, &Request{
		Viewer:  domain.Viewer{UserID: 42, Role: domain.RolePlayer},
		CourtID: 7,
		Date:    day.Add(15 * time.Hour),
		Days:    3,
	})
	require.NoError(t, err)
	require.Len(t, resp.Days, 3)

	for i, d := range resp.Days {
		assert.Equal(t, day.AddDate(0, 0, i), d.Date)
	}
	assert.Equal(t, 0, resp.Days[0].CountByStatus(domain.SlotBooked))
	assert.Equal(t, domain.SlotBooked, statusAt(resp.Days[2], "21:00").Status)
}

func TestExecute_Errors(t *testing.T) {
	uc := newUseCase(t, memory.NewStore())
	viewer := domain.Viewer{UserID: 1, Role: domain.RolePlayer}

	tests := []struct {
		name string
		req  *Request
		err  error
	}{
		{"invalid court id", &Request{Viewer: viewer, Date: day}, ErrInvalidInput},
		{"missing date", &Request{Viewer: viewer, CourtID: 7}, ErrInvalidInput},
		{"too many days", &Request{Viewer: viewer, CourtID: 7, Date: day, Days: 8}, ErrInvalidInput},
		{"negative days", &Request{Viewer: viewer, CourtID: 7, Date: day, Days: -1}, ErrInvalidInput},
		{"unknown court", &Request{Viewer: viewer, CourtID: 99, Date: day}, ErrCourtNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

type failingBlocks struct{}

func (failingBlocks) ListActiveByCourtAndDate(ctx context.Context, courtID int64, date time.Time) ([]*domain.Block, error) {
	return nil, errors.New("connection reset")
}

func TestExecute_RepositoryError(t *testing.T) {
	store := memory.NewStore()
	uc := NewUseCase(store.Reservations(), failingBlocks{}, courtdirectory.NewStatic([]domain.Court{testCourt()}), 7, logger.NewNop())

	_, err := uc.Execute(context.Background(), &Request{
		Viewer:  domain.Viewer{UserID: 1, Role: domain.RolePlayer},
		CourtID: 7,
		Date:    day,
		Days:    2,
	})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestResolveDay_BookedWinsOverBlocked(t *testing.T) {
	court := testCourt()
	reservations := []*domain.Reservation{
		{CourtID: 7, Date: day, Start: "09:00", End: "10:00", Status: domain.ReservationBooked},
		{CourtID: 7, Date: day, Start: "12:00", End: "13:00", Status: domain.ReservationCancelled},
	}
	blocks := []*domain.Block{
		{CourtID: 7, Date: day, Start: "09:00", End: "10:00"},
	}

	grid := ResolveDay(&court, day, reservations, blocks, domain.Viewer{UserID: 10, Role: domain.RoleOwner})

	assert.Equal(t, domain.SlotBooked, statusAt(grid, "09:00").Status)
	assert.Equal(t, domain.SlotAvailable, statusAt(grid, "12:00").Status)
	assert.Empty(t, statusAt(grid, "09:00").Actions)
}

func TestResolveDay_ViewerDoesNotChangeStatuses(t *testing.T) {
	court := testCourt()
	reservations := []*domain.Reservation{
		{CourtID: 7, Date: day, Start: "09:00", End: "10:00", Status: domain.ReservationBooked},
	}

	viewers := []domain.Viewer{
		{UserID: 42, Role: domain.RolePlayer},
		{UserID: 10, Role: domain.RoleOwner},
		{UserID: 1, Role: domain.RoleAdmin},
	}

	var first []domain.SlotStatus
	for _, v := range viewers {
		grid := ResolveDay(&court, day, reservations, nil, v)
		statuses := make([]domain.SlotStatus, 0, len(grid.Slots))
		for _, s := range grid.Slots {
			statuses = append(statuses, s.Status)
		}
		if first == nil {
			first = statuses
			continue
		}
		assert.Equal(t, first, statuses)
	}
}
