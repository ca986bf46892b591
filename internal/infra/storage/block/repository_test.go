package block

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
	"github.com/m04kA/SMC-CourtScheduler/pkg/dbmetrics"
)

var (
	testDate = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	testNow  = time.Date(2024, 5, 31, 18, 0, 0, 0, time.UTC)
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(dbmetrics.Wrap(db, nil, "test")), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("INSERT INTO blocks").
		WithArgs(sqlmock.AnyArg(), int64(7), testDate, "14:00", "15:00", int64(10), testNow).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(testNow))

	b, err := repo.Create(context.Background(), &domain.Block{
		CourtID: 7, Date: testDate, Start: "14:00", End: "15:00", CreatedBy: 10, CreatedAt: testNow,
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, b.ID)
	assert.True(t, b.IsActive())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_AlreadyBlocked(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("INSERT INTO blocks").WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), &domain.Block{CourtID: 7, Date: testDate, Start: "14:00", End: "15:00"})

	assert.ErrorIs(t, err, ErrSlotBlocked)
}

func TestGetActiveBySlot(t *testing.T) {
	repo, mock := newRepo(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM blocks WHERE (.+)removed_at IS NULL").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(id.String(), int64(7), testDate, "14:00:00", "15:00:00", int64(10), testNow, nil, nil))

	b, err := repo.GetActiveBySlot(context.Background(), domain.SlotKey{CourtID: 7, Date: testDate, Start: "14:00", End: "15:00"})

	require.NoError(t, err)
	assert.Equal(t, id, b.ID)
	assert.Nil(t, b.RemovedBy)
}

func TestGetActiveBySlot_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM blocks").WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetActiveBySlot(context.Background(), domain.SlotKey{CourtID: 7, Date: testDate, Start: "14:00", End: "15:00"})

	assert.ErrorIs(t, err, ErrBlockNotFound)
}

func TestListActiveByCourtAndDate(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM blocks WHERE (.+) ORDER BY start_time ASC").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(uuid.NewString(), int64(7), testDate, "14:00:00", "15:00:00", int64(10), testNow, nil, nil))

	blocks, err := repo.ListActiveByCourtAndDate(context.Background(), 7, testDate)

	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "14:00", blocks[0].Start.String())
}

func TestRemove(t *testing.T) {
	repo, mock := newRepo(t)
	id := uuid.New()

	mock.ExpectExec("UPDATE blocks SET removed_at = \\$1, removed_by = \\$2 WHERE id = \\$3 AND removed_at IS NULL").
		WithArgs(testNow, int64(10), id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Remove(context.Background(), id, 10, testNow))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemove_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec("UPDATE blocks").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Remove(context.Background(), uuid.New(), 10, testNow), ErrBlockNotFound)
}
