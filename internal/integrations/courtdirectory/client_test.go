package courtdirectory

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
	"github.com/m04kA/SMC-CourtScheduler/pkg/logger"
)

const baseURL = "http://courts.local"

func newMockedClient(t *testing.T) *Client {
	t.Helper()
	c := NewClient(baseURL, time.Second, logger.NewNop())
	httpmock.ActivateNonDefault(c.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func TestClient_GetCourt(t *testing.T) {
	c := newMockedClient(t)

	httpmock.RegisterResponder(http.MethodGet, baseURL+"/internal/courts/7",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, Court{
			ID:                  7,
			OwnerID:             10,
			Name:                "Center Court",
			PricePerHour:        50,
			OpeningHour:         6,
			ClosingHour:         22,
			SlotDurationMinutes: 60,
			IsApproved:          true,
		}))

	court, err := c.GetCourt(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, int64(10), court.OwnerID)
	assert.Equal(t, 50.0, court.PricePerHour)
	assert.True(t, court.IsApproved)
	assert.Len(t, court.GenerateSlots(), 16)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestClient_GetCourt_NotFound(t *testing.T) {
	c := newMockedClient(t)

	httpmock.RegisterResponder(http.MethodGet, baseURL+"/internal/courts/8",
		httpmock.NewStringResponder(http.StatusNotFound, `{"message":"not found"}`))

	_, err := c.GetCourt(context.Background(), 8)

	assert.ErrorIs(t, err, ErrCourtNotFound)
}

func TestClient_GetCourt_UnexpectedStatus(t *testing.T) {
	c := newMockedClient(t)

	httpmock.RegisterResponder(http.MethodGet, baseURL+"/internal/courts/9",
		httpmock.NewStringResponder(http.StatusServiceUnavailable, "maintenance"))

	_, err := c.GetCourt(context.Background(), 9)

	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_GetCourt_MismatchedID(t *testing.T) {
	c := newMockedClient(t)

	httpmock.RegisterResponder(http.MethodGet, baseURL+"/internal/courts/9",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, Court{ID: 10}))

	_, err := c.GetCourt(context.Background(), 9)

	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_GetCourt_ReturnsCopies(t *testing.T) {
	c := newMockedClient(t)

	httpmock.RegisterResponder(http.MethodGet, baseURL+"/internal/courts/7",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, Court{ID: 7, Name: "A"}))

	first, err := c.GetCourt(context.Background(), 7)
	require.NoError(t, err)
	first.Name = "changed"

	second, err := c.GetCourt(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "A", second.Name)
}

func TestClient_GetCourt_CancelledCallerDoesNotFailSharedRequest(t *testing.T) {
	c := newMockedClient(t)

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	httpmock.RegisterResponder(http.MethodGet, baseURL+"/internal/courts/7",
		func(req *http.Request) (*http.Response, error) {
			once.Do(func() { close(started) })
			<-release
			if err := req.Context().Err(); err != nil {
				return nil, err
			}
			return httpmock.NewJsonResponse(http.StatusOK, Court{ID: 7, Name: "Center Court"})
		})

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.GetCourt(firstCtx, 7)
		firstErr <- err
	}()
	<-started

	type result struct {
		court *domain.Court
		err   error
	}
	second := make(chan result, 1)
	go func() {
		court, err := c.GetCourt(context.Background(), 7)
		second <- result{court, err}
	}()

	// первый запрос отменён, пока общий вызов ещё выполняется
	cancel()
	assert.ErrorIs(t, <-firstErr, ErrInternal)

	time.Sleep(20 * time.Millisecond)
	close(release)

	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, "Center Court", got.court.Name)
}

func TestStatic(t *testing.T) {
	dir := NewStatic([]domain.Court{{ID: 1, OwnerID: 10}})

	court, err := dir.GetCourt(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), court.OwnerID)

	_, err = dir.GetCourt(context.Background(), 2)
	assert.ErrorIs(t, err, ErrCourtNotFound)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
courts:
  - id: 1
    owner_id: 10
    name: Center Court
    price_per_hour: 40
    opening_hour: 8
    closing_hour: 20
    slot_duration_minutes: 60
    is_approved: true
  - id: 2
    owner_id: 11
    name: Pending Court
`), 0o644))

	dir, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, dir.Len())

	court, err := dir.GetCourt(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Center Court", court.Name)
	assert.Len(t, court.GenerateSlots(), 12)

	pending, err := dir.GetCourt(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, pending.IsApproved)
}

func TestLoadFile_Invalid(t *testing.T) {
	dir := t.TempDir()

	dup := filepath.Join(dir, "dup.yaml")
	require.NoError(t, os.WriteFile(dup, []byte("courts:\n  - id: 1\n  - id: 1\n"), 0o644))
	_, err := LoadFile(dup)
	assert.ErrorIs(t, err, ErrInvalidCatalog)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("courts: [ {"), 0o644))
	_, err = LoadFile(broken)
	assert.ErrorIs(t, err, ErrInvalidCatalog)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}
