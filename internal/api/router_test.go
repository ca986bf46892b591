package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	blockSlotHandler "github.com/m04kA/SMC-CourtScheduler/internal/api/handlers/block_slot"
	bookSlotHandler "github.com/m04kA/SMC-CourtScheduler/internal/api/handlers/book_slot"
	cancelReservationHandler "github.com/m04kA/SMC-CourtScheduler/internal/api/handlers/cancel_reservation"
	getAvailabilityHandler "github.com/m04kA/SMC-CourtScheduler/internal/api/handlers/get_availability"
	getCourtReservationsHandler "github.com/m04kA/SMC-CourtScheduler/internal/api/handlers/get_court_reservations"
	getPlayerReservationsHandler "github.com/m04kA/SMC-CourtScheduler/internal/api/handlers/get_player_reservations"
	getReservationHandler "github.com/m04kA/SMC-CourtScheduler/internal/api/handlers/get_reservation"
	unblockSlotHandler "github.com/m04kA/SMC-CourtScheduler/internal/api/handlers/unblock_slot"
	"github.com/m04kA/SMC-CourtScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
	"github.com/m04kA/SMC-CourtScheduler/internal/infra/storage/memory"
	"github.com/m04kA/SMC-CourtScheduler/internal/integrations/courtdirectory"
	"github.com/m04kA/SMC-CourtScheduler/internal/integrations/notifier"
	"github.com/m04kA/SMC-CourtScheduler/internal/service/reservations"
	"github.com/m04kA/SMC-CourtScheduler/internal/usecase/block_slot"
	"github.com/m04kA/SMC-CourtScheduler/internal/usecase/book_slot"
	"github.com/m04kA/SMC-CourtScheduler/internal/usecase/cancel_reservation"
	"github.com/m04kA/SMC-CourtScheduler/internal/usecase/get_availability"
	"github.com/m04kA/SMC-CourtScheduler/internal/usecase/unblock_slot"
	"github.com/m04kA/SMC-CourtScheduler/pkg/logger"
	"github.com/m04kA/SMC-CourtScheduler/pkg/metrics"
)

const secret = "test-secret"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	log := logger.NewNop()
	store := memory.NewStore()
	m := metrics.NewWithRegisterer(prometheus.NewRegistry(), "api-test")
	courts := courtdirectory.NewStatic([]domain.Court{
		{ID: 7, OwnerID: 10, Name: "Center Court", PricePerHour: 40, OpeningHour: 6, ClosingHour: 22, SlotDurationMinutes: 60, IsApproved: true},
	})
	pub := notifier.Noop{}

	availability := get_availability.NewUseCase(store.Reservations(), store.Blocks(), courts, 7, log)
	book := book_slot.NewUseCase(store.Reservations(), store.Blocks(), store.SlotLocks(), courts, store.TxManager(), pub, m, time.UTC, log)
	block := block_slot.NewUseCase(store.Reservations(), store.Blocks(), store.SlotLocks(), courts, store.TxManager(), pub, m, time.UTC, log)
	unblock := unblock_slot.NewUseCase(store.Blocks(), store.SlotLocks(), courts, store.TxManager(), pub, m, log)
	cancel := cancel_reservation.NewUseCase(store.Reservations(), store.TxManager(), pub, m, 30*time.Minute, log)
	svc := reservations.NewService(store.Reservations(), courts, time.UTC, log)

	router := NewRouter(Handlers{
		GetAvailability:       getAvailabilityHandler.NewHandler(availability, log).Handle,
		BookSlot:              bookSlotHandler.NewHandler(book, log).Handle,
		BlockSlot:             blockSlotHandler.NewHandler(block, log).Handle,
		UnblockSlot:           unblockSlotHandler.NewHandler(unblock, log).Handle,
		CancelReservation:     cancelReservationHandler.NewHandler(cancel, log).Handle,
		GetReservation:        getReservationHandler.NewHandler(svc, log).Handle,
		GetPlayerReservations: getPlayerReservationsHandler.NewHandler(svc, log).Handle,
		GetCourtReservations:  getCourtReservationsHandler.NewHandler(svc, log).Handle,
	}, RouterConfig{
		Auth:        middleware.NewAuth(secret, log),
		Metrics:     m,
		MetricsPath: "/metrics",
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func token(t *testing.T, userID int64, role domain.Role) string {
	t.Helper()
	tok, err := middleware.IssueToken(secret, userID, role, time.Hour)
	require.NoError(t, err)
	return tok
}

func call(t *testing.T, srv *httptest.Server, method, path, tok, body string) (*http.Response, map[string]interface{}) {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return resp, payload
}

func TestRouter_BookingFlow(t *testing.T) {
	srv := newTestServer(t)
	date := time.Now().UTC().AddDate(0, 0, 2).Format(domain.DateFormat)
	player := token(t, 42, domain.RolePlayer)
	owner := token(t, 10, domain.RoleOwner)

	// бронирование
	resp, body := call(t, srv, http.MethodPost, "/api/v1/courts/7/reservations", player,
		`{"date":"`+date+`","start":"09:00","end":"10:00"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	reservationID := body["id"].(string)
	assert.Equal(t, "booked", body["status"])
	assert.Equal(t, 40.0, body["amount"])

	// повторное бронирование того же слота
	resp, _ = call(t, srv, http.MethodPost, "/api/v1/courts/7/reservations", token(t, 43, domain.RolePlayer),
		`{"date":"`+date+`","start":"09:00","end":"10:00"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// блокировка владельцем
	resp, _ = call(t, srv, http.MethodPost, "/api/v1/courts/7/blocks", owner,
		`{"date":"`+date+`","start":"10:00","end":"11:00"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// блокировка забронированного слота
	resp, _ = call(t, srv, http.MethodPost, "/api/v1/courts/7/blocks", owner,
		`{"date":"`+date+`","start":"09:00","end":"10:00"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// сетка слотов
	resp, body = call(t, srv, http.MethodGet, "/api/v1/courts/7/availability?date="+date, player, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	days := body["days"].([]interface{})
	require.Len(t, days, 1)
	slots := days[0].(map[string]interface{})["slots"].([]interface{})
	require.Len(t, slots, 16)
	counts := map[string]int{}
	for _, s := range slots {
		counts[s.(map[string]interface{})["status"].(string)]++
	}
	assert.Equal(t, map[string]int{"available": 14, "booked": 1, "blocked": 1}, counts)

	// просмотр брони
	resp, _ = call(t, srv, http.MethodGet, "/api/v1/reservations/"+reservationID, owner, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = call(t, srv, http.MethodGet, "/api/v1/reservations/"+reservationID, token(t, 43, domain.RolePlayer), "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// бронирования корта для владельца
	resp, body = call(t, srv, http.MethodGet, "/api/v1/courts/7/reservations?from="+date+"&to="+date, owner, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, body["summary"].(map[string]interface{})["active"])

	// отмена чужой брони
	resp, _ = call(t, srv, http.MethodPatch, "/api/v1/reservations/"+reservationID+"/cancel", token(t, 43, domain.RolePlayer), "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// отмена своей брони
	resp, body = call(t, srv, http.MethodPatch, "/api/v1/reservations/"+reservationID+"/cancel", player, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "cancelled", body["status"])

	resp, _ = call(t, srv, http.MethodPatch, "/api/v1/reservations/"+reservationID+"/cancel", player, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// история игрока
	resp, body = call(t, srv, http.MethodGet, "/api/v1/me/reservations?status=cancelled", player, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["reservations"], 1)

	// снятие блокировки
	resp, _ = call(t, srv, http.MethodDelete, "/api/v1/courts/7/blocks?date="+date+"&start=10:00&end=11:00", owner, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = call(t, srv, http.MethodDelete, "/api/v1/courts/7/blocks?date="+date+"&start=10:00&end=11:00", owner, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_Errors(t *testing.T) {
	srv := newTestServer(t)
	date := time.Now().UTC().AddDate(0, 0, 2).Format(domain.DateFormat)
	player := token(t, 42, domain.RolePlayer)
	owner := token(t, 10, domain.RoleOwner)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		status int
	}{
		{"no token", http.MethodGet, "/api/v1/courts/7/availability?date=" + date, "", "", http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/api/v1/courts/7/availability?date=" + date, "garbage", "", http.StatusUnauthorized},
		{"bad date", http.MethodGet, "/api/v1/courts/7/availability?date=01.06.2024", player, "", http.StatusBadRequest},
		{"too many days", http.MethodGet, "/api/v1/courts/7/availability?date=" + date + "&days=30", player, "", http.StatusBadRequest},
		{"unknown court", http.MethodGet, "/api/v1/courts/99/availability?date=" + date, player, "", http.StatusNotFound},
		{"owner cannot book", http.MethodPost, "/api/v1/courts/7/reservations", owner, `{"date":"` + date + `","start":"09:00","end":"10:00"}`, http.StatusForbidden},
		{"player cannot block", http.MethodPost, "/api/v1/courts/7/blocks", player, `{"date":"` + date + `","start":"09:00","end":"10:00"}`, http.StatusForbidden},
		{"other owner cannot block", http.MethodPost, "/api/v1/courts/7/blocks", token(t, 11, domain.RoleOwner), `{"date":"` + date + `","start":"09:00","end":"10:00"}`, http.StatusForbidden},
		{"misaligned slot", http.MethodPost, "/api/v1/courts/7/reservations", player, `{"date":"` + date + `","start":"09:30","end":"10:30"}`, http.StatusBadRequest},
		{"past slot", http.MethodPost, "/api/v1/courts/7/reservations", player, `{"date":"2020-01-01","start":"09:00","end":"10:00"}`, http.StatusBadRequest},
		{"reversed window", http.MethodPost, "/api/v1/courts/7/reservations", player, `{"date":"` + date + `","start":"10:00","end":"09:00"}`, http.StatusBadRequest},
		{"bad time", http.MethodPost, "/api/v1/courts/7/reservations", player, `{"date":"` + date + `","start":"nine","end":"10:00"}`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/v1/courts/7/reservations", player, `{"date":"` + date + `","start":"09:00","end":"10:00","court":1}`, http.StatusBadRequest},
		{"bad reservation id", http.MethodGet, "/api/v1/reservations/42", player, "", http.StatusBadRequest},
		{"unknown reservation", http.MethodPatch, "/api/v1/reservations/6f1c9c1e-7d4e-4a53-9d65-1a3f4b2b0c11/cancel", player, "", http.StatusNotFound},
		{"bad status filter", http.MethodGet, "/api/v1/me/reservations?status=pending", player, "", http.StatusBadRequest},
		{"player cannot list court", http.MethodGet, "/api/v1/courts/7/reservations", player, "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := call(t, srv, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
