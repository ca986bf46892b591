package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/SMC-CourtScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
)

// Handlers обработчики HTTP маршрутов
type Handlers struct {
	GetAvailability       http.HandlerFunc
	BookSlot              http.HandlerFunc
	BlockSlot             http.HandlerFunc
	UnblockSlot           http.HandlerFunc
	CancelReservation     http.HandlerFunc
	GetReservation        http.HandlerFunc
	GetPlayerReservations http.HandlerFunc
	GetCourtReservations  http.HandlerFunc
}

// RouterConfig параметры роутера
type RouterConfig struct {
	Auth *middleware.Auth

	// Metrics nil - метрики выключены
	Metrics     middleware.HTTPMetrics
	MetricsPath string
}

// NewRouter собирает маршруты API
func NewRouter(h Handlers, cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()

	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.MetricsPath, promhttp.Handler()).Methods(http.MethodGet)
	}

	// API prefix, все маршруты требуют токен
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(cfg.Auth.Middleware)

	// --- Сетка слотов ---
	api.HandleFunc("/courts/{courtId}/availability", h.GetAvailability).Methods(http.MethodGet)

	player := middleware.RequireRole(domain.RolePlayer)
	owner := middleware.RequireRole(domain.RoleOwner)

	// --- Бронирования игрока ---
	api.Handle("/courts/{courtId}/reservations", player(h.BookSlot)).Methods(http.MethodPost)
	api.Handle("/reservations/{reservationId}/cancel", player(h.CancelReservation)).Methods(http.MethodPatch)
	api.Handle("/me/reservations", player(h.GetPlayerReservations)).Methods(http.MethodGet)

	// --- Управление кортом (для владельцев) ---
	api.Handle("/courts/{courtId}/blocks", owner(h.BlockSlot)).Methods(http.MethodPost)
	api.Handle("/courts/{courtId}/blocks", owner(h.UnblockSlot)).Methods(http.MethodDelete)

	// --- Просмотр (права проверяет сервис) ---
	api.HandleFunc("/reservations/{reservationId}", h.GetReservation).Methods(http.MethodGet)
	api.HandleFunc("/courts/{courtId}/reservations", h.GetCourtReservations).Methods(http.MethodGet)

	return r
}
