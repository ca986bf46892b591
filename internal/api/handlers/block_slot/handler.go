package block_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-CourtScheduler/internal/api/middleware"
	blockSlot "github.com/m04kA/SMC-CourtScheduler/internal/usecase/block_slot"
	"github.com/m04kA/SMC-CourtScheduler/pkg/types"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidCourtID     = "некорректный ID корта"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgInvalidInput       = "некорректные параметры блокировки"
	msgInvalidSlot        = "некорректный слот: время не входит в расписание корта или слот уже начался"
	msgSlotConflict       = "слот уже забронирован или заблокирован"
	msgCourtNotFound      = "корт не найден"
	msgNotOwner           = "только владелец корта может блокировать слоты"
	msgMissingIdentity    = "пользователь не аутентифицирован"
)

type Handler struct {
	useCase BlockSlotUseCase
	logger  Logger
}

func NewHandler(useCase BlockSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/courts/{courtId}/blocks
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	courtID, err := handlers.PathInt64(r, "courtId")
	if err != nil {
		h.logger.Warn("POST /courts/{id}/blocks - %v", err)
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	var req BlockSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /courts/{id}/blocks - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID, courtID)
	if err != nil {
		h.logger.Warn("POST /courts/{id}/blocks - Failed to parse request: %v", err)
		if errors.Is(err, types.ErrInvalidDate) {
			handlers.RespondBadRequest(w, msgInvalidDate)
		} else {
			handlers.RespondBadRequest(w, msgInvalidTime)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, blockSlot.ErrSlotConflict):
			h.logger.Warn("POST /courts/{id}/blocks - Slot conflict: user_id=%d, court_id=%d", userID, courtID)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, blockSlot.ErrNotOwner):
			h.logger.Warn("POST /courts/{id}/blocks - Not owner: user_id=%d, court_id=%d", userID, courtID)
			handlers.RespondForbidden(w, msgNotOwner)

		case errors.Is(err, blockSlot.ErrInvalidSlot):
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, blockSlot.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, blockSlot.ErrCourtNotFound):
			h.logger.Warn("POST /courts/{id}/blocks - Court not found: court_id=%d", courtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		default:
			h.logger.Error("POST /courts/{id}/blocks - Failed to block slot: user_id=%d, court_id=%d, error=%v",
				userID, courtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /courts/{id}/blocks - Slot blocked: block_id=%s, court_id=%d", result.ID, courtID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomainBlock(result))
}
