package unblock_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-CourtScheduler/internal/api/middleware"
	unblockSlot "github.com/m04kA/SMC-CourtScheduler/internal/usecase/unblock_slot"
	"github.com/m04kA/SMC-CourtScheduler/pkg/types"
)

const (
	msgInvalidCourtID  = "некорректный ID корта"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime     = "некорректный формат времени, ожидается HH:MM"
	msgInvalidSlot     = "некорректный слот: время не входит в расписание корта"
	msgInvalidInput    = "некорректные параметры запроса"
	msgNotBlocked      = "слот не заблокирован"
	msgCourtNotFound   = "корт не найден"
	msgNotOwner        = "только владелец корта может снимать блокировки"
	msgMissingIdentity = "пользователь не аутентифицирован"
)

type Handler struct {
	useCase UnblockSlotUseCase
	logger  Logger
}

func NewHandler(useCase UnblockSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/courts/{courtId}/blocks?date=YYYY-MM-DD&start=HH:MM&end=HH:MM
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	courtID, err := handlers.PathInt64(r, "courtId")
	if err != nil {
		h.logger.Warn("DELETE /courts/{id}/blocks - %v", err)
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	query := r.URL.Query()

	date, err := types.ParseDate(query.Get("date"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	start, err := types.NewTimeStringFromString(query.Get("start"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	end, err := types.NewTimeStringFromString(query.Get("end"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	err = h.useCase.Execute(r.Context(), &unblockSlot.Request{
		OwnerID: userID,
		CourtID: courtID,
		Date:    date,
		Start:   start,
		End:     end,
	})
	if err != nil {
		switch {
		case errors.Is(err, unblockSlot.ErrBlockNotFound):
			h.logger.Warn("DELETE /courts/{id}/blocks - Not blocked: court_id=%d, date=%s, slot=%s-%s",
				courtID, types.FormatDate(date), start, end)
			handlers.RespondNotFound(w, msgNotBlocked)

		case errors.Is(err, unblockSlot.ErrNotOwner):
			h.logger.Warn("DELETE /courts/{id}/blocks - Not owner: user_id=%d, court_id=%d", userID, courtID)
			handlers.RespondForbidden(w, msgNotOwner)

		case errors.Is(err, unblockSlot.ErrInvalidSlot):
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, unblockSlot.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, unblockSlot.ErrCourtNotFound):
			handlers.RespondNotFound(w, msgCourtNotFound)

		default:
			h.logger.Error("DELETE /courts/{id}/blocks - Failed to unblock slot: court_id=%d, error=%v", courtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /courts/{id}/blocks - Slot unblocked: court_id=%d, date=%s, slot=%s-%s",
		courtID, types.FormatDate(date), start, end)
	w.WriteHeader(http.StatusNoContent)
}
