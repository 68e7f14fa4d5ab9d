package get_working_hours

import (
	"errors"
	"net/http"

	"github.com/bookitgy/booking-engine/internal/api/handlers"
	"github.com/bookitgy/booking-engine/internal/api/middleware"
	"github.com/bookitgy/booking-engine/internal/service/schedule"
)

const (
	msgMissingUserID    = "отсутствует ID пользователя"
	msgProviderNotFound = "провайдер не найден"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/me/working-hours
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /providers/me/working-hours - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	workingHours, err := h.service.GetWorkingHours(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrProviderNotFound):
			h.logger.Warn("GET /providers/me/working-hours - Provider not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		default:
			h.logger.Error("GET /providers/me/working-hours - Failed: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /providers/me/working-hours - Schedule retrieved: provider_id=%d, user_id=%d",
		workingHours.ProviderID, userID)
	handlers.RespondJSON(w, http.StatusOK, workingHours)
}
