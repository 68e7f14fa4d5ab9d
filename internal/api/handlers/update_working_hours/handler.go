package update_working_hours

import (
	"errors"
	"net/http"

	"github.com/bookitgy/booking-engine/internal/api/handlers"
	"github.com/bookitgy/booking-engine/internal/api/middleware"
	"github.com/bookitgy/booking-engine/internal/service/schedule"
	"github.com/bookitgy/booking-engine/internal/service/schedule/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgProviderNotFound   = "провайдер не найден"
	msgInvalidTimeRange   = "время открытия должно быть раньше времени закрытия"
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

// requestBody тело запроса замены расписания
type requestBody struct {
	Days []models.DayRule `json:"days"`
}

// Handle PUT /api/v1/providers/me/working-hours
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /providers/me/working-hours - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var body requestBody
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("PUT /providers/me/working-hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	workingHours, err := h.service.ReplaceWorkingHours(r.Context(), &models.UpdateWorkingHoursRequest{
		UserID: userID,
		Days:   body.Days,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrProviderNotFound):
			h.logger.Warn("PUT /providers/me/working-hours - Provider not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, schedule.ErrInvalidTimeRange):
			h.logger.Warn("PUT /providers/me/working-hours - Invalid time range: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /providers/me/working-hours - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PUT /providers/me/working-hours - Failed: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /providers/me/working-hours - Schedule replaced: provider_id=%d, user_id=%d",
		workingHours.ProviderID, userID)
	handlers.RespondJSON(w, http.StatusOK, workingHours)
}
