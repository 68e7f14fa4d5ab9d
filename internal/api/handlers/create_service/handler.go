package create_service

import (
	"errors"
	"net/http"

	"github.com/bookitgy/booking-engine/internal/api/handlers"
	"github.com/bookitgy/booking-engine/internal/api/middleware"
	"github.com/bookitgy/booking-engine/internal/service/catalog"
	"github.com/bookitgy/booking-engine/internal/service/catalog/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgInvalidService     = "некорректные параметры услуги"
)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// requestBody тело запроса создания услуги
type requestBody struct {
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"durationMinutes"`
}

// Handle POST /api/v1/providers/me/services
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /providers/me/services - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var body requestBody
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("POST /providers/me/services - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	service, err := h.service.Create(r.Context(), &models.CreateServiceRequest{
		UserID:          userID,
		Name:            body.Name,
		Description:     body.Description,
		Price:           body.Price,
		DurationMinutes: body.DurationMinutes,
	})
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrAccessDenied):
			h.logger.Warn("POST /providers/me/services - Access denied: user_id=%d", userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, catalog.ErrInvalidInput):
			h.logger.Warn("POST /providers/me/services - Invalid service: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidService)

		default:
			h.logger.Error("POST /providers/me/services - Failed: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /providers/me/services - Service created: service_id=%d, user_id=%d",
		service.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, service)
}
