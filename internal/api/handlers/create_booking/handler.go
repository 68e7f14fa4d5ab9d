package create_booking

import (
	"errors"
	"net/http"

	"github.com/bookitgy/booking-engine/internal/api/handlers"
	"github.com/bookitgy/booking-engine/internal/api/middleware"
	bookingModels "github.com/bookitgy/booking-engine/internal/service/bookings/models"
	claimSlot "github.com/bookitgy/booking-engine/internal/usecase/claim_slot"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStartTime   = "некорректный формат времени начала, ожидается ISO 8601"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgProviderNotFound   = "провайдер не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgSlotTaken          = "выбранный слот уже занят"
	msgOutsideHours       = "слот вне рабочих часов провайдера"
	msgTooSoon            = "слишком поздно для бронирования этого слота"
	msgEngineBusy         = "сервис перегружен, повторите попытку"
)

// Коды причин отклонения бронирования в теле 409 ответа
const (
	reasonSlotTaken           = "SlotTaken"
	reasonOutsideWorkingHours = "OutsideWorkingHours"
	reasonTooSoon             = "TooSoon"
)

type Handler struct {
	useCase ClaimSlotUseCase
	logger  Logger
}

func NewHandler(useCase ClaimSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse start time %q: %v", req.StartTime, err)
		handlers.RespondBadRequest(w, msgInvalidStartTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, claimSlot.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, claimSlot.ErrProviderNotFound):
			h.logger.Warn("POST /bookings - Provider not found: provider_id=%d", req.ProviderID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, claimSlot.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: provider_id=%d, service_id=%d", req.ProviderID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, claimSlot.ErrSlotTaken):
			h.logger.Warn("POST /bookings - Slot taken: user_id=%d, provider_id=%d, start=%s", userID, req.ProviderID, req.StartTime)
			handlers.RespondConflictReason(w, reasonSlotTaken, msgSlotTaken)

		case errors.Is(err, claimSlot.ErrOutsideWorkingHours):
			h.logger.Warn("POST /bookings - Outside working hours: user_id=%d, provider_id=%d, start=%s", userID, req.ProviderID, req.StartTime)
			handlers.RespondConflictReason(w, reasonOutsideWorkingHours, msgOutsideHours)

		case errors.Is(err, claimSlot.ErrTooSoon):
			h.logger.Warn("POST /bookings - Too soon: user_id=%d, provider_id=%d, start=%s", userID, req.ProviderID, req.StartTime)
			handlers.RespondConflictReason(w, reasonTooSoon, msgTooSoon)

		case errors.Is(err, claimSlot.ErrEngineBusy):
			h.logger.Warn("POST /bookings - Engine busy: user_id=%d, provider_id=%d", userID, req.ProviderID)
			handlers.RespondServiceUnavailable(w, msgEngineBusy)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, provider_id=%d, error=%v",
				userID, req.ProviderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, provider_id=%d",
		result.Booking.ID, userID, req.ProviderID)
	handlers.RespondJSON(w, http.StatusCreated, bookingModels.FromDomainBooking(result.Booking))
}
