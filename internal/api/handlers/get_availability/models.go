package get_availability

import (
	"time"

	"github.com/bookitgy/booking-engine/internal/domain"
	getAvailability "github.com/bookitgy/booking-engine/internal/usecase/get_availability"
)

// DayResponse слоты одной даты
type DayResponse struct {
	Date  string   `json:"date"`  // "2025-10-15"
	Slots []string `json:"slots"` // времена начала в UTC, ISO 8601
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	ProviderID      int64         `json:"providerId"`
	ServiceID       int64         `json:"serviceId"`
	DurationMinutes int           `json:"durationMinutes"`
	Days            []DayResponse `json:"days"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(result *getAvailability.Response) *AvailabilityResponse {
	resp := &AvailabilityResponse{
		ProviderID:      result.ProviderID,
		ServiceID:       result.ServiceID,
		DurationMinutes: result.DurationMinutes,
		Days:            make([]DayResponse, 0, len(result.Days)),
	}

	for _, day := range result.Days {
		slots := make([]string, 0, len(day.Slots))
		for _, slot := range day.Slots {
			slots = append(slots, slot.UTC().Format(time.RFC3339))
		}
		resp.Days = append(resp.Days, DayResponse{
			Date:  day.Date.Format(domain.DateFormat),
			Slots: slots,
		})
	}

	return resp
}
