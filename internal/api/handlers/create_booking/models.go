package create_booking

import (
	"time"

	claimSlot "github.com/bookitgy/booking-engine/internal/usecase/claim_slot"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ProviderID int64  `json:"providerId"`
	ServiceID  int64  `json:"serviceId"`
	StartTime  string `json:"startTime"` // ISO 8601, UTC
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(customerID int64) (claimSlot.Request, error) {
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return claimSlot.Request{}, err
	}

	return claimSlot.Request{
		ProviderID: r.ProviderID,
		ServiceID:  r.ServiceID,
		CustomerID: customerID,
		StartTime:  startTime.UTC(),
	}, nil
}
