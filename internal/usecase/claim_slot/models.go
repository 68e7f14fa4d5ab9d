package claim_slot

import (
	"time"

	"github.com/bookitgy/booking-engine/internal/domain"
)

// Request параметры захвата слота
type Request struct {
	ProviderID int64
	ServiceID  int64
	CustomerID int64
	StartTime  time.Time // начало слота в UTC
}

// Response созданная бронь
type Response struct {
	Booking *domain.Booking
}
