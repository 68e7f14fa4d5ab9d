package notifier

import "time"

// Event типы событий, отправляемых в сервис уведомлений
type Event string

const (
	EventBookingConfirmed Event = "booking_confirmed"
	EventBookingCancelled Event = "booking_cancelled"
)

// BookingEvent модель события бронирования для сервиса уведомлений
// Сервис уведомлений сам решает, какие каналы использовать (WhatsApp, push)
type BookingEvent struct {
	Event       Event     `json:"event"`
	BookingID   int64     `json:"bookingId"`
	ProviderID  int64     `json:"providerId"`
	CustomerID  int64     `json:"customerId"`
	ServiceName string    `json:"serviceName"`
	StartTime   time.Time `json:"startTime"`
	CancelledBy string    `json:"cancelledBy,omitempty"` // customer | provider
}
