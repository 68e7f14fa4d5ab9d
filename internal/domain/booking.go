package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending             BookingStatus = "pending"
	StatusConfirmed           BookingStatus = "confirmed"
	StatusCancelledByCustomer BookingStatus = "cancelled_by_customer"
	StatusCancelledByProvider BookingStatus = "cancelled_by_provider"
	StatusCompleted           BookingStatus = "completed"
	StatusNoShow              BookingStatus = "no_show"
)

// Booking represents a claimed appointment slot.
// StartTime и EndTime - абсолютные моменты в UTC; EndTime фиксируется при
// создании из длительности услуги и дальше не пересчитывается
type Booking struct {
	ID         int64
	ProviderID int64
	ServiceID  int64
	CustomerID int64
	StartTime  time.Time
	EndTime    time.Time
	Status     BookingStatus

	// Denormalized data for history: переживает правки и удаление услуги
	ServiceName            string
	ServicePrice           float64
	ServiceDurationMinutes int

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies its interval
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsTerminal returns true if the booking reached a final state
func (b *Booking) IsTerminal() bool {
	return !b.IsActive()
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.IsActive()
}

// IsCancelled returns true if the booking was cancelled by either side
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelledByCustomer || b.Status == StatusCancelledByProvider
}

// Overlaps пересекается ли бронирование с [start, end).
// Полуоткрытые интервалы: бронь, заканчивающаяся ровно в start, не пересекается
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && start.Before(b.EndTime)
}

// ProviderBookingsFilter фильтр для выборки бронирований провайдера
type ProviderBookingsFilter struct {
	ProviderID      int64          // Обязательный параметр
	StartTime       *time.Time     // Начало окна (опционально)
	EndTime         *time.Time     // Конец окна (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отменённые/завершённые
}
