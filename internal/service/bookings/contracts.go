package bookings

import (
	"context"

	"github.com/bookitgy/booking-engine/internal/domain"
	"github.com/bookitgy/booking-engine/internal/integrations/notifier"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByCustomerID(ctx context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByProviderWithFilter(ctx context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, status domain.BookingStatus, reason string) error
}

// ScheduleRepository интерфейс репозитория провайдеров
type ScheduleRepository interface {
	GetProviderByUserID(ctx context.Context, userID int64) (*domain.Provider, error)
}

// NotifierClient интерфейс клиента сервиса уведомлений
type NotifierClient interface {
	PublishBookingEvent(ctx context.Context, event *notifier.BookingEvent)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
