package claim_slot

import (
	"context"
	"time"

	"github.com/bookitgy/booking-engine/internal/domain"
	"github.com/bookitgy/booking-engine/internal/integrations/notifier"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetActiveOverlapping(ctx context.Context, providerID int64, start, end time.Time) ([]*domain.Booking, error)
}

// ScheduleRepository интерфейс репозитория провайдеров и рабочих часов
type ScheduleRepository interface {
	GetProvider(ctx context.Context, providerID int64) (*domain.Provider, error)
	GetWorkingHours(ctx context.Context, providerID int64) (domain.WeekSchedule, error)
}

// CatalogRepository интерфейс репозитория каталога услуг
type CatalogRepository interface {
	GetByProviderAndID(ctx context.Context, providerID, serviceID int64) (*domain.Service, error)
}

// TxManager интерфейс менеджера транзакций.
// Проверка пересечений и вставка брони выполняются в одной
// serializable транзакции - это единственная защита от двойного бронирования.
type TxManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// NotifierClient интерфейс клиента сервиса уведомлений
type NotifierClient interface {
	PublishBookingEvent(ctx context.Context, event *notifier.BookingEvent)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Settings параметры арбитража слотов из конфигурации сервиса
type Settings struct {
	GranularityMinutes int           // шаг сетки слотов
	MinLeadTimeMinutes int           // минимальное время до начала брони
	ClaimTimeout       time.Duration // бюджет времени на захват слота
	DefaultTimezone    string        // запасная зона при пустой или битой зоне провайдера
}
