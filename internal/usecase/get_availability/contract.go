package get_availability

import (
	"context"
	"time"

	"github.com/bookitgy/booking-engine/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByProviderWithFilter(ctx context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error)
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

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Settings параметры генерации слотов из конфигурации сервиса
type Settings struct {
	GranularityMinutes int    // шаг сетки слотов
	MinLeadTimeMinutes int    // минимальное время до начала брони
	DefaultRangeDays   int    // длина диапазона по умолчанию
	MaxRangeDays       int    // верхняя граница диапазона
	DefaultTimezone    string // запасная зона при пустой или битой зоне провайдера
}
