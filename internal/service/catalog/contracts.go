package catalog

import (
	"context"

	"github.com/bookitgy/booking-engine/internal/domain"
)

// CatalogRepository интерфейс репозитория каталога услуг
type CatalogRepository interface {
	Create(ctx context.Context, service *domain.Service) (*domain.Service, error)
	GetByProviderAndID(ctx context.Context, providerID, serviceID int64) (*domain.Service, error)
	GetByProviderID(ctx context.Context, providerID int64) ([]*domain.Service, error)
	Update(ctx context.Context, service *domain.Service) error
	Delete(ctx context.Context, providerID, serviceID int64) error
}

// ScheduleRepository интерфейс репозитория провайдеров
type ScheduleRepository interface {
	GetProvider(ctx context.Context, providerID int64) (*domain.Provider, error)
	GetProviderByUserID(ctx context.Context, userID int64) (*domain.Provider, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
