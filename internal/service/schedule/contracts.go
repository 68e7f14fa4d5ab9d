package schedule

import (
	"context"

	"github.com/bookitgy/booking-engine/internal/domain"
)

// ScheduleRepository интерфейс репозитория провайдеров и рабочих часов
type ScheduleRepository interface {
	GetProvider(ctx context.Context, providerID int64) (*domain.Provider, error)
	GetProviderByUserID(ctx context.Context, userID int64) (*domain.Provider, error)
	GetWorkingHours(ctx context.Context, providerID int64) (domain.WeekSchedule, error)
	CreateWorkingHours(ctx context.Context, schedule domain.WeekSchedule) (domain.WeekSchedule, error)
	UpsertWorkingHours(ctx context.Context, rule *domain.WorkingHoursRule) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
