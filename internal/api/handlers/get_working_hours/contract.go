package get_working_hours

import (
	"context"

	"github.com/bookitgy/booking-engine/internal/service/schedule/models"
)

type ScheduleService interface {
	GetWorkingHours(ctx context.Context, userID int64) (*models.WorkingHoursResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
