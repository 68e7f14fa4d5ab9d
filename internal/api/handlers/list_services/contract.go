package list_services

import (
	"context"

	"github.com/bookitgy/booking-engine/internal/service/catalog/models"
)

type CatalogService interface {
	List(ctx context.Context, providerID int64) (*models.ServiceListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
