package create_booking

import (
	"context"

	claimSlot "github.com/bookitgy/booking-engine/internal/usecase/claim_slot"
)

type ClaimSlotUseCase interface {
	Execute(ctx context.Context, req claimSlot.Request) (*claimSlot.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
