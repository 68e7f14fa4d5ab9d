package claim_slot

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrProviderNotFound    = errors.New("provider not found")
	ErrServiceNotFound     = errors.New("service not found")
	ErrOutsideWorkingHours = errors.New("slot is outside working hours")
	ErrTooSoon             = errors.New("slot starts too soon")
	ErrSlotTaken           = errors.New("slot is already taken")
	ErrEngineBusy          = errors.New("booking engine is busy")
	ErrInternal            = errors.New("internal error")
)
