package get_availability

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrProviderNotFound = errors.New("provider not found")
	ErrServiceNotFound  = errors.New("service not found")
	ErrInternal         = errors.New("internal error")
)
