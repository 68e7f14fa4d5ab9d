package get_availability

import "fmt"

// validateRequest проверяет корректность параметров запроса
func (uc *UseCase) validateRequest(req Request) error {
	if req.ProviderID <= 0 {
		return fmt.Errorf("%w: providerId must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}

	if req.Days < 0 {
		return fmt.Errorf("%w: days must not be negative", ErrInvalidInput)
	}

	if req.Days > uc.settings.MaxRangeDays {
		return fmt.Errorf("%w: days must not exceed %d", ErrInvalidInput, uc.settings.MaxRangeDays)
	}

	return nil
}
