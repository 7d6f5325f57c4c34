package providers

import (
	"errors"
	"fmt"

	"cloudlift/nodectl/internal/domain"
)

// opFailed tags err as a provider operation failure unless it already
// carries a more specific domain sentinel. Drivers use it on create
// and destroy paths so callers can classify those failures without
// losing the API detail.
func opFailed(err error) error {
	if errors.Is(err, domain.ErrUnauthorized) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrRateLimited) {
		return err
	}
	return fmt.Errorf("%v: %w", err, domain.ErrOperationFailed)
}
