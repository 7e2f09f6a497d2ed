package service

import (
	"errors"
	"fmt"

	"github.com/association-site-api/internal/models"
	"github.com/association-site-api/internal/store"
)

// storeError classifies a store failure for the layers above.
// The original error stays in the chain.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, store.ErrConflict):
		return fmt.Errorf("%s: %w: %w", op, models.ErrConflict, err)
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%s: %w: %w", op, models.ErrNotFound, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, models.ErrPersistence, err)
	}
}
