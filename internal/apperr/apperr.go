// Package apperr defines the error kinds shared by the booking and deletion
// engines. Handlers map each kind to exactly one HTTP status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrMissingEntity       = errors.New("referenced entity does not exist")
	ErrPastSlot            = errors.New("slot start time has already passed")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrSlotFull            = errors.New("slot is full for the given date")
	ErrUnableToDelete      = errors.New("unable to delete user")
	ErrStoreFailure        = errors.New("store failure")
)

// Store wraps a driver-level error so callers can match on ErrStoreFailure
// while the original cause stays in the chain.
func Store(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStoreFailure, err)
}

// Missing annotates ErrMissingEntity with the entity that was looked up.
func Missing(entity string, id int) error {
	return fmt.Errorf("%w: %s %d", ErrMissingEntity, entity, id)
}

// HTTPStatus returns the response code for a domain error.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrMissingEntity):
		return http.StatusNotFound
	case errors.Is(err, ErrPastSlot):
		return http.StatusBadRequest
	case errors.Is(err, ErrInsufficientBalance):
		return http.StatusPaymentRequired
	case errors.Is(err, ErrSlotFull):
		return http.StatusConflict
	case errors.Is(err, ErrUnableToDelete), errors.Is(err, ErrStoreFailure):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
