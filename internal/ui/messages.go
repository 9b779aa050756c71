package ui

import (
	"context"
	"errors"
	"fmt"

	"Topup-Lunite/internal/services"
)

// Interrupted reports whether err ends an interactive flow rather than a single
// operation.
func Interrupted(err error) bool {
	return errors.Is(err, ErrNoInput) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ErrorMessage turns an operation error into the line shown to the user.
func ErrorMessage(err error) string {
	var (
		verr   *services.ValidationError
		perr   *services.PersistenceError
		locked *services.LockedError
	)
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.As(err, &perr):
		return "Your changes could not be saved. The administrator has been notified."
	case errors.As(err, &locked):
		return fmt.Sprintf("Account locked. Try again in %d seconds.", locked.Seconds())
	case errors.Is(err, services.ErrUserNotFound):
		return "Username not found."
	case errors.Is(err, services.ErrUsernameTaken):
		return "Username already taken."
	case errors.Is(err, services.ErrProductNotFound):
		return "Product not found."
	case errors.Is(err, services.ErrOutOfStock):
		return "Out of stock."
	case errors.Is(err, services.ErrInsufficientFunds):
		return "Insufficient balance. Top up or choose another payment method."
	case errors.Is(err, services.ErrEmptyReference):
		return "Empty reference. Payment cancelled."
	case errors.Is(err, services.ErrInvalidMethod):
		return "Invalid payment method."
	}
	return "Error: " + err.Error()
}
