package services

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidUID    = errors.New("invalid game uid")
	ErrUsernameTaken = errors.New("username already taken")

	ErrUserNotFound  = errors.New("user not found")
	ErrWrongPassword = errors.New("wrong password")
	ErrLocked        = errors.New("account temporarily locked")

	ErrProductNotFound   = errors.New("product not found")
	ErrOutOfStock        = errors.New("product out of stock")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrEmptyReference    = errors.New("payment reference is empty")
	ErrInvalidMethod     = errors.New("unknown payment method")

	ErrVoucherNotFound = errors.New("voucher not found")
	ErrVoucherUsed     = errors.New("voucher already used")
)

// ValidationError reports malformed caller input. It is returned before any state changes.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// LockedError is returned while an account lock is active.
type LockedError struct {
	Remaining time.Duration
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("%s, try again in %d seconds", ErrLocked, e.Seconds())
}

func (e *LockedError) Unwrap() error { return ErrLocked }

// Seconds is the remaining lock time rounded up, so it is positive while locked.
func (e *LockedError) Seconds() int {
	return int(math.Ceil(e.Remaining.Seconds()))
}

// WrongPasswordError carries the consecutive failure count after this attempt.
type WrongPasswordError struct {
	Attempts int
	Locked   bool
}

func (e *WrongPasswordError) Error() string {
	if e.Locked {
		return fmt.Sprintf("%s (attempt %d), account locked", ErrWrongPassword, e.Attempts)
	}
	return fmt.Sprintf("%s (attempt %d)", ErrWrongPassword, e.Attempts)
}

func (e *WrongPasswordError) Unwrap() error { return ErrWrongPassword }

// PersistenceError means a collection could not be written. The operation that hit it
// is aborted; in-memory state may already be ahead of the store.
type PersistenceError struct {
	Collection string
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("save %s: %v", e.Collection, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
