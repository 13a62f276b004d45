// Package password contains utilities for managing passwords.
package password

import (
	"errors"

	passwordvalidator "github.com/wagslane/go-password-validator"
)

const (
	minimumLength      = 6
	maximumLength      = 128
	minimumEntropyBits = 40
)

var (
	ErrTooShort = errors.New("password must be at least 6 characters long")
	ErrTooLong  = errors.New("password must be at most 128 characters long")
	ErrTooWeak  = errors.New("password is too weak")
)

func ValidatePassword(password string) error {
	if len(password) < minimumLength {
		return ErrTooShort
	}
	if len(password) > maximumLength {
		return ErrTooLong
	}

	if err := passwordvalidator.Validate(password, minimumEntropyBits); err != nil {
		return errors.Join(ErrTooWeak, err)
	}

	return nil
}
