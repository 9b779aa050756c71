package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		username string
		ok       bool
	}{
		{"abc", true},
		{"ArizkySaputraABC", true},
		{"ab", false},
		{"ArizkySaputraABCD", false},
		{"user1", false},
		{"user_name", false},
		{"", false},
	}
	for _, tt := range tests {
		err := ValidateUsername(tt.username)
		if tt.ok {
			assert.NoError(t, err, tt.username)
			continue
		}
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr), tt.username)
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantMsg  string
	}{
		{"secret", ""},
		{"s3cr3t!@#", ""},
		{"a!b@c#d$", "password must not contain more than 3 distinct symbols"},
		{"a!!!!!!!", ""},
		{"short", "password must be 6 to 16 characters"},
		{"averyveryverylongpw", "password must be 6 to 16 characters"},
	}
	for _, tt := range tests {
		err := ValidatePassword(tt.password)
		if tt.wantMsg == "" {
			assert.NoError(t, err, tt.password)
			continue
		}
		var verr *ValidationError
		if assert.True(t, errors.As(err, &verr), tt.password) {
			assert.Equal(t, tt.wantMsg, verr.Message)
		}
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestValidateUID(t *testing.T) {
	assert.NoError(t, ValidateUID("12345678", 8))
	assert.NoError(t, ValidateUID("800123456789", 8))
	assert.ErrorIs(t, ValidateUID("1234567", 8), ErrInvalidUID)
	assert.ErrorIs(t, ValidateUID("1234abcd", 8), ErrInvalidUID)
	assert.ErrorIs(t, ValidateUID("-12345678", 8), ErrInvalidUID)
	assert.ErrorIs(t, ValidateUID("", 8), ErrInvalidUID)
}
