package services

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("maxsymbols", maxSymbols)
	return v
}

// maxSymbols limits the number of distinct non-alphanumeric characters.
func maxSymbols(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	seen := map[rune]struct{}{}
	for _, r := range fl.Field().String() {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			seen[r] = struct{}{}
		}
	}
	return len(seen) <= limit
}

type credentials struct {
	Username string `validate:"required,alpha,min=3,max=16"`
	Password string `validate:"required,min=6,max=16,maxsymbols=3"`
}

// ValidateUsername accepts 3-16 ASCII letters.
func ValidateUsername(username string) error {
	if err := validate.Var(username, "required,alpha,min=3,max=16"); err != nil {
		return &ValidationError{Field: "username", Message: "username must be 3-16 letters without digits or symbols"}
	}
	return nil
}

// ValidatePassword accepts 6-16 characters with at most 3 distinct symbols.
func ValidatePassword(password string) error {
	err := validate.Var(password, "required,min=6,max=16,maxsymbols=3")
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && verrs[0].Tag() == "maxsymbols" {
		return &ValidationError{Field: "password", Message: "password must not contain more than 3 distinct symbols"}
	}
	return &ValidationError{Field: "password", Message: "password must be 6 to 16 characters"}
}

func validateCredentials(username, password string) error {
	err := validate.Struct(credentials{Username: username, Password: password})
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Field() == "Username" {
				return ValidateUsername(username)
			}
		}
	}
	return ValidatePassword(password)
}

// ValidateUID accepts an all-digit game uid of at least minLen characters.
func ValidateUID(uid string, minLen int) error {
	if err := validate.Var(uid, "required,number"); err != nil {
		return &ValidationError{Field: "uid", Message: "uid must contain digits only", Err: ErrInvalidUID}
	}
	if err := validate.Var(uid, fmt.Sprintf("min=%d", minLen)); err != nil {
		return &ValidationError{Field: "uid", Message: fmt.Sprintf("uid must be at least %d digits", minLen), Err: ErrInvalidUID}
	}
	return nil
}
