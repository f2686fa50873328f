// Package validate rejects malformed input before any network call is made.
package validate

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var v = validator.New()

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// Registration is the client-side shape of a new account request
type Registration struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
	Name     string `validate:"required,min=2"`
	Phone    string `validate:"omitempty,min=7,max=20"`
}

// Login validates login input
func Login(email, password string) error {
	return friendly(v.Struct(credentials{Email: email, Password: password}))
}

// Register validates registration input
func Register(reg Registration) error {
	return friendly(v.Struct(reg))
}

// PasswordsMatch checks an interactive confirmation prompt
func PasswordsMatch(password, confirm string) error {
	if password != confirm {
		return errors.New("passwords do not match")
	}
	return nil
}

// friendly rewrites the first validator error into a user-facing message
func friendly(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	switch fe.Field() {
	case "Email":
		return errors.New("invalid email address")
	case "Password":
		if fe.Tag() == "min" {
			return fmt.Errorf("password must be at least %s characters", fe.Param())
		}
		return errors.New("password is required")
	case "Name":
		return errors.New("name is required")
	case "Phone":
		return errors.New("invalid phone number")
	default:
		return fmt.Errorf("invalid %s", fe.Field())
	}
}
