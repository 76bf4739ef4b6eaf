package ui

import "errors"

// Form validation errors. They are reported in the status line and the core
// is never called.
var (
	ErrEmptyUsername    = errors.New("please enter a username")
	ErrEmptyPassword    = errors.New("please enter a password")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// ValidateLogin checks the login form. Values are compared as typed.
func ValidateLogin(username, password string) error {
	if username == "" {
		return ErrEmptyUsername
	}
	if password == "" {
		return ErrEmptyPassword
	}
	return nil
}

// ValidateRegister checks the register form.
func ValidateRegister(username, password, confirm string) error {
	if err := ValidateLogin(username, password); err != nil {
		return err
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}
