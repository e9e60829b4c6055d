package service

import "errors"

var (
	// ErrNotFound covers both a missing resource and one owned by another
	// user; the two are deliberately indistinguishable.
	ErrNotFound = errors.New("resource not found")
	// ErrEmailTaken is a duplicate email on register or profile update.
	ErrEmailTaken = errors.New("email already exists")
	// ErrInvalidCredentials is a failed login; the cause (unknown email vs.
	// wrong password) is not exposed.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError is a malformed or unacceptable input value.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func validationf(reason string) error {
	return &ValidationError{Reason: reason}
}
