package domain

import "errors"

var (
	ErrClientNotFound       = errors.New("client not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserExists           = errors.New("user already exists")
	ErrTemplateNotFound     = errors.New("deployment template not found")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrForbidden            = errors.New("access forbidden")
	ErrValidation           = errors.New("validation failed")
	ErrProviderNotConnected = errors.New("provider not connected")
	ErrUpstream             = errors.New("upstream provider failure")
	ErrInvalidState         = errors.New("invalid oauth state")
	ErrInvalidSignature     = errors.New("invalid webhook signature")
)

// ValidationError is a client-facing validation message. It matches
// ErrValidation under errors.Is.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid returns a ValidationError with msg.
func Invalid(msg string) error {
	return &ValidationError{Msg: msg}
}
