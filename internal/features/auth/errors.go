package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("email and password not match")
	ErrInvalidResetCode   = errors.New("invalid reset code")
	ErrEmailDelivery      = errors.New("failed to send email")
	ErrNotAvailable       = errors.New("endpoint not available in production")
)
