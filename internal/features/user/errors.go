package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("user already exist")
	ErrInvalidPassword    = errors.New("password must be at least 8 characters long")
	ErrInvalidCredentials = errors.New("email and password not match")
)

// MinPasswordLength is enforced on registration and reset.
const MinPasswordLength = 8

// DefaultPicture is assigned to new accounts.
const DefaultPicture = "avatar.png"
