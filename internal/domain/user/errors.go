package user

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserExists        = errors.New("user already exists")
	ErrInvalidCredential = errors.New("invalid login or password")
	ErrAccountLocked     = errors.New("account temporarily locked")
	ErrAccountDisabled   = errors.New("account disabled")
)
