package listing

import "errors"

var (
	ErrCarNotFound   = errors.New("car not found")
	ErrNotAuthorized = errors.New("not authorized to manage this car")
	ErrCarDeleted    = errors.New("car is deleted")
)
