package services

import "errors"

// Common errors. Ownership-scoped lookups report the same not-found error
// whether the row is missing or belongs to someone else, so existence is
// never leaked.
var (
	ErrNoteNotFound       = errors.New("note not found")
	ErrLabelNotFound      = errors.New("label not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrLabelNameExists    = errors.New("label name already exists")
	ErrCategoryNameExists = errors.New("category name already exists")
	ErrCategoryCycle      = errors.New("category parent would create a cycle")
	ErrShareIDConflict    = errors.New("could not allocate a unique share id")
	ErrResourceExists     = errors.New("resource already exists")
	ErrInternal           = errors.New("internal server error")
)
