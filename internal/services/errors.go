package services

import "errors"

// Stable error kinds surfaced to the HTTP layer. Handlers branch on these
// with errors.Is; the human-readable message lives with the handler.
var (
	// ErrValidation means required input is missing or malformed.
	ErrValidation = errors.New("invalid input")
	// ErrNotFound means the addressed entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail means the email is already registered to another user.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrUserAlreadyHasStore means the target user already owns a store.
	ErrUserAlreadyHasStore = errors.New("user already has a store")
	// ErrUserNotFound means a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrStoreNotFound means a referenced store does not exist.
	ErrStoreNotFound = errors.New("store not found")
)
