package services

import "errors"

// Error taxonomy surfaced to the HTTP layer. Routes map these onto status
// codes in utils.HandleServiceError.
var (
	ErrUnauthorized = errors.New("you are not allowed to perform this action")
	ErrConflict     = errors.New("resource already exists")
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
)
