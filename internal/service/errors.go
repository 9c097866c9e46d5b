package service

import "errors"

var (
	// ErrInvalidInput is returned when a request is missing a required field.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownDocType is returned when the requested doc type is not
	// registered for the user.
	ErrUnknownDocType = errors.New("unknown doc type")
)
