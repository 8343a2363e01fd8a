package models

import "errors"

var (
	// ErrNotFound is returned when a referenced order, billing record, route
	// or user does not exist. Fatal for the message that carried the
	// reference; subject to the retry-then-drop policy.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyProcessed signals an idempotency short-circuit. Not a
	// failure; handlers treat it as success.
	ErrAlreadyProcessed = errors.New("already processed")

	// ErrValidation marks an unparsable or unrecognized message body.
	// Retrying cannot help, so the message is dropped immediately.
	ErrValidation = errors.New("validation failed")
)
