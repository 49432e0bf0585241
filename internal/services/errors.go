// Package services defines the business logic for books, the admin gate,
// and embed resolution. This file centralizes common service-level error
// values so that they can be consistently returned by service methods and
// checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import "errors"

// Book-related errors.
var (
	// ErrBookNotFound indicates that the requested book does not exist.
	ErrBookNotFound = errors.New("book not found")

	// ErrMissingField is returned when a create/update request is missing
	// the title or one of the two links. Validation happens before any
	// store write is issued.
	ErrMissingField = errors.New("title, marketplace_url and endorsement_url are required")

	// ErrInvalidURL is returned when a submitted link is not an absolute
	// http(s) URL.
	ErrInvalidURL = errors.New("links must be absolute http(s) URLs")
)

// Gate-related errors.
var (
	// ErrMissingPassword is returned when the gate request carries no password.
	ErrMissingPassword = errors.New("password is required")

	// ErrWrongPassword is returned when the supplied password does not match
	// the configured admin secret.
	ErrWrongPassword = errors.New("password is incorrect")

	// ErrGateNotConfigured is returned when no admin secret is configured on
	// the server. This is a deployment fault, not a client fault.
	ErrGateNotConfigured = errors.New("admin password is not configured")
)
