package models

import "errors"

// Application-wide standard errors
var (
	// Common Resource/DB Errors
	ErrNotFound = errors.New("resource not found")

	// Graph store errors
	ErrGraphUnreachable = errors.New("story graph store is unreachable")
	ErrNoStartPage      = errors.New("story has no start page")

	// Traversal errors
	ErrSuspendedStory    = errors.New("story is suspended")
	ErrInvalidTransition = errors.New("chosen page is not offered by the current page")

	// Authorization Errors
	ErrUnauthorized = errors.New("unauthorized") // Authentication required or failed
	ErrForbidden    = errors.New("forbidden")    // Authenticated, but lacks permission

	// Token Errors
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")

	// General Request/Server Errors
	ErrInternalServer = errors.New("internal server error")
	ErrInvalidInput   = errors.New("invalid input data")
)
