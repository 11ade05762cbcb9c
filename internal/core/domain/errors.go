package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials indicates wrong email/password combination
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrDimensionMismatch indicates two vectors of unequal length were compared
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrGenerationCancelled indicates the caller aborted an in-flight generation.
	// Distinct from provider failure: the user stopped it, it did not break.
	ErrGenerationCancelled = errors.New("generation cancelled")

	// ErrGenerationNotFound indicates no active generation exists for the given id
	ErrGenerationNotFound = errors.New("generation not found")

	// ErrProviderUnavailable indicates the AI provider could not be reached
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrInvalidProvider indicates an unknown AI provider was specified
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrServiceUnavailable indicates a backing service could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")
)
