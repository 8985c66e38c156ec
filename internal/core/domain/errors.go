package domain

import "errors"

// Validation.
var ErrValidation = errors.New("validation failed")

// Authentication.
var (
	ErrTokenMissing          = errors.New("token is missing")
	ErrTokenMalformed        = errors.New("token is malformed")
	ErrTokenExpired          = errors.New("token has expired")
	ErrTokenInvalidSignature = errors.New("token signature is invalid")
	ErrSubjectNotFound       = errors.New("token subject not found")
	ErrInvalidCredentials    = errors.New("invalid credentials")
)

// Authorization.
var ErrForbidden = errors.New("insufficient permissions")

// Users and roles.
var (
	ErrDuplicateEmail = errors.New("user already exists")
	ErrUnknownRole    = errors.New("role does not exist")
	ErrUserNotFound   = errors.New("user not found")
	ErrRoleNotFound   = errors.New("role not found")
	ErrRoleExists     = errors.New("role already exists")
)

// Websites.
var ErrWebsiteNotFound = errors.New("website not found")

// Content generation. Both are recoverable; callers may retry.
var (
	ErrGenerationFailed  = errors.New("content generation failed")
	ErrMalformedResponse = errors.New("generated content is malformed")
)
