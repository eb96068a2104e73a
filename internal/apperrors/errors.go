// Package apperrors holds errors shared between layers; match them with errors.Is
package apperrors

import "errors"

// Users and credentials
var (
	ErrLoginTaken     = errors.New("login is taken")
	ErrUserNotFound   = errors.New("user not found")
	ErrBadCredentials = errors.New("login or password is wrong")
	ErrUnauthorized   = errors.New("request is not authenticated")
)

// Refresh tokens
var (
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenIsUsed   = errors.New("refresh token is used")
	ErrRefreshTokenExpired  = errors.New("refresh token is expired")
)

// Checks
var (
	ErrBatchEmpty     = errors.New("batch has no numbers")
	ErrBatchTooLarge  = errors.New("batch has too many numbers")
	ErrPayloadInvalid = errors.New("payload is not a digits sequence")
)
