// Package common defines shared constants, sentinel errors and small helpers
// used across the fieldcheck server and terminal client. Callers should use
// errors.Is to match the sentinel values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Token endpoint returned incomplete data.
	ErrAuthExchange = errors.New("authorization code exchange failed")
	ErrAuthRefresh  = errors.New("token refresh failed")

	// Item reference errors, scoped to a single update.
	ErrMalformedReference  = errors.New("malformed item reference")
	ErrReferenceOutOfRange = errors.New("item reference out of range")

	// Any non-2xx answer from the platform API.
	ErrUpstreamHTTP = errors.New("upstream http error")

	// Session cookie problems.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrOAuthState   = errors.New("oauth state mismatch")
)

// UpstreamError describes a non-2xx response from the platform API.
// It matches ErrUpstreamHTTP via errors.Is.
type UpstreamError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamHTTP
}
