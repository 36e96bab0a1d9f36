package idt

import (
	"fmt"
	"unicode/utf8"
)

// ExcerptLimit bounds how much of a response body is echoed back to users.
const ExcerptLimit = 200

// AuthError means the identity endpoint could not issue a token.
type AuthError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("idt auth: %v", e.Err)
	}
	return fmt.Sprintf("idt auth status=%d body=%s", e.StatusCode, Truncate(e.Body, ExcerptLimit))
}

func (e *AuthError) Unwrap() error { return e.Err }

// RemoteAPIError is a non-2xx answer from the design service.
type RemoteAPIError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *RemoteAPIError) Error() string {
	return fmt.Sprintf("idt %s status=%d body=%s", e.Operation, e.StatusCode, e.Excerpt())
}

// Excerpt returns the body cut to ExcerptLimit characters.
func (e *RemoteAPIError) Excerpt() string {
	return Truncate(e.Body, ExcerptLimit)
}

// ConnectivityError means the design service could not be reached or did not
// answer before the deadline.
type ConnectivityError struct {
	Operation string
	Err       error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("idt %s: %v", e.Operation, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// Truncate cuts s to at most max runes.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}
