package api

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the backend has no saved record for the
// requested (user, topic). Callers treat it as "use defaults", not as a
// hard failure.
var ErrNotFound = errors.New("not found")

// AuthError indicates rejected credentials or a rejected registration.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

// ValidationError indicates a required field was missing or malformed.
// It is raised client-side before any network call is made.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// GenerationError indicates an AI generation call failed.
type GenerationError struct {
	Kind string // "section", "image" or "template"
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generating %s: %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// SaveError indicates a persistence call failed. Local state is left
// unchanged so the user can retry manually.
type SaveError struct {
	What string // "section" or "webpage"
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("saving %s: %v", e.What, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// HostError indicates one of the two upload phases of a publish failed.
// A partial result from the first phase is still usable.
type HostError struct {
	Phase string // "upload" or "canonicalize"
	Err   error
}

func (e *HostError) Error() string {
	return fmt.Sprintf("hosting webpage (%s): %v", e.Phase, e.Err)
}

func (e *HostError) Unwrap() error { return e.Err }

// RequestError is a generic failure of a backend call: transport errors
// and unexpected status codes.
type RequestError struct {
	StatusCode int // zero for transport failures
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("backend error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }
