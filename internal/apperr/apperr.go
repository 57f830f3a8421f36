// Package apperr defines the error taxonomy shared by the stores, the
// admission pipeline and the HTTP layer. Errors are classified with
// cockroachdb/errors marks so wrapped detail survives for logging while
// handlers match on the sentinel.
package apperr

import (
	cr "github.com/cockroachdb/errors"
)

var (
	ErrUnauthorized        = cr.New("unauthorized")
	ErrInvalidRequest      = cr.New("invalid request")
	ErrQuotaExceeded       = cr.New("recipe quota exceeded")
	ErrRateLimited         = cr.New("rate limited")
	ErrUpstream            = cr.New("upstream AI API error")
	ErrMalformedAIResponse = cr.New("malformed AI response")
	ErrInvalidRecipeFormat = cr.New("invalid recipe format")
	ErrNotFound            = cr.New("not found")
	ErrStoreUnavailable    = cr.New("store unavailable")
)

// Mark classifies err as kind while keeping the original chain.
func Mark(err error, kind error) error {
	if err == nil {
		return kind
	}
	return cr.Mark(err, kind)
}

// Wrap annotates err with msg; returns nil for nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

// Is reports whether err matches kind, including marked chains.
func Is(err, kind error) bool {
	return cr.Is(err, kind)
}
