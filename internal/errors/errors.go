// Package errors defines the failure taxonomy shared across the transcript
// pipeline and its HTTP gateway. Callers classify failures with errors.Is and
// map them to responses; the underlying causes stay wrapped and are only ever
// logged, never rendered to clients.
package errors

import "errors"

var (
	// ErrUnauthorized: the inbound shared secret was missing or wrong.
	ErrUnauthorized = errors.New("invalid or missing API key")

	// ErrUnsupportedMedia: the uploaded audio content type is not allowed.
	ErrUnsupportedMedia = errors.New("unsupported audio content type")

	// ErrValidation: the request input itself was unusable (e.g. empty
	// transcript), rejected before any backend call.
	ErrValidation = errors.New("invalid request input")

	// ErrBackendUnavailable: an external service was unreachable, timed
	// out, or reported a terminal failure.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrMalformedResponse: a backend answered, but not in the expected
	// JSON shape, in a position where the contract forbids guessing.
	ErrMalformedResponse = errors.New("malformed backend response")
)
