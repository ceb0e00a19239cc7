package domain

import "errors"

var (
	// ErrInvalidRequest signals a malformed search request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidGeo signals a geo specification that cannot be compiled.
	ErrInvalidGeo = errors.New("invalid geo filter")
	// ErrBackendUnavailable signals a failed call to the search backend.
	ErrBackendUnavailable = errors.New("search backend unavailable")
	// ErrRecognizerUnavailable signals a failed call to a place recognizer.
	ErrRecognizerUnavailable = errors.New("place recognizer unavailable")
)

// KeyPrefix is the default namespace for keys written by geosearch.
const KeyPrefix = "geosearch:"
