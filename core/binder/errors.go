package binder

import "errors"

var (
	// ErrUnsupportedMediaType means the Content-Type names a format the binder
	// does not read.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrFailedToParseJSON means the body is not a single well-formed JSON value.
	ErrFailedToParseJSON = errors.New("failed to parse JSON request body")

	// ErrInvalidFieldType means the JSON is well-formed but a field holds a
	// value of the wrong type.
	ErrInvalidFieldType = errors.New("invalid field type")
)
