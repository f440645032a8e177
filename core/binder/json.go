package binder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// JSON returns a binder that decodes the request body as JSON.
// A missing Content-Type is accepted; any other media type than
// application/json or a +json suffix is rejected. Unknown fields are
// ignored. Body size limits are left to middleware, and a
// *http.MaxBytesError from the reader is returned as is.
func JSON() Binder {
	return func(r *http.Request, v any) error {
		if ct := r.Header.Get("Content-Type"); ct != "" {
			mediaType, _, err := mime.ParseMediaType(ct)
			if err != nil || !isJSONMediaType(mediaType) {
				return fmt.Errorf("%w: got %q, expected application/json", ErrUnsupportedMediaType, ct)
			}
		}

		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(v); err != nil {
			return decodeError(err)
		}

		// A second value after the first one is a malformed body.
		var extra json.RawMessage
		if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return maxErr
			}
			return fmt.Errorf("%w: unexpected data after JSON value", ErrFailedToParseJSON)
		}

		return nil
	}
}

func isJSONMediaType(mediaType string) bool {
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func decodeError(err error) error {
	var (
		maxErr  *http.MaxBytesError
		typeErr *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &maxErr):
		return maxErr
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return fmt.Errorf("%w: field %q must be %s", ErrInvalidFieldType, typeErr.Field, typeErr.Type)
		}
		return fmt.Errorf("%w: body must be %s", ErrInvalidFieldType, typeErr.Type)
	case errors.Is(err, io.EOF):
		return fmt.Errorf("%w: empty body", ErrFailedToParseJSON)
	default:
		return fmt.Errorf("%w: %v", ErrFailedToParseJSON, err)
	}
}
