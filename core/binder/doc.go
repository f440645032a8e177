// Package binder decodes HTTP request bodies into Go values.
//
//	var req struct {
//		Value *string `json:"value"`
//	}
//	if err := binder.JSON()(r, &req); err != nil {
//		// errors.Is(err, binder.ErrFailedToParseJSON): malformed body
//		// errors.Is(err, binder.ErrInvalidFieldType): wrong type for a field
//		// errors.Is(err, binder.ErrUnsupportedMediaType): not JSON
//	}
package binder
