package binder_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azim128/LiveDataStream/core/binder"
)

type payload struct {
	Value *string `json:"value"`
}

func newRequest(body, contentType string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func TestJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		contentType string
		wantErr     error
		wantValue   string
	}{
		{name: "valid", body: `{"value":"hello"}`, contentType: "application/json", wantValue: "hello"},
		{name: "charset_param", body: `{"value":"x"}`, contentType: "application/json; charset=utf-8", wantValue: "x"},
		{name: "suffix_json", body: `{"value":"x"}`, contentType: "application/merge-patch+json", wantValue: "x"},
		{name: "missing_content_type", body: `{"value":"x"}`, wantValue: "x"},
		{name: "unknown_fields_ignored", body: `{"value":"x","other":1}`, contentType: "application/json", wantValue: "x"},
		{name: "wrong_media_type", body: `value=x`, contentType: "application/x-www-form-urlencoded", wantErr: binder.ErrUnsupportedMediaType},
		{name: "malformed", body: `{"value":`, contentType: "application/json", wantErr: binder.ErrFailedToParseJSON},
		{name: "empty", body: ``, contentType: "application/json", wantErr: binder.ErrFailedToParseJSON},
		{name: "trailing_data", body: `{"value":"x"} {}`, contentType: "application/json", wantErr: binder.ErrFailedToParseJSON},
		{name: "wrong_field_type", body: `{"value":5}`, contentType: "application/json", wantErr: binder.ErrInvalidFieldType},
		{name: "array_body", body: `["x"]`, contentType: "application/json", wantErr: binder.ErrInvalidFieldType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var p payload
			err := binder.JSON()(newRequest(tt.body, tt.contentType), &p)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, p.Value)
			assert.Equal(t, tt.wantValue, *p.Value)
		})
	}
}

func TestJSON_MaxBytesErrorPassesThrough(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := newRequest(`{"value":"`+strings.Repeat("a", 64)+`"}`, "application/json")
	req.Body = http.MaxBytesReader(rec, req.Body, 16)

	var p payload
	err := binder.JSON()(req, &p)

	var maxErr *http.MaxBytesError
	require.True(t, errors.As(err, &maxErr), "got %v", err)
	assert.Equal(t, int64(16), maxErr.Limit)
}
