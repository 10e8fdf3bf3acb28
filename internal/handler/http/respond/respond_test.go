package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["error"]
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	JSON(rec, http.StatusOK, map[string]int{"count": 3})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"count":3}`, rec.Body.String())
}

func TestJSON_NilBody(t *testing.T) {
	rec := httptest.NewRecorder()

	JSON(rec, http.StatusAccepted, nil)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()

	Error(rec, http.StatusBadRequest, errors.New("query parameter q is required"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "query parameter q is required", decodeError(t, rec))
}

func TestSafeError(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		err      error
		wantBody string
	}{
		{
			name:     "validation error passes through",
			code:     http.StatusBadRequest,
			err:      errors.New("email is required"),
			wantBody: "email is required",
		},
		{
			name:     "rate limit error passes through",
			code:     http.StatusTooManyRequests,
			err:      errors.New("rate limit exceeded"),
			wantBody: "rate limit exceeded",
		},
		{
			name:     "internal detail is masked",
			code:     http.StatusBadGateway,
			err:      errors.New("dial tcp 10.0.0.5:5432: connection refused"),
			wantBody: "internal server error",
		},
		{
			name:     "5xx is always masked even with safe marker",
			code:     http.StatusInternalServerError,
			err:      errors.New("user not found in cache"),
			wantBody: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			SafeError(rec, tt.code, tt.err)

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.wantBody, decodeError(t, rec))
		})
	}
}

func TestSafeError_NilError(t *testing.T) {
	rec := httptest.NewRecorder()

	SafeError(rec, http.StatusInternalServerError, nil)

	assert.Empty(t, rec.Body.String())
}
