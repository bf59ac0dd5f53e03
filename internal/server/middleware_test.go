package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestPanicRecoveryMiddleware(t *testing.T) {
	s := &Server{
		cfg:     DefaultConfig(),
		limiter: rate.NewLimiter(100, 200),
	}

	handler := s.requestIDMiddleware(s.panicRecoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/state", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, ErrCodeInternalError, resp.Code)
	assert.Equal(t, rec.Header().Get("X-Request-Id"), resp.RequestID)
	assert.True(t, resp.Retryable)
}

func TestResponseWriterCapturesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	rw.WriteHeader(http.StatusTeapot)
	rw.WriteHeader(http.StatusOK)
	_, err := rw.Write([]byte("x"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusTeapot, rw.Status())
	assert.Equal(t, http.StatusTeapot, rec.Code)

	_, _, err = rw.Hijack()
	assert.Error(t, err, "recorder is not hijackable")
}
