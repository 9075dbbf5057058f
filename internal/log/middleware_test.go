package log

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusWriterCapturesStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rr, status: http.StatusOK}

	sw.WriteHeader(http.StatusNotFound)
	assert.Equal(t, http.StatusNotFound, sw.status)

	// Later writes must not overwrite the recorded status.
	sw.WriteHeader(http.StatusInternalServerError)
	assert.Equal(t, http.StatusNotFound, sw.status)
}

func TestStatusWriterDefaultsTo200OnWrite(t *testing.T) {
	rr := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rr, status: http.StatusOK}

	_, err := sw.Write([]byte("body"))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, sw.status)
	assert.Equal(t, "body", rr.Body.String())
}

func TestMiddlewarePassesThrough(t *testing.T) {
	handler := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/reports", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)
}
