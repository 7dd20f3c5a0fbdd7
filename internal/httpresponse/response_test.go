package httpresponse

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteJSON(rec, http.StatusOK, []byte(`{"unit_action":[]}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "18", rec.Header().Get("Content-Length"))
	assert.Equal(t, `{"unit_action":[]}`, rec.Body.String())
}

func TestWriteText(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteText(rec, http.StatusInternalServerError, "boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
	assert.Equal(t, "boom", rec.Body.String())
}

func TestWriteInternalErrorResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteInternalErrorResponse(rec))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, INTERNALERRORTEXT, rec.Body.String())
}
