package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerServesIndex(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Always Evening")
	assert.Contains(t, rec.Body.String(), "/api/generate")
}

func TestPlayAllSettlesOnFailedPlayback(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	page := rec.Body.String()

	// a clip resolves on error and on a rejected play() as well as on end
	assert.Contains(t, page, "a.onerror = done;")
	assert.Contains(t, page, "p.catch(done)")
	// manual playback cancels a running play-all
	assert.Contains(t, page, "if (run !== state.run) return;")
}
