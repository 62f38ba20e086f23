package openapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/wayfind/router"
)

func TestHandler(t *testing.T) {
	handler := NewSpec(Info{Title: "Blog API", Version: "1.0.0"}, testCollection(t)).Handler()

	for range 2 {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "openapi: 3.1.0")
		assert.Contains(t, rec.Body.String(), "/blog/{slug}")
	}
}

func TestHandlerBuildError(t *testing.T) {
	c := router.New()
	require.NoError(t, c.Register(
		router.NewDefinition("home").Path("/"),
	))
	// Collection never frozen, so building the document fails.
	handler := NewSpec(Info{Title: "t", Version: "1"}, c).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
