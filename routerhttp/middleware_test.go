package routerhttp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/wayfind/router"
)

func TestMethodOverrideMiddleware(t *testing.T) {
	seen := ""
	h := MethodOverrideMiddleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = r.Method
	}))

	t.Run("overrides POST", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/items/1", nil)
		r.Header.Set("X-HTTP-Method-Override", "delete")
		h.ServeHTTP(httptest.NewRecorder(), r)

		assert.Equal(t, http.MethodDelete, seen)
		assert.Empty(t, r.Header.Get("X-HTTP-Method-Override"))
	})

	t.Run("ignores non-POST", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/items/1", nil)
		r.Header.Set("X-HTTP-Method-Override", "DELETE")
		h.ServeHTTP(httptest.NewRecorder(), r)

		assert.Equal(t, http.MethodGet, seen)
	})

	t.Run("ignores disallowed override", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/items/1", nil)
		r.Header.Set("X-HTTP-Method-Override", "CONNECT")
		h.ServeHTTP(httptest.NewRecorder(), r)

		assert.Equal(t, http.MethodPost, seen)
	})

	t.Run("affects matching when wrapping the mux", func(t *testing.T) {
		c := router.New()
		c.MustRegister(
			router.NewDefinition("item_delete").Path("/items/{id}").Methods(http.MethodDelete),
		)
		m := New(c)
		m.HandleFunc("item_delete", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		require.NoError(t, m.Ready())

		r := httptest.NewRequest(http.MethodPost, "/items/1", nil)
		r.Header.Set("X-HTTP-Method-Override", "DELETE")
		rec := httptest.NewRecorder()
		MethodOverrideMiddleware(m).ServeHTTP(rec, r)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	t.Run("generates a uuid", func(t *testing.T) {
		var fromCtx string
		h := RequestIDMiddleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			fromCtx = RequestIDFromContext(r.Context())
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		id := rec.Header().Get("X-Request-ID")
		require.NotEmpty(t, id)
		assert.Equal(t, id, fromCtx)

		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	})

	t.Run("reuses an incoming id", func(t *testing.T) {
		h := RequestIDMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Request-ID", "upstream-id")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)

		assert.Equal(t, "upstream-id", rec.Header().Get("X-Request-ID"))
	})

	t.Run("no id in bare context", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Empty(t, RequestIDFromContext(r.Context()))
	})
}
