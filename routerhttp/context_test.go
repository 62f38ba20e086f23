package routerhttp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParams(t *testing.T) {
	t.Run("no match in context", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Nil(t, Params(r))
		assert.Equal(t, "", RouteName(r))

		_, ok := ParamGet(r, "id")
		assert.False(t, ok)
	})

	t.Run("with match in context", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r = withMatch(r, "blog_show", map[string]string{"slug": "my-post"})

		assert.Equal(t, "blog_show", RouteName(r))
		assert.Equal(t, map[string]string{"slug": "my-post"}, Params(r))

		slug, ok := ParamGet(r, "slug")
		assert.True(t, ok)
		assert.Equal(t, "my-post", slug)

		_, ok = ParamGet(r, "missing")
		assert.False(t, ok)
	})
}

func TestSetParams(t *testing.T) {
	t.Run("for handler tests", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r = SetParams(r, map[string]string{"id": "42"})

		id, ok := ParamGet(r, "id")
		assert.True(t, ok)
		assert.Equal(t, "42", id)
	})

	t.Run("keeps the route name", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r = withMatch(r, "post_show", map[string]string{"id": "1"})
		r = SetParams(r, map[string]string{"id": "2"})

		assert.Equal(t, "post_show", RouteName(r))
		id, _ := ParamGet(r, "id")
		assert.Equal(t, "2", id)
	})
}
