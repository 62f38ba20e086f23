package routerconf

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/wayfind/router"
)

const sampleTable = `
blog_show:
  path: /blog/{slug}
  methods: [GET]
  requirements:
    slug: "[a-z0-9-]+"

items_create:
  path: /items
  methods: [POST]
  schemes: [https]
  priority: 5

archive:
  path: /archive/{year}/{month}
  requirements:
    year: '\d{4}'
    month: '\d{2}'
  defaults:
    month: 01

about:
  locales:
    en: /about
    nl: /over-ons

admin:
  path: /dashboard
  host: admin.example.com
  condition: "header('X-Admin') != ''"
`

func TestLoad(t *testing.T) {
	defs, err := Load(strings.NewReader(sampleTable))
	require.NoError(t, err)
	require.Len(t, defs, 5)

	c := router.New(router.WithDefaultLocale("en"))
	require.NoError(t, c.Register(defs...))
	c.Freeze()

	t.Run("document order survives registration", func(t *testing.T) {
		var names []string
		for route := range c.Routes() {
			names = append(names, route.Name())
		}
		// items_create has priority 5, the rest keep document order.
		assert.Equal(t, []string{"items_create", "blog_show", "archive", "about", "admin"}, names)
	})

	t.Run("loaded routes match", func(t *testing.T) {
		m, err := c.Match(&router.Request{Path: "/blog/my-post", Method: http.MethodGet})
		require.NoError(t, err)
		assert.Equal(t, "blog_show", m.Name)
		assert.Equal(t, "my-post", m.Params["slug"])
	})

	t.Run("unquoted scalar default", func(t *testing.T) {
		m, err := c.Match(&router.Request{Path: "/archive/2024", Method: http.MethodGet})
		require.NoError(t, err)
		assert.Equal(t, "01", m.Params["month"])
	})

	t.Run("locales", func(t *testing.T) {
		m, err := c.Match(&router.Request{Path: "/over-ons", Method: http.MethodGet})
		require.NoError(t, err)
		assert.Equal(t, "about", m.Name)
		assert.Equal(t, "nl", m.Params[router.LocaleParam])
	})

	t.Run("condition", func(t *testing.T) {
		header := http.Header{}
		header.Set("X-Admin", "1")
		m, err := c.Match(&router.Request{
			Path:   "/dashboard",
			Method: http.MethodGet,
			Host:   "admin.example.com",
			Header: header,
		})
		require.NoError(t, err)
		assert.Equal(t, "admin", m.Name)

		_, err = c.Match(&router.Request{
			Path:   "/dashboard",
			Method: http.MethodGet,
			Host:   "admin.example.com",
		})
		assert.ErrorIs(t, err, router.ErrNotFound)
	})

	t.Run("method and scheme restrictions", func(t *testing.T) {
		m, err := c.Match(&router.Request{Path: "/items", Method: http.MethodPost, Scheme: "https"})
		require.NoError(t, err)
		assert.Equal(t, "items_create", m.Name)

		_, err = c.Match(&router.Request{Path: "/items", Method: http.MethodGet, Scheme: "https"})
		assert.ErrorIs(t, err, router.ErrNotAllowed)
	})
}

func TestLoadErrors(t *testing.T) {
	t.Run("empty document", func(t *testing.T) {
		defs, err := Load(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, defs)
	})

	t.Run("top level sequence", func(t *testing.T) {
		_, err := Load(strings.NewReader("- a\n- b\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mapping of route names")
	})

	t.Run("entry is not a mapping", func(t *testing.T) {
		_, err := Load(strings.NewReader("home: /just-a-string\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `route "home"`)
	})

	t.Run("requirement is not a scalar", func(t *testing.T) {
		_, err := Load(strings.NewReader("home:\n  path: /\n  requirements:\n    id: [a, b]\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "scalar")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(strings.NewReader("home:\n  path: [unclosed\n"))
		assert.Error(t, err)
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("reads a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "routes.yaml")
		require.NoError(t, os.WriteFile(path, []byte(sampleTable), 0o600))

		defs, err := LoadFile(path)
		require.NoError(t, err)
		assert.Len(t, defs, 5)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
