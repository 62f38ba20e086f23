package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileRegexp(t *testing.T) {
	t.Run("compiles valid pattern", func(t *testing.T) {
		re, err := compileRegexp(`^[0-9]+$`)
		require.NoError(t, err)
		assert.True(t, re.MatchString("123"))
		assert.False(t, re.MatchString("abc"))
	})

	t.Run("returns cached instance", func(t *testing.T) {
		re1, err := compileRegexp(`^cached-test-[a-z]+$`)
		require.NoError(t, err)
		re2, err := compileRegexp(`^cached-test-[a-z]+$`)
		require.NoError(t, err)
		assert.Same(t, re1, re2)
	})

	t.Run("invalid pattern returns error", func(t *testing.T) {
		_, err := compileRegexp(`^([0-9+$`)
		assert.Error(t, err)
	})

	t.Run("identical requirements share one regexp", func(t *testing.T) {
		cp1, err := compilePattern(NewDefinition("a"), "/a/{id:[0-9]{6}}", false)
		require.NoError(t, err)
		cp2, err := compilePattern(NewDefinition("b"), "/b/{id:[0-9]{6}}", false)
		require.NoError(t, err)

		m1, _ := cp1.requirement("id")
		m2, _ := cp2.requirement("id")
		assert.Same(t, m1, m2)
	})
}

// --- Benchmarks ---

func BenchmarkCompileRegexpCached(b *testing.B) {
	// Prime the cache.
	compileRegexp(`^[0-9]+$`) //nolint:errcheck

	b.ResetTimer()
	for b.Loop() {
		compileRegexp(`^[0-9]+$`) //nolint:errcheck
	}
}

func BenchmarkMatch(b *testing.B) {
	c := New()
	c.MustRegister(
		NewDefinition("static").Path("/about"),
		NewDefinition("blog_show").Path("/blog/{slug:slug}"),
		NewDefinition("archive").Path("/archive/{year:int}/{month:int}"),
	)
	c.Freeze()

	req := &Request{Path: "/archive/2024/06", Method: "GET"}

	b.ResetTimer()
	for b.Loop() {
		c.Match(req) //nolint:errcheck
	}
}

func BenchmarkGenerate(b *testing.B) {
	c := New()
	c.MustRegister(NewDefinition("blog_show").Path("/blog/{slug:slug}"))
	c.Freeze()

	params := map[string]string{"slug": "my-post", "page": "2"}

	b.ResetTimer()
	for b.Loop() {
		c.Generate("blog_show", params, RelativePath) //nolint:errcheck
	}
}
