package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandMacro(t *testing.T) {
	t.Run("known macro", func(t *testing.T) {
		pattern, matcher := expandMacro("int")
		assert.Equal(t, "[0-9]+", pattern)
		require.NotNil(t, matcher)
		assert.True(t, matcher.MatchString("42"))
		assert.False(t, matcher.MatchString("x"))
	})

	t.Run("unknown macro passes through", func(t *testing.T) {
		pattern, matcher := expandMacro("[a-z]{2}")
		assert.Equal(t, "[a-z]{2}", pattern)
		assert.Nil(t, matcher)
	})
}

func TestMacroMatchers(t *testing.T) {
	tests := []struct {
		macro string
		valid []string
		bad   []string
	}{
		{
			macro: "int",
			valid: []string{"0", "42", "999999"},
			bad:   []string{"", "-1", "4.2", "x"},
		},
		{
			macro: "float",
			valid: []string{"3.14", "42", ".5"},
			bad:   []string{"", "1.2.3", "x"},
		},
		{
			macro: "slug",
			valid: []string{"my-post-title", "a", "a1-b2"},
			bad:   []string{"", "-start", "end-", "two--dashes"},
		},
		{
			macro: "alpha",
			valid: []string{"hello", "ABC"},
			bad:   []string{"", "abc1", "a-b"},
		},
		{
			macro: "alphanum",
			valid: []string{"abc123", "A1"},
			bad:   []string{"", "a-1"},
		},
		{
			macro: "date",
			valid: []string{"2024-06-01"},
			bad:   []string{"", "2024-6-1", "20240601"},
		},
		{
			macro: "hex",
			valid: []string{"deadBEEF", "0123"},
			bad:   []string{"", "xyz"},
		},
		{
			macro: "domain",
			valid: []string{"example.com", "a.b.c.example.org", "localhost"},
			bad:   []string{"", "-bad.com", "bad-.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.macro, func(t *testing.T) {
			m, ok := patternMacros[tt.macro]
			require.True(t, ok)
			for _, v := range tt.valid {
				assert.True(t, m.matcher.MatchString(v), "expected %q to match", v)
			}
			for _, v := range tt.bad {
				assert.False(t, m.matcher.MatchString(v), "expected %q not to match", v)
			}
		})
	}
}

func TestUUIDMacro(t *testing.T) {
	m, ok := patternMacros["uuid"]
	require.True(t, ok)

	assert.True(t, m.matcher.MatchString("550e8400-e29b-41d4-a716-446655440000"))
	assert.True(t, m.matcher.MatchString("6BA7B810-9DAD-11D1-80B4-00C04FD430C8"))

	assert.False(t, m.matcher.MatchString("not-a-uuid"))
	assert.False(t, m.matcher.MatchString("550e8400e29b41d4a716446655440000"))
}

func TestDomainMacroLengthLimit(t *testing.T) {
	m := patternMacros["domain"]

	label := make([]byte, 63)
	for i := range label {
		label[i] = 'a'
	}
	long := string(label) + "." + string(label) + "." + string(label) + "." + string(label) + ".com"
	assert.Greater(t, len(long), 253)
	assert.False(t, m.matcher.MatchString(long))
}
