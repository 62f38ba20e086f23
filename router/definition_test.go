package router

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinitionValidate(t *testing.T) {
	tests := []struct {
		name     string
		def      *Definition
		sentinel error
	}{
		{
			name: "valid definition",
			def: NewDefinition("ok").Path("/x").
				Methods(http.MethodGet, http.MethodPost).
				Schemes("https"),
		},
		{
			name:     "empty name",
			def:      NewDefinition("").Path("/x"),
			sentinel: ErrEmptyName,
		},
		{
			name:     "missing path",
			def:      NewDefinition("r"),
			sentinel: ErrMissingPath,
		},
		{
			name:     "unknown method",
			def:      NewDefinition("r").Path("/x").Methods("FETCH"),
			sentinel: ErrUnknownMethod,
		},
		{
			name:     "unknown scheme",
			def:      NewDefinition("r").Path("/x").Schemes("gopher"),
			sentinel: ErrUnknownScheme,
		},
		{
			name: "localized path is enough",
			def:  NewDefinition("r").PathLocalized(map[string]string{"en": "/about"}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.validate()
			if tt.sentinel == nil {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.sentinel)
			}
		})
	}
}

func TestDefinitionMethodsNormalized(t *testing.T) {
	def := NewDefinition("r").Path("/x").Methods("get", "Post")
	require.NoError(t, def.validate())
	assert.True(t, def.allowsMethod(http.MethodGet))
	assert.True(t, def.allowsMethod(http.MethodPost))
	assert.False(t, def.allowsMethod(http.MethodDelete))
}

func TestDefinitionSchemesNormalized(t *testing.T) {
	def := NewDefinition("r").Path("/x").Schemes("HTTPS")
	require.NoError(t, def.validate())
	assert.True(t, def.allowsScheme("https"))
	assert.False(t, def.allowsScheme("http"))
}

func TestDefinitionEmptyRestrictionsAllowAnything(t *testing.T) {
	def := NewDefinition("r").Path("/x")
	assert.True(t, def.allowsMethod(http.MethodTrace))
	assert.True(t, def.allowsScheme("https"))
	assert.True(t, def.allowsScheme("http"))
}
