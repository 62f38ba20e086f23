// Package routerconf loads declarative route tables from YAML documents
// into router definitions.
//
// A route table is a mapping of route names to entries:
//
//	blog_show:
//	  path: /blog/{slug}
//	  methods: [GET]
//	  requirements:
//	    slug: "[a-z0-9-]+"
//	blog_list:
//	  path: /blog/{page}
//	  defaults:
//	    page: 1
//	about:
//	  locales:
//	    en: /about
//	    nl: /over-ons
//	  priority: 5
//
// Document order is preserved, so routes with equal priority keep their
// declared precedence after the collection is frozen.
package routerconf

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vitalvas/wayfind/router"
)

// scalarString accepts any YAML scalar (string, int, bool) and keeps its
// textual form, so "defaults: {page: 1}" needs no quoting.
type scalarString string

func (s *scalarString) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value", node.Line)
	}
	*s = scalarString(node.Value)
	return nil
}

// routeEntry mirrors one named entry of the YAML route table.
type routeEntry struct {
	Path         string                  `yaml:"path"`
	Locales      map[string]string       `yaml:"locales"`
	Host         string                  `yaml:"host"`
	Methods      []string                `yaml:"methods"`
	Schemes      []string                `yaml:"schemes"`
	Requirements map[string]scalarString `yaml:"requirements"`
	Defaults     map[string]scalarString `yaml:"defaults"`
	Condition    string                  `yaml:"condition"`
	Priority     int                     `yaml:"priority"`
}

// toDefinition converts the entry to a router definition. Validation is
// left to registration, which owns the real template checks.
func (e *routeEntry) toDefinition(name string) *router.Definition {
	def := router.NewDefinition(name)
	if len(e.Locales) > 0 {
		def.PathLocalized(e.Locales)
	} else {
		def.Path(e.Path)
	}
	if e.Host != "" {
		def.Host(e.Host)
	}
	def.Methods(e.Methods...)
	def.Schemes(e.Schemes...)
	for param, pattern := range e.Requirements {
		def.Requirement(param, string(pattern))
	}
	for param, value := range e.Defaults {
		def.Default(param, string(value))
	}
	if e.Condition != "" {
		def.Condition(e.Condition)
	}
	def.Priority(e.Priority)
	return def
}

// Load parses a YAML route table, returning the definitions in document
// order. An empty document yields no definitions and no error.
func Load(r io.Reader) ([]*router.Definition, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("routerconf: %w", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, nil
		}
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("routerconf: line %d: top level must be a mapping of route names", root.Line)
	}

	defs := make([]*router.Definition, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		nameNode, entryNode := root.Content[i], root.Content[i+1]

		var entry routeEntry
		if err := entryNode.Decode(&entry); err != nil {
			return nil, fmt.Errorf("routerconf: route %q: %w", nameNode.Value, err)
		}
		defs = append(defs, entry.toDefinition(nameNode.Value))
	}
	return defs, nil
}

// LoadFile reads and parses the YAML route table at path.
func LoadFile(path string) ([]*router.Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("routerconf: %w", err)
	}
	defer f.Close()
	return Load(f)
}
