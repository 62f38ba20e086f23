// Package openapi generates an OpenAPI v3.1.0 document from the routes of
// a frozen router collection.
//
// Paths, methods and path parameters come from the route definitions
// themselves; requirement patterns become JSON Schema pattern constraints.
// Optional per-operation metadata is attached by route name:
//
//	spec := openapi.NewSpec(openapi.Info{Title: "Blog API", Version: "1.0.0"}, c)
//	spec.Op("blog_show").Summary("Show one post").Tags("blog")
//	doc, err := spec.Build()
//
// See: https://spec.openapis.org/oas/v3.1.0
package openapi

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vitalvas/wayfind/router"
)

// Info holds the document metadata required by the OpenAPI specification.
type Info struct {
	Title       string `yaml:"title"`
	Version     string `yaml:"version"`
	Description string `yaml:"description,omitempty"`
}

// Server describes one server entry of the document.
type Server struct {
	URL         string `yaml:"url"`
	Description string `yaml:"description,omitempty"`
}

// Parameter describes one path parameter of an operation.
type Parameter struct {
	Name     string  `yaml:"name"`
	In       string  `yaml:"in"`
	Required bool    `yaml:"required"`
	Schema   *Schema `yaml:"schema,omitempty"`
}

// Schema is the subset of JSON Schema the generator emits for parameters.
type Schema struct {
	Type    string `yaml:"type"`
	Pattern string `yaml:"pattern,omitempty"`
	Default string `yaml:"default,omitempty"`
}

// Operation is one method entry under a path.
type Operation struct {
	OperationID string       `yaml:"operationId"`
	Summary     string       `yaml:"summary,omitempty"`
	Description string       `yaml:"description,omitempty"`
	Tags        []string     `yaml:"tags,omitempty"`
	Deprecated  bool         `yaml:"deprecated,omitempty"`
	Parameters  []*Parameter `yaml:"parameters,omitempty"`
}

// Document is the marshalable OpenAPI document.
type Document struct {
	OpenAPI string                           `yaml:"openapi"`
	Info    Info                             `yaml:"info"`
	Servers []Server                         `yaml:"servers,omitempty"`
	Paths   map[string]map[string]*Operation `yaml:"paths"`
}

// WriteYAML marshals the document as YAML to w.
func (d *Document) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return enc.Close()
}

// OpMeta holds optional metadata attached to a named route's operations.
type OpMeta struct {
	summary     string
	description string
	tags        []string
	deprecated  bool
}

// Summary sets the operation summary.
func (m *OpMeta) Summary(s string) *OpMeta {
	m.summary = s
	return m
}

// Description sets the operation description.
func (m *OpMeta) Description(s string) *OpMeta {
	m.description = s
	return m
}

// Tags appends operation tags.
func (m *OpMeta) Tags(tags ...string) *OpMeta {
	m.tags = append(m.tags, tags...)
	return m
}

// Deprecated marks the operation as deprecated.
func (m *OpMeta) Deprecated() *OpMeta {
	m.deprecated = true
	return m
}

// Spec builds OpenAPI documents from a route collection.
type Spec struct {
	info       Info
	servers    []Server
	collection *router.Collection
	meta       map[string]*OpMeta
}

// NewSpec creates a document builder over the given collection.
func NewSpec(info Info, c *router.Collection) *Spec {
	return &Spec{
		info:       info,
		collection: c,
		meta:       make(map[string]*OpMeta),
	}
}

// Server appends a server entry to the document.
func (s *Spec) Server(url, description string) *Spec {
	s.servers = append(s.servers, Server{URL: url, Description: description})
	return s
}

// Op returns the metadata builder for the named route, creating it on
// first use. Unknown names are reported by Build.
func (s *Spec) Op(routeName string) *OpMeta {
	m, ok := s.meta[routeName]
	if !ok {
		m = &OpMeta{}
		s.meta[routeName] = m
	}
	return m
}

// Build walks the frozen collection and assembles the document. Routes
// restricted to no particular method are documented under "get".
func (s *Spec) Build() (*Document, error) {
	if !s.collection.Frozen() {
		return nil, fmt.Errorf("openapi: collection must be frozen before building")
	}
	for name := range s.meta {
		if _, ok := s.collection.ByName(name); !ok {
			return nil, fmt.Errorf("openapi: metadata attached to unknown route %q", name)
		}
	}

	doc := &Document{
		OpenAPI: "3.1.0",
		Info:    s.info,
		Servers: s.servers,
		Paths:   make(map[string]map[string]*Operation),
	}

	for route := range s.collection.Routes() {
		s.addRoute(doc, route)
	}
	return doc, nil
}

// addRoute adds one path item (or one per locale variant) for the route.
func (s *Spec) addRoute(doc *Document, route *router.Route) {
	templates := []string{route.PathTemplate()}
	if locales := route.Locales(); locales != nil {
		templates = templates[:0]
		for _, locale := range locales {
			tpl, _ := route.PathTemplateFor(locale)
			templates = append(templates, tpl)
		}
	}

	methods := route.Methods()
	if len(methods) == 0 {
		methods = []string{"GET"}
	}

	for _, tpl := range templates {
		path := displayPath(tpl)
		item, ok := doc.Paths[path]
		if !ok {
			item = make(map[string]*Operation)
			doc.Paths[path] = item
		}
		for _, method := range methods {
			item[strings.ToLower(method)] = s.operation(route, path, method, len(methods) > 1)
		}
	}
}

// operation assembles one operation object for the route and method.
func (s *Spec) operation(route *router.Route, path, method string, multi bool) *Operation {
	opID := route.Name()
	if multi {
		opID = fmt.Sprintf("%s_%s", route.Name(), strings.ToLower(method))
	}

	op := &Operation{OperationID: opID}
	if m, ok := s.meta[route.Name()]; ok {
		op.Summary = m.summary
		op.Description = m.description
		op.Tags = append([]string(nil), m.tags...)
		op.Deprecated = m.deprecated
	}

	defaults := route.Defaults()
	for _, name := range pathParams(path) {
		schema := &Schema{Type: "string"}
		if pattern, ok := route.ParamPattern(name); ok {
			schema.Pattern = fmt.Sprintf("^%s$", pattern)
		}
		if value, ok := defaults[name]; ok {
			schema.Default = value
		}
		op.Parameters = append(op.Parameters, &Parameter{
			Name: name,
			In:   "path",
			// OpenAPI requires path parameters to be marked required even
			// when the route supplies a default.
			Required: true,
			Schema:   schema,
		})
	}
	sort.Slice(op.Parameters, func(i, j int) bool {
		return op.Parameters[i].Name < op.Parameters[j].Name
	})
	return op
}

// displayPath strips inline requirement patterns from a route template:
// "/post/{id:[0-9]+}" becomes "/post/{id}".
func displayPath(tpl string) string {
	var sb strings.Builder
	depth := 0
	skip := false
	for i := 0; i < len(tpl); i++ {
		c := tpl[i]
		switch c {
		case '{':
			depth++
			if depth > 1 {
				continue
			}
		case '}':
			depth--
			if depth > 0 {
				continue
			}
			skip = false
		case ':':
			if depth == 1 {
				skip = true
				continue
			}
		}
		if skip || depth > 1 {
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// pathParams extracts the placeholder names from a display path.
func pathParams(path string) []string {
	var names []string
	for {
		start := strings.IndexByte(path, '{')
		if start < 0 {
			return names
		}
		end := strings.IndexByte(path[start:], '}')
		if end < 0 {
			return names
		}
		names = append(names, path[start+1:start+end])
		path = path[start+end+1:]
	}
}
