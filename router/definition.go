package router

import (
	"net/http"
	"strings"
)

// knownMethods holds the request method tokens accepted by Methods,
// per RFC 9110 Section 9 plus CONNECT and TRACE.
var knownMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodConnect: true,
	http.MethodOptions: true,
	http.MethodTrace:   true,
}

// knownSchemes holds the URL schemes accepted by Schemes, per
// RFC 9110 Section 4.2.
var knownSchemes = map[string]bool{
	"http":  true,
	"https": true,
}

// Definition describes one named endpoint: a path template with
// {name} placeholders, optional host/method/scheme restrictions, parameter
// requirements and defaults, an optional match condition, and a priority.
//
// Definitions are built with chained setters and validated when passed to
// [Collection.Register]; after registration they must not be modified.
type Definition struct {
	name         string
	path         string
	localized    map[string]string
	host         string
	methods      []string
	schemes      []string
	requirements map[string]string
	defaults     map[string]string
	condition    string
	priority     int
}

// NewDefinition creates a route definition with the given unique name.
func NewDefinition(name string) *Definition {
	return &Definition{name: name}
}

// Path sets the path template, e.g. "/blog/{slug}". Placeholders may carry
// an inline requirement or macro: "/post/{id:int}".
func (d *Definition) Path(tpl string) *Definition {
	d.path = tpl
	return d
}

// PathLocalized sets per-locale path templates sharing this route's name,
// e.g. {"en": "/about", "nl": "/over-ons"}. Mutually exclusive with Path.
func (d *Definition) PathLocalized(paths map[string]string) *Definition {
	d.localized = paths
	return d
}

// Host sets the host template, e.g. "{subdomain}.example.com".
// The default placeholder pattern for hosts is "[^.]+".
func (d *Definition) Host(tpl string) *Definition {
	d.host = tpl
	return d
}

// Methods restricts the route to the given request methods. No call, or a
// call with no arguments, means any method matches.
func (d *Definition) Methods(methods ...string) *Definition {
	for _, m := range methods {
		d.methods = append(d.methods, strings.ToUpper(m))
	}
	return d
}

// Schemes restricts the route to the given URL schemes ("http", "https").
// Schemes are case-insensitive per RFC 3986 Section 3.1. The first scheme
// doubles as the scheme used for absolute URL generation.
func (d *Definition) Schemes(schemes ...string) *Definition {
	for _, s := range schemes {
		d.schemes = append(d.schemes, strings.ToLower(s))
	}
	return d
}

// Requirement constrains the named placeholder with a regexp fragment or a
// macro name. A placeholder may be constrained here or inline in the
// template, not both.
func (d *Definition) Requirement(name, pattern string) *Definition {
	if d.requirements == nil {
		d.requirements = make(map[string]string)
	}
	d.requirements[name] = pattern
	return d
}

// Requirements adds several requirement patterns at once.
func (d *Definition) Requirements(patterns map[string]string) *Definition {
	for name, pattern := range patterns {
		d.Requirement(name, pattern)
	}
	return d
}

// Default supplies a default value for a parameter. A path placeholder with
// a default becomes optional when it forms part of the trailing run of the
// template; defaults for names that appear in no template are returned
// verbatim in every match (e.g. a handler identifier).
func (d *Definition) Default(name, value string) *Definition {
	if d.defaults == nil {
		d.defaults = make(map[string]string)
	}
	d.defaults[name] = value
	return d
}

// Defaults adds several default values at once.
func (d *Definition) Defaults(values map[string]string) *Definition {
	for name, value := range values {
		d.Default(name, value)
	}
	return d
}

// Condition attaches a boolean expression evaluated against the request at
// match time, e.g. `method == 'GET' && header('X-Version') =~ '^v2'`.
// The expression is compiled once at registration; a parse error fails
// registration with [ErrInvalidCondition].
func (d *Definition) Condition(expr string) *Definition {
	d.condition = expr
	return d
}

// Priority orders the route relative to others: higher priorities are tried
// first, ties keep registration order. The default is 0.
func (d *Definition) Priority(p int) *Definition {
	d.priority = p
	return d
}

// validate checks everything that does not require template compilation.
// Template-level checks (placeholder syntax, requirement regexps, optional
// ordering) happen in compile.
func (d *Definition) validate() error {
	if d.name == "" {
		return &DefinitionError{Name: d.name, err: ErrEmptyName}
	}
	if d.path == "" && len(d.localized) == 0 {
		return &DefinitionError{Name: d.name, err: ErrMissingPath}
	}
	for _, m := range d.methods {
		if !knownMethods[m] {
			return &DefinitionError{Name: d.name, Detail: m, err: ErrUnknownMethod}
		}
	}
	for _, s := range d.schemes {
		if !knownSchemes[s] {
			return &DefinitionError{Name: d.name, Detail: s, err: ErrUnknownScheme}
		}
	}
	return nil
}

// allowsMethod reports whether the request method passes the route's method
// restriction. An empty restriction allows any method.
func (d *Definition) allowsMethod(method string) bool {
	if len(d.methods) == 0 {
		return true
	}
	for _, m := range d.methods {
		if m == method {
			return true
		}
	}
	return false
}

// allowsScheme reports whether the scheme passes the route's scheme
// restriction. An empty restriction allows any scheme.
func (d *Definition) allowsScheme(scheme string) bool {
	if len(d.schemes) == 0 {
		return true
	}
	for _, s := range d.schemes {
		if s == scheme {
			return true
		}
	}
	return false
}
