package router

import (
	"fmt"
	"iter"
	"sort"
	"sync/atomic"
)

// routeVariant is one compiled path pattern of a route. Routes declared
// with a single path have exactly one variant with an empty locale;
// localized routes carry one variant per locale under the same name.
type routeVariant struct {
	locale string
	path   *compiledPattern
}

// Route pairs a registered definition with its compiled patterns. Routes
// are created by [Collection.Register] and immutable afterwards.
type Route struct {
	def      *Definition
	host     *compiledPattern
	variants []*routeVariant
	cond     *condition
	// index preserves registration order for stable priority sorting.
	index int
}

// Name returns the route's unique name.
func (r *Route) Name() string {
	return r.def.name
}

// PathTemplate returns the route's path template. For localized routes it
// returns the template of the first locale in lexical order.
func (r *Route) PathTemplate() string {
	return r.variants[0].path.template
}

// PathTemplateFor returns the path template for the given locale.
func (r *Route) PathTemplateFor(locale string) (string, bool) {
	for _, v := range r.variants {
		if v.locale == locale {
			return v.path.template, true
		}
	}
	return "", false
}

// Locales returns the locales the route was registered with, in lexical
// order. Routes with a single unlocalized path return nil.
func (r *Route) Locales() []string {
	if len(r.variants) == 1 && r.variants[0].locale == "" {
		return nil
	}
	locales := make([]string, len(r.variants))
	for i, v := range r.variants {
		locales[i] = v.locale
	}
	return locales
}

// HostTemplate returns the host template, or "" when the route is not
// host-bound.
func (r *Route) HostTemplate() string {
	return r.def.host
}

// Methods returns a copy of the allowed methods; nil means any.
func (r *Route) Methods() []string {
	if len(r.def.methods) == 0 {
		return nil
	}
	out := make([]string, len(r.def.methods))
	copy(out, r.def.methods)
	return out
}

// Schemes returns a copy of the allowed schemes; nil means any.
func (r *Route) Schemes() []string {
	if len(r.def.schemes) == 0 {
		return nil
	}
	out := make([]string, len(r.def.schemes))
	copy(out, r.def.schemes)
	return out
}

// Priority returns the route's priority.
func (r *Route) Priority() int {
	return r.def.priority
}

// Condition returns the route's condition expression, or "".
func (r *Route) Condition() string {
	return r.def.condition
}

// Defaults returns a copy of the route's default parameter values.
func (r *Route) Defaults() map[string]string {
	out := make(map[string]string, len(r.def.defaults))
	for k, v := range r.def.defaults {
		out[k] = v
	}
	return out
}

// ParamNames returns the placeholder names of the route's first path
// variant followed by its host placeholders, in declaration order.
func (r *Route) ParamNames() []string {
	names := append([]string(nil), r.variants[0].path.params...)
	if r.host != nil {
		names = append(names, r.host.params...)
	}
	return names
}

// ParamPattern returns the requirement pattern for a placeholder of the
// route's first path variant or host template.
func (r *Route) ParamPattern(name string) (string, bool) {
	for _, t := range r.variants[0].path.tokens {
		if t.param == name {
			return t.pattern, true
		}
	}
	if r.host != nil {
		for _, t := range r.host.tokens {
			if t.param == name {
				return t.pattern, true
			}
		}
	}
	return "", false
}

// variantFor returns the variant matching the locale, or nil.
func (r *Route) variantFor(locale string) *routeVariant {
	for _, v := range r.variants {
		if v.locale == locale {
			return v
		}
	}
	return nil
}

// Option configures a Collection.
type Option func(*Collection)

// WithDefaultLocale sets the locale used to pick a variant of a localized
// route when the caller supplies none.
func WithDefaultLocale(locale string) Option {
	return func(c *Collection) {
		c.defaultLocale = locale
	}
}

// WithDefaultHost sets the host used for absolute URL generation on routes
// without a host template.
func WithDefaultHost(host string) Option {
	return func(c *Collection) {
		c.defaultHost = hostToASCII(host)
	}
}

// WithDefaultScheme sets the scheme used for absolute URL generation on
// routes without a scheme restriction. The default is "http".
func WithDefaultScheme(scheme string) Option {
	return func(c *Collection) {
		c.defaultScheme = scheme
	}
}

// Collection owns the registered routes and their compiled patterns.
//
// A Collection goes through two phases: a single-threaded registration
// phase (Register calls), then a frozen read-only phase entered by Freeze.
// Match and Generate only work on a frozen collection and are safe for
// concurrent use; hot reloading is done by building a new Collection and
// swapping the reference, never by mutating a frozen one.
type Collection struct {
	routes []*Route
	byName map[string]*Route
	frozen atomic.Bool

	defaultLocale string
	defaultHost   string
	defaultScheme string
}

// New returns an empty route collection.
func New(opts ...Option) *Collection {
	c := &Collection{
		byName:        make(map[string]*Route),
		defaultScheme: "http",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register validates, compiles and adds the given definitions. The first
// failure stops registration and is returned; definitions before it stay
// registered. Registering after Freeze returns ErrFrozen.
func (c *Collection) Register(defs ...*Definition) error {
	if c.frozen.Load() {
		return ErrFrozen
	}
	for _, def := range defs {
		route, err := c.compile(def)
		if err != nil {
			return err
		}
		if existing, ok := c.byName[def.name]; ok {
			return &NameConflictError{Name: def.name, Existing: existing}
		}
		route.index = len(c.routes)
		c.routes = append(c.routes, route)
		c.byName[def.name] = route
	}
	return nil
}

// MustRegister is like Register but panics on error. Intended for static
// route tables built at startup, where a bad definition is fatal anyway.
func (c *Collection) MustRegister(defs ...*Definition) {
	if err := c.Register(defs...); err != nil {
		panic(err)
	}
}

// compile turns a definition into a Route, or reports the configuration
// error that makes the definition unusable.
func (c *Collection) compile(def *Definition) (*Route, error) {
	if err := def.validate(); err != nil {
		return nil, err
	}

	route := &Route{def: def}

	if def.host != "" {
		host, err := compilePattern(def, def.host, true)
		if err != nil {
			return nil, err
		}
		route.host = host
	}

	templates := map[string]string{"": def.path}
	if len(def.localized) > 0 {
		templates = def.localized
	}
	locales := make([]string, 0, len(templates))
	for locale := range templates {
		locales = append(locales, locale)
	}
	sort.Strings(locales)

	for _, locale := range locales {
		path, err := compilePattern(def, templates[locale], false)
		if err != nil {
			return nil, err
		}
		if route.host != nil {
			if name, ok := overlap(path.params, route.host.params); ok {
				return nil, &DefinitionError{
					Name:   def.name,
					Detail: fmt.Sprintf("parameter %q appears in both path and host", name),
					err:    ErrDuplicateParameter,
				}
			}
		}
		route.variants = append(route.variants, &routeVariant{locale: locale, path: path})
	}

	if def.condition != "" {
		cond, err := compileCondition(def.name, def.condition)
		if err != nil {
			return nil, err
		}
		route.cond = cond
	}

	return route, nil
}

// Freeze sorts the collection by descending priority (stable on
// registration order) and switches it to the read-only phase. Freeze is
// idempotent; it must be called before Match or Generate.
func (c *Collection) Freeze() {
	if c.frozen.Swap(true) {
		return
	}
	sort.SliceStable(c.routes, func(i, j int) bool {
		return c.routes[i].def.priority > c.routes[j].def.priority
	})
}

// Frozen reports whether Freeze has been called.
func (c *Collection) Frozen() bool {
	return c.frozen.Load()
}

// Len returns the number of registered routes.
func (c *Collection) Len() int {
	return len(c.routes)
}

// Routes iterates the routes in match order. Only valid on a frozen
// collection; before Freeze the order is registration order.
func (c *Collection) Routes() iter.Seq[*Route] {
	return func(yield func(*Route) bool) {
		for _, route := range c.routes {
			if !yield(route) {
				return
			}
		}
	}
}

// ByName returns the route registered under name.
func (c *Collection) ByName(name string) (*Route, bool) {
	route, ok := c.byName[name]
	return route, ok
}

// overlap returns the first name present in both slices.
func overlap(a, b []string) (string, bool) {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return x, true
			}
		}
	}
	return "", false
}
