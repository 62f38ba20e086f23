// Package routerhttp dispatches HTTP requests through a router.Collection:
// it matches each request, exposes the extracted parameters on the request
// context, and maps match failures to 404 and 405 responses.
//
//	c := router.New()
//	c.MustRegister(
//	    router.NewDefinition("blog_show").
//	        Path("/blog/{slug}").
//	        Methods(http.MethodGet),
//	)
//
//	m := routerhttp.New(c)
//	m.HandleFunc("blog_show", func(w http.ResponseWriter, r *http.Request) {
//	    slug, _ := routerhttp.ParamGet(r, "slug")
//	    ...
//	})
//	if err := m.Ready(); err != nil {
//	    log.Fatal(err)
//	}
//	http.ListenAndServe(":8080", m)
package routerhttp

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"sync/atomic"

	"github.com/vitalvas/wayfind/router"
)

// Mux routes requests to named handlers through a router collection.
// It implements the http.Handler interface.
//
// Configure handlers and middleware first, then call Ready once; after
// that the mux is immutable and safe for concurrent use.
type Mux struct {
	// NotFoundHandler is called when no route matches.
	// If nil, http.NotFoundHandler() is used.
	// Corresponds to 404 Not Found per RFC 9110 Section 15.5.5.
	NotFoundHandler http.Handler

	// MethodNotAllowedHandler is called when a route matches the path but
	// not the method or scheme. The Allow header is always set before this
	// handler is invoked, per RFC 9110 Section 15.5.6. If nil, a default
	// 405 handler is used.
	MethodNotAllowedHandler http.Handler

	collection  *router.Collection
	handlers    map[string]http.Handler
	middlewares []MiddlewareFunc
	ready       atomic.Bool
}

// New returns a mux dispatching through the given collection. The
// collection may be frozen already or still open for registration.
func New(c *router.Collection) *Mux {
	return &Mux{
		collection: c,
		handlers:   make(map[string]http.Handler),
	}
}

// Collection returns the underlying route collection.
func (m *Mux) Collection() *router.Collection {
	return m.collection
}

// Handle binds a handler to the named route.
func (m *Mux) Handle(name string, handler http.Handler) *Mux {
	m.handlers[name] = handler
	return m
}

// HandleFunc binds a handler function to the named route.
func (m *Mux) HandleFunc(name string, f func(http.ResponseWriter, *http.Request)) *Mux {
	return m.Handle(name, http.HandlerFunc(f))
}

// Use appends middleware to the chain. Middleware wraps matched handlers
// only, outermost first.
func (m *Mux) Use(mwf ...MiddlewareFunc) {
	m.middlewares = append(m.middlewares, mwf...)
}

// Ready freezes the collection, verifies every bound handler names a
// registered route, and wraps handlers with the middleware chain once, so
// no wrapping happens per request. Routes without a handler fall through
// to the NotFoundHandler at request time.
func (m *Mux) Ready() error {
	m.collection.Freeze()

	for name := range m.handlers {
		if _, ok := m.collection.ByName(name); !ok {
			return fmt.Errorf("routerhttp: handler bound to unknown route %q", name)
		}
	}

	if len(m.middlewares) > 0 {
		for name, handler := range m.handlers {
			for i := len(m.middlewares) - 1; i >= 0; i-- {
				handler = m.middlewares[i](handler)
			}
			m.handlers[name] = handler
		}
	}

	m.ready.Store(true)
	return nil
}

// ServeHTTP dispatches the handler bound to the matched route.
func (m *Mux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !m.ready.Load() {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	// Normalize the request path per RFC 3986 Section 5.2.4
	// (removing dot segments).
	if cleaned := cleanPath(r.URL.Path); cleaned != r.URL.Path {
		u := *r.URL
		u.Path = cleaned
		u.RawPath = ""
		r = r.Clone(r.Context())
		r.URL = &u
	}

	match, err := m.collection.Match(router.RequestFromHTTP(r))
	if err != nil {
		var notAllowed *router.NotAllowedError
		if errors.As(err, &notAllowed) && len(notAllowed.Methods) > 0 {
			// RFC 9110 Section 15.5.6: a 405 response must carry an
			// Allow header field.
			w.Header().Set("Allow", strings.Join(notAllowed.Methods, ", "))
			m.methodNotAllowedHandler().ServeHTTP(w, r)
			return
		}
		m.notFoundHandler().ServeHTTP(w, r)
		return
	}

	handler, ok := m.handlers[match.Name]
	if !ok {
		m.notFoundHandler().ServeHTTP(w, r)
		return
	}

	handler.ServeHTTP(w, withMatch(r, match.Name, match.Params))
}

// URL generates a URL for the named route; a thin shortcut to
// [router.Collection.Generate] for handlers building links.
func (m *Mux) URL(name string, params map[string]string) (string, error) {
	return m.collection.Generate(name, params, router.RelativePath)
}

func (m *Mux) notFoundHandler() http.Handler {
	if m.NotFoundHandler != nil {
		return m.NotFoundHandler
	}
	return http.NotFoundHandler()
}

func (m *Mux) methodNotAllowedHandler() http.Handler {
	if m.MethodNotAllowedHandler != nil {
		return m.MethodNotAllowedHandler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

// cleanPath returns the canonical path for p, eliminating . and .. elements
// per RFC 3986 Section 5.2.4 (remove dot segments).
func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	np := path.Clean(p)
	// path.Clean removes trailing slash except for root;
	// put the trailing slash back if necessary.
	if p[len(p)-1] == '/' && np != "/" {
		np += "/"
	}
	return np
}
