package routerhttp

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// MiddlewareFunc is a function which receives an http.Handler and returns
// another http.Handler. Middleware registered with Mux.Use wraps matched
// handlers only.
type MiddlewareFunc func(http.Handler) http.Handler

// defaultOverrideHeaders is the set of header names checked for a method
// override, in order.
var defaultOverrideHeaders = []string{
	"X-HTTP-Method-Override",
	"X-Method-Override",
	"X-HTTP-Method",
}

// defaultOverrideMethods is the set of methods allowed as overrides.
var defaultOverrideMethods = map[string]bool{
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

// MethodOverrideMiddleware lets clients that can only send POST override
// the request method via a header. The first non-empty value among
// X-HTTP-Method-Override, X-Method-Override and X-HTTP-Method is
// uppercased and, when in the allowed set (PUT, PATCH, DELETE, HEAD,
// OPTIONS), replaces r.Method before matching; the header is then removed.
//
// To affect route matching, the override must run before dispatch: wrap
// the mux itself rather than registering it with Mux.Use.
func MethodOverrideMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			for _, h := range defaultOverrideHeaders {
				if v := r.Header.Get(h); v != "" {
					if override := strings.ToUpper(v); defaultOverrideMethods[override] {
						r.Method = override
						r.Header.Del(h)
					}
					break
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

type requestIDKey struct{}

// RequestIDFromContext returns the request ID stored in the context by
// RequestIDMiddleware. Returns an empty string if no ID is present.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// RequestIDMiddleware assigns each request a UUID v4 request ID. The ID is
// set on the X-Request-ID header of both request and response and stored
// in the request context. An incoming X-Request-ID is reused as-is.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
			r.Header.Set("X-Request-ID", id)
		}
		w.Header().Set("X-Request-ID", id)
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))

		next.ServeHTTP(w, r)
	})
}
