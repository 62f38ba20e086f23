package routerhttp

import (
	"context"
	"net/http"
)

// matchContextKey is an unexported type for the single context key.
type matchContextKey struct{}

// ctxKey is the single context key used to store the matched route name
// and parameters.
var ctxKey = matchContextKey{}

// matchContext holds the matched route name and extracted parameters.
type matchContext struct {
	name   string
	params map[string]string
}

// Params returns the route parameters for the current request, if any.
func Params(r *http.Request) map[string]string {
	if mc, ok := r.Context().Value(ctxKey).(*matchContext); ok {
		return mc.params
	}
	return nil
}

// ParamGet returns the value of a single route parameter by name and a
// boolean indicating whether the parameter exists.
func ParamGet(r *http.Request, name string) (string, bool) {
	if mc, ok := r.Context().Value(ctxKey).(*matchContext); ok && mc.params != nil {
		val, exists := mc.params[name]
		return val, exists
	}
	return "", false
}

// RouteName returns the name of the matched route for the current request.
// This only works when called inside the handler of the matched route
// because the match is stored in the request context.
func RouteName(r *http.Request) string {
	if mc, ok := r.Context().Value(ctxKey).(*matchContext); ok {
		return mc.name
	}
	return ""
}

// SetParams sets the route parameters for the given request, returning the
// modified request. This is intended for testing route handlers.
func SetParams(r *http.Request, params map[string]string) *http.Request {
	name := RouteName(r)
	return withMatch(r, name, params)
}

// withMatch stores the matched route name and parameters in the request
// context using a single WithContext call.
func withMatch(r *http.Request, name string, params map[string]string) *http.Request {
	mc := &matchContext{name: name, params: params}
	ctx := context.WithValue(r.Context(), ctxKey, mc)
	return r.WithContext(ctx)
}
