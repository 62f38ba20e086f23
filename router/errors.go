package router

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned (possibly wrapped) by registration, matching and
// generation. Use errors.Is to test for them.
var (
	// ErrNotFound is returned by Match when no route pattern matches the
	// request path. Maps to 404 Not Found per RFC 9110 Section 15.5.5.
	ErrNotFound = errors.New("router: no matching route")

	// ErrNotAllowed is returned by Match when at least one route pattern
	// matched the path but every such route rejected the request method or
	// scheme. Maps to 405 Method Not Allowed per RFC 9110 Section 15.5.6.
	ErrNotAllowed = errors.New("router: matched path does not allow request method or scheme")

	// ErrNotFrozen is returned by Match and Generate when the collection
	// has not been frozen yet.
	ErrNotFrozen = errors.New("router: collection must be frozen first")

	// ErrFrozen is returned by Register after Freeze has been called.
	ErrFrozen = errors.New("router: collection is frozen")

	// ErrDuplicateName is returned by Register when a route with the same
	// name is already present.
	ErrDuplicateName = errors.New("router: duplicate route name")

	// Definition errors, detected during registration.
	ErrEmptyName              = errors.New("router: route name must not be empty")
	ErrMissingPath            = errors.New("router: route has no path template")
	ErrDuplicateParameter     = errors.New("router: duplicate route parameter")
	ErrInvalidParameterName   = errors.New("router: invalid route parameter name")
	ErrInvalidRequirement     = errors.New("router: invalid requirement pattern")
	ErrOptionalBeforeRequired = errors.New("router: required parameter after optional parameter")
	ErrUnknownMethod          = errors.New("router: unknown HTTP method")
	ErrUnknownScheme          = errors.New("router: unknown URL scheme")
	ErrInvalidCondition       = errors.New("router: invalid condition expression")

	// Generation errors.
	ErrRouteNotFound     = errors.New("router: no route registered with name")
	ErrMissingParameter  = errors.New("router: missing route parameter")
	ErrParameterMismatch = errors.New("router: route parameter does not match requirement")
	ErrNoLocaleVariant   = errors.New("router: route has no variant for locale")
)

// DefinitionError reports a malformed route definition rejected during
// registration. It wraps one of the definition sentinels above.
type DefinitionError struct {
	// Name is the route name being registered.
	Name string
	// Detail describes the offending template fragment or parameter.
	Detail string

	err error
}

func (e *DefinitionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("route %q: %s", e.Name, e.err)
	}
	return fmt.Sprintf("route %q: %s: %s", e.Name, e.err, e.Detail)
}

// Unwrap returns the definition sentinel, e.g. [ErrInvalidRequirement].
func (e *DefinitionError) Unwrap() error {
	return e.err
}

// NameConflictError reports a Register call that reused an existing name.
type NameConflictError struct {
	// Name is the conflicting route name.
	Name string
	// Existing is the previously registered route.
	Existing *Route
}

func (e *NameConflictError) Error() string {
	return fmt.Sprintf("route name %q already registered for path %q", e.Name, e.Existing.def.path)
}

// Unwrap returns the sentinel [ErrDuplicateName].
func (e *NameConflictError) Unwrap() error {
	return ErrDuplicateName
}

// NotAllowedError reports a request whose path matched at least one route
// but whose method or scheme was rejected by every matching route. Methods
// and Schemes carry the union of allowed tokens across all near-misses,
// ready for an Allow header per RFC 9110 Section 10.2.1.
type NotAllowedError struct {
	// Path is the request path that produced the near-misses.
	Path string
	// Methods holds the allowed methods, sorted, deduplicated.
	Methods []string
	// Schemes holds the allowed schemes, sorted, deduplicated.
	Schemes []string
}

func (e *NotAllowedError) Error() string {
	var sb strings.Builder
	sb.WriteString("path ")
	sb.WriteString(e.Path)
	sb.WriteString(" matched, but")
	if len(e.Methods) > 0 {
		sb.WriteString(" allowed methods are [")
		sb.WriteString(strings.Join(e.Methods, ", "))
		sb.WriteByte(']')
	}
	if len(e.Schemes) > 0 {
		if len(e.Methods) > 0 {
			sb.WriteString(" and")
		}
		sb.WriteString(" allowed schemes are [")
		sb.WriteString(strings.Join(e.Schemes, ", "))
		sb.WriteByte(']')
	}
	return sb.String()
}

// Unwrap returns the sentinel [ErrNotAllowed].
func (e *NotAllowedError) Unwrap() error {
	return ErrNotAllowed
}

// MissingParameterError reports a Generate call that supplied no value for
// a placeholder that has no default either.
type MissingParameterError struct {
	// Route is the route name passed to Generate.
	Route string
	// Parameter is the placeholder with no value.
	Parameter string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("route %q: no value for parameter %q", e.Route, e.Parameter)
}

// Unwrap returns the sentinel [ErrMissingParameter].
func (e *MissingParameterError) Unwrap() error {
	return ErrMissingParameter
}

// ParameterMismatchError reports a Generate call whose parameter value
// failed the placeholder's requirement pattern.
type ParameterMismatchError struct {
	Route     string
	Parameter string
	Value     string
	// Pattern is the requirement the value was checked against.
	Pattern string
}

func (e *ParameterMismatchError) Error() string {
	return fmt.Sprintf("route %q: parameter %q value %q does not match %q",
		e.Route, e.Parameter, e.Value, e.Pattern)
}

// Unwrap returns the sentinel [ErrParameterMismatch].
func (e *ParameterMismatchError) Unwrap() error {
	return ErrParameterMismatch
}

// NoLocaleVariantError reports a Generate call for a localized route with a
// locale no variant was compiled for.
type NoLocaleVariantError struct {
	Route  string
	Locale string
	// Available lists the locales the route was registered with, sorted.
	Available []string
}

func (e *NoLocaleVariantError) Error() string {
	return fmt.Sprintf("route %q: no variant for locale %q (have %s)",
		e.Route, e.Locale, strings.Join(e.Available, ", "))
}

// Unwrap returns the sentinel [ErrNoLocaleVariant].
func (e *NoLocaleVariantError) Unwrap() error {
	return ErrNoLocaleVariant
}
