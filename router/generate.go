package router

import (
	"fmt"
	"net/url"
	"strings"
)

// Reserved parameter names interpreted by the matcher and generator
// instead of being substituted into templates.
const (
	// LocaleParam selects the variant of a localized route during
	// generation and reports the matched variant's locale in Match params.
	LocaleParam = "_locale"
	// FragmentParam is appended to generated URLs as a "#fragment" suffix
	// rather than a query parameter.
	FragmentParam = "_fragment"
)

// Reference selects the output form of a generated URL.
type Reference int

const (
	// RelativePath produces "/path". A host-bound route still produces
	// the network-path form, since a relative path cannot express a
	// foreign host.
	RelativePath Reference = iota
	// AbsoluteURL produces "scheme://host/path".
	AbsoluteURL
	// NetworkPath produces "//host/path" per RFC 3986 Section 4.2.
	NetworkPath
)

// Generate builds a URL for the named route, the structural inverse of
// Match. Placeholder values come from params, falling back to the route's
// defaults; they are validated against the placeholder requirements and
// percent-encoded. Trailing optional parameters whose value equals their
// default are omitted. Parameters not consumed by any placeholder become a
// sorted query string; the reserved [FragmentParam] becomes a fragment
// suffix.
func (c *Collection) Generate(name string, params map[string]string, ref Reference) (string, error) {
	if !c.frozen.Load() {
		return "", ErrNotFrozen
	}
	route, ok := c.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrRouteNotFound, name)
	}

	variant, err := c.pickVariant(route, params[LocaleParam])
	if err != nil {
		return "", err
	}

	consumed := map[string]bool{LocaleParam: true, FragmentParam: true}

	path, err := buildPattern(route, variant.path, params, consumed)
	if err != nil {
		return "", err
	}

	var host string
	if route.host != nil {
		host, err = buildPattern(route, route.host, params, consumed)
		if err != nil {
			return "", err
		}
	}

	var sb strings.Builder
	switch {
	case host != "":
		if ref == AbsoluteURL {
			sb.WriteString(c.schemeFor(route))
			sb.WriteByte(':')
		}
		sb.WriteString("//")
		sb.WriteString(host)
		sb.WriteString(path)
	case c.defaultHost != "" && ref == AbsoluteURL:
		sb.WriteString(c.schemeFor(route))
		sb.WriteString("://")
		sb.WriteString(c.defaultHost)
		sb.WriteString(path)
	case c.defaultHost != "" && ref == NetworkPath:
		sb.WriteString("//")
		sb.WriteString(c.defaultHost)
		sb.WriteString(path)
	default:
		sb.WriteString(path)
	}

	query := url.Values{}
	for k, v := range params {
		if consumed[k] {
			continue
		}
		query.Set(k, v)
	}
	if len(query) > 0 {
		sb.WriteByte('?')
		// Encode sorts by key, keeping generated URLs deterministic.
		sb.WriteString(query.Encode())
	}

	if fragment := params[FragmentParam]; fragment != "" {
		sb.WriteByte('#')
		sb.WriteString(url.PathEscape(fragment))
	}

	return sb.String(), nil
}

// pickVariant selects the compiled path for the requested locale, falling
// back to the collection default locale for localized routes.
func (c *Collection) pickVariant(route *Route, locale string) (*routeVariant, error) {
	if len(route.variants) == 1 && route.variants[0].locale == "" {
		return route.variants[0], nil
	}
	if locale == "" {
		locale = c.defaultLocale
	}
	if v := route.variantFor(locale); v != nil {
		return v, nil
	}
	return nil, &NoLocaleVariantError{
		Route:     route.def.name,
		Locale:    locale,
		Available: route.Locales(),
	}
}

// schemeFor returns the scheme for absolute URL generation: the route's
// first allowed scheme, else the collection default.
func (c *Collection) schemeFor(route *Route) string {
	if len(route.def.schemes) > 0 {
		return route.def.schemes[0]
	}
	return c.defaultScheme
}

// buildPattern substitutes parameter values into one compiled template and
// records which names were consumed. Values are checked against the
// placeholder requirements; path values are percent-encoded, separators
// contributed by the template are not.
func buildPattern(route *Route, cp *compiledPattern, params map[string]string, consumed map[string]bool) (string, error) {
	defaults := route.def.defaults

	// Trailing optional parameters whose resolved value equals their
	// default are dropped, together with their folded separator.
	drop := make([]bool, len(cp.tokens))
	for i := len(cp.tokens) - 1; i >= 0; i-- {
		t := cp.tokens[i]
		if t.param == "" {
			if t.literal == "" {
				continue
			}
			break
		}
		if !t.optional {
			break
		}
		val, supplied := params[t.param]
		if supplied && val != defaults[t.param] {
			break
		}
		drop[i] = true
	}

	var sb strings.Builder
	for i, t := range cp.tokens {
		if t.param == "" {
			sb.WriteString(t.literal)
			continue
		}
		consumed[t.param] = true
		if drop[i] {
			continue
		}

		val, ok := params[t.param]
		if !ok {
			if val, ok = defaults[t.param]; !ok {
				return "", &MissingParameterError{Route: route.def.name, Parameter: t.param}
			}
		}
		if !t.matcher.MatchString(val) {
			return "", &ParameterMismatchError{
				Route:     route.def.name,
				Parameter: t.param,
				Value:     val,
				Pattern:   t.pattern,
			}
		}

		if t.optional {
			sb.WriteString(t.sep)
		}
		if cp.host {
			sb.WriteString(val)
		} else {
			sb.WriteString(url.PathEscape(val))
		}
	}

	return sb.String(), nil
}
