package router

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// Request is the descriptor the matcher works on. It is supplied per call
// and never retained. Host must be the bare hostname (no port); use
// [RequestFromHTTP] to build a normalized descriptor from an *http.Request.
type Request struct {
	Path       string
	Method     string
	Host       string
	Scheme     string
	Header     http.Header
	Query      url.Values
	RemoteAddr string
}

// RequestFromHTTP builds a Request descriptor from an incoming HTTP
// request: the host is lowercased, stripped of its port (RFC 9112
// Section 3.2) and IDNA-normalized, and the scheme is inferred from the
// TLS state when the URL carries none.
func RequestFromHTTP(r *http.Request) *Request {
	scheme := r.URL.Scheme
	if scheme == "" {
		if r.TLS != nil {
			scheme = "https"
		} else {
			scheme = "http"
		}
	}

	remote := r.RemoteAddr
	if i := strings.LastIndexByte(remote, ':'); i != -1 {
		remote = remote[:i]
	}

	return &Request{
		Path:       r.URL.Path,
		Method:     r.Method,
		Host:       normalizeHost(r.Host),
		Scheme:     scheme,
		Header:     r.Header,
		Query:      r.URL.Query(),
		RemoteAddr: remote,
	}
}

// normalizeHost strips the port and lowercases and IDNA-normalizes the
// hostname so it compares equal to compiled host patterns.
func normalizeHost(host string) string {
	if i := strings.IndexByte(host, ':'); i != -1 {
		host = host[:i]
	}
	return hostToASCII(strings.ToLower(host))
}

// Match is the outcome of a successful match: the winning route and the
// merged parameter map (URL-decoded captures over defaults; a matched
// locale variant contributes "_locale").
type Match struct {
	Route  *Route
	Name   string
	Params map[string]string
}

// Match resolves the request descriptor against the frozen collection.
//
// Routes are scanned in priority order. A route whose path matched but
// whose method or scheme restriction rejected the request is recorded as a
// near-miss and the scan continues, so a later route may still win; if the
// scan ends with only near-misses, the returned *NotAllowedError carries
// the union of allowed methods and schemes for the path (the 405 Allow
// set). With no match at all, ErrNotFound is returned. Condition failures
// skip the route silently and are never reported as near-misses.
func (c *Collection) Match(req *Request) (*Match, error) {
	if !c.frozen.Load() {
		return nil, ErrNotFrozen
	}

	method := strings.ToUpper(req.Method)
	scheme := strings.ToLower(req.Scheme)
	host := normalizeHost(req.Host)

	// Conditions observe the same normalized view the matcher uses.
	nreq := *req
	nreq.Method = method
	nreq.Scheme = scheme
	nreq.Host = host

	var allowMethods, allowSchemes map[string]bool

	for _, route := range c.routes {
		if route.host != nil && !route.host.matches(host) {
			continue
		}

		for _, variant := range route.variants {
			captures, ok := variant.path.matchParams(req.Path)
			if !ok {
				continue
			}

			if !route.def.allowsMethod(method) || !route.def.allowsScheme(scheme) {
				if allowMethods == nil {
					allowMethods = make(map[string]bool)
					allowSchemes = make(map[string]bool)
				}
				for _, m := range route.def.methods {
					allowMethods[m] = true
				}
				for _, s := range route.def.schemes {
					allowSchemes[s] = true
				}
				// All variants share the same restrictions.
				break
			}

			params := make(map[string]string, len(captures)+len(route.def.defaults)+1)
			for k, v := range route.def.defaults {
				params[k] = v
			}
			if variant.locale != "" {
				params[LocaleParam] = variant.locale
			}
			if route.host != nil && len(route.host.params) > 0 {
				if hostVars, ok := route.host.matchParams(host); ok {
					for k, v := range hostVars {
						params[k] = v
					}
				}
			}
			for k, v := range captures {
				if decoded, err := url.PathUnescape(v); err == nil {
					params[k] = decoded
				} else {
					params[k] = v
				}
			}

			if route.cond != nil && !route.cond.eval(&condContext{req: &nreq, params: params}) {
				continue
			}

			return &Match{Route: route, Name: route.def.name, Params: params}, nil
		}
	}

	if len(allowMethods) > 0 || len(allowSchemes) > 0 {
		return nil, &NotAllowedError{
			Path:    req.Path,
			Methods: sortedKeys(allowMethods),
			Schemes: sortedKeys(allowSchemes),
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, req.Path)
}

func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
