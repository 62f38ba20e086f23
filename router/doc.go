// Package router implements a standalone URL router: declarative route
// definitions compiled into regexp matchers, priority-ordered request
// matching with 404/405 discrimination, and reverse URL generation.
//
// The package follows routing and URI semantics from:
//   - RFC 9110 (HTTP Semantics)
//   - RFC 3986 (URIs)
//   - RFC 5890 (IDNA)
//
// The router is a pure library: it performs no I/O and has no HTTP surface
// of its own. A surrounding handler layer feeds it request descriptors and
// turns the results into responses (see the routerhttp package).
//
// # Defining and Registering Routes
//
// Routes are declarative definitions registered into a Collection, which
// is then frozen before serving:
//
//	c := router.New()
//	err := c.Register(
//	    router.NewDefinition("blog_show").
//	        Path("/blog/{slug}").
//	        Requirement("slug", "[a-z0-9-]+").
//	        Methods(http.MethodGet),
//	    router.NewDefinition("blog_list").
//	        Path("/blog/{page}").
//	        Requirement("page", `\d+`).
//	        Default("page", "1"),
//	)
//	c.Freeze()
//
// Registration compiles every template and fails fast on a malformed
// definition; nothing is retried or recovered. After Freeze the collection
// is immutable and safe for concurrent Match and Generate calls. Hot
// reloading is done by building a new Collection and swapping the
// reference.
//
// # Placeholders and Requirements
//
// Path and host templates contain {name} placeholders. A placeholder
// matches "[^/]+" in paths and "[^.]+" in hosts unless constrained by a
// requirement, given either inline or separately:
//
//	router.NewDefinition("post").Path("/post/{id:[0-9]+}")
//	router.NewDefinition("post").Path("/post/{id}").Requirement("id", "[0-9]+")
//
// Requirement patterns may also name a macro:
//
//	uuid     - RFC 4122 UUID, validated by parsing
//	int      - unsigned integer
//	float    - decimal number
//	slug     - URL-safe slug (my-post-title)
//	alpha    - alphabetic characters
//	alphanum - alphanumeric characters
//	date     - ISO date (2024-06-01)
//	hex      - hexadecimal characters
//	domain   - RFC 1035/1123 hostname
//
// A placeholder with a Default becomes optional when it ends the path:
// "/archive/{year}/{month}" with a month default matches both
// "/archive/2024" and "/archive/2024/06". A required parameter after an
// optional one is rejected at registration.
//
// # Matching
//
// Match scans the frozen collection in descending priority order, ties in
// registration order, and returns the first route whose host, path, method,
// scheme and condition all accept the request:
//
//	m, err := c.Match(&router.Request{Path: "/blog/my-post", Method: "GET"})
//	// m.Name == "blog_show", m.Params["slug"] == "my-post"
//
// A route whose path matched but whose method or scheme was rejected is a
// near-miss: the scan continues, and if nothing else wins the error is a
// *NotAllowedError carrying the allowed method set for the Allow header.
// Otherwise Match returns ErrNotFound.
//
// # Conditions
//
// A definition may carry a boolean expression over the request, compiled
// once at registration:
//
//	router.NewDefinition("api_v2").
//	    Path("/api/items").
//	    Condition(`header('X-Version') =~ '^v2' && method == 'GET'`)
//
// A false condition skips the route silently; it is matching semantics,
// not a 405.
//
// # Generating URLs
//
// Generate is the inverse of Match:
//
//	u, err := c.Generate("blog_show", map[string]string{
//	    "slug": "my-post",
//	    "page": "2",
//	}, router.RelativePath)
//	// u == "/blog/my-post?page=2"
//
// Parameters not consumed by a placeholder become a query string; the
// reserved "_fragment" key becomes a fragment suffix. Host-bound routes
// always generate at least the network-path form ("//host/path"), because
// a relative path cannot express a foreign host.
//
// # Localized Routes
//
// A route may have one path template per locale under a single name:
//
//	router.NewDefinition("about").PathLocalized(map[string]string{
//	    "en": "/about",
//	    "nl": "/over-ons",
//	})
//
// Matching tries every variant and reports the winner's locale in the
// "_locale" parameter; generation selects the variant named by the
// "_locale" parameter, falling back to the collection's default locale.
package router
