package router

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

// identifierRegexp constrains placeholder names: letters, digits and
// underscore, not starting with a digit.
var identifierRegexp = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Default placeholder patterns: anything but a separator.
const (
	defaultPathPattern = "[^/]+"
	defaultHostPattern = "[^.]+"
)

// patternToken is one piece of a parsed template: either a literal run or a
// single placeholder.
type patternToken struct {
	// literal is the raw text; set only for literal tokens.
	literal string
	// param is the placeholder name; set only for parameter tokens.
	param   string
	pattern string
	matcher paramMatcher
	// optional marks a parameter in the trailing optional run of a path.
	optional bool
	// sep is the path separator folded into the optional group.
	sep string
}

// compiledPattern is the matchable form of one template: an anchored regexp
// with one named capture group per placeholder, plus the token plan reused
// by the generator.
type compiledPattern struct {
	template string
	host     bool
	tokens   []patternToken
	regexp   *regexp.Regexp
	// params holds placeholder names in declaration order.
	params []string
	// groups holds the regexp subexpression index for each entry in params.
	groups []int
}

// groupName returns the capture group name for the i-th placeholder.
// Synthetic names keep user-supplied patterns with their own capture
// groups from shifting extraction.
func groupName(i int) string {
	return fmt.Sprintf("p%d", i)
}

// compilePattern parses and compiles one path or host template of def.
// All failures are configuration errors; nothing is recoverable.
func compilePattern(def *Definition, tpl string, host bool) (*compiledPattern, error) {
	idxs, err := braceIndices(tpl)
	if err != nil {
		return nil, &DefinitionError{Name: def.name, Detail: tpl, err: err}
	}

	defaultPattern := defaultPathPattern
	if host {
		defaultPattern = defaultHostPattern
	}

	var (
		tokens []patternToken
		params []string
		seen   = make(map[string]bool)
		end    int
	)

	for i := 0; i < len(idxs); i += 2 {
		raw := tpl[end:idxs[i]]
		if raw != "" {
			tokens = append(tokens, patternToken{literal: raw})
		}

		inner := tpl[idxs[i]+1 : idxs[i+1]-1]
		end = idxs[i+1]

		parts := strings.SplitN(inner, ":", 2)
		name := parts[0]

		if !identifierRegexp.MatchString(name) {
			return nil, &DefinitionError{Name: def.name, Detail: fmt.Sprintf("{%s} in %q", inner, tpl), err: ErrInvalidParameterName}
		}
		if seen[name] {
			return nil, &DefinitionError{Name: def.name, Detail: name, err: ErrDuplicateParameter}
		}
		seen[name] = true

		patt, hasRequirement := def.requirements[name]
		if len(parts) == 2 {
			if hasRequirement {
				return nil, &DefinitionError{
					Name:   def.name,
					Detail: fmt.Sprintf("parameter %q has both an inline pattern and a requirement", name),
					err:    ErrDuplicateParameter,
				}
			}
			patt = parts[1]
		} else if !hasRequirement {
			patt = defaultPattern
		}

		var matcher paramMatcher
		patt, matcher = expandMacro(patt)
		if matcher == nil {
			matcher, err = compileRegexp(fmt.Sprintf("^%s$", patt))
			if err != nil {
				return nil, &DefinitionError{
					Name:   def.name,
					Detail: fmt.Sprintf("parameter %q pattern %q: %v", name, patt, err),
					err:    ErrInvalidRequirement,
				}
			}
		}

		tokens = append(tokens, patternToken{param: name, pattern: patt, matcher: matcher})
		params = append(params, name)
	}

	if raw := tpl[end:]; raw != "" {
		tokens = append(tokens, patternToken{literal: raw})
	}

	if host {
		for i := range tokens {
			if tokens[i].param == "" {
				tokens[i].literal = hostToASCII(strings.ToLower(tokens[i].literal))
			}
		}
	} else {
		if err := validateOptionalOrder(def, tokens); err != nil {
			return nil, err
		}
		markOptional(def, tokens)
	}

	re, err := buildRegexp(tokens)
	if err != nil {
		return nil, &DefinitionError{Name: def.name, Detail: tpl, err: err}
	}

	groups := make([]int, len(params))
	for i := range params {
		groups[i] = re.SubexpIndex(groupName(i))
	}

	return &compiledPattern{
		template: tpl,
		host:     host,
		tokens:   tokens,
		regexp:   re,
		params:   params,
		groups:   groups,
	}, nil
}

// validateOptionalOrder rejects a path placing a required parameter after a
// defaulted one.
func validateOptionalOrder(def *Definition, tokens []patternToken) error {
	var optionalSeen string
	for _, t := range tokens {
		if t.param == "" {
			continue
		}
		if _, ok := def.defaults[t.param]; ok {
			optionalSeen = t.param
		} else if optionalSeen != "" {
			return &DefinitionError{
				Name:   def.name,
				Detail: fmt.Sprintf("required parameter %q after optional %q", t.param, optionalSeen),
				err:    ErrOptionalBeforeRequired,
			}
		}
	}
	return nil
}

// markOptional marks the trailing run of defaulted parameters as optional
// and folds each parameter's leading separator into its group, so that
// "/archive/{year}/{month}" with a month default matches both
// "/archive/2024" and "/archive/2024/06".
func markOptional(def *Definition, tokens []patternToken) {
	i := len(tokens) - 1
	for i >= 1 {
		t := &tokens[i]
		if t.param == "" {
			return
		}
		if _, ok := def.defaults[t.param]; !ok {
			return
		}
		prev := &tokens[i-1]
		if prev.param != "" || !strings.HasSuffix(prev.literal, "/") {
			return
		}

		t.optional = true
		trimmed := strings.TrimSuffix(prev.literal, "/")
		if trimmed == "" && i-1 == 0 {
			// Root-level parameter like "/{page}": keep the leading slash
			// required so the bare "/" path still matches.
			t.sep = ""
		} else {
			t.sep = "/"
			prev.literal = trimmed
		}
		i -= 2
	}
}

// buildRegexp assembles the anchored matching regexp from the token plan.
// Optional parameters nest so that an absent parameter swallows its
// separator as well.
func buildRegexp(tokens []patternToken) (*regexp.Regexp, error) {
	var (
		pat   strings.Builder
		depth int
		idx   int
	)
	pat.WriteByte('^')

	for _, t := range tokens {
		if t.param == "" {
			pat.WriteString(regexp.QuoteMeta(t.literal))
			continue
		}
		if t.optional {
			pat.WriteString("(?:")
			pat.WriteString(regexp.QuoteMeta(t.sep))
			depth++
		}
		fmt.Fprintf(&pat, "(?P<%s>%s)", groupName(idx), t.pattern)
		idx++
	}

	for ; depth > 0; depth-- {
		pat.WriteString(")?")
	}
	pat.WriteByte('$')

	return compileRegexp(pat.String())
}

// matchParams matches input against the pattern and returns the captured
// parameter values. Absent optional captures are omitted so defaults can
// fill them in.
func (cp *compiledPattern) matchParams(input string) (map[string]string, bool) {
	m := cp.regexp.FindStringSubmatch(input)
	if m == nil {
		return nil, false
	}
	vars := make(map[string]string, len(cp.params))
	for i, name := range cp.params {
		gi := cp.groups[i]
		if gi >= 0 && gi < len(m) && m[gi] != "" {
			vars[name] = m[gi]
		}
	}
	return vars, true
}

// matches reports whether input matches without extracting captures.
func (cp *compiledPattern) matches(input string) bool {
	return cp.regexp.MatchString(input)
}

// requirement returns the compiled matcher for the named placeholder.
func (cp *compiledPattern) requirement(name string) (paramMatcher, bool) {
	for _, t := range cp.tokens {
		if t.param == name {
			return t.matcher, true
		}
	}
	return nil, false
}

// braceIndices returns the start and end+1 indices of each top-level
// {...} pair in s. Returns an error if braces are unbalanced.
func braceIndices(s string) ([]int, error) {
	var (
		idxs  []int
		level int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if level++; level == 1 {
				idxs = append(idxs, i)
			}
		case '}':
			if level--; level == 0 {
				idxs = append(idxs, i+1)
			} else if level < 0 {
				return nil, fmt.Errorf("unbalanced braces in %q", s)
			}
		}
	}
	if level != 0 {
		return nil, fmt.Errorf("unbalanced braces in %q", s)
	}
	return idxs, nil
}

// hostToASCII converts each literal label of a hostname to its IDNA
// (punycode) wire form per RFC 5890. Labels that fail conversion are kept
// as-is; placeholder labels are never touched.
func hostToASCII(host string) string {
	labels := strings.Split(host, ".")
	for i, label := range labels {
		if label == "" || strings.ContainsAny(label, "{}") {
			continue
		}
		if ascii, err := idna.Lookup.ToASCII(label); err == nil {
			labels[i] = ascii
		}
	}
	return strings.Join(labels, ".")
}
