package router

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

// paramMatcher validates a single parameter value.
// *regexp.Regexp satisfies this interface.
type paramMatcher interface {
	MatchString(string) bool
	String() string
}

// lengthMatcher wraps a regexp with an additional maximum length constraint.
type lengthMatcher struct {
	re     *regexp.Regexp
	maxLen int
}

func (m *lengthMatcher) MatchString(s string) bool {
	return len(s) <= m.maxLen && m.re.MatchString(s)
}

func (m *lengthMatcher) String() string {
	return m.re.String()
}

// uuidMatcher validates values as RFC 4122 UUIDs. The regexp gates the
// textual shape; uuid.Parse keeps acceptance aligned with what handlers
// decoding the parameter through the uuid package will accept.
type uuidMatcher struct {
	re *regexp.Regexp
}

func (m *uuidMatcher) MatchString(s string) bool {
	if !m.re.MatchString(s) {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func (m *uuidMatcher) String() string {
	return m.re.String()
}

// macro holds a pattern string and its pre-compiled validation matcher.
type macro struct {
	pattern string
	matcher paramMatcher
}

// patternMacros maps macro names to their compiled patterns.
// Used in placeholder requirements: {name:macro} or Requirement(name, macro).
var patternMacros = func() map[string]macro {
	raw := map[string]string{
		"uuid":     `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`,
		"int":      `[0-9]+`,
		"float":    `[0-9]*\.?[0-9]+`,
		"slug":     `[a-zA-Z0-9]+(?:-[a-zA-Z0-9]+)*`,
		"alpha":    `[a-zA-Z]+`,
		"alphanum": `[a-zA-Z0-9]+`,
		"date":     `[0-9]{4}-[0-9]{2}-[0-9]{2}`,
		"hex":      `[0-9a-fA-F]+`,
		// RFC 1035/1123: labels 1-63 chars, total up to 253 chars.
		"domain": `(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)*[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?`,
	}

	// Macros that require validation beyond their regex.
	maxLengths := map[string]int{
		"domain": 253,
	}

	m := make(map[string]macro, len(raw))
	for name, pattern := range raw {
		re := regexp.MustCompile(fmt.Sprintf("^%s$", pattern))

		var matcher paramMatcher
		switch {
		case name == "uuid":
			matcher = &uuidMatcher{re: re}
		case maxLengths[name] > 0:
			matcher = &lengthMatcher{re: re, maxLen: maxLengths[name]}
		default:
			matcher = re
		}

		m[name] = macro{
			pattern: pattern,
			matcher: matcher,
		}
	}

	return m
}()

// expandMacro returns the regex pattern string and a pre-compiled
// validation matcher for a macro name. If the name is not a known macro,
// it returns the input unchanged with a nil matcher (caller must compile).
func expandMacro(pattern string) (string, paramMatcher) {
	if m, ok := patternMacros[pattern]; ok {
		return m.pattern, m.matcher
	}

	return pattern, nil
}
