package router

import (
	"fmt"
	"strings"
)

// condition is a route predicate compiled once at registration and
// evaluated against the request on every match attempt.
//
// The expression grammar:
//
//	expr       = and { "||" and }
//	and        = unary { "&&" unary }
//	unary      = "!" unary | "(" expr ")" | comparison
//	comparison = operand ( "==" | "!=" | "=~" | "!~" ) operand
//	operand    = "method" | "scheme" | "host" | "path" | "ip"
//	           | "header" "(" string ")" | "query" "(" string ")"
//	           | "param" "(" string ")" | string
//
// Strings use single or double quotes. The right side of "=~" and "!~"
// must be a string literal; it is compiled as a regexp at registration
// and matched unanchored.
type condition struct {
	expr string
	eval condEvalFn
}

// condContext is the data a condition can see: the request descriptor and
// the parameters extracted from the path and host so far.
type condContext struct {
	req    *Request
	params map[string]string
}

type condEvalFn func(*condContext) bool

type condValueFn func(*condContext) string

// compileCondition parses expr into an evaluable tree. Any syntax error is
// a configuration error surfaced at registration.
func compileCondition(routeName, expr string) (*condition, error) {
	toks, err := condLex(expr)
	if err != nil {
		return nil, &DefinitionError{Name: routeName, Detail: err.Error(), err: ErrInvalidCondition}
	}
	p := &condParser{toks: toks}
	eval, err := p.parseOr()
	if err == nil && p.peek().kind != condTokEOF {
		err = fmt.Errorf("unexpected %q", p.peek().text)
	}
	if err != nil {
		return nil, &DefinitionError{
			Name:   routeName,
			Detail: fmt.Sprintf("%s in %q", err, expr),
			err:    ErrInvalidCondition,
		}
	}
	return &condition{expr: expr, eval: eval}, nil
}

// --- Lexer ---

type condTokKind int

const (
	condTokEOF condTokKind = iota
	condTokIdent
	condTokString
	condTokOp     // == != =~ !~ && || !
	condTokLParen // (
	condTokRParen // )
)

type condToken struct {
	kind condTokKind
	text string
}

func condLex(s string) ([]condToken, error) {
	var toks []condToken
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '(':
			toks = append(toks, condToken{condTokLParen, "("})
			i++
		case c == ')':
			toks = append(toks, condToken{condTokRParen, ")"})
			i++
		case c == '\'' || c == '"':
			end := strings.IndexByte(s[i+1:], c)
			if end < 0 {
				return nil, fmt.Errorf("unterminated string at offset %d", i)
			}
			toks = append(toks, condToken{condTokString, s[i+1 : i+1+end]})
			i += end + 2
		case strings.HasPrefix(s[i:], "==") || strings.HasPrefix(s[i:], "!=") ||
			strings.HasPrefix(s[i:], "=~") || strings.HasPrefix(s[i:], "!~") ||
			strings.HasPrefix(s[i:], "&&") || strings.HasPrefix(s[i:], "||"):
			toks = append(toks, condToken{condTokOp, s[i : i+2]})
			i += 2
		case c == '!':
			toks = append(toks, condToken{condTokOp, "!"})
			i++
		case isCondIdentByte(c):
			j := i
			for j < len(s) && isCondIdentByte(s[j]) {
				j++
			}
			toks = append(toks, condToken{condTokIdent, s[i:j]})
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q at offset %d", c, i)
		}
	}
	return append(toks, condToken{kind: condTokEOF}), nil
}

func isCondIdentByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

// --- Parser ---

type condParser struct {
	toks []condToken
	pos  int
}

func (p *condParser) peek() condToken {
	return p.toks[p.pos]
}

func (p *condParser) next() condToken {
	t := p.toks[p.pos]
	if t.kind != condTokEOF {
		p.pos++
	}
	return t
}

func (p *condParser) parseOr() (condEvalFn, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == condTokOp && p.peek().text == "||" {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		l, r := left, right
		left = func(c *condContext) bool { return l(c) || r(c) }
	}
	return left, nil
}

func (p *condParser) parseAnd() (condEvalFn, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == condTokOp && p.peek().text == "&&" {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		l, r := left, right
		left = func(c *condContext) bool { return l(c) && r(c) }
	}
	return left, nil
}

func (p *condParser) parseUnary() (condEvalFn, error) {
	if t := p.peek(); t.kind == condTokOp && t.text == "!" {
		p.next()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return func(c *condContext) bool { return !inner(c) }, nil
	}
	if p.peek().kind == condTokLParen {
		p.next()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != condTokRParen {
			return nil, fmt.Errorf("expected ) but got %q", p.peek().text)
		}
		p.next()
		return inner, nil
	}
	return p.parseComparison()
}

func (p *condParser) parseComparison() (condEvalFn, error) {
	left, _, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	op := p.next()
	if op.kind != condTokOp {
		return nil, fmt.Errorf("expected comparison operator but got %q", op.text)
	}
	switch op.text {
	case "==", "!=":
		right, _, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		negate := op.text == "!="
		return func(c *condContext) bool {
			return (left(c) == right(c)) != negate
		}, nil
	case "=~", "!~":
		t := p.next()
		if t.kind != condTokString {
			return nil, fmt.Errorf("right side of %s must be a string pattern", op.text)
		}
		re, err := compileRegexp(t.text)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %v", t.text, err)
		}
		negate := op.text == "!~"
		return func(c *condContext) bool {
			return re.MatchString(left(c)) != negate
		}, nil
	default:
		return nil, fmt.Errorf("unexpected operator %q", op.text)
	}
}

// parseOperand returns the operand evaluator plus its literal text when the
// operand is a string constant.
func (p *condParser) parseOperand() (condValueFn, bool, error) {
	t := p.next()
	switch t.kind {
	case condTokString:
		s := t.text
		return func(*condContext) string { return s }, true, nil
	case condTokIdent:
		switch t.text {
		case "method":
			return func(c *condContext) string { return c.req.Method }, false, nil
		case "scheme":
			return func(c *condContext) string { return c.req.Scheme }, false, nil
		case "host":
			return func(c *condContext) string { return c.req.Host }, false, nil
		case "path":
			return func(c *condContext) string { return c.req.Path }, false, nil
		case "ip":
			return func(c *condContext) string { return c.req.RemoteAddr }, false, nil
		case "header", "query", "param":
			fn := t.text
			if p.next().kind != condTokLParen {
				return nil, false, fmt.Errorf("%s requires an argument", fn)
			}
			arg := p.next()
			if arg.kind != condTokString {
				return nil, false, fmt.Errorf("%s argument must be a string", fn)
			}
			if p.next().kind != condTokRParen {
				return nil, false, fmt.Errorf("missing ) after %s argument", fn)
			}
			key := arg.text
			switch fn {
			case "header":
				return func(c *condContext) string { return c.req.Header.Get(key) }, false, nil
			case "query":
				return func(c *condContext) string { return c.req.Query.Get(key) }, false, nil
			default:
				return func(c *condContext) string { return c.params[key] }, false, nil
			}
		default:
			return nil, false, fmt.Errorf("unknown identifier %q", t.text)
		}
	default:
		return nil, false, fmt.Errorf("expected operand but got %q", t.text)
	}
}
