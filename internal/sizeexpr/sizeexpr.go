// Package sizeexpr evaluates the size expressions of configuration address
// blocks.
//
// Grammar:
//
//	expr   = term { ("+" | "-") term }
//	term   = unary { ("*" | "/") unary }
//	unary  = [ "-" ] factor
//	factor = integer | name | "(" expr ")"
//
// Integers are decimal or 0x-prefixed hex. Names are looked up through the
// caller's Lookup. Division truncates toward zero.
package sizeexpr

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/vk/socforge/internal/model"
)

// Lookup resolves a name to an already-known integer.
type Lookup func(name string) (int64, bool)

// Eval evaluates expr. Every failure wraps model.ErrResolution.
func Eval(expr string, lookup Lookup) (int64, error) {
	toks, err := tokenize(expr)
	if err != nil {
		return 0, fmt.Errorf("%w: size expression %q: %w", model.ErrResolution, expr, err)
	}
	p := &parser{toks: toks, lookup: lookup}
	v, err := p.expr()
	if err != nil {
		return 0, fmt.Errorf("%w: size expression %q: %w", model.ErrResolution, expr, err)
	}
	if p.pos != len(p.toks) {
		return 0, fmt.Errorf("%w: size expression %q: unexpected %q", model.ErrResolution, expr, p.toks[p.pos].text)
	}
	return v, nil
}

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokName
	tokOp
)

type token struct {
	kind tokenKind
	text string
}

func tokenize(s string) ([]token, error) {
	var toks []token
	rs := []rune(s)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '+' || r == '-' || r == '*' || r == '/' || r == '(' || r == ')':
			toks = append(toks, token{kind: tokOp, text: string(r)})
			i++
		case unicode.IsDigit(r):
			j := i
			for j < len(rs) && (unicode.IsDigit(rs[j]) || unicode.IsLetter(rs[j])) {
				j++
			}
			toks = append(toks, token{kind: tokNumber, text: string(rs[i:j])})
			i = j
		case r == '_' || unicode.IsLetter(r):
			j := i
			for j < len(rs) && (rs[j] == '_' || unicode.IsLetter(rs[j]) || unicode.IsDigit(rs[j])) {
				j++
			}
			toks = append(toks, token{kind: tokName, text: string(rs[i:j])})
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q", r)
		}
	}
	if len(toks) == 0 {
		return nil, fmt.Errorf("empty expression")
	}
	return toks, nil
}

type parser struct {
	toks   []token
	pos    int
	lookup Lookup
}

func (p *parser) peekOp(ops ...string) (string, bool) {
	if p.pos >= len(p.toks) || p.toks[p.pos].kind != tokOp {
		return "", false
	}
	for _, op := range ops {
		if p.toks[p.pos].text == op {
			return op, true
		}
	}
	return "", false
}

func (p *parser) expr() (int64, error) {
	v, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.peekOp("+", "-")
		if !ok {
			return v, nil
		}
		p.pos++
		rhs, err := p.term()
		if err != nil {
			return 0, err
		}
		if op == "+" {
			v += rhs
		} else {
			v -= rhs
		}
	}
}

func (p *parser) term() (int64, error) {
	v, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.peekOp("*", "/")
		if !ok {
			return v, nil
		}
		p.pos++
		rhs, err := p.unary()
		if err != nil {
			return 0, err
		}
		if op == "*" {
			v *= rhs
			continue
		}
		if rhs == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		v /= rhs
	}
}

func (p *parser) unary() (int64, error) {
	if _, ok := p.peekOp("-"); ok {
		p.pos++
		v, err := p.factor()
		return -v, err
	}
	return p.factor()
}

func (p *parser) factor() (int64, error) {
	if p.pos >= len(p.toks) {
		return 0, fmt.Errorf("unexpected end of expression")
	}
	t := p.toks[p.pos]
	p.pos++
	switch t.kind {
	case tokNumber:
		v, err := strconv.ParseInt(t.text, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid integer %q", t.text)
		}
		return v, nil
	case tokName:
		v, ok := p.lookup(t.text)
		if !ok {
			return 0, fmt.Errorf("%q is not a resolved parameter", t.text)
		}
		return v, nil
	default:
		if t.text != "(" {
			return 0, fmt.Errorf("unexpected %q", t.text)
		}
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if _, ok := p.peekOp(")"); !ok {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	}
}
