package aggregate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// DefaultFormula mirrors the classic 10-point scale: each error weighs five
// statements, everything else one.
const DefaultFormula = "10.0 - ((float(5 * error + warning + refactor + convention) / statement) * 10)"

// ErrBadFormula indicates an unparsable or unevaluable score expression.
var ErrBadFormula = errors.New("bad score formula")

// EvalFormula evaluates a user score expression over the run variables
// {fatal, error, warning, refactor, convention, info, statement}. The
// pseudo-function float(x) is accepted for compatibility and is the identity.
func EvalFormula(formula string, vars map[string]float64) (float64, error) {
	p := &formulaParser{src: formula, vars: vars}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return 0, fmt.Errorf("%w: unexpected %q at offset %d", ErrBadFormula, p.src[p.pos:], p.pos)
	}
	return v, nil
}

type formulaParser struct {
	src  string
	pos  int
	vars map[string]float64
}

func (p *formulaParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *formulaParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

// parseExpr handles + and -.
func (p *formulaParser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left += right
		case '-':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

// parseTerm handles * and /.
func (p *formulaParser) parseTerm() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			left *= right
		case '/':
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, fmt.Errorf("%w: division by zero", ErrBadFormula)
			}
			left /= right
		default:
			return left, nil
		}
	}
}

func (p *formulaParser) parseUnary() (float64, error) {
	if p.peek() == '-' {
		p.pos++
		v, err := p.parseUnary()
		return -v, err
	}
	return p.parsePrimary()
}

func (p *formulaParser) parsePrimary() (float64, error) {
	ch := p.peek()
	switch {
	case ch == '(':
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, fmt.Errorf("%w: missing closing parenthesis", ErrBadFormula)
		}
		p.pos++
		return v, nil

	case ch >= '0' && ch <= '9' || ch == '.':
		start := p.pos
		for p.pos < len(p.src) && (p.src[p.pos] >= '0' && p.src[p.pos] <= '9' || p.src[p.pos] == '.') {
			p.pos++
		}
		v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
		if err != nil {
			return 0, fmt.Errorf("%w: number %q", ErrBadFormula, p.src[start:p.pos])
		}
		return v, nil

	case isIdentStart(ch):
		start := p.pos
		for p.pos < len(p.src) && isIdentByte(p.src[p.pos]) {
			p.pos++
		}
		name := strings.ToLower(p.src[start:p.pos])
		if name == "float" && p.peek() == '(' {
			// compatibility shim: float(x) == x
			return p.parsePrimary()
		}
		v, ok := p.vars[name]
		if !ok {
			return 0, fmt.Errorf("%w: unknown variable %q", ErrBadFormula, name)
		}
		return v, nil

	case ch == 0:
		return 0, fmt.Errorf("%w: unexpected end of expression", ErrBadFormula)

	default:
		return 0, fmt.Errorf("%w: unexpected character %q", ErrBadFormula, ch)
	}
}

func isIdentStart(b byte) bool {
	return unicode.IsLetter(rune(b)) || b == '_'
}

func isIdentByte(b byte) bool {
	return isIdentStart(b) || b >= '0' && b <= '9'
}
