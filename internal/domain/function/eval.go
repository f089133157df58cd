package function

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

// evalExpression evaluates an arithmetic expression over float64 with the
// operators + - * / % ** and parentheses. Grammar, loosest binding first:
//
//	expr   = term   { ("+" | "-") term }
//	term   = unary  { ("*" | "/" | "%") unary }
//	unary  = ["-"] power
//	power  = atom   [ "**" unary ]
//	atom   = number | "(" expr ")"
func evalExpression(input string) (float64, error) {
	p := &exprParser{src: input}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return 0, p.errorf("unexpected character %q", p.src[p.pos])
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, p.errorf("expression result is not a finite number")
	}
	return v, nil
}

type exprParser struct {
	src string
	pos int
}

func (p *exprParser) errorf(format string, args ...any) error {
	return apperrors.Newf(apperrors.LayerDomain, apperrors.ErrorTypeValidation, "invalid expression: "+format, args...)
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *exprParser) accept(tok string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.src[p.pos:], tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

func (p *exprParser) parseExpr() (float64, error) {
	v, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		switch {
		case p.accept("+"):
			rhs, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			v += rhs
		case p.accept("-"):
			rhs, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			v -= rhs
		default:
			return v, nil
		}
	}
}

func (p *exprParser) parseTerm() (float64, error) {
	v, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		switch {
		case p.accept("*"):
			rhs, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			v *= rhs
		case p.accept("/"):
			rhs, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if rhs == 0 {
				return 0, p.errorf("division by zero")
			}
			v /= rhs
		case p.accept("%"):
			rhs, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if rhs == 0 {
				return 0, p.errorf("modulo by zero")
			}
			v = math.Mod(v, rhs)
		default:
			return v, nil
		}
	}
}

func (p *exprParser) parseUnary() (float64, error) {
	if p.accept("-") {
		v, err := p.parsePower()
		if err != nil {
			return 0, err
		}
		return -v, nil
	}
	return p.parsePower()
}

func (p *exprParser) parsePower() (float64, error) {
	v, err := p.parseAtom()
	if err != nil {
		return 0, err
	}
	if p.accept("**") {
		exp, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return math.Pow(v, exp), nil
	}
	return v, nil
}

func (p *exprParser) parseAtom() (float64, error) {
	if p.accept("(") {
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if !p.accept(")") {
			return 0, p.errorf("missing closing parenthesis")
		}
		return v, nil
	}
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := rune(p.src[p.pos])
		if unicode.IsDigit(c) || c == '.' {
			p.pos++
			continue
		}
		break
	}
	if start == p.pos {
		return 0, p.errorf("expected a number")
	}
	v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return 0, p.errorf("malformed number %q", p.src[start:p.pos])
	}
	return v, nil
}
