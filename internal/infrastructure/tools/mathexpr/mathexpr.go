// Package mathexpr evaluates arithmetic expressions with a fixed allow-list
// of functions and constants. It is a small recursive-descent parser: no
// identifiers outside the allow-list ever resolve, so crafted input cannot
// reach anything executable.
package mathexpr

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokComma
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	num  float64
	pos  int
}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

type function struct {
	minArgs int
	maxArgs int // -1 means variadic
	apply   func(args []float64) (float64, error)
}

func unary(f func(float64) float64) function {
	return function{minArgs: 1, maxArgs: 1, apply: func(args []float64) (float64, error) {
		return f(args[0]), nil
	}}
}

var functions = map[string]function{
	"sqrt": {minArgs: 1, maxArgs: 1, apply: func(args []float64) (float64, error) {
		if args[0] < 0 {
			return 0, fmt.Errorf("sqrt of negative number")
		}
		return math.Sqrt(args[0]), nil
	}},
	"abs":   unary(math.Abs),
	"round": unary(math.Round),
	"floor": unary(math.Floor),
	"ceil":  unary(math.Ceil),
	"sin":   unary(math.Sin),
	"cos":   unary(math.Cos),
	"tan":   unary(math.Tan),
	"exp":   unary(math.Exp),
	"log": {minArgs: 1, maxArgs: 1, apply: func(args []float64) (float64, error) {
		if args[0] <= 0 {
			return 0, fmt.Errorf("log of non-positive number")
		}
		return math.Log(args[0]), nil
	}},
	"log10": {minArgs: 1, maxArgs: 1, apply: func(args []float64) (float64, error) {
		if args[0] <= 0 {
			return 0, fmt.Errorf("log10 of non-positive number")
		}
		return math.Log10(args[0]), nil
	}},
	"pow": {minArgs: 2, maxArgs: 2, apply: func(args []float64) (float64, error) {
		return math.Pow(args[0], args[1]), nil
	}},
	"min": {minArgs: 1, maxArgs: -1, apply: func(args []float64) (float64, error) {
		result := args[0]
		for _, v := range args[1:] {
			result = math.Min(result, v)
		}
		return result, nil
	}},
	"max": {minArgs: 1, maxArgs: -1, apply: func(args []float64) (float64, error) {
		result := args[0]
		for _, v := range args[1:] {
			result = math.Max(result, v)
		}
		return result, nil
	}},
	"sum": {minArgs: 1, maxArgs: -1, apply: func(args []float64) (float64, error) {
		var result float64
		for _, v := range args {
			result += v
		}
		return result, nil
	}},
}

// Eval parses and evaluates one expression.
func Eval(expression string) (float64, error) {
	tokens, err := lex(expression)
	if err != nil {
		return 0, err
	}

	p := &parser{tokens: tokens}
	result, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if p.peek().kind != tokEOF {
		return 0, fmt.Errorf("unexpected %q at position %d", p.peek().text, p.peek().pos)
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, fmt.Errorf("result is not a finite number")
	}
	return result, nil
}

func lex(input string) ([]token, error) {
	var tokens []token
	runes := []rune(input)
	i := 0

	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r) || r == '.':
			start := i
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				i++
			}
			text := string(runes[start:i])
			num, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q at position %d", text, start)
			}
			tokens = append(tokens, token{kind: tokNumber, text: text, num: num, pos: start})
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			tokens = append(tokens, token{kind: tokIdent, text: strings.ToLower(string(runes[start:i])), pos: start})
		case strings.ContainsRune("+-*/%^", r):
			tokens = append(tokens, token{kind: tokOp, text: string(r), pos: i})
			i++
		case r == '(':
			tokens = append(tokens, token{kind: tokLParen, text: "(", pos: i})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokRParen, text: ")", pos: i})
			i++
		case r == ',':
			tokens = append(tokens, token{kind: tokComma, text: ",", pos: i})
			i++
		default:
			return nil, fmt.Errorf("unexpected character %q at position %d", r, i)
		}
	}

	tokens = append(tokens, token{kind: tokEOF, pos: len(runes)})
	return tokens, nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

// expr := term (("+" | "-") term)*
func (p *parser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for p.peek().kind == tokOp && (p.peek().text == "+" || p.peek().text == "-") {
		op := p.next().text
		right, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if op == "+" {
			left += right
		} else {
			left -= right
		}
	}
	return left, nil
}

// term := unary (("*" | "/" | "%") unary)*
func (p *parser) parseTerm() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for p.peek().kind == tokOp && (p.peek().text == "*" || p.peek().text == "/" || p.peek().text == "%") {
		op := p.next()
		right, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		switch op.text {
		case "*":
			left *= right
		case "/":
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			left /= right
		case "%":
			if right == 0 {
				return 0, fmt.Errorf("modulo by zero")
			}
			left = math.Mod(left, right)
		}
	}
	return left, nil
}

// unary := "-" unary | power
func (p *parser) parseUnary() (float64, error) {
	if p.peek().kind == tokOp && p.peek().text == "-" {
		p.next()
		value, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return -value, nil
	}
	return p.parsePower()
}

// power := primary ("^" unary)?   (right-associative)
func (p *parser) parsePower() (float64, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return 0, err
	}
	if p.peek().kind == tokOp && p.peek().text == "^" {
		p.next()
		exponent, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return math.Pow(base, exponent), nil
	}
	return base, nil
}

// primary := number | ident "(" args ")" | ident | "(" expr ")"
func (p *parser) parsePrimary() (float64, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return t.num, nil
	case tokLParen:
		value, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return 0, fmt.Errorf("missing closing parenthesis at position %d", closing.pos)
		}
		return value, nil
	case tokIdent:
		if p.peek().kind == tokLParen {
			return p.parseCall(t)
		}
		if value, ok := constants[t.text]; ok {
			return value, nil
		}
		return 0, fmt.Errorf("unknown identifier %q", t.text)
	default:
		return 0, fmt.Errorf("unexpected %q at position %d", t.text, t.pos)
	}
}

func (p *parser) parseCall(name token) (float64, error) {
	fn, ok := functions[name.text]
	if !ok {
		return 0, fmt.Errorf("unknown function %q", name.text)
	}

	p.next() // consume "("

	var args []float64
	if p.peek().kind != tokRParen {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return 0, err
			}
			args = append(args, arg)
			if p.peek().kind != tokComma {
				break
			}
			p.next()
		}
	}
	if closing := p.next(); closing.kind != tokRParen {
		return 0, fmt.Errorf("missing closing parenthesis in call to %q", name.text)
	}

	if len(args) < fn.minArgs {
		return 0, fmt.Errorf("%s expects at least %d argument(s), got %d", name.text, fn.minArgs, len(args))
	}
	if fn.maxArgs >= 0 && len(args) > fn.maxArgs {
		return 0, fmt.Errorf("%s expects at most %d argument(s), got %d", name.text, fn.maxArgs, len(args))
	}

	return fn.apply(args)
}
