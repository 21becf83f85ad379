package resolver

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"unicode"
)

// parseLiteral parses a structured-data string under a fixed literal
// grammar: objects, arrays, single- or double-quoted strings, numbers,
// True/False/None (and their JSON spellings), a closed allow-list of
// numeric constants (nan, inf), and Timestamp('...') wrappers which reduce
// to their inner string. Trailing commas are tolerated. Anything else —
// names, calls, operators — is rejected, so no expression is ever
// evaluated.
func parseLiteral(input string) (any, error) {
	p := &literalParser{src: []rune(input)}

	p.skipSpace()

	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	if p.pos != len(p.src) {
		return nil, fmt.Errorf("trailing input at offset %d", p.pos)
	}

	return value, nil
}

type literalParser struct {
	src []rune
	pos int
}

// allow-list of bare words the grammar accepts; every other identifier is
// rejected.
var literalConstants = map[string]any{
	"True":     true,
	"true":     true,
	"False":    false,
	"false":    false,
	"None":     nil,
	"null":     nil,
	"nan":      math.NaN(),
	"NaN":      math.NaN(),
	"inf":      math.Inf(1),
	"Infinity": math.Inf(1),
}

func (p *literalParser) parseValue() (any, error) {
	if p.pos >= len(p.src) {
		return nil, fmt.Errorf("unexpected end of input")
	}

	switch c := p.src[p.pos]; {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == '\'' || c == '"':
		return p.parseString()
	case c == '-' || c == '+' || unicode.IsDigit(c):
		return p.parseNumber()
	case unicode.IsLetter(c):
		return p.parseWord()
	default:
		return nil, fmt.Errorf("unexpected character %q at offset %d", c, p.pos)
	}
}

func (p *literalParser) parseObject() (any, error) {
	p.pos++ // consume '{'
	result := make(map[string]any)

	for {
		p.skipSpace()

		if p.eat('}') {
			return result, nil
		}

		key, err := p.parseString()
		if err != nil {
			return nil, fmt.Errorf("object key: %w", err)
		}

		p.skipSpace()

		if !p.eat(':') {
			return nil, fmt.Errorf("expected ':' at offset %d", p.pos)
		}

		p.skipSpace()

		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		result[key] = value

		p.skipSpace()

		if p.eat(',') {
			continue
		}

		if p.eat('}') {
			return result, nil
		}

		return nil, fmt.Errorf("expected ',' or '}' at offset %d", p.pos)
	}
}

func (p *literalParser) parseArray() (any, error) {
	p.pos++ // consume '['
	result := make([]any, 0)

	for {
		p.skipSpace()

		if p.eat(']') {
			return result, nil
		}

		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		result = append(result, value)

		p.skipSpace()

		if p.eat(',') {
			continue
		}

		if p.eat(']') {
			return result, nil
		}

		return nil, fmt.Errorf("expected ',' or ']' at offset %d", p.pos)
	}
}

func (p *literalParser) parseString() (string, error) {
	if p.pos >= len(p.src) {
		return "", fmt.Errorf("unexpected end of input")
	}

	quote := p.src[p.pos]
	if quote != '\'' && quote != '"' {
		return "", fmt.Errorf("expected string at offset %d", p.pos)
	}

	p.pos++

	var sb strings.Builder

	for p.pos < len(p.src) {
		c := p.src[p.pos]

		switch c {
		case quote:
			p.pos++

			return sb.String(), nil
		case '\\':
			p.pos++
			if p.pos >= len(p.src) {
				return "", fmt.Errorf("unterminated escape sequence")
			}

			switch esc := p.src[p.pos]; esc {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			default:
				sb.WriteRune(esc)
			}

			p.pos++
		default:
			sb.WriteRune(c)
			p.pos++
		}
	}

	return "", fmt.Errorf("unterminated string")
}

func (p *literalParser) parseNumber() (any, error) {
	start := p.pos

	negative := p.eat('-')
	if !negative {
		p.eat('+')
	}

	// negative allow-list constants, e.g. -inf
	if p.pos < len(p.src) && unicode.IsLetter(p.src[p.pos]) {
		word, err := p.parseWord()
		if err != nil {
			return nil, err
		}

		f, ok := word.(float64)
		if !ok {
			return nil, fmt.Errorf("unexpected token at offset %d", start)
		}

		if negative {
			return -f, nil
		}

		return f, nil
	}

	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if unicode.IsDigit(c) || c == '.' || c == 'e' || c == 'E' ||
			((c == '-' || c == '+') && (p.src[p.pos-1] == 'e' || p.src[p.pos-1] == 'E')) {
			p.pos++

			continue
		}

		break
	}

	text := string(p.src[start:p.pos])

	num := json.Number(text)
	if _, err := num.Float64(); err != nil {
		return nil, fmt.Errorf("invalid number %q at offset %d", text, start)
	}

	return num, nil
}

// parseWord handles the constant allow-list and Timestamp('...') wrappers.
func (p *literalParser) parseWord() (any, error) {
	start := p.pos
	for p.pos < len(p.src) && (unicode.IsLetter(p.src[p.pos]) || unicode.IsDigit(p.src[p.pos]) || p.src[p.pos] == '_') {
		p.pos++
	}

	word := string(p.src[start:p.pos])

	if word == "Timestamp" {
		p.skipSpace()

		if !p.eat('(') {
			return nil, fmt.Errorf("expected '(' after Timestamp at offset %d", p.pos)
		}

		p.skipSpace()

		inner, err := p.parseString()
		if err != nil {
			return nil, fmt.Errorf("Timestamp argument: %w", err)
		}

		p.skipSpace()

		if !p.eat(')') {
			return nil, fmt.Errorf("expected ')' at offset %d", p.pos)
		}

		return inner, nil
	}

	value, ok := literalConstants[word]
	if !ok {
		return nil, fmt.Errorf("name %q is not allowed", word)
	}

	return value, nil
}

func (p *literalParser) eat(c rune) bool {
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++

		return true
	}

	return false
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(p.src[p.pos]) {
		p.pos++
	}
}
