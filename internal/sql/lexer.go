// Package sql is a minimal recursive-descent parser that turns the
// SQL-like textual grammar of spec §6 into the engine package's Statement
// types, grounded on askorykh-goDB's internal/sql (substring-driven clause
// splitting, a parseLiteral helper) generalised to a proper tokenizer since
// the WHERE grammar here nests And/Or/Binary and must reject ambiguous
// unparenthesised mixes.
package sql

import (
	"fmt"
	"strconv"
	"strings"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokKeyword
	tokUint
	tokInt
	tokFloat
	tokString
	tokLParen
	tokRParen
	tokComma
	tokEq
	tokNotEq
	tokLt
	tokLtEq
	tokGt
	tokGtEq
	tokStar
)

type token struct {
	kind tokenKind
	text string
}

var keywords = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "LIMIT": true, "SKIP": true,
	"INSERT": true, "INTO": true, "VALUES": true,
	"UPDATE": true, "SET": true, "DELETE": true,
	"AND": true, "OR": true,
}

// lexer tokenizes a statement string. Identifiers and keywords share the
// same character class; keyword-ness is resolved by case-insensitive
// lookup once a word is scanned.
type lexer struct {
	src []rune
	pos int
}

func newLexer(src string) *lexer { return &lexer{src: []rune(src)} }

func (lx *lexer) peekRune() (rune, bool) {
	if lx.pos >= len(lx.src) {
		return 0, false
	}
	return lx.src[lx.pos], true
}

func (lx *lexer) skipSpace() {
	for {
		r, ok := lx.peekRune()
		if !ok || !isSpace(r) {
			return
		}
		lx.pos++
	}
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' }
func isDigit(r rune) bool { return r >= '0' && r <= '9' }
func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
func isIdentPart(r rune) bool { return isIdentStart(r) || isDigit(r) }

// next scans and returns the next token, or a tokEOF token at end of input.
func (lx *lexer) next() (token, error) {
	lx.skipSpace()
	r, ok := lx.peekRune()
	if !ok {
		return token{kind: tokEOF}, nil
	}

	switch r {
	case '(':
		lx.pos++
		return token{kind: tokLParen, text: "("}, nil
	case ')':
		lx.pos++
		return token{kind: tokRParen, text: ")"}, nil
	case ',':
		lx.pos++
		return token{kind: tokComma, text: ","}, nil
	case '=':
		lx.pos++
		return token{kind: tokEq, text: "="}, nil
	case '!':
		lx.pos++
		if r2, ok := lx.peekRune(); ok && r2 == '=' {
			lx.pos++
			return token{kind: tokNotEq, text: "!="}, nil
		}
		return token{}, fmt.Errorf("sql: unexpected %q after '!'", string(r))
	case '<':
		lx.pos++
		if r2, ok := lx.peekRune(); ok && r2 == '=' {
			lx.pos++
			return token{kind: tokLtEq, text: "<="}, nil
		}
		return token{kind: tokLt, text: "<"}, nil
	case '>':
		lx.pos++
		if r2, ok := lx.peekRune(); ok && r2 == '=' {
			lx.pos++
			return token{kind: tokGtEq, text: ">="}, nil
		}
		return token{kind: tokGt, text: ">"}, nil
	case '"':
		return lx.scanString()
	case '*':
		lx.pos++
		return token{kind: tokStar, text: "*"}, nil
	}

	if isDigit(r) || r == '+' || r == '-' {
		return lx.scanNumber()
	}
	if isIdentStart(r) {
		return lx.scanIdent()
	}
	return token{}, fmt.Errorf("sql: unexpected character %q", string(r))
}

func (lx *lexer) scanString() (token, error) {
	lx.pos++ // opening quote
	start := lx.pos
	for {
		r, ok := lx.peekRune()
		if !ok {
			return token{}, fmt.Errorf("sql: unterminated string literal")
		}
		if r == '"' {
			s := string(lx.src[start:lx.pos])
			lx.pos++
			return token{kind: tokString, text: s}, nil
		}
		lx.pos++
	}
}

func (lx *lexer) scanNumber() (token, error) {
	start := lx.pos
	signed := false
	if r, _ := lx.peekRune(); r == '+' || r == '-' {
		signed = true
		lx.pos++
	}
	sawDigit := false
	for {
		r, ok := lx.peekRune()
		if !ok || !isDigit(r) {
			break
		}
		sawDigit = true
		lx.pos++
	}
	if !sawDigit {
		return token{}, fmt.Errorf("sql: malformed numeric literal %q", string(lx.src[start:lx.pos]))
	}
	isFloat := false
	if r, ok := lx.peekRune(); ok && r == '.' {
		isFloat = true
		lx.pos++
		for {
			r, ok := lx.peekRune()
			if !ok || !isDigit(r) {
				break
			}
			lx.pos++
		}
	}
	text := string(lx.src[start:lx.pos])
	switch {
	case isFloat:
		return token{kind: tokFloat, text: text}, nil
	case signed:
		return token{kind: tokInt, text: text}, nil
	default:
		return token{kind: tokUint, text: text}, nil
	}
}

func (lx *lexer) scanIdent() (token, error) {
	start := lx.pos
	for {
		r, ok := lx.peekRune()
		if !ok || !isIdentPart(r) {
			break
		}
		lx.pos++
	}
	word := string(lx.src[start:lx.pos])
	if keywords[strings.ToUpper(word)] {
		return token{kind: tokKeyword, text: strings.ToUpper(word)}, nil
	}
	return token{kind: tokIdent, text: word}, nil
}

func parseUintText(s string) (uint64, error)  { return strconv.ParseUint(s, 10, 64) }
func parseIntText(s string) (int64, error)    { return strconv.ParseInt(s, 10, 64) }
func parseFloatText(s string) (float64, error) { return strconv.ParseFloat(s, 64) }
