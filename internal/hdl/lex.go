// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hdl implements the boolean expression language used by gate
// templates: a lexer, a compiler to postfix form, placeholder binding and a
// stack based evaluator.
//
package hdl

import (
	"strconv"
	"unicode/utf8"
)

// Type is a token type.
//
type Type int

// Tokens
const (
	EOF Type = iota
	Raw
	Ident
	Not
	And
	Or
	Xor
	ParenOpen
	ParenClose
)

var typeNames = [...]string{
	EOF:        "end of input",
	Raw:        "invalid character",
	Ident:      "identifier",
	Not:        "'~'",
	And:        "'&'",
	Or:         "'|'",
	Xor:        "'^'",
	ParenOpen:  "'('",
	ParenClose: "')'",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "token(" + strconv.Itoa(int(t)) + ")"
	}
	return typeNames[t]
}

// Item is a lexed token.
//
type Item struct {
	Type  Type
	Pos   int // byte offset in the input
	Value string
}

func (i Item) String() string {
	switch i.Type {
	case Ident:
		return "identifier " + strconv.Quote(i.Value)
	case Raw:
		return "invalid character " + strconv.Quote(i.Value)
	}
	return i.Type.String()
}

// Lexer splits a boolean expression into tokens.
//
type Lexer struct {
	input string
	pos   int
}

// NewLexer returns a new lexer for the given expression.
//
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Lex returns the next token. Once the end of input is reached, Lex only
// returns EOF items. A Raw item is returned for any character that is not
// part of the language; the lexer moves past it.
//
func (l *Lexer) Lex() Item {
	for l.pos < len(l.input) && isSpace(l.input[l.pos]) {
		l.pos++
	}
	if l.pos >= len(l.input) {
		return Item{Type: EOF, Pos: l.pos}
	}
	start := l.pos
	c := l.input[l.pos]
	switch {
	case isIdent(c):
		for l.pos < len(l.input) && isIdent(l.input[l.pos]) {
			l.pos++
		}
		return Item{Type: Ident, Pos: start, Value: l.input[start:l.pos]}
	case c == '~':
		return l.emit(Not)
	case c == '&':
		return l.emit(And)
	case c == '|':
		return l.emit(Or)
	case c == '^':
		return l.emit(Xor)
	case c == '(':
		return l.emit(ParenOpen)
	case c == ')':
		return l.emit(ParenClose)
	}
	_, sz := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += sz
	return Item{Type: Raw, Pos: start, Value: l.input[start:l.pos]}
}

func (l *Lexer) emit(t Type) Item {
	i := Item{Type: t, Pos: l.pos, Value: l.input[l.pos : l.pos+1]}
	l.pos++
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// isIdent reports whether c can be part of an operand name. Operand names are
// ASCII letters, digits and underscores.
//
func isIdent(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || c == '_'
}

// IsName reports whether s is a valid operand (signal) name.
//
func IsName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdent(s[i]) {
			return false
		}
	}
	return true
}
