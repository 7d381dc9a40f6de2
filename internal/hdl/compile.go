// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hdl

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Token is a single instruction of a compiled Program: either an operand
// (Type == Ident) or one of the Not, And, Or and Xor operators.
//
type Token struct {
	Type Type
	Name string // operand name, empty for operators
}

func (t Token) String() string {
	switch t.Type {
	case Ident:
		return t.Name
	case Not:
		return "~"
	case And:
		return "&"
	case Or:
		return "|"
	case Xor:
		return "^"
	}
	return t.Type.String()
}

// Program is a boolean expression in postfix (reverse Polish) order.
//
type Program []Token

// String returns the postfix form of p with tokens separated by spaces.
//
func (p Program) String() string {
	var b strings.Builder
	for i, t := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.String())
	}
	return b.String()
}

// Operands returns the distinct operand names of p in order of first
// appearance.
//
func (p Program) Operands() []string {
	var out []string
	seen := make(map[string]bool)
	for _, t := range p {
		if t.Type == Ident && !seen[t.Name] {
			seen[t.Name] = true
			out = append(out, t.Name)
		}
	}
	return out
}

// A SyntaxError reports a malformed expression.
//
type SyntaxError struct {
	Expr string
	Pos  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("in %q at pos %d: %s", e.Expr, e.Pos+1, e.Msg)
}

func syntaxError(expr string, i Item, msg string) error {
	return errors.WithStack(&SyntaxError{Expr: expr, Pos: i.Pos, Msg: msg + ", got " + i.String()})
}

func precedence(t Type) int {
	switch t {
	case Not:
		return 3
	case And:
		return 2
	case Or, Xor:
		return 1
	}
	return 0
}

const (
	wantOperand = iota
	wantOperator
)

// Compile converts an infix boolean expression to postfix form.
//
// Operators, from highest to lowest precedence, are ~ (unary NOT), & (AND),
// | (OR) and ^ (XOR). | and ^ share the same precedence and are left
// associative. Operands are runs of letters, digits and underscores.
//
// Malformed expressions (unbalanced parentheses, missing operands or
// operators, unknown characters) are reported as a *SyntaxError.
//
func Compile(expr string) (Program, error) {
	var (
		out  Program
		ops  []Item
		want = wantOperand
	)
	l := NewLexer(expr)
	for {
		i := l.Lex()
		if i.Type == Raw {
			return nil, syntaxError(expr, i, "unexpected character")
		}
		if want == wantOperand {
			switch i.Type {
			case Ident:
				out = append(out, Token{Type: Ident, Name: i.Value})
				want = wantOperator
			case Not, ParenOpen:
				ops = append(ops, i)
			default:
				return nil, syntaxError(expr, i, "expected operand")
			}
			continue
		}

		switch i.Type {
		case EOF:
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				ops = ops[:len(ops)-1]
				if top.Type == ParenOpen {
					return nil, syntaxError(expr, top, "unbalanced parenthesis")
				}
				out = append(out, Token{Type: top.Type})
			}
			return out, nil
		case And, Or, Xor:
			p := precedence(i.Type)
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				if top.Type == ParenOpen || precedence(top.Type) < p {
					break
				}
				ops = ops[:len(ops)-1]
				out = append(out, Token{Type: top.Type})
			}
			ops = append(ops, i)
			want = wantOperand
		case ParenClose:
			for {
				if len(ops) == 0 {
					return nil, syntaxError(expr, i, "unbalanced parenthesis")
				}
				top := ops[len(ops)-1]
				ops = ops[:len(ops)-1]
				if top.Type == ParenOpen {
					break
				}
				out = append(out, Token{Type: top.Type})
			}
		default:
			return nil, syntaxError(expr, i, "expected operator")
		}
	}
}

// MustCompile is like Compile but panics on error.
//
func MustCompile(expr string) Program {
	p, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return p
}
