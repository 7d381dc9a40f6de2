// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hdl

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// Placeholder returns the name of the k-th (1 based) generic input of a gate
// template.
//
func Placeholder(k int) string {
	return "i" + strconv.Itoa(k)
}

// PlaceholderIndex returns k if name is the placeholder "i{k}" with k >= 1.
// Leading zeros are not allowed.
//
func PlaceholderIndex(name string) (int, bool) {
	if len(name) < 2 || name[0] != 'i' || name[1] == '0' {
		return 0, false
	}
	k := 0
	for i := 1; i < len(name); i++ {
		c := name[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		k = k*10 + int(c-'0')
		if k > 1<<20 {
			return 0, false
		}
	}
	return k, true
}

// CheckPlaceholders verifies that every operand of p is a placeholder i1..iN
// with N = arity.
//
func (p Program) CheckPlaceholders(arity int) error {
	for _, t := range p {
		if t.Type != Ident {
			continue
		}
		k, ok := PlaceholderIndex(t.Name)
		if !ok {
			return errors.Errorf("operand %q is not an input placeholder", t.Name)
		}
		if k > arity {
			return errors.Errorf("placeholder %s out of range for %d input(s)", t.Name, arity)
		}
	}
	return nil
}

// Bind returns a copy of p where every placeholder iK is replaced with
// inputs[K-1]. Substitution is done on operand tokens, so binding i1 never
// touches i10.
//
func (p Program) Bind(inputs []string) (Program, error) {
	out := make(Program, len(p))
	for i, t := range p {
		if t.Type == Ident {
			k, ok := PlaceholderIndex(t.Name)
			if !ok {
				return nil, errors.Errorf("operand %q is not an input placeholder", t.Name)
			}
			if k > len(inputs) {
				return nil, errors.Errorf("placeholder %s out of range for %d input(s)", t.Name, len(inputs))
			}
			t.Name = inputs[k-1]
		}
		out[i] = t
	}
	return out, nil
}

// An EvalError reports a program that cannot be evaluated: stack underflow,
// invalid token or a final stack depth other than one.
//
type EvalError struct {
	Program string
	Msg     string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluating %q: %s", e.Program, e.Msg)
}

// Lookup returns the current value of a named operand.
//
type Lookup func(name string) (bool, error)

// Eval evaluates p. Operand values are obtained through get; errors returned
// by get are returned as is.
//
func (p Program) Eval(get Lookup) (bool, error) {
	var buf [16]bool
	stack := buf[:0]
	for i, t := range p {
		switch t.Type {
		case Ident:
			v, err := get(t.Name)
			if err != nil {
				return false, err
			}
			stack = append(stack, v)
		case Not:
			if len(stack) < 1 {
				return false, p.evalError("stack underflow at token %d (%s)", i, t)
			}
			stack[len(stack)-1] = !stack[len(stack)-1]
		case And, Or, Xor:
			if len(stack) < 2 {
				return false, p.evalError("stack underflow at token %d (%s)", i, t)
			}
			a, b := stack[len(stack)-2], stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			switch t.Type {
			case And:
				stack[len(stack)-1] = a && b
			case Or:
				stack[len(stack)-1] = a || b
			case Xor:
				stack[len(stack)-1] = a != b
			}
		default:
			return false, p.evalError("invalid token %d (%s)", i, t)
		}
	}
	if len(stack) != 1 {
		return false, p.evalError("stack depth %d at end of evaluation", len(stack))
	}
	return stack[0], nil
}

func (p Program) evalError(format string, args ...interface{}) error {
	return errors.WithStack(&EvalError{Program: p.String(), Msg: fmt.Sprintf(format, args...)})
}
