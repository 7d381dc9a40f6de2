// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import (
	"io"
	"log/slog"
	"sort"

	"github.com/db47h/gatesim/internal/hdl"
	"github.com/pkg/errors"
)

// TemplateRecord is a raw gate type definition as read from a library file.
//
type TemplateRecord struct {
	Name   string
	Inputs int    // declared input count
	Expr   string // output expression over the placeholders i1..iN
	Delay  int64  // propagation delay
}

// A Template is a compiled gate type. Templates are immutable.
//
type Template struct {
	Name   string
	Inputs int
	Expr   string
	Delay  int64
	prog   hdl.Program
}

// NewTemplate compiles a gate type definition. The expression may only
// reference the placeholders i1 to iN where N is the declared input count.
//
func NewTemplate(rec TemplateRecord) (*Template, error) {
	if !hdl.IsName(rec.Name) {
		return nil, errors.Errorf("invalid gate type name %q", rec.Name)
	}
	if rec.Inputs < 1 {
		return nil, errors.Errorf("gate type %s: invalid input count %d", rec.Name, rec.Inputs)
	}
	if rec.Delay < 0 {
		return nil, errors.Errorf("gate type %s: negative delay %d", rec.Name, rec.Delay)
	}
	p, err := hdl.Compile(rec.Expr)
	if err == nil {
		err = p.CheckPlaceholders(rec.Inputs)
	}
	if err != nil {
		return nil, errors.WithStack(&ExpressionError{Gate: rec.Name, Expr: rec.Expr, Err: err})
	}
	return &Template{
		Name:   rec.Name,
		Inputs: rec.Inputs,
		Expr:   rec.Expr,
		Delay:  rec.Delay,
		prog:   p,
	}, nil
}

// Postfix returns the compiled form of the template expression.
//
func (t *Template) Postfix() string { return t.prog.String() }

// A Library maps gate type names to templates.
//
type Library struct {
	m map[string]*Template
}

// NewLibrary returns an empty library.
//
func NewLibrary() *Library {
	return &Library{m: make(map[string]*Template)}
}

// LoadTemplates compiles the given records into a new library. See
// Library.Load.
//
func LoadTemplates(recs []TemplateRecord, log *slog.Logger) (*Library, error) {
	l := NewLibrary()
	if err := l.Load(recs, log); err != nil {
		return nil, err
	}
	return l, nil
}

// Load compiles and adds the given records to the library.
//
// The first definition of a type name wins: later definitions are logged and
// ignored. Any other error, like a malformed expression, aborts the load.
//
func (l *Library) Load(recs []TemplateRecord, log *slog.Logger) error {
	log = Logger(log)
	for _, r := range recs {
		t, err := NewTemplate(r)
		if err != nil {
			return err
		}
		if err = l.Add(t); err != nil {
			var de *DuplicateError
			if errors.As(err, &de) {
				log.Warn("ignoring gate type", "type", r.Name, "error", err)
				continue
			}
			return err
		}
		log.Debug("gate type", "type", t.Name, "inputs", t.Inputs, "expr", t.Expr, "postfix", t.Postfix(), "delay", t.Delay)
	}
	return nil
}

// Add adds t to the library. It returns a *DuplicateError if a template with
// the same name already exists.
//
func (l *Library) Add(t *Template) error {
	if _, ok := l.m[t.Name]; ok {
		return errors.WithStack(&DuplicateError{Kind: "gate type", Name: t.Name})
	}
	l.m[t.Name] = t
	return nil
}

// Lookup returns the template for the named gate type.
//
func (l *Library) Lookup(name string) (*Template, bool) {
	t, ok := l.m[name]
	return t, ok
}

// Types returns the sorted list of gate type names.
//
func (l *Library) Types() []string {
	out := make([]string, 0, len(l.m))
	for n := range l.m {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of templates in the library.
//
func (l *Library) Len() int { return len(l.m) }

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// Logger returns l, or a logger that discards its output if l is nil.
//
func Logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return discard
	}
	return l
}
