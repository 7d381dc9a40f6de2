// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package netfile reads gate library, circuit and stimuli files and writes
// simulation traces.
//
// All input formats are line oriented. Blank lines and lines starting with #
// or // are ignored.
//
package netfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/db47h/gatesim"
	"github.com/db47h/gatesim/internal/hdl"
	"github.com/pkg/errors"
)

// FileOpenError is returned when an input or output file cannot be opened.
//
type FileOpenError struct {
	Path string
	Err  error
}

func (e *FileOpenError) Error() string {
	return fmt.Sprintf("cannot open %s: %v", e.Path, e.Err)
}

func (e *FileOpenError) Unwrap() error { return e.Err }

// ParseError reports a malformed line.
//
type ParseError struct {
	File string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

type scanner struct {
	*bufio.Scanner
	name string
	line int
}

func newScanner(r io.Reader, name string) *scanner {
	return &scanner{Scanner: bufio.NewScanner(r), name: name}
}

// next returns the next significant line, trimmed.
//
func (s *scanner) next() (string, bool) {
	for s.Scan() {
		s.line++
		l := strings.TrimSpace(s.Text())
		if l == "" || strings.HasPrefix(l, "#") || strings.HasPrefix(l, "//") {
			continue
		}
		return l, true
	}
	return "", false
}

func (s *scanner) errorf(format string, args ...interface{}) error {
	return errors.WithStack(&ParseError{File: s.name, Line: s.line, Msg: fmt.Sprintf(format, args...)})
}

func (s *scanner) err() error {
	if err := s.Err(); err != nil {
		return errors.Wrapf(err, "%s:%d", s.name, s.line)
	}
	return nil
}

func fields(l string) []string {
	return strings.FieldsFunc(l, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

// ReadLibrary reads gate type definitions from r. The name is only used in
// error messages.
//
// Each line reads
//
//	name, inputs, expression, delay
//
// If the line contains no comma, the four fields are separated by white space
// and the expression must not contain any.
//
func ReadLibrary(r io.Reader, name string) ([]gatesim.TemplateRecord, error) {
	s := newScanner(r, name)
	var recs []gatesim.TemplateRecord
	for {
		l, ok := s.next()
		if !ok {
			break
		}
		var f []string
		if strings.ContainsRune(l, ',') {
			f = strings.Split(l, ",")
			for i := range f {
				f[i] = strings.TrimSpace(f[i])
			}
		} else {
			f = strings.Fields(l)
		}
		if len(f) != 4 {
			return nil, s.errorf("expected 4 fields (name, inputs, expression, delay), got %d", len(f))
		}
		if !hdl.IsName(f[0]) {
			return nil, s.errorf("invalid gate type name %q", f[0])
		}
		n, err := strconv.Atoi(f[1])
		if err != nil || n < 1 {
			return nil, s.errorf("invalid input count %q", f[1])
		}
		if f[2] == "" {
			return nil, s.errorf("empty expression")
		}
		d, err := strconv.ParseInt(f[3], 10, 64)
		if err != nil || d < 0 {
			return nil, s.errorf("invalid delay %q", f[3])
		}
		recs = append(recs, gatesim.TemplateRecord{Name: f[0], Inputs: n, Expr: f[2], Delay: d})
	}
	return recs, s.err()
}

// ReadCircuit reads gate instances from r.
//
// Each line reads
//
//	name type output input1 ... inputN
//
// with fields separated by white space and/or commas. Section headers like
// "COMPONENTS:" are ignored.
//
func ReadCircuit(r io.Reader, name string) ([]gatesim.InstanceRecord, error) {
	s := newScanner(r, name)
	var recs []gatesim.InstanceRecord
	for {
		l, ok := s.next()
		if !ok {
			break
		}
		if strings.HasSuffix(l, ":") {
			continue
		}
		f := fields(l)
		if len(f) < 3 {
			return nil, s.errorf("expected at least 3 fields (name, type, output), got %d", len(f))
		}
		for _, v := range f {
			if !hdl.IsName(v) {
				return nil, s.errorf("invalid name %q", v)
			}
		}
		recs = append(recs, gatesim.InstanceRecord{Name: f[0], Type: f[1], Output: f[2], Inputs: f[3:]})
	}
	return recs, s.err()
}

// ReadStimuli reads stimuli from r. Each line reads
//
//	time signal value
//
// where time is a non-negative integer and value 0 or 1. Fields are separated
// by white space and/or commas.
//
func ReadStimuli(r io.Reader, name string) ([]gatesim.Stimulus, error) {
	s := newScanner(r, name)
	var stim []gatesim.Stimulus
	for {
		l, ok := s.next()
		if !ok {
			break
		}
		f := fields(l)
		if len(f) != 3 {
			return nil, s.errorf("expected 3 fields (time, signal, value), got %d", len(f))
		}
		t, err := strconv.ParseInt(f[0], 10, 64)
		if err != nil || t < 0 {
			return nil, s.errorf("invalid time %q", f[0])
		}
		if !hdl.IsName(f[1]) {
			return nil, s.errorf("invalid signal name %q", f[1])
		}
		var v bool
		switch f[2] {
		case "0":
		case "1":
			v = true
		default:
			return nil, s.errorf("invalid value %q, expected 0 or 1", f[2])
		}
		stim = append(stim, gatesim.Stimulus{Time: t, Signal: f[1], Value: v})
	}
	return stim, s.err()
}

func readFile[T any](path string, read func(io.Reader, string) (T, error)) (T, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, errors.WithStack(&FileOpenError{Path: path, Err: err})
	}
	defer f.Close()
	return read(f, path)
}

// LoadLibrary reads the named library file.
//
func LoadLibrary(path string) ([]gatesim.TemplateRecord, error) {
	return readFile(path, ReadLibrary)
}

// LoadCircuit reads the named circuit file.
//
func LoadCircuit(path string) ([]gatesim.InstanceRecord, error) {
	return readFile(path, ReadCircuit)
}

// LoadStimuli reads the named stimuli file.
//
func LoadStimuli(path string) ([]gatesim.Stimulus, error) {
	return readFile(path, ReadStimuli)
}

// WriteTrace writes one "time, signal, value" line per entry.
//
func WriteTrace(w io.Writer, entries []gatesim.Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		bw.WriteString(e.String())
		bw.WriteByte('\n')
	}
	return errors.Wrap(bw.Flush(), "write trace")
}

// CreateTrace writes entries to the named file, truncating it.
//
func CreateTrace(path string, entries []gatesim.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WithStack(&FileOpenError{Path: path, Err: err})
	}
	if err = WriteTrace(f, entries); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "close trace")
}
