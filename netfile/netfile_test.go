package netfile_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/db47h/gatesim"
	"github.com/db47h/gatesim/netfile"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLibrary(t *testing.T) {
	recs, err := netfile.ReadLibrary(strings.NewReader(`
# basic gates
AND2, 2, (i1 & i2), 5
NOT 1 ~i1 1
// comment
  XOR2 ,2, i1^i2 ,   4
`), "lib.txt")
	require.NoError(t, err)
	assert.Equal(t, []gatesim.TemplateRecord{
		{Name: "AND2", Inputs: 2, Expr: "(i1 & i2)", Delay: 5},
		{Name: "NOT", Inputs: 1, Expr: "~i1", Delay: 1},
		{Name: "XOR2", Inputs: 2, Expr: "i1^i2", Delay: 4},
	}, recs)
}

func TestReadLibrary_errors(t *testing.T) {
	td := []struct {
		in   string
		line int
		msg  string
	}{
		{"AND2, 2, i1&i2", 1, "expected 4 fields"},
		{"\nAND2 2 i1 & i2 5", 2, "expected 4 fields"},
		{"AND2, x, i1&i2, 5", 1, "invalid input count"},
		{"AND2, 0, i1&i2, 5", 1, "invalid input count"},
		{"AND2, 2, , 5", 1, "empty expression"},
		{"AND2, 2, i1&i2, -5", 1, "invalid delay"},
		{"A-B, 2, i1&i2, 5", 1, "invalid gate type name"},
	}
	for _, d := range td {
		_, err := netfile.ReadLibrary(strings.NewReader(d.in), "lib.txt")
		var pe *netfile.ParseError
		if assert.True(t, errors.As(err, &pe), "%q: %v", d.in, err) {
			assert.Equal(t, "lib.txt", pe.File)
			assert.Equal(t, d.line, pe.Line, d.in)
			assert.Contains(t, pe.Msg, d.msg)
		}
	}
}

func TestReadCircuit(t *testing.T) {
	recs, err := netfile.ReadCircuit(strings.NewReader(`
COMPONENTS:
g1 AND2 out a b
g2, NOT, nb, b

g3 OR2 w a, nb
`), "c.cir")
	require.NoError(t, err)
	assert.Equal(t, []gatesim.InstanceRecord{
		{Name: "g1", Type: "AND2", Output: "out", Inputs: []string{"a", "b"}},
		{Name: "g2", Type: "NOT", Output: "nb", Inputs: []string{"b"}},
		{Name: "g3", Type: "OR2", Output: "w", Inputs: []string{"a", "nb"}},
	}, recs)

	_, err = netfile.ReadCircuit(strings.NewReader("g1 AND2 out a b\ng2 NOT\n"), "c.cir")
	var pe *netfile.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Line)
	assert.EqualError(t, err, "c.cir:2: expected at least 3 fields (name, type, output), got 2")

	_, err = netfile.ReadCircuit(strings.NewReader("g1 AND2 out a (b)\n"), "c.cir")
	require.True(t, errors.As(err, &pe))
}

func TestReadStimuli(t *testing.T) {
	stim, err := netfile.ReadStimuli(strings.NewReader("0 a 1\n0, b, 0\n\n10 b 1\n"), "s.stim")
	require.NoError(t, err)
	assert.Equal(t, []gatesim.Stimulus{
		{Time: 0, Signal: "a", Value: true},
		{Time: 0, Signal: "b", Value: false},
		{Time: 10, Signal: "b", Value: true},
	}, stim)

	for _, in := range []string{"-1 a 1", "x a 1", "0 a 2", "0 a", "0 a 1 1", "0 a.b 1"} {
		_, err = netfile.ReadStimuli(strings.NewReader(in), "s.stim")
		var pe *netfile.ParseError
		assert.True(t, errors.As(err, &pe), "%q: %v", in, err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.stim")
	require.NoError(t, os.WriteFile(path, []byte("5 a 1\n"), 0o644))
	stim, err := netfile.LoadStimuli(path)
	require.NoError(t, err)
	assert.Len(t, stim, 1)

	_, err = netfile.LoadLibrary(filepath.Join(dir, "nope.txt"))
	var fe *netfile.FileOpenError
	require.True(t, errors.As(err, &fe), "%v", err)
	assert.Equal(t, filepath.Join(dir, "nope.txt"), fe.Path)
	assert.True(t, os.IsNotExist(errors.Cause(err).(*netfile.FileOpenError).Err))

	_, err = netfile.LoadCircuit(filepath.Join(dir, "nope.cir"))
	assert.True(t, errors.As(err, &fe))
}

func TestWriteTrace(t *testing.T) {
	entries := []gatesim.Entry{
		{Time: 0, Signal: "a", Value: true},
		{Time: 15, Signal: "out", Value: false},
	}
	var buf bytes.Buffer
	require.NoError(t, netfile.WriteTrace(&buf, entries))
	assert.Equal(t, "0, a, 1\n15, out, 0\n", buf.String())

	path := filepath.Join(t.TempDir(), "out.sim")
	require.NoError(t, os.WriteFile(path, []byte("stale content that is longer\n"), 0o644))
	require.NoError(t, netfile.CreateTrace(path, entries))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(b))

	err = netfile.CreateTrace(filepath.Join(t.TempDir(), "missing", "out.sim"), entries)
	var fe *netfile.FileOpenError
	assert.True(t, errors.As(err, &fe))
}
