package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/db47h/gatesim"
	"github.com/pkg/errors"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "gatesim", cmd.Name())

	outputFlag := cmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)
	assert.Equal(t, DefaultOutput, outputFlag.DefValue)

	verboseFlag := cmd.Flags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)

	for _, name := range []string{"config", "max-events", "max-time", "trace-mode", "builtin", "metrics"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}

// execute runs the command and returns its exit code and error output.
func execute(t *testing.T, args ...string) (int, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(args, &stdout, &stderr)
	return code, stderr.String()
}

func inputs(dir string) []string {
	return []string{
		filepath.Join("testdata", dir, "lib.txt"),
		filepath.Join("testdata", dir, "circuit.cir"),
		filepath.Join("testdata", dir, "stimuli.stim"),
	}
}

func TestExecute_golden(t *testing.T) {
	td := []struct {
		name   string
		dir    string
		golden string
		flags  []string
	}{
		{"and2", "and2", "and2", nil},
		{"and2_legacy", "and2", "and2", []string{"--trace-mode", "legacy"}},
		{"adder_builtin", "adder", "adder_builtin", []string{"--builtin"}},
		{"adder_skip", "adder", "adder_skip", nil},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "out.sim")
			args := append([]string{"-o", out}, d.flags...)
			code, stderr := execute(t, append(args, inputs(d.dir)...)...)
			require.Equal(t, ExitSuccess, code, stderr)

			data, err := os.ReadFile(out)
			require.NoError(t, err)
			g := goldie.New(t,
				goldie.WithFixtureDir("testdata/golden"),
				goldie.WithNameSuffix(".golden"),
			)
			g.Assert(t, d.golden, data)
		})
	}
}

func TestExecute_skippedGate(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.sim")
	code, stderr := execute(t, append([]string{"-o", out}, inputs("adder")...)...)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stderr, "level=WARN")
	assert.Contains(t, stderr, `unknown gate type \"AND2\"`)
	assert.Contains(t, stderr, "run=")
	assert.Contains(t, stderr, "skipped=1")
}

func TestExecute_idempotent(t *testing.T) {
	dir := t.TempDir()
	var traces [][]byte
	for _, name := range []string{"1.sim", "2.sim"} {
		out := filepath.Join(dir, name)
		code, stderr := execute(t, append([]string{"--builtin", "-o", out}, inputs("adder")...)...)
		require.Equal(t, ExitSuccess, code, stderr)
		data, err := os.ReadFile(out)
		require.NoError(t, err)
		traces = append(traces, data)
	}
	assert.Equal(t, traces[0], traces[1])
}

func TestExecute_usage(t *testing.T) {
	code, stderr := execute(t, "lib.txt", "circuit.cir")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "Usage:")
	assert.Contains(t, stderr, "expected 3 arguments, got 2")

	code, stderr = execute(t, append([]string{"--nope"}, inputs("and2")...)...)
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "Usage:")

	code, _ = execute(t, append([]string{"--trace-mode", "lazy"}, inputs("and2")...)...)
	assert.Equal(t, ExitCommandError, code)

	for _, args := range [][]string{{"lib.txt"}, append([]string{"--nope"}, inputs("and2")...)} {
		var stdout, stderr bytes.Buffer
		code = Execute(args, &stdout, &stderr)
		assert.Equal(t, ExitCommandError, code)
		assert.Empty(t, stdout.String())
		assert.Contains(t, stderr.String(), "Usage:")
	}
}

func TestExecute_missingFile(t *testing.T) {
	args := inputs("and2")
	args[1] = filepath.Join(t.TempDir(), "nope.cir")
	code, stderr := execute(t, append([]string{"-o", filepath.Join(t.TempDir(), "out.sim")}, args...)...)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "failed to load circuit")
	assert.Contains(t, stderr, "cannot open")
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestExecute_divergence(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"lib.txt":      "NOT, 1, ~i1, 0\n",
		"circuit.cir":  "g1 NOT x x\n",
		"stimuli.stim": "1 x 1\n",
	})
	out := filepath.Join(dir, "out.sim")
	code, stderr := execute(t, "--max-events", "50", "-o", out,
		filepath.Join(dir, "lib.txt"), filepath.Join(dir, "circuit.cir"), filepath.Join(dir, "stimuli.stim"))
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "simulation aborted")
	assert.Contains(t, stderr, "event budget 50 exhausted")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "0, x, 0\n1, x, 1\n"), string(data))
}

func TestExecute_metrics(t *testing.T) {
	dir := t.TempDir()
	prom := filepath.Join(dir, "metrics.prom")
	code, stderr := execute(t, append([]string{"--metrics", prom, "-o", filepath.Join(dir, "out.sim")}, inputs("and2")...)...)
	require.Equal(t, ExitSuccess, code, stderr)

	data, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(data), "gatesim_events_total 4\n")
	assert.Contains(t, string(data), `gatesim_scheduled_events_total{type="AND2"} 1`)
	assert.Contains(t, string(data), "gatesim_simulated_time 15\n")
}

func TestExecute_config(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "from_config.sim")
	cfg := filepath.Join(dir, "gatesim.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("trace_mode: legacy\nbuiltin: true\noutput: "+out+"\n"), 0o644))

	code, stderr := execute(t, append([]string{"--config", cfg}, inputs("adder")...)...)
	require.Equal(t, ExitSuccess, code, stderr)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	want, err := os.ReadFile(filepath.Join("testdata", "golden", "adder_builtin.golden"))
	require.NoError(t, err)
	assert.Equal(t, string(want), string(data))

	require.NoError(t, os.WriteFile(cfg, []byte("max_event: 10\n"), 0o644))
	code, stderr = execute(t, append([]string{"--config", cfg}, inputs("adder")...)...)
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "max_event")
}

func TestOptions_config(t *testing.T) {
	cfg, err := decodeConfig(strings.NewReader("max_events: 10\nmax_time: 20\n"), "test.yaml")
	require.NoError(t, err)
	assert.Equal(t, uint64(10), cfg.MaxEvents)
	assert.Equal(t, int64(20), cfg.MaxTime)
	assert.Equal(t, gatesim.TraceStrict, cfg.TraceMode)
	assert.Equal(t, DefaultOutput, cfg.Output)

	cfg, err = decodeConfig(strings.NewReader(""), "empty.yaml")
	require.NoError(t, err)
	assert.Equal(t, DefaultOutput, cfg.Output)

	_, err = decodeConfig(strings.NewReader("max_time: -1\n"), "neg.yaml")
	assert.Error(t, err)
	_, err = decodeConfig(strings.NewReader("output: ''\n"), "out.yaml")
	assert.Error(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_events: 10\ntrace_mode: legacy\n"), 0o644))
	cmd := NewRootCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--max-events", "99", "-o", "x.sim"}))
	opts := &Options{
		Config:    cmd.Flags().Lookup("config").Value.String(),
		Output:    "x.sim",
		MaxEvents: 99,
	}
	merged, err := opts.config(cmd)
	require.NoError(t, err)
	assert.Equal(t, uint64(99), merged.MaxEvents)
	assert.Equal(t, gatesim.TraceLegacy, merged.TraceMode)
	assert.Equal(t, "x.sim", merged.Output)
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("boom")))
	assert.Equal(t, ExitCommandError, GetExitCode(errors.Wrap(NewExitError(ExitCommandError, "bad"), "ctx")))

	err := WrapExitError(ExitFailure, "load", errors.New("boom"))
	assert.EqualError(t, err, "load: boom")
	assert.Equal(t, "bad", NewExitError(ExitCommandError, "bad").Error())
}
