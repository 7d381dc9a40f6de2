// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cli

import (
	"io"
	"os"

	"github.com/db47h/gatesim"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultOutput is the default trace file name.
//
const DefaultOutput = "output.sim"

// FileConfig is the content of a configuration file. Command line flags
// override its values.
//
//	max_events: 100000
//	max_time: 5000
//	trace_mode: strict
//	builtin: true
//	output: out.sim
//	metrics: metrics.prom
//
type FileConfig struct {
	gatesim.Config `yaml:",inline"`

	Output  string `yaml:"output"`
	Builtin bool   `yaml:"builtin"`
	Metrics string `yaml:"metrics"`
}

// LoadConfig reads a configuration file. Unknown keys are an error. An empty
// file yields the default configuration.
//
func LoadConfig(path string) (*FileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()
	return decodeConfig(f, path)
}

func decodeConfig(r io.Reader, name string) (*FileConfig, error) {
	cfg := &FileConfig{Output: DefaultOutput}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "config %s", name)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", name)
	}
	if cfg.Output == "" {
		return nil, errors.Errorf("config %s: empty output file name", name)
	}
	return cfg, nil
}
