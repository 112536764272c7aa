package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no file is named.
const DefaultFile = "tbgen.yaml"

//go:embed schema.cue
var schemaCUE string

// Copyright is the notice written at the top of generated files.
type Copyright struct {
	Holder string `yaml:"holder" json:"holder,omitempty"`
	Year   int    `yaml:"year" json:"year,omitempty"`
}

// Config holds the project settings. Zero fields mean "not set".
type Config struct {
	Extension string    `yaml:"extension" json:"extension,omitempty"`
	Indent    string    `yaml:"indent" json:"indent,omitempty"`
	Overwrite bool      `yaml:"overwrite" json:"overwrite,omitempty"`
	Manifest  string    `yaml:"manifest" json:"manifest,omitempty"`
	TBLib     string    `yaml:"tblib" json:"tblib,omitempty"`
	Copyright Copyright `yaml:"copyright" json:"copyright"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `yaml:"-" json:"-"`
}

// InvalidError reports a configuration file that does not decode or does not
// satisfy the schema.
type InvalidError struct {
	Path string
	Err  error
}

func (e *InvalidError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid configuration: %v", e.Err)
	}
	return fmt.Sprintf("invalid configuration %s: %v", e.Path, e.Err)
}

func (e *InvalidError) Unwrap() error { return e.Err }

// IsInvalidError reports whether err is an InvalidError.
func IsInvalidError(err error) bool {
	var e *InvalidError
	return errors.As(err, &e)
}

// Load reads the configuration at path. With an empty path DefaultFile is
// tried and a missing file yields the zero Config; a named file must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading configuration: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		var inv *InvalidError
		if errors.As(err, &inv) {
			inv.Path = path
		}
		return nil, err
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes and validates YAML. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, &InvalidError{Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks c against the embedded schema.
func (c *Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling configuration schema: %w", err)
	}
	v := ctx.Encode(c)
	if err := v.Err(); err != nil {
		return &InvalidError{Path: c.Path, Err: err}
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))
	if err := def.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return &InvalidError{Path: c.Path, Err: err}
	}
	return nil
}
