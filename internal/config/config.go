// Package config loads the CUE project configuration.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "ipa-cluster.cue"

// Defaults mirror the schema defaults.
const (
	DefaultEpsilon   = 1.1
	DefaultMinPoints = 2
)

// Error codes for LoadError.
const (
	ErrCodeNotFound = "E005" // Config file not found
	ErrCodeSyntax   = "E006" // CUE syntax or evaluation error
	ErrCodeSchema   = "E201" // Value violates the schema
)

//go:embed schema.cue
var schemaSource string

// Config is the project configuration. Paths are resolved against the
// directory of the configuration file.
type Config struct {
	Rules     string  `json:"rules,omitempty"`
	Dataset   string  `json:"dataset,omitempty"`
	Epsilon   float64 `json:"epsilon"`
	MinPoints int     `json:"min_points"`
	Database  string  `json:"database,omitempty"`
	Workers   int     `json:"workers"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{Epsilon: DefaultEpsilon, MinPoints: DefaultMinPoints}
}

// LoadError reports an unreadable or invalid configuration file.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
	Err     error
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("config file not found: %s", path), Err: err}
		}
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading config: %v", err), Err: err}
	}

	cfg, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	cfg.resolve(filepath.Dir(path))
	return cfg, nil
}

// LoadOptional loads path if it is set, then DefaultFile if it exists, and
// falls back to Default otherwise.
func LoadOptional(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return Load(DefaultFile)
	}
	return Default(), nil
}

// Parse validates CUE source against the schema. filename is used in
// positions only; paths are not resolved.
func Parse(data []byte, filename string) (*Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		// The embedded schema is part of the binary.
		panic(fmt.Sprintf("config: invalid embedded schema: %v", err))
	}

	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, cueLoadError(ErrCodeSyntax, err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(ErrCodeSchema, err)
	}

	var cfg Config
	if err := unified.Decode(&cfg); err != nil {
		return nil, cueLoadError(ErrCodeSchema, err)
	}
	return &cfg, nil
}

// resolve makes relative paths relative to dir.
func (c *Config) resolve(dir string) {
	for _, p := range []*string{&c.Rules, &c.Dataset, &c.Database} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

// cueLoadError keeps the first CUE error and its position.
func cueLoadError(code string, err error) *LoadError {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error(), Err: err}
	}

	first := errs[0]
	loadErr := &LoadError{Code: code, Message: first.Error(), Err: err}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		loadErr.Pos = positions[0]
	}
	return loadErr
}
