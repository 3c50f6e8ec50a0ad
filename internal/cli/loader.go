package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/palasimi/ipa-cluster/internal/compiler"
	"github.com/palasimi/ipa-cluster/internal/dsl"
)

// LoadError reports a rule file that cannot be read or compiled.
type LoadError struct {
	Code    string
	Message string
	Path    string
	Line    int // 1-based; zero when unknown
	Column  int
	Err     error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Path, e.Line, e.Column, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadedRules is a compiled rule file together with its source text.
type LoadedRules struct {
	Path   string
	Source string
	*compiler.Result
}

// LoadRules reads and compiles the rule file at path.
// An empty path compiles no rules.
func LoadRules(path string, logger *slog.Logger) (*LoadedRules, error) {
	var source string
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("rule file not found: %s", path), Path: path, Err: err}
			}
			return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("reading rule file: %v", err), Path: path, Err: err}
		}
		source = string(data)
	}

	logger.Debug("compiling rules", "path", path)
	result, err := compiler.Build(source, compiler.WithLogger(logger))
	if err != nil {
		loadErr := &LoadError{Code: ErrCodeParse, Message: err.Error(), Path: path, Err: err}
		var parseErr *dsl.ParseError
		if errors.As(err, &parseErr) && !parseErr.EOF {
			loadErr.Line, loadErr.Column = parseErr.Line, parseErr.Column
		}
		return nil, loadErr
	}
	return &LoadedRules{Path: path, Source: source, Result: result}, nil
}

// reportLoadError prints err and returns the command error.
func reportLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		return formatter.Fail(ErrCodeGeneric, err.Error(), nil)
	}

	if formatter.Format == "json" {
		var details any
		if loadErr.Line > 0 {
			details = map[string]any{"path": loadErr.Path, "line": loadErr.Line, "column": loadErr.Column}
		}
		return formatter.Fail(loadErr.Code, loadErr.Message, details)
	}

	if loadErr.Line > 0 {
		fmt.Fprintf(formatter.Writer, "%s:%d:%d\n", loadErr.Path, loadErr.Line, loadErr.Column)
	}
	return formatter.Fail(loadErr.Code, loadErr.Message, nil)
}

// compilerLogger routes compiler records to the command's logger.
func compilerLogger(o *RootOptions) compiler.Option {
	return compiler.WithLogger(o.logger())
}
