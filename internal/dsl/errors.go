package dsl

import (
	"errors"
	"fmt"
	"strings"
)

// ParseError reports malformed source. Line, Column, and Literal locate the
// offending token; EOF is set when the input ended instead.
type ParseError struct {
	Description string
	Line        int
	Column      int
	Literal     string
	EOF         bool
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.EOF {
		return fmt.Sprintf("%s; unexpected end-of-file", e.Description)
	}
	literal := strings.ReplaceAll(e.Literal, "\n", `\n`)
	return fmt.Sprintf("%s at line %d, column %d; found: %s", e.Description, e.Line, e.Column, literal)
}

// NameError reports a reference to an undefined variable.
type NameError struct {
	Name string
}

// Error implements the error interface.
func (e *NameError) Error() string {
	return fmt.Sprintf("variable '%s' is not defined", e.Name)
}

// IsParseError returns true if err is or wraps a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// newParseError positions a ParseError at tok; a nil tok means end of input.
func newParseError(tok *Token, description string) *ParseError {
	if tok == nil {
		return &ParseError{Description: description, EOF: true}
	}
	return &ParseError{
		Description: description,
		Line:        tok.Line,
		Column:      tok.Column,
		Literal:     tok.Literal,
	}
}
