package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrMissing is returned when an input file does not exist.
	ErrMissing = errors.New("input not found")
	// ErrEmpty is returned when an input has no content to compare.
	ErrEmpty = errors.New("input is empty")
)

// ParseError locates a problem in an ontology document.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}
