package mathtex

import (
	"errors"
	"fmt"
)

// ErrSyntax is matched by every *SyntaxError.
var ErrSyntax = errors.New("mathtex: syntax error")

// SyntaxError locates a parse failure by byte offset in the expression.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("mathtex: %s at offset %d", e.Msg, e.Pos)
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

func errorf(pos int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
