// Package mathtex typesets a practical subset of TeX math for the terminal.
// Inline math becomes a single line of Unicode text; display math may span
// several lines so fractions, roots and limits can stack.
package mathtex

import (
	"fmt"
)

// Typeset is a successfully typeset expression.
type Typeset struct {
	Expr    string
	Display bool
	// Text is the single-line form, used for inline math and for copying.
	Text string
	// Box is the laid-out form. For inline math it is one line equal to Text.
	Box  Box
	Tree *Row
}

// Engine typesets expressions. The zero value is ready to use and safe for
// concurrent calls.
type Engine struct{}

// Typeset parses and lays out expr. Any failure, including a panic inside the
// layout code, is reported as a *SyntaxError so callers can fall back to the
// literal source.
func (Engine) Typeset(expr string, display bool) (ts *Typeset, err error) {
	defer func() {
		if r := recover(); r != nil {
			ts = nil
			err = &SyntaxError{Msg: fmt.Sprintf("internal error: %v", r)}
		}
	}()

	tree, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	text := linear(tree)
	box := textBox(text)
	if display {
		box = layout(tree)
	}
	return &Typeset{Expr: expr, Display: display, Text: text, Box: box, Tree: tree}, nil
}

// Render is Engine{}.Typeset.
func Render(expr string, display bool) (*Typeset, error) {
	return Engine{}.Typeset(expr, display)
}
