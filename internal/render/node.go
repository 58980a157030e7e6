package render

import (
	"strings"

	"flashdeck/internal/mathtex"
)

type Kind int

const (
	KindParagraph Kind = iota
	KindHeading
	KindList
	KindListItem
	KindBlockquote
	KindCodeBlock
	KindThematicBreak
	KindTable
	KindTableRow
	KindTableCell
	KindMathBlock

	KindText
	KindEmphasis
	KindStrong
	KindStrikethrough
	KindCode
	KindLink
	KindImage
	KindLineBreak
	KindInlineMath
)

var kindNames = [...]string{
	KindParagraph:     "paragraph",
	KindHeading:       "heading",
	KindList:          "list",
	KindListItem:      "list_item",
	KindBlockquote:    "blockquote",
	KindCodeBlock:     "code_block",
	KindThematicBreak: "thematic_break",
	KindTable:         "table",
	KindTableRow:      "table_row",
	KindTableCell:     "table_cell",
	KindMathBlock:     "math_block",
	KindText:          "text",
	KindEmphasis:      "emphasis",
	KindStrong:        "strong",
	KindStrikethrough: "strikethrough",
	KindCode:          "code",
	KindLink:          "link",
	KindImage:         "image",
	KindLineBreak:     "line_break",
	KindInlineMath:    "inline_math",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsBlock reports whether nodes of this kind sit in block position.
func (k Kind) IsBlock() bool { return k <= KindMathBlock }

type Align string

const (
	AlignNone   Align = ""
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Node is one element of a rendered document. Only the fields relevant to
// Kind are set.
type Node struct {
	Kind Kind
	// Text holds the content of text, code span and code block nodes, and
	// the alt text of images.
	Text string

	Level    int  // heading level
	Ordered  bool // list
	Start    int  // first number of an ordered list
	Tight    bool // list
	Header   bool // table row
	Align    Align
	Language string // fenced code info
	Dest     string // link and image destination
	Title    string

	// Math nodes. Math is nil when typesetting failed; Fallback is then set
	// and Literal holds the delimited source.
	Expr     string
	Display  bool
	Math     *mathtex.Typeset
	Err      error
	Fallback bool
	Literal  string

	Children []*Node
}

// Document is the rendered form of one card's content.
type Document struct {
	Source string
	Blocks []*Node
}

// Walk visits every node depth-first in document order. Returning false from
// fn skips the node's children.
func (d *Document) Walk(fn func(n *Node) bool) {
	if d == nil {
		return
	}
	for _, b := range d.Blocks {
		walk(b, fn)
	}
}

func walk(n *Node, fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		walk(c, fn)
	}
}

// MathNodes returns every inline and display math node.
func (d *Document) MathNodes() []*Node {
	var out []*Node
	d.Walk(func(n *Node) bool {
		if n.Kind == KindInlineMath || n.Kind == KindMathBlock {
			out = append(out, n)
		}
		return true
	})
	return out
}

// PlainText flattens the document to text with typeset math, one block per
// paragraph separated by blank lines.
func (d *Document) PlainText() string {
	if d == nil {
		return ""
	}
	parts := make([]string, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		parts = append(parts, blockText(b))
	}
	return strings.Join(parts, "\n\n")
}

func blockText(n *Node) string {
	switch n.Kind {
	case KindCodeBlock:
		return strings.TrimSuffix(n.Text, "\n")
	case KindThematicBreak:
		return "---"
	case KindMathBlock:
		return mathText(n)
	case KindList, KindBlockquote:
		lines := make([]string, 0, len(n.Children))
		for _, c := range n.Children {
			lines = append(lines, blockText(c))
		}
		return strings.Join(lines, "\n")
	case KindListItem:
		lines := make([]string, 0, len(n.Children))
		for _, c := range n.Children {
			lines = append(lines, blockText(c))
		}
		return strings.Join(lines, " ")
	case KindTable:
		rows := make([]string, 0, len(n.Children))
		for _, r := range n.Children {
			cells := make([]string, 0, len(r.Children))
			for _, c := range r.Children {
				cells = append(cells, InlineText(c.Children))
			}
			rows = append(rows, strings.Join(cells, " | "))
		}
		return strings.Join(rows, "\n")
	}
	return InlineText(n.Children)
}

// InlineText flattens inline nodes to plain text.
func InlineText(nodes []*Node) string {
	var b strings.Builder
	for _, n := range nodes {
		switch n.Kind {
		case KindText, KindCode:
			b.WriteString(n.Text)
		case KindImage:
			b.WriteString(n.Text)
		case KindLineBreak:
			b.WriteByte('\n')
		case KindInlineMath, KindMathBlock:
			b.WriteString(mathText(n))
		default:
			b.WriteString(InlineText(n.Children))
		}
	}
	return b.String()
}

func mathText(n *Node) string {
	if n.Fallback || n.Math == nil {
		return n.Literal
	}
	return n.Math.Text
}
