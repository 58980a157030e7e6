// Package render turns card content (markdown with TeX math) into a Document
// tree. Rendering is total: malformed math and panics inside a block degrade
// to literal text instead of failing the card.
package render

import (
	"bytes"
	"fmt"
	"runtime/debug"
	"strings"

	"flashdeck/internal/mathtex"

	clog "github.com/charmbracelet/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// MathEngine typesets one math expression.
type MathEngine interface {
	Typeset(expr string, display bool) (*mathtex.Typeset, error)
}

type Option func(*Renderer)

func WithMathEngine(e MathEngine) Option {
	return func(r *Renderer) {
		if e != nil {
			r.engine = e
		}
	}
}

// WithLogger reports recovered panics. Without it they are dropped silently.
func WithLogger(l *clog.Logger) Option {
	return func(r *Renderer) { r.logger = l }
}

// Renderer is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	engine MathEngine
	logger *clog.Logger
}

func New(opts ...Option) *Renderer {
	r := &Renderer{engine: mathtex.Engine{}}
	for _, opt := range opts {
		opt(r)
	}
	r.md = goldmark.New(goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
		Math,
	))
	return r
}

var defaultRenderer = New()

// Render renders content with the default renderer.
func Render(content string) *Document {
	return defaultRenderer.Render(content)
}

// Render parses content and typesets its math. It never returns nil.
func (r *Renderer) Render(content string) *Document {
	doc := &Document{Source: content}
	src := []byte(content)

	root, ok := r.parse(maskMathPipes(src))
	if !ok {
		if strings.TrimSpace(content) != "" {
			doc.Blocks = []*Node{literalParagraph(strings.TrimSpace(content))}
		}
		return doc
	}
	c := &converter{src: src, engine: r.engine, recovered: r.recovered}
	doc.Blocks = c.blocks(root)
	return doc
}

func (r *Renderer) parse(src []byte) (root ast.Node, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.recovered("parse", rec)
			root, ok = nil, false
		}
	}()
	return r.md.Parser().Parse(text.NewReader(src)), true
}

func (r *Renderer) recovered(stage string, rec any) {
	if r.logger == nil {
		return
	}
	r.logger.Warn("render panic recovered", "stage", stage, "panic", fmt.Sprint(rec), "stack", string(debug.Stack()))
}

type converter struct {
	src       []byte
	engine    MathEngine
	recovered func(stage string, rec any)
}

func (c *converter) blocks(parent ast.Node) []*Node {
	var out []*Node
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		if n := c.safeBlock(child); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// safeBlock converts one block, replacing it with its literal source if the
// conversion panics.
func (c *converter) safeBlock(n ast.Node) (out *Node) {
	defer func() {
		if rec := recover(); rec != nil {
			if c.recovered != nil {
				c.recovered("block "+n.Kind().String(), rec)
			}
			out = literalParagraph(c.sourceOf(n))
		}
	}()
	return c.block(n)
}

func (c *converter) block(n ast.Node) *Node {
	switch n := n.(type) {
	case *ast.Paragraph:
		return c.paragraph(n)
	case *ast.TextBlock:
		return c.paragraph(n)
	case *ast.Heading:
		return &Node{Kind: KindHeading, Level: n.Level, Children: c.inlines(n)}
	case *ast.ThematicBreak:
		return &Node{Kind: KindThematicBreak}
	case *ast.FencedCodeBlock:
		return &Node{Kind: KindCodeBlock, Language: string(n.Language(c.src)), Text: c.lines(n)}
	case *ast.CodeBlock:
		return &Node{Kind: KindCodeBlock, Text: c.lines(n)}
	case *ast.Blockquote:
		return &Node{Kind: KindBlockquote, Children: c.blocks(n)}
	case *ast.List:
		return &Node{Kind: KindList, Ordered: n.IsOrdered(), Start: n.Start, Tight: n.IsTight, Children: c.blocks(n)}
	case *ast.ListItem:
		return &Node{Kind: KindListItem, Children: c.blocks(n)}
	case *ast.HTMLBlock:
		return literalParagraph(strings.TrimRight(c.lines(n), "\n"))
	case *east.Table:
		return c.table(n)
	case *MathBlock:
		return c.mathBlock(n)
	}
	if src := c.sourceOf(n); src != "" {
		return literalParagraph(src)
	}
	return nil
}

func (c *converter) paragraph(n ast.Node) *Node {
	children := c.inlines(n)
	if last := len(children) - 1; last >= 0 && children[last].Kind == KindText {
		children[last].Text = strings.TrimRight(children[last].Text, "\n")
	}
	if m := soleDisplayMath(children); m != nil {
		m.Kind = KindMathBlock
		return m
	}
	return &Node{Kind: KindParagraph, Children: children}
}

// soleDisplayMath returns the $$...$$ span when it is the only content of a
// paragraph, ignoring surrounding whitespace.
func soleDisplayMath(children []*Node) *Node {
	var found *Node
	for _, ch := range children {
		switch {
		case ch.Kind == KindText && strings.TrimSpace(ch.Text) == "":
		case ch.Kind == KindInlineMath && ch.Display && found == nil:
			found = ch
		default:
			return nil
		}
	}
	return found
}

func (c *converter) table(t *east.Table) *Node {
	out := &Node{Kind: KindTable}
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		r := &Node{Kind: KindTableRow}
		if _, ok := row.(*east.TableHeader); ok {
			r.Header = true
		}
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			tc, ok := cell.(*east.TableCell)
			if !ok {
				continue
			}
			r.Children = append(r.Children, &Node{
				Kind:     KindTableCell,
				Align:    alignOf(tc.Alignment),
				Children: c.inlines(tc),
			})
		}
		out.Children = append(out.Children, r)
	}
	return out
}

func alignOf(a east.Alignment) Align {
	switch a {
	case east.AlignLeft:
		return AlignLeft
	case east.AlignCenter:
		return AlignCenter
	case east.AlignRight:
		return AlignRight
	}
	return AlignNone
}

func (c *converter) mathBlock(n *MathBlock) *Node {
	if n.Unclosed {
		return literalParagraph(strings.TrimRight("$$"+c.lines(n), "\n"))
	}
	node := c.math(n.Expr(c.src), true, KindMathBlock)
	if node.Fallback {
		if lit := c.blockLiteral(n); lit != "" {
			node.Literal = lit
		}
	}
	return node
}

// blockLiteral returns a display block's source as written, from the opening
// $$ to the closing one.
func (c *converter) blockLiteral(n *MathBlock) string {
	lines := n.Lines()
	if lines.Len() == 0 {
		return ""
	}
	first, last := lines.At(0), lines.At(lines.Len()-1)
	open := bytes.LastIndex(c.src[:first.Start], mathDelim)
	closing := bytes.Index(c.src[last.Stop:], mathDelim)
	if open < 0 || closing < 0 {
		return ""
	}
	return string(c.src[open : last.Stop+closing+len(mathDelim)])
}

func (c *converter) math(expr string, display bool, kind Kind) *Node {
	delim := "$"
	if display {
		delim = "$$"
	}
	node := &Node{Kind: kind, Expr: expr, Display: display, Literal: delim + expr + delim}
	ts, err := c.engine.Typeset(expr, display)
	if err != nil || ts == nil {
		node.Fallback = true
		node.Err = err
		return node
	}
	node.Math = ts
	return node
}

func (c *converter) inlines(parent ast.Node) []*Node {
	var out []*Node
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			out = appendText(out, c.text(n.Segment.Value(c.src)))
			switch {
			case n.HardLineBreak():
				out = append(out, &Node{Kind: KindLineBreak})
			case n.SoftLineBreak():
				out = appendText(out, "\n")
			}
		case *ast.String:
			out = appendText(out, c.text(n.Value))
		case *ast.CodeSpan:
			out = append(out, &Node{Kind: KindCode, Text: c.rawText(n)})
		case *ast.Emphasis:
			kind := KindEmphasis
			if n.Level >= 2 {
				kind = KindStrong
			}
			out = append(out, &Node{Kind: kind, Children: c.inlines(n)})
		case *east.Strikethrough:
			out = append(out, &Node{Kind: KindStrikethrough, Children: c.inlines(n)})
		case *ast.Link:
			out = append(out, &Node{Kind: KindLink, Dest: string(n.Destination), Title: string(n.Title), Children: c.inlines(n)})
		case *ast.AutoLink:
			label := string(n.Label(c.src))
			out = append(out, &Node{Kind: KindLink, Dest: string(n.URL(c.src)), Children: []*Node{{Kind: KindText, Text: label}}})
		case *ast.Image:
			out = append(out, &Node{Kind: KindImage, Dest: string(n.Destination), Title: string(n.Title), Text: InlineText(c.inlines(n))})
		case *ast.RawHTML:
			var b strings.Builder
			for i := 0; i < n.Segments.Len(); i++ {
				seg := n.Segments.At(i)
				b.Write(seg.Value(c.src))
			}
			out = appendText(out, b.String())
		case *InlineMath:
			out = append(out, c.math(unmaskPipes(n.Value), n.Display, KindInlineMath))
		default:
			out = append(out, c.inlines(n)...)
		}
	}
	return out
}

func (c *converter) text(b []byte) string {
	b = util.UnescapePunctuations(b)
	b = util.ResolveNumericReferences(b)
	return string(util.ResolveEntityNames(b))
}

// rawText concatenates the text under a code span without unescaping.
func (c *converter) rawText(n ast.Node) string {
	var b strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch t := child.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(c.src))
		case *ast.String:
			b.Write(t.Value)
		}
	}
	return b.String()
}

func (c *converter) lines(n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(c.src))
	}
	return b.String()
}

// sourceOf returns the source text spanned by a block and its descendants.
func (c *converter) sourceOf(n ast.Node) string {
	start, stop := -1, -1
	extend := func(s text.Segment) {
		if s.Stop <= s.Start {
			return
		}
		if start < 0 || s.Start < start {
			start = s.Start
		}
		if s.Stop > stop {
			stop = s.Stop
		}
	}
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if node.Type() == ast.TypeBlock {
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				extend(lines.At(i))
			}
		}
		if t, ok := node.(*ast.Text); ok {
			extend(t.Segment)
		}
		return ast.WalkContinue, nil
	})
	if start < 0 || stop > len(c.src) {
		return ""
	}
	return strings.TrimRight(string(c.src[start:stop]), "\n")
}

func appendText(nodes []*Node, s string) []*Node {
	if s == "" {
		return nodes
	}
	if last := len(nodes) - 1; last >= 0 && nodes[last].Kind == KindText {
		nodes[last].Text += s
		return nodes
	}
	return append(nodes, &Node{Kind: KindText, Text: s})
}

func literalParagraph(s string) *Node {
	return &Node{Kind: KindParagraph, Children: []*Node{{Kind: KindText, Text: s}}}
}
