package render

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var (
	KindInlineMathAST = ast.NewNodeKind("InlineMath")
	KindMathBlockAST  = ast.NewNodeKind("MathBlock")
)

// InlineMath is a $...$ or $$...$$ span inside a paragraph. Its content is
// kept verbatim and never parsed as markdown.
type InlineMath struct {
	ast.BaseInline
	Value   []byte
	Display bool
}

func (n *InlineMath) Kind() ast.NodeKind { return KindInlineMathAST }

func (n *InlineMath) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Value":   string(n.Value),
		"Display": boolString(n.Display),
	}, nil)
}

// MathBlock is a $$ fenced display block. Lines hold the expression.
type MathBlock struct {
	ast.BaseBlock
	// Unclosed is set when the input ended before the closing $$.
	Unclosed bool
	closed   bool
}

func (n *MathBlock) Kind() ast.NodeKind { return KindMathBlockAST }

func (n *MathBlock) IsRaw() bool { return true }

func (n *MathBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Unclosed": boolString(n.Unclosed),
	}, nil)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// Expr joins the block's lines into one expression.
func (n *MathBlock) Expr(source []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return string(bytes.TrimSpace(buf.Bytes()))
}

var mathDelim = []byte("$$")

type inlineMathParser struct{}

func (inlineMathParser) Trigger() []byte { return []byte{'$'} }

// Parse follows pandoc's tex_math_dollars rules: the opening $ must be
// followed by a non-space, the closing $ must follow a non-space and must
// not be followed by a digit. $$...$$ inside a line is display math. With
// no closing delimiter the $ stays literal.
func (inlineMathParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if block.PrecendingCharacter() == '\\' {
		return nil
	}
	span, ok := scanMathSpan(line)
	if !ok {
		return nil
	}
	node := &InlineMath{Value: append([]byte(nil), line[span.start:span.end]...), Display: span.display}
	block.Advance(span.n)
	return node
}

type mathSpan struct {
	start, end int // body bounds
	n          int // bytes consumed, delimiters included
	display    bool
}

// scanMathSpan matches the math span opening at line[0].
func scanMathSpan(line []byte) (mathSpan, bool) {
	if len(line) < 2 || line[0] != '$' {
		return mathSpan{}, false
	}
	if line[1] == '$' {
		body := line[2:]
		end := bytes.Index(body, mathDelim)
		if end <= 0 || len(bytes.TrimSpace(body[:end])) == 0 {
			return mathSpan{}, false
		}
		return mathSpan{start: 2, end: 2 + end, n: 2 + end + 2, display: true}, true
	}

	body := line[1:]
	if util.IsSpace(body[0]) {
		return mathSpan{}, false
	}
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\\':
			i++
		case '$':
			if i == 0 || util.IsSpace(body[i-1]) {
				continue
			}
			if i+1 < len(body) && body[i+1] >= '0' && body[i+1] <= '9' {
				continue
			}
			return mathSpan{start: 1, end: 1 + i, n: 1 + i + 1}, true
		case '\n':
			return mathSpan{}, false
		}
	}
	return mathSpan{}, false
}

// pipeMask stands in for "|" inside math spans while goldmark parses, so a
// table row does not split its cells in the middle of an expression.
const pipeMask = '\x1f'

// maskMathPipes returns a copy of src, the same length, with every "|"
// inside a math span replaced by pipeMask.
func maskMathPipes(src []byte) []byte {
	if bytes.IndexByte(src, '|') < 0 || bytes.IndexByte(src, '$') < 0 || bytes.IndexByte(src, pipeMask) >= 0 {
		return src
	}
	out := append([]byte(nil), src...)
	for start := 0; start < len(out); {
		end := bytes.IndexByte(out[start:], '\n')
		if end < 0 {
			end = len(out)
		} else {
			end += start
		}
		maskLine(out[start:end])
		start = end + 1
	}
	return out
}

func maskLine(line []byte) {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '`':
			i = skipCodeSpan(line, i)
		case '$':
			span, ok := scanMathSpan(line[i:])
			if !ok {
				continue
			}
			for j := i + span.start; j < i+span.end; j++ {
				if line[j] == '|' {
					line[j] = pipeMask
				}
			}
			i += span.n - 1
		}
	}
}

// skipCodeSpan returns the index of the last backtick of the code span
// opening at line[i], or of the opening run when it is never closed.
func skipCodeSpan(line []byte, i int) int {
	run := 0
	for i+run < len(line) && line[i+run] == '`' {
		run++
	}
	fence := bytes.Repeat([]byte{'`'}, run)
	for j := i + run; j < len(line); {
		k := bytes.Index(line[j:], fence)
		if k < 0 {
			break
		}
		k += j
		end := k + run
		if end == len(line) || line[end] != '`' {
			return end - 1
		}
		for end < len(line) && line[end] == '`' {
			end++
		}
		j = end
	}
	return i + run - 1
}

func unmaskPipes(b []byte) string {
	return strings.ReplaceAll(string(b), string(pipeMask), "|")
}

type mathBlockParser struct{}

func (mathBlockParser) Trigger() []byte { return []byte{'$'} }

func (mathBlockParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || !bytes.HasPrefix(line[pos:], mathDelim) {
		return nil, parser.NoChildren
	}
	rest := line[pos+2:]
	start := segment.Start + pos + 2

	node := &MathBlock{}
	if end := bytes.Index(rest, mathDelim); end >= 0 {
		// $$...$$ on one line is a block only when nothing follows it.
		if !util.IsBlank(rest[end+2:]) || len(bytes.TrimSpace(rest[:end])) == 0 {
			return nil, parser.NoChildren
		}
		node.Lines().Append(text.NewSegment(start, start+end))
		node.closed = true
		reader.Advance(segment.Len() - trailingNewline(line))
		return node, parser.NoChildren
	}

	// An opening $$ with no closing $$ anywhere after it is literal text.
	if !bytes.Contains(reader.Source()[start:], mathDelim) {
		return nil, parser.NoChildren
	}
	if !util.IsBlank(rest) {
		node.Lines().Append(text.NewSegment(start, segment.Stop))
	}
	reader.Advance(segment.Len() - trailingNewline(line))
	return node, parser.NoChildren
}

func (mathBlockParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	n := node.(*MathBlock)
	if n.closed {
		return parser.Close
	}
	line, segment := reader.PeekLine()
	if end := bytes.Index(line, mathDelim); end >= 0 {
		if end > 0 {
			n.Lines().Append(text.NewSegment(segment.Start, segment.Start+end))
		}
		n.closed = true
		reader.Advance(end + 2)
		return parser.Close
	}
	n.Lines().Append(segment)
	reader.Advance(segment.Len() - trailingNewline(line))
	return parser.Continue | parser.NoChildren
}

func (mathBlockParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {
	n := node.(*MathBlock)
	if !n.closed {
		n.Unclosed = true
	}
}

func (mathBlockParser) CanInterruptParagraph() bool { return true }

func (mathBlockParser) CanAcceptIndentedLine() bool { return false }

func trailingNewline(line []byte) int {
	if len(line) > 0 && line[len(line)-1] == '\n' {
		return 1
	}
	return 0
}

type mathExtension struct{}

// Math is a goldmark extension for $ and $$ delimited TeX math.
var Math goldmark.Extender = mathExtension{}

func (mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(util.Prioritized(mathBlockParser{}, 150)),
		parser.WithInlineParsers(util.Prioritized(inlineMathParser{}, 150)),
	)
}
