package ui

import (
	"fmt"
	"strings"

	"flashdeck/internal/render"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
)

// Painter draws a rendered document as styled terminal text at a fixed
// width.
type Painter struct {
	theme Theme
	width int
	ascii bool

	code      *glamour.TermRenderer
	codeWidth int
}

func NewPainter(theme Theme, width int, ascii bool) *Painter {
	return &Painter{theme: theme, width: max(8, width), ascii: ascii}
}

func (p *Painter) SetWidth(width int) {
	p.width = max(8, width)
}

func (p *Painter) Width() int { return p.width }

// Paint returns the document as lines joined by newlines. Blocks are
// separated by a blank line.
func (p *Painter) Paint(doc *render.Document) string {
	if doc == nil || len(doc.Blocks) == 0 {
		return ""
	}
	parts := make([]string, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		if s := p.block(b, p.width); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

func (p *Painter) block(n *render.Node, width int) string {
	width = max(4, width)
	switch n.Kind {
	case render.KindParagraph:
		return wrap(p.inline(n.Children), width)
	case render.KindHeading:
		return p.heading(n, width)
	case render.KindThematicBreak:
		return p.theme.Muted.Render(strings.Repeat(p.rule(), width))
	case render.KindCodeBlock:
		return p.codeBlock(n, width)
	case render.KindBlockquote:
		return p.blockquote(n, width)
	case render.KindList:
		return p.list(n, width)
	case render.KindListItem:
		return p.children(n, width, "\n")
	case render.KindTable:
		return p.table(n, width)
	case render.KindMathBlock:
		return p.mathBlock(n, width)
	}
	return wrap(render.InlineText(n.Children), width)
}

func (p *Painter) children(n *render.Node, width int, sep string) string {
	parts := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		if s := p.block(c, width); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep)
}

func (p *Painter) rule() string {
	if p.ascii {
		return "-"
	}
	return "─"
}

func (p *Painter) heading(n *render.Node, width int) string {
	text := wrap(p.inline(n.Children), width)
	switch n.Level {
	case 1:
		under := "═"
		if p.ascii {
			under = "="
		}
		w := min(width, maxLineWidth(text))
		return p.theme.Heading.Render(text) + "\n" + p.theme.Heading.Render(strings.Repeat(under, max(1, w)))
	case 2:
		w := min(width, maxLineWidth(text))
		return p.theme.Heading.Render(text) + "\n" + p.theme.Muted.Render(strings.Repeat(p.rule(), max(1, w)))
	}
	// Deeper headings share the level 3 style.
	return p.theme.Heading.Render(text)
}

func (p *Painter) blockquote(n *render.Node, width int) string {
	bar := "│ "
	if p.ascii {
		bar = "| "
	}
	inner := p.children(n, width-2, "\n\n")
	lines := strings.Split(inner, "\n")
	for i, l := range lines {
		lines[i] = p.theme.Quote.Render(bar) + l
	}
	return strings.Join(lines, "\n")
}

func (p *Painter) list(n *render.Node, width int) string {
	sep := "\n"
	if !n.Tight {
		sep = "\n\n"
	}
	start := n.Start
	if start == 0 {
		start = 1
	}
	bullet := "•"
	if p.ascii {
		bullet = "-"
	}
	items := make([]string, 0, len(n.Children))
	for i, item := range n.Children {
		marker := bullet + " "
		if n.Ordered {
			marker = fmt.Sprintf("%d. ", start+i)
		}
		indent := ansi.StringWidth(marker)
		body := p.children(item, width-indent, "\n")
		lines := strings.Split(body, "\n")
		for j, l := range lines {
			if j == 0 {
				lines[j] = p.theme.Accent.Render(marker) + l
				continue
			}
			lines[j] = strings.Repeat(" ", indent) + l
		}
		items = append(items, strings.Join(lines, "\n"))
	}
	return strings.Join(items, sep)
}

func (p *Painter) codeBlock(n *render.Node, width int) string {
	code := strings.TrimRight(n.Text, "\n")
	if r := p.codeRenderer(width); r != nil {
		md := "```" + n.Language + "\n" + code + "\n```\n"
		if out, err := r.Render(md); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	lines := strings.Split(code, "\n")
	for i, l := range lines {
		lines[i] = p.theme.Code.Render("  " + l)
	}
	return strings.Join(lines, "\n")
}

func (p *Painter) codeRenderer(width int) *glamour.TermRenderer {
	if p.code != nil && p.codeWidth == width {
		return p.code
	}
	style := p.theme.GlamourStyle
	if style == "" || p.ascii {
		style = "notty"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	p.code, p.codeWidth = r, width
	return r
}

func (p *Painter) table(n *render.Node, width int) string {
	var headers []string
	var rows [][]string
	var aligns []render.Align
	for _, row := range n.Children {
		cells := make([]string, 0, len(row.Children))
		for i, c := range row.Children {
			cells = append(cells, p.inline(c.Children))
			if i >= len(aligns) {
				aligns = append(aligns, c.Align)
			}
		}
		if row.Header && headers == nil {
			headers = cells
			continue
		}
		rows = append(rows, cells)
	}

	border := lipgloss.NormalBorder()
	if p.ascii {
		border = lipgloss.ASCIIBorder()
	}
	t := table.New().
		Border(border).
		BorderStyle(p.theme.PanelBorder).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if col < len(aligns) {
				s = s.Align(position(aligns[col]))
			}
			if row == table.HeaderRow {
				s = s.Inherit(p.theme.Strong)
			}
			return s
		})
	out := t.String()
	if maxLineWidth(out) > width {
		t = t.Width(width)
		out = t.String()
	}
	return out
}

func position(a render.Align) lipgloss.Position {
	switch a {
	case render.AlignCenter:
		return lipgloss.Center
	case render.AlignRight:
		return lipgloss.Right
	}
	return lipgloss.Left
}

func (p *Painter) mathBlock(n *render.Node, width int) string {
	if n.Fallback || n.Math == nil {
		return p.theme.Fail.Render(wrap(n.Literal, width))
	}
	box := n.Math.Box
	if box.Width() > width {
		return p.theme.Math.Render(wrap(n.Math.Text, width))
	}
	lines := make([]string, len(box.Lines))
	pad := (width - box.Width()) / 2
	for i, l := range box.Lines {
		lines[i] = strings.Repeat(" ", pad) + p.theme.Math.Render(l)
	}
	return strings.Join(lines, "\n")
}

func (p *Painter) inline(nodes []*render.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		switch n.Kind {
		case render.KindText:
			b.WriteString(n.Text)
		case render.KindLineBreak:
			b.WriteByte('\n')
		case render.KindEmphasis:
			b.WriteString(p.theme.Emph.Render(p.inline(n.Children)))
		case render.KindStrong:
			b.WriteString(p.theme.Strong.Render(p.inline(n.Children)))
		case render.KindStrikethrough:
			b.WriteString(p.theme.Strike.Render(p.inline(n.Children)))
		case render.KindCode:
			b.WriteString(p.theme.Code.Render(n.Text))
		case render.KindLink:
			label := p.inline(n.Children)
			b.WriteString(p.theme.Link.Render(label))
			if n.Dest != "" && ansi.Strip(label) != n.Dest {
				b.WriteString(p.theme.Muted.Render(" (" + n.Dest + ")"))
			}
		case render.KindImage:
			alt := firstNonEmptyStr(n.Text, n.Dest)
			b.WriteString(p.theme.Muted.Render("[image: " + alt + "]"))
		case render.KindInlineMath:
			if n.Fallback || n.Math == nil {
				b.WriteString(p.theme.Fail.Render(n.Literal))
				continue
			}
			b.WriteString(p.theme.Math.Render(n.Math.Text))
		default:
			b.WriteString(p.inline(n.Children))
		}
	}
	return b.String()
}

// wrap word-wraps s to width, keeping existing line breaks.
func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return ansi.Wrap(s, width, "")
}

func maxLineWidth(s string) int {
	w := 0
	for _, l := range strings.Split(s, "\n") {
		w = max(w, ansi.StringWidth(l))
	}
	return w
}

func firstNonEmptyStr(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}
