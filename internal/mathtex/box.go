package mathtex

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Box is a block of text lines with a baseline row. Display math is laid out
// as boxes so fractions and limits can stack vertically.
type Box struct {
	Lines    []string
	Baseline int
}

func (b Box) Width() int {
	w := 0
	for _, l := range b.Lines {
		if lw := ansi.StringWidth(l); lw > w {
			w = lw
		}
	}
	return w
}

func (b Box) Height() int { return len(b.Lines) }

func (b Box) String() string { return strings.Join(b.Lines, "\n") }

func textBox(s string) Box {
	return Box{Lines: []string{s}}
}

// pad right-fills every line to the box width so boxes join cleanly.
func (b Box) pad() Box {
	w := b.Width()
	lines := make([]string, len(b.Lines))
	for i, l := range b.Lines {
		lines[i] = l + strings.Repeat(" ", w-ansi.StringWidth(l))
	}
	return Box{Lines: lines, Baseline: b.Baseline}
}

// hjoin places boxes side by side with their baselines on the same row.
func hjoin(boxes ...Box) Box {
	above, below := 0, 0
	for _, b := range boxes {
		if b.Height() == 0 {
			continue
		}
		above = max(above, b.Baseline)
		below = max(below, b.Height()-b.Baseline-1)
	}
	height := above + below + 1
	rows := make([]strings.Builder, height)
	for _, b := range boxes {
		if b.Height() == 0 {
			continue
		}
		b = b.pad()
		w := b.Width()
		blank := strings.Repeat(" ", w)
		offset := above - b.Baseline
		for r := 0; r < height; r++ {
			i := r - offset
			if i >= 0 && i < b.Height() {
				rows[r].WriteString(b.Lines[i])
			} else {
				rows[r].WriteString(blank)
			}
		}
	}
	lines := make([]string, height)
	for i := range rows {
		lines[i] = rows[i].String()
	}
	return Box{Lines: lines, Baseline: above}
}

// vstack stacks boxes centred on a common width.
func vstack(width int, boxes ...Box) []string {
	var lines []string
	for _, b := range boxes {
		for _, l := range b.Lines {
			lines = append(lines, center(l, width))
		}
	}
	return lines
}

func center(s string, width int) string {
	gap := width - ansi.StringWidth(s)
	if gap <= 0 {
		return s
	}
	left := gap / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
}

// layout builds the two-dimensional form of a node.
func layout(n Node) Box {
	switch n := n.(type) {
	case *Row:
		return layoutRow(n.Items)
	case *Frac:
		return layoutFrac(n)
	case *Sqrt:
		return layoutSqrt(n)
	case *Scripts:
		return layoutScripts(n)
	case *Delimited:
		return layoutDelimited(n)
	case *Accent:
		body := layout(n.Body)
		if body.Height() == 1 {
			return textBox(accentText(n, body.Lines[0]))
		}
		w := body.Width()
		return Box{Lines: append([]string{strings.Repeat(n.Over, w)}, body.pad().Lines...), Baseline: body.Baseline + 1}
	}
	return textBox(linear(n))
}

func layoutRow(items []Node) Box {
	if len(items) == 0 {
		return textBox("")
	}
	classes := effectiveClasses(items)
	boxes := make([]Box, 0, 2*len(items))
	for i, it := range items {
		if i > 0 && spaceBetween(items[i-1], classes[i-1], it, classes[i]) {
			boxes = append(boxes, textBox(" "))
		}
		boxes = append(boxes, layout(it))
	}
	return hjoin(boxes...)
}

func layoutFrac(f *Frac) Box {
	num, den := layout(f.Num), layout(f.Den)
	w := max(num.Width(), den.Width()) + 2
	lines := vstack(w, num)
	lines = append(lines, strings.Repeat("─", w))
	lines = append(lines, vstack(w, den)...)
	return Box{Lines: lines, Baseline: num.Height()}
}

func layoutSqrt(s *Sqrt) Box {
	body := layout(s.Body)
	if body.Height() == 1 {
		return textBox(linear(s))
	}
	sign := rootSign(s.Index)
	signW := ansi.StringWidth(sign)
	body = body.pad()
	lines := make([]string, 0, body.Height()+1)
	lines = append(lines, strings.Repeat(" ", signW)+strings.Repeat("_", body.Width()))
	for i, l := range body.Lines {
		prefix := strings.Repeat(" ", signW-1) + "│"
		if i == body.Height()-1 {
			prefix = sign
		}
		lines = append(lines, prefix+l)
	}
	return Box{Lines: lines, Baseline: body.Baseline + 1}
}

func layoutScripts(s *Scripts) Box {
	base := layout(s.Base)
	if sym, ok := s.Base.(*Symbol); ok && sym.Limits {
		var sup, sub Box
		if s.Sup != nil {
			sup = layout(s.Sup)
		}
		if s.Sub != nil {
			sub = layout(s.Sub)
		}
		w := max(base.Width(), sup.Width(), sub.Width())
		lines := vstack(w, sup, base, sub)
		return Box{Lines: lines, Baseline: sup.Height() + base.Baseline}
	}

	simple := base.Height() == 1 && scriptFits(s.Sup, superscripts) && scriptFits(s.Sub, subscripts)
	if simple {
		return textBox(linearScripts(s))
	}

	var sup, sub Box
	if s.Sup != nil {
		sup = layout(s.Sup)
	}
	if s.Sub != nil {
		sub = layout(s.Sub)
	}
	w := max(sup.Width(), sub.Width())
	blank := strings.Repeat(" ", w)
	var col []string
	for _, l := range sup.pad().Lines {
		col = append(col, l+strings.Repeat(" ", w-ansi.StringWidth(l)))
	}
	for range base.Height() {
		col = append(col, blank)
	}
	for _, l := range sub.pad().Lines {
		col = append(col, l+strings.Repeat(" ", w-ansi.StringWidth(l)))
	}
	// Scripts of a tall base touch its top and bottom rows.
	if base.Height() > 1 && sup.Height() > 0 {
		col = col[1:]
	}
	if base.Height() > 1 && sub.Height() > 0 {
		col = col[:len(col)-1]
	}
	baseline := base.Baseline
	if base.Height() > 1 {
		baseline += max(sup.Height()-1, 0)
	} else {
		baseline += sup.Height()
	}
	scripts := Box{Lines: col, Baseline: baseline}
	return hjoin(base, scripts)
}

func scriptFits(n Node, table map[rune]rune) bool {
	if n == nil {
		return true
	}
	if layout(n).Height() != 1 {
		return false
	}
	_, ok := convertScript(linear(n), table)
	return ok
}

func layoutDelimited(d *Delimited) Box {
	body := layout(d.Body)
	h := body.Height()
	if h == 1 {
		return textBox(d.Left + body.Lines[0] + d.Right)
	}
	left := tallDelimiter(d.Left, h, body.Baseline, true)
	right := tallDelimiter(d.Right, h, body.Baseline, false)
	return hjoin(left, body, right)
}

type delimGlyphs struct {
	top, mid, bottom, fill string
}

var openGlyphs = map[string]delimGlyphs{
	"(": {"⎛", "⎜", "⎝", "⎜"},
	"[": {"⎡", "⎢", "⎣", "⎢"},
	"{": {"⎧", "⎨", "⎩", "⎪"},
	"⌈": {"⎡", "⎢", "⎢", "⎢"},
	"⌊": {"⎢", "⎢", "⎣", "⎢"},
}

var closeGlyphs = map[string]delimGlyphs{
	")": {"⎞", "⎟", "⎠", "⎟"},
	"]": {"⎤", "⎥", "⎦", "⎥"},
	"}": {"⎫", "⎬", "⎭", "⎪"},
	"⌉": {"⎤", "⎥", "⎥", "⎥"},
	"⌋": {"⎥", "⎥", "⎦", "⎥"},
}

func tallDelimiter(d string, h, baseline int, open bool) Box {
	if d == "" {
		return Box{Lines: make([]string, h), Baseline: baseline}
	}
	table := closeGlyphs
	if open {
		table = openGlyphs
	}
	g, ok := table[d]
	if !ok {
		g = delimGlyphs{d, d, d, d}
		if d == "|" {
			g = delimGlyphs{"│", "│", "│", "│"}
		}
	}
	lines := make([]string, h)
	for i := range lines {
		switch {
		case i == 0:
			lines[i] = g.top
		case i == h-1:
			lines[i] = g.bottom
		case i == h/2 && d == "{" || i == h/2 && d == "}":
			lines[i] = g.mid
		default:
			lines[i] = g.fill
		}
	}
	return Box{Lines: lines, Baseline: baseline}
}
