package mathtex

import (
	"strings"
)

// maxDepth bounds group nesting so hostile input cannot exhaust the stack.
const maxDepth = 64

type parser struct {
	src   string
	toks  []token
	i     int
	depth int
}

// Parse turns a TeX math expression (without delimiters) into a Row.
func Parse(expr string) (*Row, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, errorf(0, "empty expression")
	}
	toks, err := lex(expr)
	if err != nil {
		return nil, err
	}
	p := &parser{src: expr, toks: toks}
	row, err := p.parseRow()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		if t.is("}") {
			return nil, errorf(t.pos, "unexpected }")
		}
		if t.isCommand("right") {
			return nil, errorf(t.pos, `\right without matching \left`)
		}
		return nil, errorf(t.pos, "unexpected %q", t.text)
	}
	return row, nil
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

// parseRow reads atoms until end of input, a closing brace, or \right.
// The terminator is left for the caller.
func (p *parser) parseRow() (*Row, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		return nil, errorf(p.peek().pos, "expression nested too deeply")
	}

	row := &Row{}
	for {
		t := p.peek()
		if t.kind == tokEOF || t.is("}") || t.isCommand("right") {
			return row, nil
		}
		atom, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		if atom == nil {
			continue
		}
		atom, err = p.parseScripts(atom)
		if err != nil {
			return nil, err
		}
		row.Items = append(row.Items, atom)
	}
}

// parseAtom reads one atom without its scripts. A nil node with a nil error
// means the token was consumed but produces no output (\displaystyle).
func (p *parser) parseAtom() (Node, error) {
	t := p.peek()
	switch t.kind {
	case tokEOF:
		return nil, errorf(t.pos, "unexpected end of expression")
	case tokCommand:
		return p.parseCommand()
	}

	switch {
	case t.is("{"):
		return p.parseGroup()
	case t.is("^"), t.is("_"):
		// A script with no base attaches to an empty atom, as in TeX.
		return &Symbol{Kind: ClassOrd}, nil
	case t.is("&"):
		return nil, errorf(t.pos, "alignment tab & outside an environment")
	case t.is("#"):
		return nil, errorf(t.pos, "macro parameter # in math")
	case t.is("~"):
		p.next()
		return &Space{Width: 1}, nil
	case isDigit(t.text) || t.is("."):
		return p.parseNumber(), nil
	}

	p.next()
	text := t.text
	if mapped, ok := charText[text]; ok {
		text = mapped
	}
	return &Symbol{Text: text, Kind: charClasses[t.text]}, nil
}

func (p *parser) parseNumber() Node {
	var b strings.Builder
	for {
		t := p.peek()
		if t.kind != tokChar || !(isDigit(t.text) || t.is(".")) {
			break
		}
		// Whitespace separates numbers ("1 2" is two atoms typeset together).
		b.WriteString(t.text)
		p.next()
	}
	return &Symbol{Text: b.String(), Kind: ClassOrd}
}

func (p *parser) parseGroup() (*Row, error) {
	open := p.next()
	row, err := p.parseRow()
	if err != nil {
		return nil, err
	}
	closing := p.next()
	if !closing.is("}") {
		if closing.isCommand("right") {
			return nil, errorf(closing.pos, `\right without matching \left`)
		}
		return nil, errorf(open.pos, "unbalanced braces: missing }")
	}
	return row, nil
}

// parseArg reads a mandatory macro or script argument: a braced group or a
// single token.
func (p *parser) parseArg(what string) (Node, error) {
	t := p.peek()
	switch {
	case t.kind == tokEOF, t.is("}"), t.is("^"), t.is("_"), t.is("&"), t.isCommand("right"):
		return nil, errorf(t.pos, "missing argument for %s", what)
	case t.is("{"):
		return p.parseGroup()
	case t.kind == tokChar && (isDigit(t.text) || t.is(".")):
		p.next()
		return &Symbol{Text: t.text, Kind: ClassOrd}, nil
	}
	n, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if n == nil {
		return p.parseArg(what)
	}
	return n, nil
}

func (p *parser) parseScripts(base Node) (Node, error) {
	var sup, sub Node
	for {
		t := p.peek()
		switch {
		case t.is("^"):
			p.next()
			if sup != nil {
				return nil, errorf(t.pos, "double superscript")
			}
			arg, err := p.parseArg("^")
			if err != nil {
				return nil, err
			}
			sup = arg
		case t.is("_"):
			p.next()
			if sub != nil {
				return nil, errorf(t.pos, "double subscript")
			}
			arg, err := p.parseArg("_")
			if err != nil {
				return nil, err
			}
			sub = arg
		case t.is("'"):
			p.next()
			prime := &Symbol{Text: "′", Kind: ClassOrd}
			switch s := sup.(type) {
			case nil:
				sup = prime
			case *Row:
				s.Items = append(s.Items, prime)
			default:
				sup = &Row{Items: []Node{s, prime}}
			}
		case t.isCommand("limits"), t.isCommand("nolimits"):
			p.next()
		default:
			if sup == nil && sub == nil {
				return base, nil
			}
			return &Scripts{Base: base, Sup: sup, Sub: sub}, nil
		}
	}
}

func (p *parser) parseCommand() (Node, error) {
	t := p.next()
	name := t.text

	if def, ok := symbols[name]; ok {
		return &Symbol{Text: def.text, Kind: def.class, Limits: def.limits}, nil
	}
	if limits, ok := namedOperators[name]; ok {
		return &Symbol{Text: name, Kind: ClassOp, Limits: limits}, nil
	}
	if w, ok := spaces[name]; ok {
		return &Space{Width: w}, nil
	}
	if ignored[name] {
		return nil, nil
	}
	if def, ok := accents[name]; ok {
		body, err := p.parseArg(`\` + name)
		if err != nil {
			return nil, err
		}
		return &Accent{Mark: def.mark, Over: def.over, PerRune: def.perRune, Body: body}, nil
	}

	switch name {
	case "frac", "dfrac", "tfrac", "cfrac":
		num, err := p.parseArg(`\` + name)
		if err != nil {
			return nil, err
		}
		den, err := p.parseArg(`\` + name)
		if err != nil {
			return nil, err
		}
		return &Frac{Num: num, Den: den}, nil
	case "sqrt":
		var index Node
		if p.peek().is("[") {
			open := p.next()
			idx, err := p.parseUntilBracket(open.pos)
			if err != nil {
				return nil, err
			}
			index = idx
		}
		body, err := p.parseArg(`\sqrt`)
		if err != nil {
			return nil, err
		}
		return &Sqrt{Index: index, Body: body}, nil
	case "text", "textrm", "mathrm", "operatorname", "textit", "mathit", "textbf", "mbox":
		s, err := p.rawArg(t)
		if err != nil {
			return nil, err
		}
		if name == "operatorname" {
			return &Symbol{Text: s, Kind: ClassOp}, nil
		}
		return &Text{Text: s}, nil
	case "mathbb":
		s, err := p.rawArg(t)
		if err != nil {
			return nil, err
		}
		return &Symbol{Text: toBlackboard(s), Kind: ClassOrd}, nil
	case "mathbf", "boldsymbol", "mathcal", "mathsf", "mathtt", "bm":
		return p.parseArg(`\` + name)
	case "left":
		return p.parseLeftRight(t)
	case "right":
		return nil, errorf(t.pos, `\right without matching \left`)
	case "begin", "end":
		return nil, errorf(t.pos, `unsupported environment \%s`, name)
	}
	return nil, errorf(t.pos, `undefined control sequence \%s`, name)
}

func (p *parser) parseUntilBracket(openPos int) (*Row, error) {
	row := &Row{}
	for {
		t := p.peek()
		if t.is("]") {
			p.next()
			return row, nil
		}
		if t.kind == tokEOF || t.is("}") {
			return nil, errorf(openPos, "unterminated [ in \\sqrt")
		}
		atom, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		if atom == nil {
			continue
		}
		atom, err = p.parseScripts(atom)
		if err != nil {
			return nil, err
		}
		row.Items = append(row.Items, atom)
	}
}

// rawArg returns the source text of a braced argument verbatim, keeping its
// spaces (\text{ if and only if }).
func (p *parser) rawArg(cmd token) (string, error) {
	open := p.peek()
	if open.kind == tokChar && !open.is("{") && !open.is("}") {
		p.next()
		return open.text, nil
	}
	if !open.is("{") {
		return "", errorf(open.pos, `missing argument for \%s`, cmd.text)
	}
	depth := 0
	i := open.pos
	for ; i < len(p.src); i++ {
		switch p.src[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
		}
		if depth == 0 {
			break
		}
	}
	if depth != 0 || i >= len(p.src) {
		return "", errorf(open.pos, "unbalanced braces: missing }")
	}
	raw := p.src[open.pos+1 : i]
	for p.peek().kind != tokEOF && p.peek().pos <= i {
		p.next()
	}
	return unescapeText(raw), nil
}

func (p *parser) parseLeftRight(left token) (Node, error) {
	l, err := p.delimiter(`\left`)
	if err != nil {
		return nil, err
	}
	body, err := p.parseRow()
	if err != nil {
		return nil, err
	}
	if !p.peek().isCommand("right") {
		return nil, errorf(left.pos, `\left without matching \right`)
	}
	p.next()
	r, err := p.delimiter(`\right`)
	if err != nil {
		return nil, err
	}
	return &Delimited{Left: l, Right: r, Body: body}, nil
}

func (p *parser) delimiter(what string) (string, error) {
	t := p.next()
	switch t.kind {
	case tokChar:
		switch t.text {
		case ".":
			return "", nil
		case "(", ")", "[", "]", "|", "/", "<", ">":
			return strings.NewReplacer("<", "⟨", ">", "⟩").Replace(t.text), nil
		}
	case tokCommand:
		if def, ok := symbols[t.text]; ok && (def.class == ClassOpen || def.class == ClassClose || t.text == "|" || t.text == "vert" || t.text == "Vert") {
			return def.text, nil
		}
	}
	return "", errorf(t.pos, "missing delimiter after %s", what)
}

func toBlackboard(s string) string {
	var b strings.Builder
	for _, r := range s {
		if bb, ok := blackboard[r]; ok {
			b.WriteString(bb)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func unescapeText(s string) string {
	return strings.NewReplacer(`\{`, "{", `\}`, "}", `\$`, "$", `\%`, "%", `\&`, "&", `\_`, "_", `\ `, " ").Replace(s)
}
