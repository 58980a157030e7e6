package mathtex

import (
	"strings"
	"unicode/utf8"
)

// linear renders a node on a single line using Unicode math characters.
func linear(n Node) string {
	switch n := n.(type) {
	case nil:
		return ""
	case *Symbol:
		return n.Text
	case *Text:
		return n.Text
	case *Space:
		return strings.Repeat(" ", n.Width)
	case *Row:
		return linearRow(n.Items)
	case *Scripts:
		return linearScripts(n)
	case *Frac:
		return wrapCompound(linear(n.Num)) + "/" + wrapCompound(linear(n.Den))
	case *Sqrt:
		return rootSign(n.Index) + wrapCompound(linear(n.Body))
	case *Accent:
		return accentText(n, linear(n.Body))
	case *Delimited:
		return n.Left + linear(n.Body) + n.Right
	}
	return ""
}

func linearRow(items []Node) string {
	classes := effectiveClasses(items)
	var b strings.Builder
	for i, it := range items {
		s := linear(it)
		if _, ok := it.(*Frac); ok && len(items) > 1 && fracNeedsParens(items, i) {
			s = "(" + s + ")"
		}
		if i > 0 && spaceBetween(items[i-1], classes[i-1], it, classes[i]) {
			b.WriteByte(' ')
		}
		b.WriteString(s)
	}
	return b.String()
}

// effectiveClasses demotes binary operators that have nothing to combine,
// so the minus in "-x" or "a = -b" is typeset as a sign.
func effectiveClasses(items []Node) []Class {
	classes := make([]Class, len(items))
	for i, it := range items {
		classes[i] = classOf(it)
	}
	for i, c := range classes {
		if c != ClassBin {
			continue
		}
		if i == 0 || i == len(classes)-1 {
			classes[i] = ClassOrd
			continue
		}
		switch classes[i-1] {
		case ClassBin, ClassOp, ClassRel, ClassOpen, ClassPunct:
			classes[i] = ClassOrd
			continue
		}
		switch classOf(items[i+1]) {
		case ClassRel, ClassClose, ClassPunct:
			classes[i] = ClassOrd
		}
	}
	return classes
}

func spaceBetween(prev Node, pc Class, cur Node, cc Class) bool {
	if isSpace(prev) || isSpace(cur) || isEmpty(prev) || isEmpty(cur) {
		return false
	}
	switch {
	case pc == ClassRel && cc == ClassRel:
		return false
	case pc == ClassBin || cc == ClassBin:
		return true
	case pc == ClassRel || cc == ClassRel:
		return true
	case pc == ClassPunct:
		return true
	case pc == ClassOp:
		return cc != ClassOpen && cc != ClassClose && cc != ClassPunct
	case cc == ClassOp:
		return pc != ClassOpen
	}
	return false
}

func isSpace(n Node) bool {
	_, ok := n.(*Space)
	return ok
}

func isEmpty(n Node) bool {
	s, ok := n.(*Symbol)
	return ok && s.Text == ""
}

// fracNeedsParens reports whether a linear fraction touches an ordinary atom
// and would otherwise read as a different product.
func fracNeedsParens(items []Node, i int) bool {
	ord := func(n Node) bool {
		if isSpace(n) || isEmpty(n) {
			return false
		}
		return classOf(n) == ClassOrd
	}
	return (i > 0 && ord(items[i-1])) || (i+1 < len(items) && ord(items[i+1]))
}

func wrapCompound(s string) string {
	if strings.ContainsAny(s, " /") {
		return "(" + s + ")"
	}
	return s
}

func linearScripts(n *Scripts) string {
	base := linear(n.Base)
	switch n.Base.(type) {
	case *Frac, *Row:
		base = wrapCompound(base)
	}
	return base + scriptText(n.Sub, subscripts, "_") + scriptText(n.Sup, superscripts, "^")
}

// scriptText converts a script to Unicode super/subscript characters. When
// any character has no such form it falls back to caret notation.
func scriptText(n Node, table map[rune]rune, marker string) string {
	if n == nil {
		return ""
	}
	s := linear(n)
	if conv, ok := convertScript(s, table); ok {
		return conv
	}
	if utf8.RuneCountInString(s) == 1 {
		return marker + s
	}
	return marker + "(" + s + ")"
}

func convertScript(s string, table map[rune]rune) (string, bool) {
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return "", false
	}
	var b strings.Builder
	for _, r := range s {
		m, ok := table[r]
		if !ok {
			return "", false
		}
		b.WriteRune(m)
	}
	return b.String(), true
}

func rootSign(index Node) string {
	if index == nil {
		return "√"
	}
	idx := strings.ReplaceAll(linear(index), " ", "")
	switch idx {
	case "", "2":
		return "√"
	case "3":
		return "∛"
	case "4":
		return "∜"
	}
	if sup, ok := convertScript(idx, superscripts); ok {
		return sup + "√"
	}
	return "(" + idx + ")√"
}

func accentText(a *Accent, body string) string {
	if body == "" {
		return a.Over
	}
	if !a.PerRune {
		return body + string(a.Mark)
	}
	var b strings.Builder
	for _, r := range body {
		b.WriteRune(r)
		if r != ' ' {
			b.WriteRune(a.Mark)
		}
	}
	return b.String()
}
