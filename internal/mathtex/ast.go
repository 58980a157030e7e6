package mathtex

// Class is the TeX spacing class of an atom. It decides how much room
// surrounds the atom when a row is laid out.
type Class int

const (
	ClassOrd Class = iota
	ClassOp
	ClassBin
	ClassRel
	ClassOpen
	ClassClose
	ClassPunct
)

// Node is one element of a parsed expression.
type Node interface {
	Class() Class
}

// Symbol is a single atom: a letter, a digit run, an operator or a named
// symbol such as \alpha or \leq.
type Symbol struct {
	Text   string
	Kind   Class
	Limits bool // big operator whose scripts sit above and below in display math
}

// Row is a horizontal list of nodes, either the whole expression or a
// braced group.
type Row struct {
	Items []Node
}

type Scripts struct {
	Base Node
	Sup  Node
	Sub  Node
}

type Frac struct {
	Num Node
	Den Node
}

type Sqrt struct {
	Index Node
	Body  Node
}

// Accent places Mark over Body. PerRune accents (overlines) are repeated
// over every character in linear form.
type Accent struct {
	Mark    rune
	Over    string
	PerRune bool
	Body    Node
}

// Text is upright prose inside math (\text, \mathrm, \operatorname).
type Text struct {
	Text string
}

// Delimited is a \left ... \right pair.
type Delimited struct {
	Left  string
	Right string
	Body  Node
}

type Space struct {
	Width int
}

func (s *Symbol) Class() Class    { return s.Kind }
func (r *Row) Class() Class       { return ClassOrd }
func (s *Scripts) Class() Class   { return classOf(s.Base) }
func (f *Frac) Class() Class      { return ClassOrd }
func (s *Sqrt) Class() Class      { return ClassOrd }
func (a *Accent) Class() Class    { return ClassOrd }
func (t *Text) Class() Class      { return ClassOrd }
func (d *Delimited) Class() Class { return ClassOrd }
func (s *Space) Class() Class     { return ClassOrd }

func classOf(n Node) Class {
	if n == nil {
		return ClassOrd
	}
	return n.Class()
}
