package mathtex

import (
	"unicode"
	"unicode/utf8"
)

type tokKind int

const (
	tokEOF tokKind = iota
	tokChar
	tokCommand
)

type token struct {
	kind tokKind
	text string // the rune for tokChar, the name without backslash for tokCommand
	pos  int
	end  int
}

func (t token) is(text string) bool {
	return t.kind == tokChar && t.text == text
}

func (t token) isCommand(name string) bool {
	return t.kind == tokCommand && t.text == name
}

// lex splits a math expression into tokens. Whitespace is dropped (it has no
// meaning in math mode) and % starts a comment running to end of line.
func lex(src string) ([]token, error) {
	toks := make([]token, 0, len(src))
	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			return nil, errorf(i, "invalid UTF-8")
		case unicode.IsSpace(r):
			i += size
		case r == '%':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case r == '\\':
			start := i
			i++
			if i >= len(src) {
				return nil, errorf(start, "trailing backslash")
			}
			j := i
			for j < len(src) && isASCIILetter(src[j]) {
				j++
			}
			if j == i {
				// Control symbol: exactly one following character.
				_, n := utf8.DecodeRuneInString(src[i:])
				j = i + n
			}
			toks = append(toks, token{kind: tokCommand, text: src[i:j], pos: start, end: j})
			i = j
		default:
			toks = append(toks, token{kind: tokChar, text: src[i : i+size], pos: i, end: i + size})
			i += size
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(src), end: len(src)})
	return toks, nil
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isDigit(s string) bool {
	return len(s) == 1 && s[0] >= '0' && s[0] <= '9'
}
