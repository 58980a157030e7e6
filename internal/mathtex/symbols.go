package mathtex

type symbolDef struct {
	text   string
	class  Class
	limits bool
}

var symbols = map[string]symbolDef{
	// Greek.
	"alpha": {"α", ClassOrd, false}, "beta": {"β", ClassOrd, false}, "gamma": {"γ", ClassOrd, false},
	"delta": {"δ", ClassOrd, false}, "epsilon": {"ϵ", ClassOrd, false}, "varepsilon": {"ε", ClassOrd, false},
	"zeta": {"ζ", ClassOrd, false}, "eta": {"η", ClassOrd, false}, "theta": {"θ", ClassOrd, false},
	"vartheta": {"ϑ", ClassOrd, false}, "iota": {"ι", ClassOrd, false}, "kappa": {"κ", ClassOrd, false},
	"lambda": {"λ", ClassOrd, false}, "mu": {"μ", ClassOrd, false}, "nu": {"ν", ClassOrd, false},
	"xi": {"ξ", ClassOrd, false}, "omicron": {"ο", ClassOrd, false}, "pi": {"π", ClassOrd, false},
	"varpi": {"ϖ", ClassOrd, false}, "rho": {"ρ", ClassOrd, false}, "varrho": {"ϱ", ClassOrd, false},
	"sigma": {"σ", ClassOrd, false}, "varsigma": {"ς", ClassOrd, false}, "tau": {"τ", ClassOrd, false},
	"upsilon": {"υ", ClassOrd, false}, "phi": {"ϕ", ClassOrd, false}, "varphi": {"φ", ClassOrd, false},
	"chi": {"χ", ClassOrd, false}, "psi": {"ψ", ClassOrd, false}, "omega": {"ω", ClassOrd, false},
	"Gamma": {"Γ", ClassOrd, false}, "Delta": {"Δ", ClassOrd, false}, "Theta": {"Θ", ClassOrd, false},
	"Lambda": {"Λ", ClassOrd, false}, "Xi": {"Ξ", ClassOrd, false}, "Pi": {"Π", ClassOrd, false},
	"Sigma": {"Σ", ClassOrd, false}, "Upsilon": {"Υ", ClassOrd, false}, "Phi": {"Φ", ClassOrd, false},
	"Psi": {"Ψ", ClassOrd, false}, "Omega": {"Ω", ClassOrd, false},

	// Binary operators.
	"pm": {"±", ClassBin, false}, "mp": {"∓", ClassBin, false}, "times": {"×", ClassBin, false},
	"cdot": {"·", ClassBin, false}, "div": {"÷", ClassBin, false}, "ast": {"∗", ClassBin, false},
	"star": {"⋆", ClassBin, false}, "circ": {"∘", ClassBin, false}, "bullet": {"∙", ClassBin, false},
	"cup": {"∪", ClassBin, false}, "cap": {"∩", ClassBin, false}, "setminus": {"∖", ClassBin, false},
	"oplus": {"⊕", ClassBin, false}, "otimes": {"⊗", ClassBin, false}, "wedge": {"∧", ClassBin, false},
	"land": {"∧", ClassBin, false}, "vee": {"∨", ClassBin, false}, "lor": {"∨", ClassBin, false},

	// Relations and arrows.
	"leq": {"≤", ClassRel, false}, "le": {"≤", ClassRel, false}, "geq": {"≥", ClassRel, false},
	"ge": {"≥", ClassRel, false}, "neq": {"≠", ClassRel, false}, "ne": {"≠", ClassRel, false},
	"approx": {"≈", ClassRel, false}, "equiv": {"≡", ClassRel, false}, "sim": {"∼", ClassRel, false},
	"simeq": {"≃", ClassRel, false}, "cong": {"≅", ClassRel, false}, "propto": {"∝", ClassRel, false},
	"ll": {"≪", ClassRel, false}, "gg": {"≫", ClassRel, false}, "in": {"∈", ClassRel, false},
	"notin": {"∉", ClassRel, false}, "ni": {"∋", ClassRel, false}, "subset": {"⊂", ClassRel, false},
	"subseteq": {"⊆", ClassRel, false}, "supset": {"⊃", ClassRel, false}, "supseteq": {"⊇", ClassRel, false},
	"perp": {"⊥", ClassRel, false}, "parallel": {"∥", ClassRel, false}, "mid": {"∣", ClassRel, false},
	"to": {"→", ClassRel, false}, "rightarrow": {"→", ClassRel, false}, "leftarrow": {"←", ClassRel, false},
	"gets": {"←", ClassRel, false}, "leftrightarrow": {"↔", ClassRel, false}, "Rightarrow": {"⇒", ClassRel, false},
	"Leftarrow": {"⇐", ClassRel, false}, "Leftrightarrow": {"⇔", ClassRel, false}, "implies": {"⟹", ClassRel, false},
	"impliedby": {"⟸", ClassRel, false}, "iff": {"⟺", ClassRel, false}, "mapsto": {"↦", ClassRel, false},
	"longrightarrow": {"⟶", ClassRel, false}, "longleftarrow": {"⟵", ClassRel, false},
	"uparrow": {"↑", ClassRel, false}, "downarrow": {"↓", ClassRel, false},

	// Ordinary symbols.
	"infty": {"∞", ClassOrd, false}, "partial": {"∂", ClassOrd, false}, "nabla": {"∇", ClassOrd, false},
	"emptyset": {"∅", ClassOrd, false}, "varnothing": {"∅", ClassOrd, false}, "forall": {"∀", ClassOrd, false},
	"exists": {"∃", ClassOrd, false}, "nexists": {"∄", ClassOrd, false}, "neg": {"¬", ClassOrd, false},
	"lnot": {"¬", ClassOrd, false}, "angle": {"∠", ClassOrd, false}, "triangle": {"△", ClassOrd, false},
	"degree": {"°", ClassOrd, false}, "prime": {"′", ClassOrd, false}, "ldots": {"…", ClassOrd, false},
	"cdots": {"⋯", ClassOrd, false}, "vdots": {"⋮", ClassOrd, false}, "ddots": {"⋱", ClassOrd, false},
	"dots": {"…", ClassOrd, false}, "hbar": {"ℏ", ClassOrd, false}, "ell": {"ℓ", ClassOrd, false},
	"Re": {"ℜ", ClassOrd, false}, "Im": {"ℑ", ClassOrd, false}, "aleph": {"ℵ", ClassOrd, false},
	"top": {"⊤", ClassOrd, false}, "bot": {"⊥", ClassOrd, false}, "therefore": {"∴", ClassOrd, false},
	"because": {"∵", ClassOrd, false}, "vert": {"|", ClassOrd, false}, "Vert": {"‖", ClassOrd, false},
	"lvert": {"|", ClassOpen, false}, "rvert": {"|", ClassClose, false}, "lVert": {"‖", ClassOpen, false},
	"rVert": {"‖", ClassClose, false}, "backslash": {"\\", ClassOrd, false},
	"|": {"‖", ClassOrd, false}, "{": {"{", ClassOpen, false}, "}": {"}", ClassClose, false},
	"$": {"$", ClassOrd, false}, "%": {"%", ClassOrd, false}, "&": {"&", ClassOrd, false},
	"#": {"#", ClassOrd, false}, "_": {"_", ClassOrd, false},

	// Delimiters.
	"langle": {"⟨", ClassOpen, false}, "rangle": {"⟩", ClassClose, false}, "lceil": {"⌈", ClassOpen, false},
	"rceil": {"⌉", ClassClose, false}, "lfloor": {"⌊", ClassOpen, false}, "rfloor": {"⌋", ClassClose, false},
	"lbrace": {"{", ClassOpen, false}, "rbrace": {"}", ClassClose, false},

	// Large operators.
	"sum": {"∑", ClassOp, true}, "prod": {"∏", ClassOp, true}, "coprod": {"∐", ClassOp, true},
	"bigcup": {"⋃", ClassOp, true}, "bigcap": {"⋂", ClassOp, true}, "int": {"∫", ClassOp, false},
	"iint": {"∬", ClassOp, false}, "iiint": {"∭", ClassOp, false}, "oint": {"∮", ClassOp, false},
}

// Named operators are typeset upright with operator spacing.
var namedOperators = map[string]bool{
	"sin": false, "cos": false, "tan": false, "cot": false, "sec": false, "csc": false,
	"arcsin": false, "arccos": false, "arctan": false, "sinh": false, "cosh": false, "tanh": false,
	"log": false, "ln": false, "lg": false, "exp": false, "deg": false, "dim": false,
	"ker": false, "arg": false, "hom": false,
	"lim": true, "limsup": true, "liminf": true, "max": true, "min": true, "sup": true,
	"inf": true, "det": true, "gcd": true, "Pr": true,
}

var spaces = map[string]int{
	",": 1, ":": 1, ";": 1, " ": 1, "!": 0, "quad": 2, "qquad": 4, "\\": 2,
	"thinspace": 1, "enspace": 1,
}

type accentDef struct {
	mark    rune
	over    string
	perRune bool
}

var accents = map[string]accentDef{
	"vec":           {'⃗', "→", false},
	"overrightarrow": {'⃗', "→", false},
	"hat":           {'̂', "^", false},
	"widehat":       {'̂', "^", false},
	"bar":           {'̄', "‾", false},
	"overline":      {'̅', "‾", true},
	"dot":           {'̇', "·", false},
	"ddot":          {'̈', "¨", false},
	"tilde":         {'̃', "~", false},
	"widetilde":     {'̃', "~", false},
}

// Commands that take no argument and do not affect linear output.
var ignored = map[string]bool{
	"displaystyle": true, "textstyle": true, "limits": true, "nolimits": true,
	"big": true, "Big": true, "bigg": true, "Bigg": true,
}

var blackboard = map[rune]string{
	'R': "ℝ", 'N': "ℕ", 'Z': "ℤ", 'Q': "ℚ", 'C': "ℂ", 'P': "ℙ", 'H': "ℍ",
}

var charClasses = map[string]Class{
	"+": ClassBin, "-": ClassBin, "*": ClassBin,
	"=": ClassRel, "<": ClassRel, ">": ClassRel, ":": ClassRel,
	",": ClassPunct, ";": ClassPunct,
	"(": ClassOpen, "[": ClassOpen,
	")": ClassClose, "]": ClassClose, "!": ClassClose,
}

var charText = map[string]string{
	"-": "−", "*": "∗", "'": "′",
}

var superscripts = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴', '5': '⁵', '6': '⁶', '7': '⁷', '8': '⁸', '9': '⁹',
	'+': '⁺', '−': '⁻', '-': '⁻', '=': '⁼', '(': '⁽', ')': '⁾', '′': '′',
	'a': 'ᵃ', 'b': 'ᵇ', 'c': 'ᶜ', 'd': 'ᵈ', 'e': 'ᵉ', 'f': 'ᶠ', 'g': 'ᵍ', 'h': 'ʰ', 'i': 'ⁱ',
	'j': 'ʲ', 'k': 'ᵏ', 'l': 'ˡ', 'm': 'ᵐ', 'n': 'ⁿ', 'o': 'ᵒ', 'p': 'ᵖ', 'r': 'ʳ', 's': 'ˢ',
	't': 'ᵗ', 'u': 'ᵘ', 'v': 'ᵛ', 'w': 'ʷ', 'x': 'ˣ', 'y': 'ʸ', 'z': 'ᶻ',
	'A': 'ᴬ', 'B': 'ᴮ', 'D': 'ᴰ', 'E': 'ᴱ', 'G': 'ᴳ', 'H': 'ᴴ', 'I': 'ᴵ', 'J': 'ᴶ', 'K': 'ᴷ',
	'L': 'ᴸ', 'M': 'ᴹ', 'N': 'ᴺ', 'O': 'ᴼ', 'P': 'ᴾ', 'R': 'ᴿ', 'T': 'ᵀ', 'U': 'ᵁ', 'V': 'ⱽ', 'W': 'ᵂ',
	'α': 'ᵅ', 'β': 'ᵝ', 'γ': 'ᵞ', 'δ': 'ᵟ', 'θ': 'ᶿ', 'φ': 'ᵠ', 'χ': 'ᵡ',
}

var subscripts = map[rune]rune{
	'0': '₀', '1': '₁', '2': '₂', '3': '₃', '4': '₄', '5': '₅', '6': '₆', '7': '₇', '8': '₈', '9': '₉',
	'+': '₊', '−': '₋', '-': '₋', '=': '₌', '(': '₍', ')': '₎',
	'a': 'ₐ', 'e': 'ₑ', 'h': 'ₕ', 'i': 'ᵢ', 'j': 'ⱼ', 'k': 'ₖ', 'l': 'ₗ', 'm': 'ₘ', 'n': 'ₙ',
	'o': 'ₒ', 'p': 'ₚ', 'r': 'ᵣ', 's': 'ₛ', 't': 'ₜ', 'u': 'ᵤ', 'v': 'ᵥ', 'x': 'ₓ',
	'β': 'ᵦ', 'γ': 'ᵧ', 'ρ': 'ᵨ', 'φ': 'ᵩ', 'χ': 'ᵪ',
}
