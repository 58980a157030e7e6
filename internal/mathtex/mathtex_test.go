package mathtex

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestTypesetLinear(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"x^2+y^2=1", "x² + y² = 1"},
		{"x^2", "x²"},
		{`\vec{v} = (x_1, y_1, z_1)`, "v⃗ = (x₁, y₁, z₁)"},
		{"-x", "−x"},
		{"a = -b", "a = −b"},
		{`\frac{1}{2}`, "1/2"},
		{`\frac{a+b}{c}`, "(a + b)/c"},
		{`2\frac{1}{2}`, "2(1/2)"},
		{`\sqrt{x}`, "√x"},
		{`\sqrt[3]{x}`, "∛x"},
		{`\alpha \leq \beta`, "α ≤ β"},
		{`\sin x`, "sin x"},
		{`\sin(x)`, "sin(x)"},
		{`x^{n+1}`, "xⁿ⁺¹"},
		{`x^{\pi}`, "x^π"},
		{`x_{ij}`, "xᵢⱼ"},
		{`\text{if } x`, "if x"},
		{`\mathbb{R}^2`, "ℝ²"},
		{`\left( x \right)`, "(x)"},
		{`\overline{AB}`, "A̅B̅"},
		{`n!`, "n!"},
		{`\sum_{i=1}^{n} i`, "∑ᵢ₌₁ⁿ i"},
		{`a \cdot b`, "a · b"},
		{`f'(x)`, "f′(x)"},
		{`d = \sqrt{(x_2 - x_1)^2 + (y_2 - y_1)^2}`, "d = √((x₂ − x₁)² + (y₂ − y₁)²)"},
		{`\displaystyle x`, "x"},
	}
	for _, tc := range cases {
		ts, err := Render(tc.in, false)
		if err != nil {
			t.Fatalf("Render(%q): %v", tc.in, err)
		}
		if ts.Text != tc.want {
			t.Fatalf("Render(%q) = %q, want %q", tc.in, ts.Text, tc.want)
		}
		if len(ts.Box.Lines) != 1 || ts.Box.Lines[0] != ts.Text {
			t.Fatalf("inline box for %q = %q, want single line %q", tc.in, ts.Box.Lines, ts.Text)
		}
	}
}

func TestTypesetRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"   ",
		`\frac{1}`,
		`x^`,
		`x^2^3`,
		`x_1_2`,
		`\undefinedcommand`,
		`{x`,
		`x}`,
		`\left( x`,
		`x \right)`,
		`a & b`,
		`\begin{matrix} a \end{matrix}`,
		`\sqrt[3`,
		`x\`,
	}
	for _, in := range cases {
		ts, err := Engine{}.Typeset(in, true)
		if err == nil {
			t.Fatalf("Typeset(%q) = %q, want error", in, ts.Text)
		}
		if !errors.Is(err, ErrSyntax) {
			t.Fatalf("Typeset(%q) error %v does not match ErrSyntax", in, err)
		}
	}
}

func TestSyntaxErrorReportsOffset(t *testing.T) {
	_, err := Parse(`x + \foo`)
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SyntaxError, got %T", err)
	}
	if se.Pos != 4 {
		t.Fatalf("offset = %d, want 4", se.Pos)
	}
	if !strings.Contains(se.Error(), `\foo`) {
		t.Fatalf("error %q should name the command", se.Error())
	}
}

func TestDisplayFractionStacks(t *testing.T) {
	ts, err := Render(`\frac{1}{2}`, true)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := []string{" 1 ", "───", " 2 "}
	if !slices.Equal(ts.Box.Lines, want) {
		t.Fatalf("lines = %q, want %q", ts.Box.Lines, want)
	}
	if ts.Box.Baseline != 1 {
		t.Fatalf("baseline = %d, want 1", ts.Box.Baseline)
	}
	if ts.Text != "1/2" {
		t.Fatalf("text = %q", ts.Text)
	}
}

func TestDisplayRowAlignsBaselines(t *testing.T) {
	ts, err := Render(`x = \frac{a}{b}`, true)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if ts.Box.Height() != 3 || ts.Box.Baseline != 1 {
		t.Fatalf("unexpected box shape: %q baseline %d", ts.Box.Lines, ts.Box.Baseline)
	}
	if ts.Box.Lines[1] != "x = ───" {
		t.Fatalf("baseline row = %q", ts.Box.Lines[1])
	}
	if strings.TrimSpace(ts.Box.Lines[0]) != "a" || strings.TrimSpace(ts.Box.Lines[2]) != "b" {
		t.Fatalf("numerator/denominator rows = %q", ts.Box.Lines)
	}
}

func TestDisplayLimitsStackAboveAndBelow(t *testing.T) {
	ts, err := Render(`\sum_{i=1}^{n} i`, true)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := []string{"  n    ", "  ∑   i", "i = 1  "}
	if !slices.Equal(ts.Box.Lines, want) {
		t.Fatalf("lines = %q, want %q", ts.Box.Lines, want)
	}
}

func TestDisplaySqrtOverTallBody(t *testing.T) {
	ts, err := Render(`\sqrt{\frac{1}{2}}`, true)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := []string{" ___", "│ 1 ", "│───", "√ 2 "}
	if !slices.Equal(ts.Box.Lines, want) {
		t.Fatalf("lines = %q, want %q", ts.Box.Lines, want)
	}
	if ts.Box.Baseline != 2 {
		t.Fatalf("baseline = %d, want 2", ts.Box.Baseline)
	}
}

func TestDisplayTallParens(t *testing.T) {
	ts, err := Render(`\left( \frac{a}{b} \right)`, true)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := []string{"⎛ a ⎞", "⎜───⎟", "⎝ b ⎠"}
	if !slices.Equal(ts.Box.Lines, want) {
		t.Fatalf("lines = %q, want %q", ts.Box.Lines, want)
	}
}

func TestDisplaySimpleExpressionStaysOnOneLine(t *testing.T) {
	ts, err := Render("x^2+y^2=1", true)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !slices.Equal(ts.Box.Lines, []string{"x² + y² = 1"}) {
		t.Fatalf("lines = %q", ts.Box.Lines)
	}
}
