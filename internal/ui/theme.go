package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

type Theme struct {
	Name string

	Header      lipgloss.Style
	Status      lipgloss.Style
	PanelTitle  lipgloss.Style
	PanelBorder lipgloss.Style
	PanelBody   lipgloss.Style
	Accent      lipgloss.Style
	Badge       lipgloss.Style
	Term        lipgloss.Style
	Hint        lipgloss.Style
	Fail        lipgloss.Style
	Muted       lipgloss.Style
	Info        lipgloss.Style

	Heading lipgloss.Style
	Strong  lipgloss.Style
	Emph    lipgloss.Style
	Strike  lipgloss.Style
	Code    lipgloss.Style
	Link    lipgloss.Style
	Quote   lipgloss.Style
	Math    lipgloss.Style

	DotOn  lipgloss.Style
	DotOff lipgloss.Style

	Border      lipgloss.Border
	BorderColor color.Color
	// Progress bar gradient.
	BarFrom color.Color
	BarTo   color.Color
	// GlamourStyle is the glamour standard style used for code blocks.
	GlamourStyle string
}

var ThemeNames = []string{"midnight", "paper", "retro"}

func DefaultTheme() Theme {
	return ThemeForVariant("midnight")
}

func ThemeForVariant(variant string) Theme {
	switch variant {
	case "paper":
		return paperTheme()
	case "retro":
		return retroTheme()
	default:
		return midnightTheme()
	}
}

func midnightTheme() Theme {
	amber := lipgloss.Color("#FFC857")
	mint := lipgloss.Color("#67F0A8")
	brick := lipgloss.Color("#FF6F91")
	ink := lipgloss.Color("#0E1420")
	slate := lipgloss.Color("#1B2740")
	powder := lipgloss.Color("#EAF2FF")
	blue := lipgloss.Color("#5EEBFF")
	border := lipgloss.Color("#4B5F8A")
	muted := lipgloss.Color("#9CAAC6")

	return Theme{
		Name: "midnight",
		Header: lipgloss.NewStyle().
			Background(ink).
			Foreground(powder).
			Padding(0, 1),
		Status: lipgloss.NewStyle().
			Background(slate).
			Foreground(powder).
			Padding(0, 1),
		PanelTitle: lipgloss.NewStyle().
			Foreground(blue).
			Bold(true),
		PanelBorder: lipgloss.NewStyle().
			Foreground(border),
		PanelBody: lipgloss.NewStyle().
			Foreground(powder),
		Accent: lipgloss.NewStyle().
			Foreground(blue).
			Bold(true),
		Badge: lipgloss.NewStyle().
			Background(slate).
			Foreground(amber).
			Padding(0, 1),
		Term: lipgloss.NewStyle().
			Foreground(powder).
			Bold(true),
		Hint:    lipgloss.NewStyle().Foreground(muted).Italic(true),
		Fail:    lipgloss.NewStyle().Foreground(brick).Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(muted),
		Info:    lipgloss.NewStyle().Foreground(blue),
		Heading: lipgloss.NewStyle().Foreground(amber).Bold(true),
		Strong:  lipgloss.NewStyle().Bold(true),
		Emph:    lipgloss.NewStyle().Italic(true),
		Strike:  lipgloss.NewStyle().Strikethrough(true),
		Code:    lipgloss.NewStyle().Foreground(mint),
		Link:    lipgloss.NewStyle().Foreground(blue).Underline(true),
		Quote:   lipgloss.NewStyle().Foreground(muted),
		Math:    lipgloss.NewStyle().Foreground(mint),
		DotOn:   lipgloss.NewStyle().Foreground(blue).Bold(true),
		DotOff:  lipgloss.NewStyle().Foreground(border),

		Border:       lipgloss.RoundedBorder(),
		BorderColor:  border,
		BarFrom:      lipgloss.Color("#5EC2FF"),
		BarTo:        lipgloss.Color("#79E6A6"),
		GlamourStyle: "dark",
	}
}

func paperTheme() Theme {
	honey := lipgloss.Color("#B86E00")
	sage := lipgloss.Color("#2F7D5B")
	rose := lipgloss.Color("#B3261E")
	paper := lipgloss.Color("#F4F6FA")
	ink := lipgloss.Color("#1E2430")
	sky := lipgloss.Color("#1F5FAD")
	grey := lipgloss.Color("#6B7385")

	return Theme{
		Name:        "paper",
		Header:      lipgloss.NewStyle().Background(paper).Foreground(ink).Bold(true).Padding(0, 1),
		Status:      lipgloss.NewStyle().Background(lipgloss.Color("#DDE3EE")).Foreground(ink).Padding(0, 1),
		PanelTitle:  lipgloss.NewStyle().Foreground(honey).Bold(true),
		PanelBorder: lipgloss.NewStyle().Foreground(grey),
		PanelBody:   lipgloss.NewStyle().Foreground(ink),
		Accent:      lipgloss.NewStyle().Foreground(sky).Bold(true),
		Badge:       lipgloss.NewStyle().Foreground(honey).Bold(true),
		Term:        lipgloss.NewStyle().Foreground(ink).Bold(true),
		Hint:        lipgloss.NewStyle().Foreground(grey).Italic(true),
		Fail:        lipgloss.NewStyle().Foreground(rose).Bold(true),
		Muted:       lipgloss.NewStyle().Foreground(grey),
		Info:        lipgloss.NewStyle().Foreground(sky),
		Heading:     lipgloss.NewStyle().Foreground(honey).Bold(true).Underline(true),
		Strong:      lipgloss.NewStyle().Bold(true),
		Emph:        lipgloss.NewStyle().Italic(true),
		Strike:      lipgloss.NewStyle().Strikethrough(true),
		Code:        lipgloss.NewStyle().Foreground(sage),
		Link:        lipgloss.NewStyle().Foreground(sky).Underline(true),
		Quote:       lipgloss.NewStyle().Foreground(grey).Italic(true),
		Math:        lipgloss.NewStyle().Foreground(sky),
		DotOn:       lipgloss.NewStyle().Foreground(honey).Bold(true),
		DotOff:      lipgloss.NewStyle().Foreground(grey),

		Border:       lipgloss.NormalBorder(),
		BorderColor:  grey,
		BarFrom:      lipgloss.Color("#86B6F6"),
		BarTo:        lipgloss.Color("#2F7D5B"),
		GlamourStyle: "light",
	}
}

func retroTheme() Theme {
	lime := lipgloss.Color("#9CF5A2")
	amber := lipgloss.Color("#E5D47A")
	red := lipgloss.Color("#FF6B6B")
	deep := lipgloss.Color("#07150A")
	forest := lipgloss.Color("#12301A")
	glow := lipgloss.Color("#C5F7C4")
	moss := lipgloss.Color("#73A17A")

	return Theme{
		Name:        "retro",
		Header:      lipgloss.NewStyle().Background(deep).Foreground(glow).Padding(0, 1),
		Status:      lipgloss.NewStyle().Background(forest).Foreground(glow).Padding(0, 1),
		PanelTitle:  lipgloss.NewStyle().Foreground(amber).Bold(true),
		PanelBorder: lipgloss.NewStyle().Foreground(lipgloss.Color("#1F5C2F")),
		PanelBody:   lipgloss.NewStyle().Foreground(glow),
		Accent:      lipgloss.NewStyle().Foreground(lime).Bold(true),
		Badge:       lipgloss.NewStyle().Foreground(amber),
		Term:        lipgloss.NewStyle().Foreground(lime).Bold(true),
		Hint:        lipgloss.NewStyle().Foreground(moss),
		Fail:        lipgloss.NewStyle().Foreground(red).Bold(true),
		Muted:       lipgloss.NewStyle().Foreground(moss),
		Info:        lipgloss.NewStyle().Foreground(lime),
		Heading:     lipgloss.NewStyle().Foreground(amber).Bold(true),
		Strong:      lipgloss.NewStyle().Foreground(lime).Bold(true),
		Emph:        lipgloss.NewStyle().Foreground(amber),
		Strike:      lipgloss.NewStyle().Strikethrough(true),
		Code:        lipgloss.NewStyle().Foreground(amber),
		Link:        lipgloss.NewStyle().Foreground(lime).Underline(true),
		Quote:       lipgloss.NewStyle().Foreground(moss),
		Math:        lipgloss.NewStyle().Foreground(lime),
		DotOn:       lipgloss.NewStyle().Foreground(lime).Bold(true),
		DotOff:      lipgloss.NewStyle().Foreground(moss),

		Border:       lipgloss.DoubleBorder(),
		BorderColor:  lipgloss.Color("#1F5C2F"),
		BarFrom:      lipgloss.Color("#1F5C2F"),
		BarTo:        lime,
		GlamourStyle: "dark",
	}
}

func normalizeTheme(v string) string {
	for _, name := range ThemeNames {
		if v == name {
			return v
		}
	}
	return "midnight"
}
