package ui

const (
	minCols = 40
	minRows = 14
)

func DetermineLayoutMode(cols, rows int) LayoutMode {
	if cols < minCols || rows < minRows {
		return LayoutTooSmall
	}
	if cols >= 100 && rows >= 28 {
		return LayoutWide
	}
	return LayoutCompact
}

// cardWidth is the width of the card panel for a terminal width.
func cardWidth(cols int, mode LayoutMode) int {
	switch mode {
	case LayoutWide:
		return min(90, cols-8)
	default:
		return max(minCols-2, cols-2)
	}
}
