package model

// CategoryStyle is the visual identity of one category: a hex color
// used by both the TUI theme and the snapshot exporters, and a short
// glyph for legends.
type CategoryStyle struct {
	Color string // "#rrggbb"
	Glyph string
}

// categoryPalette is the fixed palette categories are assigned from,
// in category-index order. More categories than palette entries wrap
// around, mirroring the ring-radius cycling in the layout.
var categoryPalette = []CategoryStyle{
	{Color: "#BD93F9", Glyph: "●"}, // purple
	{Color: "#8BE9FD", Glyph: "◆"}, // cyan
	{Color: "#50FA7B", Glyph: "▲"}, // green
	{Color: "#FFB86C", Glyph: "■"}, // orange
	{Color: "#FF79C6", Glyph: "⬟"}, // pink
	{Color: "#F1FA8C", Glyph: "○"}, // yellow
	{Color: "#FF5555", Glyph: "◇"}, // red
	{Color: "#6272A4", Glyph: "△"}, // slate
}

// StyleTable maps each observed category to a stable style. Built once
// from the category set so rendering code never branches on raw
// category strings.
type StyleTable struct {
	byCategory map[string]CategoryStyle
	fallback   CategoryStyle
}

// NewStyleTable assigns palette entries to categories in the order
// given. The order must be the first-seen category order from the
// graph build so colors are stable across sessions with the same data.
func NewStyleTable(categories []string) *StyleTable {
	t := &StyleTable{
		byCategory: make(map[string]CategoryStyle, len(categories)),
		fallback:   CategoryStyle{Color: "#BFBFBF", Glyph: "·"},
	}
	for i, c := range categories {
		t.byCategory[c] = categoryPalette[i%len(categoryPalette)]
	}
	return t
}

// Style returns the style for a category, or a neutral fallback for
// categories the table was not built with.
func (t *StyleTable) Style(category string) CategoryStyle {
	if s, ok := t.byCategory[category]; ok {
		return s
	}
	return t.fallback
}

// Len returns the number of categories in the table.
func (t *StyleTable) Len() int { return len(t.byCategory) }
