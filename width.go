package termengine

import "github.com/unilibs/uniwidth"

// runeWidth returns the display width: 2 for wide characters (CJK, emoji), 1 for normal, 0 for zero-width (combining marks, control chars).
func runeWidth(r rune) int {
	return uniwidth.RuneWidth(r)
}

// isWideRune returns true if the rune occupies 2 columns (CJK ideographs, fullwidth forms, emoji).
func isWideRune(r rune) bool {
	return uniwidth.RuneWidth(r) == 2
}

// StringWidth returns the total display width of a string (sum of rune widths).
func StringWidth(s string) int {
	return uniwidth.StringWidth(s)
}

// TrimmedLineLength returns one past the index of the last non-blank cell
// in a row: the length LineContent and the selection text extractor should
// treat as "real" content before trailing padding. A row whose last
// meaningful cell is double-wide includes both of that cell's columns.
func TrimmedLineLength(cells []Cell) int {
	length := 0
	for i := range cells {
		cell := &cells[i]
		if cell.IsWideSpacer() || cell.Char == 0 || cell.Char == ' ' {
			continue
		}
		width := 1
		if cell.IsWide() {
			width = 2
		}
		if i+width > length {
			length = i + width
		}
	}
	return length
}
