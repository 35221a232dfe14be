package views

import (
	"strings"
	"unicode"
)

// joiners are the code points tcell cannot lay out as part of a single
// cell: skin tone modifiers, the zero width joiner and variation selectors.
var joiners = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x200d, Hi: 0x200d, Stride: 1},
		{Lo: 0xfe00, Hi: 0xfe0f, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x1f3fb, Hi: 0x1f3ff, Stride: 1},
		{Lo: 0xe0100, Hi: 0xe01ef, Stride: 1},
	},
}

// sanitizeForTerminal makes text safe for a single table row: emoji
// sequences collapse to their base glyph and line breaks and tabs become
// spaces. Other control characters are dropped.
func sanitizeForTerminal(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return ' '
		case unicode.IsControl(r), unicode.Is(joiners, r):
			return -1
		}
		return r
	}, s)
}
