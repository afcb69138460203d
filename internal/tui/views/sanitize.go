package views

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/tview"
)

// sanitizeForTerminal removes codepoints that cause rendering issues in
// tcell/tview or could drive the terminal directly:
// - skin tone modifiers, ZWJ and variation selectors that build emoji sequences
// - C0/C1 control characters other than newline and tab (ESC included)
func sanitizeForTerminal(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !isProblematicRune(r) {
			b.WriteRune(r)
		}
		i += size
	}
	return b.String()
}

func isProblematicRune(r rune) bool {
	switch {
	case r == '\n' || r == '\t':
		return false
	case unicode.IsControl(r):
		return true
	// Skin tone modifiers.
	case r >= 0x1F3FB && r <= 0x1F3FF:
		return true
	// Zero Width Joiner.
	case r == 0x200D:
		return true
	// Variation Selectors.
	case r >= 0xFE00 && r <= 0xFE0F:
		return true
	// Variation Selectors Supplement.
	case r >= 0xE0100 && r <= 0xE01EF:
		return true
	default:
		return false
	}
}

// cell prepares server text for a table cell or text view.
func cell(s string) string {
	return tview.Escape(sanitizeForTerminal(s))
}
