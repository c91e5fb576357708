package latex

import "strings"

// specialChars maps characters with meaning in LaTeX to their literal form.
var specialChars = map[rune]string{
	'\\': `\textbackslash{}`,
	'{':  `\{`,
	'}':  `\}`,
	'$':  `\$`,
	'&':  `\&`,
	'#':  `\#`,
	'%':  `\%`,
	'_':  `\_`,
	'^':  `\textasciicircum{}`,
	'~':  `\textasciitilde{}`,
}

// Escape makes s safe to embed as LaTeX body text. Newlines are kept; they
// are ordinary whitespace inside a list item.
func Escape(s string) string {
	if s == "" {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(s) * 2)
	for _, r := range s {
		if esc, ok := specialChars[r]; ok {
			sb.WriteString(esc)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// HasSpecial reports whether s contains any character Escape would rewrite.
func HasSpecial(s string) bool {
	for _, r := range s {
		if _, ok := specialChars[r]; ok {
			return true
		}
	}
	return false
}
