package emit

import "strings"

// Enumify turns a construct or feature name into an exported identifier
// fragment: "@keyframes" → "AtKeyframes", "::placeholder" →
// "PseudoElementPlaceholder", ":fullscreen" → "PseudoClassFullscreen",
// "border-radius" → "BorderRadius". Characters that cannot appear in an
// identifier are dropped.
func Enumify(name string) string {
	for _, p := range []struct{ sigil, word string }{
		{"@", "At"},
		{"::", "PseudoElement"},
		{":", "PseudoClass"},
	} {
		rest, ok := strings.CutPrefix(name, p.sigil)
		if ok && rest != "" && isLower(rest[0]) {
			name = p.word + string(rest[0]-'a'+'A') + rest[1:]
			break
		}
	}

	var sb strings.Builder
	sb.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case i == 0 && isLower(c):
			sb.WriteByte(c - 'a' + 'A')
		case c == '-' && i+1 < len(name) && isLower(name[i+1]):
			sb.WriteByte(name[i+1] - 'a' + 'A')
			i++
		case isLower(c) || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_':
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
