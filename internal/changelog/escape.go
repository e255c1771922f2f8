package changelog

import "strings"

// entities are the escape sequences Escape must not re-escape.
var entities = []string{"&amp;", "&lt;", "&gt;", "&quot;", "&apos;"}

// Escape rewrites &, < and > to their entity forms. Sequences that are
// already escaped are left alone, so escaping is safe to apply to text of
// mixed provenance without double-escaping.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			if startsEntity(s[i:]) {
				b.WriteByte('&')
			} else {
				b.WriteString("&amp;")
			}
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// startsEntity reports whether s begins with a named or numeric entity.
func startsEntity(s string) bool {
	for _, e := range entities {
		if strings.HasPrefix(s, e) {
			return true
		}
	}
	// Numeric form: &#123; or &#x1F;
	if !strings.HasPrefix(s, "&#") {
		return false
	}
	rest := s[2:]
	if strings.HasPrefix(rest, "x") || strings.HasPrefix(rest, "X") {
		rest = rest[1:]
	}
	semi := strings.IndexByte(rest, ';')
	if semi <= 0 {
		return false
	}
	for i := 0; i < semi; i++ {
		c := rest[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
