package catalog

import "strings"

// ReplaceBounded replaces every occurrence of old in s that stands as a
// whole URL token and returns the result with the number of replacements.
// A match must not be preceded or followed by a character that could
// continue a URL path, so ".../photo.jpg" matches in `src=".../photo.jpg"`
// and ".../photo.jpg?v=2" but not in ".../photo.jpg.webp" or ".../photo.jpg-1".
func ReplaceBounded(s, old, new string) (string, int) {
	if old == "" || !strings.Contains(s, old) {
		return s, 0
	}

	var b strings.Builder
	b.Grow(len(s))
	n, i := 0, 0
	for {
		j := strings.Index(s[i:], old)
		if j < 0 {
			break
		}
		start := i + j
		end := start + len(old)
		if (start == 0 || !isPathByte(s[start-1])) && (end == len(s) || !isPathByte(s[end])) {
			b.WriteString(s[i:start])
			b.WriteString(new)
			i = end
			n++
			continue
		}
		b.WriteString(s[i : start+1])
		i = start + 1
	}
	if n == 0 {
		return s, 0
	}
	b.WriteString(s[i:])
	return b.String(), n
}

func isPathByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '-', '.', '_', '~', '%', '/':
		return true
	}
	return false
}

// escapeLike escapes LIKE wildcards using '!' as the escape character,
// which MySQL and SQLite both accept in an ESCAPE clause.
func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}
