package cppast

import "strings"

// Storage and function specifiers never belong in a type spelling.
var droppedSpecifiers = map[string]struct{}{
	"typedef":       {},
	"static":        {},
	"inline":        {},
	"extern":        {},
	"constexpr":     {},
	"virtual":       {},
	"explicit":      {},
	"friend":        {},
	"mutable":       {},
	"register":      {},
	"__forceinline": {},
	"__inline":      {},
}

// normalizeTypeSpelling shapes raw declaration text into the canonical
// spelling form the rest of the generator string-matches against: single
// spaces between words, specifiers dropped, one space before '*' and '&'
// unless they follow '(', '*' or '&', and no spaces hugging parentheses.
// Examples: "const char *", "ImVec2 &", "float [2]", "void (*)(void *)".
func normalizeTypeSpelling(raw string) string {
	words := strings.Fields(raw)
	kept := words[:0]
	for _, w := range words {
		if _, drop := droppedSpecifiers[w]; !drop {
			kept = append(kept, w)
		}
	}
	collapsed := strings.Join(kept, " ")

	var out []byte
	for i := 0; i < len(collapsed); i++ {
		c := collapsed[i]
		switch c {
		case ' ':
			if len(out) == 0 || out[len(out)-1] == '(' {
				continue
			}
			if i+1 < len(collapsed) && (collapsed[i+1] == ')' || collapsed[i+1] == ',') {
				continue
			}
			out = append(out, c)
		case '*', '&':
			if n := len(out); n > 0 {
				last := out[n-1]
				if last != ' ' && last != '(' && last != '*' && last != '&' {
					out = append(out, ' ')
				}
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}
	return strings.TrimSpace(string(out))
}

func normalizeWS(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
