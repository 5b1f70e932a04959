package cppast

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

// sourceCache hands out source lines by file path. The parsed unit's own
// lines come from the preprocessed buffer, so extents recorded against it
// resolve to exactly the text the parser saw. Other paths are read from disk
// on first use.
type sourceCache struct {
	files map[string][]string
}

func newSourceCache(path string, preprocessed []byte) *sourceCache {
	return &sourceCache{
		files: map[string][]string{
			path: splitLines(preprocessed),
		},
	}
}

func splitLines(src []byte) []string {
	lines := strings.Split(string(src), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func (sc *sourceCache) lines(path string) ([]string, error) {
	if lines, ok := sc.files[path]; ok {
		return lines, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading source %s", path)
	}
	lines := splitLines(data)
	sc.files[path] = lines
	return lines, nil
}

// content extracts the text covered by an extent and trims surrounding
// whitespace. Unresolvable extents yield the empty string.
func (sc *sourceCache) content(e Extent) string {
	lines, err := sc.lines(e.File)
	if err != nil {
		return ""
	}
	if e.StartLine < 1 || e.EndLine < e.StartLine || e.StartLine > len(lines) {
		return ""
	}

	clip := func(line string, from, to int) string {
		if from < 0 {
			from = 0
		}
		if to > len(line) {
			to = len(line)
		}
		if from >= to {
			return ""
		}
		return line[from:to]
	}

	if e.StartLine == e.EndLine {
		return strings.TrimSpace(clip(lines[e.StartLine-1], e.StartCol-1, e.EndCol-1))
	}

	var b strings.Builder
	b.WriteString(clip(lines[e.StartLine-1], e.StartCol-1, len(lines[e.StartLine-1])))
	for i := e.StartLine; i < e.EndLine-1 && i < len(lines); i++ {
		b.WriteString("\n")
		b.WriteString(lines[i])
	}
	if e.EndLine-1 < len(lines) {
		b.WriteString("\n")
		b.WriteString(clip(lines[e.EndLine-1], 0, e.EndCol-1))
	}
	return strings.TrimSpace(b.String())
}
