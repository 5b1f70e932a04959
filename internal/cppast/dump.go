package cppast

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented rendering of the declaration tree, one cursor per
// line with kind, type spelling and name, followed by a source snippet.
// Parameters print before nested declarations.
func (u *Unit) Dump(w io.Writer, withUSR bool) {
	u.dumpCursor(w, u.Root, 0, withUSR)
}

func (u *Unit) dumpCursor(w io.Writer, c *Cursor, depth int, withUSR bool) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s%s %s %s\n", indent, c.Kind, c.Type.Spelling, c.Name)
	if withUSR && c.USR != "" {
		fmt.Fprintf(w, "%s  usr: %s\n", indent, c.USR)
	}
	if c.Kind != KindTranslationUnit {
		if snippet := u.ContentShort(c.Extent); snippet != "" {
			fmt.Fprintf(w, "%s  src: %s\n", indent, snippet)
		}
	}
	for _, p := range c.Params {
		u.dumpCursor(w, p, depth+1, withUSR)
	}
	for _, ch := range c.Children {
		u.dumpCursor(w, ch, depth+1, withUSR)
	}
}
