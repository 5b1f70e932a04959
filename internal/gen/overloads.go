package gen

import (
	"strconv"
	"strings"

	"github.com/hexaforge/imwrap/internal/cppast"
)

// detectOverloads assigns positional suffixes to functions sharing a name in
// the same scope: two PushID declarations become PushID1 and PushID2 in
// source order. C has no overloading and Lua would silently shadow one
// definition with the other, so every member of a group is renamed.
//
// The scan runs over the whole tree before any skip filtering, which keeps
// suffixes stable no matter how the skip lists are configured. The result
// maps USRs to renamed spellings; uniquely named functions are absent.
// Prototypes and definitions of the same function share a USR and count
// once.
func detectOverloads(root *cppast.Cursor) map[string]string {
	groups := make(map[string][]*cppast.Cursor)

	var walk func(c *cppast.Cursor, prefix string)
	walk = func(c *cppast.Cursor, prefix string) {
		switch c.Kind {
		case cppast.KindFunction, cppast.KindMethod:
			if strings.HasPrefix(c.Name, "operator") {
				return
			}
			groups[prefix+c.Name] = append(groups[prefix+c.Name], c)
			return
		case cppast.KindStruct, cppast.KindUnion, cppast.KindNamespace:
			prefix += c.Name + "_"
		}
		for _, ch := range c.Children {
			walk(ch, prefix)
		}
	}
	walk(root, "")

	renames := make(map[string]string)
	for _, group := range groups {
		unique := group[:0:0]
		seen := make(map[string]struct{}, len(group))
		for _, c := range group {
			if _, dup := seen[c.USR]; dup {
				continue
			}
			seen[c.USR] = struct{}{}
			unique = append(unique, c)
		}
		if len(unique) < 2 {
			continue
		}
		for i, c := range unique {
			renames[c.USR] = c.Name + strconv.Itoa(i+1)
		}
	}
	return renames
}

// emittedName returns the artifact-side name of a function, renamed when it
// belongs to an overload group.
func emittedName(c *cppast.Cursor, renames map[string]string) string {
	if name, ok := renames[c.USR]; ok {
		return name
	}
	return c.Name
}
