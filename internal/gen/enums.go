package gen

import (
	"fmt"
	"strings"

	"github.com/hexaforge/imwrap/internal/cppast"
)

// cvmEnum renders an enum for the FFI header. Initializer expressions are
// spliced verbatim from the source so flag math (A | B, 1 << 5) survives.
// An opaque enum with no visible constants degrades to a typedef of its
// underlying integer type, which is all the FFI needs to pass it around.
func (g *Generator) cvmEnum(c *cppast.Cursor) string {
	var constants []string
	for _, ch := range c.Children {
		if ch.Kind != cppast.KindEnumConstant {
			continue
		}
		entry := "  " + ch.Name
		if len(ch.Children) > 0 {
			entry += " = " + g.unit.Content(ch.Children[0].Extent)
		}
		constants = append(constants, entry)
	}
	if len(constants) == 0 {
		return "typedef " + c.Underlying.Spelling + " " + c.Name + ";\n"
	}
	return "\ntypedef enum {\n" + strings.Join(constants, ",\n") + "\n} " + c.Name + ";\n"
}

// luaEnum mirrors each enum constant into the Lua module, reading the value
// through the FFI so it always matches the compiled library. The configured
// prefix is stripped to give call sites the short spelling (M.Col_Text
// instead of M.ImGuiCol_Text).
func (g *Generator) luaEnum(c *cppast.Cursor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--=== enum %s ===\n", c.Name)
	for _, ch := range c.Children {
		if ch.Kind != cppast.KindEnumConstant {
			continue
		}
		lname := ch.Name
		if g.cfg.EnumStripPrefix != "" && strings.HasPrefix(lname, g.cfg.EnumStripPrefix) {
			lname = lname[len(g.cfg.EnumStripPrefix):]
		}
		fmt.Fprintf(&b, "M.%s = C.%s\n", lname, ch.Name)
	}
	b.WriteString("--===\n")
	return b.String()
}
