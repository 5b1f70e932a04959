package gen

import (
	"fmt"
	"strings"

	"github.com/hexaforge/imwrap/internal/cppast"
)

// cvmStruct renders a record for the FFI header: the typedef'd struct body
// plus, at the top level, a commented constructor line and one flat method
// declaration per member function. Nested records recurse with level
// tracking so indentation and the typedef wrapper only apply at the root.
// Function-pointer fields are flattened to void* because LuaJIT callbacks
// through typed pointers are not worth declaring here.
func (g *Generator) cvmStruct(c *cppast.Cursor, level int) string {
	var b strings.Builder
	switch {
	case c.Kind == cppast.KindUnion:
		b.WriteString("\n" + indent(level-1) + "union {\n")
	case level == 0:
		fmt.Fprintf(&b, "typedef struct %s {\n", c.Name)
	default:
		fmt.Fprintf(&b, "%sstruct %s {\n", indent(level-1), c.Name)
	}

	// Method declarations collect separately and append after the closing
	// brace, since C cannot declare functions inside a struct. Fields are
	// never skip-filtered: dropping one would change the struct layout.
	var fns strings.Builder
	for _, ch := range c.Children {
		switch ch.Kind {
		case cppast.KindField:
			if strings.Contains(ch.Type.Spelling, "(") {
				fmt.Fprintf(&b, "%svoid* %s; // complex callback: %s\n", indent(level+1), ch.Name, ch.Type.Spelling)
			} else {
				b.WriteString(indent(level+1) + g.mapper.CDecl(ch) + ";\n")
			}
		case cppast.KindStruct, cppast.KindUnion:
			if ch.Definition {
				b.WriteString("\n" + g.cvmStruct(ch, level+1))
			}
		case cppast.KindConstructor:
			if level == 0 {
				fns.WriteString("// " + g.cvmFunction(ch, g.cfg.FFIPrefix, ""))
			}
		case cppast.KindMethod:
			if level == 0 && !strings.Contains(ch.Name, "operator") &&
				!g.skips.MatchUSR(ch.USR) && !g.skips.MatchName(ch.Name) {
				fns.WriteString(g.cvmFunction(ch, g.cfg.FFIPrefix+c.Name+"_", c.Name+"* "+c.Name+"_ctx"))
			}
		}
	}

	switch {
	case c.Kind == cppast.KindUnion:
		b.WriteString(indent(level) + "};\n")
	case level == 0:
		fmt.Fprintf(&b, "} %s;\n", c.Name)
	default:
		b.WriteString(indent(level) + "};\n")
	}
	b.WriteString(fns.String())
	return b.String()
}

// luaStruct renders the Lua-side block for a record: wrappers for every
// method plus the constructor factories, framed by section markers.
func (g *Generator) luaStruct(c *cppast.Cursor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--=== struct %s ===\n", c.Name)
	for _, ch := range c.Children {
		if g.skips.MatchUSR(ch.USR) || g.skips.MatchName(ch.Name) {
			continue
		}
		switch ch.Kind {
		case cppast.KindMethod:
			if !strings.Contains(ch.Name, "operator") {
				b.WriteString(g.luaFunction(ch, c.Name+"_", g.cfg.FFIPrefix+c.Name+"_", c.Name+"_ctx"))
			}
		case cppast.KindConstructor:
			if !g.skips.SkipConstructor(c.Name) {
				b.WriteString(g.luaConstructor(ch, c.Name))
			}
		}
	}
	b.WriteString("--===\n")
	return b.String()
}

// hostStruct renders the host-side exports for a record's methods. Each
// export takes the receiver as an explicit leading context pointer and
// forwards through it.
func (g *Generator) hostStruct(c *cppast.Cursor) string {
	var b strings.Builder
	for _, ch := range c.Children {
		if g.skips.MatchUSR(ch.USR) || g.skips.MatchName(ch.Name) {
			continue
		}
		if ch.Kind != cppast.KindMethod || strings.Contains(ch.Name, "operator") {
			continue
		}
		b.WriteString(g.hostFunction(ch, g.cfg.FFIPrefix+c.Name+"_", c.Name+"_ctx->", c.Name+"_ctx", c.Type.Spelling))
	}
	return b.String()
}

func indent(n int) string {
	if n < 0 {
		n = 0
	}
	return strings.Repeat("  ", n)
}
