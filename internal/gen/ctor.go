package gen

import (
	"fmt"
	"strings"

	"github.com/hexaforge/imwrap/internal/cppast"
)

// luaConstructor renders Lua factory functions for one C++ constructor:
// M.Name(...) building a value via ffi.new and M.NamePtr(...) building a
// one-element array, which is what call sites pass where the API wants a
// pointer. Leading underscores are stripped from parameter names so the
// C++ convention of shadow-avoiding ctor params (_x, _y) does not leak
// into the Lua API.
func (g *Generator) luaConstructor(c *cppast.Cursor, structName string) string {
	var names []string
	for _, p := range c.Params {
		names = append(names, strings.TrimPrefix(g.mapper.ParamName(p, false), "_"))
	}

	if len(names) == 0 {
		return "function M." + structName + "() return ffi.new(\"" + structName + "\") end\n" +
			"function M." + structName + "Ptr() return ffi.new(\"" + structName + "[1]\") end\n"
	}

	args := strings.Join(names, ", ")
	var b strings.Builder
	fmt.Fprintf(&b, "function M.%s(%s)\n", structName, args)
	fmt.Fprintf(&b, "  local res = ffi.new(\"%s\")\n", structName)
	for _, n := range names {
		fmt.Fprintf(&b, "  res.%s = %s\n", n, n)
	}
	b.WriteString("  return res\nend\n")

	fmt.Fprintf(&b, "function M.%sPtr(%s)\n", structName, args)
	fmt.Fprintf(&b, "  local res = ffi.new(\"%s[1]\")\n", structName)
	for _, n := range names {
		fmt.Fprintf(&b, "  res[0].%s = %s\n", n, n)
	}
	b.WriteString("  return res\nend\n")
	return b.String()
}
