// Package gen renders a parsed C++ header into LuaJIT FFI binding
// artifacts: a C declaration header, a C++ host export source and a Lua
// wrapper module. One traversal feeds all three so a declaration either
// appears in every artifact or in none.
package gen

import (
	"bytes"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hexaforge/imwrap/internal/config"
	"github.com/hexaforge/imwrap/internal/cppast"
	"github.com/hexaforge/imwrap/internal/logging"
)

// Generator walks a declaration tree and accumulates the three artifacts.
// It is single-use per Run but a Generator may be Run repeatedly; output
// depends only on the parsed unit and the configuration, so repeated runs
// are byte-identical.
type Generator struct {
	unit   *cppast.Unit
	cfg    config.LibraryConfig
	skips  *config.Skips
	mapper *Mapper
	log    *zap.SugaredLogger

	renames map[string]string
	nsStack []string

	vm   bytes.Buffer
	host bytes.Buffer
	lua  bytes.Buffer

	progress func(done, total int)
	emitted  int
	total    int
}

// New builds a Generator for one parsed header. Skip patterns are compiled
// up front so malformed configuration fails here, not mid-traversal.
func New(unit *cppast.Unit, cfg *config.Config) (*Generator, error) {
	skips, err := config.CompileSkips(&cfg.Skip)
	if err != nil {
		return nil, err
	}
	return &Generator{
		unit:   unit,
		cfg:    cfg.Library,
		skips:  skips,
		mapper: &Mapper{TypePrefix: cfg.Library.TypePrefix},
		log:    logging.Named("gen"),
	}, nil
}

// OnProgress registers a callback invoked after each emitted declaration.
func (g *Generator) OnProgress(fn func(done, total int)) {
	g.progress = fn
}

// Run renders the artifacts.
func (g *Generator) Run() (*Artifacts, error) {
	g.renames = detectOverloads(g.unit.Root)
	g.total = g.countDecls(g.unit.Root)
	g.emitted = 0
	g.vm.Reset()
	g.host.Reset()
	g.lua.Reset()
	g.nsStack = g.nsStack[:0]

	g.writePrologues()
	g.traverse(g.unit.Root)
	g.writeEpilogues()

	return &Artifacts{
		FFIHeader:  append([]byte(nil), g.vm.Bytes()...),
		HostSource: append([]byte(nil), g.host.Bytes()...),
		LuaModule:  append([]byte(nil), g.lua.Bytes()...),
	}, nil
}

func (g *Generator) skipped(c *cppast.Cursor) bool {
	if g.skips.MatchUSR(c.USR) || g.skips.MatchName(c.Name) {
		return true
	}
	return c.Kind == cppast.KindClassTemplate || c.Kind == cppast.KindFunctionTemplate
}

// countDecls mirrors the traversal's emission points so progress reporting
// can announce a total before the first declaration is rendered.
func (g *Generator) countDecls(c *cppast.Cursor) int {
	if g.skipped(c) {
		return 0
	}
	switch c.Kind {
	case cppast.KindFunction, cppast.KindMethod:
		if strings.HasPrefix(c.Name, "operator") {
			return 0
		}
		return 1
	case cppast.KindTypedef, cppast.KindStruct, cppast.KindUnion, cppast.KindEnum:
		return 1
	default:
		n := 0
		for _, ch := range c.Children {
			n += g.countDecls(ch)
		}
		return n
	}
}

func (g *Generator) traverse(c *cppast.Cursor) {
	if g.skipped(c) {
		return
	}
	switch c.Kind {
	case cppast.KindFunction, cppast.KindMethod:
		if strings.HasPrefix(c.Name, "operator") {
			return
		}
		g.vm.WriteString(g.cvmFunction(c, g.cfg.FFIPrefix, ""))
		g.host.WriteString(g.hostFunction(c, g.cfg.FFIPrefix, g.namespaceQualifier(), "", ""))
		g.lua.WriteString(g.luaFunction(c, "", g.cfg.FFIPrefix, ""))
		g.step()
	case cppast.KindTypedef:
		// Extents include the terminating semicolon; normalize so the
		// emitted line carries exactly one.
		g.vm.WriteString(strings.TrimSuffix(g.unit.Content(c.Extent), ";") + ";\n")
		g.step()
	case cppast.KindStruct, cppast.KindUnion:
		if c.Definition {
			g.vm.WriteString(g.cvmStruct(c, 0))
			g.host.WriteString(g.hostStruct(c))
			g.lua.WriteString(g.luaStruct(c))
		} else {
			fmt.Fprintf(&g.vm, "typedef struct %s %s;\n", c.Name, c.Name)
		}
		g.step()
	case cppast.KindEnum:
		g.vm.WriteString(g.cvmEnum(c))
		g.lua.WriteString(g.luaEnum(c))
		g.step()
	case cppast.KindTranslationUnit:
		for _, ch := range c.Children {
			g.traverse(ch)
		}
	case cppast.KindNamespace:
		g.nsStack = append(g.nsStack, c.Name)
		for _, ch := range c.Children {
			g.traverse(ch)
		}
		g.nsStack = g.nsStack[:len(g.nsStack)-1]
	default:
		g.log.Warnw("unhandled declaration",
			"kind", c.Kind.String(),
			"type", c.Type.Spelling,
			"name", c.Name,
			"source", g.unit.ContentShort(c.Extent))
		for _, ch := range c.Children {
			g.traverse(ch)
		}
	}
}

// namespaceQualifier renders the enclosing namespaces as a C++ call
// qualifier, "ImGui::" style, empty at file scope.
func (g *Generator) namespaceQualifier() string {
	if len(g.nsStack) == 0 {
		return ""
	}
	return strings.Join(g.nsStack, "::") + "::"
}

func (g *Generator) step() {
	g.emitted++
	if g.progress != nil {
		g.progress(g.emitted, g.total)
	}
}

func (g *Generator) banner(comment string) string {
	return comment + " !!!! DO NOT EDIT THIS FILE -- It was automatically generated by imwrap -- DO NOT EDIT THIS FILE !!!!\n"
}

func (g *Generator) writePrologues() {
	box := strings.Repeat("/", 79) + "\n"
	g.vm.WriteString(box)
	g.vm.WriteString("// this file is used for declaring C types for LuaJIT's FFI. Do not use it in C\n")
	g.vm.WriteString(box)
	g.vm.WriteString("\n")
	g.vm.WriteString(g.banner("//"))
	g.vm.WriteString("\n")
	fmt.Fprintf(&g.vm, "typedef struct { float x, y; } %s;\n", g.cfg.Vec2POD)
	fmt.Fprintf(&g.vm, "typedef struct { float x, y, z, w; } %s;\n", g.cfg.Vec4POD)
	g.vm.WriteString("\n")

	g.host.WriteString(g.banner("//"))
	g.host.WriteString("\n")
	fmt.Fprintf(&g.host, "#include %q\n", g.cfg.HostInclude)
	g.host.WriteString("extern \"C\" {\n")
	fmt.Fprintf(&g.host, "#ifdef %s\n", g.cfg.WindowsMacro)
	fmt.Fprintf(&g.host, "#define %s __declspec(dllexport)\n", g.cfg.ExportMacro)
	g.host.WriteString("#else\n")
	fmt.Fprintf(&g.host, "#define %s __attribute__((visibility(\"default\")))\n", g.cfg.ExportMacro)
	fmt.Fprintf(&g.host, "#endif // %s\n", g.cfg.WindowsMacro)
	g.host.WriteString("\n")

	g.lua.WriteString(g.banner("--"))
	g.lua.WriteString("\n")
	g.lua.WriteString("local C = ffi.C -- shortcut to prevent lookups all the time\n")
	g.lua.WriteString("\n")
	g.lua.WriteString("return function(M)\n")
	g.lua.WriteString("\n")
}

func (g *Generator) writeEpilogues() {
	g.host.WriteString("\n\n")
	fmt.Fprintf(&g.host, "#undef %s\n", g.cfg.ExportMacro)
	g.host.WriteString("} // extern C\n")

	g.lua.WriteString("\nend -- global function close\n")
}
