package gen

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tsc "github.com/tree-sitter/tree-sitter-c/bindings/go"

	"github.com/hexaforge/imwrap/internal/config"
	"github.com/hexaforge/imwrap/internal/cppast"
)

// Test Plan for the generator:
// - The fixture header renders complete FFI, host and Lua artifacts with
//   prologues, declarations in source order and epilogues
// - Skip lists drop ImVec2/ImVec4, MemFree and the obsolete block
// - Overloads surface renamed in all three artifacts
// - Namespace nesting renders as a C++ call qualifier
// - Progress reporting counts every emitted declaration
// - Repeated runs are byte-identical
// - The emitted FFI header is parseable C

const fixtureHeader = "../../testdata/headers/widgets.h"

func mustParse(t *testing.T, src string) *cppast.Unit {
	t.Helper()
	unit, err := cppast.ParseBytes("snippet.h", []byte(src), cppast.Options{})
	require.NoError(t, err)
	return unit
}

func findByName(c *cppast.Cursor, kind cppast.CursorKind, name string) *cppast.Cursor {
	if c.Kind == kind && c.Name == name {
		return c
	}
	for _, ch := range c.Children {
		if r := findByName(ch, kind, name); r != nil {
			return r
		}
	}
	return nil
}

func findAllByName(c *cppast.Cursor, kind cppast.CursorKind, name string) []*cppast.Cursor {
	var out []*cppast.Cursor
	if c.Kind == kind && c.Name == name {
		out = append(out, c)
	}
	for _, ch := range c.Children {
		out = append(out, findAllByName(ch, kind, name)...)
	}
	return out
}

// noSkipConfig returns defaults with the ImGui skip lists cleared, so
// snippet tests see every declaration they define.
func noSkipConfig() *config.Config {
	cfg := config.Default()
	cfg.Skip = config.SkipConfig{}
	return cfg
}

func newTestGen(t *testing.T, src string, cfg *config.Config) *Generator {
	t.Helper()
	g, err := New(mustParse(t, src), cfg)
	require.NoError(t, err)
	return g
}

func fixtureGenerator(t *testing.T) *Generator {
	t.Helper()
	cfg := config.Default()
	unit, err := cppast.ParseFile(fixtureHeader, cppast.Options{
		Defines:     cfg.Parser.Defines,
		StripMacros: cfg.Parser.StripMacros,
	})
	require.NoError(t, err)
	g, err := New(unit, cfg)
	require.NoError(t, err)
	return g
}

func generateFixture(t *testing.T) *Artifacts {
	t.Helper()
	arts, err := fixtureGenerator(t).Run()
	require.NoError(t, err)
	return arts
}

func TestGenerator_FFIHeader(t *testing.T) {
	t.Parallel()

	header := string(generateFixture(t).FFIHeader)

	// Test: prologue box, banner and POD mirror types
	box := strings.Repeat("/", 79) + "\n"
	assert.True(t, strings.HasPrefix(header,
		box+"// this file is used for declaring C types for LuaJIT's FFI. Do not use it in C\n"+box))
	assert.Contains(t, header, "!!!! DO NOT EDIT THIS FILE")
	assert.Contains(t, header, "typedef struct { float x, y; } ImVec2_C;\n")
	assert.Contains(t, header, "typedef struct { float x, y, z, w; } ImVec4_C;\n")

	// Test: typedefs and forward declarations pass through
	assert.Contains(t, header, "typedef unsigned int ImU32;\n")
	assert.Contains(t, header, "typedef void (*ImGuiSizeCallback)(void* user_data);\n")
	assert.Contains(t, header, "typedef struct ImDrawList ImDrawList;\n")
	assert.Contains(t, header, "typedef struct ImFontAtlas ImFontAtlas;\n")

	// Test: namespace functions flatten to prefixed C declarations
	assert.Contains(t, header, "bool imgui_Begin(const char* name, bool* p_open, ImGuiWindowFlags flags);\n")
	assert.Contains(t, header, "void imgui_Text(const char* fmt, ...);\n")
	assert.Contains(t, header, "bool imgui_TreeNode(const char* str_id, const char* fmt, ...);\n")
	assert.Contains(t, header, "ImVec2 imgui_GetWindowPos();\n")
	assert.Contains(t, header, "const char* imgui_GetVersion();\n")
	assert.Contains(t, header, "void imgui_LabelText(const char* label, const char* _end);\n")

	// Test: overloads rename positionally
	assert.Contains(t, header, "void imgui_PushID1(const char* str_id);\n")
	assert.Contains(t, header, "void imgui_PushID2(int int_id);\n")
	assert.NotContains(t, header, "void imgui_PushID(")

	// Test: struct bodies keep layout and hoist methods after the brace
	assert.Contains(t, header, "typedef struct ImGuiStyle {\n"+
		"  float Alpha;\n"+
		"  ImVec2 WindowPadding;\n"+
		"  void* UserData;\n"+
		"} ImGuiStyle;\n"+
		"// void imgui_ImGuiStyle();\n"+
		"void imgui_ImGuiStyle_ScaleAllSizes(ImGuiStyle* ImGuiStyle_ctx, float scale_factor);\n")
	assert.Contains(t, header, "  float MouseDownDuration[5];\n")
	assert.Contains(t, header, "  void* GetClipboardTextFn; // complex callback:")
	assert.Contains(t, header, "void imgui_ImGuiIO_AddInputCharacter(ImGuiIO* ImGuiIO_ctx, ImWchar c);\n")

	// Test: anonymous unions nest inside the struct body
	assert.Contains(t, header, "union {\n"+
		"    int val_i;\n"+
		"    float val_f;\n"+
		"    void* val_p;\n"+
		"  };\n"+
		"} ImGuiStoragePair;\n")

	// Test: enums carry explicit values
	assert.Contains(t, header, "\ntypedef enum {\n"+
		"  ImGuiCol_Text,\n"+
		"  ImGuiCol_Border = 5,\n"+
		"  ImGuiCol_COUNT\n"+
		"} ImGuiCol_;\n")

	// Test: constructors surface as commented prototypes
	assert.Contains(t, header, "// void imgui_ImPlotPoint();\n// void imgui_ImPlotPoint(float _x, float _y);\n")
	assert.Contains(t, header, "// void imgui_ImGuiTextFilter(const char* default_filter);\n")
	assert.Contains(t, header, "bool imgui_ImGuiTextFilter_Draw(ImGuiTextFilter* ImGuiTextFilter_ctx, const char* label, float width);\n")
	assert.Contains(t, header, "bool imgui_ImGuiTextFilter_PassFilter(ImGuiTextFilter* ImGuiTextFilter_ctx, const char* text);\n")

	// Test: skip lists and template exclusion hold
	assert.NotContains(t, header, "typedef struct ImVec2 {")
	assert.NotContains(t, header, "typedef struct ImVec4 {")
	assert.NotContains(t, header, "MemFree")
	assert.NotContains(t, header, "SetScrollPosHere")
	assert.NotContains(t, header, "ImVector")
	assert.NotContains(t, header, "operator")
}

func TestGenerator_HostSource(t *testing.T) {
	t.Parallel()

	host := string(generateFixture(t).HostSource)

	// Test: prologue include and export macro selection
	assert.True(t, strings.HasPrefix(host, "// !!!! DO NOT EDIT THIS FILE"))
	assert.Contains(t, host, "#include \"imguiApiHost.h\"\n"+
		"extern \"C\" {\n"+
		"#ifdef _WIN32\n"+
		"#define FFI_EXPORT __declspec(dllexport)\n"+
		"#else\n"+
		"#define FFI_EXPORT __attribute__((visibility(\"default\")))\n"+
		"#endif // _WIN32\n")

	// Test: namespace functions forward through the ImGui:: qualifier
	assert.Contains(t, host, "FFI_EXPORT bool imgui_Begin(const char* name, bool* p_open, ImGuiWindowFlags flags) {\n"+
		"  return ImGui::Begin(name, p_open, flags);\n}\n\n")

	// Test: vector results copy into POD mirrors
	assert.Contains(t, host, "FFI_EXPORT ImVec2_C imgui_GetWindowPos() {\n"+
		"  const ImVec2& res_cxx = ImGui::GetWindowPos();\n"+
		"  ImVec2_C res_c = {res_cxx.x, res_cxx.y};\n"+
		"  return res_c;\n}\n\n")
	assert.Contains(t, host, "  ImVec4_C res_c = {res_cxx.x, res_cxx.y, res_cxx.z, res_cxx.w};\n")

	// Test: variadics forward through the V variants
	assert.Contains(t, host, "FFI_EXPORT void imgui_Text(const char* fmt, ...) {\n"+
		"  va_list args;\n"+
		"  va_start(args, fmt);\n"+
		"  ImGui::TextV(fmt, args);\n"+
		"  va_end(args);\n}\n\n")
	assert.Contains(t, host, "  auto res_cxx = ImGui::TreeNodeV(str_id, fmt, args);\n")

	// Test: reference parameters dereference at the call site
	assert.Contains(t, host, "  ImGui::SetNextWindowPos(*pos, cond, *pivot);\n")

	// Test: renamed exports still call the original overloaded name
	assert.Contains(t, host, "FFI_EXPORT void imgui_PushID1(const char* str_id) {\n"+
		"  ImGui::PushID(str_id);\n}\n\n")
	assert.Contains(t, host, "FFI_EXPORT void imgui_PushID2(int int_id) {\n"+
		"  ImGui::PushID(int_id);\n}\n\n")

	// Test: methods forward through the context pointer
	assert.Contains(t, host, "FFI_EXPORT void imgui_ImGuiStyle_ScaleAllSizes(ImGuiStyle* ImGuiStyle_ctx, float scale_factor) {\n"+
		"  ImGuiStyle_ctx->ScaleAllSizes(scale_factor);\n}\n\n")

	assert.NotContains(t, host, "MemFree")
	assert.True(t, strings.HasSuffix(host, "\n\n#undef FFI_EXPORT\n} // extern C\n"))
}

func TestGenerator_LuaModule(t *testing.T) {
	t.Parallel()

	lua := string(generateFixture(t).LuaModule)

	// Test: prologue shortcut and module closure
	assert.True(t, strings.HasPrefix(lua, "-- !!!! DO NOT EDIT THIS FILE"))
	assert.Contains(t, lua, "local C = ffi.C -- shortcut to prevent lookups all the time\n\nreturn function(M)\n")
	assert.True(t, strings.HasSuffix(lua, "\nend -- global function close\n"))

	// Test: defaults substitute and required pointers reject nil
	assert.Contains(t, lua, "function M.Begin(string_name, bool_p_open, ImGuiWindowFlags_flags) \n"+
		"  -- bool_p_open is optional and can be nil\n"+
		"  if ImGuiWindowFlags_flags == nil then ImGuiWindowFlags_flags = 0 end\n"+
		"  if string_name == nil then log(\"E\", \"\", \"Parameter 'string_name' of function 'Begin' cannot be nil, as the c type is 'const char *'\") ; return end\n"+
		"  return C.imgui_Begin(string_name, bool_p_open, ImGuiWindowFlags_flags)\n"+
		"end\n")
	assert.Contains(t, lua, "function M.End() C.imgui_End() end\n")
	assert.Contains(t, lua, "function M.CalcItemWidth() return C.imgui_CalcItemWidth() end\n")

	// Test: boolean and constructor-call defaults translate
	assert.Contains(t, lua, "  if int_count == nil then int_count = 1 end\n"+
		"  -- string_id is optional and can be nil\n"+
		"  if bool_border == nil then bool_border = true end\n")
	assert.Contains(t, lua, "  if ImVec2_pivot == nil then ImVec2_pivot = M.ImVec2(0,0) end\n")

	// Test: reserved words keep their escaped spelling
	assert.Contains(t, lua, "function M.LabelText(string_label, _end) \n")
	assert.Contains(t, lua, "  if _end == nil then log(\"E\", \"\", \"Parameter '_end' of function 'LabelText' cannot be nil, as the c type is 'const char *'\") ; return end\n")

	// Test: variadic wrappers pass the ellipsis through
	assert.Contains(t, lua, "  C.imgui_Text(string_fmt, ...)\n")

	// Test: overload renames apply to wrapper and FFI call alike
	assert.Contains(t, lua, "C.imgui_PushID1(string_str_id)")
	assert.Contains(t, lua, "function M.PushID2(int_int_id) C.imgui_PushID2(int_int_id) end\n")

	// Test: enum constants strip the library prefix
	assert.Contains(t, lua, "--=== enum ImGuiCol_ ===\n")
	assert.Contains(t, lua, "M.Col_Text = C.ImGuiCol_Text\n")
	assert.Contains(t, lua, "M.Col_Border = C.ImGuiCol_Border\n")
	assert.Contains(t, lua, "M.Col_COUNT = C.ImGuiCol_COUNT\n")

	// Test: method wrappers and constructor factories
	assert.Contains(t, lua, "--=== struct ImGuiStyle ===\n")
	assert.Contains(t, lua, "function M.ImGuiStyle() return ffi.new(\"ImGuiStyle\") end\n")
	assert.Contains(t, lua, "  if string_label == nil then string_label = \"Filter (inc,-exc)\" end\n"+
		"  if float_width == nil then float_width = 0 end\n")
	assert.Contains(t, lua, "function M.ImPlotPoint(x, y)\n")
	assert.Contains(t, lua, "  res[0].x = x\n")

	// Test: suppressed constructors and skipped functions stay out
	assert.NotContains(t, lua, "function M.ImGuiTextFilter(")
	assert.NotContains(t, lua, "MemFree")
	assert.NotContains(t, lua, "SetScrollPosHere")
}

func TestGenerator_NamespaceQualifiers(t *testing.T) {
	t.Parallel()

	g := newTestGen(t, `
bool IsReady();
namespace ui {
    namespace detail {
        void Configure();
    }
}
`, noSkipConfig())
	arts, err := g.Run()
	require.NoError(t, err)

	host := string(arts.HostSource)
	// Test: file scope calls carry no qualifier, nested namespaces join
	assert.Contains(t, host, "FFI_EXPORT bool imgui_IsReady() {\n  return IsReady();\n}\n\n")
	assert.Contains(t, host, "FFI_EXPORT void imgui_Configure() {\n  ui::detail::Configure();\n}\n\n")
}

func TestGenerator_Progress(t *testing.T) {
	t.Parallel()

	g := fixtureGenerator(t)

	type step struct{ done, total int }
	var steps []step
	g.OnProgress(func(done, total int) {
		steps = append(steps, step{done, total})
	})
	_, err := g.Run()
	require.NoError(t, err)

	// Test: one callback per declaration, counting to the announced total
	require.Len(t, steps, 27)
	for i, s := range steps {
		assert.Equal(t, i+1, s.done)
		assert.Equal(t, 27, s.total)
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	t.Parallel()

	g := fixtureGenerator(t)
	first, err := g.Run()
	require.NoError(t, err)
	second, err := g.Run()
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first.FFIHeader, second.FFIHeader))
	assert.True(t, bytes.Equal(first.HostSource, second.HostSource))
	assert.True(t, bytes.Equal(first.LuaModule, second.LuaModule))
}

func TestGenerator_FFIHeaderParsesAsC(t *testing.T) {
	t.Parallel()

	arts := generateFixture(t)

	parser := sitter.NewParser()
	defer parser.Close()
	require.NoError(t, parser.SetLanguage(sitter.NewLanguage(tsc.Language())))

	tree := parser.Parse(arts.FFIHeader, nil)
	require.NotNil(t, tree)
	defer tree.Close()

	// Test: the declarations we hand to ffi.cdef are well-formed C
	assert.False(t, tree.RootNode().HasError(), "generated header has syntax errors:\n%s", arts.FFIHeader)
}
