package gen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexaforge/imwrap/internal/cppast"
)

// Test Plan for the declaration emitters:
// - cSignature renders flat signatures with context and variadic handling
// - cvmFunction declares FFI symbols, raw C++ result spellings included
// - hostFunction bridges returns, derefs references, forwards variadics
//   through V-suffixed variants and mirrors vector results into PODs
// - luaFunction wires default substitution, nil guards and the FFI call
// - cvmStruct renders fields, flattened callbacks, nested unions and
//   method declarations after the closing brace
// - luaStruct and hostStruct honor skip lists and constructor suppression
// - luaConstructor emits value and pointer factories
// - cvmEnum splices initializer expressions, luaEnum strips the prefix

const emitFunctionsSource = `
struct ImVec2 { float x, y; };
struct ImVec4 { float x, y, z, w; };
typedef ImVec2 ImAlias;
namespace UI {
    bool Begin(const char* name, bool* p_open = NULL, int flags = 0);
    void End();
    float CalcItemWidth();
    ImVec2 GetWindowPos();
    ImVec4 GetStyleColor(int idx);
    ImAlias GetCenter();
    void SetPos(const ImVec2& pos);
    void Text(const char* fmt, ...);
    bool TreeNode(const char* str_id, const char* fmt, ...);
}
struct Style {
    void Scale(float factor);
};
`

func emitGen(t *testing.T) *Generator {
	t.Helper()
	return newTestGen(t, emitFunctionsSource, noSkipConfig())
}

func fn(t *testing.T, g *Generator, name string) *cppast.Cursor {
	t.Helper()
	c := findByName(g.unit.Root, cppast.KindFunction, name)
	require.NotNil(t, c, "function %s not found", name)
	return c
}

func TestCSignature(t *testing.T) {
	t.Parallel()
	g := emitGen(t)

	sig := g.cSignature(fn(t, g, "Begin"), "imgui_", "", false)
	assert.Equal(t, "bool imgui_Begin(const char* name, bool* p_open, int flags)", sig.Signature)
	assert.Equal(t, "return ", sig.ReturnKw)
	assert.Equal(t, []string{"name", "p_open", "flags"}, sig.ParamNames)
	assert.Equal(t, []bool{false, false, false}, sig.Derefs)
	assert.False(t, sig.Variadic)

	// Test: a context argument prepends without entering the name list
	sig = g.cSignature(fn(t, g, "Begin"), "imgui_Window_", "Window* Window_ctx", false)
	assert.Equal(t, "bool imgui_Window_Begin(Window* Window_ctx, const char* name, bool* p_open, int flags)", sig.Signature)
	assert.Equal(t, []string{"name", "p_open", "flags"}, sig.ParamNames)

	// Test: reference parameters mark their call sites for dereferencing
	sig = g.cSignature(fn(t, g, "SetPos"), "imgui_", "", false)
	assert.Equal(t, []bool{true}, sig.Derefs)

	// Test: void results suppress the return keyword
	sig = g.cSignature(fn(t, g, "End"), "imgui_", "", false)
	assert.Equal(t, "", sig.ReturnKw)
}

func TestCvmFunction(t *testing.T) {
	t.Parallel()
	g := emitGen(t)

	assert.Equal(t, "bool imgui_Begin(const char* name, bool* p_open, int flags);\n",
		g.cvmFunction(fn(t, g, "Begin"), "imgui_", ""))
	assert.Equal(t, "void imgui_Text(const char* fmt, ...);\n",
		g.cvmFunction(fn(t, g, "Text"), "imgui_", ""))

	// Test: the FFI header keeps the raw C++ result spelling
	assert.Equal(t, "ImVec2 imgui_GetWindowPos();\n",
		g.cvmFunction(fn(t, g, "GetWindowPos"), "imgui_", ""))
}

func TestHostFunction(t *testing.T) {
	t.Parallel()
	g := emitGen(t)

	// Test: void call without return keyword
	assert.Equal(t, "FFI_EXPORT void imgui_End() {\n  UI::End();\n}\n\n",
		g.hostFunction(fn(t, g, "End"), "imgui_", "UI::", "", ""))

	// Test: file-scope call prefix stays empty
	assert.Equal(t, "FFI_EXPORT void imgui_End() {\n  End();\n}\n\n",
		g.hostFunction(fn(t, g, "End"), "imgui_", "", "", ""))

	// Test: non-void results forward with return
	assert.Equal(t, "FFI_EXPORT bool imgui_Begin(const char* name, bool* p_open, int flags) {\n"+
		"  return UI::Begin(name, p_open, flags);\n}\n\n",
		g.hostFunction(fn(t, g, "Begin"), "imgui_", "UI::", "", ""))

	// Test: by-value vector results copy into the POD mirror
	assert.Equal(t, "FFI_EXPORT ImVec2_C imgui_GetWindowPos() {\n"+
		"  const ImVec2& res_cxx = UI::GetWindowPos();\n"+
		"  ImVec2_C res_c = {res_cxx.x, res_cxx.y};\n"+
		"  return res_c;\n}\n\n",
		g.hostFunction(fn(t, g, "GetWindowPos"), "imgui_", "UI::", "", ""))

	assert.Equal(t, "FFI_EXPORT ImVec4_C imgui_GetStyleColor(int idx) {\n"+
		"  const ImVec4& res_cxx = UI::GetStyleColor(idx);\n"+
		"  ImVec4_C res_c = {res_cxx.x, res_cxx.y, res_cxx.z, res_cxx.w};\n"+
		"  return res_c;\n}\n\n",
		g.hostFunction(fn(t, g, "GetStyleColor"), "imgui_", "UI::", "", ""))

	// Test: a typedef of a vector type resolves to the same POD mirror
	assert.Contains(t,
		g.hostFunction(fn(t, g, "GetCenter"), "imgui_", "UI::", "", ""),
		"FFI_EXPORT ImVec2_C imgui_GetCenter() {")

	// Test: reference parameters dereference at the call site
	assert.Equal(t, "FFI_EXPORT void imgui_SetPos(const ImVec2* pos) {\n  UI::SetPos(*pos);\n}\n\n",
		g.hostFunction(fn(t, g, "SetPos"), "imgui_", "UI::", "", ""))

	// Test: void variadics forward through the V variant with va_list
	assert.Equal(t, "FFI_EXPORT void imgui_Text(const char* fmt, ...) {\n"+
		"  va_list args;\n"+
		"  va_start(args, fmt);\n"+
		"  UI::TextV(fmt, args);\n"+
		"  va_end(args);\n}\n\n",
		g.hostFunction(fn(t, g, "Text"), "imgui_", "UI::", "", ""))

	// Test: returning variadics bind the result so va_end runs first
	assert.Equal(t, "FFI_EXPORT bool imgui_TreeNode(const char* str_id, const char* fmt, ...) {\n"+
		"  va_list args;\n"+
		"  va_start(args, fmt);\n"+
		"  auto res_cxx = UI::TreeNodeV(str_id, fmt, args);\n"+
		"  va_end(args);\n"+
		"  return res_cxx;\n}\n\n",
		g.hostFunction(fn(t, g, "TreeNode"), "imgui_", "UI::", "", ""))

	// Test: method exports take the receiver as leading context pointer
	scale := findByName(g.unit.Root, cppast.KindMethod, "Scale")
	require.NotNil(t, scale)
	assert.Equal(t, "FFI_EXPORT void imgui_Style_Scale(Style* Style_ctx, float factor) {\n"+
		"  Style_ctx->Scale(factor);\n}\n\n",
		g.hostFunction(scale, "imgui_Style_", "Style_ctx->", "Style_ctx", "Style"))
}

func TestLuaFunction(t *testing.T) {
	t.Parallel()
	g := emitGen(t)

	// Test: no params, no result collapses to one line
	assert.Equal(t, "function M.End() C.imgui_End() end\n",
		g.luaFunction(fn(t, g, "End"), "", "imgui_", ""))
	assert.Equal(t, "function M.CalcItemWidth() return C.imgui_CalcItemWidth() end\n",
		g.luaFunction(fn(t, g, "CalcItemWidth"), "", "imgui_", ""))

	// Test: defaults substitute, nullable pointers get a comment, required
	// pointers get a logged rejection
	assert.Equal(t, "function M.Begin(string_name, bool_p_open, int_flags) \n"+
		"  -- bool_p_open is optional and can be nil\n"+
		"  if int_flags == nil then int_flags = 0 end\n"+
		"  if string_name == nil then log(\"E\", \"\", \"Parameter 'string_name' of function 'Begin' cannot be nil, as the c type is 'const char *'\") ; return end\n"+
		"  return C.imgui_Begin(string_name, bool_p_open, int_flags)\n"+
		"end\n",
		g.luaFunction(fn(t, g, "Begin"), "", "imgui_", ""))

	// Test: the ellipsis rides through signature and call
	assert.Equal(t, "function M.Text(string_fmt, ...) \n"+
		"  if string_fmt == nil then log(\"E\", \"\", \"Parameter 'string_fmt' of function 'Text' cannot be nil, as the c type is 'const char *'\") ; return end\n"+
		"  C.imgui_Text(string_fmt, ...)\n"+
		"end\n",
		g.luaFunction(fn(t, g, "Text"), "", "imgui_", ""))

	// Test: the context argument leads the wrapper parameter list
	scale := findByName(g.unit.Root, cppast.KindMethod, "Scale")
	require.NotNil(t, scale)
	assert.Equal(t, "function M.Style_Scale(Style_ctx, float_factor) C.imgui_Style_Scale(Style_ctx, float_factor) end\n",
		g.luaFunction(scale, "Style_", "imgui_Style_", "Style_ctx"))
}

func TestCvmStruct(t *testing.T) {
	t.Parallel()

	g := newTestGen(t, `
struct ImVec2 { float x, y; };
struct Widget {
    float alpha;
    ImVec2 pos;
    void* user_data;
    int values[4];
    void (*callback)(void* ud);
    Widget() { alpha = 0.0f; }
    void Update(float dt);
    bool operator==(const Widget& rhs);
};
`, noSkipConfig())
	widget := findByName(g.unit.Root, cppast.KindStruct, "Widget")
	require.NotNil(t, widget)

	assert.Equal(t, "typedef struct Widget {\n"+
		"  float alpha;\n"+
		"  ImVec2 pos;\n"+
		"  void* user_data;\n"+
		"  int values[4];\n"+
		"  void* callback; // complex callback: void (*)(void * ud)\n"+
		"} Widget;\n"+
		"// void imgui_Widget();\n"+
		"void imgui_Widget_Update(Widget* Widget_ctx, float dt);\n",
		g.cvmStruct(widget, 0))
}

func TestCvmStruct_NestedUnion(t *testing.T) {
	t.Parallel()

	g := newTestGen(t, `
struct Pair {
    unsigned int key;
    union { int val_i; float val_f; };
};
`, noSkipConfig())
	pair := findByName(g.unit.Root, cppast.KindStruct, "Pair")
	require.NotNil(t, pair)

	assert.Equal(t, "typedef struct Pair {\n"+
		"  unsigned int key;\n"+
		"\n\nunion {\n"+
		"    int val_i;\n"+
		"    float val_f;\n"+
		"  };\n"+
		"} Pair;\n",
		g.cvmStruct(pair, 0))
}

const panelSource = `
struct Panel {
    Panel() { }
    void Show();
    void HiddenInternal();
};
`

func TestLuaStruct(t *testing.T) {
	t.Parallel()

	cfg := noSkipConfig()
	cfg.Skip.Names = []string{"Hidden*"}
	g := newTestGen(t, panelSource, cfg)
	panel := findByName(g.unit.Root, cppast.KindStruct, "Panel")
	require.NotNil(t, panel)

	out := g.luaStruct(panel)
	assert.True(t, strings.HasPrefix(out, "--=== struct Panel ===\n"), "got %q", out)
	assert.True(t, strings.HasSuffix(out, "--===\n"))
	assert.Contains(t, out, "function M.Panel_Show(Panel_ctx) C.imgui_Panel_Show(Panel_ctx) end\n")
	assert.Contains(t, out, "function M.Panel() return ffi.new(\"Panel\") end\n")
	assert.Contains(t, out, "function M.PanelPtr() return ffi.new(\"Panel[1]\") end\n")
	assert.NotContains(t, out, "HiddenInternal")

	// Test: listed structs lose their factories but keep method wrappers
	cfg = noSkipConfig()
	cfg.Skip.Constructors = []string{"Panel"}
	g = newTestGen(t, panelSource, cfg)
	panel = findByName(g.unit.Root, cppast.KindStruct, "Panel")
	require.NotNil(t, panel)

	out = g.luaStruct(panel)
	assert.NotContains(t, out, "ffi.new")
	assert.Contains(t, out, "function M.Panel_Show(Panel_ctx)")
	assert.Contains(t, out, "function M.Panel_HiddenInternal(Panel_ctx)")
}

func TestHostStruct(t *testing.T) {
	t.Parallel()

	cfg := noSkipConfig()
	cfg.Skip.Names = []string{"Hidden*"}
	g := newTestGen(t, panelSource, cfg)
	panel := findByName(g.unit.Root, cppast.KindStruct, "Panel")
	require.NotNil(t, panel)

	out := g.hostStruct(panel)
	assert.Equal(t, "FFI_EXPORT void imgui_Panel_Show(Panel* Panel_ctx) {\n  Panel_ctx->Show();\n}\n\n", out)
}

func TestLuaConstructor(t *testing.T) {
	t.Parallel()
	g := &Generator{mapper: &Mapper{TypePrefix: "Im"}}

	// Test: parameterless constructors collapse to one-line factories
	zero := &cppast.Cursor{Kind: cppast.KindConstructor, Name: "ImGuiStyle"}
	assert.Equal(t, "function M.ImGuiStyle() return ffi.new(\"ImGuiStyle\") end\n"+
		"function M.ImGuiStylePtr() return ffi.new(\"ImGuiStyle[1]\") end\n",
		g.luaConstructor(zero, "ImGuiStyle"))

	// Test: the underscore convention of C++ ctor params stays out of Lua
	ctor := &cppast.Cursor{
		Kind: cppast.KindConstructor,
		Name: "ImVec2",
		Params: []*cppast.Cursor{
			param("_x", "float", cppast.TypeFloat),
			param("_y", "float", cppast.TypeFloat),
		},
	}
	assert.Equal(t, "function M.ImVec2(x, y)\n"+
		"  local res = ffi.new(\"ImVec2\")\n"+
		"  res.x = x\n"+
		"  res.y = y\n"+
		"  return res\nend\n"+
		"function M.ImVec2Ptr(x, y)\n"+
		"  local res = ffi.new(\"ImVec2[1]\")\n"+
		"  res[0].x = x\n"+
		"  res[0].y = y\n"+
		"  return res\nend\n",
		g.luaConstructor(ctor, "ImVec2"))
}

func TestCvmEnum(t *testing.T) {
	t.Parallel()

	g := newTestGen(t, `
enum ImGuiCol_ { ImGuiCol_Text, ImGuiCol_Border = 5, ImGuiCol_COUNT };
enum Flags_ { Flags_None = 0, Flags_A = 1 << 2, Flags_All = Flags_A | 8 };
`, noSkipConfig())

	col := findByName(g.unit.Root, cppast.KindEnum, "ImGuiCol_")
	require.NotNil(t, col)
	assert.Equal(t, "\ntypedef enum {\n"+
		"  ImGuiCol_Text,\n"+
		"  ImGuiCol_Border = 5,\n"+
		"  ImGuiCol_COUNT\n"+
		"} ImGuiCol_;\n",
		g.cvmEnum(col))

	// Test: flag math initializers splice verbatim
	flags := findByName(g.unit.Root, cppast.KindEnum, "Flags_")
	require.NotNil(t, flags)
	out := g.cvmEnum(flags)
	assert.Contains(t, out, "  Flags_A = 1 << 2,\n")
	assert.Contains(t, out, "  Flags_All = Flags_A | 8\n")

	// Test: an enum with no visible constants degrades to a typedef
	opaque := &cppast.Cursor{
		Kind:       cppast.KindEnum,
		Name:       "ImGuiKey",
		Underlying: cppast.Type{Kind: cppast.TypeInt, Spelling: "int"},
	}
	assert.Equal(t, "typedef int ImGuiKey;\n", g.cvmEnum(opaque))
}

func TestLuaEnum(t *testing.T) {
	t.Parallel()

	g := newTestGen(t, `
enum ImGuiCol_ { ImGuiCol_Text, ImGuiCol_Border = 5 };
enum Flags_ { Flags_None };
`, noSkipConfig())

	col := findByName(g.unit.Root, cppast.KindEnum, "ImGuiCol_")
	require.NotNil(t, col)
	assert.Equal(t, "--=== enum ImGuiCol_ ===\n"+
		"M.Col_Text = C.ImGuiCol_Text\n"+
		"M.Col_Border = C.ImGuiCol_Border\n"+
		"--===\n",
		g.luaEnum(col))

	// Test: names without the configured prefix stay whole
	flags := findByName(g.unit.Root, cppast.KindEnum, "Flags_")
	require.NotNil(t, flags)
	assert.Contains(t, g.luaEnum(flags), "M.Flags_None = C.Flags_None\n")
}
