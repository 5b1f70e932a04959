package config

// Config represents the complete imwrap configuration.
// It can be loaded from imwrap.yml with environment variable overrides.
type Config struct {
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Library LibraryConfig `yaml:"library" mapstructure:"library"`
	Skip    SkipConfig    `yaml:"skip" mapstructure:"skip"`
	Parser  ParserConfig  `yaml:"parser" mapstructure:"parser"`
}

// OutputConfig names the generated files and where they are written.
type OutputConfig struct {
	Dir        string `yaml:"dir" mapstructure:"dir"`                 // output directory, created if missing
	FFIHeader  string `yaml:"ffi_header" mapstructure:"ffi_header"`   // C declarations consumed by ffi.cdef
	HostSource string `yaml:"host_source" mapstructure:"host_source"` // C++ translation unit exporting the C ABI
	LuaModule  string `yaml:"lua_module" mapstructure:"lua_module"`   // Lua wrapper module
}

// LibraryConfig captures the naming conventions of the C++ library being
// wrapped. The defaults target Dear ImGui but every convention the emitters
// rely on is spelled out here so sibling libraries (ImPlot, ImGuizmo) can be
// wrapped by overriding a handful of strings.
type LibraryConfig struct {
	// FFIPrefix is prepended to every exported flat-C symbol.
	FFIPrefix string `yaml:"ffi_prefix" mapstructure:"ffi_prefix"`
	// TypePrefix marks identifiers in default-argument expressions that
	// refer to library types, which get rewritten to module lookups.
	TypePrefix string `yaml:"type_prefix" mapstructure:"type_prefix"`
	// EnumStripPrefix is removed from enum constant names on the Lua side.
	EnumStripPrefix string `yaml:"enum_strip_prefix" mapstructure:"enum_strip_prefix"`
	// Vec2Types and Vec4Types list the small vector types returned by value.
	// The first entry of each list is the canonical C++ reference type the
	// host binds results to before copying into the POD mirror.
	Vec2Types []string `yaml:"vec2_types" mapstructure:"vec2_types"`
	Vec4Types []string `yaml:"vec4_types" mapstructure:"vec4_types"`
	// Vec2POD and Vec4POD are the plain C structs mirroring those vectors.
	Vec2POD string `yaml:"vec2_pod" mapstructure:"vec2_pod"`
	Vec4POD string `yaml:"vec4_pod" mapstructure:"vec4_pod"`
	// HostInclude is the header included at the top of the host source.
	HostInclude string `yaml:"host_include" mapstructure:"host_include"`
	// ExportMacro decorates every exported host function.
	ExportMacro string `yaml:"export_macro" mapstructure:"export_macro"`
	// WindowsMacro selects the dllexport branch of the export macro.
	WindowsMacro string `yaml:"windows_macro" mapstructure:"windows_macro"`
}

// SkipConfig lists declarations excluded from generation.
type SkipConfig struct {
	// Names match declaration spellings. Entries may use glob syntax.
	Names []string `yaml:"names" mapstructure:"names"`
	// USRs match exact unified symbol references, for pinpointing one
	// overload or one struct out of several sharing a name.
	USRs []string `yaml:"usrs" mapstructure:"usrs"`
	// Constructors lists struct names whose Lua factory functions are
	// suppressed, typically because hand-written replacements exist.
	Constructors []string `yaml:"constructors" mapstructure:"constructors"`
}

// ParserConfig controls header preprocessing before parsing.
type ParserConfig struct {
	// Defines lists macro names treated as defined when evaluating
	// conditional blocks, mirroring -D compiler flags.
	Defines []string `yaml:"defines" mapstructure:"defines"`
	// StripMacros lists annotation macros blanked out of declarations,
	// including any parenthesized argument list.
	StripMacros []string `yaml:"strip_macros" mapstructure:"strip_macros"`
}

// Default returns a configuration with sensible defaults for Dear ImGui.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Dir:        "generated",
			FFIHeader:  "imgui_gen.h",
			HostSource: "imguiApiHostGenerated.cpp",
			LuaModule:  "imgui_gen.lua",
		},
		Library: LibraryConfig{
			FFIPrefix:       "imgui_",
			TypePrefix:      "Im",
			EnumStripPrefix: "ImGui",
			Vec2Types:       []string{"ImVec2"},
			Vec4Types:       []string{"ImVec4", "ImColor"},
			Vec2POD:         "ImVec2_C",
			Vec4POD:         "ImVec4_C",
			HostInclude:     "imguiApiHost.h",
			ExportMacro:     "FFI_EXPORT",
			WindowsMacro:    "_WIN32",
		},
		Skip: SkipConfig{
			Names: []string{
				"SetAllocatorFunctions",
				"MemAlloc",
				"MemFree",
				"LoadIniSettingsFromDisk",
				"LoadIniSettingsFromMemory",
				"SaveIniSettingsToDisk",
				"SaveIniSettingsToMemory",
				"ImGuiOnceUponAFrame",
				"ImNewDummy",
				"ImDrawChannel",
				"ImFontGlyphRangesBuilder_BuildRanges",
			},
			USRs: []string{
				// ImVec2/ImVec4 get hand-written constructors in the Lua
				// prelude, so the declarations here are suppressed wholesale.
				"c:@S@ImVec2",
				"c:@S@ImVec4",
				// Context lifecycle is owned by the host application.
				"c:@N@ImGui@F@CreateContext#ImFontAtlas *#",
				"c:@N@ImGui@F@DestroyContext#ImGuiContext *#",
				"c:@N@ImGui@F@SetNextWindowClass#const ImGuiWindowClass *#",
				// Variadics without a va_list counterpart cannot be forwarded.
				"c:@N@ImGui@F@LogText#const char *#...#",
				"c:@S@ImGuiTextBuffer@F@appendf#const char *#...#",
				// Nested return/parameter types the flat ABI cannot express.
				"c:@S@ImFontAtlas@F@GetCustomRectByIndex#int#",
				"c:@S@ImFontAtlas@F@CalcCustomRectUV#const CustomRect *#ImVec2 *#ImVec2 *#",
				"c:@S@ImFontGlyphRangesBuilder@F@BuildRanges#ImVector<ImWchar> *#",
			},
			Constructors: []string{
				"ImGuiTextFilter",
				"ImDrawList",
			},
		},
		Parser: ParserConfig{
			Defines: []string{
				"__CODE_GENERATOR__",
				"IMGUI_DISABLE_OBSOLETE_FUNCTIONS",
			},
			StripMacros: []string{
				"IMGUI_API",
				"IM_FMTARGS",
				"IM_FMTLIST",
			},
		},
	}
}
