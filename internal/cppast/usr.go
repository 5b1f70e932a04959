package cppast

import "strings"

// Unified symbol references give every declaration a stable identity usable
// in skip lists and rename tables. The format follows the shape clang uses:
//
//	c:@N@ImGui@F@Begin#const char *#bool *#ImGuiWindowFlags#
//	c:@S@ImFontAtlas@F@AddFont#const ImFontConfig *#
//	c:@S@ImVec2
//	c:@E@ImGuiCol_@ImGuiCol_Text
//
// Scope elements are tagged @N@ (namespace) or @S@ (record); functions add
// @F@name plus each parameter type spelling terminated by '#', with "...#"
// appended for variadics. A prototype and its definition produce identical
// references, overloads differ in their parameter lists.

type scopeEntry struct {
	tag  string
	name string
}

func scopeUSR(scope []scopeEntry) string {
	var b strings.Builder
	b.WriteString("c:")
	for _, s := range scope {
		b.WriteByte('@')
		b.WriteString(s.tag)
		b.WriteByte('@')
		b.WriteString(s.name)
	}
	return b.String()
}

func taggedUSR(scope []scopeEntry, tag, name string) string {
	return scopeUSR(scope) + "@" + tag + "@" + name
}

func functionUSR(scope []scopeEntry, name string, params []string, variadic bool) string {
	var b strings.Builder
	b.WriteString(taggedUSR(scope, "F", name))
	b.WriteByte('#')
	for _, p := range params {
		b.WriteString(p)
		b.WriteByte('#')
	}
	if variadic {
		b.WriteString("...#")
	}
	return b.String()
}
