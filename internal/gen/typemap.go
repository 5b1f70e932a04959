package gen

import (
	"strings"

	"github.com/hexaforge/imwrap/internal/cppast"
	"github.com/hexaforge/imwrap/internal/logging"
)

// Mapper translates C++ type spellings, parameter names and default-value
// expressions into the flat C and Lua dialects of the generated artifacts.
type Mapper struct {
	// TypePrefix marks identifiers in default-argument expressions that
	// name library types or constants (ImVec2(0,0), ImDrawCornerFlags_All)
	// and must become module lookups on the Lua side.
	TypePrefix string
}

// Lua reserves these words; parameters named after them get a leading
// underscore.
var luaReserved = map[string]struct{}{
	"and": {}, "break": {}, "do": {}, "else": {}, "elseif": {},
	"end": {}, "false": {}, "for": {}, "function": {}, "if": {},
	"in": {}, "local": {}, "nil": {}, "not": {}, "or": {},
	"repeat": {}, "return": {}, "then": {}, "true": {}, "until": {},
	"while": {},
}

// ParamName returns the Lua-side name of a parameter. Reserved words are
// escaped with a leading underscore and returned as-is. With the type tag, a
// simplified rendering of the type is prepended (string_label, floatPtr_col,
// functionPtr_callback), documenting the expected value in the wrapper
// signature.
func (m *Mapper) ParamName(c *cppast.Cursor, withTag bool) string {
	name := c.Name
	if _, reserved := luaReserved[name]; reserved {
		return "_" + name
	}
	if !withTag {
		return name
	}
	return simpleTypeTag(c.Type.Spelling) + "_" + name
}

func simpleTypeTag(spelling string) string {
	if strings.Contains(spelling, "(*)") {
		return "functionPtr"
	}
	s := spelling
	if i := strings.Index(s, "["); i >= 0 {
		s = strings.TrimSpace(s[:i]) + "Ptr"
	}
	s = strings.ReplaceAll(s, "const ", "")
	s = strings.ReplaceAll(s, "unsigned ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "*", "")
	s = strings.ReplaceAll(s, "&", "")
	if s == "char" {
		return "string"
	}
	return s
}

// CDecl renders "type name" for one variable or parameter in FFI-safe C.
// Array suffixes reattach after the name, template types truncate to their
// base name, function pointers splice the name into the middle, and
// references flatten to pointers.
func (m *Mapper) CDecl(c *cppast.Cursor) string {
	ts := c.Type.Spelling
	name := m.ParamName(c, false)
	var res string
	switch {
	case strings.Contains(ts, "["):
		i := strings.Index(ts, "[")
		res = strings.TrimSpace(ts[:i]) + " " + name + ts[i:]
	case strings.Contains(ts, "<"):
		res = strings.TrimSpace(ts[:strings.Index(ts, "<")]) + " " + name
	case strings.Contains(ts, "(*)"):
		res = strings.ReplaceAll(ts, "(*)", "(*"+name+")")
	default:
		res = ts + " " + name
	}
	res = strings.ReplaceAll(res, " &", "*")
	res = strings.ReplaceAll(res, " *", "*")
	return res
}

// Value translates a C++ default-argument expression into Lua. Null
// pointers become nil, library-prefixed identifiers become module lookups,
// sizeof folds into ffi.sizeof, and numeric literals lose their C suffixes.
func (m *Mapper) Value(t cppast.Type, s string) string {
	switch {
	case t.Kind == cppast.TypeBool:
		return s

	case t.Kind == cppast.TypeInt || t.Kind == cppast.TypeUInt:
		s = strings.ReplaceAll(s, "+", "")
		if strings.HasPrefix(s, m.TypePrefix) {
			return "M." + s
		}
		if strings.HasPrefix(s, "sizeof") {
			return "ffi.sizeof('" + stripSizeof(s) + "')"
		}
		return s

	case t.Kind == cppast.TypeFloat || t.Kind == cppast.TypeDouble:
		s = strings.ReplaceAll(s, "+", "")
		if len(s) > 0 && (s[len(s)-1] == 'f' || s[len(s)-1] == 'F') && hasDigit(s) {
			s = s[:len(s)-1]
		}
		return strings.TrimSuffix(s, ".0")

	case (t.Kind == cppast.TypePointer || t.Kind == cppast.TypeTypedef) &&
		(s == "nullptr" || s == "NULL"):
		return "nil"

	case t.Kind == cppast.TypePointer && strings.HasPrefix(s, "\""):
		return s

	case t.Kind == cppast.TypeLValueRef || t.Kind == cppast.TypeRecord || t.Kind == cppast.TypeEnum:
		return "M." + s

	case t.Kind == cppast.TypeTypedef && t.Canonical != nil:
		return m.Value(*t.Canonical, s)

	default:
		logging.Named("gen").Warnw("unknown default value type",
			"type", t.Spelling, "kind", t.Kind.String(), "value", s)
		return s
	}
}

// stripSizeof extracts the operand of a sizeof(...) expression.
func stripSizeof(s string) string {
	open := strings.Index(s, "(")
	end := strings.Index(s, ")")
	if open < 0 || end < open {
		return s
	}
	return s[open+1 : end]
}

func hasDigit(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			return true
		}
	}
	return false
}
