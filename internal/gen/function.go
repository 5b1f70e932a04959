package gen

import (
	"fmt"
	"strings"

	"github.com/hexaforge/imwrap/internal/cppast"
)

// signatureInfo is the shared shape of one function across the C artifacts:
// the flat signature plus everything the host body needs to forward the call.
type signatureInfo struct {
	Signature  string   // "<result> <prefix><name>(<params>)"
	ReturnKw   string   // "return " unless the result is void
	ParamNames []string // call-site argument names, context argument excluded
	Derefs     []bool   // parallel to ParamNames, true for reference params
	Variadic   bool
}

// cSignature renders a function's flat C signature. The prefix namespaces
// the exported symbol, firstArg (when set) prepends a context parameter for
// methods, and host selects the host-source variant where by-value vector
// results are rewritten to their POD mirror types.
func (g *Generator) cSignature(c *cppast.Cursor, prefix, firstArg string, host bool) signatureInfo {
	var params, names []string
	var derefs []bool
	for _, p := range c.Params {
		params = append(params, g.mapper.CDecl(p))
		names = append(names, g.mapper.ParamName(p, false))
		derefs = append(derefs, p.Type.Kind == cppast.TypeLValueRef)
	}
	if c.Variadic {
		params = append(params, "...")
	}
	if firstArg != "" {
		params = append([]string{firstArg}, params...)
	}

	resType := c.Result.Spelling
	if host {
		effective := c.Result.CanonicalOrSelf()
		switch {
		case g.isVec2(effective.Spelling):
			resType = g.cfg.Vec2POD
		case g.isVec4(effective.Spelling):
			resType = g.cfg.Vec4POD
		}
	}
	// Same flattening CDecl applies to parameters: stars hug the type name
	// and reference results degrade to pointers.
	resType = strings.ReplaceAll(resType, " &", "*")
	resType = strings.ReplaceAll(resType, " *", "*")
	returnKw := "return "
	if resType == "void" {
		returnKw = ""
	}

	return signatureInfo{
		Signature:  resType + " " + prefix + emittedName(c, g.renames) + "(" + strings.Join(params, ", ") + ")",
		ReturnKw:   returnKw,
		ParamNames: names,
		Derefs:     derefs,
		Variadic:   c.Variadic,
	}
}

// cvmFunction emits one declaration line of the FFI header.
func (g *Generator) cvmFunction(c *cppast.Cursor, prefix, firstArg string) string {
	return g.cSignature(c, prefix, firstArg, false).Signature + ";\n"
}

// hostFunction emits one exported C++ function bridging the flat ABI to the
// original call. The exported symbol carries the renamed spelling while the
// body calls the original C++ name, so overload resolution still happens in
// C++. Variadic functions forward through the library's va_list variant
// ("V" suffix). By-value vector results are copied field by field into the
// POD mirror because the FFI cannot return a C++ class type.
func (g *Generator) hostFunction(c *cppast.Cursor, prefix, callPrefix, firstArgName, firstArgType string) string {
	firstArg := ""
	if firstArgName != "" && firstArgType != "" {
		firstArg = firstArgType + "* " + firstArgName
	}
	sig := g.cSignature(c, prefix, firstArg, true)

	var b strings.Builder
	b.WriteString(g.cfg.ExportMacro + " " + sig.Signature + " {\n")

	appendix := ""
	names := sig.ParamNames
	derefs := sig.Derefs
	if sig.Variadic && len(names) > 0 {
		appendix = "V"
		b.WriteString("  va_list args;\n")
		fmt.Fprintf(&b, "  va_start(args, %s);\n", names[len(names)-1])
		names = append(names, "args")
		derefs = append(derefs, false)
	}

	args := make([]string, len(names))
	for i, n := range names {
		if derefs[i] {
			args[i] = "*" + n
		} else {
			args[i] = n
		}
	}
	call := callPrefix + c.Name + appendix + "(" + strings.Join(args, ", ") + ")"

	effective := c.Result.CanonicalOrSelf()
	switch {
	case g.isVec2(effective.Spelling):
		fmt.Fprintf(&b, "  const %s& res_cxx = %s;\n", g.cfg.Vec2Types[0], call)
		fmt.Fprintf(&b, "  %s res_c = {res_cxx.x, res_cxx.y};\n", g.cfg.Vec2POD)
		g.writeVaEnd(&b, sig.Variadic)
		b.WriteString("  return res_c;\n")
	case g.isVec4(effective.Spelling):
		fmt.Fprintf(&b, "  const %s& res_cxx = %s;\n", g.cfg.Vec4Types[0], call)
		fmt.Fprintf(&b, "  %s res_c = {res_cxx.x, res_cxx.y, res_cxx.z, res_cxx.w};\n", g.cfg.Vec4POD)
		g.writeVaEnd(&b, sig.Variadic)
		b.WriteString("  return res_c;\n")
	default:
		if sig.Variadic && sig.ReturnKw != "" {
			fmt.Fprintf(&b, "  auto res_cxx = %s;\n", call)
			b.WriteString("  va_end(args);\n")
			b.WriteString("  return res_cxx;\n")
		} else {
			b.WriteString("  " + sig.ReturnKw + call + ";\n")
			g.writeVaEnd(&b, sig.Variadic)
		}
	}
	b.WriteString("}\n\n")
	return b.String()
}

func (g *Generator) writeVaEnd(b *strings.Builder, variadic bool) {
	if variadic {
		b.WriteString("  va_end(args);\n")
	}
}

// luaFunction emits one Lua wrapper. Defaulted parameters get nil guards
// that substitute the C++ default, pointer parameters without a default get
// a logged nil rejection, and the call forwards to the FFI symbol.
func (g *Generator) luaFunction(c *cppast.Cursor, prefixLua, prefixC, firstArg string) string {
	name := emittedName(c, g.renames)

	type ptrCheck struct {
		name string
		typ  string
	}
	var params []string
	var ptrChecks []ptrCheck
	for _, p := range c.Params {
		pn := g.mapper.ParamName(p, true)
		params = append(params, pn)
		if strings.Contains(p.Type.Spelling, "*") {
			ptrChecks = append(ptrChecks, ptrCheck{name: pn, typ: p.Type.Spelling})
		}
	}
	if firstArg != "" {
		params = append([]string{firstArg}, params...)
	}
	if c.Variadic {
		params = append(params, "...")
	}

	opts := optionalArgs(g.mapper, g.unit, c)
	optSet := make(map[string]struct{}, len(opts))
	for _, o := range opts {
		optSet[o.Name] = struct{}{}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "function M.%s%s(%s) ", prefixLua, name, strings.Join(params, ", "))

	multiline := false
	if len(opts) > 0 {
		multiline = true
		b.WriteString("\n")
		for _, o := range opts {
			if o.Value == "nil" {
				fmt.Fprintf(&b, "  -- %s is optional and can be nil\n", o.Name)
			} else {
				fmt.Fprintf(&b, "  if %s == nil then %s = %s end\n", o.Name, o.Name, o.Value)
			}
		}
	}
	if len(ptrChecks) > 0 {
		if !multiline {
			b.WriteString("\n")
		}
		multiline = true
		for _, pc := range ptrChecks {
			if _, optional := optSet[pc.name]; optional {
				continue
			}
			fmt.Fprintf(&b, "  if %s == nil then log(\"E\", \"\", \"Parameter '%s' of function '%s' cannot be nil, as the c type is '%s'\") ; return end\n",
				pc.name, pc.name, name, pc.typ)
		}
	}

	if multiline {
		b.WriteString("  ")
	}
	if c.Result.Spelling != "void" {
		b.WriteString("return ")
	}
	fmt.Fprintf(&b, "C.%s%s(%s)", prefixC, name, strings.Join(params, ", "))
	if multiline {
		b.WriteString("\nend\n")
	} else {
		b.WriteString(" end\n")
	}
	return b.String()
}

func (g *Generator) isVec2(spelling string) bool {
	return containsString(g.cfg.Vec2Types, spelling)
}

func (g *Generator) isVec4(spelling string) bool {
	return containsString(g.cfg.Vec4Types, spelling)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
