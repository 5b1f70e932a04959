package gen

import (
	"strings"

	"github.com/hexaforge/imwrap/internal/cppast"
)

// optionalArg is one defaulted parameter: its Lua-side typed name and the
// Lua rendering of the default expression.
type optionalArg struct {
	Name  string
	Value string
}

// optionalArgs recovers default arguments from a function's token stream.
// For each parameter the stream is scanned for the parameter name followed
// by '=', then tokens concatenate until a ',' or ')' at nesting depth zero
// ends the expression, so constructor calls like ImVec2(0,0) survive whole.
// Only the first match per parameter counts, and results keep declaration
// order so emitted guards line up with the signature.
func optionalArgs(m *Mapper, u *cppast.Unit, fn *cppast.Cursor) []optionalArg {
	tokens := u.Tokens(fn)
	var out []optionalArg
	for _, p := range fn.Params {
		if p.Name == "" {
			continue
		}
		raw, ok := defaultExpr(tokens, p.Name)
		if !ok {
			continue
		}
		out = append(out, optionalArg{
			Name:  m.ParamName(p, true),
			Value: m.Value(p.Type, raw),
		})
	}
	return out
}

func defaultExpr(tokens []cppast.Token, param string) (string, bool) {
	for i := 0; i < len(tokens)-3; i++ {
		if tokens[i].Kind != cppast.TokenIdentifier || tokens[i].Spelling != param {
			continue
		}
		j := i + 1
		if tokens[j].Spelling != "=" || j >= len(tokens)-2 {
			continue
		}
		j++
		var expr strings.Builder
		depth := 0
		for ; j < len(tokens)-1; j++ {
			s := tokens[j].Spelling
			if s == "(" {
				depth++
			} else if s == ")" {
				if depth <= 0 {
					break
				}
				depth--
			} else if s == "," && depth <= 0 {
				break
			}
			expr.WriteString(s)
		}
		return expr.String(), true
	}
	return "", false
}
