package cppast

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// typeRegistry indexes every record, enum and typedef name in the header so
// type spellings can be classified by shape and typedef chains resolved to
// their terminal type. It is filled in a pre-pass over the raw syntax tree,
// templates included, before any cursor is built.
type typeRegistry struct {
	structs  map[string]struct{}
	enums    map[string]struct{}
	typedefs map[string]string
	resolved map[string]*Type
}

func newTypeRegistry(root *sitter.Node, src []byte) *typeRegistry {
	r := &typeRegistry{
		structs:  make(map[string]struct{}),
		enums:    make(map[string]struct{}),
		typedefs: make(map[string]string),
		resolved: make(map[string]*Type),
	}
	r.collect(root, src)
	return r
}

func (r *typeRegistry) collect(n *sitter.Node, src []byte) {
	switch n.Kind() {
	case "struct_specifier", "class_specifier", "union_specifier":
		if name := nodeFieldText(n, "name", src); name != "" {
			r.structs[name] = struct{}{}
		}
	case "enum_specifier":
		if name := nodeFieldText(n, "name", src); name != "" {
			r.enums[name] = struct{}{}
		}
	case "type_definition":
		r.collectTypedef(n, src)
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		r.collect(n.Child(i), src)
	}
}

func (r *typeRegistry) collectTypedef(n *sitter.Node, src []byte) {
	decl := n.ChildByFieldName("declarator")
	ident := innerDeclIdent(decl)
	if ident == nil {
		return
	}
	name := string(src[ident.StartByte():ident.EndByte()])
	underlying := normalizeTypeSpelling(
		string(src[n.StartByte():ident.StartByte()]) + " " + string(src[ident.EndByte():decl.EndByte()]))
	if name != "" && underlying != "" {
		r.typedefs[name] = underlying
	}
}

func nodeFieldText(n *sitter.Node, field string, src []byte) string {
	f := n.ChildByFieldName(field)
	if f == nil {
		return ""
	}
	return string(src[f.StartByte():f.EndByte()])
}

// typeFor builds a classified Type from a normalized spelling. Typedef
// spellings get their canonical resolution attached.
func (r *typeRegistry) typeFor(spelling string) Type {
	s := strings.TrimSpace(spelling)
	if s == "" {
		return Type{Kind: TypeInvalid}
	}
	t := Type{Kind: r.classify(s), Spelling: s}
	if t.Kind == TypeTypedef {
		t.Canonical = r.canonical(typeBaseName(s))
	}
	return t
}

func (r *typeRegistry) classify(s string) TypeKind {
	switch {
	case strings.HasSuffix(s, "&"):
		return TypeLValueRef
	case strings.Contains(s, "(*"):
		return TypePointer
	case strings.Contains(s, "["):
		return TypeConstantArray
	case strings.HasSuffix(s, "*"):
		return TypePointer
	}
	base := typeBaseName(s)
	if kind, ok := builtinTypeKinds[base]; ok {
		return kind
	}
	if strings.Contains(s, "<") {
		return TypeRecord
	}
	if _, ok := r.structs[base]; ok {
		return TypeRecord
	}
	if _, ok := r.enums[base]; ok {
		return TypeEnum
	}
	if _, ok := r.typedefs[base]; ok {
		return TypeTypedef
	}
	return TypeUnexposed
}

// canonical resolves a typedef name to its terminal type, following chains
// such as ImGuiID -> unsigned int. Results are memoized per name.
func (r *typeRegistry) canonical(name string) *Type {
	if t, ok := r.resolved[name]; ok {
		return t
	}
	t := r.resolveChain(name, 0)
	r.resolved[name] = t
	return t
}

func (r *typeRegistry) resolveChain(name string, depth int) *Type {
	underlying, ok := r.typedefs[name]
	if !ok || depth > 16 {
		return &Type{Kind: TypeUnexposed, Spelling: name}
	}
	kind := r.classify(underlying)
	if kind == TypeTypedef {
		return r.resolveChain(typeBaseName(underlying), depth+1)
	}
	return &Type{Kind: kind, Spelling: underlying}
}

// typeBaseName reduces a spelling to its bare type name: pointer, reference,
// array and function suffixes drop, as do qualifier and elaboration words.
func typeBaseName(s string) string {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '&', '[', '(', '<':
			s = s[:i]
			i = len(s)
		}
	}
	fields := strings.Fields(s)
	kept := fields[:0]
	for _, f := range fields {
		switch f {
		case "const", "volatile", "struct", "class", "union", "enum":
		default:
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}

var builtinTypeKinds = map[string]TypeKind{
	"void":   TypeVoid,
	"bool":   TypeBool,
	"float":  TypeFloat,
	"double": TypeDouble,

	"char":          TypeInt,
	"signed char":   TypeInt,
	"wchar_t":       TypeInt,
	"short":         TypeInt,
	"short int":     TypeInt,
	"int":           TypeInt,
	"signed":        TypeInt,
	"signed int":    TypeInt,
	"long":          TypeInt,
	"long int":      TypeInt,
	"long long":     TypeInt,
	"long long int": TypeInt,
	"ptrdiff_t":     TypeInt,

	"unsigned char":      TypeUInt,
	"unsigned short":     TypeUInt,
	"unsigned":           TypeUInt,
	"unsigned int":       TypeUInt,
	"unsigned long":      TypeUInt,
	"unsigned long long": TypeUInt,
	"size_t":             TypeUInt,

	"long double": TypeDouble,
}
