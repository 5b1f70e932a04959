package cppast

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// builder converts the raw syntax tree into the declaration tree. All text
// is sliced from the preprocessed buffer, so spellings never contain macro
// annotations or inactive regions.
type builder struct {
	path string
	src  []byte
	reg  *typeRegistry
}

func newBuilder(path string, src []byte) *builder {
	return &builder{path: path, src: src}
}

func (b *builder) build(root *sitter.Node) *Cursor {
	b.reg = newTypeRegistry(root, b.src)
	tu := &Cursor{
		Kind:   KindTranslationUnit,
		Name:   b.path,
		USR:    "c:",
		Extent: b.extent(root),
	}
	tu.Children = b.buildScope(root, nil)
	return tu
}

func (b *builder) buildScope(n *sitter.Node, scope []scopeEntry) []*Cursor {
	var out []*Cursor
	for i := uint(0); i < n.ChildCount(); i++ {
		out = append(out, b.buildDeclaration(n.Child(i), scope, "")...)
	}
	return out
}

// buildDeclaration dispatches one syntax node to a cursor builder. The
// structName is non-empty when building struct members, which turns
// function-like declarations into methods and constructors. Multi-declarator
// fields expand to one cursor each, hence the slice result.
func (b *builder) buildDeclaration(n *sitter.Node, scope []scopeEntry, structName string) []*Cursor {
	switch n.Kind() {
	case "comment", ";", ",", "{", "}", "access_specifier", "friend_declaration":
		return nil
	case "namespace_definition":
		return one(b.buildNamespace(n, scope))
	case "struct_specifier", "class_specifier":
		return one(b.buildRecord(n, scope, KindStruct))
	case "union_specifier":
		return one(b.buildRecord(n, scope, KindUnion))
	case "enum_specifier":
		return one(b.buildEnum(n, scope))
	case "type_definition":
		return one(b.buildTypedef(n, scope))
	case "template_declaration":
		return one(b.buildTemplate(n, scope))
	case "function_definition", "declaration":
		if fd := functionDeclaratorOf(n); fd != nil {
			return one(b.buildFunctionLike(n, fd, scope, structName))
		}
		return one(b.unknownCursor(n))
	case "field_declaration":
		if fd := functionDeclaratorOf(n); fd != nil {
			return one(b.buildFunctionLike(n, fd, scope, structName))
		}
		if nested := anonymousNestedRecord(n); nested != nil {
			kind := KindStruct
			if nested.Kind() == "union_specifier" {
				kind = KindUnion
			}
			return one(b.buildRecord(nested, scope, kind))
		}
		return b.buildFields(n, scope)
	default:
		return one(b.unknownCursor(n))
	}
}

func one(c *Cursor) []*Cursor {
	if c == nil {
		return nil
	}
	return []*Cursor{c}
}

// unknownCursor wraps syntax the generator has no mapping for. The node kind
// lands in Name so traversal logs say what was encountered.
func (b *builder) unknownCursor(n *sitter.Node) *Cursor {
	return &Cursor{Kind: KindUnknown, Name: n.Kind(), Extent: b.extent(n)}
}

func (b *builder) buildNamespace(n *sitter.Node, scope []scopeEntry) *Cursor {
	name := b.text(n.ChildByFieldName("name"))
	cur := &Cursor{
		Kind:   KindNamespace,
		Name:   name,
		USR:    taggedUSR(scope, "N", name),
		Extent: b.extent(n),
	}
	if body := n.ChildByFieldName("body"); body != nil {
		cur.Children = b.buildScope(body, appendScope(scope, "N", name))
	}
	return cur
}

func (b *builder) buildRecord(n *sitter.Node, scope []scopeEntry, kind CursorKind) *Cursor {
	name := b.text(n.ChildByFieldName("name"))
	cur := &Cursor{
		Kind:   kind,
		Name:   name,
		USR:    taggedUSR(scope, "S", name),
		Type:   Type{Kind: TypeRecord, Spelling: name},
		Extent: b.extent(n),
	}
	body := n.ChildByFieldName("body")
	if body == nil {
		return cur
	}
	cur.Definition = true
	inner := appendScope(scope, "S", name)
	for i := uint(0); i < body.ChildCount(); i++ {
		cur.Children = append(cur.Children, b.buildDeclaration(body.Child(i), inner, name)...)
	}
	return cur
}

func (b *builder) buildEnum(n *sitter.Node, scope []scopeEntry) *Cursor {
	name := b.text(n.ChildByFieldName("name"))
	underlying := "int"
	if base := n.ChildByFieldName("base"); base != nil {
		underlying = normalizeTypeSpelling(b.text(base))
	}
	cur := &Cursor{
		Kind:       KindEnum,
		Name:       name,
		USR:        taggedUSR(scope, "E", name),
		Type:       Type{Kind: TypeEnum, Spelling: name},
		Underlying: b.reg.typeFor(underlying).CanonicalOrSelf(),
		Extent:     b.extent(n),
	}
	body := n.ChildByFieldName("body")
	if body == nil {
		return cur
	}
	cur.Definition = true
	for i := uint(0); i < body.ChildCount(); i++ {
		ch := body.Child(i)
		if ch.Kind() != "enumerator" {
			continue
		}
		constant := &Cursor{
			Kind:   KindEnumConstant,
			Name:   b.text(ch.ChildByFieldName("name")),
			Extent: b.extent(ch),
		}
		constant.USR = cur.USR + "@" + constant.Name
		if value := ch.ChildByFieldName("value"); value != nil {
			constant.Children = append(constant.Children, &Cursor{
				Kind:   KindUnknown,
				Extent: b.extent(value),
			})
		}
		cur.Children = append(cur.Children, constant)
	}
	return cur
}

func (b *builder) buildTypedef(n *sitter.Node, scope []scopeEntry) *Cursor {
	decl := n.ChildByFieldName("declarator")
	ident := innerDeclIdent(decl)
	name := b.text(ident)
	return &Cursor{
		Kind:   KindTypedef,
		Name:   name,
		USR:    taggedUSR(scope, "T", name),
		Type:   b.reg.typeFor(name),
		Extent: b.extent(n),
	}
}

func (b *builder) buildTemplate(n *sitter.Node, scope []scopeEntry) *Cursor {
	kind := KindClassTemplate
	name := ""
	for i := uint(0); i < n.NamedChildCount(); i++ {
		ch := n.NamedChild(i)
		switch ch.Kind() {
		case "struct_specifier", "class_specifier", "union_specifier":
			name = b.text(ch.ChildByFieldName("name"))
		case "function_definition", "declaration", "field_declaration":
			kind = KindFunctionTemplate
			if fd := functionDeclaratorOf(ch); fd != nil {
				if id := innerDeclIdent(fd); id != nil {
					name = b.text(id)
				}
			}
		}
	}
	return &Cursor{
		Kind:   kind,
		Name:   name,
		USR:    taggedUSR(scope, "ST", name),
		Extent: b.extent(n),
	}
}

func (b *builder) buildFunctionLike(n, fd *sitter.Node, scope []scopeEntry, structName string) *Cursor {
	nameNode := fd.ChildByFieldName("declarator")
	if nameNode == nil {
		return b.unknownCursor(n)
	}
	var name string
	switch nameNode.Kind() {
	case "identifier", "field_identifier", "type_identifier":
		name = b.text(nameNode)
	default:
		// operator_name, operator_cast, destructor_name, qualified_identifier
		name = normalizeWS(b.text(nameNode))
	}
	if name == "" || strings.HasPrefix(name, "~") {
		return b.unknownCursor(n)
	}

	params, paramSpellings, variadic := b.buildParams(fd)

	resultSpelling := normalizeTypeSpelling(string(b.src[n.StartByte():fd.StartByte()]))

	cur := &Cursor{
		Name:       name,
		USR:        functionUSR(scope, name, paramSpellings, variadic),
		Variadic:   variadic,
		Definition: n.Kind() == "function_definition",
		Extent:     b.extent(n),
		Params:     params,
	}
	switch {
	case structName != "" && name == structName && resultSpelling == "":
		cur.Kind = KindConstructor
		cur.Result = Type{Kind: TypeVoid, Spelling: "void"}
	case structName != "":
		cur.Kind = KindMethod
		cur.Result = b.reg.typeFor(resultSpelling)
	case resultSpelling == "":
		return b.unknownCursor(n)
	default:
		cur.Kind = KindFunction
		cur.Result = b.reg.typeFor(resultSpelling)
	}

	collectTokens(n, b.src, &cur.tokens)
	return cur
}

func (b *builder) buildParams(fd *sitter.Node) ([]*Cursor, []string, bool) {
	list := fd.ChildByFieldName("parameters")
	if list == nil {
		return nil, nil, false
	}
	var params []*Cursor
	var spellings []string
	variadic := false
	for i := uint(0); i < list.ChildCount(); i++ {
		ch := list.Child(i)
		switch ch.Kind() {
		case "parameter_declaration", "optional_parameter_declaration":
			p := b.buildParam(ch)
			if p == nil {
				continue
			}
			params = append(params, p)
			spellings = append(spellings, p.Type.Spelling)
		default:
			if strings.TrimSpace(b.text(ch)) == "..." {
				variadic = true
			}
		}
	}
	if len(params) == 1 && params[0].Name == "" && params[0].Type.Spelling == "void" {
		return nil, nil, variadic
	}
	return params, spellings, variadic
}

func (b *builder) buildParam(n *sitter.Node) *Cursor {
	typeNode := n.ChildByFieldName("type")
	if typeNode == nil {
		return nil
	}
	decl := n.ChildByFieldName("declarator")
	ident := innerDeclIdent(decl)

	var spelling string
	switch {
	case decl == nil:
		spelling = normalizeTypeSpelling(string(b.src[n.StartByte():typeNode.EndByte()]))
	case ident == nil:
		spelling = normalizeTypeSpelling(string(b.src[n.StartByte():decl.EndByte()]))
	default:
		spelling = normalizeTypeSpelling(
			string(b.src[n.StartByte():ident.StartByte()]) + " " + string(b.src[ident.EndByte():decl.EndByte()]))
	}

	return &Cursor{
		Kind:   KindParam,
		Name:   b.text(ident),
		Type:   b.reg.typeFor(spelling),
		Extent: b.extent(n),
	}
}

// buildFields expands a field declaration into one cursor per declarator,
// so "float x, y;" yields two fields sharing the type spelling.
func (b *builder) buildFields(n *sitter.Node, scope []scopeEntry) []*Cursor {
	typeNode := n.ChildByFieldName("type")
	if typeNode == nil || typeNode.ChildByFieldName("body") != nil {
		return one(b.unknownCursor(n))
	}
	typeText := string(b.src[n.StartByte():typeNode.EndByte()])

	var out []*Cursor
	for i := uint(0); i < n.ChildCount(); i++ {
		d := n.Child(i)
		if _, ok := declaratorNodeKinds[d.Kind()]; !ok {
			continue
		}
		ident := innerDeclIdent(d)
		if ident == nil {
			continue
		}
		residue := string(b.src[d.StartByte():ident.StartByte()]) + " " + string(b.src[ident.EndByte():d.EndByte()])
		spelling := normalizeTypeSpelling(typeText + " " + residue)
		name := b.text(ident)
		out = append(out, &Cursor{
			Kind:   KindField,
			Name:   name,
			USR:    taggedUSR(scope, "FI", name),
			Type:   b.reg.typeFor(spelling),
			Extent: b.extent(n),
		})
	}
	if len(out) == 0 {
		return one(b.unknownCursor(n))
	}
	return out
}

func (b *builder) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(b.src[n.StartByte():n.EndByte()])
}

func (b *builder) extent(n *sitter.Node) Extent {
	start, end := n.StartPosition(), n.EndPosition()
	return Extent{
		File:      b.path,
		StartByte: n.StartByte(),
		EndByte:   n.EndByte(),
		StartLine: int(start.Row) + 1,
		StartCol:  int(start.Column) + 1,
		EndLine:   int(end.Row) + 1,
		EndCol:    int(end.Column) + 1,
	}
}

func appendScope(scope []scopeEntry, tag, name string) []scopeEntry {
	out := make([]scopeEntry, len(scope), len(scope)+1)
	copy(out, scope)
	return append(out, scopeEntry{tag: tag, name: name})
}

var declaratorNodeKinds = map[string]struct{}{
	"identifier":               {},
	"field_identifier":         {},
	"pointer_declarator":       {},
	"reference_declarator":     {},
	"array_declarator":         {},
	"function_declarator":      {},
	"parenthesized_declarator": {},
	"init_declarator":          {},
}

// functionDeclaratorOf finds the function declarator of a declaration,
// walking through pointer and reference wraps for pointer-returning
// functions. Pointer-to-function variables, whose inner declarator sits in
// parentheses, are not functions and yield nil.
func functionDeclaratorOf(n *sitter.Node) *sitter.Node {
	d := n.ChildByFieldName("declarator")
	for d != nil {
		switch d.Kind() {
		case "pointer_declarator", "reference_declarator":
			d = declaratorChild(d)
		case "function_declarator":
			if inner := declaratorChild(d); inner != nil && inner.Kind() == "parenthesized_declarator" {
				return nil
			}
			return d
		default:
			return nil
		}
	}
	return nil
}

// declaratorChild returns the nested declarator of a wrapping declarator
// node. Reference declarators carry no field name for it, so the named
// children are scanned as a fallback.
func declaratorChild(n *sitter.Node) *sitter.Node {
	if d := n.ChildByFieldName("declarator"); d != nil {
		return d
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		ch := n.NamedChild(i)
		if _, ok := declaratorNodeKinds[ch.Kind()]; ok {
			return ch
		}
	}
	return nil
}

// innerDeclIdent digs through declarator wraps to the declared identifier.
func innerDeclIdent(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case "identifier", "field_identifier", "type_identifier", "operator_name", "destructor_name":
		return n
	}
	if d := n.ChildByFieldName("declarator"); d != nil {
		if r := innerDeclIdent(d); r != nil {
			return r
		}
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if r := innerDeclIdent(n.NamedChild(i)); r != nil {
			return r
		}
	}
	return nil
}

// anonymousNestedRecord detects "struct { ... };" and "union { ... };"
// members, whose record type carries a body but no declarator names a field.
func anonymousNestedRecord(n *sitter.Node) *sitter.Node {
	t := n.ChildByFieldName("type")
	if t == nil {
		return nil
	}
	switch t.Kind() {
	case "struct_specifier", "class_specifier", "union_specifier":
	default:
		return nil
	}
	if t.ChildByFieldName("body") == nil {
		return nil
	}
	if n.ChildByFieldName("declarator") != nil {
		return nil
	}
	return t
}
