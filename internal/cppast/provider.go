// Package cppast parses C++ library headers into a declaration tree suited
// to binding generation.
//
// The tree deliberately models the small slice of C++ that FFI wrapping
// needs: namespaces, structs with fields, methods and constructors, enums,
// typedefs and free functions. Types are carried as normalized source
// spellings plus a shape classification, because downstream emitters work on
// spellings, not on a full semantic model. Template declarations surface as
// opaque cursors so callers can skip them wholesale.
//
// Headers are preprocessed before parsing: conditional regions are resolved
// against configured defines and annotation macros are blanked, both without
// moving a single byte, so source extents recorded by the parser remain
// valid against the preprocessed buffer.
package cppast

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	sitter "github.com/tree-sitter/go-tree-sitter"
	cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
)

// Cursor is one node of the declaration tree.
type Cursor struct {
	Kind CursorKind
	// Name is the declared identifier. Operator overloads keep their
	// verbatim spelling ("operator==", "operator ImVec4") and anonymous
	// records have an empty name.
	Name string
	// USR is the unified symbol reference identifying this declaration.
	USR string
	// Type is the declared type: the field type for fields, the record
	// type for structs and unions.
	Type Type
	// Result is the return type of functions, methods and constructors.
	Result Type
	// Underlying is the canonical underlying integer type of enums.
	Underlying Type
	// Variadic marks functions declared with a trailing ellipsis.
	Variadic bool
	// Definition is true when the declaration carries a body.
	Definition bool
	Extent     Extent
	// Params holds parameter cursors of function-like declarations.
	Params []*Cursor
	// Children holds nested declarations: struct members, enum constants,
	// namespace contents. Enum constants carrying an explicit value expose
	// it as a single child cursor whose extent covers the expression.
	Children []*Cursor

	tokens []Token
}

// Options configures header preprocessing.
type Options struct {
	// Defines lists macros treated as defined, as NAME or NAME=VALUE.
	Defines []string
	// StripMacros lists annotation macros blanked from declarations.
	StripMacros []string
}

// Unit is a parsed header.
type Unit struct {
	Path string
	Root *Cursor

	src   []byte
	cache *sourceCache
}

var cppLanguage = sitter.NewLanguage(cpp.Language())

// ParseFile reads and parses a header from disk.
func ParseFile(path string, opts Options) (*Unit, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading header %s", path)
	}
	return ParseBytes(path, src, opts)
}

// ParseBytes parses header source. The path is used for extents and error
// messages only.
func ParseBytes(path string, src []byte, opts Options) (*Unit, error) {
	pre := newPreprocessor(opts).run(src)

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(cppLanguage)

	tree := parser.Parse(pre, nil)
	if tree == nil {
		return nil, errors.Newf("parsing %s produced no syntax tree", path)
	}
	defer tree.Close()

	b := newBuilder(path, pre)
	root := b.build(tree.RootNode())

	return &Unit{
		Path:  path,
		Root:  root,
		src:   pre,
		cache: newSourceCache(path, pre),
	}, nil
}

// Content returns the trimmed source text covered by an extent.
func (u *Unit) Content(e Extent) string {
	return u.cache.content(e)
}

// ContentShort returns the first line of an extent's text, truncated for use
// in log messages.
func (u *Unit) ContentShort(e Extent) string {
	text := u.cache.content(e)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	const limit = 100
	if len(text) > limit {
		return text[:limit] + "..."
	}
	return text
}

// Tokens returns the lexical tokens of a function-like cursor, in source
// order. Cursors of other kinds have no token stream.
func (u *Unit) Tokens(c *Cursor) []Token {
	return c.tokens
}
