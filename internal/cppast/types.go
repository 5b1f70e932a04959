package cppast

// Type describes a C/C++ type the way it is spelled in source, normalized to
// one space between words and libclang-style pointer placement ("const char
// *", "ImVec2 &", "void (*)(void *)", "float [2]").
type Type struct {
	Kind     TypeKind
	Spelling string
	// Canonical is the fully typedef-resolved type. Set only when Kind is
	// TypeTypedef; resolution follows typedef chains to the terminal type.
	Canonical *Type
}

// CanonicalOrSelf returns the typedef-resolved type, or the type itself when
// it is not a typedef.
func (t Type) CanonicalOrSelf() Type {
	if t.Kind == TypeTypedef && t.Canonical != nil {
		return *t.Canonical
	}
	return t
}

// Extent locates a declaration in the preprocessed source. Lines and columns
// are 1-based; EndCol points one past the last character.
type Extent struct {
	File      string
	StartByte uint
	EndByte   uint
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}
