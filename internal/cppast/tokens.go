package cppast

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// TokenKind classifies lexical tokens of a declaration.
type TokenKind int

const (
	TokenPunctuation TokenKind = iota
	TokenKeyword
	TokenIdentifier
	TokenLiteral
	TokenComment
)

// Token is one lexical token in source order. Spellings carry no surrounding
// whitespace, so concatenating a token run reproduces compact expression text
// such as "ImVec2(0,0)" or "sizeof(float)".
type Token struct {
	Kind     TokenKind
	Spelling string
}

var identifierNodeKinds = map[string]struct{}{
	"identifier":           {},
	"field_identifier":     {},
	"type_identifier":      {},
	"namespace_identifier": {},
	"statement_identifier": {},
	"primitive_type":       {},
}

var literalNodeKinds = map[string]struct{}{
	"number_literal":     {},
	"char_literal":       {},
	"string_content":     {},
	"escape_sequence":    {},
	"true":               {},
	"false":              {},
	"null":               {},
	"nullptr":            {},
	"raw_string_content": {},
}

func isWordToken(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return len(s) > 0
}

func classifyToken(nodeKind, text string) TokenKind {
	if _, ok := identifierNodeKinds[nodeKind]; ok {
		return TokenIdentifier
	}
	if _, ok := literalNodeKinds[nodeKind]; ok {
		return TokenLiteral
	}
	if nodeKind == "comment" {
		return TokenComment
	}
	// Anonymous leaf nodes are their own kind string: keywords for word
	// tokens ("const", "sizeof"), punctuation for everything else.
	if nodeKind == text && isWordToken(text) {
		return TokenKeyword
	}
	return TokenPunctuation
}

// collectTokens appends the leaf tokens of a subtree in source order.
func collectTokens(n *sitter.Node, src []byte, out *[]Token) {
	count := n.ChildCount()
	if count == 0 {
		text := string(src[n.StartByte():n.EndByte()])
		if text == "" {
			return
		}
		*out = append(*out, Token{Kind: classifyToken(n.Kind(), text), Spelling: text})
		return
	}
	for i := uint(0); i < count; i++ {
		collectTokens(n.Child(i), src, out)
	}
}
