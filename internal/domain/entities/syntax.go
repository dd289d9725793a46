package entities

// SyntaxNodeKind is the subset of node kinds the scanner inspects
type SyntaxNodeKind int

const (
	// ImportDirective is a namespace import (a C# using directive)
	ImportDirective SyntaxNodeKind = iota
	// MemberAccess is a member-access expression such as a.b.c
	MemberAccess
)

// SyntaxNode carries the full textual rendering of one node
type SyntaxNode struct {
	Kind SyntaxNodeKind
	Text string
	Line int // 1-based
}

// SyntaxTree is the navigable view of a parsed source file.
// Nodes are listed in pre-order, which is source order with enclosing
// expressions before the expressions they contain.
type SyntaxTree struct {
	Nodes []SyntaxNode
}
