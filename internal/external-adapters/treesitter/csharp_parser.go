// Package treesitter adapts tree-sitter grammars to the domain syntax tree.
package treesitter

import (
	"context"

	"github.com/cockroachdb/errors"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"

	"github.com/ochairo/netport/internal/domain/entities"
)

// nameNodeTypes are the grammar node types that can be a using target
var nameNodeTypes = map[string]bool{
	"identifier":           true,
	"qualified_name":       true,
	"generic_name":         true,
	"alias_qualified_name": true,
}

// CSharpParser parses C# source into import and member-access nodes.
// A fresh sitter.Parser is created per call, so one CSharpParser can be
// shared by concurrent scans.
type CSharpParser struct {
	language *sitter.Language
}

// NewCSharpParser creates a new C# parser
func NewCSharpParser() *CSharpParser {
	return &CSharpParser{language: csharp.GetLanguage()}
}

// Parse returns the using directives and member-access expressions of
// source in pre-order. Trees containing syntax errors are still walked.
func (p *CSharpParser) Parse(ctx context.Context, source []byte) (*entities.SyntaxTree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(p.language)

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "tree-sitter parse failed"), entities.ErrParse)
	}
	defer tree.Close()

	result := &entities.SyntaxTree{Nodes: make([]entities.SyntaxNode, 0)}
	p.walk(tree.RootNode(), source, result)
	return result, nil
}

// walk visits named nodes depth-first, parents before children
func (p *CSharpParser) walk(node *sitter.Node, source []byte, tree *entities.SyntaxTree) {
	switch node.Type() {
	case "using_directive":
		if target := usingTarget(node); target != nil {
			tree.Nodes = append(tree.Nodes, entities.SyntaxNode{
				Kind: entities.ImportDirective,
				Text: target.Content(source),
				Line: int(node.StartPoint().Row) + 1,
			})
		}
		return

	case "member_access_expression":
		tree.Nodes = append(tree.Nodes, entities.SyntaxNode{
			Kind: entities.MemberAccess,
			Text: node.Content(source),
			Line: int(node.StartPoint().Row) + 1,
		})
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		p.walk(node.NamedChild(i), source, tree)
	}
}

// usingTarget returns the imported name. For "using X = A.B;" the alias
// comes first, so the last name-typed child is the target.
func usingTarget(node *sitter.Node) *sitter.Node {
	var target *sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if nameNodeTypes[child.Type()] {
			target = child
		}
	}
	return target
}
