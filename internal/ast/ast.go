// Package ast is a small toolkit of pure functions over graphql-go's
// query-side AST (language/ast): building and cloning selection sets,
// rewriting type conditions, adding variable definitions and field
// selections without colliding with what is already there, and flattening
// a response path into a slice. No function here maps a response path
// back to the selection nodes that produced it.
//
// Every function here returns new nodes; none mutates its input. Callers
// are free to reuse unrelated subtrees by reference.
package ast

import (
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/kinds"
)

// CreateFieldNode returns a minimal field selection with no arguments,
// directives, or sub-selection: `name`.
func CreateFieldNode(name string) *ast.Field {
	return &ast.Field{
		Name: ast.NewName(&ast.Name{Value: name}),
		Kind: kinds.Field,
	}
}

// CreateSelectionChain wraps innerSelectionSet in nested field nodes,
// one per entry of outerFieldNames, outermost first, and returns the
// outermost SelectionSet. An empty outerFieldNames returns
// innerSelectionSet unchanged.
func CreateSelectionChain(outerFieldNames []string, innerSelectionSet *ast.SelectionSet) *ast.SelectionSet {
	if len(outerFieldNames) == 0 {
		return innerSelectionSet
	}
	current := innerSelectionSet
	for i := len(outerFieldNames) - 1; i >= 0; i-- {
		field := CreateFieldNode(outerFieldNames[i])
		field.SelectionSet = current
		current = &ast.SelectionSet{
			Kind:       kinds.SelectionSet,
			Selections: []ast.Selection{field},
		}
	}
	return current
}
