package ast

import (
	"fmt"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/kinds"
)

// Fragments is the subset of ResolveInfo.Fragments this package needs:
// fragment name to its definition.
type Fragments map[string]*ast.FragmentDefinition

// outputKey returns the response key a field selection would occupy:
// its alias if aliased, otherwise its name. Non-field selections have no
// output key.
func outputKey(f *ast.Field) string {
	if f.Alias != nil && f.Alias.Value != "" {
		return f.Alias.Value
	}
	return f.Name.Value
}

// walkFields calls visit for every Field selection reachable from set,
// including through FragmentSpreads (resolved via fragments) and
// InlineFragments, without descending into a field's own sub-selection.
func walkFields(set *ast.SelectionSet, fragments Fragments, visit func(*ast.Field)) {
	if set == nil {
		return
	}
	for _, sel := range set.Selections {
		switch s := sel.(type) {
		case *ast.Field:
			visit(s)
		case *ast.FragmentSpread:
			if frag, ok := fragments[s.Name.Value]; ok && frag != nil {
				walkFields(frag.SelectionSet, fragments, visit)
			}
		case *ast.InlineFragment:
			walkFields(s.SelectionSet, fragments, visit)
		}
	}
}

// AddFieldSelectionSafely returns the output key fieldName already
// occupies in selectionSet (searched through fragments too), or appends
// a new, non-aliased-colliding selection of fieldName and returns its
// alias. selectionSet is never mutated; the returned SelectionSet is a
// new value sharing unrelated subtrees by reference.
func AddFieldSelectionSafely(selectionSet *ast.SelectionSet, fieldName string, fragments Fragments) (alias string, newSet *ast.SelectionSet) {
	usedKeys := map[string]bool{}
	found := ""
	walkFields(selectionSet, fragments, func(f *ast.Field) {
		key := outputKey(f)
		usedKeys[key] = true
		if found == "" && f.Alias == nil && f.Name.Value == fieldName {
			found = key
		}
	})
	if found != "" {
		return found, selectionSet
	}

	alias = fieldName
	for n := 2; usedKeys[alias]; n++ {
		alias = fmt.Sprintf("%s%d", fieldName, n)
	}

	field := CreateFieldNode(fieldName)
	if alias != fieldName {
		field.Alias = ast.NewName(&ast.Name{Value: alias})
	}

	newSet = cloneSelectionSetShallow(selectionSet)
	newSet.Selections = append(append([]ast.Selection{}, newSet.Selections...), field)
	return alias, newSet
}

func cloneSelectionSetShallow(set *ast.SelectionSet) *ast.SelectionSet {
	if set == nil {
		return &ast.SelectionSet{Kind: kinds.SelectionSet}
	}
	return &ast.SelectionSet{
		Kind:       kinds.SelectionSet,
		Selections: append([]ast.Selection{}, set.Selections...),
	}
}

// HasFragmentReference reports whether set directly contains a
// FragmentSpread or InlineFragment (not recursing into nested selection
// sets), which is the condition under which an unaliased __typename must
// be injected: every selection set with a fragment reference gets a
// __typename sibling, so an abstract result can still be resolved to its
// concrete type after rewriting.
func HasFragmentReference(set *ast.SelectionSet) bool {
	if set == nil {
		return false
	}
	for _, sel := range set.Selections {
		switch sel.(type) {
		case *ast.FragmentSpread, *ast.InlineFragment:
			return true
		}
	}
	return false
}

// HasUnaliasedTypename reports whether set already selects __typename
// without an alias.
func HasUnaliasedTypename(set *ast.SelectionSet) bool {
	if set == nil {
		return false
	}
	for _, sel := range set.Selections {
		if f, ok := sel.(*ast.Field); ok && f.Alias == nil && f.Name.Value == "__typename" {
			return true
		}
	}
	return false
}

// FindField returns the first Field selection in set (searched through
// fragments too) whose output key equals key, or nil.
func FindField(set *ast.SelectionSet, key string, fragments Fragments) *ast.Field {
	var found *ast.Field
	walkFields(set, fragments, func(f *ast.Field) {
		if found == nil && outputKey(f) == key {
			found = f
		}
	})
	return found
}

// AddTypenameSelection returns a new SelectionSet with an unaliased
// __typename field appended, unless one is already present.
func AddTypenameSelection(set *ast.SelectionSet) *ast.SelectionSet {
	if HasUnaliasedTypename(set) {
		return set
	}
	newSet := cloneSelectionSetShallow(set)
	newSet.Selections = append(newSet.Selections, CreateFieldNode("__typename"))
	return newSet
}
