package ast

import (
	"fmt"
	"strings"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/kinds"
)

// ErrReservedFieldAlias is returned when a selection aliases a field
// other than __typename to the name __typename.
type ErrReservedFieldAlias struct {
	Alias string
}

func (e *ErrReservedFieldAlias) Error() string {
	return fmt.Sprintf("ast: field aliased to reserved name %q", e.Alias)
}

// Rename maps an old upstream type name to a new (or, for the reverse
// direction, an old) one. Names it doesn't recognize are returned
// unchanged, so Rename can be applied to built-in/abstract-unrelated
// type conditions safely.
type Rename func(name string) string

// RewriteTypeConditions deep-clones set, rewriting every InlineFragment's
// type condition via rename, and injecting an unaliased __typename into
// any selection set (at any depth) that directly contains a fragment
// spread or inline fragment. It rejects a non-__typename field aliased to
// __typename anywhere in the tree with ErrReservedFieldAlias.
//
// set is never mutated; unrelated subtrees are shared by reference.
func RewriteTypeConditions(set *ast.SelectionSet, rename Rename) (*ast.SelectionSet, error) {
	if set == nil {
		return nil, nil
	}
	for _, sel := range set.Selections {
		if f, ok := sel.(*ast.Field); ok && f.Alias != nil && f.Alias.Value == "__typename" && f.Name.Value != "__typename" {
			return nil, &ErrReservedFieldAlias{Alias: f.Name.Value}
		}
	}

	newSelections := make([]ast.Selection, len(set.Selections))
	for i, sel := range set.Selections {
		switch s := sel.(type) {
		case *ast.Field:
			clonedSub, err := RewriteTypeConditions(s.SelectionSet, rename)
			if err != nil {
				return nil, err
			}
			clone := *s
			clone.SelectionSet = clonedSub
			newSelections[i] = &clone
		case *ast.InlineFragment:
			clonedSub, err := RewriteTypeConditions(s.SelectionSet, rename)
			if err != nil {
				return nil, err
			}
			clone := *s
			clone.SelectionSet = clonedSub
			if s.TypeCondition != nil {
				named := *s.TypeCondition
				named.Name = ast.NewName(&ast.Name{Value: rename(s.TypeCondition.Name.Value)})
				clone.TypeCondition = &named
			}
			newSelections[i] = &clone
		default:
			// FragmentSpread: the fragment's own definition is rewritten
			// separately by RewriteFragmentDefinitions; the spread node
			// itself carries no type information to rename.
			newSelections[i] = sel
		}
	}

	result := &ast.SelectionSet{Kind: kinds.SelectionSet, Selections: newSelections}
	if HasFragmentReference(set) {
		result = AddTypenameSelection(result)
	}
	return result, nil
}

// RewriteFragmentDefinitions applies RewriteTypeConditions to each
// fragment's selection set and renames the fragment's own type
// condition, returning new FragmentDefinition values.
func RewriteFragmentDefinitions(defs []*ast.FragmentDefinition, rename Rename) ([]*ast.FragmentDefinition, error) {
	out := make([]*ast.FragmentDefinition, len(defs))
	for i, d := range defs {
		newSet, err := RewriteTypeConditions(d.SelectionSet, rename)
		if err != nil {
			return nil, err
		}
		clone := *d
		clone.SelectionSet = newSet
		if d.TypeCondition != nil {
			named := *d.TypeCondition
			named.Name = ast.NewName(&ast.Name{Value: rename(d.TypeCondition.Name.Value)})
			clone.TypeCondition = &named
		}
		out[i] = &clone
	}
	return out, nil
}

// LinkFieldSuffix is the suffix C5's link installer appends to a
// key field's name to name the synthetic field it attaches for the
// joined value, e.g. "countryCode" -> "countryCode_link".
const LinkFieldSuffix = "_link"

// StripLinkSelections returns a clone of set with every unaliased
// "<field>"+LinkFieldSuffix selection (at any depth, including inside
// inline fragments) removed — upstream never defines that field — and
// replaced by an unaliased selection of the underlying key field, so
// the parent object still carries the value the link needs to join on.
// set is never mutated.
func StripLinkSelections(set *ast.SelectionSet) *ast.SelectionSet {
	if set == nil {
		return nil
	}

	kept := make([]ast.Selection, 0, len(set.Selections))
	var keyFields []string
	for _, sel := range set.Selections {
		switch s := sel.(type) {
		case *ast.Field:
			if s.Alias == nil && strings.HasSuffix(s.Name.Value, LinkFieldSuffix) {
				keyFields = append(keyFields, strings.TrimSuffix(s.Name.Value, LinkFieldSuffix))
				continue
			}
			clone := *s
			clone.SelectionSet = StripLinkSelections(s.SelectionSet)
			kept = append(kept, &clone)
		case *ast.InlineFragment:
			clone := *s
			clone.SelectionSet = StripLinkSelections(s.SelectionSet)
			kept = append(kept, &clone)
		default:
			kept = append(kept, sel)
		}
	}

	result := &ast.SelectionSet{Kind: kinds.SelectionSet, Selections: kept}
	for _, keyField := range keyFields {
		_, result = AddFieldSelectionSafely(result, keyField, nil)
	}
	return result
}

// StripLinkSelectionsInFragments applies StripLinkSelections to each
// fragment definition's own selection set.
func StripLinkSelectionsInFragments(defs []*ast.FragmentDefinition) []*ast.FragmentDefinition {
	out := make([]*ast.FragmentDefinition, len(defs))
	for i, d := range defs {
		clone := *d
		clone.SelectionSet = StripLinkSelections(d.SelectionSet)
		out[i] = &clone
	}
	return out
}

// CollectTransitiveFragments returns, in first-seen order, every
// fragment definition transitively referenced (by name, via fragments)
// from set's FragmentSpreads.
func CollectTransitiveFragments(set *ast.SelectionSet, all Fragments) []*ast.FragmentDefinition {
	seen := map[string]bool{}
	var order []*ast.FragmentDefinition
	var visit func(*ast.SelectionSet)
	visit = func(s *ast.SelectionSet) {
		if s == nil {
			return
		}
		for _, sel := range s.Selections {
			switch n := sel.(type) {
			case *ast.Field:
				visit(n.SelectionSet)
			case *ast.InlineFragment:
				visit(n.SelectionSet)
			case *ast.FragmentSpread:
				name := n.Name.Value
				if seen[name] {
					continue
				}
				seen[name] = true
				if frag, ok := all[name]; ok && frag != nil {
					order = append(order, frag)
					visit(frag.SelectionSet)
				}
			}
		}
	}
	visit(set)
	return order
}
