package ast

import (
	"testing"

	"github.com/graphql-go/graphql"
	gqlast "github.com/graphql-go/graphql/language/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSelectionChain_EmptyOuterIsIdentity(t *testing.T) {
	inner := &gqlast.SelectionSet{Selections: []gqlast.Selection{CreateFieldNode("x")}}
	got := CreateSelectionChain(nil, inner)
	assert.Same(t, inner, got)
}

func TestCreateSelectionChain_Nesting(t *testing.T) {
	inner := &gqlast.SelectionSet{Selections: []gqlast.Selection{CreateFieldNode("leaf")}}
	got := CreateSelectionChain([]string{"a", "b"}, inner)
	require.Len(t, got.Selections, 1)
	outer := got.Selections[0].(*gqlast.Field)
	assert.Equal(t, "a", outer.Name.Value)
	require.Len(t, outer.SelectionSet.Selections, 1)
	middle := outer.SelectionSet.Selections[0].(*gqlast.Field)
	assert.Equal(t, "b", middle.Name.Value)
	assert.Same(t, inner, middle.SelectionSet)
}

func TestAddVariableDefinitionSafely_SequenceOfNames(t *testing.T) {
	var defs []*gqlast.VariableDefinition
	var name string
	for i := 0; i < 3; i++ {
		defs, name = AddVariableDefinitionSafely(defs, "code", graphql.String)
		_ = i
	}
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Variable.Name.Value
	}
	assert.Equal(t, []string{"code", "code2", "code3"}, names)
	assert.Equal(t, "code3", name)
}

func TestAddVariableDefinitionSafely_PreservesOrderAndAppends(t *testing.T) {
	defs, _ := AddVariableDefinitionSafely(nil, "id", graphql.Int)
	defs2, name2 := AddVariableDefinitionSafely(defs, "other", graphql.String)
	require.Len(t, defs2, 2)
	assert.Equal(t, "id", defs2[0].Variable.Name.Value)
	assert.Equal(t, "other", name2)
	assert.Equal(t, "other", defs2[1].Variable.Name.Value)
	// original slice untouched
	assert.Len(t, defs, 1)
}

func TestAddFieldSelectionSafely_ReturnsExistingKeyWhenPresent(t *testing.T) {
	set := &gqlast.SelectionSet{Selections: []gqlast.Selection{CreateFieldNode("code")}}
	alias, newSet := AddFieldSelectionSafely(set, "code", nil)
	assert.Equal(t, "code", alias)
	assert.Same(t, set, newSet)
}

func TestAddFieldSelectionSafely_AppendsWithNonCollidingAlias(t *testing.T) {
	set := &gqlast.SelectionSet{Selections: []gqlast.Selection{CreateFieldNode("code")}}
	alias, newSet := AddFieldSelectionSafely(set, "id", nil)
	assert.Equal(t, "id", alias)
	require.Len(t, newSet.Selections, 2)
	// original untouched
	assert.Len(t, set.Selections, 1)
}

func TestAddFieldSelectionSafely_AvoidsAliasCollision(t *testing.T) {
	set := &gqlast.SelectionSet{Selections: []gqlast.Selection{}}
	aliasedID := CreateFieldNode("something")
	aliasedID.Alias = gqlast.NewName(&gqlast.Name{Value: "id"})
	set.Selections = append(set.Selections, aliasedID)

	alias, newSet := AddFieldSelectionSafely(set, "id", nil)
	assert.Equal(t, "id2", alias)
	require.Len(t, newSet.Selections, 2)
}

func TestAddFieldSelectionSafely_FindsThroughFragmentSpread(t *testing.T) {
	frag := &gqlast.FragmentDefinition{
		Name: gqlast.NewName(&gqlast.Name{Value: "F"}),
		SelectionSet: &gqlast.SelectionSet{
			Selections: []gqlast.Selection{CreateFieldNode("code")},
		},
	}
	fragments := Fragments{"F": frag}
	set := &gqlast.SelectionSet{
		Selections: []gqlast.Selection{&gqlast.FragmentSpread{Name: gqlast.NewName(&gqlast.Name{Value: "F"})}},
	}
	alias, newSet := AddFieldSelectionSafely(set, "code", fragments)
	assert.Equal(t, "code", alias)
	assert.Same(t, set, newSet)
}

func TestRewriteTypeConditions_InjectsTypenameWhereFragmentsAppear(t *testing.T) {
	set := &gqlast.SelectionSet{
		Selections: []gqlast.Selection{
			&gqlast.InlineFragment{
				TypeCondition: gqlast.NewNamed(&gqlast.Named{Name: gqlast.NewName(&gqlast.Name{Value: "A_Animal"})}),
				SelectionSet: &gqlast.SelectionSet{
					Selections: []gqlast.Selection{CreateFieldNode("name")},
				},
			},
		},
	}
	rewritten, err := RewriteTypeConditions(set, func(n string) string { return "Animal" })
	require.NoError(t, err)
	assert.True(t, HasUnaliasedTypename(rewritten))
	inline := rewritten.Selections[0].(*gqlast.InlineFragment)
	assert.Equal(t, "Animal", inline.TypeCondition.Name.Value)
}

func TestRewriteTypeConditions_RejectsReservedAlias(t *testing.T) {
	set := &gqlast.SelectionSet{
		Selections: []gqlast.Selection{
			&gqlast.InlineFragment{
				TypeCondition: gqlast.NewNamed(&gqlast.Named{Name: gqlast.NewName(&gqlast.Name{Value: "A_Animal"})}),
				SelectionSet:  &gqlast.SelectionSet{},
			},
		},
	}
	aliased := CreateFieldNode("name")
	aliased.Alias = gqlast.NewName(&gqlast.Name{Value: "__typename"})
	set.Selections = append(set.Selections, aliased)

	_, err := RewriteTypeConditions(set, func(n string) string { return n })
	require.Error(t, err)
	var target *ErrReservedFieldAlias
	assert.ErrorAs(t, err, &target)
}

func TestRewriteTypeConditions_RenameThenReverseIsIdentity(t *testing.T) {
	frag := &gqlast.FragmentDefinition{
		Name:          gqlast.NewName(&gqlast.Name{Value: "F"}),
		TypeCondition: gqlast.NewNamed(&gqlast.Named{Name: gqlast.NewName(&gqlast.Name{Value: "Animal"})}),
		SelectionSet: &gqlast.SelectionSet{
			Selections: []gqlast.Selection{CreateFieldNode("name")},
		},
	}

	forward := func(n string) string { return "A_" + n }
	reverse := func(n string) string {
		if len(n) > 2 && n[:2] == "A_" {
			return n[2:]
		}
		return n
	}

	renamed, err := RewriteFragmentDefinitions([]*gqlast.FragmentDefinition{frag}, forward)
	require.NoError(t, err)
	roundTripped, err := RewriteFragmentDefinitions(renamed, reverse)
	require.NoError(t, err)

	require.Len(t, roundTripped, 1)
	assert.Equal(t, frag.TypeCondition.Name.Value, roundTripped[0].TypeCondition.Name.Value)
	assert.Equal(t, len(frag.SelectionSet.Selections), len(roundTripped[0].SelectionSet.Selections))
}

func TestCollectVariableNamesInField_RecursesIntoNestedSelections(t *testing.T) {
	inner := CreateFieldNode("pets")
	inner.Arguments = []*gqlast.Argument{
		{
			Name:  gqlast.NewName(&gqlast.Name{Value: "first"}),
			Value: &gqlast.Variable{Name: gqlast.NewName(&gqlast.Name{Value: "n"})},
		},
	}
	outer := CreateFieldNode("person")
	outer.SelectionSet = &gqlast.SelectionSet{Selections: []gqlast.Selection{inner}}

	names := CollectVariableNamesInField(outer, nil)
	assert.Equal(t, []string{"n"}, names)
}

func TestCollectVariableNamesInField_RecursesThroughFragmentSpread(t *testing.T) {
	inner := CreateFieldNode("pets")
	inner.Arguments = []*gqlast.Argument{
		{
			Name:  gqlast.NewName(&gqlast.Name{Value: "first"}),
			Value: &gqlast.Variable{Name: gqlast.NewName(&gqlast.Name{Value: "n"})},
		},
	}
	frag := &gqlast.FragmentDefinition{
		Name:         gqlast.NewName(&gqlast.Name{Value: "F"}),
		SelectionSet: &gqlast.SelectionSet{Selections: []gqlast.Selection{inner}},
	}
	outer := CreateFieldNode("person")
	outer.SelectionSet = &gqlast.SelectionSet{
		Selections: []gqlast.Selection{&gqlast.FragmentSpread{Name: gqlast.NewName(&gqlast.Name{Value: "F"})}},
	}

	names := CollectVariableNamesInField(outer, Fragments{"F": frag})
	assert.Equal(t, []string{"n"}, names)
}

func TestStripLinkSelections_ReplacesLinkFieldWithKeyField(t *testing.T) {
	linkField := CreateFieldNode("countryCode" + LinkFieldSuffix)
	linkField.SelectionSet = &gqlast.SelectionSet{Selections: []gqlast.Selection{CreateFieldNode("name")}}
	set := &gqlast.SelectionSet{
		Selections: []gqlast.Selection{CreateFieldNode("id"), linkField},
	}

	stripped := StripLinkSelections(set)

	var names []string
	for _, sel := range stripped.Selections {
		names = append(names, sel.(*gqlast.Field).Name.Value)
	}
	assert.Equal(t, []string{"id", "countryCode"}, names)
	// original untouched
	assert.Len(t, set.Selections, 2)
}

func TestStripLinkSelections_DoesNotDuplicateAlreadySelectedKeyField(t *testing.T) {
	linkField := CreateFieldNode("countryCode" + LinkFieldSuffix)
	set := &gqlast.SelectionSet{
		Selections: []gqlast.Selection{CreateFieldNode("countryCode"), linkField},
	}

	stripped := StripLinkSelections(set)

	require.Len(t, stripped.Selections, 1)
	assert.Equal(t, "countryCode", stripped.Selections[0].(*gqlast.Field).Name.Value)
}

func TestStripLinkSelections_RecursesIntoNestedAndInlineFragments(t *testing.T) {
	nestedLink := CreateFieldNode("account" + LinkFieldSuffix)
	billing := CreateFieldNode("billing")
	billing.SelectionSet = &gqlast.SelectionSet{Selections: []gqlast.Selection{nestedLink}}

	inline := &gqlast.InlineFragment{
		TypeCondition: gqlast.NewNamed(&gqlast.Named{Name: gqlast.NewName(&gqlast.Name{Value: "Person"})}),
		SelectionSet:  &gqlast.SelectionSet{Selections: []gqlast.Selection{billing}},
	}
	set := &gqlast.SelectionSet{Selections: []gqlast.Selection{inline}}

	stripped := StripLinkSelections(set)

	gotInline := stripped.Selections[0].(*gqlast.InlineFragment)
	gotBilling := gotInline.SelectionSet.Selections[0].(*gqlast.Field)
	require.Len(t, gotBilling.SelectionSet.Selections, 1)
	assert.Equal(t, "account", gotBilling.SelectionSet.Selections[0].(*gqlast.Field).Name.Value)
}
