package ast

import (
	"fmt"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/kinds"
)

// AddVariableDefinitionSafely returns a new variable-definition slice with
// one more entry appended, generating a name that does not collide with
// any existing definition: baseName, then baseName2, baseName3, and so
// on. existing is never mutated.
func AddVariableDefinitionSafely(existing []*ast.VariableDefinition, baseName string, varType graphql.Type) (defs []*ast.VariableDefinition, name string) {
	used := make(map[string]bool, len(existing))
	for _, d := range existing {
		used[d.Variable.Name.Value] = true
	}

	name = baseName
	for n := 2; used[name]; n++ {
		name = fmt.Sprintf("%s%d", baseName, n)
	}

	def := &ast.VariableDefinition{
		Kind: kinds.VariableDefinition,
		Variable: &ast.Variable{
			Kind: kinds.Variable,
			Name: ast.NewName(&ast.Name{Value: name}),
		},
		Type: TypeNode(varType),
	}

	defs = make([]*ast.VariableDefinition, len(existing)+1)
	copy(defs, existing)
	defs[len(existing)] = def
	return defs, name
}

// CollectVariableNamesInField returns, de-duplicated, every variable
// name referenced anywhere in field: its own arguments, and the
// arguments of every field reachable from its selection set at any
// depth, including through inline fragments and fragment spreads
// (resolved via fragments).
func CollectVariableNamesInField(field *ast.Field, fragments Fragments) []string {
	seen := map[string]bool{}
	var order []string
	record := func(name string) {
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}

	var walkValue func(ast.Value)
	walkValue = func(v ast.Value) {
		switch val := v.(type) {
		case *ast.Variable:
			record(val.Name.Value)
		case *ast.ListValue:
			for _, item := range val.Values {
				walkValue(item)
			}
		case *ast.ObjectValue:
			for _, f := range val.Fields {
				walkValue(f.Value)
			}
		}
	}

	var walkSet func(*ast.SelectionSet)
	walkSet = func(set *ast.SelectionSet) {
		if set == nil {
			return
		}
		for _, sel := range set.Selections {
			switch s := sel.(type) {
			case *ast.Field:
				for _, arg := range s.Arguments {
					walkValue(arg.Value)
				}
				walkSet(s.SelectionSet)
			case *ast.InlineFragment:
				walkSet(s.SelectionSet)
			case *ast.FragmentSpread:
				if frag, ok := fragments[s.Name.Value]; ok && frag != nil {
					walkSet(frag.SelectionSet)
				}
			}
		}
	}

	for _, arg := range field.Arguments {
		walkValue(arg.Value)
	}
	walkSet(field.SelectionSet)
	return order
}

// FilterVariableDefinitions returns the subset of defs whose variable
// name is in names, preserving defs' relative order, along with the
// matching subset of values.
func FilterVariableDefinitions(defs []*ast.VariableDefinition, values map[string]interface{}, names []string) ([]*ast.VariableDefinition, map[string]interface{}) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var outDefs []*ast.VariableDefinition
	outValues := map[string]interface{}{}
	for _, d := range defs {
		name := d.Variable.Name.Value
		if !want[name] {
			continue
		}
		outDefs = append(outDefs, d)
		if v, ok := values[name]; ok {
			outValues[name] = v
		}
	}
	return outDefs, outValues
}

// TypeNode renders a schema-level graphql.Type as the AST type reference
// used in a variable definition (e.g. `[String!]!`).
func TypeNode(t graphql.Type) ast.Type {
	switch typed := t.(type) {
	case *graphql.NonNull:
		return &ast.NonNull{
			Kind: kinds.NonNull,
			Type: TypeNode(typed.OfType),
		}
	case *graphql.List:
		return &ast.List{
			Kind: kinds.List,
			Type: TypeNode(typed.OfType),
		}
	default:
		return ast.NewNamed(&ast.Named{
			Name: ast.NewName(&ast.Name{Value: t.Name()}),
		})
	}
}
