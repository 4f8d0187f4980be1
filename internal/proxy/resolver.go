package proxy

import (
	"context"
	"fmt"

	"github.com/graphql-go/graphql"
	gqlast "github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/kinds"

	wast "github.com/FX-HAO/graphql-weaver/internal/ast"
	"github.com/FX-HAO/graphql-weaver/internal/errpath"
	"github.com/FX-HAO/graphql-weaver/internal/reqctx"
)

// Resolve implements the root-field resolver contract (C4): identify
// the owning endpoint, rebuild an upstream-facing sub-query from the
// resolve event's AST, dispatch it, and return the value at the
// rewritten field's response key.
func (r *Registry) Resolve(p graphql.ResolveParams) (interface{}, error) {
	ep, upstreamName, ok := r.OwnerOf(p.Info.FieldName)
	if !ok {
		return nil, &UpstreamContractViolationError{Reason: fmt.Sprintf("no endpoint owns root field %q", p.Info.FieldName)}
	}
	rename := func(name string) string { return ep.renamer().Reverse(name) }

	fragments := fragmentsFromInfo(p.Info.Fragments)

	merged := mergeFieldASTSelections(p.Info.FieldASTs)
	rewritten, err := wast.RewriteTypeConditions(merged, rename)
	if err != nil {
		if reserved, ok := err.(*wast.ErrReservedFieldAlias); ok {
			return nil, &ReservedFieldAliasError{Endpoint: ep.Name, Alias: reserved.Alias}
		}
		return nil, err
	}

	referencedFragments := wast.CollectTransitiveFragments(merged, fragments)
	rewrittenFragments, err := wast.RewriteFragmentDefinitions(referencedFragments, rename)
	if err != nil {
		if reserved, ok := err.(*wast.ErrReservedFieldAlias); ok {
			return nil, &ReservedFieldAliasError{Endpoint: ep.Name, Alias: reserved.Alias}
		}
		return nil, err
	}

	// Synthetic "<field>_link" selections have no counterpart on the
	// upstream schema; strip them and request the underlying key field
	// instead, so the link resolver that runs after this one still has
	// the value it needs to join on.
	rewritten = wast.StripLinkSelections(rewritten)
	rewrittenFragments = wast.StripLinkSelectionsInFragments(rewrittenFragments)

	if !isComposite(p.Info.ReturnType) {
		rewritten = nil
	}

	outerField := &gqlast.Field{
		Kind:         kinds.Field,
		Name:         gqlast.NewName(&gqlast.Name{Value: upstreamName}),
		Arguments:    firstFieldAST(p.Info.FieldASTs).Arguments,
		SelectionSet: rewritten,
	}

	varNames := wast.CollectVariableNamesInField(outerField, fragmentsByName(rewrittenFragments))
	varDefs, varValues := wast.FilterVariableDefinitions(operationVariableDefinitions(p.Info.Operation), p.Info.VariableValues, varNames)

	operationKind := operationOperation(p.Info.Operation)
	doc := &gqlast.Document{
		Kind: kinds.Document,
		Definitions: append([]gqlast.Node{
			&gqlast.OperationDefinition{
				Kind:                kinds.OperationDefinition,
				Operation:           operationKind,
				VariableDefinitions: varDefs,
				SelectionSet: &gqlast.SelectionSet{
					Kind:       kinds.SelectionSet,
					Selections: []gqlast.Selection{outerField},
				},
			},
		}, fragmentDefinitions(rewrittenFragments)...),
	}

	ctx := p.Context
	if ctx == nil {
		ctx = context.Background()
	}
	result, err := ep.Client.Execute(ctx, doc, varValues)
	if err != nil {
		return nil, err
	}

	if collector := reqctx.FromContext(ctx); collector != nil && len(result.Errors) > 0 {
		outerPath := wast.ResponsePathToSlice(p.Info.Path)
		collector.Add(errpath.RewriteAll(result.Errors, outerPath, 1)...)
	}

	data, ok := result.Data.(map[string]interface{})
	if !ok {
		return nil, &UpstreamContractViolationError{Endpoint: ep.Name, Path: []string{upstreamName}, Reason: "response data was not an object"}
	}
	value, ok := data[upstreamName]
	if !ok {
		return nil, &UpstreamContractViolationError{Endpoint: ep.Name, Path: []string{upstreamName}, Reason: "missing key in upstream response"}
	}
	return value, nil
}

func mergeFieldASTSelections(fieldASTs []*gqlast.Field) *gqlast.SelectionSet {
	var selections []gqlast.Selection
	for _, f := range fieldASTs {
		if f.SelectionSet == nil {
			continue
		}
		selections = append(selections, f.SelectionSet.Selections...)
	}
	if selections == nil {
		return nil
	}
	return &gqlast.SelectionSet{Kind: kinds.SelectionSet, Selections: selections}
}

func firstFieldAST(fieldASTs []*gqlast.Field) *gqlast.Field {
	if len(fieldASTs) == 0 {
		return &gqlast.Field{}
	}
	return fieldASTs[0]
}

func fragmentDefinitions(defs []*gqlast.FragmentDefinition) []gqlast.Node {
	out := make([]gqlast.Node, len(defs))
	for i, d := range defs {
		out[i] = d
	}
	return out
}

func operationVariableDefinitions(op interface{}) []*gqlast.VariableDefinition {
	if o, ok := op.(*gqlast.OperationDefinition); ok {
		return o.VariableDefinitions
	}
	return nil
}

func operationOperation(op interface{}) string {
	if o, ok := op.(*gqlast.OperationDefinition); ok {
		return o.Operation
	}
	return "query"
}

// fragmentsFromInfo adapts ResolveInfo.Fragments (keyed by name, valued
// as the AST's general Definition interface) into the narrower map the
// ast toolkit expects.
func fragmentsFromInfo(raw map[string]gqlast.Definition) wast.Fragments {
	out := make(wast.Fragments, len(raw))
	for name, def := range raw {
		if frag, ok := def.(*gqlast.FragmentDefinition); ok {
			out[name] = frag
		}
	}
	return out
}

// fragmentsByName indexes a fragment definition slice by name, for
// callers that need map lookups (e.g. CollectVariableNamesInField)
// over a rewritten fragment set that no longer matches fragmentsFromInfo.
func fragmentsByName(defs []*gqlast.FragmentDefinition) wast.Fragments {
	out := make(wast.Fragments, len(defs))
	for _, d := range defs {
		out[d.Name.Value] = d
	}
	return out
}

func isComposite(t graphql.Type) bool {
	switch typed := t.(type) {
	case *graphql.NonNull:
		return isComposite(typed.OfType)
	case *graphql.List:
		return isComposite(typed.OfType)
	case *graphql.Object, *graphql.Interface, *graphql.Union:
		return true
	default:
		return false
	}
}
