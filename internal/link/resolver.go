package link

import (
	"context"
	"fmt"

	"github.com/graphql-go/graphql"
	gqlast "github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/kinds"

	wast "github.com/FX-HAO/graphql-weaver/internal/ast"
	"github.com/FX-HAO/graphql-weaver/internal/errpath"
	"github.com/FX-HAO/graphql-weaver/internal/proxy"
	"github.com/FX-HAO/graphql-weaver/internal/reqctx"
	"github.com/FX-HAO/graphql-weaver/internal/weave"
)

// attachLinksResolver wraps a field's existing resolver so that,
// immediately after it produces a value, every linked sibling field on
// that value (or on each element, if it's a list) is resolved in one
// shot and stashed under "<field>_link" for the synthetic field
// installed by Transformer to read back out.
func attachLinksResolver(original graphql.FieldResolveFn, registry *proxy.Registry, merged *graphql.Schema, specs []*Spec) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		value, err := original(p)
		if err != nil || value == nil {
			return value, err
		}

		switch v := value.(type) {
		case []interface{}:
			objs := make([]map[string]interface{}, 0, len(v))
			for _, item := range v {
				if o, ok := item.(map[string]interface{}); ok {
					objs = append(objs, o)
				}
			}
			if len(objs) > 0 {
				attachLinks(p, registry, merged, specs, objs)
			}
		case map[string]interface{}:
			attachLinks(p, registry, merged, specs, []map[string]interface{}{v})
		}
		return value, nil
	}
}

func attachLinks(p graphql.ResolveParams, registry *proxy.Registry, merged *graphql.Schema, specs []*Spec, objs []map[string]interface{}) {
	for _, spec := range specs {
		selection := requestedLinkSelection(p, spec)
		if selection == nil {
			continue // client never selected this link field; skip the fetch
		}

		keys := make([]interface{}, len(objs))
		for i, o := range objs {
			keys[i] = o[spec.FieldName]
		}

		var results []interface{}
		var fetchErr error
		if spec.BatchMode {
			results, fetchErr = fetchBatch(p, registry, merged, spec, selection, keys)
		} else {
			results = make([]interface{}, len(keys))
			for i, k := range keys {
				results[i], fetchErr = fetchSingle(p, registry, merged, spec, selection, k)
				if fetchErr != nil {
					break
				}
			}
		}

		for i, o := range objs {
			if fetchErr != nil {
				o[spec.FieldName+wast.LinkFieldSuffix] = nil
				continue
			}
			o[spec.FieldName+wast.LinkFieldSuffix] = results[i]
		}
	}
}

// requestedLinkSelection finds the "<field>_link { ... }" selection the
// client actually wrote alongside spec.FieldName in the current
// resolve event's own selection set, and returns its sub-selection.
func requestedLinkSelection(p graphql.ResolveParams, spec *Spec) *gqlast.SelectionSet {
	fragments := fragmentsFromInfo(p.Info.Fragments)
	for _, fieldAST := range p.Info.FieldASTs {
		if fieldAST.SelectionSet == nil {
			continue
		}
		if f := wast.FindField(fieldAST.SelectionSet, spec.FieldName+wast.LinkFieldSuffix, fragments); f != nil {
			return f.SelectionSet
		}
	}
	return nil
}

func fragmentsFromInfo(raw map[string]gqlast.Definition) wast.Fragments {
	out := make(wast.Fragments, len(raw))
	for name, def := range raw {
		if frag, ok := def.(*gqlast.FragmentDefinition); ok {
			out[name] = frag
		}
	}
	return out
}

// fetchSingle issues one sub-query for one key value.
func fetchSingle(p graphql.ResolveParams, registry *proxy.Registry, merged *graphql.Schema, spec *Spec, selection *gqlast.SelectionSet, key interface{}) (interface{}, error) {
	if key == nil {
		return nil, nil
	}
	results, err := dispatch(p, registry, merged, spec, selection, []interface{}{key}, false)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// fetchBatch issues one sub-query covering every non-nil key and
// re-expands the result back to keys' original order. A nil key is a
// legitimately absent foreign key, not an error: per invariant 7, it is
// never sent upstream, and the sibling it belongs to simply gets a nil
// result without affecting any other sibling in the batch.
func fetchBatch(p graphql.ResolveParams, registry *proxy.Registry, merged *graphql.Schema, spec *Spec, selection *gqlast.SelectionSet, keys []interface{}) ([]interface{}, error) {
	present := make([]interface{}, 0, len(keys))
	presentAt := make([]int, 0, len(keys))
	for i, k := range keys {
		if k == nil {
			continue
		}
		present = append(present, k)
		presentAt = append(presentAt, i)
	}

	out := make([]interface{}, len(keys))
	if len(present) == 0 {
		return out, nil
	}

	results, err := dispatch(p, registry, merged, spec, selection, present, true)
	if err != nil {
		return nil, err
	}
	for i, at := range presentAt {
		if i < len(results) {
			out[at] = results[i]
		}
	}
	return out, nil
}

// dispatch builds and runs a single sub-query requesting spec's target
// field for every value in keys, and returns one result per key,
// either positionally (order-preserving batch and single-key modes) or
// matched back by spec.KeyField (keyed batch mode).
func dispatch(p graphql.ResolveParams, registry *proxy.Registry, merged *graphql.Schema, spec *Spec, selection *gqlast.SelectionSet, keys []interface{}, batched bool) ([]interface{}, error) {
	ep, targetFieldName, ok := registry.OwnerOf(spec.TargetField[0])
	if !ok {
		return nil, fmt.Errorf("link: no endpoint owns target field %q", spec.TargetField[0])
	}

	query := merged.QueryType()
	targetDef := query.Fields()[spec.TargetField[0]]

	rename := func(name string) string { return (weave.Renamer{Namespace: ep.Namespace}).Reverse(name) }
	rewritten, err := wast.RewriteTypeConditions(selection, rename)
	if err != nil {
		return nil, err
	}

	useKeyField := batched && spec.KeyField != ""
	keyFieldAlias := spec.KeyField
	if useKeyField {
		keyFieldAlias, rewritten = wast.AddFieldSelectionSafely(rewritten, spec.KeyField, nil)
	}

	argName := ""
	if len(spec.TargetArgument) > 0 {
		argName = spec.TargetArgument[0]
	}
	argDef := findArgument(targetDef.Args, argName)

	var argValue gqlast.Value
	var varDefs []*gqlast.VariableDefinition
	varValues := map[string]interface{}{}
	var varName string
	if batched {
		varDefs, varName = wast.AddVariableDefinitionSafely(nil, "keys", graphql.NewList(graphql.NewNonNull(argDef.Type)))
		varValues[varName] = keys
	} else {
		varDefs, varName = wast.AddVariableDefinitionSafely(nil, "key", argDef.Type)
		varValues[varName] = keys[0]
	}
	argValue = &gqlast.Variable{
		Kind: kinds.Variable,
		Name: gqlast.NewName(&gqlast.Name{Value: varName}),
	}

	outerField := &gqlast.Field{
		Kind: kinds.Field,
		Name: gqlast.NewName(&gqlast.Name{Value: targetFieldName}),
		Arguments: []*gqlast.Argument{
			{
				Kind:  kinds.Argument,
				Name:  gqlast.NewName(&gqlast.Name{Value: argName}),
				Value: argValue,
			},
		},
		SelectionSet: rewritten,
	}

	doc := &gqlast.Document{
		Kind: kinds.Document,
		Definitions: []gqlast.Node{
			&gqlast.OperationDefinition{
				Kind:                kinds.OperationDefinition,
				Operation:           "query",
				VariableDefinitions: varDefs,
				SelectionSet: &gqlast.SelectionSet{
					Kind:       kinds.SelectionSet,
					Selections: []gqlast.Selection{outerField},
				},
			},
		},
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

	data, _ := result.Data.(map[string]interface{})
	raw, ok := data[targetFieldName]
	if !ok {
		return nil, &proxy.UpstreamContractViolationError{Endpoint: ep.Name, Path: []string{targetFieldName}, Reason: "missing key in upstream response"}
	}

	if !batched {
		return []interface{}{raw}, nil
	}

	list, ok := raw.([]interface{})
	if !ok {
		return nil, &proxy.UpstreamContractViolationError{Endpoint: ep.Name, Path: []string{targetFieldName}, Reason: "expected a list result for a batched link"}
	}

	if !useKeyField {
		out := make([]interface{}, len(keys))
		for i := range keys {
			if i < len(list) {
				out[i] = list[i]
			}
		}
		return out, nil
	}

	byKey := map[interface{}]interface{}{}
	for _, item := range list {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		k, ok := obj[keyFieldAlias]
		if !ok {
			continue
		}
		byKey[k] = item
	}
	out := make([]interface{}, len(keys))
	for i, k := range keys {
		out[i] = byKey[k]
	}
	return out, nil
}
