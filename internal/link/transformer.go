package link

import (
	"github.com/graphql-go/graphql"

	wast "github.com/FX-HAO/graphql-weaver/internal/ast"
	"github.com/FX-HAO/graphql-weaver/internal/proxy"
	"github.com/FX-HAO/graphql-weaver/internal/weave"
)

// ErrorReporter receives a non-fatal weaving error for one link;
// weaving continues installing every other link regardless.
type ErrorReporter func(linkPath string, err error)

// Transformer installs one synthetic "<field>_link" field per entry of
// specs, on the type the spec names, plus a wrapper around every field
// whose return type carries any link so that a list or single linked
// object has its sibling link values batch-fetched and attached before
// the executor ever resolves the individual link fields. A field without
// a resolver of its own is not wrapped, so link values are attached only
// below fields that have a resolver.
//
// specs is keyed by "ParentType.field"; each Spec.TypeName must already
// be namespace-prefixed to match the schema this Transformer runs
// against. merged is that same (pre-this-pass) schema, used to look up
// each link's target field definition.
func Transformer(registry *proxy.Registry, merged *graphql.Schema, specs map[string]*Spec, report ErrorReporter) weave.TransformerSet {
	byType := map[string][]*Spec{}
	for _, spec := range specs {
		byType[spec.TypeName] = append(byType[spec.TypeName], spec)
	}

	return weave.TransformerSet{
		Field: func(typeName, fieldName string, cfg *graphql.Field, ctx *weave.Context) error {
			returnTypeName := namedTypeName(cfg.Type)
			linked := byType[returnTypeName]
			if len(linked) == 0 || cfg.Resolve == nil {
				return nil
			}
			cfg.Resolve = attachLinksResolver(cfg.Resolve, registry, merged, linked)
			return nil
		},
		ExtraFields: func(typeName string, oldFields graphql.FieldDefinitionMap, ctx *weave.Context) (graphql.Fields, error) {
			linked := byType[typeName]
			if len(linked) == 0 {
				return nil, nil
			}
			out := graphql.Fields{}
			for _, spec := range linked {
				field, err := install(registry, merged, spec, oldFields, ctx)
				if err != nil {
					if report != nil {
						report(spec.TypeName+"."+spec.FieldName, err)
					}
					continue
				}
				out[spec.FieldName+wast.LinkFieldSuffix] = field
			}
			return out, nil
		},
	}
}

// namedType unwraps t's NonNull/List wrappers down to the underlying
// named type.
func namedType(t graphql.Type) graphql.Type {
	for {
		switch typed := t.(type) {
		case *graphql.NonNull:
			t = typed.OfType
		case *graphql.List:
			t = typed.OfType
		default:
			return t
		}
	}
}

func namedTypeName(t graphql.Type) string {
	t = namedType(t)
	if t == nil {
		return ""
	}
	return t.Name()
}

// install builds the synthetic field that will read a spec's
// pre-attached value off its resolved parent object. It validates
// type compatibility between the key field and the target argument,
// reporting (but not failing on) a mismatch, consistent with the
// best-effort passthrough this system allows for scalar aliases.
func install(registry *proxy.Registry, merged *graphql.Schema, spec *Spec, oldFields graphql.FieldDefinitionMap, ctx *weave.Context) (*graphql.Field, error) {
	if len(spec.TargetField) == 0 {
		return nil, &TypeMismatchError{TypeName: spec.TypeName, FieldName: spec.FieldName, Reason: "link has no target field"}
	}
	_, _, ok := registry.OwnerOf(spec.TargetField[0])
	if !ok {
		return nil, &TypeMismatchError{TypeName: spec.TypeName, FieldName: spec.FieldName, Reason: "no endpoint owns target field " + spec.TargetField[0]}
	}

	query := merged.QueryType()
	if query == nil {
		return nil, &TypeMismatchError{TypeName: spec.TypeName, FieldName: spec.FieldName, Reason: "merged schema has no Query type"}
	}
	targetDef, ok := query.Fields()[spec.TargetField[0]]
	if !ok {
		return nil, &TypeMismatchError{TypeName: spec.TypeName, FieldName: spec.FieldName, Reason: "target field " + spec.TargetField[0] + " not found on merged Query"}
	}

	if keyDef, ok := oldFields[spec.FieldName]; ok && len(spec.TargetArgument) > 0 {
		if argDef := findArgument(targetDef.Args, spec.TargetArgument[0]); argDef != nil {
			keyTypeName := namedTypeName(keyDef.Type)
			argTypeName := namedTypeName(argDef.Type)
			if keyTypeName != "" && argTypeName != "" && keyTypeName != argTypeName {
				return nil, &TypeMismatchError{
					TypeName: spec.TypeName, FieldName: spec.FieldName,
					Reason: "key field type " + keyTypeName + " does not match target argument type " + argTypeName,
				}
			}
		}
	}

	if spec.BatchMode && spec.KeyField != "" {
		if targetObj, ok := namedType(targetDef.Type).(*graphql.Object); ok {
			if _, ok := targetObj.Fields()[spec.KeyField]; !ok {
				return nil, &KeyFieldError{
					TypeName: spec.TypeName, FieldName: spec.FieldName, KeyField: spec.KeyField,
					Reason: "not found on target type " + targetObj.Name(),
				}
			}
		}
	}

	mappedType, err := ctx.MapType(targetDef.Type)
	if err != nil {
		return nil, err
	}

	return &graphql.Field{
		Name: spec.FieldName + wast.LinkFieldSuffix,
		Type: mappedType,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			if src, ok := p.Source.(map[string]interface{}); ok {
				return src[spec.FieldName+wast.LinkFieldSuffix], nil
			}
			return nil, nil
		},
	}, nil
}

func findArgument(args []*graphql.Argument, name string) *graphql.Argument {
	for _, a := range args {
		if a.Name() == name {
			return a
		}
	}
	return nil
}
