package introspect

import (
	"fmt"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
)

// builder holds the state needed to turn one IntrospectionResult into a
// *graphql.Schema: the raw definitions keyed by name, and the new types
// as they're constructed, so later lookups (an object's interface list,
// a union's member list, a field's type) resolve against what's already
// built rather than re-parsing JSON.
type builder struct {
	endpoint string
	byName   map[string]*FullType
	built    map[string]graphql.Type
}

// BuildSchema turns the JSON result of Fetch into a *graphql.Schema: the
// "old schema" weave.Transform (C2) clones for one endpoint. Unlike C2,
// this constructs types from nothing rather than from another
// *graphql.Schema, so it duplicates C2's FieldsThunk/two-phase-ordering
// discipline directly instead of routing through weave.Transform.
func BuildSchema(endpoint string, result *IntrospectionResult) (*graphql.Schema, error) {
	b := &builder{
		endpoint: endpoint,
		byName:   map[string]*FullType{},
		built:    map[string]graphql.Type{},
	}
	for name, t := range nativeScalarsByName {
		b.built[name] = t
	}
	for i := range result.Schema.Types {
		ft := &result.Schema.Types[i]
		if isMetaTypeName(ft.Name) {
			continue
		}
		if _, native := b.built[ft.Name]; native {
			continue
		}
		switch ft.Kind {
		case "SCALAR", "ENUM", "INTERFACE", "OBJECT", "UNION", "INPUT_OBJECT":
		default:
			return nil, &SchemaBuildError{Endpoint: endpoint, TypeName: ft.Name, Reason: fmt.Sprintf("unrecognized type kind %q", ft.Kind)}
		}
		b.byName[ft.Name] = ft
	}

	// Build order matters only where graphql-go evaluates a reference
	// eagerly rather than through a thunk: Interfaces (objects list them
	// eagerly), then Objects (unions list them eagerly), then everything
	// else. Scalars and enums have no forward references at all.
	for _, ft := range b.byName {
		if ft.Kind == "SCALAR" {
			if err := b.buildScalar(ft); err != nil {
				return nil, err
			}
		}
	}
	for _, ft := range b.byName {
		if ft.Kind == "ENUM" {
			if err := b.buildEnum(ft); err != nil {
				return nil, err
			}
		}
	}
	for _, ft := range b.byName {
		if ft.Kind == "INTERFACE" {
			if err := b.buildInterface(ft); err != nil {
				return nil, err
			}
		}
	}
	for _, ft := range b.byName {
		if ft.Kind == "OBJECT" {
			if err := b.buildObject(ft); err != nil {
				return nil, err
			}
		}
	}
	for _, ft := range b.byName {
		if ft.Kind == "UNION" {
			if err := b.buildUnion(ft); err != nil {
				return nil, err
			}
		}
	}
	for _, ft := range b.byName {
		if ft.Kind == "INPUT_OBJECT" {
			if err := b.buildInputObject(ft); err != nil {
				return nil, err
			}
		}
	}

	var query, mutation, subscription *graphql.Object
	var err error
	if query, err = b.rootObject(result.Schema.QueryType); err != nil {
		return nil, err
	}
	if mutation, err = b.rootObject(result.Schema.MutationType); err != nil {
		return nil, err
	}
	if subscription, err = b.rootObject(result.Schema.SubscriptionType); err != nil {
		return nil, err
	}
	if query == nil {
		return nil, &SchemaBuildError{Endpoint: endpoint, Reason: "introspection result names no query type"}
	}

	// Every introspected type is listed explicitly, so that types reachable
	// only as an interface's implementation still end up in the schema.
	types := make([]graphql.Type, 0, len(b.byName))
	for name := range b.byName {
		types = append(types, b.built[name])
	}

	var schema graphql.Schema
	err = func() (err error) {
		// NewSchema runs the field thunks, which panic with a
		// *SchemaBuildError on a dangling type reference.
		defer func() {
			if r := recover(); r != nil {
				e, ok := r.(error)
				if !ok {
					panic(r)
				}
				err = e
			}
		}()
		schema, err = graphql.NewSchema(graphql.SchemaConfig{
			Query:        query,
			Mutation:     mutation,
			Subscription: subscription,
			Types:        types,
		})
		return err
	}()
	if err != nil {
		if buildErr, ok := err.(*SchemaBuildError); ok {
			return nil, buildErr
		}
		return nil, &SchemaBuildError{Endpoint: endpoint, Reason: fmt.Sprintf("assembling schema: %v", err)}
	}
	return &schema, nil
}

var nativeScalarsByName = map[string]graphql.Type{
	"Boolean": graphql.Boolean,
	"Int":     graphql.Int,
	"Float":   graphql.Float,
	"String":  graphql.String,
	"ID":      graphql.ID,
}

func isMetaTypeName(name string) bool {
	return len(name) >= 2 && name[0] == '_' && name[1] == '_'
}

func (b *builder) rootObject(ref *TypeRef) (*graphql.Object, error) {
	if ref == nil || ref.Name == nil {
		return nil, nil
	}
	t, ok := b.built[*ref.Name]
	if !ok {
		return nil, &SchemaBuildError{Endpoint: b.endpoint, TypeName: *ref.Name, Reason: "root operation type was not defined among __schema.types"}
	}
	obj, ok := t.(*graphql.Object)
	if !ok {
		return nil, &SchemaBuildError{Endpoint: b.endpoint, TypeName: *ref.Name, Reason: "root operation type is not an object type"}
	}
	return obj, nil
}

// resolveRef maps one TypeRef, including its NON_NULL/LIST wrapping,
// into a graphql.Type built from an already-built named type. Named
// types must already be in b.built: callers only resolve refs after the
// referenced kind's build pass has run.
func (b *builder) resolveRef(ref TypeRef) (graphql.Type, error) {
	switch ref.Kind {
	case "NON_NULL":
		if ref.OfType == nil {
			return nil, &SchemaBuildError{Endpoint: b.endpoint, Reason: "NON_NULL type ref has no ofType"}
		}
		inner, err := b.resolveRef(*ref.OfType)
		if err != nil {
			return nil, err
		}
		return graphql.NewNonNull(inner), nil
	case "LIST":
		if ref.OfType == nil {
			return nil, &SchemaBuildError{Endpoint: b.endpoint, Reason: "LIST type ref has no ofType"}
		}
		inner, err := b.resolveRef(*ref.OfType)
		if err != nil {
			return nil, err
		}
		return graphql.NewList(inner), nil
	default:
		if ref.Name == nil {
			return nil, &SchemaBuildError{Endpoint: b.endpoint, Reason: "named type ref has no name"}
		}
		t, ok := b.built[*ref.Name]
		if !ok {
			return nil, &SchemaBuildError{Endpoint: b.endpoint, TypeName: *ref.Name, Reason: "dangling type reference"}
		}
		return t, nil
	}
}

func (b *builder) buildArgs(defs []inputValue) (graphql.FieldConfigArgument, error) {
	if len(defs) == 0 {
		return nil, nil
	}
	out := graphql.FieldConfigArgument{}
	for _, d := range defs {
		t, err := b.resolveRef(d.Type)
		if err != nil {
			return nil, err
		}
		out[d.Name] = &graphql.ArgumentConfig{
			Type:        t,
			Description: d.Description,
		}
	}
	return out, nil
}

// buildFields is the FieldsThunk body for both objects and interfaces:
// deferred so a field's return type can forward-reference a type built
// in a later pass (e.g. an object field returning a union built after
// it, or a self-referencing type).
func (b *builder) buildFields(ft *FullType) graphql.Fields {
	out := graphql.Fields{}
	for _, f := range ft.Fields {
		t, err := b.resolveRef(f.Type)
		if err != nil {
			panic(err)
		}
		args, err := b.buildArgs(f.Args)
		if err != nil {
			panic(err)
		}
		out[f.Name] = &graphql.Field{
			Name:              f.Name,
			Type:              t,
			Args:              args,
			Description:       f.Description,
			DeprecationReason: f.DeprecationReason,
		}
	}
	return out
}

func (b *builder) buildScalar(ft *FullType) error {
	b.built[ft.Name] = graphql.NewScalar(graphql.ScalarConfig{
		Name:        ft.Name,
		Description: ft.Description,
		// Custom scalars introspected from an upstream carry no
		// executable serialize/parse logic; values pass through
		// unchanged, exactly as the JSON decoder already produced them.
		Serialize:    passthroughScalar,
		ParseValue:   passthroughScalar,
		ParseLiteral: parseLiteralPassthrough,
	})
	return nil
}

func (b *builder) buildEnum(ft *FullType) error {
	values := graphql.EnumValueConfigMap{}
	for _, v := range ft.EnumValues {
		values[v.Name] = &graphql.EnumValueConfig{
			Value:             v.Name,
			Description:       v.Description,
			DeprecationReason: v.DeprecationReason,
		}
	}
	b.built[ft.Name] = graphql.NewEnum(graphql.EnumConfig{
		Name:        ft.Name,
		Description: ft.Description,
		Values:      values,
	})
	return nil
}

func (b *builder) buildInterface(ft *FullType) error {
	iface := graphql.NewInterface(graphql.InterfaceConfig{
		Name:        ft.Name,
		Description: ft.Description,
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return b.buildFields(ft)
		}),
		ResolveType: b.resolveTypeFromTypename,
	})
	b.built[ft.Name] = iface
	return nil
}

func (b *builder) buildObject(ft *FullType) error {
	ifaces := make([]*graphql.Interface, 0, len(ft.Interfaces))
	for _, ref := range ft.Interfaces {
		if ref.Name == nil {
			continue
		}
		t, ok := b.built[*ref.Name]
		if !ok {
			return &SchemaBuildError{Endpoint: b.endpoint, TypeName: *ref.Name, Reason: "object implements an undefined interface"}
		}
		iface, ok := t.(*graphql.Interface)
		if !ok {
			return &SchemaBuildError{Endpoint: b.endpoint, TypeName: *ref.Name, Reason: "object's interface reference is not an interface type"}
		}
		ifaces = append(ifaces, iface)
	}
	b.built[ft.Name] = graphql.NewObject(graphql.ObjectConfig{
		Name:        ft.Name,
		Description: ft.Description,
		Interfaces:  ifaces,
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return b.buildFields(ft)
		}),
	})
	return nil
}

func (b *builder) buildUnion(ft *FullType) error {
	types := make([]*graphql.Object, 0, len(ft.PossibleTypes))
	for _, ref := range ft.PossibleTypes {
		if ref.Name == nil {
			continue
		}
		t, ok := b.built[*ref.Name]
		if !ok {
			return &SchemaBuildError{Endpoint: b.endpoint, TypeName: *ref.Name, Reason: "union includes an undefined member type"}
		}
		obj, ok := t.(*graphql.Object)
		if !ok {
			return &SchemaBuildError{Endpoint: b.endpoint, TypeName: *ref.Name, Reason: "union member reference is not an object type"}
		}
		types = append(types, obj)
	}
	b.built[ft.Name] = graphql.NewUnion(graphql.UnionConfig{
		Name:        ft.Name,
		Description: ft.Description,
		Types:       types,
		ResolveType: b.resolveTypeFromTypename,
	})
	return nil
}

func (b *builder) buildInputObject(ft *FullType) error {
	b.built[ft.Name] = graphql.NewInputObject(graphql.InputObjectConfig{
		Name:        ft.Name,
		Description: ft.Description,
		Fields: graphql.InputObjectConfigFieldMapThunk(func() graphql.InputObjectConfigFieldMap {
			out := graphql.InputObjectConfigFieldMap{}
			for _, f := range ft.InputFields {
				t, err := b.resolveRef(f.Type)
				if err != nil {
					panic(err)
				}
				out[f.Name] = &graphql.InputObjectFieldConfig{
					Type:        t,
					Description: f.Description,
				}
			}
			return out
		}),
	})
	return nil
}

// resolveTypeFromTypename is the abstract-type resolver shared by every
// introspected interface and union: sub-query results decode to plain
// map[string]interface{} values, never Go structs, so the only signal
// available to discriminate a concrete type is the "__typename" key
// selected alongside every abstract field (injected by
// ast.RewriteTypeConditions into every outgoing sub-query selection set
// that contains a fragment).
func (b *builder) resolveTypeFromTypename(p graphql.ResolveTypeParams) *graphql.Object {
	obj, ok := p.Value.(map[string]interface{})
	if !ok {
		return nil
	}
	name, ok := obj["__typename"].(string)
	if !ok {
		return nil
	}
	t, ok := b.built[name]
	if !ok {
		return nil
	}
	result, _ := t.(*graphql.Object)
	return result
}

func passthroughScalar(value interface{}) interface{} { return value }

// parseLiteralPassthrough always returns nil: a custom scalar with no
// known parse logic cannot accept a literal argument value. Variables
// (parsed through ParseValue instead) are unaffected.
func parseLiteralPassthrough(_ ast.Value) interface{} { return nil }
