package weave

import "github.com/graphql-go/graphql"

func cloneScalar(old *graphql.Scalar, ts TransformerSet, ctx *Context) (*graphql.Scalar, error) {
	cfg := graphql.ScalarConfig{
		Name:         old.Name(),
		Description:  old.Description(),
		Serialize:    old.Serialize,
		ParseValue:   old.ParseValue,
		ParseLiteral: old.ParseLiteral,
	}
	if ts.Scalar != nil {
		if err := ts.Scalar(&cfg, ctx); err != nil {
			return nil, err
		}
	}
	return graphql.NewScalar(cfg), nil
}

func cloneEnum(old *graphql.Enum, ts TransformerSet, ctx *Context) (*graphql.Enum, error) {
	values := graphql.EnumValueConfigMap{}
	for _, v := range old.Values() {
		values[v.Name] = &graphql.EnumValueConfig{
			Value:             v.Value,
			Description:       v.Description,
			DeprecationReason: v.DeprecationReason,
		}
	}
	cfg := graphql.EnumConfig{
		Name:        old.Name(),
		Description: old.Description(),
		Values:      values,
	}
	if ts.Enum != nil {
		if err := ts.Enum(&cfg, ctx); err != nil {
			return nil, err
		}
	}
	return graphql.NewEnum(cfg), nil
}

func convertArgs(old []*graphql.Argument, ctx *Context) (graphql.FieldConfigArgument, error) {
	if len(old) == 0 {
		return nil, nil
	}
	out := graphql.FieldConfigArgument{}
	for _, a := range old {
		mapped, err := ctx.MapType(a.Type)
		if err != nil {
			return nil, err
		}
		out[a.Name()] = &graphql.ArgumentConfig{
			Type:         mapped,
			DefaultValue: a.DefaultValue,
			Description:  a.Description(),
		}
	}
	return out, nil
}

// buildFields is invoked lazily, inside a FieldsThunk, the first time a
// cloned object or interface's fields are accessed. It maps every old
// field's type and arguments through ctx, runs the Field transformer
// against each resulting config, and rejects duplicate output field
// names as a DuplicateFieldError.
func buildFields(typeName string, old graphql.FieldDefinitionMap, ts TransformerSet, ctx *Context) graphql.Fields {
	out := graphql.Fields{}
	for name, def := range old {
		mappedType, err := ctx.MapType(def.Type)
		if err != nil {
			panic(err)
		}
		args, err := convertArgs(def.Args, ctx)
		if err != nil {
			panic(err)
		}
		field := &graphql.Field{
			Name:              def.Name,
			Type:              mappedType,
			Args:              args,
			DeprecationReason: def.DeprecationReason,
			Description:       def.Description,
		}
		if ts.Field != nil {
			if err := ts.Field(typeName, name, field, ctx); err != nil {
				panic(err)
			}
		}
		outName := field.Name
		if _, dup := out[outName]; dup {
			panic(&DuplicateFieldError{TypeName: typeName, FieldName: outName})
		}
		out[outName] = field
	}
	if ts.ExtraFields != nil {
		extra, err := ts.ExtraFields(typeName, old, ctx)
		if err != nil {
			panic(err)
		}
		for name, field := range extra {
			if _, dup := out[name]; dup {
				panic(&DuplicateFieldError{TypeName: typeName, FieldName: name})
			}
			out[name] = field
		}
	}
	return out
}

func cloneInterface(old *graphql.Interface, ts TransformerSet, ctx *Context) (*graphql.Interface, error) {
	typeName := old.Name()
	oldFields := old.Fields()
	cfg := graphql.InterfaceConfig{
		Name:        typeName,
		Description: old.Description(),
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return buildFields(typeName, oldFields, ts, ctx)
		}),
		ResolveType: transformTypeResolver(old.ResolveType, ctx),
	}
	if ts.Interface != nil {
		if err := ts.Interface(&cfg, ctx); err != nil {
			return nil, err
		}
	}
	return graphql.NewInterface(cfg), nil
}

// cloneObject must run after every Interface the object implements has
// already been cloned: ObjectConfig.Interfaces is evaluated eagerly by
// graphql-go, unlike Fields.
func cloneObject(old *graphql.Object, ts TransformerSet, ctx *Context) (*graphql.Object, error) {
	typeName := old.Name()
	oldFields := old.Fields()

	ifaces := make([]*graphql.Interface, 0, len(old.Interfaces()))
	for _, oi := range old.Interfaces() {
		mapped, err := ctx.FindType(oi.Name())
		if err != nil {
			return nil, err
		}
		ifaces = append(ifaces, mapped.(*graphql.Interface))
	}

	cfg := graphql.ObjectConfig{
		Name:        typeName,
		Description: old.Description(),
		Interfaces:  ifaces,
		IsTypeOf:    old.IsTypeOf,
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return buildFields(typeName, oldFields, ts, ctx)
		}),
	}
	if ts.Object != nil {
		if err := ts.Object(typeName, &cfg, ctx); err != nil {
			return nil, err
		}
	}
	return graphql.NewObject(cfg), nil
}

// cloneUnion must run after every member Object has been cloned:
// UnionConfig.Types is eager, same reasoning as Object.Interfaces.
func cloneUnion(old *graphql.Union, ts TransformerSet, ctx *Context) (*graphql.Union, error) {
	types := make([]*graphql.Object, 0, len(old.Types()))
	for _, ot := range old.Types() {
		mapped, err := ctx.FindType(ot.Name())
		if err != nil {
			return nil, err
		}
		types = append(types, mapped.(*graphql.Object))
	}
	cfg := graphql.UnionConfig{
		Name:        old.Name(),
		Description: old.Description(),
		Types:       types,
		ResolveType: transformTypeResolver(old.ResolveType, ctx),
	}
	if ts.Union != nil {
		if err := ts.Union(&cfg, ctx); err != nil {
			return nil, err
		}
	}
	return graphql.NewUnion(cfg), nil
}

func cloneInputObject(old *graphql.InputObject, ts TransformerSet, ctx *Context) (*graphql.InputObject, error) {
	typeName := old.Name()
	oldFields := old.Fields()
	// Input fields are thunked like object fields: an input object may
	// reference itself or a type that has not been cloned yet.
	fields := graphql.InputObjectConfigFieldMapThunk(func() graphql.InputObjectConfigFieldMap {
		out := graphql.InputObjectConfigFieldMap{}
		for name, def := range oldFields {
			mapped, err := ctx.MapType(def.Type)
			if err != nil {
				panic(err)
			}
			fc := &graphql.InputObjectFieldConfig{
				Type:         mapped,
				DefaultValue: def.DefaultValue,
				Description:  def.Description(),
			}
			if ts.InputField != nil {
				if err := ts.InputField(typeName, name, fc, ctx); err != nil {
					panic(err)
				}
			}
			out[name] = fc
		}
		return out
	})
	cfg := graphql.InputObjectConfig{
		Name:        typeName,
		Description: old.Description(),
		Fields:      fields,
	}
	if ts.InputObject != nil {
		if err := ts.InputObject(&cfg, ctx); err != nil {
			return nil, err
		}
	}
	return graphql.NewInputObject(cfg), nil
}

func cloneDirective(old *graphql.Directive, ts TransformerSet, ctx *Context) (*graphql.Directive, error) {
	args, err := convertArgsFromConfig(old.Args, ctx)
	if err != nil {
		return nil, err
	}
	cfg := graphql.DirectiveConfig{
		Name:        old.Name,
		Description: old.Description,
		Args:        args,
		Locations:   old.Locations,
	}
	if ts.Directive != nil {
		if err := ts.Directive(&cfg, ctx); err != nil {
			return nil, err
		}
	}
	return graphql.NewDirective(cfg), nil
}

func convertArgsFromConfig(old []*graphql.Argument, ctx *Context) (graphql.FieldConfigArgument, error) {
	return convertArgs(old, ctx)
}

// transformTypeResolver wraps an abstract type's ResolveType so that the
// object type it returns from the OLD schema is translated, by name,
// through ctx before being handed back to the executor.
func transformTypeResolver(old graphql.ResolveTypeFn, ctx *Context) graphql.ResolveTypeFn {
	if old == nil {
		return nil
	}
	return func(p graphql.ResolveTypeParams) *graphql.Object {
		result := old(p)
		if result == nil {
			return nil
		}
		mapped, err := ctx.FindType(result.Name())
		if err != nil {
			return nil
		}
		obj, _ := mapped.(*graphql.Object)
		return obj
	}
}
