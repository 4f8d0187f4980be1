package weave

import "github.com/graphql-go/graphql"

// Transform produces a new schema from old by cloning every named type
// and running transformers' callbacks over each. Interfaces are cloned
// first, then objects (which reference interfaces eagerly), then unions
// (which reference objects eagerly), then the remaining independent
// categories; field bodies are always thunked, so forward references
// among non-interface, non-union types resolve without error regardless
// of clone order.
//
// Field-building runs inside a FieldsThunk and therefore cannot return
// an error through graphql-go's API; UnknownTypeReferenceError and
// DuplicateFieldError raised while building a field map are recovered
// here and returned as an error from Transform instead, since both are
// transformer-configuration bugs rather than runtime conditions a
// caller should branch on.
func Transform(old *graphql.Schema, transformers ...TransformerSet) (newSchema *graphql.Schema, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()

	ts := CombineAll(transformers...)
	ctx := newContext()

	oldTypes := old.TypeMap()

	for name, t := range oldTypes {
		if IsNative(t) {
			ctx.types[name] = t
		}
	}

	for name, t := range oldTypes {
		iface, ok := t.(*graphql.Interface)
		if !ok || IsNative(t) {
			continue
		}
		cloned, err := cloneInterface(iface, ts, ctx)
		if err != nil {
			return nil, err
		}
		ctx.types[name] = cloned
	}

	for name, t := range oldTypes {
		obj, ok := t.(*graphql.Object)
		if !ok || IsNative(t) {
			continue
		}
		cloned, err := cloneObject(obj, ts, ctx)
		if err != nil {
			return nil, err
		}
		ctx.types[name] = cloned
	}

	for name, t := range oldTypes {
		union, ok := t.(*graphql.Union)
		if !ok || IsNative(t) {
			continue
		}
		cloned, err := cloneUnion(union, ts, ctx)
		if err != nil {
			return nil, err
		}
		ctx.types[name] = cloned
	}

	for name, t := range oldTypes {
		if IsNative(t) {
			continue
		}
		switch typed := t.(type) {
		case *graphql.Scalar:
			cloned, err := cloneScalar(typed, ts, ctx)
			if err != nil {
				return nil, err
			}
			ctx.types[name] = cloned
		case *graphql.Enum:
			cloned, err := cloneEnum(typed, ts, ctx)
			if err != nil {
				return nil, err
			}
			ctx.types[name] = cloned
		case *graphql.InputObject:
			cloned, err := cloneInputObject(typed, ts, ctx)
			if err != nil {
				return nil, err
			}
			ctx.types[name] = cloned
		}
	}

	var directives []*graphql.Directive
	for _, d := range old.Directives() {
		if IsNativeDirective(d) {
			directives = append(directives, d)
			continue
		}
		cloned, err := cloneDirective(d, ts, ctx)
		if err != nil {
			return nil, err
		}
		directives = append(directives, cloned)
	}

	schemaConfig := graphql.SchemaConfig{
		Directives: directives,
	}
	if q := old.QueryType(); q != nil {
		mapped, err := ctx.FindType(q.Name())
		if err != nil {
			return nil, err
		}
		schemaConfig.Query = mapped.(*graphql.Object)
	}
	if m := old.MutationType(); m != nil {
		mapped, err := ctx.FindType(m.Name())
		if err != nil {
			return nil, err
		}
		schemaConfig.Mutation = mapped.(*graphql.Object)
	}
	if s := old.SubscriptionType(); s != nil {
		mapped, err := ctx.FindType(s.Name())
		if err != nil {
			return nil, err
		}
		schemaConfig.Subscription = mapped.(*graphql.Object)
	}
	for _, t := range ctx.types {
		schemaConfig.Types = append(schemaConfig.Types, t)
	}

	built, err := graphql.NewSchema(schemaConfig)
	if err != nil {
		return nil, err
	}
	return &built, nil
}
