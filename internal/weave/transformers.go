package weave

import "github.com/graphql-go/graphql"

type (
	ScalarFn      func(cfg *graphql.ScalarConfig, ctx *Context) error
	EnumFn        func(cfg *graphql.EnumConfig, ctx *Context) error
	InterfaceFn   func(cfg *graphql.InterfaceConfig, ctx *Context) error
	UnionFn       func(cfg *graphql.UnionConfig, ctx *Context) error
	InputObjectFn func(cfg *graphql.InputObjectConfig, ctx *Context) error
	ObjectFn      func(typeName string, cfg *graphql.ObjectConfig, ctx *Context) error
	DirectiveFn   func(cfg *graphql.DirectiveConfig, ctx *Context) error
	FieldFn       func(typeName string, fieldName string, cfg *graphql.Field, ctx *Context) error
	InputFieldFn  func(typeName string, fieldName string, cfg *graphql.InputObjectFieldConfig, ctx *Context) error
	ExtraFieldsFn func(typeName string, oldFields graphql.FieldDefinitionMap, ctx *Context) (graphql.Fields, error)
)

// TransformerSet is a record of optional callbacks, one per schema AST
// category, run against every cloned type or field of that category.
// Any field may be nil.
type TransformerSet struct {
	Scalar      ScalarFn
	Enum        EnumFn
	Interface   InterfaceFn
	Union       UnionFn
	InputObject InputObjectFn
	Object      ObjectFn
	Directive   DirectiveFn
	Field       FieldFn
	InputField  InputFieldFn

	// ExtraFields, if set, is called once per object/interface type
	// after its cloned fields are built, to contribute synthetic fields
	// that have no counterpart on the old type (e.g. a link field).
	ExtraFields ExtraFieldsFn
}

// Combine fuses a and b by category: for each category, a's callback
// (if any) fires before b's, on the same config record. Failures in one
// do not prevent the other from running, but the first error
// encountered is what Combine's resulting callback returns. Combine is
// associative and TransformerSet{} is a right (and left) identity.
func Combine(a, b TransformerSet) TransformerSet {
	return TransformerSet{
		Scalar: combineScalar(a.Scalar, b.Scalar),
		Enum:   combineEnum(a.Enum, b.Enum),
		Interface:   combineInterface(a.Interface, b.Interface),
		Union:       combineUnion(a.Union, b.Union),
		InputObject: combineInputObject(a.InputObject, b.InputObject),
		Object:      combineObject(a.Object, b.Object),
		Directive:   combineDirective(a.Directive, b.Directive),
		Field:       combineField(a.Field, b.Field),
		InputField:  combineInputField(a.InputField, b.InputField),
		ExtraFields: combineExtraFields(a.ExtraFields, b.ExtraFields),
	}
}

// CombineAll folds Combine over a sequence of transformer sets, applied
// left to right.
func CombineAll(sets ...TransformerSet) TransformerSet {
	var out TransformerSet
	for _, s := range sets {
		out = Combine(out, s)
	}
	return out
}

func combineScalar(a, b ScalarFn) ScalarFn {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(cfg *graphql.ScalarConfig, ctx *Context) error {
		err1 := a(cfg, ctx)
		err2 := b(cfg, ctx)
		if err1 != nil {
			return err1
		}
		return err2
	}
}

func combineEnum(a, b EnumFn) EnumFn {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(cfg *graphql.EnumConfig, ctx *Context) error {
		err1 := a(cfg, ctx)
		err2 := b(cfg, ctx)
		if err1 != nil {
			return err1
		}
		return err2
	}
}

func combineInterface(a, b InterfaceFn) InterfaceFn {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(cfg *graphql.InterfaceConfig, ctx *Context) error {
		err1 := a(cfg, ctx)
		err2 := b(cfg, ctx)
		if err1 != nil {
			return err1
		}
		return err2
	}
}

func combineUnion(a, b UnionFn) UnionFn {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(cfg *graphql.UnionConfig, ctx *Context) error {
		err1 := a(cfg, ctx)
		err2 := b(cfg, ctx)
		if err1 != nil {
			return err1
		}
		return err2
	}
}

func combineInputObject(a, b InputObjectFn) InputObjectFn {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(cfg *graphql.InputObjectConfig, ctx *Context) error {
		err1 := a(cfg, ctx)
		err2 := b(cfg, ctx)
		if err1 != nil {
			return err1
		}
		return err2
	}
}

func combineObject(a, b ObjectFn) ObjectFn {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(typeName string, cfg *graphql.ObjectConfig, ctx *Context) error {
		err1 := a(typeName, cfg, ctx)
		err2 := b(typeName, cfg, ctx)
		if err1 != nil {
			return err1
		}
		return err2
	}
}

func combineDirective(a, b DirectiveFn) DirectiveFn {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(cfg *graphql.DirectiveConfig, ctx *Context) error {
		err1 := a(cfg, ctx)
		err2 := b(cfg, ctx)
		if err1 != nil {
			return err1
		}
		return err2
	}
}

func combineField(a, b FieldFn) FieldFn {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(typeName, fieldName string, cfg *graphql.Field, ctx *Context) error {
		err1 := a(typeName, fieldName, cfg, ctx)
		err2 := b(typeName, fieldName, cfg, ctx)
		if err1 != nil {
			return err1
		}
		return err2
	}
}

func combineInputField(a, b InputFieldFn) InputFieldFn {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(typeName, fieldName string, cfg *graphql.InputObjectFieldConfig, ctx *Context) error {
		err1 := a(typeName, fieldName, cfg, ctx)
		err2 := b(typeName, fieldName, cfg, ctx)
		if err1 != nil {
			return err1
		}
		return err2
	}
}

func combineExtraFields(a, b ExtraFieldsFn) ExtraFieldsFn {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(typeName string, oldFields graphql.FieldDefinitionMap, ctx *Context) (graphql.Fields, error) {
		fa, errA := a(typeName, oldFields, ctx)
		fb, errB := b(typeName, oldFields, ctx)
		if errA != nil {
			return nil, errA
		}
		if errB != nil {
			return nil, errB
		}
		out := graphql.Fields{}
		for k, v := range fa {
			out[k] = v
		}
		for k, v := range fb {
			if _, dup := out[k]; dup {
				return nil, &DuplicateFieldError{TypeName: typeName, FieldName: k}
			}
			out[k] = v
		}
		return out, nil
	}
}
