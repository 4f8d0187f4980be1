// Package weave implements the generic schema cloner/transformer: it
// produces a new *graphql.Schema from an old one by cloning every named
// type and running a chain of transformer callbacks over each, using
// graphql-go's FieldsThunk mechanism to break the recursive type
// references a GraphQL schema is riddled with.
package weave

import "fmt"

// UnknownTypeReferenceError indicates a transformer callback (or a
// caller of Context.MapType/FindType) referenced a type name that the
// schema being transformed does not define. This is always a bug in a
// transformer, never a runtime/request condition.
type UnknownTypeReferenceError struct {
	Name string
}

func (e *UnknownTypeReferenceError) Error() string {
	return fmt.Sprintf("weave: unknown type reference %q", e.Name)
}

// DuplicateFieldError indicates two fields with the same name were about
// to be installed on the same type, which is always a transformer bug
// (e.g. a Field callback that renames two different fields to the same
// output name).
type DuplicateFieldError struct {
	TypeName  string
	FieldName string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("weave: duplicate field %q on type %q", e.FieldName, e.TypeName)
}
