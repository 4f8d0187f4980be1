package weave

import "github.com/graphql-go/graphql"

// Context is handed to every transformer callback invoked during a
// Transform pass. It exposes lookups into the partial new-type map being
// built: MapType recurses through list/non-null wrappers, FindType looks
// a named type up directly.
type Context struct {
	types map[string]graphql.Type // keyed by the OLD type's name
}

func newContext() *Context {
	return &Context{types: map[string]graphql.Type{}}
}

// MapType translates a reference to an old type into its new
// counterpart, recreating List/NonNull wrappers around the mapped inner
// type. Native types (built-in scalars, introspection types) are
// returned unchanged by reference.
func (c *Context) MapType(old graphql.Type) (graphql.Type, error) {
	switch t := old.(type) {
	case *graphql.NonNull:
		inner, err := c.MapType(t.OfType)
		if err != nil {
			return nil, err
		}
		return graphql.NewNonNull(inner), nil
	case *graphql.List:
		inner, err := c.MapType(t.OfType)
		if err != nil {
			return nil, err
		}
		return graphql.NewList(inner), nil
	default:
		if IsNative(old) {
			return old, nil
		}
		return c.FindType(old.Name())
	}
}

// FindType looks up a named type by its OLD name in the partial type
// map. Transformer callbacks use this to reach a type the old schema
// names but which the config record itself doesn't directly reference
// (e.g. resolving an abstract-type resolver's returned name).
func (c *Context) FindType(oldName string) (graphql.Type, error) {
	if t, ok := c.types[oldName]; ok {
		return t, nil
	}
	return nil, &UnknownTypeReferenceError{Name: oldName}
}
