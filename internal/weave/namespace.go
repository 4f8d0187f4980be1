package weave

import (
	"strings"

	"github.com/graphql-go/graphql"
)

// Separator joins a namespace and a type name to produce the merged
// schema's prefixed type name.
const Separator = "_"

// Renamer implements the forward (prefixing) and reverse (stripping)
// halves of one endpoint's namespace renaming. The empty namespace is
// a documented pass-through case: both directions are the identity.
type Renamer struct {
	Namespace string
}

// Forward prefixes name with the namespace, unless the namespace is
// empty.
func (r Renamer) Forward(name string) string {
	if r.Namespace == "" {
		return name
	}
	return r.Namespace + Separator + name
}

// Reverse strips the namespace prefix from name. Names that don't carry
// the prefix (native types, or names from a different namespace reached
// through a shared fragment set) are returned unchanged.
func (r Renamer) Reverse(name string) string {
	if r.Namespace == "" {
		return name
	}
	prefix := r.Namespace + Separator
	if strings.HasPrefix(name, prefix) {
		return name[len(prefix):]
	}
	return name
}

// NamespaceTransformer returns a TransformerSet that prefixes every
// non-native named type with namespace. It is the transformer C2 applies
// to every upstream schema during D2's boot-time rename pass.
func NamespaceTransformer(namespace string) TransformerSet {
	r := Renamer{Namespace: namespace}
	return TransformerSet{
		Scalar: func(cfg *graphql.ScalarConfig, ctx *Context) error {
			cfg.Name = r.Forward(cfg.Name)
			return nil
		},
		Enum: func(cfg *graphql.EnumConfig, ctx *Context) error {
			cfg.Name = r.Forward(cfg.Name)
			return nil
		},
		Interface: func(cfg *graphql.InterfaceConfig, ctx *Context) error {
			cfg.Name = r.Forward(cfg.Name)
			return nil
		},
		Union: func(cfg *graphql.UnionConfig, ctx *Context) error {
			cfg.Name = r.Forward(cfg.Name)
			return nil
		},
		InputObject: func(cfg *graphql.InputObjectConfig, ctx *Context) error {
			cfg.Name = r.Forward(cfg.Name)
			return nil
		},
		Object: func(typeName string, cfg *graphql.ObjectConfig, ctx *Context) error {
			cfg.Name = r.Forward(cfg.Name)
			return nil
		},
	}
}

// RootFieldRenameTransformer prefixes the field names of rootTypeNames
// (the old schema's own Query/Mutation/Subscription type names) with
// namespace, so that after merging, sibling endpoints' identically-
// named root fields don't collide. Non-root-type fields are untouched:
// only top-level field names carry the namespace prefix, not every
// field in the schema.
func RootFieldRenameTransformer(namespace string, rootTypeNames ...string) TransformerSet {
	r := Renamer{Namespace: namespace}
	isRoot := make(map[string]bool, len(rootTypeNames))
	for _, n := range rootTypeNames {
		if n != "" {
			isRoot[n] = true
		}
	}
	return TransformerSet{
		Field: func(typeName, fieldName string, cfg *graphql.Field, ctx *Context) error {
			if !isRoot[typeName] {
				return nil
			}
			cfg.Name = r.Forward(fieldName)
			return nil
		},
	}
}
