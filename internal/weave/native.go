package weave

import (
	"strings"

	"github.com/graphql-go/graphql"
)

var nativeScalars = map[graphql.Type]bool{
	graphql.Boolean: true,
	graphql.Int:     true,
	graphql.Float:   true,
	graphql.String:  true,
	graphql.ID:      true,
}

// IsNative reports whether t is a built-in scalar singleton or an
// introspection type (name begins with "__"). Native types pass through
// a Transform unchanged, by reference.
func IsNative(t graphql.Type) bool {
	if nativeScalars[t] {
		return true
	}
	return strings.HasPrefix(t.Name(), "__")
}

var nativeDirectiveNames = map[string]bool{
	"skip":       true,
	"include":    true,
	"deprecated": true,
}

// IsNativeDirective reports whether d is one of the three directives
// every GraphQL schema defines implicitly (@skip, @include,
// @deprecated). Native directives pass through unchanged.
func IsNativeDirective(d *graphql.Directive) bool {
	return nativeDirectiveNames[d.Name]
}
