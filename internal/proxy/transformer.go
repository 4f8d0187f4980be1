package proxy

import (
	"github.com/graphql-go/graphql"

	"github.com/FX-HAO/graphql-weaver/internal/weave"
)

var rootTypeNames = map[string]bool{"Query": true, "Mutation": true, "Subscription": true}

// Transformer installs Resolve on every field of the merged schema's
// root types, replacing the sentinel routing resolver C3 put there.
func Transformer(registry *Registry) weave.TransformerSet {
	return weave.TransformerSet{
		Field: func(typeName, fieldName string, cfg *graphql.Field, ctx *weave.Context) error {
			if !rootTypeNames[typeName] {
				return nil
			}
			cfg.Resolve = registry.Resolve
			return nil
		},
	}
}
