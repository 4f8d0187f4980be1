// Package merge combines N already-namespaced endpoint schemas into
// one, synthesizing Query, Mutation, and Subscription root types whose
// fields delegate, by endpoint, to whichever resolver the proxy layer
// installs on the field afterwards.
package merge

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/FX-HAO/graphql-weaver/internal/weave"
)

// NamespaceCollisionError is raised when two endpoints produce the same
// prefixed type name. Boot-fatal.
type NamespaceCollisionError struct {
	TypeName  string
	Endpoints []string
}

func (e *NamespaceCollisionError) Error() string {
	return fmt.Sprintf("merge: type %q defined by more than one endpoint: %v", e.TypeName, e.Endpoints)
}

// Named pairs an already-renamed endpoint schema with the endpoint name
// that produced it, for NamespaceCollisionError reporting.
type Named struct {
	Endpoint string
	Schema   *graphql.Schema
}

// rootSourceSentinel is what every merged root-field resolver returns.
// It carries no data; C4's proxy resolver ignores Source entirely and
// reconstructs everything it needs from ResolveInfo, so the sentinel
// only exists to make it obvious to a reader that this resolver is a
// placeholder, not the real one.
type rootSourceSentinel struct{ Endpoint string }

func rootResolver(endpoint string) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		return rootSourceSentinel{Endpoint: endpoint}, nil
	}
}

// Merge combines schemas into one. Root operation types no endpoint
// ever defined are omitted from the result.
func Merge(schemas []Named) (*graphql.Schema, error) {
	queryFields := graphql.Fields{}
	mutationFields := graphql.Fields{}
	subscriptionFields := graphql.Fields{}
	owner := map[string][]string{} // type name -> endpoints that defined it
	types := map[string]graphql.Type{}
	var directives []*graphql.Directive
	seenDirectives := map[string]bool{}

	for _, n := range schemas {
		if err := mergeRootFields(queryFields, n.Schema.QueryType(), n.Endpoint); err != nil {
			return nil, err
		}
		if err := mergeRootFields(mutationFields, n.Schema.MutationType(), n.Endpoint); err != nil {
			return nil, err
		}
		if err := mergeRootFields(subscriptionFields, n.Schema.SubscriptionType(), n.Endpoint); err != nil {
			return nil, err
		}

		for name, t := range n.Schema.TypeMap() {
			if weave.IsNative(t) {
				continue
			}
			// The endpoint's own root types are replaced by the merged
			// root types built below.
			if obj, ok := t.(*graphql.Object); ok && (obj == n.Schema.QueryType() || obj == n.Schema.MutationType() || obj == n.Schema.SubscriptionType()) {
				continue
			}
			owner[name] = append(owner[name], n.Endpoint)
			if len(owner[name]) > 1 {
				return nil, &NamespaceCollisionError{TypeName: name, Endpoints: owner[name]}
			}
			types[name] = t
		}

		for _, d := range n.Schema.Directives() {
			if weave.IsNativeDirective(d) || seenDirectives[d.Name] {
				continue
			}
			seenDirectives[d.Name] = true
			directives = append(directives, d)
		}
	}

	cfg := graphql.SchemaConfig{Directives: directives}
	if len(queryFields) > 0 {
		cfg.Query = graphql.NewObject(graphql.ObjectConfig{Name: "Query", Fields: queryFields})
	}
	if len(mutationFields) > 0 {
		cfg.Mutation = graphql.NewObject(graphql.ObjectConfig{Name: "Mutation", Fields: mutationFields})
	}
	if len(subscriptionFields) > 0 {
		cfg.Subscription = graphql.NewObject(graphql.ObjectConfig{Name: "Subscription", Fields: subscriptionFields})
	}
	for _, t := range types {
		cfg.Types = append(cfg.Types, t)
	}

	built, err := graphql.NewSchema(cfg)
	if err != nil {
		return nil, err
	}
	return &built, nil
}

func mergeRootFields(into graphql.Fields, root *graphql.Object, endpoint string) error {
	if root == nil {
		return nil
	}
	for name, def := range root.Fields() {
		if _, dup := into[name]; dup {
			return &NamespaceCollisionError{TypeName: name, Endpoints: []string{endpoint}}
		}
		into[name] = &graphql.Field{
			Name:              def.Name,
			Type:              def.Type,
			Args:              argsFromDefinitions(def.Args),
			DeprecationReason: def.DeprecationReason,
			Description:       def.Description,
			Resolve:           rootResolver(endpoint),
		}
	}
	return nil
}

func argsFromDefinitions(old []*graphql.Argument) graphql.FieldConfigArgument {
	if len(old) == 0 {
		return nil
	}
	out := graphql.FieldConfigArgument{}
	for _, a := range old {
		out[a.Name()] = &graphql.ArgumentConfig{
			Type:         a.Type,
			DefaultValue: a.DefaultValue,
			Description:  a.Description(),
		}
	}
	return out
}
