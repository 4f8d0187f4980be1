// Package weaver implements the boot-time pipeline that turns a set of
// endpoint configurations into one merged, fully-resolvable
// *graphql.Schema: introspect each upstream, namespace-rename it,
// merge the results, then install the proxy and link resolvers.
package weaver

import (
	"context"
	"sync"

	"github.com/graphql-go/graphql"
	"github.com/pkg/errors"

	"github.com/FX-HAO/graphql-weaver/internal/gqlclient"
	"github.com/FX-HAO/graphql-weaver/internal/introspect"
	"github.com/FX-HAO/graphql-weaver/internal/link"
	"github.com/FX-HAO/graphql-weaver/internal/merge"
	"github.com/FX-HAO/graphql-weaver/internal/proxy"
	"github.com/FX-HAO/graphql-weaver/internal/weave"
	"github.com/FX-HAO/graphql-weaver/weaverdef"
)

type endpointResult struct {
	config weaverdef.EndpointConfig
	schema *graphql.Schema
	err    error
}

// Weave runs the full pipeline described by the package comment and
// returns the merged schema, or the first boot-fatal error encountered.
// Errors raised while installing an individual link are never
// boot-fatal: they're sent to report and weaving continues without that
// link.
func Weave(ctx context.Context, cfg []weaverdef.EndpointConfig, report WeavingErrorReporter) (*graphql.Schema, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	results := fetchAndBuild(ctx, cfg)

	renamed := make([]merge.Named, 0, len(results))
	registryEndpoints := make([]proxy.Endpoint, 0, len(results))
	allSpecs := map[string]*link.Spec{}
	specEndpoint := map[string]string{} // link path -> endpoint that configured it

	for _, r := range results {
		if r.err != nil {
			return nil, errors.Wrapf(r.err, "endpoint %q", r.config.Name)
		}
		namespace := r.config.Namespace()

		rootNames := rootTypeNames(r.schema)
		renamedSchema, err := weave.Transform(r.schema,
			weave.NamespaceTransformer(namespace),
			weave.RootFieldRenameTransformer(namespace, rootNames...),
		)
		if err != nil {
			return nil, err
		}
		renamed = append(renamed, merge.Named{Endpoint: r.config.Name, Schema: renamedSchema})

		registryEndpoints = append(registryEndpoints, proxy.Endpoint{
			Name:      r.config.Name,
			Namespace: namespace,
			Client:    gqlclient.NewHTTPClient(r.config.Name, r.config.URL, nil),
		})

		specs, err := link.CompileAll(r.config.Links)
		if err != nil {
			return nil, err
		}
		renamer := weave.Renamer{Namespace: namespace}
		for path, spec := range specs {
			spec.TypeName = renamer.Forward(spec.TypeName)
			allSpecs[renamer.Forward(path)] = spec
			specEndpoint[renamer.Forward(path)] = r.config.Name
		}
	}

	merged, err := merge.Merge(renamed)
	if err != nil {
		return nil, err
	}

	registry := proxy.NewRegistry(registryEndpoints)

	final, err := weave.Transform(merged,
		proxy.Transformer(registry),
		link.Transformer(registry, merged, allSpecs, func(path string, err error) {
			if report != nil {
				endpoint := specEndpoint[path]
				report(endpoint, &WeavingError{Endpoint: endpoint, Path: path, Err: err})
			}
		}),
	)
	if err != nil {
		return nil, err
	}
	return final, nil
}

func validateConfig(cfg []weaverdef.EndpointConfig) error {
	seen := map[string]bool{}
	for i := range cfg {
		if err := cfg[i].Validate(); err != nil {
			return err
		}
		if seen[cfg[i].Name] {
			return &weaverdef.ConfigError{Endpoint: cfg[i].Name, Reason: "duplicate endpoint name"}
		}
		seen[cfg[i].Name] = true
	}
	return nil
}

// fetchAndBuild introspects and builds a schema for every endpoint
// concurrently. The goroutine count is bounded by the (small,
// boot-time-only) set of configured endpoints, so a plain WaitGroup is
// enough; there's no need for a worker pool.
func fetchAndBuild(ctx context.Context, cfg []weaverdef.EndpointConfig) []endpointResult {
	results := make([]endpointResult, len(cfg))
	var wg sync.WaitGroup
	for i, ep := range cfg {
		wg.Add(1)
		go func(i int, ep weaverdef.EndpointConfig) {
			defer wg.Done()
			results[i] = endpointResult{config: ep}
			raw, err := introspect.Fetch(ctx, ep.Name, ep.URL)
			if err != nil {
				results[i].err = err
				return
			}
			schema, err := introspect.BuildSchema(ep.Name, raw)
			if err != nil {
				results[i].err = err
				return
			}
			results[i].schema = schema
		}(i, ep)
	}
	wg.Wait()
	return results
}

func rootTypeNames(schema *graphql.Schema) []string {
	var names []string
	if q := schema.QueryType(); q != nil {
		names = append(names, q.Name())
	}
	if m := schema.MutationType(); m != nil {
		names = append(names, m.Name())
	}
	if s := schema.SubscriptionType(); s != nil {
		names = append(names, s.Name())
	}
	return names
}
