package proxy

import (
	"strings"

	"github.com/FX-HAO/graphql-weaver/internal/gqlclient"
	"github.com/FX-HAO/graphql-weaver/internal/weave"
)

// Endpoint is everything the proxy resolver needs to dispatch to and
// reverse-rename selections for one upstream.
type Endpoint struct {
	Name      string
	Namespace string
	Client    gqlclient.Client
}

func (e Endpoint) renamer() weave.Renamer { return weave.Renamer{Namespace: e.Namespace} }

// Registry maps a merged-schema root-field name back to the endpoint
// that owns it, by namespace prefix.
type Registry struct {
	byNamespace map[string]Endpoint
	passthrough *Endpoint
}

// NewRegistry builds a Registry from the configured endpoints. At most
// one endpoint may use the empty (pass-through) namespace.
func NewRegistry(endpoints []Endpoint) *Registry {
	r := &Registry{byNamespace: map[string]Endpoint{}}
	for _, ep := range endpoints {
		if ep.Namespace == "" {
			cp := ep
			r.passthrough = &cp
			continue
		}
		r.byNamespace[ep.Namespace] = ep
	}
	return r
}

// OwnerOf splits a merged root-field name such as "A_hello" into the
// owning Endpoint and the field's unprefixed upstream name ("hello").
// Falls back to the pass-through endpoint, if configured, when no
// namespace prefix matches.
func (r *Registry) OwnerOf(fieldName string) (Endpoint, string, bool) {
	var best Endpoint
	bestPrefixLen := -1
	for ns, ep := range r.byNamespace {
		prefix := ns + weave.Separator
		if strings.HasPrefix(fieldName, prefix) && len(prefix) > bestPrefixLen {
			best = ep
			bestPrefixLen = len(prefix)
		}
	}
	if bestPrefixLen >= 0 {
		return best, fieldName[bestPrefixLen:], true
	}
	if r.passthrough != nil {
		return *r.passthrough, fieldName, true
	}
	return Endpoint{}, "", false
}
