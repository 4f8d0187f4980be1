package proxy

import "fmt"

// ReservedFieldAliasError is raised before any network call when a
// selection aliases a non-__typename field to __typename.
type ReservedFieldAliasError struct {
	Endpoint string
	Alias    string
}

func (e *ReservedFieldAliasError) Error() string {
	return fmt.Sprintf("proxy: %s: field aliased to reserved name %q", e.Endpoint, e.Alias)
}

// UpstreamContractViolationError is raised when the upstream response
// is missing the data at the alias path the proxy resolver expected.
type UpstreamContractViolationError struct {
	Endpoint string
	Path     []string
	Reason   string
}

func (e *UpstreamContractViolationError) Error() string {
	return fmt.Sprintf("proxy: %s: response at %v: %s", e.Endpoint, e.Path, e.Reason)
}
