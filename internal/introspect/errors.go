package introspect

import "fmt"

// IntrospectionFailure reports a problem fetching or decoding an
// upstream's introspection response: a non-2xx status, a malformed
// body, or a populated top-level errors array.
type IntrospectionFailure struct {
	Endpoint string
	Reason   string
	Err      error
}

func (e *IntrospectionFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("introspect: %s: %s: %v", e.Endpoint, e.Reason, e.Err)
	}
	return fmt.Sprintf("introspect: %s: %s", e.Endpoint, e.Reason)
}

func (e *IntrospectionFailure) Unwrap() error { return e.Err }

// SchemaBuildError reports an inconsistency found while turning an
// IntrospectionResult into a *graphql.Schema: a dangling type
// reference, an unrecognized type kind, or a malformed type ref.
type SchemaBuildError struct {
	Endpoint string
	TypeName string
	Reason   string
}

func (e *SchemaBuildError) Error() string {
	if e.TypeName == "" {
		return fmt.Sprintf("introspect: %s: %s", e.Endpoint, e.Reason)
	}
	return fmt.Sprintf("introspect: %s: type %q: %s", e.Endpoint, e.TypeName, e.Reason)
}
