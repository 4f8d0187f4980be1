// Package introspect fetches a standard GraphQL introspection document
// from an upstream endpoint and builds a *graphql.Schema from it,
// mirroring the "kind"/"name"/"ofType" JSON shape the example pack's
// schema-federation code already interprets type references by.
package introspect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/FX-HAO/graphql-weaver/log"
)

const introspectionQuery = `
query IntrospectionQuery {
  __schema {
    queryType { name }
    mutationType { name }
    subscriptionType { name }
    types { ...FullType }
    directives {
      name
      description
      locations
      args { ...InputValue }
    }
  }
}
fragment FullType on __Type {
  kind
  name
  description
  fields(includeDeprecated: true) {
    name
    description
    args { ...InputValue }
    type { ...TypeRef }
    isDeprecated
    deprecationReason
  }
  inputFields { ...InputValue }
  interfaces { ...TypeRef }
  enumValues(includeDeprecated: true) {
    name
    description
    isDeprecated
    deprecationReason
  }
  possibleTypes { ...TypeRef }
}
fragment InputValue on __InputValue {
  name
  description
  type { ...TypeRef }
  defaultValue
}
fragment TypeRef on __Type {
  kind
  name
  ofType {
    kind
    name
    ofType {
      kind
      name
      ofType {
        kind
        name
        ofType {
          kind
          name
          ofType {
            kind
            name
            ofType {
              kind
              name
              ofType {
                kind
                name
              }
            }
          }
        }
      }
    }
  }
}
`

// TypeRef is the recursive kind/name/ofType shape introspection uses
// for every type reference (a field's type, an argument's type, an
// interface or possible-type entry).
type TypeRef struct {
	Kind   string   `json:"kind"`
	Name   *string  `json:"name"`
	OfType *TypeRef `json:"ofType"`
}

type inputValue struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Type         TypeRef         `json:"type"`
	DefaultValue json.RawMessage `json:"defaultValue"`
}

type fieldDef struct {
	Name              string       `json:"name"`
	Description       string       `json:"description"`
	Args              []inputValue `json:"args"`
	Type              TypeRef      `json:"type"`
	IsDeprecated      bool         `json:"isDeprecated"`
	DeprecationReason string       `json:"deprecationReason"`
}

type enumValue struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	IsDeprecated      bool   `json:"isDeprecated"`
	DeprecationReason string `json:"deprecationReason"`
}

// FullType is one entry of __schema.types: an object, interface,
// union, enum, scalar or input object, discriminated by Kind.
type FullType struct {
	Kind          string       `json:"kind"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Fields        []fieldDef   `json:"fields"`
	InputFields   []inputValue `json:"inputFields"`
	Interfaces    []TypeRef    `json:"interfaces"`
	EnumValues    []enumValue  `json:"enumValues"`
	PossibleTypes []TypeRef    `json:"possibleTypes"`
}

type directiveDef struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Locations   []string     `json:"locations"`
	Args        []inputValue `json:"args"`
}

type schemaShape struct {
	QueryType        *TypeRef       `json:"queryType"`
	MutationType     *TypeRef       `json:"mutationType"`
	SubscriptionType *TypeRef       `json:"subscriptionType"`
	Types            []FullType     `json:"types"`
	Directives       []directiveDef `json:"directives"`
}

// IntrospectionResult is the decoded "data.__schema" object D1 builds a
// *graphql.Schema from.
type IntrospectionResult struct {
	Schema schemaShape `json:"__schema"`
}

type introspectionRequestBody struct {
	Query string `json:"query"`
}

type introspectionResponseBody struct {
	Data   *IntrospectionResult `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors,omitempty"`
}

// Fetch issues the standard introspection query against endpointURL and
// decodes the result. A non-2xx status, an unparsable body, a nil data
// payload, or a non-empty top-level errors array all produce an
// *IntrospectionFailure naming endpoint.
func Fetch(ctx context.Context, endpoint, endpointURL string) (*IntrospectionResult, error) {
	body, err := json.Marshal(introspectionRequestBody{Query: introspectionQuery})
	if err != nil {
		return nil, &IntrospectionFailure{Endpoint: endpoint, Reason: "encoding introspection request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, bytes.NewReader(body))
	if err != nil {
		return nil, &IntrospectionFailure{Endpoint: endpoint, Reason: "building introspection request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	log.Get().WithField("endpoint", endpoint).Info("fetching introspection")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, &IntrospectionFailure{Endpoint: endpoint, Reason: "transport error", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &IntrospectionFailure{Endpoint: endpoint, Reason: "reading introspection response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &IntrospectionFailure{Endpoint: endpoint, Reason: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	var parsed introspectionResponseBody
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &IntrospectionFailure{Endpoint: endpoint, Reason: "decoding introspection response", Err: err}
	}
	if len(parsed.Errors) > 0 {
		return nil, &IntrospectionFailure{Endpoint: endpoint, Reason: fmt.Sprintf("upstream returned %d error(s) from introspection: %s", len(parsed.Errors), parsed.Errors[0].Message)}
	}
	if parsed.Data == nil {
		return nil, &IntrospectionFailure{Endpoint: endpoint, Reason: "introspection response had no data"}
	}
	return parsed.Data, nil
}
