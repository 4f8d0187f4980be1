// Package server exposes a woven schema as a standard
// GraphQL-over-HTTP endpoint.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/FX-HAO/graphql-weaver/internal/reqctx"
	"github.com/FX-HAO/graphql-weaver/log"
)

// Server serves one merged *graphql.Schema over HTTP.
type Server struct {
	Schema *graphql.Schema
}

// New returns a Server for schema.
func New(schema *graphql.Schema) *Server {
	return &Server{Schema: schema}
}

type requestBody struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// ServeHTTP decodes a GraphQL-over-HTTP request, threads a fresh error
// collector onto the request's context so the proxy and link resolvers
// can attach rewritten upstream errors at arbitrary paths, runs the
// query, and merges the collector's contents into the response before
// writing it.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "graphql-weaver only accepts POST", http.StatusMethodNotAllowed)
		return
	}

	var body requestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	ctx, collector := reqctx.WithCollector(r.Context())

	result := graphql.Do(graphql.Params{
		Schema:         *s.Schema,
		RequestString:  body.Query,
		VariableValues: body.Variables,
		OperationName:  body.OperationName,
		Context:        ctx,
	})
	result.Errors = append(result.Errors, collector.Errors()...)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Get().WithError(err).Error("encoding graphql response")
	}
}
