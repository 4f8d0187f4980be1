// Package gqlclient implements the (document, variables, context) ->
// ExecutionResult contract the proxy and link resolvers dispatch
// sub-queries through. It is the only package that talks to upstream
// endpoints at request time; boot-time introspection fetching lives in
// package introspect.
package gqlclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/printer"

	"github.com/FX-HAO/graphql-weaver/log"
)

// Client dispatches one sub-query document against a single upstream
// endpoint and returns its ExecutionResult.
type Client interface {
	Execute(ctx context.Context, document *ast.Document, variableValues map[string]interface{}) (*graphql.Result, error)
}

// SubqueryError wraps a transport or decode failure talking to an
// upstream. Upstream GraphQL-level errors are not wrapped this way;
// they travel inline in the returned *graphql.Result.
type SubqueryError struct {
	Endpoint string
	Reason   string
	Err      error
}

func (e *SubqueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gqlclient: %s: %s: %v", e.Endpoint, e.Reason, e.Err)
	}
	return fmt.Sprintf("gqlclient: %s: %s", e.Endpoint, e.Reason)
}

func (e *SubqueryError) Unwrap() error { return e.Err }

// HTTPClient is the default Client, printing the AST document with
// graphql-go's own printer and POSTing it as a standard
// GraphQL-over-HTTP request.
type HTTPClient struct {
	Endpoint   string
	URL        string
	HTTPClient *http.Client
}

// NewHTTPClient returns an HTTPClient for one endpoint, using
// http.DefaultClient if httpClient is nil.
func NewHTTPClient(endpoint, url string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{Endpoint: endpoint, URL: url, HTTPClient: httpClient}
}

type requestBody struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type responseBody struct {
	Data   interface{}        `json:"data"`
	Errors []responseBodyItem `json:"errors,omitempty"`
}

type responseBodyItem struct {
	Message   string        `json:"message"`
	Path      []interface{} `json:"path,omitempty"`
	Locations []struct {
		Line   int `json:"line"`
		Column int `json:"column"`
	} `json:"locations,omitempty"`
}

func (c *HTTPClient) Execute(ctx context.Context, document *ast.Document, variableValues map[string]interface{}) (*graphql.Result, error) {
	query := printer.Print(document)
	queryStr, ok := query.(string)
	if !ok {
		return nil, &SubqueryError{Endpoint: c.Endpoint, Reason: "printed document was not a string"}
	}

	body, err := json.Marshal(requestBody{Query: queryStr, Variables: variableValues})
	if err != nil {
		return nil, &SubqueryError{Endpoint: c.Endpoint, Reason: "encoding request body", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, &SubqueryError{Endpoint: c.Endpoint, Reason: "building request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	log.Get().WithField("endpoint", c.Endpoint).Debug("dispatching sub-query")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &SubqueryError{Endpoint: c.Endpoint, Reason: "transport error", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &SubqueryError{Endpoint: c.Endpoint, Reason: "reading response body", Err: err}
	}

	var parsed responseBody
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &SubqueryError{Endpoint: c.Endpoint, Reason: fmt.Sprintf("decoding response body (status %d)", resp.StatusCode), Err: err}
	}

	result := &graphql.Result{Data: parsed.Data}
	for _, e := range parsed.Errors {
		result.Errors = append(result.Errors, gqlerrors.FormattedError{
			Message: e.Message,
			Path:    e.Path,
		})
	}
	return result, nil
}
