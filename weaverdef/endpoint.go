// Package weaverdef holds the wire-level configuration shapes for the
// schema-weaving proxy: one EndpointConfig per upstream, carrying its own
// LinkConfig map, plus the validation that turns a malformed document into
// a boot-fatal ConfigError before anything is introspected.
package weaverdef

import (
	"net/url"
	"strings"
)

// EndpointConfig is the configuration document's per-endpoint shape:
// name and url are required, namespace defaults to name, and links
// maps "ParentType.field" to a LinkConfig.
type EndpointConfig struct {
	Name              string                `json:"name"`
	URL               string                `json:"url"`
	NamespaceOverride *string               `json:"namespace,omitempty"`
	Links             map[string]LinkConfig `json:"links,omitempty"`
}

// LinkConfig declares a scalar field on one endpoint as a foreign key
// into a field on another endpoint.
type LinkConfig struct {
	Field     string `json:"field"`
	Argument  string `json:"argument"`
	BatchMode bool   `json:"batchMode,omitempty"`
	KeyField  string `json:"keyField,omitempty"`
}

// Namespace returns the effective namespace: the configured value, or
// Name if none was given. An explicit empty string is a deliberate
// pass-through namespace and is returned as-is.
func (e EndpointConfig) Namespace() string {
	if e.NamespaceOverride != nil {
		return *e.NamespaceOverride
	}
	return e.Name
}

func (e *EndpointConfig) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return newConfigError("", "name is required")
	}
	u, err := url.Parse(e.URL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return newConfigError(e.Name, "url must be an absolute http(s) URL, got %q", e.URL)
	}
	for path, link := range e.Links {
		if err := link.validate(path); err != nil {
			return newConfigError(e.Name, err.Error())
		}
	}
	return nil
}

func (l LinkConfig) validate(path string) error {
	if !strings.Contains(path, ".") {
		return &linkPathError{path: path, reason: "link key must be \"ParentType.field\""}
	}
	if l.Field == "" {
		return &linkPathError{path: path, reason: "field is required"}
	}
	if l.Argument == "" {
		return &linkPathError{path: path, reason: "argument is required"}
	}
	if l.BatchMode && l.KeyField == "" {
		// Order-preserving batch mode: the upstream must return
		// results in the same order the batched arguments were sent.
		return nil
	}
	return nil
}

type linkPathError struct {
	path   string
	reason string
}

func (e *linkPathError) Error() string {
	return e.path + ": " + e.reason
}

// DottedPath splits a dot-separated path such as "country.code" into its
// segments. Used to interpret LinkConfig.Field and LinkConfig.Argument.
func DottedPath(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ".")
}
