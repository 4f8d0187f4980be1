// Package link resolves cross-endpoint foreign-key fields: a scalar
// field on one merged type that names an argument on a root field of
// another (possibly the same) endpoint, installed as a synthetic field
// resolver by Transformer.
package link

import (
	"fmt"

	"github.com/FX-HAO/graphql-weaver/weaverdef"
)

// Spec is the dotted-path-resolved form of a weaverdef.LinkConfig: it
// names the scalar field holding the foreign-key value(s) and the
// target-field argument those values are bound to, plus how to fetch
// the target side.
type Spec struct {
	// TypeName and FieldName identify the object field this link
	// augments, e.g. "Country.code" decomposed.
	TypeName  string
	FieldName string

	// TargetField is the dotted path to the field that resolves the link,
	// e.g. []string{"reviews"} or []string{"billing", "account"}. Only
	// TargetField[0] is resolved, as a root Query field; later segments
	// are kept but not followed.
	TargetField []string

	// TargetArgument is the dotted path to the argument on TargetField
	// that the foreign-key value is bound to. Only TargetArgument[0] is
	// used.
	TargetArgument []string

	// BatchMode requests that all sibling instances of FieldName in one
	// response be resolved with a single sub-query instead of one per
	// instance.
	BatchMode bool

	// KeyField, when set, is the field in the batched target-field
	// response that matches rows back to the foreign-key value that
	// requested them; when empty in batch mode, results are matched
	// back to requests positionally instead.
	KeyField string
}

// Compile turns one wire LinkConfig, keyed by "ParentType.field" in
// path, into a Spec.
func Compile(path string, cfg weaverdef.LinkConfig) (*Spec, error) {
	typeName, fieldName, err := splitParentPath(path)
	if err != nil {
		return nil, err
	}
	return &Spec{
		TypeName:       typeName,
		FieldName:      fieldName,
		TargetField:    weaverdef.DottedPath(cfg.Field),
		TargetArgument: weaverdef.DottedPath(cfg.Argument),
		BatchMode:      cfg.BatchMode,
		KeyField:       cfg.KeyField,
	}, nil
}

// CompileAll compiles every entry of an endpoint's Links map.
func CompileAll(links map[string]weaverdef.LinkConfig) (map[string]*Spec, error) {
	out := make(map[string]*Spec, len(links))
	for path, cfg := range links {
		spec, err := Compile(path, cfg)
		if err != nil {
			return nil, err
		}
		out[path] = spec
	}
	return out, nil
}

func splitParentPath(path string) (typeName, fieldName string, err error) {
	segs := weaverdef.DottedPath(path)
	if len(segs) != 2 {
		return "", "", fmt.Errorf("link: %q is not a \"ParentType.field\" path", path)
	}
	return segs[0], segs[1], nil
}
