// Package errpath shifts the path of an error embedded in a sub-query
// response into the outer response's coordinate system, so a client
// sees one continuous error path through the merged schema.
package errpath

import "github.com/graphql-go/graphql/gqlerrors"

// Rewrite produces a new FormattedError whose Path is outerPath
// followed by the tail of e.Path remaining after its first
// removePrefixLength segments are dropped (these correspond to the
// ancestor selection chain the proxy or link resolver injected around
// the sub-query). All other fields of e are preserved.
func Rewrite(e gqlerrors.FormattedError, outerPath []interface{}, removePrefixLength int) gqlerrors.FormattedError {
	tail := e.Path
	if removePrefixLength > 0 {
		if removePrefixLength > len(tail) {
			removePrefixLength = len(tail)
		}
		tail = tail[removePrefixLength:]
	}

	newPath := make([]interface{}, 0, len(outerPath)+len(tail))
	newPath = append(newPath, outerPath...)
	newPath = append(newPath, tail...)

	out := e
	out.Path = newPath
	return out
}

// RewriteAll applies Rewrite to every error in errs.
func RewriteAll(errs []gqlerrors.FormattedError, outerPath []interface{}, removePrefixLength int) []gqlerrors.FormattedError {
	if len(errs) == 0 {
		return nil
	}
	out := make([]gqlerrors.FormattedError, len(errs))
	for i, e := range errs {
		out[i] = Rewrite(e, outerPath, removePrefixLength)
	}
	return out
}
