package ast

import (
	"github.com/graphql-go/graphql"
)

// ResponsePathToSlice flattens a ResponsePath into a root-to-leaf slice
// of its raw keys (string aliases and integer list indices), suitable
// for use as a GraphQL error's Path.
func ResponsePathToSlice(path *graphql.ResponsePath) []interface{} {
	var reversed []interface{}
	for p := path; p != nil; p = p.Prev {
		reversed = append(reversed, p.Key)
	}
	out := make([]interface{}, len(reversed))
	for i, k := range reversed {
		out[len(reversed)-1-i] = k
	}
	return out
}
