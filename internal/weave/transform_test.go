package weave

import (
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSchema(t *testing.T, cfg graphql.SchemaConfig) *graphql.Schema {
	t.Helper()
	s, err := graphql.NewSchema(cfg)
	require.NoError(t, err)
	return &s
}

// selfReferentialSchema builds `type Node { id: ID!, next: Node }` with
// `Query { node: Node }`, the canonical cycle a naive cloner would loop
// forever (or panic) on.
func selfReferentialSchema(t *testing.T) *graphql.Schema {
	t.Helper()
	var node *graphql.Object
	node = graphql.NewObject(graphql.ObjectConfig{
		Name: "Node",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
				"next": &graphql.Field{Type: node},
			}
		}),
	})
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"node": &graphql.Field{Type: node},
		},
	})
	return mustSchema(t, graphql.SchemaConfig{Query: query})
}

func TestTransform_IdentityPreservesTypeNamesAndFieldSignatures(t *testing.T) {
	old := selfReferentialSchema(t)
	transformed, err := Transform(old)
	require.NoError(t, err)

	oldNode := old.Type("Node").(*graphql.Object)
	newNode := transformed.Type("Node").(*graphql.Object)
	require.NotNil(t, newNode)
	assert.Equal(t, oldNode.Name(), newNode.Name())

	oldFields := oldNode.Fields()
	newFields := newNode.Fields()
	assert.Equal(t, len(oldFields), len(newFields))
	for name, f := range oldFields {
		nf, ok := newFields[name]
		require.True(t, ok)
		assert.Equal(t, f.Type.String(), nf.Type.String())
	}
}

func TestTransform_SelfReferentialObjectResolvesWithoutError(t *testing.T) {
	old := selfReferentialSchema(t)
	transformed, err := Transform(old, NamespaceTransformer("NS"))
	require.NoError(t, err)

	newNode, ok := transformed.Type("NS_Node").(*graphql.Object)
	require.True(t, ok, "expected NS_Node to exist")

	fields := newNode.Fields()
	nextField, ok := fields["next"]
	require.True(t, ok)
	assert.Equal(t, "NS_Node", nextField.Type.Name())
}

func TestTransform_MutuallyReferentialInterfaceAndObject(t *testing.T) {
	var animal *graphql.Interface
	var dog *graphql.Object
	animal = graphql.NewInterface(graphql.InterfaceConfig{
		Name: "Animal",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"name":   &graphql.Field{Type: graphql.String},
				"friend": &graphql.Field{Type: animal},
			}
		}),
		ResolveType: func(p graphql.ResolveTypeParams) *graphql.Object { return dog },
	})
	dog = graphql.NewObject(graphql.ObjectConfig{
		Name:       "Dog",
		Interfaces: []*graphql.Interface{animal},
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"name":   &graphql.Field{Type: graphql.String},
				"friend": &graphql.Field{Type: animal},
			}
		}),
	})
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"animal": &graphql.Field{Type: animal},
		},
	})
	old := mustSchema(t, graphql.SchemaConfig{Query: query, Types: []graphql.Type{dog}})

	transformed, err := Transform(old, NamespaceTransformer("NS"))
	require.NoError(t, err)

	newDog, ok := transformed.Type("NS_Dog").(*graphql.Object)
	require.True(t, ok)
	require.Len(t, newDog.Interfaces(), 1)
	assert.Equal(t, "NS_Animal", newDog.Interfaces()[0].Name())
}

func TestTransform_DuplicateFieldIsFatal(t *testing.T) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"a": &graphql.Field{Type: graphql.String},
			"b": &graphql.Field{Type: graphql.String},
		},
	})
	old := mustSchema(t, graphql.SchemaConfig{Query: query})

	renameBToA := TransformerSet{
		Field: func(typeName, fieldName string, cfg *graphql.Field, ctx *Context) error {
			if fieldName == "b" {
				cfg.Name = "a"
			}
			return nil
		},
	}
	_, err := Transform(old, renameBToA)
	require.Error(t, err)
	var dup *DuplicateFieldError
	assert.ErrorAs(t, err, &dup)
}

func TestCombine_IsAssociativeWithEmptyIdentity(t *testing.T) {
	calls := []string{}
	mk := func(tag string) TransformerSet {
		return TransformerSet{
			Scalar: func(cfg *graphql.ScalarConfig, ctx *Context) error {
				calls = append(calls, tag)
				return nil
			},
		}
	}
	a, b, c := mk("a"), mk("b"), mk("c")

	left := Combine(Combine(a, b), c)
	right := Combine(a, Combine(b, c))

	cfg1 := &graphql.ScalarConfig{Name: "X"}
	calls = nil
	_ = left.Scalar(cfg1, nil)
	leftOrder := append([]string{}, calls...)

	cfg2 := &graphql.ScalarConfig{Name: "X"}
	calls = nil
	_ = right.Scalar(cfg2, nil)
	rightOrder := append([]string{}, calls...)

	assert.Equal(t, leftOrder, rightOrder)

	identity := Combine(TransformerSet{}, a)
	calls = nil
	_ = identity.Scalar(cfg1, nil)
	assert.Equal(t, []string{"a"}, calls)
}
