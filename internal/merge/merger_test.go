package merge

import (
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func helloSchema(t *testing.T, fieldName string) *graphql.Schema {
	t.Helper()
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			fieldName: &graphql.Field{Type: graphql.String},
		},
	})
	s, err := graphql.NewSchema(graphql.SchemaConfig{Query: query})
	require.NoError(t, err)
	return &s
}

// TestMerge_UnionsRootFieldsAcrossEndpoints exercises the literal
// scenario: two upstreams A and B each exposing a renamed root field;
// the merged Query carries both.
func TestMerge_UnionsRootFieldsAcrossEndpoints(t *testing.T) {
	a := helloSchema(t, "A_hello")
	b := helloSchema(t, "B_hello")

	merged, err := Merge([]Named{
		{Endpoint: "A", Schema: a},
		{Endpoint: "B", Schema: b},
	})
	require.NoError(t, err)

	query := merged.QueryType()
	require.NotNil(t, query)
	fields := query.Fields()
	assert.Contains(t, fields, "A_hello")
	assert.Contains(t, fields, "B_hello")
	assert.Len(t, fields, 2)
}

func TestMerge_DuplicateRootFieldNameIsNamespaceCollision(t *testing.T) {
	a := helloSchema(t, "hello")
	b := helloSchema(t, "hello")

	_, err := Merge([]Named{
		{Endpoint: "A", Schema: a},
		{Endpoint: "B", Schema: b},
	})
	require.Error(t, err)
	var collision *NamespaceCollisionError
	assert.ErrorAs(t, err, &collision)
}

func TestMerge_OmitsRootOperationNoEndpointDefines(t *testing.T) {
	a := helloSchema(t, "A_hello")

	merged, err := Merge([]Named{{Endpoint: "A", Schema: a}})
	require.NoError(t, err)

	assert.Nil(t, merged.MutationType())
	assert.Nil(t, merged.SubscriptionType())
}

func TestMerge_SharesDistinctTypesByName(t *testing.T) {
	personA := graphql.NewObject(graphql.ObjectConfig{
		Name: "A_Person",
		Fields: graphql.Fields{
			"name": &graphql.Field{Type: graphql.String},
		},
	})
	queryA := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"A_person": &graphql.Field{Type: personA},
		},
	})
	a, err := graphql.NewSchema(graphql.SchemaConfig{Query: queryA, Types: []graphql.Type{personA}})
	require.NoError(t, err)

	b := helloSchema(t, "B_hello")

	merged, err := Merge([]Named{{Endpoint: "A", Schema: &a}, {Endpoint: "B", Schema: b}})
	require.NoError(t, err)

	assert.NotNil(t, merged.Type("A_Person"))
}
