package link

import (
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FX-HAO/graphql-weaver/internal/proxy"
	"github.com/FX-HAO/graphql-weaver/internal/weave"
)

// buildMergedSchema stands in for a two-endpoint merge result: A_Person
// carries the foreign-key field, B_country is the already-namespaced
// root field that resolves it.
func buildMergedSchema(t *testing.T) *graphql.Schema {
	t.Helper()
	country := graphql.NewObject(graphql.ObjectConfig{
		Name: "B_Country",
		Fields: graphql.Fields{
			"name": &graphql.Field{Type: graphql.String},
		},
	})
	person := graphql.NewObject(graphql.ObjectConfig{
		Name: "A_Person",
		Fields: graphql.Fields{
			"countryCode": &graphql.Field{Type: graphql.String},
		},
	})
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"A_person": &graphql.Field{Type: person},
			"B_country": &graphql.Field{
				Type: country,
				Args: graphql.FieldConfigArgument{
					"code": &graphql.ArgumentConfig{Type: graphql.String},
				},
			},
		},
	})
	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: query})
	require.NoError(t, err)
	return &schema
}

func TestTransformer_InstallsSyntheticLinkFieldWithTheTargetsMappedType(t *testing.T) {
	merged := buildMergedSchema(t)
	registry := proxy.NewRegistry([]proxy.Endpoint{{Name: "B", Namespace: "B"}})
	specs := map[string]*Spec{
		"A_Person.countryCode": {
			TypeName: "A_Person", FieldName: "countryCode",
			TargetField: []string{"B_country"}, TargetArgument: []string{"code"},
		},
	}

	out, err := weave.Transform(merged, Transformer(registry, merged, specs, nil))
	require.NoError(t, err)

	person, ok := out.TypeMap()["A_Person"].(*graphql.Object)
	require.True(t, ok)
	linkField, ok := person.Fields()["countryCode_link"]
	require.True(t, ok)
	assert.Equal(t, "B_Country", linkField.Type.Name())
}

func TestTransformer_ReportsTypeMismatchInsteadOfFailingTheBuild(t *testing.T) {
	merged := buildMergedSchema(t)
	registry := proxy.NewRegistry([]proxy.Endpoint{{Name: "B", Namespace: "B"}})
	specs := map[string]*Spec{
		"A_Person.countryCode": {
			TypeName: "A_Person", FieldName: "countryCode",
			TargetField: []string{"B_missing"}, TargetArgument: []string{"code"},
		},
	}

	var reported []string
	report := func(path string, err error) { reported = append(reported, path) }

	out, err := weave.Transform(merged, Transformer(registry, merged, specs, report))
	require.NoError(t, err)
	assert.Equal(t, []string{"A_Person.countryCode"}, reported)

	person, ok := out.TypeMap()["A_Person"].(*graphql.Object)
	require.True(t, ok)
	_, ok = person.Fields()["countryCode_link"]
	assert.False(t, ok)
}

func TestTransformer_ReportsKeyFieldErrorWhenConfiguredKeyFieldIsMissingFromTargetType(t *testing.T) {
	merged := buildMergedSchema(t)
	registry := proxy.NewRegistry([]proxy.Endpoint{{Name: "B", Namespace: "B"}})
	specs := map[string]*Spec{
		"A_Person.countryCode": {
			TypeName: "A_Person", FieldName: "countryCode",
			TargetField: []string{"B_country"}, TargetArgument: []string{"code"},
			BatchMode: true, KeyField: "missing",
		},
	}

	var reported []error
	report := func(path string, err error) { reported = append(reported, err) }

	out, err := weave.Transform(merged, Transformer(registry, merged, specs, report))
	require.NoError(t, err)
	require.Len(t, reported, 1)
	var keyErr *KeyFieldError
	require.ErrorAs(t, reported[0], &keyErr)

	person, ok := out.TypeMap()["A_Person"].(*graphql.Object)
	require.True(t, ok)
	_, ok = person.Fields()["countryCode_link"]
	assert.False(t, ok)
}

func TestTransformer_SkipsTypesWithNoLinks(t *testing.T) {
	merged := buildMergedSchema(t)
	registry := proxy.NewRegistry([]proxy.Endpoint{{Name: "B", Namespace: "B"}})

	out, err := weave.Transform(merged, Transformer(registry, merged, map[string]*Spec{}, nil))
	require.NoError(t, err)

	person, ok := out.TypeMap()["A_Person"].(*graphql.Object)
	require.True(t, ok)
	assert.Len(t, person.Fields(), 1)
}
