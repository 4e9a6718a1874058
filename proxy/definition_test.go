package proxy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefinitionsFile(t *testing.T) {
	defs, err := LoadDefinitionsFile("testdata/filters.yaml")
	require.NoError(t, err)
	require.Len(t, defs, 2)

	extract, err := defs[0].New()
	require.NoError(t, err)
	assert.Equal(t, "filters", extract.Group())
	assert.Equal(t, "ExtractBlock", extract.Name())

	indices := extract.Property("BlockIndices")
	require.NotNil(t, indices)
	assert.True(t, indices.Repeatable())
	tree, ok := indices.FindDomain(DomainCompositeTree).(*CompositeTreeDomain)
	require.True(t, ok)
	assert.Equal(t, ModeAll, tree.Mode())
	info := tree.Information()
	require.NotNil(t, info)
	assert.True(t, info.IsComposite())
	require.Equal(t, 2, info.NumberOfChildren())
	assert.Equal(t, "left", info.Children[0].Name)
	assert.Equal(t, "vtkPolyData", info.Children[0].Info.ClassName)
	assert.Equal(t, 1, info.Children[1].Info.NumberOfChildren())

	threshold, err := defs[1].New()
	require.NoError(t, err)

	scalars := threshold.Property("Scalars")
	assert.Equal(t, KindString, scalars.Kind())
	assert.Equal(t, KindInt, scalars.ElementType(0))
	assert.Equal(t, KindString, scalars.ElementType(4))
	assert.Equal(t, []any{"0", "0", "0", "0", ""}, scalars.Elements())
	arrays := scalars.FindDomain(DomainArrayList).(*ArrayListDomain)
	assert.Equal(t, []ArrayInfo{{"Temp", false}, {"Pres", true}}, arrays.Arrays())

	between := threshold.Property("ThresholdBetween")
	assert.Equal(t, []any{0.0, 1.5}, between.Elements())
	r := between.FindDomain(DomainDoubleRange).(*RangeDomain)
	assert.False(t, r.InRange(0, -1))
	assert.False(t, r.InRange(1, 11))

	method := threshold.Property("Method")
	enum := method.FindDomain(DomainEnumeration).(*EnumerationDomain)
	label, ok := enum.Label(1)
	assert.True(t, ok)
	assert.Equal(t, "Below", label)
	assert.NotNil(t, threshold.Property("AllScalars").FindDomain(DomainBoolean))
}

func TestDefinitionErrors(t *testing.T) {
	cases := map[string]string{
		"unknown property kind": `
proxies:
  - group: g
    name: n
    properties:
      - {name: P, kind: quaternion}`,
		"unknown domain kind": `
proxies:
  - group: g
    name: n
    properties:
      - {name: P, kind: int, domains: [{kind: fancy}]}`,
		"unused domain key": `
proxies:
  - group: g
    name: n
    properties:
      - {name: P, kind: int, domains: [{kind: boolean, strings: [a]}]}`,
		"duplicate property": `
proxies:
  - group: g
    name: n
    properties:
      - {name: P, kind: int}
      - {name: P, kind: int}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			defs, err := LoadDefinitions(strings.NewReader(doc))
			require.NoError(t, err)
			require.Len(t, defs, 1)
			_, err = defs[0].New()
			assert.Error(t, err)
		})
	}
}

func TestLoadDefinitionsEmpty(t *testing.T) {
	defs, err := LoadDefinitions(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, defs)

	_, err = LoadDefinitions(strings.NewReader("proxies: {"))
	assert.Error(t, err)
}
