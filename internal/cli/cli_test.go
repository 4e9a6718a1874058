package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultDefinitions, cfg.Definitions)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.False(t, cfg.ExpandPieces)
	assert.Empty(t, cfg.File)
}

func TestLoadConfigPrecedence(t *testing.T) {
	cfg, err := LoadConfig("testdata/pqinspect.yaml", nil)
	require.NoError(t, err)
	assert.Equal(t, "testdata/proxies.yaml", cfg.Definitions)
	assert.Equal(t, "json", cfg.Output)
	assert.True(t, cfg.ExpandPieces)
	assert.Equal(t, "testdata/pqinspect.yaml", cfg.File)

	t.Setenv("PQINSPECT_OUTPUT", "table")
	cfg, err = LoadConfig("testdata/pqinspect.yaml", nil)
	require.NoError(t, err)
	assert.Equal(t, "table", cfg.Output)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", "", "")
	flags.String("definitions", "", "")
	flags.Bool("expand-pieces", false, "")
	require.NoError(t, flags.Parse([]string{"--output", "json", "--expand-pieces=false"}))
	cfg, err = LoadConfig("testdata/pqinspect.yaml", flags)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output)
	assert.False(t, cfg.ExpandPieces)
	assert.Equal(t, "testdata/proxies.yaml", cfg.Definitions, "unset flags do not override")
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig("testdata/missing.yaml", nil)
	assert.Error(t, err)

	t.Setenv("PQINSPECT_OUTPUT", "xml")
	_, err = LoadConfig("", nil)
	assert.ErrorContains(t, err, "invalid output format")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--definitions", "testdata/proxies.yaml"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestShapesCommand(t *testing.T) {
	out, err := run(t, "shapes", "-o", "json")
	require.NoError(t, err)

	var rows []shapeRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	shapes := map[string]string{}
	for _, r := range rows {
		shapes[r.Property] = r.Shape
	}
	assert.Equal(t, map[string]string{
		"Radius":           "SingleElement",
		"Center":           "MultipleElements",
		"FileName":         "FileList",
		"PointArrayStatus": "Selection",
		"Method":           "Enumeration",
		"AllScalars":       "Enumeration",
		"BlockIndices":     "CompositeTree",
	}, shapes)

	for _, r := range rows {
		switch r.Property {
		case "Method":
			assert.Equal(t, "Between", r.Value)
		case "AllScalars":
			assert.Equal(t, true, r.Value)
		case "FileName":
			assert.Equal(t, []any{"data.vtu"}, r.Value)
		}
	}
}

func TestShapesTable(t *testing.T) {
	out, err := run(t, "shapes", "Threshold")
	require.NoError(t, err)
	assert.Contains(t, out, "Between")
	assert.Contains(t, out, "Enumeration")
	assert.NotContains(t, out, "Radius")

	_, err = run(t, "shapes", "Cone")
	assert.ErrorContains(t, err, "no proxy matches")
}

func TestDomainsCommand(t *testing.T) {
	out, err := run(t, "domains", "-o", "json", "sources/Reader", "Threshold", "Sphere")
	require.NoError(t, err)

	var rows []domainRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	values := map[string][]string{}
	for _, r := range rows {
		values[r.Property+"/"+r.Domain] = r.Values
	}
	assert.Equal(t, []string{"Below=0", "Between=1", "Above=2"}, values["Method/enumeration"])
	assert.Equal(t, []string{"false", "true"}, values["AllScalars/boolean"])
	assert.Equal(t, []string{"Temp", "Pres"}, values["PointArrayStatus/string_list_range"])
	assert.Equal(t, []string{"[0, +Inf]"}, values["Radius/double_range"])
	assert.Contains(t, values, "FileName/file_list")
}

func TestTreeCommand(t *testing.T) {
	out, err := run(t, "tree", "ExtractBlock", "BlockIndices", "-o", "json", "--check", "1,3")
	require.NoError(t, err)

	var res treeResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Nodes, 5)
	assert.Equal(t, []int{1, 3}, res.Values)
	assert.Equal(t, []any{1.0, 3.0}, res.Elements)
	assert.Equal(t, "left", res.Nodes[1].Name)
	assert.Equal(t, "partial", res.Nodes[2].State)
	assert.Equal(t, "multipiece", res.Nodes[4].Kind)

	out, err = run(t, "tree", "ExtractBlock", "BlockIndices", "-o", "json", "--expand-pieces")
	require.NoError(t, err)
	res = treeResult{}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Len(t, res.Nodes, 7)
	assert.Empty(t, res.Values)

	out, err = run(t, "tree", "ExtractBlock", "BlockIndices", "--check", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "values: [0]")
	assert.Contains(t, out, "checked")

	_, err = run(t, "tree", "Threshold", "Method")
	assert.ErrorContains(t, err, "no composite tree domain")
	_, err = run(t, "tree", "Threshold", "Nope")
	assert.ErrorContains(t, err, "has no property")
}
