package adaptor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CrimsonAS/qpropertylinks/proxy"
)

func TestClassify(t *testing.T) {
	group := proxy.NewProxyGroupDomain("input", "sources")
	tests := []struct {
		name string
		prop *proxy.Property
		want Shape
	}{
		{"nil", nil, ShapeUnknown},
		{"proxy", proxy.NewProperty("Input", proxy.KindProxy, proxy.Default(nil)), ShapeProxy},
		{"proxy list", proxy.NewProperty("Inputs", proxy.KindProxy, proxy.Repeatable()), ShapeProxyList},
		{"proxy selection", proxy.NewProperty("Source", proxy.KindProxy, proxy.WithDomain(proxy.NewProxyListDomain("list"))), ShapeProxySelection},
		{"proxy group stays proxy", proxy.NewProperty("Source", proxy.KindProxy, proxy.WithDomain(group)), ShapeProxy},
		{"file list", proxy.NewProperty("FileName", proxy.KindString, proxy.Default(""), proxy.WithDomain(proxy.NewFileListDomain("files"))), ShapeFileList},
		{"composite tree", proxy.NewProperty("BlockIndices", proxy.KindInt, proxy.Repeatable(), proxy.WithDomain(proxy.NewCompositeTreeDomain("tree", proxy.ModeAll))), ShapeCompositeTree},
		{"sil", proxy.NewProperty("Blocks", proxy.KindString, proxy.Repeatable(), proxy.WithDomain(proxy.NewSILDomain("sil", "Blocks"))), ShapeSIL},
		{"string list range", proxy.NewProperty("PointArrayStatus", proxy.KindString, proxy.Repeatable(), proxy.WithDomain(proxy.NewStringListRangeDomain("arrays"))), ShapeSelection},
		{"repeatable enumeration", proxy.NewProperty("Modes", proxy.KindInt, proxy.Repeatable(), proxy.WithDomain(proxy.NewEnumerationDomain("modes"))), ShapeSelection},
		{"repeatable string list", proxy.NewProperty("Names", proxy.KindString, proxy.Repeatable(), proxy.WithDomain(proxy.NewStringListDomain("names"))), ShapeSelection},
		{"field selection", proxy.NewProperty("SelectInputScalars", proxy.KindString, proxy.Default("0", "0", "0", "0", "temp"), proxy.WithDomain(proxy.NewArrayListDomain("arrays"))), ShapeFieldSelection},
		{"array list", proxy.NewProperty("Scalars", proxy.KindString, proxy.Default(""), proxy.WithDomain(proxy.NewArrayListDomain("arrays"))), ShapeEnumeration},
		{"boolean", proxy.NewProperty("AllScalars", proxy.KindInt, proxy.Default(1), proxy.WithDomain(proxy.NewBooleanDomain("bool"))), ShapeEnumeration},
		{"enumeration", proxy.NewProperty("Method", proxy.KindInt, proxy.Default(0), proxy.WithDomain(proxy.NewEnumerationDomain("enum"))), ShapeEnumeration},
		{"string list", proxy.NewProperty("Name", proxy.KindString, proxy.Default(""), proxy.WithDomain(proxy.NewStringListDomain("names"))), ShapeEnumeration},
		{"proxy group domain on string", proxy.NewProperty("Function", proxy.KindString, proxy.Default(""), proxy.WithDomain(group)), ShapeEnumeration},
		{"single", proxy.NewProperty("Radius", proxy.KindDouble, proxy.Default(0.5), proxy.WithDomain(proxy.NewDoubleRangeDomain("range"))), ShapeSingleElement},
		{"multiple", proxy.NewProperty("Center", proxy.KindDouble, proxy.Default(0, 0, 0)), ShapeMultipleElements},
		{"repeatable empty", proxy.NewProperty("Values", proxy.KindDouble, proxy.Repeatable()), ShapeMultipleElements},
		{"empty", proxy.NewProperty("Nothing", proxy.KindDouble), ShapeUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.prop)
			assert.Equal(t, tc.want, got, "got %s", got)
			assert.Equal(t, got, Classify(tc.prop))
		})
	}
}

func TestClassifyPrecedence(t *testing.T) {
	// file list wins over any other domain
	p := proxy.NewProperty("FileName", proxy.KindString, proxy.Repeatable(),
		proxy.WithDomain(proxy.NewStringListDomain("names")),
		proxy.WithDomain(proxy.NewFileListDomain("files")))
	assert.Equal(t, ShapeFileList, Classify(p))

	// selection beats enumeration for repeatable properties
	q := proxy.NewProperty("Arrays", proxy.KindString, proxy.Repeatable(),
		proxy.WithDomain(proxy.NewBooleanDomain("bool")),
		proxy.WithDomain(proxy.NewArrayListDomain("arrays")))
	assert.Equal(t, ShapeSelection, Classify(q))
}

func TestShapeString(t *testing.T) {
	assert.Equal(t, "FieldSelection", ShapeFieldSelection.String())
	assert.Equal(t, "Unknown", Shape(99).String())
}
