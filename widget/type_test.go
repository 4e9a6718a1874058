package widget

import (
	"reflect"
	"testing"
)

type Simple struct {
	Simple string
}

type Fields struct {
	String    string
	Bytes     []byte
	Strings   []string
	Map       map[string]string
	Struct    Simple
	Ptr       *Simple
	Interface interface{}
}

type TestStruct struct {
	Object
	Fields

	unexported  bool
	Ignored     bool `widget:"-"`
	IgnoredJSON bool `json:"-"`
	Renamed     int  `json:"count,omitempty"`

	Signal       func()
	SignalParams func(a, b int) `widget:"a,b"`
}

func TestParseTypes(t *testing.T) {
	obj := &TestStruct{}
	objType := reflect.TypeOf(*obj)
	info, err := parseType(objType)
	if err != nil {
		t.Fatalf("parseType failed: %v", err)
	}

	t.Logf("parsed type: %+v", info)

	expectProp := []string{"string", "bytes", "strings", "map", "struct", "ptr", "interface", "count"}
	expectSignal := []string{"signal", "signalParams"}

	for _, p := range expectProp {
		if _, exists := info.Properties[p]; !exists {
			t.Errorf("Expected property '%s' to exist", p)
		}

		expectSignal = append(expectSignal, ChangedSignal(p))
	}
	if len(expectProp) != len(info.Properties) {
		t.Errorf("Expected %d properties but type info has %d", len(expectProp), len(info.Properties))
	}

	for _, p := range expectSignal {
		if _, exists := info.Signals[p]; !exists {
			t.Errorf("Expected signal '%s' to exist", p)
		}
	}
	if len(expectSignal) != len(info.Signals) {
		t.Errorf("Expected %d signals but type info has %d", len(expectSignal), len(info.Signals))
	}

	if params := info.Signals["signalParams"]; len(params) != 2 || params[0] != "int a" {
		t.Errorf("Unexpected signal parameters: %v", params)
	}
	if info.Properties["count"] != "int" || info.Properties["strings"] != "array" {
		t.Errorf("Unexpected property types: %v", info.Properties)
	}
}

type NotWidget struct {
	Value int
}

type UnnamedParams struct {
	Object
	Moved func(x, y float64) `widget:"x"`
}

type BadChangeSignal struct {
	Object
	Value        int
	ValueChanged func(int) `widget:"v"`
}

func TestParseTypeErrors(t *testing.T) {
	for _, v := range []any{NotWidget{}, UnnamedParams{}, BadChangeSignal{}} {
		if _, err := parseType(reflect.TypeOf(v)); err == nil {
			t.Errorf("Expected parseType to fail for %T", v)
		}
	}
}
