package widget

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type BasicWidget struct {
	Object

	Text    string
	Value   float64
	Checked bool
	Values  []int
	Address net.IP

	Activated func()

	initWasCalled bool
}

func (w *BasicWidget) InitObject() {
	w.initWasCalled = true
}

func TestObjectInit(t *testing.T) {
	w := &BasicWidget{}

	if err := Init(w); err != nil {
		t.Errorf("widget initialization failed: %s", err)
	}
	if w.Object == nil || w.Identifier() == "" {
		t.Error("Embedded Object still blank after initialization")
	}
	if !w.initWasCalled {
		t.Error("HasInit initialization function not called")
	}
	if w.Activated == nil {
		t.Error("Initialization didn't assign signal functions")
	}

	id := w.Identifier()
	if err := Init(w); err != nil || w.Identifier() != id {
		t.Error("Second initialization replaced the object")
	}

	other := MustInit(&BasicWidget{})
	if other.Identifier() == id {
		t.Error("Identifiers are not unique")
	}

	named := MustInit(&BasicWidget{}, WithIdentifier("fixed"))
	if named.Identifier() != "fixed" {
		t.Errorf("Expected identifier 'fixed', got %q", named.Identifier())
	}
}

func TestInitRejectsNonWidgets(t *testing.T) {
	assert.Error(t, Init(nil))
	assert.Error(t, Init(BasicWidget{}))
	assert.Error(t, Init(&NotWidget{}))
	assert.Panics(t, func() { MustInit(&NotWidget{}) })
}

func TestSetProperty(t *testing.T) {
	w := MustInit(&BasicWidget{})

	changes := map[string]int{}
	for _, name := range w.Properties() {
		name := name
		w.Connect(ChangedSignal(name), func() { changes[name]++ })
	}

	require.True(t, w.SetProperty("value", "0.25"))
	assert.Equal(t, 0.25, w.Value)
	require.True(t, w.SetProperty("value", 0.25))
	assert.Equal(t, 1, changes["value"], "unchanged value does not emit")

	require.True(t, w.SetProperty("text", 12))
	assert.Equal(t, "12", w.Text)

	require.True(t, w.SetProperty("checked", 1))
	assert.True(t, w.Checked)

	require.True(t, w.SetProperty("values", []any{1, "2", 3.0}))
	assert.Equal(t, []int{1, 2, 3}, w.Values)

	require.True(t, w.SetProperty("address", "10.0.0.1"))
	assert.Equal(t, "10.0.0.1", w.Address.String())

	assert.False(t, w.SetProperty("value", "high"))
	assert.False(t, w.SetProperty("missing", 1))
	assert.False(t, w.SetProperty("address", "not an address"))

	v, ok := w.Property("value")
	require.True(t, ok)
	assert.Equal(t, 0.25, v)
	_, ok = w.Property("missing")
	assert.False(t, ok)

	require.True(t, w.SetProperty("values", nil))
	assert.Nil(t, w.Values)

	assert.Equal(t, []string{"address", "checked", "text", "value", "values"}, w.Properties())
}

func TestSignals(t *testing.T) {
	w := MustInit(&BasicWidget{})

	count := 0
	disconnect := w.Connect("activated", func() { count++ })
	w.Activated()
	w.Emit("activated")
	assert.Equal(t, 2, count)

	disconnect()
	w.Activated()
	assert.Equal(t, 2, count)

	w.Text = "direct"
	changed := 0
	w.Connect("textChanged", func() { changed++ })
	w.Changed("text")
	w.ResetProperties()
	assert.Equal(t, 2, changed)
}

func TestDisconnectDuringEmit(t *testing.T) {
	w := MustInit(&BasicWidget{})

	var second func()
	calls := 0
	w.Connect("activated", func() {
		calls++
		second()
	})
	second = w.Connect("activated", func() { calls += 10 })

	w.Activated()
	assert.Equal(t, 1, calls)
}
