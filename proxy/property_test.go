package proxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyCheckedWritesMirrorUnchecked(t *testing.T) {
	p := NewProperty("Radius", KindDouble, Default(0.5))

	var modified, unchecked int
	p.OnModified(func() { modified++ })
	p.OnUncheckedModified(func() { unchecked++ })

	require.True(t, p.SetUncheckedElement(0, 2.0))
	assert.Equal(t, 0.5, p.Element(0))
	assert.Equal(t, 2.0, p.UncheckedElement(0))
	assert.True(t, p.HasUnchecked())
	assert.Equal(t, 0, modified)
	assert.Equal(t, 1, unchecked)

	require.True(t, p.SetElement(0, 3.0))
	assert.Equal(t, 3.0, p.UncheckedElement(0))
	assert.False(t, p.HasUnchecked())
	assert.Equal(t, 1, modified)
	assert.Equal(t, 2, unchecked)
}

func TestPropertyRejectsWrongStorageType(t *testing.T) {
	p := NewProperty("Count", KindInt, Default(1))

	assert.False(t, p.SetElement(0, 2.0))
	assert.False(t, p.SetElement(0, "2"))
	assert.False(t, p.SetElement(1, 2))
	assert.False(t, p.SetElements([]any{1, "x"}))
	assert.Equal(t, []any{1}, p.Elements())
}

func TestPropertySameValueDoesNotNotify(t *testing.T) {
	p := NewProperty("Name", KindString, Default("a"))
	calls := 0
	p.OnModified(func() { calls++ })

	require.True(t, p.SetElement(0, "a"))
	require.True(t, p.SetElements([]any{"a"}))
	assert.Equal(t, 0, calls)
}

func TestPropertyResize(t *testing.T) {
	p := NewProperty("Values", KindIdType, Repeatable(), Default(1, 2))

	p.SetNumberOfElements(4)
	assert.Equal(t, []any{int64(1), int64(2), int64(0), int64(0)}, p.Elements())
	assert.Equal(t, 4, p.UncheckedNumberOfElements())

	p.SetUncheckedNumberOfElements(1)
	assert.Equal(t, 4, p.NumberOfElements())
	assert.Equal(t, []any{int64(1)}, p.UncheckedElements())

	p.ClearUnchecked()
	assert.Equal(t, p.Elements(), p.UncheckedElements())
}

func TestPropertyElementTypes(t *testing.T) {
	p := NewProperty("Status", KindString, ElementsPerCommand(2), ElementTypes(KindString, KindInt))

	assert.Equal(t, 2, p.ElementsPerCommand())
	assert.Equal(t, KindString, p.ElementType(0))
	assert.Equal(t, KindInt, p.ElementType(1))
	assert.Equal(t, KindString, p.ElementType(4))
	assert.Equal(t, KindInt, p.ElementType(5))

	q := NewProperty("Scale", KindDouble, ElementTypes(KindInt))
	assert.Equal(t, KindDouble, q.ElementType(0))
}

func TestPropertyDependentDomains(t *testing.T) {
	source := NewProperty("Component", KindInt, Default(0))
	r := NewDoubleRangeDomain("range", Range{Min: 0, Max: 1, HasMin: true, HasMax: true})
	r.UpdateFunc = func(src *Property) {
		c := src.UncheckedElement(0).(int)
		r.SetRanges([]Range{{Min: 0, Max: float64(10 * (c + 1)), HasMin: true, HasMax: true}})
	}
	source.AddDependent(r)

	notified := 0
	r.OnModified(func() { notified++ })

	require.True(t, source.SetUncheckedElement(0, 2))
	source.UpdateDependentDomains()

	assert.Equal(t, 1, notified)
	assert.True(t, r.InRange(0, 25))
	assert.False(t, r.InRange(0, 35))
	assert.True(t, r.InRange(3, 1e9), "elements without bounds are unbounded")
}

func TestPropertyFindDomain(t *testing.T) {
	b := NewBooleanDomain("bool")
	e := NewEnumerationDomain("enum", EnumEntry{"Off", 0})
	p := NewProperty("Flag", KindInt, WithDomain(b), WithDomain(e))

	assert.Equal(t, b, p.FindDomain(DomainBoolean))
	assert.Equal(t, e, p.FindDomain(DomainEnumeration))
	assert.Nil(t, p.FindDomain(DomainStringList))
	assert.Len(t, p.Domains(), 2)
}

func TestProxyPendingAndApply(t *testing.T) {
	px := NewProxy("sources", "Sphere")
	radius, err := px.NewProperty("Radius", KindDouble, Default(0.5))
	require.NoError(t, err)
	center, err := px.NewProperty("Center", KindDouble, Default(0, 0, 0))
	require.NoError(t, err)

	_, err = px.NewProperty("Radius", KindDouble)
	assert.ErrorIs(t, err, ErrPropertyExists)
	assert.ErrorIs(t, NewProxy("a", "b").AddProperty(radius), ErrPropertyOwned)

	applied := 0
	px.OnApplied(func() { applied++ })

	radius.SetElement(0, 1.0)
	radius.SetElement(0, 2.0)
	center.SetUncheckedElement(0, 1.0)
	assert.Equal(t, []*Property{radius}, px.Pending())

	px.ApplyPending()
	assert.Empty(t, px.Pending())
	assert.Equal(t, 1, applied)

	px.ApplyPending()
	assert.Equal(t, 2, applied)
	assert.Equal(t, radius, px.Property("Radius"))
	assert.Nil(t, px.Property("Missing"))
	assert.NotEqual(t, px.Identifier(), NewProxy("sources", "Sphere").Identifier())
}

func TestSignalDisconnect(t *testing.T) {
	var s signal
	var calls []string
	var second func()
	s.connect(func() {
		calls = append(calls, "first")
		second()
	})
	second = s.connect(func() { calls = append(calls, "second") })

	s.emit()
	assert.Equal(t, []string{"first"}, calls)
	s.emit()
	assert.Equal(t, []string{"first", "first"}, calls)
}

func TestCoerce(t *testing.T) {
	cases := []struct {
		kind Kind
		in   any
		out  any
		ok   bool
	}{
		{KindDouble, 2, 2.0, true},
		{KindDouble, "1.5", 1.5, true},
		{KindDouble, "abc", nil, false},
		{KindDouble, nil, nil, false},
		{KindInt, "7", 7, true},
		{KindInt, 3.0, 3, true},
		{KindInt, "2.0", 2, true},
		{KindInt, true, 1, true},
		{KindInt, "x", nil, false},
		{KindIdType, 9, int64(9), true},
		{KindString, 3, "3", true},
		{KindString, 0.25, "0.25", true},
		{KindString, nil, "", true},
		{KindProxy, "x", nil, false},
	}
	for _, c := range cases {
		out, ok := Coerce(c.kind, c.in)
		assert.Equal(t, c.ok, ok, "%s %v", c.kind, c.in)
		if c.ok {
			assert.Equal(t, c.out, out, "%s %v", c.kind, c.in)
		}
	}

	px := NewProxy("a", "b")
	out, ok := Coerce(KindProxy, px)
	assert.True(t, ok)
	assert.Equal(t, px, out)
}
