// Package widget provides reflection-backed objects that can be bound to
// proxy properties by a links.LinkSet.
//
// When Object is embedded in a struct, that type is a widget. Its exported
// fields become properties, named like the field with a lower case first
// letter (or by the json tag name, if there is one). Every property has a
// change signal named "<property>Changed", and func fields become additional
// signals that are emitted by simply calling the field.
//
//	type Slider struct {
//	    widget.Object
//	    Value   float64
//	    Minimum float64
//	    Maximum float64
//
//	    SliderReleased func()
//	}
//
//	s := &Slider{Maximum: 1}
//	widget.Init(s)
//	s.Connect("valueChanged", func() { ... })
//	s.SetProperty("value", "0.5")
//
// SetProperty converts its argument to the type of the field and emits the
// change signal only when the stored value actually changed. Code that sets
// fields directly must call Changed afterwards for observers to notice.
//
// Widgets are not safe for concurrent use. Like the rest of the binding
// engine they are expected to be used from one goroutine.
package widget
