package widget

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sort"

	uuid "github.com/satori/go.uuid"
)

// The Object interface must be embedded in any struct that should act as a
// widget. It is filled in by Init.
type Object interface {
	Identifier() string

	// Property returns the current value of the named property.
	Property(name string) (any, bool)
	// SetProperty converts value to the property's field type and stores
	// it, emitting the change signal if the value differs. It returns
	// false if the property does not exist or value cannot be converted.
	SetProperty(name string, value any) bool
	// Properties returns the names of all properties, sorted.
	Properties() []string

	// Connect calls fn whenever signal is emitted, until the returned
	// function is called.
	Connect(signal string, fn func()) (disconnect func())
	// Emit emits the named signal synchronously.
	Emit(signal string)
	// Changed emits the change signal of a property. It should be called
	// after assigning to a property field directly.
	Changed(property string)
	// ResetProperties emits the change signal of every property.
	ResetProperties()
}

// If a type embedding Object implements HasInit, InitObject is called
// immediately after Object is initialized.
type HasInit interface {
	Object
	InitObject()
}

type slot struct {
	id int
	fn func()
}

type objectImpl struct {
	id     string
	object any
	value  reflect.Value
	ti     *typeInfo
	logger *slog.Logger

	nextSlot int
	slots    map[string][]slot
}

var errNotObject = errors.New("struct does not embed widget.Object")

// InitOption configures Init.
type InitOption func(*objectImpl)

// WithIdentifier overrides the generated identifier.
func WithIdentifier(id string) InitOption {
	return func(o *objectImpl) { o.id = id }
}

// WithLogger sets the logger used for conversion failures.
func WithLogger(logger *slog.Logger) InitOption {
	return func(o *objectImpl) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Init initializes the Object embedded in w, which must be a pointer to a
// struct. Initializing an object twice has no effect.
func Init(w any, opts ...InitOption) error {
	value := reflect.ValueOf(w)
	if value.Kind() != reflect.Ptr || value.IsNil() {
		return errNotObject
	}
	value = value.Elem()
	if value.Kind() != reflect.Struct {
		return errNotObject
	}
	field := value.FieldByName("Object")
	if !field.IsValid() || field.Type() != objectInterfaceType {
		return errNotObject
	}
	if impl, _ := field.Interface().(*objectImpl); impl != nil {
		return nil
	}

	ti, err := parseType(value.Type())
	if err != nil {
		return err
	}

	u, _ := uuid.NewV4()
	impl := &objectImpl{
		id:     u.String(),
		object: w,
		value:  value,
		ti:     ti,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		slots:  make(map[string][]slot),
	}
	for _, opt := range opts {
		opt(impl)
	}

	// Write to the Object embedded field
	field.Set(reflect.ValueOf(impl))

	impl.initSignals()

	if hi, ok := w.(HasInit); ok {
		hi.InitObject()
	}
	return nil
}

// MustInit is Init for widgets whose types are known to be valid. It
// returns w to allow use in declarations.
func MustInit[T any](w T, opts ...InitOption) T {
	if err := Init(w, opts...); err != nil {
		panic(fmt.Sprintf("widget: %s", err))
	}
	return w
}

// Signal fields that are still nil become functions emitting the signal
func (o *objectImpl) initSignals() {
	for name, index := range o.ti.signalFieldIndex {
		field := o.value.FieldByIndex(index)
		if !field.IsNil() {
			continue
		}
		name := name
		f := reflect.MakeFunc(field.Type(), func(args []reflect.Value) []reflect.Value {
			o.Emit(name)
			return nil
		})
		field.Set(f)
	}
}

func (o *objectImpl) Identifier() string {
	return o.id
}

func (o *objectImpl) Property(name string) (any, bool) {
	index, ok := o.ti.propertyFieldIndex[name]
	if !ok {
		return nil, false
	}
	return o.value.FieldByIndex(index).Interface(), true
}

func (o *objectImpl) SetProperty(name string, value any) bool {
	index, ok := o.ti.propertyFieldIndex[name]
	if !ok {
		return false
	}
	field := o.value.FieldByIndex(index)

	converted, err := convertValue(value, field.Type())
	if err != nil {
		o.logger.Debug("widget property conversion failed", "widget", o.ti.Name, "property", name, "error", err)
		return false
	}
	if reflect.DeepEqual(field.Interface(), converted.Interface()) {
		return true
	}
	field.Set(converted)
	o.Changed(name)
	return true
}

func (o *objectImpl) Properties() []string {
	names := make([]string, 0, len(o.ti.Properties))
	for name := range o.ti.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (o *objectImpl) Connect(signal string, fn func()) func() {
	if fn == nil {
		return func() {}
	}
	o.nextSlot++
	id := o.nextSlot
	o.slots[signal] = append(o.slots[signal], slot{id, fn})
	return func() { o.disconnect(signal, id) }
}

func (o *objectImpl) disconnect(signal string, id int) {
	slots := o.slots[signal]
	for i, s := range slots {
		if s.id == id {
			// Copy so that an emission in progress keeps its own slice
			o.slots[signal] = append(append([]slot{}, slots[:i]...), slots[i+1:]...)
			return
		}
	}
}

func (o *objectImpl) connected(signal string, id int) bool {
	for _, s := range o.slots[signal] {
		if s.id == id {
			return true
		}
	}
	return false
}

func (o *objectImpl) Emit(signal string) {
	for _, s := range o.slots[signal] {
		// Slots disconnected by an earlier slot are skipped
		if o.connected(signal, s.id) {
			s.fn()
		}
	}
}

func (o *objectImpl) Changed(property string) {
	o.Emit(ChangedSignal(property))
}

func (o *objectImpl) ResetProperties() {
	for _, name := range o.Properties() {
		o.Changed(name)
	}
}
