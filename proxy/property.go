package proxy

// Property is a named vector of elements on a proxy, together with the
// domains describing its legal values. See the package documentation for
// storage types and the checked/unchecked split.
type Property struct {
	proxy        *Proxy
	name         string
	kind         Kind
	repeatable   bool
	perCommand   int
	elementTypes []Kind

	elements  []any
	unchecked []any

	domains    []Domain
	dependents []Domain

	modified          signal
	uncheckedModified signal
}

// PropertyOption configures a property during NewProperty.
type PropertyOption func(*Property)

// Repeatable marks a property as a variable length vector (for proxy
// properties, as accepting multiple proxies).
func Repeatable() PropertyOption {
	return func(p *Property) { p.repeatable = true }
}

// ElementsPerCommand sets how many consecutive elements form one logical
// value, for example 2 for (name, status) pairs.
func ElementsPerCommand(n int) PropertyOption {
	return func(p *Property) {
		if n > 0 {
			p.perCommand = n
		}
	}
}

// ElementTypes annotates the semantic type of each string element. The list
// is cycled when the property has more elements than types.
func ElementTypes(kinds ...Kind) PropertyOption {
	return func(p *Property) { p.elementTypes = kinds }
}

// WithDomain attaches a domain.
func WithDomain(d Domain) PropertyOption {
	return func(p *Property) { p.domains = append(p.domains, d) }
}

// Default sets the initial elements. Values are converted with Coerce;
// values that fail conversion become the zero element.
func Default(values ...any) PropertyOption {
	return func(p *Property) {
		p.elements = make([]any, len(values))
		for i, v := range values {
			if cv, ok := Coerce(p.kind, v); ok {
				p.elements[i] = cv
			} else {
				p.elements[i] = zero(p.kind)
			}
		}
	}
}

// NewProperty creates a property that is not yet part of any proxy.
func NewProperty(name string, kind Kind, opts ...PropertyOption) *Property {
	p := &Property{
		name:       name,
		kind:       kind,
		perCommand: 1,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.elements == nil {
		p.elements = []any{}
	}
	p.unchecked = append([]any(nil), p.elements...)
	return p
}

func (p *Property) Name() string {
	return p.name
}

func (p *Property) Kind() Kind {
	return p.kind
}

// Proxy returns the proxy owning this property, or nil.
func (p *Property) Proxy() *Proxy {
	return p.proxy
}

func (p *Property) Repeatable() bool {
	return p.repeatable
}

func (p *Property) ElementsPerCommand() int {
	return p.perCommand
}

// ElementType returns the semantic type of element i. Only string properties
// with ElementTypes differ from Kind.
func (p *Property) ElementType(i int) Kind {
	if p.kind == KindString && len(p.elementTypes) > 0 && i >= 0 {
		return p.elementTypes[i%len(p.elementTypes)]
	}
	return p.kind
}

// Domains returns the attached domains in attachment order.
func (p *Property) Domains() []Domain {
	return p.domains
}

func (p *Property) AddDomain(d Domain) {
	p.domains = append(p.domains, d)
}

// FindDomain returns the first attached domain of the given kind, or nil.
func (p *Property) FindDomain(kind DomainKind) Domain {
	for _, d := range p.domains {
		if d.Kind() == kind {
			return d
		}
	}
	return nil
}

// AddDependent registers d to be updated by UpdateDependentDomains.
func (p *Property) AddDependent(d Domain) {
	p.dependents = append(p.dependents, d)
}

// UpdateDependentDomains asks every dependent domain to recompute itself from
// this property, typically after an unchecked write.
func (p *Property) UpdateDependentDomains() {
	for _, d := range p.dependents {
		d.Update(p)
	}
}

// OnModified connects fn to changes of the checked value.
func (p *Property) OnModified(fn func()) (disconnect func()) {
	return p.modified.connect(fn)
}

// OnUncheckedModified connects fn to changes of the unchecked value.
func (p *Property) OnUncheckedModified(fn func()) (disconnect func()) {
	return p.uncheckedModified.connect(fn)
}

func (p *Property) NumberOfElements() int {
	return len(p.elements)
}

func (p *Property) UncheckedNumberOfElements() int {
	return len(p.unchecked)
}

// SetNumberOfElements grows or shrinks the checked (and unchecked) vector.
// New elements are zero.
func (p *Property) SetNumberOfElements(n int) {
	if n < 0 || n == len(p.elements) {
		return
	}
	p.elements = resize(p.elements, n, p.kind)
	p.commit()
}

func (p *Property) SetUncheckedNumberOfElements(n int) {
	if n < 0 || n == len(p.unchecked) {
		return
	}
	p.unchecked = resize(p.unchecked, n, p.kind)
	p.uncheckedModified.emit()
}

// Element returns element i of the checked value, or nil when out of range.
func (p *Property) Element(i int) any {
	if i < 0 || i >= len(p.elements) {
		return nil
	}
	return p.elements[i]
}

func (p *Property) UncheckedElement(i int) any {
	if i < 0 || i >= len(p.unchecked) {
		return nil
	}
	return p.unchecked[i]
}

// Elements returns a copy of the checked value.
func (p *Property) Elements() []any {
	return append([]any(nil), p.elements...)
}

func (p *Property) UncheckedElements() []any {
	return append([]any(nil), p.unchecked...)
}

// SetElement writes element i of the checked value. v must already be of
// the storage type for the property's kind, and i must be in range.
func (p *Property) SetElement(i int, v any) bool {
	if i < 0 || i >= len(p.elements) || !isStorageType(p.kind, v) {
		return false
	}
	if p.elements[i] == v {
		p.syncUnchecked()
		return true
	}
	p.elements[i] = v
	p.commit()
	return true
}

// SetElements replaces the checked value, including its length.
func (p *Property) SetElements(values []any) bool {
	for _, v := range values {
		if !isStorageType(p.kind, v) {
			return false
		}
	}
	if equalElements(p.elements, values) {
		p.syncUnchecked()
		return true
	}
	p.elements = append(make([]any, 0, len(values)), values...)
	p.commit()
	return true
}

// SetUncheckedElement writes element i of the unchecked value only.
func (p *Property) SetUncheckedElement(i int, v any) bool {
	if i < 0 || i >= len(p.unchecked) || !isStorageType(p.kind, v) {
		return false
	}
	if p.unchecked[i] != v {
		p.unchecked[i] = v
		p.uncheckedModified.emit()
	}
	return true
}

func (p *Property) SetUncheckedElements(values []any) bool {
	for _, v := range values {
		if !isStorageType(p.kind, v) {
			return false
		}
	}
	if !equalElements(p.unchecked, values) {
		p.unchecked = append(make([]any, 0, len(values)), values...)
		p.uncheckedModified.emit()
	}
	return true
}

// HasUnchecked reports whether the unchecked value differs from the checked
// value.
func (p *Property) HasUnchecked() bool {
	return !equalElements(p.elements, p.unchecked)
}

// ClearUnchecked discards staged values, resetting the unchecked value to
// the checked value.
func (p *Property) ClearUnchecked() {
	p.syncUnchecked()
}

// commit runs after the checked value changed
func (p *Property) commit() {
	if p.proxy != nil {
		p.proxy.markPending(p)
	}
	p.modified.emit()
	p.syncUnchecked()
}

func (p *Property) syncUnchecked() {
	if equalElements(p.elements, p.unchecked) {
		return
	}
	p.unchecked = append(make([]any, 0, len(p.elements)), p.elements...)
	p.uncheckedModified.emit()
}

func isStorageType(kind Kind, v any) bool {
	switch kind {
	case KindDouble:
		_, ok := v.(float64)
		return ok
	case KindInt:
		_, ok := v.(int)
		return ok
	case KindIdType:
		_, ok := v.(int64)
		return ok
	case KindString:
		_, ok := v.(string)
		return ok
	case KindProxy:
		_, ok := v.(*Proxy)
		return ok
	}
	return false
}

func equalElements(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func resize(elements []any, n int, kind Kind) []any {
	if n <= len(elements) {
		return append([]any(nil), elements[:n]...)
	}
	out := append(make([]any, 0, n), elements...)
	for len(out) < n {
		out = append(out, zero(kind))
	}
	return out
}

// setRemote replaces the checked value with one already applied by the
// backing system, so the property is not marked pending.
func (p *Property) setRemote(values []any) {
	if equalElements(p.elements, values) {
		return
	}
	p.elements = values
	p.modified.emit()
	p.syncUnchecked()
}
