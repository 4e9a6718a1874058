package proxy

import "strings"

// Domain describes the legal value space of a property. Concrete domains
// are the *Domain types of this package; Kind identifies which one.
type Domain interface {
	Kind() DomainKind
	Name() string
	// OnModified connects fn to be called whenever the domain's contents
	// change.
	OnModified(fn func()) (disconnect func())
	// Update recomputes the domain after a property it depends on changed.
	Update(source *Property)
}

// DomainBase implements the common parts of Domain. It is embedded in every
// concrete domain type.
type DomainBase struct {
	name     string
	modified signal

	// UpdateFunc, if set, recomputes the domain from source when the
	// domain is asked to Update. Domains become dependents of a property
	// with Property.AddDependent.
	UpdateFunc func(source *Property)
}

func (d *DomainBase) Name() string {
	return d.name
}

func (d *DomainBase) OnModified(fn func()) func() {
	return d.modified.connect(fn)
}

func (d *DomainBase) Update(source *Property) {
	if d.UpdateFunc != nil {
		d.UpdateFunc(source)
	}
}

// Modified emits the modified signal of the domain.
func (d *DomainBase) Modified() {
	d.modified.emit()
}

type BooleanDomain struct {
	DomainBase
}

func NewBooleanDomain(name string) *BooleanDomain {
	return &BooleanDomain{DomainBase{name: name}}
}

func (d *BooleanDomain) Kind() DomainKind { return DomainBoolean }

// EnumEntry is one (label, value) pair of an EnumerationDomain.
type EnumEntry struct {
	Text  string `json:"text" yaml:"text"`
	Value int    `json:"value" yaml:"value"`
}

type EnumerationDomain struct {
	DomainBase
	entries []EnumEntry
}

func NewEnumerationDomain(name string, entries ...EnumEntry) *EnumerationDomain {
	return &EnumerationDomain{DomainBase: DomainBase{name: name}, entries: entries}
}

func (d *EnumerationDomain) Kind() DomainKind { return DomainEnumeration }

func (d *EnumerationDomain) Entries() []EnumEntry {
	return d.entries
}

func (d *EnumerationDomain) SetEntries(entries []EnumEntry) {
	d.entries = entries
	d.Modified()
}

// Label returns the text of the first entry with the given value.
func (d *EnumerationDomain) Label(value int) (string, bool) {
	for _, e := range d.entries {
		if e.Value == value {
			return e.Text, true
		}
	}
	return "", false
}

// Value returns the value of the entry whose text is exactly label.
func (d *EnumerationDomain) Value(label string) (int, bool) {
	for _, e := range d.entries {
		if e.Text == label {
			return e.Value, true
		}
	}
	return 0, false
}

type StringListDomain struct {
	DomainBase
	strings []string
}

func NewStringListDomain(name string, strings ...string) *StringListDomain {
	return &StringListDomain{DomainBase: DomainBase{name: name}, strings: strings}
}

func (d *StringListDomain) Kind() DomainKind { return DomainStringList }

func (d *StringListDomain) Strings() []string {
	return d.strings
}

func (d *StringListDomain) SetStrings(strings []string) {
	d.strings = strings
	d.Modified()
}

func (d *StringListDomain) Contains(s string) bool {
	return indexOf(d.strings, s) >= 0
}

// ArrayInfo names one data array. Partial arrays are only present on some
// blocks of a composite dataset.
type ArrayInfo struct {
	Name    string `json:"name" yaml:"name"`
	Partial bool   `json:"partial" yaml:"partial"`
}

// ArrayListDomain lists the data arrays a property may name.
type ArrayListDomain struct {
	DomainBase
	arrays []ArrayInfo
}

func NewArrayListDomain(name string, arrays ...ArrayInfo) *ArrayListDomain {
	return &ArrayListDomain{DomainBase: DomainBase{name: name}, arrays: arrays}
}

func (d *ArrayListDomain) Kind() DomainKind { return DomainArrayList }

func (d *ArrayListDomain) Arrays() []ArrayInfo {
	return d.arrays
}

func (d *ArrayListDomain) SetArrays(arrays []ArrayInfo) {
	d.arrays = arrays
	d.Modified()
}

func (d *ArrayListDomain) Strings() []string {
	names := make([]string, len(d.arrays))
	for i, a := range d.arrays {
		names[i] = a.Name
	}
	return names
}

func (d *ArrayListDomain) Contains(s string) bool {
	for _, a := range d.arrays {
		if a.Name == s {
			return true
		}
	}
	return false
}

// NamedProxy is a proxy registered under a name within a ProxyGroupDomain.
type NamedProxy struct {
	Name  string
	Proxy *Proxy
}

// ProxyGroupDomain is a named set of proxies a property may reference.
type ProxyGroupDomain struct {
	DomainBase
	group   string
	proxies []NamedProxy
}

func NewProxyGroupDomain(name, group string) *ProxyGroupDomain {
	return &ProxyGroupDomain{DomainBase: DomainBase{name: name}, group: group}
}

func (d *ProxyGroupDomain) Kind() DomainKind { return DomainProxyGroup }

func (d *ProxyGroupDomain) Group() string {
	return d.group
}

func (d *ProxyGroupDomain) Proxies() []NamedProxy {
	return d.proxies
}

// Add registers px under name, replacing any proxy already using the name.
func (d *ProxyGroupDomain) Add(name string, px *Proxy) {
	for i := range d.proxies {
		if d.proxies[i].Name == name {
			d.proxies[i].Proxy = px
			d.Modified()
			return
		}
	}
	d.proxies = append(d.proxies, NamedProxy{name, px})
	d.Modified()
}

func (d *ProxyGroupDomain) ProxyByName(name string) *Proxy {
	for _, np := range d.proxies {
		if np.Name == name {
			return np.Proxy
		}
	}
	return nil
}

func (d *ProxyGroupDomain) NameOf(px *Proxy) (string, bool) {
	for _, np := range d.proxies {
		if np.Proxy == px {
			return np.Name, true
		}
	}
	return "", false
}

// Range bounds one element of a range domain.
type Range struct {
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	HasMin bool    `json:"has_min" yaml:"has_min"`
	HasMax bool    `json:"has_max" yaml:"has_max"`
}

// RangeDomain holds per-element bounds, for double or int properties.
type RangeDomain struct {
	DomainBase
	kind   DomainKind
	ranges []Range
}

func NewDoubleRangeDomain(name string, ranges ...Range) *RangeDomain {
	return &RangeDomain{DomainBase: DomainBase{name: name}, kind: DomainDoubleRange, ranges: ranges}
}

func NewIntRangeDomain(name string, ranges ...Range) *RangeDomain {
	return &RangeDomain{DomainBase: DomainBase{name: name}, kind: DomainIntRange, ranges: ranges}
}

func (d *RangeDomain) Kind() DomainKind { return d.kind }

func (d *RangeDomain) Ranges() []Range {
	return d.ranges
}

func (d *RangeDomain) SetRanges(ranges []Range) {
	d.ranges = ranges
	d.Modified()
}

// InRange reports whether v satisfies the bounds for element i. Elements
// without a range are unbounded.
func (d *RangeDomain) InRange(i int, v float64) bool {
	if i < 0 || i >= len(d.ranges) {
		return true
	}
	r := d.ranges[i]
	if r.HasMin && v < r.Min {
		return false
	}
	if r.HasMax && v > r.Max {
		return false
	}
	return true
}

// StringListRangeDomain is the ordered list of names used by selection
// properties, where each name is paired with a value.
type StringListRangeDomain struct {
	DomainBase
	strings []string
}

func NewStringListRangeDomain(name string, strings ...string) *StringListRangeDomain {
	return &StringListRangeDomain{DomainBase: DomainBase{name: name}, strings: strings}
}

func (d *StringListRangeDomain) Kind() DomainKind { return DomainStringListRange }

func (d *StringListRangeDomain) Strings() []string {
	return d.strings
}

func (d *StringListRangeDomain) SetStrings(strings []string) {
	d.strings = strings
	d.Modified()
}

func (d *StringListRangeDomain) Contains(s string) bool {
	return indexOf(d.strings, s) >= 0
}

// CompositeTreeMode restricts which nodes of a composite tree are
// addressable by a property.
type CompositeTreeMode int

const (
	ModeAll CompositeTreeMode = iota
	ModeLeaves
	ModeNonLeaves
	ModeNone
)

var compositeTreeModeNames = []string{"all", "leaves", "non_leaves", "none"}

func (m CompositeTreeMode) String() string {
	if m < 0 || int(m) >= len(compositeTreeModeNames) {
		return "invalid"
	}
	return compositeTreeModeNames[m]
}

// ParseCompositeTreeMode returns the mode named by s; unknown names are ModeAll.
func ParseCompositeTreeMode(s string) CompositeTreeMode {
	if i := indexOf(compositeTreeModeNames, strings.ToLower(strings.TrimSpace(s))); i >= 0 {
		return CompositeTreeMode(i)
	}
	return ModeAll
}

// CompositeTreeDomain carries the structure of the composite dataset that a
// property selects blocks from.
type CompositeTreeDomain struct {
	DomainBase
	mode CompositeTreeMode
	info *DataInformation
}

func NewCompositeTreeDomain(name string, mode CompositeTreeMode) *CompositeTreeDomain {
	return &CompositeTreeDomain{DomainBase: DomainBase{name: name}, mode: mode}
}

func (d *CompositeTreeDomain) Kind() DomainKind { return DomainCompositeTree }

func (d *CompositeTreeDomain) Mode() CompositeTreeMode {
	return d.mode
}

func (d *CompositeTreeDomain) Information() *DataInformation {
	return d.info
}

// SetInformation replaces the dataset structure. Observers of the domain are
// notified, since any tree built over the old structure is now stale.
func (d *CompositeTreeDomain) SetInformation(info *DataInformation) {
	d.info = info
	d.Modified()
}

// ProxyListDomain is a fixed menu of proxies a proxy property may select.
type ProxyListDomain struct {
	DomainBase
	proxies []*Proxy
}

func NewProxyListDomain(name string, proxies ...*Proxy) *ProxyListDomain {
	return &ProxyListDomain{DomainBase: DomainBase{name: name}, proxies: proxies}
}

func (d *ProxyListDomain) Kind() DomainKind { return DomainProxyList }

func (d *ProxyListDomain) Proxies() []*Proxy {
	return d.proxies
}

func (d *ProxyListDomain) Add(px *Proxy) {
	d.proxies = append(d.proxies, px)
	d.Modified()
}

func (d *ProxyListDomain) Contains(px *Proxy) bool {
	for _, p := range d.proxies {
		if p == px {
			return true
		}
	}
	return false
}

// FileListDomain marks a string property as a list of file names.
type FileListDomain struct {
	DomainBase
}

func NewFileListDomain(name string) *FileListDomain {
	return &FileListDomain{DomainBase{name: name}}
}

func (d *FileListDomain) Kind() DomainKind { return DomainFileList }

// SILDomain marks a property as selecting from a subset inclusion lattice.
// Subtree names the branch of the lattice the property addresses.
type SILDomain struct {
	DomainBase
	Subtree string
}

func NewSILDomain(name, subtree string) *SILDomain {
	return &SILDomain{DomainBase: DomainBase{name: name}, Subtree: subtree}
}

func (d *SILDomain) Kind() DomainKind { return DomainSIL }

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
