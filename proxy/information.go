package proxy

// CompositeType classifies a node of a dataset structure.
type CompositeType string

const (
	NotComposite CompositeType = ""
	MultiBlock   CompositeType = "multiblock"
	MultiPiece   CompositeType = "multipiece"
	AMR          CompositeType = "amr"
)

// DataInformation describes the structure of a dataset produced by the
// backing system. Leaf datasets have no Composite type and no children.
//
// For AMR datasets, the children are the levels, and the children of each
// level are the datasets of that level.
type DataInformation struct {
	Name      string        `json:"name,omitempty" yaml:"name"`
	ClassName string        `json:"className,omitempty" yaml:"class_name"`
	Composite CompositeType `json:"composite,omitempty" yaml:"composite"`
	Children  []Child       `json:"children,omitempty" yaml:"children"`
}

// Child is one entry of a composite dataset. Info may be nil when the
// backing system has no data for the block.
type Child struct {
	Name string           `json:"name,omitempty" yaml:"name"`
	Info *DataInformation `json:"info,omitempty" yaml:"info"`
}

func (d *DataInformation) IsComposite() bool {
	return d != nil && d.Composite != NotComposite
}

func (d *DataInformation) IsMultiPiece() bool {
	return d != nil && d.Composite == MultiPiece
}

func (d *DataInformation) IsAMR() bool {
	return d != nil && d.Composite == AMR
}

func (d *DataInformation) NumberOfChildren() int {
	if d == nil {
		return 0
	}
	return len(d.Children)
}
