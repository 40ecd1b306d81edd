package ftd

// Element is a node of the built tree. Containers are Row and Column; Null
// stands for nothing.
type Element interface {
	isElement()
	GetCommon() *Common
}

// Common carries what every visible element kind has.
type Common struct {
	DataID          string
	ID              string
	Link            string
	Condition       *Condition
	Events          []RuntimeEvent
	IsNotVisible    bool
	IsDummy         bool
	Padding         *int64
	Width           string
	Height          string
	Color           string
	BackgroundColor string
}

// Container is the child-carrying part of Row and Column.
//
// Open forces or forbids taking the following instructions as children; unset
// means open while the container is still empty. AppendAt names the slot that
// receives content from elsewhere in the stream, gathered into
// ExternalChildren.
type Container struct {
	Children         []Element
	ExternalChildren *ExternalChildren
	Open             *bool
	AppendAt         string
	Spacing          *int64
	Wrap             bool
}

// ExternalChildren is content collected for a slot during the build. The
// render pass splices it at Containers, which are relative to the owner.
type ExternalChildren struct {
	ID         string
	Containers []ContainerPath
	Children   []Element
}

type Row struct {
	Common    Common
	Container Container
}

type Column struct {
	Common    Common
	Container Container
}

type Text struct {
	Common Common
	Text   string
}

type Image struct {
	Common      Common
	Src         string
	Description string
}

type Input struct {
	Common      Common
	Placeholder string
}

type IFrame struct {
	Common Common
	Src    string
}

type Null struct{}

func (*Row) isElement()    {}
func (*Column) isElement() {}
func (*Text) isElement()   {}
func (*Image) isElement()  {}
func (*Input) isElement()  {}
func (*IFrame) isElement() {}
func (*Null) isElement()   {}

func (e *Row) GetCommon() *Common    { return &e.Common }
func (e *Column) GetCommon() *Common { return &e.Common }
func (e *Text) GetCommon() *Common   { return &e.Common }
func (e *Image) GetCommon() *Common  { return &e.Common }
func (e *Input) GetCommon() *Common  { return &e.Common }
func (e *IFrame) GetCommon() *Common { return &e.Common }
func (*Null) GetCommon() *Common     { return nil }

// ContainerOf returns the container part of a Row or Column.
func ContainerOf(e Element) (*Container, bool) {
	switch x := e.(type) {
	case *Row:
		return &x.Container, true
	case *Column:
		return &x.Container, true
	}
	return nil, false
}

// ContainerID returns the id the element registers itself under, if any.
func ContainerID(e Element) string {
	if c := e.GetCommon(); c != nil {
		return c.DataID
	}
	return ""
}

// IsOpenContainer reports whether the element takes the following
// instructions as children, and the slot id it accepts external content under.
func IsOpenContainer(e Element) (bool, string) {
	c, ok := ContainerOf(e)
	if !ok {
		return false, ""
	}
	open := len(c.Children) == 0 && c.ExternalChildren == nil
	if c.Open != nil {
		open = *c.Open
	}
	return open, c.AppendAt
}

// KindName is the short kind label of an element.
func KindName(e Element) string {
	switch e.(type) {
	case *Row:
		return "row"
	case *Column:
		return "column"
	case *Text:
		return "text"
	case *Image:
		return "image"
	case *Input:
		return "input"
	case *IFrame:
		return "iframe"
	}
	return "null"
}

func defaultColumn() *Column {
	return &Column{Common: Common{Width: "fill"}}
}

// Walk visits e and its descendants depth first with their paths relative
// to e. Returning false skips the children of that element.
func Walk(e Element, path ContainerPath, fn func(Element, ContainerPath) bool) {
	if !fn(e, path) {
		return
	}
	c, ok := ContainerOf(e)
	if !ok {
		return
	}
	for i, child := range c.Children {
		Walk(child, path.Child(i), fn)
	}
}

// At returns the element at path below root.
func At(root Element, path ContainerPath) (Element, bool) {
	cur := root
	for _, i := range path {
		c, ok := ContainerOf(cur)
		if !ok || i < 0 || i >= len(c.Children) {
			return nil, false
		}
		cur = c.Children[i]
	}
	return cur, true
}
