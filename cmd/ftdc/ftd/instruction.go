package ftd

// Instruction is one step of the stream the executor walks.
type Instruction interface {
	isInstruction()
	LineNumber() int
}

// ChangeContainer moves the insertion point to a named container.
type ChangeContainer struct {
	Name string
	Line int
}

// ComponentInstruction invokes Parent and appends Children into it.
type ComponentInstruction struct {
	Parent   ChildComponent
	Children []ChildComponent
}

type ChildInstruction struct {
	Child ChildComponent
}

type RecursiveChildInstruction struct {
	Child ChildComponent
}

func (*ChangeContainer) isInstruction()           {}
func (*ComponentInstruction) isInstruction()      {}
func (*ChildInstruction) isInstruction()          {}
func (*RecursiveChildInstruction) isInstruction() {}

func (i *ChangeContainer) LineNumber() int           { return i.Line }
func (i *ComponentInstruction) LineNumber() int      { return i.Parent.Line }
func (i *ChildInstruction) LineNumber() int          { return i.Child.Line }
func (i *RecursiveChildInstruction) LineNumber() int { return i.Child.Line }
