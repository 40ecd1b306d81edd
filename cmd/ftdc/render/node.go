package render

import (
	"strconv"
	"strings"

	"github.com/AyushiJais/ftd/cmd/ftdc/ftd"
)

// Node is the render form of an element. OpenID, ExternalChildren and
// ExternalChildrenContainer carry the deferred children of a slot to the
// splicer.
type Node struct {
	Condition                 *ftd.Condition
	Events                    []ftd.RuntimeEvent
	Classes                   []string
	Tag                       string
	Attrs                     map[string]string
	Style                     map[string]string
	Children                  []*Node
	ExternalChildren          []*Node
	OpenID                    string
	ExternalChildrenContainer []ftd.ContainerPath
	ChildrenStyle             map[string]string
	Text                      *string
	Null                      bool
}

// FromElement converts an element and everything below it.
func FromElement(e ftd.Element, docID string) *Node {
	switch x := e.(type) {
	case *ftd.Row:
		return fromFlex(&x.Common, &x.Container, "row", "margin-left", docID)
	case *ftd.Column:
		return fromFlex(&x.Common, &x.Container, "column", "margin-top", docID)
	case *ftd.Text:
		n := fromCommon(linkTag(&x.Common), &x.Common)
		t := x.Text
		n.Text = &t
		n.Style["text-align"] = "left"
		n.Style["line-height"] = "26px"
		return n
	case *ftd.Image:
		n := fromCommon("img", &x.Common)
		n.Attrs["src"] = x.Src
		n.Attrs["alt"] = escape(x.Description)
		return n
	case *ftd.Input:
		n := fromCommon("input", &x.Common)
		if x.Placeholder != "" {
			n.Attrs["placeholder"] = escape(x.Placeholder)
		}
		return n
	case *ftd.IFrame:
		n := fromCommon("iframe", &x.Common)
		n.Attrs["src"] = x.Src
		n.Attrs["allow"] = "fullscreen"
		return n
	}
	return &Node{Null: true, Attrs: map[string]string{}, Style: map[string]string{}}
}

func linkTag(c *ftd.Common) string {
	if c.Link != "" {
		return "a"
	}
	return "div"
}

func fromCommon(tag string, c *ftd.Common) *Node {
	n := &Node{
		Condition:     c.Condition,
		Events:        c.Events,
		Classes:       []string{"ft_md"},
		Tag:           tag,
		Attrs:         map[string]string{},
		Style:         map[string]string{},
		ChildrenStyle: map[string]string{},
		Null:          c.IsDummy,
	}
	if c.DataID != "" {
		n.Attrs["data-id"] = escape(c.DataID)
	}
	if c.ID != "" {
		n.Attrs["id"] = escape(c.ID)
	}
	if c.Link != "" {
		n.Attrs["href"] = c.Link
	}

	if len(c.Events) > 0 {
		n.Style["cursor"] = "pointer"
	}
	if c.IsNotVisible {
		n.Style["display"] = "none"
	}
	if c.Padding != nil {
		n.Style["padding"] = strconv.FormatInt(*c.Padding, 10) + "px"
	}
	if c.Width != "" {
		n.Style["width"] = length(c.Width)
	}
	if c.Height != "" {
		n.Style["height"] = length(c.Height)
	}
	if c.Color != "" {
		n.Style["color"] = c.Color
	}
	if c.BackgroundColor != "" {
		n.Style["background-color"] = c.BackgroundColor
	}
	return n
}

func fromFlex(c *ftd.Common, cont *ftd.Container, direction, spacing, docID string) *Node {
	n := fromCommon(linkTag(c), c)
	if !c.IsNotVisible {
		n.Style["display"] = "flex"
	}
	n.Style["flex-direction"] = direction
	n.Style["flex-wrap"] = "nowrap"
	if cont.Wrap {
		n.Style["flex-wrap"] = "wrap"
	}
	n.Style["align-items"] = "flex-start"
	n.Style["justify-content"] = "flex-start"
	if cont.Spacing != nil {
		v := strconv.FormatInt(*cont.Spacing, 10) + "px"
		n.ChildrenStyle[spacing] = v
		n.Attrs["data-spacing"] = spacing + ":" + v
	}

	for _, child := range cont.Children {
		n.Children = append(n.Children, FromElement(child, docID))
	}
	if ext := cont.ExternalChildren; ext != nil {
		n.OpenID = ext.ID
		n.ExternalChildrenContainer = ext.Containers
		for _, child := range ext.Children {
			n.ExternalChildren = append(n.ExternalChildren, FromElement(child, docID))
		}
	}
	return n
}

// length maps "fill" and "auto" to CSS and bare numbers to pixels.
func length(v string) string {
	switch v {
	case "fill":
		return "100%"
	case "auto":
		return "auto"
	}
	if _, err := strconv.Atoi(v); err == nil {
		return v + "px"
	}
	return v
}

// escape keeps attribute text inert inside inline scripts.
func escape(s string) string {
	s = strings.ReplaceAll(s, ">", `\u003E`)
	s = strings.ReplaceAll(s, "<", `\u003C`)
	return strings.ReplaceAll(s, "&", `\u0026`)
}

// IsVisible reports whether the node shows with the given data.
func (n *Node) IsVisible(data map[string]string) bool {
	if n.Null {
		return false
	}
	if n.Condition == nil {
		return true
	}
	return n.Condition.IsTrue(data)
}

// fixedChildrenStyle is the style handed to the index-th visible child. The
// first one gets no leading spacing.
func (n *Node) fixedChildrenStyle(index int) map[string]string {
	out := make(map[string]string, len(n.ChildrenStyle))
	for k, v := range n.ChildrenStyle {
		if index == 1 && (k == "margin-left" || k == "margin-top") {
			continue
		}
		out[k] = v
	}
	return out
}

// withExtID returns a copy of n tagged with the slot it was spliced from.
func (n *Node) withExtID(extID string) *Node {
	c := *n
	c.Attrs = make(map[string]string, len(n.Attrs)+1)
	for k, v := range n.Attrs {
		c.Attrs[k] = v
	}
	c.Attrs["data-ext-id"] = extID
	return &c
}
