package render

import (
	"io"
	"log/slog"
	"strings"

	"github.com/AyushiJais/ftd/cmd/ftdc/ftd"
)

// DNode is a node with deferred children spliced in and visibility decided.
type DNode struct {
	Classes  []string
	Tag      string
	Attrs    map[string]string
	Style    map[string]string
	Children []*DNode
	Text     *string
	Null     bool
	Events   []ftd.RuntimeEvent
	Visible  bool
}

// Renderer turns nodes into DNodes. Data holds the current value of every
// variable, keyed by qualified name, for runtime conditions.
type Renderer struct {
	Data   map[string]string
	Logger *slog.Logger
}

func NewRenderer(data map[string]string, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Renderer{Data: data, Logger: logger}
}

// batch is a set of deferred children waiting for their slot. A batch is
// claimed at most once; claiming clears pending.
type batch struct {
	slot    string
	nodes   []*Node
	pending bool
}

// DNode renders n as the root of document id.
func (r *Renderer) DNode(n *Node, id string) *DNode {
	return r.toDNode(n, nil, nil, "", nil, true, id, false)
}

// toDNode walks n in step with the external container paths that still
// apply below it. ext is the batch handed down from the slot owner, openID
// its slot id and containers the paths, relative to n, where it may land.
func (r *Renderer) toDNode(n *Node, style map[string]string, ext *batch, openID string, containers []ftd.ContainerPath, parentVisible bool, parentID string, isLast bool) *DNode {
	st := make(map[string]string, len(n.Style)+len(style))
	for k, v := range n.Style {
		st[k] = v
	}
	for k, v := range style {
		st[k] = v
	}

	all := append([]*Node(nil), n.Children...)
	if ext != nil && ext.pending && openID != "" &&
		openID == stripSuffix(n.Attrs["data-id"]) &&
		n.OpenID == "" &&
		len(containers) == 0 &&
		((n.IsVisible(r.Data) && parentVisible) || isLast) {
		for _, c := range ext.nodes {
			dataID, ok := c.Attrs["data-id"]
			if !ok {
				continue
			}
			for _, gc := range c.Children {
				all = append(all, gc.withExtID(dataID+":"+parentID))
			}
		}
		ext.pending = false
		ext.nodes = nil
		r.Logger.Debug("spliced deferred children", "slot", openID, "parent", parentID)
	}

	if n.OpenID != "" && len(containers) == 0 {
		openID, containers = n.OpenID, n.ExternalChildrenContainer
	}

	var child *batch
	borrowed := false
	switch {
	case len(containers) == 0:
	case n.OpenID != "" && len(n.ExternalChildren) > 0:
		child = &batch{slot: n.OpenID, nodes: n.ExternalChildren, pending: true}
	default:
		child = ext
		borrowed = true
	}

	visible := n.IsVisible(r.Data)
	index, visibleIndex := 0, 0
	var children []*DNode
	for i, v := range all {
		if v.Tag == "" {
			continue
		}
		var sub []ftd.ContainerPath
		for index < len(containers) {
			c := containers[index]
			if len(c) > 0 {
				if c[0] < i {
					index++
					continue
				}
				if c[0] != i {
					break
				}
				if rest := c[1:]; len(rest) > 0 {
					sub = append(sub, rest)
				}
			}
			index++
		}
		last := len(sub) == 0 && (index >= len(containers) || !otherSiblingVisible(i, all, index, containers))
		if borrowed {
			last = isLast && last
		}
		if v.IsVisible(r.Data) {
			visibleIndex++
		}
		children = append(children, r.toDNode(v, n.fixedChildrenStyle(visibleIndex), child, openID, sub, parentVisible && visible, parentID, last))
	}

	if child != nil && !borrowed && child.pending {
		r.Logger.Debug("dropped unclaimed deferred children", "slot", child.slot, "parent", parentID)
	}

	attrs := make(map[string]string, len(n.Attrs)+1)
	for k, v := range n.Attrs {
		attrs[k] = v
	}
	if oid, ok := n.Attrs["data-id"]; ok {
		attrs["data-id"] = oid + ":" + parentID
	} else {
		attrs["data-id"] = parentID + ":root"
	}

	return &DNode{
		Classes:  n.Classes,
		Tag:      n.Tag,
		Attrs:    attrs,
		Style:    st,
		Children: children,
		Text:     n.Text,
		Null:     n.Null,
		Events:   n.Events,
		Visible:  visible,
	}
}

// otherSiblingVisible reports whether a later pending container still points
// at a real sibling.
func otherSiblingVisible(i int, all []*Node, from int, containers []ftd.ContainerPath) bool {
	for _, c := range containers[from:] {
		if len(c) == 0 || c[0] < i {
			continue
		}
		if c[0] < len(all) && all[c[0]].Tag != "" {
			return true
		}
	}
	return false
}

func stripSuffix(id string) string {
	if before, _, ok := strings.Cut(id, ":"); ok {
		return strings.TrimSpace(before)
	}
	return id
}
